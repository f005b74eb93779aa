package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string
type DeliveryMethod string
type PaymentMethod string

const (
	OrderStatusPending         OrderStatus = "pending"          // gateway payment initiated, not yet reconciled
	OrderStatusAwaitingPayment OrderStatus = "awaiting_payment" // pay on delivery / pickup
	OrderStatusCompleted       OrderStatus = "completed"
	OrderStatusFailed          OrderStatus = "failed"
	OrderStatusCancelled       OrderStatus = "cancelled"

	DeliveryMethodDelivery DeliveryMethod = "delivery"
	DeliveryMethodPickup   DeliveryMethod = "pickup"

	PaymentMethodPaystack      PaymentMethod = "paystack"
	PaymentMethodPayOnDelivery PaymentMethod = "pay_on_delivery"
)

var validNext = map[OrderStatus]map[OrderStatus]bool{
	OrderStatusPending:         {OrderStatusCompleted: true, OrderStatusFailed: true, OrderStatusCancelled: true},
	OrderStatusAwaitingPayment: {OrderStatusCompleted: true},
	OrderStatusCompleted:       {},
	OrderStatusFailed:          {},
	OrderStatusCancelled:       {},
}

func CanTransition(from, to OrderStatus) bool {
	return validNext[from][to]
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusAwaitingPayment, OrderStatusCompleted,
		OrderStatusFailed, OrderStatusCancelled:
		return OrderStatus(s), nil
	default:
		return "", errors.New("invalid order status")
	}
}

// Order snapshots customer and pricing details at checkout. After creation
// only Status, PaymentVerifiedAt and StockDeducted change.
type Order struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	UserID            uint            `gorm:"not null;index" json:"user_id"`
	User              User            `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Items             []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	FullName          string          `json:"full_name"`
	Phone             string          `json:"phone"`
	DeliveryMethod    DeliveryMethod  `gorm:"type:VARCHAR(20);default:'delivery'" json:"delivery_method"`
	PaymentMethod     PaymentMethod   `gorm:"type:VARCHAR(20);default:'paystack'" json:"payment_method"`
	DeliveryAddress   string          `json:"delivery_address"`
	TotalAmount       decimal.Decimal `gorm:"type:decimal(10,2)" json:"total_amount"`
	Status            OrderStatus     `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	PaymentReference  string          `gorm:"uniqueIndex;size:100" json:"payment_reference"`
	PaymentVerifiedAt *time.Time      `json:"payment_verified_at"`
	StockDeducted     bool            `gorm:"not null;default:false" json:"stock_deducted"`
	CreatedAt         time.Time       `json:"created_at"`
}

// AmountMinorUnits converts the total to the gateway's kobo representation.
func (o *Order) AmountMinorUnits() int64 {
	return o.TotalAmount.Mul(decimal.NewFromInt(100)).IntPart()
}

// OrderItem captures price and product name at order creation so later
// catalog edits or deletions do not rewrite history.
type OrderItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	OrderID     uint            `gorm:"index" json:"order_id"`
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2)" json:"price"`
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
