package orderControllers

import (
	"errors"
	"time"

	"github.com/MuhdAdnan/jj-halal-farms/models"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound = errors.New("order not found for this payment")
	// ErrIntegrity covers reports that cannot belong to the order at all
	// (wrong payment method). The order is left untouched.
	ErrIntegrity = errors.New("payment report rejected")
)

// GatewayReport is the gateway's view of one transaction, normalized from
// either the verify response or the webhook payload so both entry points
// share the same decision logic.
type GatewayReport struct {
	Reference string
	Status    string // "success" when paid
	Amount    int64  // minor units
	OrderID   int64
	UserID    int64
}

type Outcome int

const (
	// OutcomeComplete: transition the order to completed and deduct stock.
	OutcomeComplete Outcome = iota
	// OutcomeAlreadyCompleted: duplicate delivery of a verified payment, no-op.
	OutcomeAlreadyCompleted
	// OutcomeDeclined: gateway says the transaction was not successful.
	OutcomeDeclined
	// OutcomeAmountMismatch: paid amount differs from the order total.
	OutcomeAmountMismatch
	// OutcomeMetadataMismatch: echoed order/user ids do not match.
	OutcomeMetadataMismatch
	// OutcomeMethodMismatch: the order is not a gateway order. Rejected
	// without touching state.
	OutcomeMethodMismatch
	// OutcomeStateConflict: a successful report arrived for an order that is
	// terminal but not completed (failed or cancelled). Nothing changes; the
	// caller reports the order's actual state instead of claiming success.
	OutcomeStateConflict
)

// Decide is the single decision function both reconciliation paths apply.
// It is pure: callers persist the resulting transition via ApplyGatewayReport.
func Decide(order models.Order, report GatewayReport) Outcome {
	if order.PaymentMethod != models.PaymentMethodPaystack {
		return OutcomeMethodMismatch
	}
	if report.Status != "success" {
		return OutcomeDeclined
	}
	if report.Amount != order.AmountMinorUnits() {
		return OutcomeAmountMismatch
	}
	if report.OrderID != int64(order.ID) || report.UserID != int64(order.UserID) {
		return OutcomeMetadataMismatch
	}
	if order.Status == models.OrderStatusCompleted {
		return OutcomeAlreadyCompleted
	}
	if !models.CanTransition(order.Status, models.OrderStatusCompleted) {
		return OutcomeStateConflict
	}
	return OutcomeComplete
}

// ApplyGatewayReport looks up the order by payment reference and applies the
// shared decision. ownerID > 0 restricts the lookup to that customer (the
// verify redirect); the webhook passes 0 since it has no session context.
//
// Both paths may observe the same payment, in either order or concurrently.
// The completed transition and the stock deduction are conditional updates,
// so the final state is completed exactly once with stock deducted exactly
// once no matter how many reports arrive.
func ApplyGatewayReport(db *gorm.DB, report GatewayReport, ownerID uint) (*models.Order, Outcome, error) {
	q := db.Preload("Items").Where("payment_reference = ?", report.Reference)
	if ownerID > 0 {
		q = q.Where("user_id = ?", ownerID)
	}

	var order models.Order
	if err := q.First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrOrderNotFound
		}
		return nil, 0, err
	}

	outcome := Decide(order, report)
	switch outcome {
	case OutcomeMethodMismatch:
		return &order, outcome, ErrIntegrity

	case OutcomeAlreadyCompleted, OutcomeStateConflict:
		return &order, outcome, nil

	case OutcomeDeclined, OutcomeAmountMismatch, OutcomeMetadataMismatch:
		if err := markFailed(db, &order); err != nil {
			return &order, outcome, err
		}
		return &order, outcome, nil

	default: // OutcomeComplete
		if err := CompleteOrder(db, &order); err != nil {
			return &order, outcome, err
		}
		if order.Status != models.OrderStatusCompleted {
			// The claim affected zero rows: another report won the race
			// between our read and the update. Re-read so the reported
			// outcome matches the state that actually stuck.
			if err := db.First(&order, "id = ?", order.ID).Error; err != nil {
				return &order, outcome, err
			}
			if order.Status == models.OrderStatusCompleted {
				outcome = OutcomeAlreadyCompleted
			} else {
				outcome = OutcomeStateConflict
			}
		}
		return &order, outcome, nil
	}
}

// markFailed moves the order to failed if the state machine allows it.
// A completed order never regresses.
func markFailed(db *gorm.DB, order *models.Order) error {
	if !models.CanTransition(order.Status, models.OrderStatusFailed) {
		return nil
	}
	res := db.Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, order.Status).
		Update("status", models.OrderStatusFailed)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		order.Status = models.OrderStatusFailed
	}
	return nil
}

// CompleteOrder performs the terminal success transition exactly once: a
// conditional update claims the order, and only the claimant deducts stock.
// Redundant invocations are no-ops.
func CompleteOrder(db *gorm.DB, order *models.Order) error {
	return db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status IN ?", order.ID,
				[]models.OrderStatus{models.OrderStatusPending, models.OrderStatusAwaitingPayment}).
			Updates(map[string]interface{}{
				"status":              models.OrderStatusCompleted,
				"payment_verified_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Lost the race to the other path, or the order is terminal.
			return nil
		}
		order.Status = models.OrderStatusCompleted
		order.PaymentVerifiedAt = &now
		return DeductStock(tx, order)
	})
}

// DeductStock decrements each line item's product stock, floored at zero.
// The one-shot stock_deducted flag is claimed with a conditional update so
// repeated triggers (verify, webhook, admin completion) never double-deduct.
func DeductStock(tx *gorm.DB, order *models.Order) error {
	res := tx.Model(&models.Order{}).
		Where("id = ? AND stock_deducted = ?", order.ID, false).
		Update("stock_deducted", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return nil
	}
	order.StockDeducted = true

	for _, item := range order.Items {
		if err := tx.Model(&models.Product{}).
			Where("id = ?", item.ProductID).
			Update("stock", gorm.Expr(
				"CASE WHEN stock >= ? THEN stock - ? ELSE 0 END",
				item.Quantity, item.Quantity,
			)).Error; err != nil {
			return err
		}
	}
	return nil
}
