package orderControllers

import (
	"testing"

	"github.com/MuhdAdnan/jj-halal-farms/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedCatalog(t *testing.T, db *gorm.DB) (models.User, models.Product, models.Product) {
	t.Helper()

	user := models.User{Email: "tunde@example.com", PasswordHash: "x", FullName: "Tunde Okafor", Role: models.RoleCustomer, Active: true}
	require.NoError(t, db.Create(&user).Error)

	eggs := models.Product{Name: "Crate of Eggs", Category: models.CategoryPoultry, Price: decimal.NewFromInt(500), Stock: 10}
	tilapia := models.Product{Name: "Tilapia", Category: models.CategoryFish, Price: decimal.NewFromInt(1000), Stock: 5}
	require.NoError(t, db.Create(&eggs).Error)
	require.NoError(t, db.Create(&tilapia).Error)
	return user, eggs, tilapia
}

func TestBuildOrderSnapshotsPricesAndComputesTotal(t *testing.T) {
	db := setupTestDB(t)
	user, eggs, tilapia := seedCatalog(t, db)

	cart := map[uint]int{eggs.ID: 2, tilapia.ID: 1}
	order, err := BuildOrder(db, user, cart, CheckoutRequest{
		DeliveryMethod: "delivery",
		PaymentMethod:  "paystack",
	})
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(2000).Equal(order.TotalAmount))
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Len(t, order.Items, 2)
	assert.Len(t, order.PaymentReference, 32)
	assert.False(t, order.StockDeducted)

	// Price is captured per line; a later catalog change must not leak in.
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", eggs.ID).
		Update("price", decimal.NewFromInt(9999)).Error)
	saved := reloadOrder(t, db, order.ID)
	for _, item := range saved.Items {
		if item.ProductID == eggs.ID {
			assert.True(t, decimal.NewFromInt(500).Equal(item.Price))
		}
	}
	assert.True(t, decimal.NewFromInt(2000).Equal(saved.TotalAmount))

	// Stock is untouched at build time; deduction happens at reconciliation.
	assert.Equal(t, 10, productStock(t, db, eggs.ID))
}

func TestBuildOrderPayOnDeliveryStartsAwaitingPayment(t *testing.T) {
	db := setupTestDB(t)
	user, eggs, _ := seedCatalog(t, db)

	order, err := BuildOrder(db, user, map[uint]int{eggs.ID: 1}, CheckoutRequest{
		DeliveryMethod: "pickup",
		PaymentMethod:  "pay_on_delivery",
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusAwaitingPayment, order.Status)
	assert.Equal(t, models.DeliveryMethodPickup, order.DeliveryMethod)
}

func TestBuildOrderAbortsWhenStockLost(t *testing.T) {
	db := setupTestDB(t)
	user, eggs, tilapia := seedCatalog(t, db)

	// Another shopper got there first.
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", tilapia.ID).Update("stock", 0).Error)

	_, err := BuildOrder(db, user, map[uint]int{eggs.ID: 2, tilapia.ID: 1}, CheckoutRequest{
		DeliveryMethod: "delivery",
		PaymentMethod:  "paystack",
	})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	// Nothing was persisted.
	var orderCount, itemCount int64
	db.Model(&models.Order{}).Count(&orderCount)
	db.Model(&models.OrderItem{}).Count(&itemCount)
	assert.Zero(t, orderCount)
	assert.Zero(t, itemCount)
}

func TestBuildOrderRejectsEmptyCart(t *testing.T) {
	db := setupTestDB(t)
	user, _, _ := seedCatalog(t, db)

	_, err := BuildOrder(db, user, map[uint]int{}, CheckoutRequest{
		DeliveryMethod: "delivery",
		PaymentMethod:  "paystack",
	})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestBuildOrderGeneratesFreshReferences(t *testing.T) {
	db := setupTestDB(t)
	user, eggs, _ := seedCatalog(t, db)

	first, err := BuildOrder(db, user, map[uint]int{eggs.ID: 1}, CheckoutRequest{
		DeliveryMethod: "delivery", PaymentMethod: "paystack",
	})
	require.NoError(t, err)
	second, err := BuildOrder(db, user, map[uint]int{eggs.ID: 1}, CheckoutRequest{
		DeliveryMethod: "delivery", PaymentMethod: "paystack",
	})
	require.NoError(t, err)

	assert.NotEqual(t, first.PaymentReference, second.PaymentReference)
}

func TestBuildOrderFallsBackToAccountContactDetails(t *testing.T) {
	db := setupTestDB(t)
	user, eggs, _ := seedCatalog(t, db)

	order, err := BuildOrder(db, user, map[uint]int{eggs.ID: 1}, CheckoutRequest{
		DeliveryMethod: "delivery",
		PaymentMethod:  "paystack",
	})
	require.NoError(t, err)
	assert.Equal(t, "Tunde Okafor", order.FullName)
}
