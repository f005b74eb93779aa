package paystackControllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	orderControllers "github.com/MuhdAdnan/jj-halal-farms/controllers/order"
	"github.com/MuhdAdnan/jj-halal-farms/gateway/paystack"
	"github.com/MuhdAdnan/jj-halal-farms/middleware"
	"github.com/MuhdAdnan/jj-halal-farms/models"
	"github.com/MuhdAdnan/jj-halal-farms/session"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testJWTSecret = "test-jwt-secret"

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
	))
	return db
}

// seedGatewayOrder creates a customer and a pending Paystack order for
// 2x ₦500: total ₦1000, reference "ref-1000".
func seedGatewayOrder(t *testing.T, db *gorm.DB) (models.User, models.Product, models.Order) {
	t.Helper()

	user := models.User{Email: "amina@example.com", PasswordHash: "x", Role: models.RoleCustomer, Active: true}
	require.NoError(t, db.Create(&user).Error)

	chicken := models.Product{Name: "Whole Chicken", Category: models.CategoryPoultry, Price: decimal.NewFromInt(500), Stock: 10}
	require.NoError(t, db.Create(&chicken).Error)

	order := models.Order{
		UserID:           user.ID,
		FullName:         "Amina Bello",
		PaymentMethod:    models.PaymentMethodPaystack,
		DeliveryMethod:   models.DeliveryMethodDelivery,
		TotalAmount:      decimal.NewFromInt(1000),
		Status:           models.OrderStatusPending,
		PaymentReference: "ref-1000",
		Items: []models.OrderItem{
			{ProductID: chicken.ID, ProductName: chicken.Name, Quantity: 2, Price: chicken.Price},
		},
	}
	require.NoError(t, db.Create(&order).Error)
	return user, chicken, order
}

func reloadOrder(t *testing.T, db *gorm.DB, id uint) models.Order {
	t.Helper()
	var order models.Order
	require.NoError(t, db.First(&order, "id = ?", id).Error)
	return order
}

func productStock(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var product models.Product
	require.NoError(t, db.First(&product, "id = ?", id).Error)
	return product.Stock
}

func webhookRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/payment/webhook", WebhookHandler(db))
	return r
}

func postWebhook(r *gin.Engine, payload string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/payment/webhook", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func chargeSuccessPayload(order models.Order, amount int64, status string) string {
	statusField := ""
	if status != "" {
		statusField = fmt.Sprintf(`"status":%q,`, status)
	}
	return fmt.Sprintf(
		`{"event":"charge.success","data":{%s"reference":%q,"amount":%d,"metadata":{"order_id":%d,"user_id":%d}}}`,
		statusField, order.PaymentReference, amount, order.ID, order.UserID,
	)
}

func TestWebhookCompletesOrderAndDeductsStock(t *testing.T) {
	db := setupTestDB(t)
	_, chicken, order := seedGatewayOrder(t, db)

	w := postWebhook(webhookRouter(db), chargeSuccessPayload(order, order.AmountMinorUnits(), "success"))
	assert.Equal(t, http.StatusOK, w.Code)

	saved := reloadOrder(t, db, order.ID)
	assert.Equal(t, models.OrderStatusCompleted, saved.Status)
	assert.True(t, saved.StockDeducted)
	assert.Equal(t, 8, productStock(t, db, chicken.ID))
}

func TestWebhookDefaultsMissingStatusToSuccess(t *testing.T) {
	db := setupTestDB(t)
	_, chicken, order := seedGatewayOrder(t, db)

	// charge.success events imply the transaction succeeded even when the
	// data block omits a status field.
	w := postWebhook(webhookRouter(db), chargeSuccessPayload(order, order.AmountMinorUnits(), ""))
	assert.Equal(t, http.StatusOK, w.Code)

	saved := reloadOrder(t, db, order.ID)
	assert.Equal(t, models.OrderStatusCompleted, saved.Status)
	assert.Equal(t, 8, productStock(t, db, chicken.ID))
}

func TestWebhookIgnoresOtherEvents(t *testing.T) {
	db := setupTestDB(t)
	_, chicken, order := seedGatewayOrder(t, db)

	payload := fmt.Sprintf(`{"event":"charge.dispute.create","data":{"reference":%q}}`, order.PaymentReference)
	w := postWebhook(webhookRouter(db), payload)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ignored")

	saved := reloadOrder(t, db, order.ID)
	assert.Equal(t, models.OrderStatusPending, saved.Status)
	assert.Equal(t, 10, productStock(t, db, chicken.ID))
}

func TestWebhookIgnoresMissingReference(t *testing.T) {
	db := setupTestDB(t)
	seedGatewayOrder(t, db)

	w := postWebhook(webhookRouter(db), `{"event":"charge.success","data":{"amount":100000}}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ignored")
}

func TestWebhookUnknownReference(t *testing.T) {
	db := setupTestDB(t)
	seedGatewayOrder(t, db)

	payload := `{"event":"charge.success","data":{"status":"success","reference":"no-such-ref","amount":100000,"metadata":{"order_id":1,"user_id":1}}}`
	w := postWebhook(webhookRouter(db), payload)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWebhookAmountMismatchAsksForRetry(t *testing.T) {
	db := setupTestDB(t)
	_, chicken, order := seedGatewayOrder(t, db)

	// 400 tells the gateway the event was not consumed, so it retries.
	w := postWebhook(webhookRouter(db), chargeSuccessPayload(order, 50000, "success"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	saved := reloadOrder(t, db, order.ID)
	assert.Equal(t, models.OrderStatusFailed, saved.Status)
	assert.Equal(t, 10, productStock(t, db, chicken.ID))
}

func TestWebhookMalformedPayload(t *testing.T) {
	db := setupTestDB(t)
	seedGatewayOrder(t, db)

	w := postWebhook(webhookRouter(db), `{"event":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// gatewayStub serves a canned verify response for one reference.
func gatewayStub(t *testing.T, order models.Order, status string, amount int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/verify/"+order.PaymentReference, r.URL.Path)
		fmt.Fprintf(w,
			`{"status":true,"data":{"status":%q,"reference":%q,"amount":%d,"metadata":{"order_id":%d,"user_id":%d}}}`,
			status, order.PaymentReference, amount, order.ID, order.UserID,
		)
	}))
}

func verifyRouter(db *gorm.DB, gw *paystack.Client) *gin.Engine {
	gin.SetMode(gin.TestMode)
	store := session.New("127.0.0.1:1") // unreachable; cart cleanup is best-effort
	r := gin.New()
	r.GET("/payment/verify",
		middleware.Session(),
		middleware.Authenticate(testJWTSecret),
		VerifyHandler(db, store, gw),
	)
	return r
}

func getVerify(t *testing.T, r *gin.Engine, user models.User, reference string) *httptest.ResponseRecorder {
	t.Helper()
	token, err := middleware.IssueToken(testJWTSecret, user)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/payment/verify?reference="+reference, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestVerifyCompletesOrder(t *testing.T) {
	db := setupTestDB(t)
	user, chicken, order := seedGatewayOrder(t, db)

	srv := gatewayStub(t, order, "success", order.AmountMinorUnits())
	defer srv.Close()
	gw := paystack.NewClient("sk_test", srv.URL)

	w := getVerify(t, verifyRouter(db, gw), user, order.PaymentReference)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"completed"`)

	saved := reloadOrder(t, db, order.ID)
	assert.Equal(t, models.OrderStatusCompleted, saved.Status)
	assert.Equal(t, 8, productStock(t, db, chicken.ID))
}

func TestVerifyDeclinedTransaction(t *testing.T) {
	db := setupTestDB(t)
	user, _, order := seedGatewayOrder(t, db)

	srv := gatewayStub(t, order, "abandoned", order.AmountMinorUnits())
	defer srv.Close()
	gw := paystack.NewClient("sk_test", srv.URL)

	w := getVerify(t, verifyRouter(db, gw), user, order.PaymentReference)
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Contains(t, w.Body.String(), "Payment was not successful.")

	saved := reloadOrder(t, db, order.ID)
	assert.Equal(t, models.OrderStatusFailed, saved.Status)
}

func TestVerifyGatewayDown(t *testing.T) {
	db := setupTestDB(t)
	user, _, order := seedGatewayOrder(t, db)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections
	gw := paystack.NewClient("sk_test", srv.URL)

	w := getVerify(t, verifyRouter(db, gw), user, order.PaymentReference)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	// The order stays pending so the webhook can still reconcile it.
	saved := reloadOrder(t, db, order.ID)
	assert.Equal(t, models.OrderStatusPending, saved.Status)
}

func TestVerifyMissingReference(t *testing.T) {
	db := setupTestDB(t)
	user, _, order := seedGatewayOrder(t, db)

	srv := gatewayStub(t, order, "success", order.AmountMinorUnits())
	defer srv.Close()
	gw := paystack.NewClient("sk_test", srv.URL)

	w := getVerify(t, verifyRouter(db, gw), user, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVerifySomeoneElsesOrder(t *testing.T) {
	db := setupTestDB(t)
	_, _, order := seedGatewayOrder(t, db)

	other := models.User{Email: "tunde@example.com", PasswordHash: "x", Role: models.RoleCustomer, Active: true}
	require.NoError(t, db.Create(&other).Error)

	srv := gatewayStub(t, order, "success", order.AmountMinorUnits())
	defer srv.Close()
	gw := paystack.NewClient("sk_test", srv.URL)

	w := getVerify(t, verifyRouter(db, gw), other, order.PaymentReference)
	assert.Equal(t, http.StatusNotFound, w.Code)

	saved := reloadOrder(t, db, order.ID)
	assert.Equal(t, models.OrderStatusPending, saved.Status)
}

func TestVerifyFailedOrderIsNotReportedCompleted(t *testing.T) {
	db := setupTestDB(t)
	user, chicken, order := seedGatewayOrder(t, db)

	// An earlier declined report already failed the order; the gateway now
	// claims success for the same reference.
	declined := orderControllers.GatewayReport{
		Reference: order.PaymentReference,
		Status:    "failed",
		Amount:    order.AmountMinorUnits(),
		OrderID:   int64(order.ID),
		UserID:    int64(order.UserID),
	}
	_, _, err := orderControllers.ApplyGatewayReport(db, declined, 0)
	require.NoError(t, err)

	srv := gatewayStub(t, order, "success", order.AmountMinorUnits())
	defer srv.Close()
	gw := paystack.NewClient("sk_test", srv.URL)

	w := getVerify(t, verifyRouter(db, gw), user, order.PaymentReference)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.NotContains(t, w.Body.String(), `"completed"`)

	saved := reloadOrder(t, db, order.ID)
	assert.Equal(t, models.OrderStatusFailed, saved.Status)
	assert.Equal(t, 10, productStock(t, db, chicken.ID))
}
