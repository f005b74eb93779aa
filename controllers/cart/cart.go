package cartControllers

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"github.com/MuhdAdnan/jj-halal-farms/middleware"
	"github.com/MuhdAdnan/jj-halal-farms/models"
	"github.com/MuhdAdnan/jj-halal-farms/session"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CartItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

type CartLine struct {
	Product   models.Product  `json:"product"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// clampQuantity caps a requested quantity at available stock. Reports
// whether clamping happened so the handler can surface a notice.
func clampQuantity(requested, stock int) (int, bool) {
	if requested > stock {
		return stock, true
	}
	return requested, false
}

func stockNotice(product models.Product) string {
	return fmt.Sprintf("Only %d units available for %s.", product.Stock, product.Name)
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// Snapshot resolves the session cart against the live catalog. Totals are
// recomputed from current prices on every call so a cart can never hold a
// stale price. Lines whose product was archived are dropped.
func Snapshot(db *gorm.DB, cart map[uint]int) ([]CartLine, decimal.Decimal, error) {
	ids := make([]uint, 0, len(cart))
	for pid := range cart {
		ids = append(ids, pid)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	lines := make([]CartLine, 0, len(ids))
	total := decimal.Zero
	for _, pid := range ids {
		var product models.Product
		if err := db.First(&product, "id = ?", pid).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, decimal.Zero, err
		}
		qty := cart[pid]
		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(qty)))
		total = total.Add(lineTotal)
		lines = append(lines, CartLine{Product: product, Quantity: qty, LineTotal: lineTotal})
	}
	return lines, total, nil
}

// GET /cart
func GetCart(db *gorm.DB, store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := middleware.SessionID(c)
		cart, err := store.Cart(c.Request.Context(), sid)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		items, total, err := Snapshot(db, cart)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
	}
}

// POST /cart — adds to any existing quantity, clamped to available stock.
func AddToCart(db *gorm.DB, store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if input.Quantity < 1 {
			input.Quantity = 1
		}

		var product models.Product
		if err := db.First(&product, "id = ?", input.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Product does not exist"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate product"})
			return
		}

		if product.Stock <= 0 {
			c.JSON(http.StatusConflict, gin.H{"error": product.Name + " is out of stock."})
			return
		}

		sid := middleware.SessionID(c)
		cart, err := store.Cart(c.Request.Context(), sid)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}

		newQty, clamped := clampQuantity(cart[product.ID]+input.Quantity, product.Stock)
		if err := store.SetQuantity(c.Request.Context(), sid, product.ID, newQty); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
			return
		}

		resp := gin.H{"message": product.Name + " added to cart.", "quantity": newQty}
		if clamped {
			resp["notice"] = stockNotice(product)
		}
		c.JSON(http.StatusOK, resp)
	}
}

// PUT /cart/:product_id — sets the quantity; zero or less removes the line.
func UpdateCartItem(db *gorm.DB, store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := parseID(c.Param("product_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
			return
		}

		var input struct {
			Quantity int `json:"quantity"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		sid := middleware.SessionID(c)
		if input.Quantity <= 0 {
			if err := store.Remove(c.Request.Context(), sid, productID); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
			return
		}

		var product models.Product
		if err := db.First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Product does not exist"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate product"})
			return
		}

		if product.Stock <= 0 {
			_ = store.Remove(c.Request.Context(), sid, productID)
			c.JSON(http.StatusConflict, gin.H{"error": product.Name + " is out of stock."})
			return
		}

		newQty, clamped := clampQuantity(input.Quantity, product.Stock)
		if err := store.SetQuantity(c.Request.Context(), sid, productID, newQty); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
			return
		}

		resp := gin.H{"message": "Cart updated", "quantity": newQty}
		if clamped {
			resp["notice"] = stockNotice(product)
		}
		c.JSON(http.StatusOK, resp)
	}
}

// DELETE /cart/:product_id
func RemoveFromCart(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := parseID(c.Param("product_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
			return
		}
		sid := middleware.SessionID(c)
		if err := store.Remove(c.Request.Context(), sid, productID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart item deleted"})
	}
}
