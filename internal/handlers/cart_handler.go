package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sustaina-market/storefront/internal/cart"
	"github.com/sustaina-market/storefront/internal/catalog"
)

const cartIDHeader = "X-Cart-Id"

// cartID resolves which cart a request operates on: explicit header
// first, then the signed-in user's email, otherwise a fresh ID the
// client is expected to keep. The header is echoed back either way.
func (a *api) cartID(c *gin.Context) string {
	id := c.GetHeader(cartIDHeader)
	if id == "" {
		if s := SessionFrom(c); s.IsAuthenticated {
			id = s.Email
		}
	}
	if id == "" {
		id = uuid.NewString()
	}
	c.Header(cartIDHeader, id)
	return id
}

func (a *api) cartView(s cart.Snapshot) gin.H {
	return gin.H{
		"items":  s,
		"count":  s.Count(),
		"totals": a.pricing.Totals(s),
	}
}

func (a *api) getCart(c *gin.Context) {
	st := a.carts.Get(c.Request.Context(), a.cartID(c))
	c.JSON(http.StatusOK, a.cartView(st.Snapshot()))
}

type addItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

func (a *api) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request_body", "msg": err.Error()})
		return
	}

	p, err := a.catalog.Get(req.ProductID)
	if errors.Is(err, catalog.ErrProductNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "product_not_found"})
		return
	}

	st := a.carts.Get(c.Request.Context(), a.cartID(c))
	snap := st.Add(c.Request.Context(), cart.LineItem{
		ID:        p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		ImageRef:  p.Image,
	})

	view := a.cartView(snap)
	// contract with the UI: adding opens the cart drawer
	view["open_cart"] = true
	c.JSON(http.StatusOK, view)
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (a *api) updateCartItem(c *gin.Context) {
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request_body", "msg": err.Error()})
		return
	}

	st := a.carts.Get(c.Request.Context(), a.cartID(c))
	snap := st.UpdateQuantity(c.Request.Context(), c.Param("id"), req.Quantity)
	c.JSON(http.StatusOK, a.cartView(snap))
}

func (a *api) removeCartItem(c *gin.Context) {
	st := a.carts.Get(c.Request.Context(), a.cartID(c))
	snap := st.Remove(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, a.cartView(snap))
}

func (a *api) clearCart(c *gin.Context) {
	st := a.carts.Get(c.Request.Context(), a.cartID(c))
	snap := st.Clear(c.Request.Context())
	c.JSON(http.StatusOK, a.cartView(snap))
}
