package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sustaina-market/storefront/internal/checkout"
	"github.com/sustaina-market/storefront/internal/validation"
)

func (a *api) submitCheckout(c *gin.Context) {
	ctx := c.Request.Context()

	idempKey := c.GetHeader("Idempotency-Key")
	if idempKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_idempotency_key"})
		return
	}

	var req validation.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request_body", "msg": err.Error()})
		return
	}

	// Prefill convenience only: a signed-in shopper who left email blank
	// gets their session email on the order.
	if req.Email == "" {
		req.Email = SessionFrom(c).Email
	}

	cartID := a.cartID(c)
	st := a.carts.Get(ctx, cartID)
	flow := a.flowFor(cartID, st)

	res, err := flow.Submit(ctx, req, idempKey)
	if err != nil {
		a.writeCheckoutError(c, err)
		return
	}

	// this checkout session is done; the next submission starts a new flow
	a.releaseFlow(cartID)

	if res.Duplicate && res.ReplayBody != "" {
		c.Data(res.ReplayStatus, "application/json", []byte(res.ReplayBody))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"order_id": res.OrderID, "status": "Pending", "created_at": res.CreatedAt})
}

func (a *api) writeCheckoutError(c *gin.Context, err error) {
	var ve *checkout.ValidationError
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty_cart"})
	case errors.Is(err, checkout.ErrSubmissionInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": "submission_in_flight"})
	case errors.Is(err, checkout.ErrAlreadyCompleted):
		c.JSON(http.StatusConflict, gin.H{"error": "checkout_already_completed"})
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "fields": ve.Fields})
	case errors.Is(err, checkout.ErrPlacementInProgress):
		c.JSON(http.StatusAccepted, gin.H{"message": "request already in progress"})
	case errors.Is(err, checkout.ErrPreviousAttemptFailed):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "previous_attempt_failed"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "order_submission_failed", "detail": err.Error()})
	}
}
