package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"WonFM/core/payment"
	"WonFM/logger"
)

// CheckoutRequest represents a checkout session request.
type CheckoutRequest struct {
	Quantity int64 `json:"quantity"`
}

// CheckoutHandler handles POST /api/stripe-checkout.
func (h *APIHandler) CheckoutHandler(w http.ResponseWriter, r *http.Request) {
	// When Stripe is unconfigured the failure is plain text, not the
	// usual {error} JSON shape.
	if !h.payments.Configured() {
		http.Error(w, payment.ErrNotConfigured.Error(), http.StatusInternalServerError)
		return
	}

	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	origin := r.Header.Get("Origin")
	if origin == "" {
		origin = "http://" + r.Host
	}

	var userID string
	if id, err := GetUserIDFromContext(r.Context()); err == nil {
		userID = strconv.FormatInt(id, 10)
	}

	url, err := h.payments.CreateCheckoutSession(req.Quantity, origin, userID)
	if err != nil {
		if errors.Is(err, payment.ErrNotConfigured) {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		logger.Error("[API] Checkout session failed", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
