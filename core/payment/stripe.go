package payment

import (
	"errors"
	"fmt"

	"WonFM/logger"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"
)

// ErrNotConfigured is returned when no Stripe secret key is set.
var ErrNotConfigured = errors.New("Stripe not configured. Set STRIPE_SECRET_KEY to enable checkout.")

// Client creates Stripe checkout sessions for a single fixed price.
type Client struct {
	secretKey string
	priceID   string
}

// NewClient builds a payment client. An empty secretKey disables checkout.
func NewClient(secretKey, priceID string) *Client {
	return &Client{secretKey: secretKey, priceID: priceID}
}

// Configured reports whether checkout can run.
func (c *Client) Configured() bool {
	return c.secretKey != ""
}

// CreateCheckoutSession creates a payment session and returns its redirect
// URL. origin is the requesting site's origin for the success/cancel URLs.
func (c *Client) CreateCheckoutSession(quantity int64, origin string, userID string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}
	if quantity <= 0 {
		quantity = 1
	}

	stripe.Key = c.secretKey

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(c.priceID),
				Quantity: stripe.Int64(quantity),
			},
		},
		SuccessURL: stripe.String(origin + "/?success=true"),
		CancelURL:  stripe.String(origin + "/?canceled=true"),
	}
	if userID != "" {
		params.AddMetadata("userId", userID)
	}

	sess, err := session.New(params)
	if err != nil {
		logger.Error("[Stripe] Checkout session creation failed", logger.ErrorField(err))
		return "", fmt.Errorf("Error creating checkout session: %v", err)
	}

	logger.Info("[Stripe] Checkout session created", logger.String("sessionId", sess.ID))
	return sess.URL, nil
}
