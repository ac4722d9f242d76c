package domain

import (
	"encoding/binary"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// OrderNumberPrefix prefixes every client-style order number.
const OrderNumberPrefix = "LUX-"

const orderNumberLength = 9

// orderNumberSpace is 36^9, the number of distinct order codes.
const orderNumberSpace = 101559956668416

// CheckoutForm is the contact, shipping and payment data collected at checkout.
// Card data is only validated for shape; nothing is charged.
type CheckoutForm struct {
	Email      string `json:"email" validate:"required,email"`
	FirstName  string `json:"firstName" validate:"required,max=100"`
	LastName   string `json:"lastName" validate:"required,max=100"`
	Address    string `json:"address" validate:"required,max=300"`
	City       string `json:"city" validate:"required,max=100"`
	State      string `json:"state" validate:"required,max=100"`
	ZipCode    string `json:"zipCode" validate:"required,max=20"`
	Country    string `json:"country" validate:"required,max=100"`
	CardNumber string `json:"cardNumber" validate:"required,min=12,max=23"`
	CardName   string `json:"cardName" validate:"required,max=200"`
	ExpiryDate string `json:"expiryDate" validate:"required,expiry"`
	CVV        string `json:"cvv" validate:"required,numeric,min=3,max=4"`
}

// OrderConfirmation is returned by a simulated checkout. It is not stored.
type OrderConfirmation struct {
	OrderNumber string       `json:"orderNumber"`
	Email       string       `json:"email"`
	Items       []CartItem   `json:"items"`
	Summary     OrderSummary `json:"summary"`
	PlacedAt    time.Time    `json:"placedAt"`
}

// NewOrderNumber derives a LUX- prefixed, 9 character base36 order number
// from the low-order digits of a random UUID.
func NewOrderNumber(id uuid.UUID) string {
	n := binary.BigEndian.Uint64(id[:8]) % orderNumberSpace
	s := strings.ToUpper(strconv.FormatUint(n, 36))
	return OrderNumberPrefix + strings.Repeat("0", orderNumberLength-len(s)) + s
}
