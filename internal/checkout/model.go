package checkout

import (
	"strings"
	"time"

	"hoodies-be/internal/cart"
	"hoodies-be/internal/pricing"
)

// State is where a checkout attempt stands. A failed submission returns to
// Collecting with the cart untouched.
type State string

const (
	StateCollecting State = "collecting"
	StateSubmitting State = "submitting"
	StateConfirmed  State = "confirmed"
)

const DefaultCountry = "India"

type Address struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Request places the cart of SessionID for UserID. An empty SessionID
// means the cart is keyed by the user id.
type Request struct {
	UserID    string
	Email     string
	SessionID string
	Address   Address
}

func (r Request) cartSession() string {
	if r.SessionID != "" {
		return r.SessionID
	}
	return r.UserID
}

// Form is the pre-filled checkout page: saved address plus cart preview.
type Form struct {
	State   State      `json:"state"`
	Address Address    `json:"address"`
	Cart    *cart.View `json:"cart"`
}

type Confirmation struct {
	State    State           `json:"state"`
	OrderIDs []int64         `json:"order_ids"`
	Summary  pricing.Summary `json:"summary"`
	PlacedAt time.Time       `json:"placed_at"`
}

// normalize trims every field, defaults the country and reports the first
// missing required field.
func (a Address) normalize() (Address, error) {
	out := Address{
		Address:    strings.TrimSpace(a.Address),
		City:       strings.TrimSpace(a.City),
		State:      strings.TrimSpace(a.State),
		PostalCode: strings.TrimSpace(a.PostalCode),
		Country:    strings.TrimSpace(a.Country),
	}
	if out.Country == "" {
		out.Country = DefaultCountry
	}

	required := []struct {
		name  string
		value string
	}{
		{"address", out.Address},
		{"city", out.City},
		{"state", out.State},
		{"postal_code", out.PostalCode},
	}
	for _, f := range required {
		if f.value == "" {
			return Address{}, &MissingFieldError{Field: f.name}
		}
	}

	return out, nil
}
