package profile

import "time"

// Profile mirrors the identity provider's user with storefront details.
// ID is the provider's user id.
type Profile struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	FullName   *string   `json:"full_name"`
	Phone      *string   `json:"phone"`
	Address    *string   `json:"address"`
	City       *string   `json:"city"`
	State      *string   `json:"state"`
	PostalCode *string   `json:"postal_code"`
	Country    *string   `json:"country"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Address is the shipping address saved back to the profile at checkout.
type Address struct {
	Address    string
	City       string
	State      string
	PostalCode string
	Country    string
}

type UpdateParams struct {
	FullName   *string `json:"full_name"`
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
	City       *string `json:"city"`
	State      *string `json:"state"`
	PostalCode *string `json:"postal_code"`
	Country    *string `json:"country"`
}

// ShippingAddress returns the saved address, with empty strings for unset
// fields.
func (p *Profile) ShippingAddress() Address {
	return Address{
		Address:    deref(p.Address),
		City:       deref(p.City),
		State:      deref(p.State),
		PostalCode: deref(p.PostalCode),
		Country:    deref(p.Country),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
