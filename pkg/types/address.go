package types

import "strings"

// Address is a shipping destination, stored as a jsonb document.
type Address struct {
	Street     string `json:"street" validate:"required"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	Country    string `json:"country" validate:"required"`
}

// IsZero reports whether no field of the address is populated.
func (a Address) IsZero() bool {
	return strings.TrimSpace(a.Street) == "" &&
		strings.TrimSpace(a.City) == "" &&
		strings.TrimSpace(a.State) == "" &&
		strings.TrimSpace(a.PostalCode) == "" &&
		strings.TrimSpace(a.Country) == ""
}
