package domain

import "time"

// DefaultCountry is applied when an address is created with a blank country.
const DefaultCountry = "Brasil"

// Address represents a shipping or billing address owned by a user.
// AddressType is a free-form tag such as HOME, WORK, BILLING or SHIPPING.
type Address struct {
	ID           int64     `json:"id"`
	Street       string    `json:"street"`
	Number       string    `json:"number,omitempty"`
	Complement   string    `json:"complement,omitempty"`
	Neighborhood string    `json:"neighborhood,omitempty"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	ZipCode      string    `json:"zipCode"`
	Country      string    `json:"country"`
	AddressType  string    `json:"addressType,omitempty"`
	IsDefault    bool      `json:"isDefault"`
	UserID       int64     `json:"userId"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
