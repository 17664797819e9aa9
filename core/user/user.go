// Package user covers storefront accounts: the login and registration
// calls, the /users integration helper, and the sandbox handlers serving them.
package user

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type Token struct {
	Access  string `json:"access" validate:"required"`
	Refresh string `json:"refresh" validate:"required"`
}

type ShippingAddress struct {
	Address string `json:"address"`
	City    string `json:"city"`
	Country string `json:"country"`
	State   string `json:"state"`
	Default bool   `json:"default"`
}

// ShippingAddresses accepts the three shapes the API sends: a list of
// address ids, a single address or a list of addresses.
type ShippingAddresses struct {
	IDs       []int
	Addresses []ShippingAddress
}

func (s *ShippingAddresses) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*s = ShippingAddresses{}
		return nil
	}

	if b[0] == '{' {
		var a ShippingAddress
		if err := json.Unmarshal(b, &a); err != nil {
			return err
		}
		*s = ShippingAddresses{Addresses: []ShippingAddress{a}}
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		return fmt.Errorf("shipping addresses: %w", err)
	}

	var out ShippingAddresses
	for _, it := range items {
		it = bytes.TrimSpace(it)
		if len(it) > 0 && it[0] == '{' {
			var a ShippingAddress
			if err := json.Unmarshal(it, &a); err != nil {
				return err
			}
			out.Addresses = append(out.Addresses, a)
			continue
		}

		var id int
		if err := json.Unmarshal(it, &id); err != nil {
			return fmt.Errorf("shipping address id: %w", err)
		}
		out.IDs = append(out.IDs, id)
	}
	*s = out
	return nil
}

func (s ShippingAddresses) MarshalJSON() ([]byte, error) {
	if len(s.Addresses) > 0 {
		return json.Marshal(s.Addresses)
	}
	if s.IDs == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.IDs)
}

// Information is the account returned by a successful login; it is what the
// client keeps as its session.
type Information struct {
	FirstName         string             `json:"first_name"`
	LastName          string             `json:"last_name"`
	Email             string             `json:"email"`
	Token             Token              `json:"token"`
	ShippingAddresses *ShippingAddresses `json:"shipping_addressess,omitempty"`
}

type LoginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterForm struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
}

// Account is a user as listed by the /users endpoint.
type Account struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}
