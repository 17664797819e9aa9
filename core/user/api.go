package user

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/irsalhamdi/playstation-store/client"
	"github.com/irsalhamdi/playstation-store/validate"
)

const (
	LoginPath    = "/api/users/login"
	RegisterPath = "/api/users/register"

	// RegistrationSuccess is the whole body of a successful registration.
	RegistrationSuccess = "Successful Registeration"
)

var jsonHeaders = client.Headers{"Content-Type": "application/json"}

// loginResponse is the wire shape of a login reply. Pointers tell a missing
// field apart from an empty one.
type loginResponse struct {
	FirstName         *string            `json:"first_name" validate:"required"`
	LastName          *string            `json:"last_name"`
	Email             *string            `json:"email"`
	Token             *Token             `json:"token" validate:"required"`
	ShippingAddresses *ShippingAddresses `json:"shipping_addressess"`
}

// API performs the account calls of the admin portal.
type API struct {
	c *client.Client
}

func NewAPI(c *client.Client) *API {
	return &API{c: c}
}

// Login exchanges credentials for the account information and tokens.
func (a *API) Login(ctx context.Context, form LoginForm) (Information, error) {
	if err := validate.Check(form); err != nil {
		return Information{}, err
	}

	var raw json.RawMessage
	if err := a.c.Post(ctx, LoginPath, jsonHeaders, form, &raw); err != nil {
		return Information{}, fmt.Errorf("logging in: %w", err)
	}

	var resp loginResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return Information{}, fmt.Errorf("logging in: %w", client.ShapeMismatch(http.MethodPost, LoginPath, err))
	}
	if err := validate.Check(resp); err != nil {
		return Information{}, fmt.Errorf("logging in: %w", client.ShapeMismatch(http.MethodPost, LoginPath, err))
	}

	return Information{
		FirstName:         *resp.FirstName,
		LastName:          deref(resp.LastName),
		Email:             deref(resp.Email),
		Token:             *resp.Token,
		ShippingAddresses: resp.ShippingAddresses,
	}, nil
}

// Register creates an account. The server acknowledges with the literal
// RegistrationSuccess; anything else is a shape mismatch.
func (a *API) Register(ctx context.Context, form RegisterForm) error {
	if err := validate.Check(form); err != nil {
		return err
	}

	var raw json.RawMessage
	if err := a.c.Post(ctx, RegisterPath, jsonHeaders, form, &raw); err != nil {
		return fmt.Errorf("registering: %w", err)
	}

	var ack string
	if err := json.Unmarshal(raw, &ack); err != nil {
		return fmt.Errorf("registering: %w", client.ShapeMismatch(http.MethodPost, RegisterPath, err))
	}
	if ack != RegistrationSuccess {
		err := fmt.Errorf("unexpected acknowledgement %q", ack)
		return fmt.Errorf("registering: %w", client.ShapeMismatch(http.MethodPost, RegisterPath, err))
	}

	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Directory is the integration helper over /users.
type Directory struct {
	c *client.Client
}

func NewDirectory(c *client.Client) *Directory {
	return &Directory{c: c}
}

func (d *Directory) List(ctx context.Context) ([]Account, error) {
	var accounts []Account
	if err := d.c.Get(ctx, "/users", nil, &accounts); err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return accounts, nil
}

func (d *Directory) Create(ctx context.Context, form RegisterForm) (Account, error) {
	if err := validate.Check(form); err != nil {
		return Account{}, err
	}

	var acc Account
	if err := d.c.Post(ctx, "/users", jsonHeaders, form, &acc); err != nil {
		return Account{}, fmt.Errorf("creating user: %w", err)
	}
	if acc.ID == "" {
		return Account{}, client.ShapeMismatch(http.MethodPost, "/users", fmt.Errorf("created user has no id"))
	}
	return acc, nil
}
