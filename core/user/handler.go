package user

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/irsalhamdi/playstation-store/api/web"
	"github.com/irsalhamdi/playstation-store/api/weberr"
	"github.com/irsalhamdi/playstation-store/validate"
)

func HandleLogin(accounts *Accounts, issuer Issuer) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		var form LoginForm
		if err := web.Decode(w, r, &form); err != nil {
			return weberr.BadRequest(fmt.Errorf("decoding login: %w", err))
		}
		if err := validate.Check(form); err != nil {
			return weberr.Invalid(err)
		}

		acc, addrs, err := accounts.Authenticate(form.Email, form.Password)
		if err != nil {
			return weberr.BadCredentials(err, weberr.WithFields(map[string]any{"email": form.Email}))
		}

		tok, err := issuer.Issue(acc)
		if err != nil {
			return fmt.Errorf("issuing tokens for user[%s]: %w", acc.ID, err)
		}

		info := Information{
			FirstName:         acc.FirstName,
			LastName:          acc.LastName,
			Email:             acc.Email,
			Token:             tok,
			ShippingAddresses: &ShippingAddresses{Addresses: addrs},
		}
		return web.Respond(ctx, w, info, http.StatusOK)
	}
}

// HandleRegister creates an account and acknowledges it with the literal
// RegistrationSuccess string.
func HandleRegister(accounts *Accounts) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		if _, err := create(w, r, accounts); err != nil {
			return err
		}
		return web.Respond(ctx, w, RegistrationSuccess, http.StatusCreated)
	}
}

func HandleList(accounts *Accounts) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return web.Respond(ctx, w, accounts.List(), http.StatusOK)
	}
}

func HandleCreate(accounts *Accounts) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		acc, err := create(w, r, accounts)
		if err != nil {
			return err
		}
		return web.Respond(ctx, w, acc, http.StatusCreated)
	}
}

func create(w http.ResponseWriter, r *http.Request, accounts *Accounts) (Account, error) {
	var form RegisterForm
	if err := web.Decode(w, r, &form); err != nil {
		return Account{}, weberr.BadRequest(fmt.Errorf("decoding registration: %w", err))
	}
	if err := validate.Check(form); err != nil {
		return Account{}, weberr.Invalid(err)
	}

	acc, err := accounts.Create(form)
	switch {
	case errors.Is(err, ErrEmailTaken):
		return Account{}, weberr.Forbidden(err, err.Error(), weberr.WithFields(map[string]any{"email": form.Email}))
	case err != nil:
		return Account{}, fmt.Errorf("creating account: %w", err)
	}
	return acc, nil
}
