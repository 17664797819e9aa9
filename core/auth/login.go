package auth

import (
	"context"
	"fmt"

	"github.com/irsalhamdi/playstation-store/core/session"
	"github.com/irsalhamdi/playstation-store/core/user"
	"github.com/irsalhamdi/playstation-store/rate"
	"github.com/sirupsen/logrus"
)

const (
	LoginFailed    = "Failed to log in"
	RegisterFailed = "Failed to register account"
)

type Authenticator interface {
	Login(ctx context.Context, form user.LoginForm) (user.Information, error)
}

type Registrar interface {
	Register(ctx context.Context, form user.RegisterForm) error
}

type LoginConfig struct {
	API       Authenticator
	Sessions  *session.Store
	Navigator Navigator
	Limiter   *rate.Limiter
	Log       logrus.FieldLogger
}

// LoginFlow persists the session and navigates home on success.
type LoginFlow struct {
	*flow
	api      Authenticator
	sessions *session.Store
	nav      Navigator
}

func NewLogin(cfg LoginConfig) *LoginFlow {
	nav := cfg.Navigator
	if nav == nil {
		nav = NavigatorFunc(func(string) {})
	}
	return &LoginFlow{
		flow:     newFlow(LoginFailed, cfg.Limiter, cfg.Log),
		api:      cfg.API,
		sessions: cfg.Sessions,
		nav:      nav,
	}
}

func (f *LoginFlow) Submit(ctx context.Context, form user.LoginForm) (user.Information, error) {
	if err := f.begin(form.Email); err != nil {
		return user.Information{}, err
	}

	info, err := f.api.Login(ctx, form)
	if err != nil {
		f.fail(err)
		return user.Information{}, err
	}

	if err := f.sessions.Save(ctx, info); err != nil {
		err = fmt.Errorf("persisting session: %w", err)
		f.fail(err)
		return user.Information{}, err
	}

	f.log.WithField("email", info.Email).Info("logged in")
	f.succeed()
	f.nav.Navigate(session.Home)
	return info, nil
}

type RegisterConfig struct {
	API       Registrar
	Navigator Navigator
	Limiter   *rate.Limiter
	Log       logrus.FieldLogger
}

// RegisterFlow sends the user to the login form once the account exists.
type RegisterFlow struct {
	*flow
	api Registrar
	nav Navigator
}

func NewRegister(cfg RegisterConfig) *RegisterFlow {
	nav := cfg.Navigator
	if nav == nil {
		nav = NavigatorFunc(func(string) {})
	}
	return &RegisterFlow{
		flow: newFlow(RegisterFailed, cfg.Limiter, cfg.Log),
		api:  cfg.API,
		nav:  nav,
	}
}

func (f *RegisterFlow) Submit(ctx context.Context, form user.RegisterForm) error {
	if err := f.begin(form.Email); err != nil {
		return err
	}

	if err := f.api.Register(ctx, form); err != nil {
		f.fail(err)
		return err
	}

	f.log.WithField("email", form.Email).Info("account registered")
	f.succeed()
	f.nav.Navigate(session.Login)
	return nil
}
