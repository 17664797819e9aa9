package user

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/irsalhamdi/playstation-store/validate"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken     = errors.New("email already registered")
	ErrBadCredentials = errors.New("bad credentials")
)

type record struct {
	Account
	hash      []byte
	addresses []ShippingAddress
}

// Accounts is the in-memory user table behind the sandbox API.
type Accounts struct {
	mu      sync.RWMutex
	byEmail map[string]*record
	order   []string
	cost    int
}

func NewAccounts() *Accounts {
	return &Accounts{
		byEmail: make(map[string]*record),
		cost:    bcrypt.DefaultCost,
	}
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create stores a new account with a hashed password.
func (a *Accounts) Create(form RegisterForm) (Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), a.cost)
	if err != nil {
		return Account{}, fmt.Errorf("hashing password: %w", err)
	}

	key := normalize(form.Email)

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.byEmail[key]; ok {
		return Account{}, ErrEmailTaken
	}

	rec := &record{
		Account: Account{
			ID:        validate.GenerateID(),
			FirstName: form.FirstName,
			LastName:  form.LastName,
			Email:     key,
		},
		hash: hash,
	}
	a.byEmail[key] = rec
	a.order = append(a.order, key)

	return rec.Account, nil
}

// Authenticate returns the account matching the credentials. An unknown
// email and a wrong password are the same error.
func (a *Accounts) Authenticate(email, password string) (Account, []ShippingAddress, error) {
	a.mu.RLock()
	rec, ok := a.byEmail[normalize(email)]
	a.mu.RUnlock()

	if !ok {
		return Account{}, nil, ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword(rec.hash, []byte(password)); err != nil {
		return Account{}, nil, ErrBadCredentials
	}
	return rec.Account, append([]ShippingAddress(nil), rec.addresses...), nil
}

// AddAddress attaches a shipping address to the account with the given email.
func (a *Accounts) AddAddress(email string, addr ShippingAddress) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	rec, ok := a.byEmail[normalize(email)]
	if !ok {
		return fmt.Errorf("account[%s] not found", email)
	}
	rec.addresses = append(rec.addresses, addr)
	return nil
}

// List returns accounts in creation order.
func (a *Accounts) List() []Account {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]Account, 0, len(a.order))
	for _, k := range a.order {
		out = append(out, a.byEmail[k].Account)
	}
	return out
}
