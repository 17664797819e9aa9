package order

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/irsalhamdi/playstation-store/core/catalog"
	"github.com/irsalhamdi/playstation-store/validate"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound      = errors.New("order not found")
	ErrUnknownItem   = errors.New("unknown product")
	ErrNotEnoughItem = errors.New("not enough stock")
)

// Book keeps the orders of the sandbox API in memory and prices them
// against a fixed catalog.
type Book struct {
	mu       sync.RWMutex
	orders   map[string]Order
	ids      []string
	products map[catalog.ID]catalog.Product
	now      func() time.Time
}

func NewBook(products []catalog.Product) *Book {
	b := &Book{
		orders:   make(map[string]Order),
		products: make(map[catalog.ID]catalog.Product, len(products)),
		now:      time.Now,
	}
	for _, p := range products {
		b.products[p.ID] = p
	}
	return b
}

// Create prices no and stores it as pending. Lines for the same product
// are merged and the running total is checked against stock.
func (b *Book) Create(no NewOrder) (Order, error) {
	qty := map[catalog.ID]int{}
	var seq []catalog.ID
	for _, it := range no.Items {
		p, ok := b.products[it.ProductID]
		if !ok {
			return Order{}, fmt.Errorf("product[%s]: %w", it.ProductID, ErrUnknownItem)
		}
		if it.Quantity > p.Stock-qty[p.ID] {
			return Order{}, fmt.Errorf("product[%s] has %d left: %w", p.ID, p.Stock, ErrNotEnoughItem)
		}
		if _, ok := qty[p.ID]; !ok {
			seq = append(seq, p.ID)
		}
		qty[p.ID] += it.Quantity
	}

	now := b.now().UTC()
	ord := Order{
		ID:        validate.GenerateID(),
		Email:     strings.ToLower(no.Email),
		Items:     make([]Item, 0, len(seq)),
		Total:     decimal.Zero,
		Status:    Pending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	for _, id := range seq {
		p := b.products[id]
		ord.Items = append(ord.Items, Item{ProductID: id, Name: p.Name, Quantity: qty[id], Price: p.Price})
		ord.Total = ord.Total.Add(p.Price.Mul(decimal.NewFromInt(int64(qty[id]))))
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.orders[ord.ID] = ord
	b.ids = append(b.ids, ord.ID)
	return ord, nil
}

func (b *Book) Get(id string) (Order, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ord, ok := b.orders[id]
	if !ok {
		return Order{}, fmt.Errorf("order[%s]: %w", id, ErrNotFound)
	}
	return ord, nil
}

// List returns orders in creation order, only those of email when it is set.
func (b *Book) List(email string) []Order {
	b.mu.RLock()
	defer b.mu.RUnlock()

	email = strings.ToLower(email)
	out := make([]Order, 0, len(b.ids))
	for _, id := range b.ids {
		if ord := b.orders[id]; email == "" || ord.Email == email {
			out = append(out, ord)
		}
	}
	return out
}

func (b *Book) UpdateStatus(id string, status Status) (Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ord, ok := b.orders[id]
	if !ok {
		return Order{}, fmt.Errorf("order[%s]: %w", id, ErrNotFound)
	}
	ord.Status = status
	ord.UpdatedAt = b.now().UTC()
	b.orders[id] = ord
	return ord, nil
}

func (b *Book) Delete(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.orders[id]; !ok {
		return fmt.Errorf("order[%s]: %w", id, ErrNotFound)
	}
	delete(b.orders, id)
	for i, v := range b.ids {
		if v == id {
			b.ids = append(b.ids[:i], b.ids[i+1:]...)
			break
		}
	}
	return nil
}
