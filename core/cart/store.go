package cart

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/irsalhamdi/playstation-store/core/catalog"
	"github.com/irsalhamdi/playstation-store/storage"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Storage        storage.Storage
	Notifier       Notifier
	Log            logrus.FieldLogger
	PersistTimeout time.Duration
}

// Store is the single source of truth of a shopping session. Every action is
// synchronous and cannot fail; the resulting state is written to storage
// after each change and handed to subscribers.
type Store struct {
	mu    sync.Mutex
	state State

	storage storage.Storage
	notify  Notifier
	log     logrus.FieldLogger
	timeout time.Duration

	subs   map[int]func(State)
	nextID int
}

// New rehydrates a store from cfg.Storage. A blob that cannot be decoded is
// logged and ignored; only a failing read is an error.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Storage == nil {
		return nil, errors.New("cart store needs a storage")
	}

	s := &Store{
		storage: cfg.Storage,
		notify:  cfg.Notifier,
		log:     cfg.Log,
		timeout: cfg.PersistTimeout,
		subs:    make(map[int]func(State)),
	}
	if s.log == nil {
		nop := logrus.New()
		nop.SetOutput(io.Discard)
		s.log = nop
	}
	if s.notify == nil {
		s.notify = NotifierFunc(func(Notification) {})
	}
	if s.timeout <= 0 {
		s.timeout = 5 * time.Second
	}

	b, err := cfg.Storage.Get(ctx, Key)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("reading persisted cart: %w", err)
	}

	st, err := decode(b)
	if err != nil {
		s.log.WithError(err).Warn("discarding persisted cart")
		return s, nil
	}
	s.state = st

	return s, nil
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.clone()
}

// Item returns the line with the given id.
func (s *Store) Item(id catalog.ID) (Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.state.find(id); i >= 0 {
		return s.state.Items[i], true
	}
	return Item{}, false
}

// Subscribe registers fn to receive the state after every change. The
// returned function unregisters it.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// AddItem merges item into the line with the same id, adding its quantity,
// or appends it as a new line. Quantities below one count as one.
func (s *Store) AddItem(item Item) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	s.mutate(func(st *State) bool {
		if i := st.find(item.ID); i >= 0 {
			st.Items[i].Quantity = addQuantity(st.Items[i].Quantity, item.Quantity)
			return true
		}
		st.Items = append(st.Items, item)
		return true
	})

	s.notify.Notify(Notification{Level: LevelSuccess, Message: MsgAdded})
}

// IncreaseQuantity adds one unit to the line with the given id.
func (s *Store) IncreaseQuantity(id catalog.ID) {
	s.mutate(func(st *State) bool {
		i := st.find(id)
		if i < 0 || st.Items[i].Quantity == math.MaxInt {
			return false
		}
		st.Items[i].Quantity++
		return true
	})
}

// DecreaseQuantity removes one unit from the line with the given id. A line
// at quantity one is left alone; use DeleteItem to drop it.
func (s *Store) DecreaseQuantity(id catalog.ID) {
	s.mutate(func(st *State) bool {
		i := st.find(id)
		if i < 0 || st.Items[i].Quantity <= 1 {
			return false
		}
		st.Items[i].Quantity--
		return true
	})
}

// DeleteItem drops the line with the given id.
func (s *Store) DeleteItem(id catalog.ID) {
	s.mutate(func(st *State) bool {
		i := st.find(id)
		if i < 0 {
			return false
		}
		st.Items = append(st.Items[:i:i], st.Items[i+1:]...)
		return true
	})

	s.notify.Notify(Notification{Level: LevelError, Message: MsgRemoved})
}

// ResetCart drops every line. Checked facets are kept.
func (s *Store) ResetCart() {
	s.mutate(func(st *State) bool {
		if len(st.Items) == 0 {
			return false
		}
		st.Items = []Item{}
		return true
	})
}

func (s *Store) ToggleBrand(brand catalog.Facet) {
	s.mutate(func(st *State) bool {
		st.CheckedBrands = toggle(st.CheckedBrands, brand)
		return true
	})
}

func (s *Store) ToggleCategory(category catalog.Facet) {
	s.mutate(func(st *State) bool {
		st.CheckedCategories = toggle(st.CheckedCategories, category)
		return true
	})
}

// addQuantity sums two positive quantities, saturating at math.MaxInt.
func addQuantity(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

// mutate applies fn under the lock. When fn reports a change the new state
// is persisted and then published outside the lock.
func (s *Store) mutate(fn func(st *State) bool) {
	s.mu.Lock()
	if !fn(&s.state) {
		s.mu.Unlock()
		return
	}

	snap := s.state.clone()
	s.persist(snap)

	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap.clone())
	}
}

func (s *Store) persist(st State) {
	b, err := encode(st)
	if err != nil {
		s.log.WithError(err).Error("encoding cart")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := s.storage.Set(ctx, Key, b); err != nil {
		s.log.WithError(err).Error("persisting cart")
	}
}
