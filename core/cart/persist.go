package cart

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	// Key is the storage key of the persisted state.
	Key = "persist:root"

	// Version of the persisted state written by this package.
	Version = 1
)

// errNewerVersion means the blob was written by a newer release.
var errNewerVersion = errors.New("persisted state has a newer version")

type envelope struct {
	Version int             `json:"version"`
	State   json.RawMessage `json:"state"`
}

// migrations[v] upgrades a state blob from version v to v+1.
var migrations = map[int]func(json.RawMessage) (json.RawMessage, error){}

func encode(s State) ([]byte, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding state: %w", err)
	}
	return json.Marshal(envelope{Version: Version, State: raw})
}

func decode(b []byte) (State, error) {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return State{}, fmt.Errorf("decoding envelope: %w", err)
	}

	if env.Version > Version {
		return State{}, fmt.Errorf("version %d: %w", env.Version, errNewerVersion)
	}

	raw := env.State
	for v := env.Version; v < Version; v++ {
		up, ok := migrations[v]
		if !ok {
			return State{}, fmt.Errorf("no migration from version %d", v)
		}

		var err error
		if raw, err = up(raw); err != nil {
			return State{}, fmt.Errorf("migrating from version %d: %w", v, err)
		}
	}

	var s State
	if err := json.Unmarshal(raw, &s); err != nil {
		return State{}, fmt.Errorf("decoding state: %w", err)
	}

	return sanitize(s), nil
}

// sanitize merges lines sharing an id and floors quantities at one.
// Repeated facets are dropped.
func sanitize(s State) State {
	out := State{
		Items:             make([]Item, 0, len(s.Items)),
		CheckedBrands:     uniqueFacets(s.CheckedBrands),
		CheckedCategories: uniqueFacets(s.CheckedCategories),
	}

	for _, it := range s.Items {
		if it.Quantity < 1 {
			it.Quantity = 1
		}
		if i := out.find(it.ID); i >= 0 {
			out.Items[i].Quantity = addQuantity(out.Items[i].Quantity, it.Quantity)
			continue
		}
		out.Items = append(out.Items, it)
	}

	return out
}
