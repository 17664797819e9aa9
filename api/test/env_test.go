package test

import (
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/irsalhamdi/playstation-store/api"
	"github.com/irsalhamdi/playstation-store/client"
	"github.com/irsalhamdi/playstation-store/config"
	"github.com/irsalhamdi/playstation-store/core/catalog"
	"github.com/irsalhamdi/playstation-store/core/order"
	"github.com/irsalhamdi/playstation-store/core/user"
	"github.com/irsalhamdi/playstation-store/database"
	"github.com/irsalhamdi/playstation-store/storage"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

// TestEnv is a running sandbox API with a client pointed at it and a
// sqlite backed client storage.
type TestEnv struct {
	*httptest.Server
	Client  *client.Client
	Storage storage.Storage
	Seed    catalog.Seed
	Log     *logrus.Logger
	Hook    *test.Hook
}

func NewTestEnv(t *testing.T, name string) (*TestEnv, error) {
	t.Helper()

	seed, err := catalog.LoadSeed()
	if err != nil {
		return nil, err
	}

	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	mux := api.APIMux(api.APIConfig{
		Log:      log,
		Products: seed.Products,
		Accounts: user.NewAccounts(),
		Issuer: user.Issuer{
			Key:             []byte(name),
			AccessLifetime:  15 * time.Minute,
			RefreshLifetime: time.Hour,
		},
		Orders: order.NewBook(seed.Products),
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c, err := client.New(srv.URL, client.WithLogger(log), client.WithTimeout(5*time.Second))
	if err != nil {
		return nil, err
	}

	st, closeFn, err := storage.Open(config.Storage{
		Driver: database.SQLite,
		DSN:    filepath.Join(t.TempDir(), name+".db"),
	})
	if err != nil {
		return nil, err
	}
	t.Cleanup(func() { closeFn() })

	return &TestEnv{
		Server:  srv,
		Client:  c,
		Storage: st,
		Seed:    seed,
		Log:     log,
		Hook:    hook,
	}, nil
}
