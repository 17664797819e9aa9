package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/irsalhamdi/playstation-store/client"
	"github.com/irsalhamdi/playstation-store/config"
	"github.com/irsalhamdi/playstation-store/core/cart"
	"github.com/irsalhamdi/playstation-store/core/session"
	"github.com/irsalhamdi/playstation-store/rate"
	"github.com/irsalhamdi/playstation-store/storage"
	"github.com/sirupsen/logrus"
)

var build = "develop"

func main() {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	if err := Run(log); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func Run(logger *logrus.Logger) error {
	const prefix = "STOREFRONT"
	cfg := config.Config{
		Version: conf.Version{Build: build, Desc: "PlayStation store client"},
	}

	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		switch {
		case errors.Is(err, conf.ErrHelpWanted):
			fmt.Println(help)
			fmt.Println(usage)
			return nil
		case errors.Is(err, conf.ErrVersionWanted):
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	lvl, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}
	logger.SetLevel(lvl)

	if cfg.Args.Num(0) == "sandbox" {
		return serve(logger, cfg)
	}

	st, closeStorage, err := storage.Open(cfg.Storage)
	if err != nil {
		return err
	}
	defer closeStorage()

	a, err := newApp(cfg, logger, st)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Client.Timeout+cfg.Storage.PersistTimeout)
	defer cancel()

	return a.run(ctx, cfg.Args)
}

// app is everything a single command may touch.
type app struct {
	log      logrus.FieldLogger
	out      io.Writer
	api      *client.Client
	helper   *client.Client
	sessions *session.Store
	cart     *cart.Store
	limiter  *rate.Limiter
}

func newApp(cfg config.Config, log logrus.FieldLogger, st storage.Storage) (*app, error) {
	base, err := cfg.BaseURL()
	if err != nil {
		return nil, err
	}

	api, err := client.New(base, client.WithTimeout(cfg.Client.Timeout), client.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("building api client: %w", err)
	}

	helper, err := client.New(cfg.Integration.URL, client.WithTimeout(cfg.Client.Timeout), client.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("building integration client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cs, err := cart.New(ctx, cart.Config{
		Storage:        st,
		Notifier:       cart.LogNotifier{Log: log},
		Log:            log,
		PersistTimeout: cfg.Storage.PersistTimeout,
	})
	if err != nil {
		return nil, err
	}

	return &app{
		log:      log,
		out:      os.Stdout,
		api:      api,
		helper:   helper,
		sessions: session.NewStore(st),
		cart:     cs,
		limiter:  rate.NewLimiter(cfg.Auth.ThrottleBurst, cfg.Auth.ThrottleEvery, cfg.Auth.ThrottleExpiry),
	}, nil
}

func (a *app) close() {
	a.limiter.Close()
}
