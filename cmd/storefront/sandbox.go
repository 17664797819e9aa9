package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/irsalhamdi/playstation-store/api"
	"github.com/irsalhamdi/playstation-store/config"
	"github.com/irsalhamdi/playstation-store/core/catalog"
	"github.com/irsalhamdi/playstation-store/core/order"
	"github.com/irsalhamdi/playstation-store/core/user"
	"github.com/irsalhamdi/playstation-store/random"
	"github.com/sirupsen/logrus"
)

// serve runs the sandbox API until SIGINT or SIGTERM.
func serve(logger *logrus.Logger, cfg config.Config) error {
	logger.Info("starting sandbox")
	defer logger.Info("shutdown complete")

	lw := logger.Writer()
	defer lw.Close()
	errLog := log.New(lw, "", 0)

	seed, err := catalog.LoadSeed()
	if err != nil {
		return fmt.Errorf("loading seed catalog: %w", err)
	}

	key := cfg.Sandbox.SigningKey
	if key == "" {
		if key, err = random.StringSecure(32); err != nil {
			return fmt.Errorf("generating signing key: %w", err)
		}
		logger.Warn("no signing key configured; tokens will not survive a restart")
	}

	mux := api.APIMux(api.APIConfig{
		Log:      logger,
		Products: seed.Products,
		Accounts: user.NewAccounts(),
		Issuer: user.Issuer{
			Key:             []byte(key),
			AccessLifetime:  cfg.Sandbox.AccessLifetime,
			RefreshLifetime: cfg.Sandbox.RefreshLifetime,
		},
		Orders: order.NewBook(seed.Products),
	})

	srv := http.Server{
		Handler:      mux,
		Addr:         cfg.Sandbox.Address,
		ReadTimeout:  cfg.Sandbox.ReadTimeout,
		WriteTimeout: cfg.Sandbox.WriteTimeout,
		IdleTimeout:  cfg.Sandbox.IdleTimeout,
		ErrorLog:     errLog,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Infof("serving sandbox api at %s", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Infof("shutting down: signal %s", sig)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Sandbox.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			srv.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}
	return nil
}
