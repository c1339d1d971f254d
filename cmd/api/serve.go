package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harsshhit/vendors/internal/modules/auth"
	"github.com/harsshhit/vendors/internal/modules/user"
	"github.com/harsshhit/vendors/internal/modules/vendor"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			startup, cancel := context.WithTimeout(ctx, 15*time.Second)
			defer cancel()
			if err := a.open(startup); err != nil {
				a.log.Error("store unavailable", zap.Error(err))
				return err
			}
			defer a.close(context.Background())

			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	router, err := a.router()
	if err != nil {
		return err
	}

	// ── Start Server ────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		a.log.Info("vendors API server starting", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdown)
}

func (a *app) router() (http.Handler, error) {
	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// ── Identity ────────────────────────────────────────────
	// Identify must be mounted before any route is registered.
	userService := user.NewService(a.users)
	if a.cfg.Auth.Enabled() {
		authService, err := auth.NewService(auth.Config{
			ClientID:     a.cfg.Auth.GoogleClientID,
			ClientSecret: a.cfg.Auth.GoogleClientSecret,
			RedirectURL:  a.cfg.BaseURL + "/auth/callback/google",
			Secret:       []byte(a.cfg.Auth.Secret),
		}, userService)
		if err != nil {
			return nil, err
		}
		router.Use(auth.Identify(authService))
		auth.NewHandler(authService, a.cfg.BaseURL, a.log).RegisterRoutes(router)
	} else {
		a.log.Warn("GOOGLE_CLIENT_ID/GOOGLE_CLIENT_SECRET not set; sign-in disabled")
	}
	user.NewHandler(userService, callerID).RegisterRoutes(router)

	// ── Vendors ─────────────────────────────────────────────
	vendorService := vendor.NewService(a.vendors)
	vendor.NewHandler(vendorService, a.log).RegisterRoutes(router)
	return router, nil
}

// callerID resolves the signed-in caller set by auth.Identify.
func callerID(r *http.Request) (string, bool) {
	identity, ok := auth.FromContext(r.Context())
	if !ok {
		return "", false
	}
	return identity.ID, true
}
