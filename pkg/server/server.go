package server

import (
	"context"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/zealot-in-go/pkg/assets"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/authn"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/authz"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/config"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/locale"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/server/middleware"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/server/store"
	gormstore "github.com/doodlesbykumbi/zealot-in-go/pkg/server/store/gorm"
)

type Server struct {
	Config *config.ZealotConfig
	Router *mux.Router
	DB     *gorm.DB

	// Stores
	AppsStore   store.AppsStore
	UsersStore  store.UsersStore
	HealthStore store.HealthStore

	Authorizer authz.Authorizer
	Assets     assets.Store
	Translator *locale.Translator

	// Authenticate guards the /apps routes. It is fixed at startup from
	// guest_mode; nil lets every request through without an identity.
	Authenticate  mux.MiddlewareFunc
	JWTMiddleware *middleware.JWTAuthenticator

	Metrics  *middleware.HTTPMetrics
	Registry *prometheus.Registry

	srv *http.Server
}

func NewServer(
	cfg *config.ZealotConfig,
	db *gorm.DB,
	tokens *authn.TokenIssuer,
	assetStore assets.Store,
	host string,
	port string,
) (*Server, error) {
	translator, err := locale.New(func() string { return config.Get().DefaultLocale })
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewHTTPMetrics(registry)

	router := mux.NewRouter()
	router.Use(metrics.Middleware)
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods("GET")

	usersStore := gormstore.NewUsersStore(db)
	jwtMiddleware := middleware.NewJWTAuthenticator(tokens, usersStore)

	var handler http.Handler = router
	handler = handlers.HTTPMethodOverrideHandler(handler)
	handler = handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(handler)
	handler = handlers.LoggingHandler(os.Stdout, handler)

	srv := &http.Server{
		Handler: handler,
		Addr:    net.JoinHostPort(host, port),
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return &Server{
		Config:        cfg,
		Router:        router,
		DB:            db,
		AppsStore:     gormstore.NewAppsStore(db),
		UsersStore:    usersStore,
		HealthStore:   gormstore.NewHealthStore(db),
		Authorizer:    authz.AppPolicy{},
		Assets:        assetStore,
		Translator:    translator,
		Authenticate:  jwtMiddleware.ForGuestMode(cfg.GuestMode),
		JWTMiddleware: jwtMiddleware,
		Metrics:       metrics,
		Registry:      registry,
		srv:           srv,
	}, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Addr returns the address the server listens on.
func (s *Server) Addr() string {
	return s.srv.Addr
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

// StartWithListener serves on an existing listener.
func (s *Server) StartWithListener(l net.Listener) error {
	return s.srv.Serve(l)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
