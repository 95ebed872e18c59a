package integration

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net"
	"net/http"
	"os"
	"os/exec"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	migrations "github.com/doodlesbykumbi/zealot-in-go/db"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/assets"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/audit"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/authn"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/config"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/db"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/server"
	"github.com/doodlesbykumbi/zealot-in-go/pkg/server/endpoints"
)

const (
	testSecret   = "zealot-integration-secret"
	postgresUser = "zealot"
	postgresDB   = "zealot_test"
)

// TestContext is the environment shared by every scenario: one postgres
// container, one Zealot server and a scratch uploads root.
type TestContext struct {
	DB          *gorm.DB
	ServerURL   string
	DatabaseURL string
	UploadsRoot string
	Tokens      *authn.TokenIssuer
	HTTPClient  *http.Client

	cleanups []func(context.Context)
}

// NewTestContext starts the environment. The server runs in-process
// unless ZEALOT_BINARY names a zealotctl binary to exercise instead.
func NewTestContext(ctx context.Context) (*TestContext, error) {
	tc := &TestContext{}
	ok := false
	defer func() {
		if !ok {
			tc.Close(context.Background())
		}
	}()

	var err error
	tc.UploadsRoot, err = os.MkdirTemp("", "zealot-uploads-")
	if err != nil {
		return nil, fmt.Errorf("failed to create uploads root: %w", err)
	}
	tc.onClose(func(context.Context) { _ = os.RemoveAll(tc.UploadsRoot) })

	if tc.DatabaseURL, err = tc.startPostgres(ctx); err != nil {
		return nil, err
	}
	if err = migrateUp(tc.DatabaseURL); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	tc.DB, err = db.Connect(db.Config{URL: tc.DatabaseURL, MaxOpenConns: 5})
	if err != nil {
		return nil, err
	}
	if sqlDB, dbErr := tc.DB.DB(); dbErr == nil {
		tc.onClose(func(context.Context) { _ = sqlDB.Close() })
	}

	// The config file directory only needs to exist; defaults and env apply.
	_ = os.Setenv("ZEALOT_CONFIG_PATH", tc.UploadsRoot)
	_ = os.Setenv("ZEALOT_UPLOADS_ROOT", tc.UploadsRoot)
	_ = os.Setenv("ZEALOT_AUDIT_ENABLED", "false")
	if err = config.Reload(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg := config.Get()

	tc.Tokens, err = authn.NewTokenIssuer([]byte(testSecret), cfg.TokenLifetime())
	if err != nil {
		return nil, err
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("failed to reserve a port: %w", err)
	}
	tc.ServerURL = "http://" + listener.Addr().String()

	if binary := os.Getenv("ZEALOT_BINARY"); binary != "" {
		port := fmt.Sprint(listener.Addr().(*net.TCPAddr).Port)
		_ = listener.Close()
		err = tc.startBinary(binary, port)
	} else {
		err = tc.startInline(cfg, listener)
	}
	if err != nil {
		return nil, err
	}

	if err = waitForHealthy(tc.ServerURL, 30*time.Second); err != nil {
		return nil, err
	}

	tc.HTTPClient = &http.Client{
		Timeout: 10 * time.Second,
		// Redirects are asserted, not followed
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	ok = true
	return tc, nil
}

func (tc *TestContext) onClose(fn func(context.Context)) {
	tc.cleanups = append(tc.cleanups, fn)
}

func (tc *TestContext) startPostgres(ctx context.Context) (string, error) {
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase(postgresDB),
		tcpostgres.WithUsername(postgresUser),
		tcpostgres.WithPassword(postgresUser),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return "", fmt.Errorf("failed to start postgres container: %w", err)
	}
	tc.onClose(func(ctx context.Context) { _ = container.Terminate(ctx) })

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return "", fmt.Errorf("failed to get connection string: %w", err)
	}
	return url, nil
}

// migrateUp applies the embedded migrations the same way zealotctl does.
func migrateUp(databaseURL string) error {
	fsys, err := fs.Sub(migrations.Migrations, "migrations")
	if err != nil {
		return err
	}
	source, err := iofs.New(fsys, ".")
	if err != nil {
		return err
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, databaseURL+"&x-migrations-table=go_schema_migrations")
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func (tc *TestContext) startInline(cfg *config.ZealotConfig, listener net.Listener) error {
	audit.SetEnabled(false)

	s, err := server.NewServer(cfg, tc.DB, tc.Tokens, assets.NewLocalStore(cfg.UploadsRoot), "127.0.0.1", "0")
	if err != nil {
		_ = listener.Close()
		return fmt.Errorf("failed to build server: %w", err)
	}
	endpoints.RegisterAll(s)

	go func() {
		if err := s.StartWithListener(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("inline server stopped: %v", err)
		}
	}()

	tc.onClose(func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	})
	return nil
}

func (tc *TestContext) startBinary(binary, port string) error {
	if _, err := os.Stat(binary); err != nil {
		return fmt.Errorf("ZEALOT_BINARY path does not exist: %s", binary)
	}
	log.Printf("Using binary: %s", binary)

	cmd := exec.Command(binary, "server", "--no-migrate", "-b", "127.0.0.1", "-p", port)
	cmd.Env = append(os.Environ(),
		"DATABASE_URL="+tc.DatabaseURL,
		"ZEALOT_SECRET_KEY="+testSecret,
		"ZEALOT_UPLOADS_ROOT="+tc.UploadsRoot,
		"ZEALOT_AUDIT_ENABLED=false",
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start binary: %w", err)
	}
	tc.onClose(func(context.Context) {
		_ = cmd.Process.Signal(os.Interrupt)
		done := make(chan struct{})
		go func() { _ = cmd.Wait(); close(done) }()
		select {
		case <-done:
		case <-time.After(10 * time.Second):
			_ = cmd.Process.Kill()
		}
	})
	return nil
}

func waitForHealthy(serverURL string, timeout time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(serverURL + "/health")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("server at %s did not become healthy within %v", serverURL, timeout)
}

// Close releases everything NewTestContext started, newest first.
func (tc *TestContext) Close(ctx context.Context) {
	for i := len(tc.cleanups) - 1; i >= 0; i-- {
		tc.cleanups[i](ctx)
	}
	tc.cleanups = nil
}
