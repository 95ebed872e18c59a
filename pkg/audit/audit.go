package audit

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/doodlesbykumbi/zealot-in-go/pkg/logging"
)

// Structured data IDs, under the IANA documentation enterprise number.
const (
	ZealotPEN   = 32473
	SDIDAuth    = "auth@32473"
	SDIDSubject = "subject@32473"
	SDIDAction  = "action@32473"
	SDIDClient  = "client@32473"
)

// AppName is the APP-NAME field of every audit record
const AppName = "zealot"

const (
	FacilityAuth     = 4
	FacilityAuthPriv = 10
)

// Severity is a syslog severity level.
type Severity int

const (
	SeverityEmergency Severity = iota
	SeverityAlert
	SeverityCritical
	SeverityError
	SeverityWarning
	SeverityNotice
	SeverityInfo
	SeverityDebug
)

// Event is something worth recording in the audit trail.
type Event interface {
	MessageID() string
	Message() string
	Severity() Severity
	Facility() int
	StructuredData() map[string]map[string]string
}

// saveTimeout bounds how long a request waits on the audit database.
const saveTimeout = 5 * time.Second

// Logger writes audit records to an io.Writer and, optionally, a Store.
type Logger struct {
	mu       sync.Mutex
	writer   io.Writer
	store    *Store
	hostname string
	pid      int
	now      func() time.Time
}

// NewLogger returns a Logger writing to stdout.
func NewLogger() *Logger {
	hostname, _ := os.Hostname()
	return &Logger{
		writer:   os.Stdout,
		hostname: hostname,
		pid:      os.Getpid(),
		now:      time.Now,
	}
}

// SetWriter sets the output writer for the logger
func (l *Logger) SetWriter(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.writer = w
}

// SetStore attaches a database store. A nil store disables persistence.
func (l *Logger) SetStore(s *Store) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.store = s
}

// Record builds the record for event as this logger would emit it.
func (l *Logger) Record(event Event) Record {
	return Record{
		Facility:  event.Facility(),
		Severity:  event.Severity(),
		Timestamp: l.now().UTC(),
		Hostname:  l.hostname,
		ProcID:    l.pid,
		MsgID:     event.MessageID(),
		SD:        event.StructuredData(),
		Message:   event.Message(),
	}
}

// Log writes event and persists it when a store is attached.
// Persistence failures are reported on the application log only.
func (l *Logger) Log(event Event) {
	rec := l.Record(event)

	l.mu.Lock()
	_, _ = io.WriteString(l.writer, rec.String()+"\n")
	store := l.store
	l.mu.Unlock()

	if store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := store.Save(ctx, rec); err != nil {
		logging.L().Warn("audit: failed to save record", zap.String("msgid", rec.MsgID), zap.Error(err))
	}
}

// DefaultLogger is used by the package level Log.
var DefaultLogger = NewLogger()

var (
	enabledMu   sync.RWMutex
	enabled     = true
	enabledOnce sync.Once
	storeOnce   sync.Once
)

// IsEnabled reports whether audit logging is on.
// ZEALOT_AUDIT_ENABLED=false (or 0, no) turns it off.
func IsEnabled() bool {
	enabledOnce.Do(func() {
		if env := strings.ToLower(os.Getenv("ZEALOT_AUDIT_ENABLED")); env != "" {
			enabledMu.Lock()
			enabled = env != "false" && env != "0" && env != "no"
			enabledMu.Unlock()
		}
	})
	enabledMu.RLock()
	defer enabledMu.RUnlock()
	return enabled
}

// SetEnabled overrides the environment setting.
func SetEnabled(on bool) {
	enabledOnce.Do(func() {})
	enabledMu.Lock()
	enabled = on
	enabledMu.Unlock()
}

// Log records event on DefaultLogger. The audit database named by
// AUDIT_DATABASE_URL is opened on first use.
func Log(event Event) {
	if !IsEnabled() {
		return
	}

	storeOnce.Do(func() {
		store, err := FromEnv()
		if err != nil {
			logging.L().Warn("audit: failed to open audit database", zap.Error(err))
			return
		}
		if store != nil {
			DefaultLogger.SetStore(store)
		}
	})

	DefaultLogger.Log(event)
}
