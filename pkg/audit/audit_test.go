package audit

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger()
	logger.SetWriter(&buf)
	logger.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }

	logger.Log(AppEvent{
		UserID:    "alice",
		ClientIP:  "192.168.1.1",
		AppID:     7,
		AppName:   "Zealot",
		Operation: OperationCreate,
		Success:   true,
	})

	output := buf.String()

	// facility 10 * 8 + severity 6
	if !strings.HasPrefix(output, "<86>1 2025-03-01T12:00:00.000Z ") {
		t.Errorf("Expected RFC5424 header, got %q", output)
	}
	if !strings.Contains(output, " zealot ") {
		t.Error("Expected app name 'zealot' in output")
	}
	if !strings.Contains(output, " app [") {
		t.Error("Expected message ID 'app' in output")
	}
	if !strings.Contains(output, `[client@32473 ip="192.168.1.1"]`) {
		t.Error("Expected client IP in output")
	}
	if !strings.Contains(output, "alice created app 7 (Zealot)") {
		t.Error("Expected success message in output")
	}
	if !strings.HasSuffix(output, "\n") {
		t.Error("Expected trailing newline")
	}
}

func TestRecordString_EmptyFields(t *testing.T) {
	rec := Record{Facility: FacilityAuth, Severity: SeverityWarning, MsgID: "authn", Message: "denied"}
	got := rec.String()

	if !strings.HasPrefix(got, "<36>1 ") {
		t.Errorf("Priority = %q, want <36>", got)
	}
	if !strings.Contains(got, " - zealot 0 authn - denied") {
		t.Errorf("Expected nil values rendered as '-', got %q", got)
	}
}

func TestAppEvent(t *testing.T) {
	tests := []struct {
		name       string
		event      AppEvent
		wantMsg    string
		wantSev    Severity
		wantResult string
	}{
		{
			name: "successful create",
			event: AppEvent{
				UserID:    "alice",
				ClientIP:  "10.0.0.1",
				AppID:     1,
				AppName:   "Zealot",
				Operation: OperationCreate,
				Success:   true,
			},
			wantMsg:    "alice created app 1 (Zealot)",
			wantSev:    SeverityInfo,
			wantResult: "success",
		},
		{
			name: "failed update",
			event: AppEvent{
				UserID:       "bob",
				ClientIP:     "10.0.0.2",
				AppID:        2,
				Operation:    OperationUpdate,
				ErrorMessage: "app is invalid: name blank",
			},
			wantMsg:    "bob tried to update app 2: app is invalid: name blank",
			wantSev:    SeverityWarning,
			wantResult: "failure",
		},
		{
			name: "denied destroy by a guest",
			event: AppEvent{
				UserID:       "guest",
				AppID:        3,
				AppName:      "Legacy",
				Operation:    OperationDestroy,
				ErrorMessage: "not authorized",
			},
			wantMsg:    "guest tried to destroy app 3 (Legacy): not authorized",
			wantSev:    SeverityWarning,
			wantResult: "failure",
		},
		{
			name: "successful destroy",
			event: AppEvent{
				UserID:    "carol",
				AppID:     4,
				Operation: OperationDestroy,
				Success:   true,
			},
			wantMsg:    "carol destroyed app 4",
			wantSev:    SeverityInfo,
			wantResult: "success",
		},
		{
			name: "rejected create has no id yet",
			event: AppEvent{
				UserID:       "dave",
				AppName:      "",
				Operation:    OperationCreate,
				ErrorMessage: "app is invalid: name blank",
			},
			wantMsg:    "dave tried to create an app: app is invalid: name blank",
			wantSev:    SeverityWarning,
			wantResult: "failure",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.event.Message(); got != tt.wantMsg {
				t.Errorf("Message() = %q, want %q", got, tt.wantMsg)
			}
			if got := tt.event.Severity(); got != tt.wantSev {
				t.Errorf("Severity() = %v, want %v", got, tt.wantSev)
			}
			if got := tt.event.Facility(); got != FacilityAuthPriv {
				t.Errorf("Facility() = %v, want %v", got, FacilityAuthPriv)
			}
			if got := tt.event.MessageID(); got != "app" {
				t.Errorf("MessageID() = %v, want 'app'", got)
			}
			sd := tt.event.StructuredData()
			if sd[SDIDAction]["result"] != tt.wantResult {
				t.Errorf("StructuredData action.result = %v, want %v", sd[SDIDAction]["result"], tt.wantResult)
			}
			if sd[SDIDAction]["operation"] != tt.event.Operation {
				t.Errorf("StructuredData action.operation = %v, want %v", sd[SDIDAction]["operation"], tt.event.Operation)
			}
		})
	}
}

func TestAuthenticateEvent(t *testing.T) {
	event := AuthenticateEvent{
		UserID:       "unknown",
		ClientIP:     "10.0.0.1",
		ErrorMessage: "token is expired",
	}

	if got := event.Message(); got != "unknown failed to authenticate with an access token: token is expired" {
		t.Errorf("Message() = %q", got)
	}
	if event.Severity() != SeverityWarning {
		t.Errorf("Severity() = %v, want %v", event.Severity(), SeverityWarning)
	}
	if event.MessageID() != "authn" {
		t.Errorf("MessageID() = %v, want 'authn'", event.MessageID())
	}

	event.Success = true
	event.UserID = "alice"
	if got := event.Message(); got != "alice successfully authenticated with an access token" {
		t.Errorf("Message() = %q", got)
	}
	if event.StructuredData()[SDIDAction]["result"] != "success" {
		t.Error("Expected success result")
	}
}

func TestStructuredData(t *testing.T) {
	event := AppEvent{
		UserID:    "alice",
		ClientIP:  "10.0.0.1",
		AppID:     12,
		AppName:   "Zealot",
		Operation: OperationDestroy,
		Success:   true,
	}

	sd := event.StructuredData()

	if sd[SDIDAuth]["user"] != "alice" {
		t.Errorf("StructuredData auth.user = %v, want 'alice'", sd[SDIDAuth]["user"])
	}
	if sd[SDIDSubject]["app"] != "12" {
		t.Errorf("StructuredData subject.app = %v, want '12'", sd[SDIDSubject]["app"])
	}
	if sd[SDIDSubject]["name"] != "Zealot" {
		t.Errorf("StructuredData subject.name = %v, want 'Zealot'", sd[SDIDSubject]["name"])
	}
	if sd[SDIDClient]["ip"] != "10.0.0.1" {
		t.Errorf("StructuredData client.ip = %v, want '10.0.0.1'", sd[SDIDClient]["ip"])
	}
}

func TestFormatStructuredData_Sorted(t *testing.T) {
	got := formatStructuredData(map[string]map[string]string{
		SDIDClient: {"ip": "10.0.0.1"},
		SDIDAction: {"result": "success", "operation": "create"},
	})
	want := `[action@32473 operation="create" result="success"][client@32473 ip="10.0.0.1"]`
	if got != want {
		t.Errorf("formatStructuredData() = %q, want %q", got, want)
	}

	if formatStructuredData(nil) != "" {
		t.Error("Expected empty structured data")
	}
}

func TestAuditToggle(t *testing.T) {
	original := IsEnabled()
	defer SetEnabled(original)

	SetEnabled(false)
	if IsEnabled() {
		t.Error("Expected audit to be disabled")
	}

	SetEnabled(true)
	if !IsEnabled() {
		t.Error("Expected audit to be enabled")
	}
}

func TestEscapeSDValue(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"simple", `"simple"`},
		{`with"quote`, `"with\"quote"`},
		{`with\backslash`, `"with\\backslash"`},
		{`with]bracket`, `"with\]bracket"`},
		{`all"special\chars]`, `"all\"special\\chars\]"`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := escapeSDValue(tt.input)
			if got != tt.want {
				t.Errorf("escapeSDValue(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
