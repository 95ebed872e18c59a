// Package audit provides audit logging for Zealot operations.
//
// Security-relevant operations are written as RFC5424 syslog lines to
// stdout and, when AUDIT_DATABASE_URL is set, persisted to the messages
// table of that database.
//
// # Event Types
//
//   - AppEvent: an app was created, updated or destroyed (or an attempt failed)
//   - AuthenticateEvent: an access token was rejected
//
// # Usage
//
//	audit.Log(audit.AppEvent{
//	    UserID:    "alice",
//	    ClientIP:  "10.0.0.1",
//	    AppID:     app.ID,
//	    AppName:   app.Name,
//	    Operation: audit.OperationDestroy,
//	    Success:   true,
//	})
//
// Set ZEALOT_AUDIT_ENABLED=false to turn audit logging off.
package audit
