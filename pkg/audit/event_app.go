package audit

import (
	"fmt"
	"strconv"
)

// App operations recorded in the audit trail
const (
	OperationCreate  = "create"
	OperationUpdate  = "update"
	OperationDestroy = "destroy"
)

// AppEvent represents a change made to an app
type AppEvent struct {
	UserID       string
	ClientIP     string
	AppID        uint
	AppName      string
	Operation    string
	Success      bool
	ErrorMessage string
}

func (e AppEvent) MessageID() string {
	return "app"
}

func (e AppEvent) subject() string {
	switch {
	case e.AppID != 0 && e.AppName != "":
		return fmt.Sprintf("app %d (%s)", e.AppID, e.AppName)
	case e.AppID != 0:
		return fmt.Sprintf("app %d", e.AppID)
	case e.AppName != "":
		return fmt.Sprintf("app %s", e.AppName)
	}
	return "an app"
}

var pastTense = map[string]string{
	OperationCreate:  "created",
	OperationUpdate:  "updated",
	OperationDestroy: "destroyed",
}

func (e AppEvent) Message() string {
	if e.Success {
		verb, ok := pastTense[e.Operation]
		if !ok {
			verb = "performed " + e.Operation + " on"
		}
		return fmt.Sprintf("%s %s %s", e.UserID, verb, e.subject())
	}
	msg := fmt.Sprintf("%s tried to %s %s", e.UserID, e.Operation, e.subject())
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e AppEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e AppEvent) Facility() int {
	return FacilityAuthPriv
}

func (e AppEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserID,
		},
		SDIDSubject: {},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": e.Operation,
		},
	}
	if e.AppID != 0 {
		sd[SDIDSubject]["app"] = strconv.FormatUint(uint64(e.AppID), 10)
	}
	if e.AppName != "" {
		sd[SDIDSubject]["name"] = e.AppName
	}
	if e.Success {
		sd[SDIDAction]["result"] = "success"
	} else {
		sd[SDIDAction]["result"] = "failure"
	}
	return sd
}
