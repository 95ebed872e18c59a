package audit

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Record is one audit entry, rendered as an RFC5424 line or stored as a row.
type Record struct {
	Facility  int
	Severity  Severity
	Timestamp time.Time
	Hostname  string
	ProcID    int
	MsgID     string
	SD        map[string]map[string]string
	Message   string
}

// Priority is the PRI value: facility * 8 + severity.
func (r Record) Priority() int {
	return r.Facility*8 + int(r.Severity)
}

// String formats r as
// <PRI>1 TIMESTAMP HOSTNAME APP-NAME PROCID MSGID SD MSG
func (r Record) String() string {
	hostname := r.Hostname
	if hostname == "" {
		hostname = "-"
	}
	sd := formatStructuredData(r.SD)
	if sd == "" {
		sd = "-"
	}
	return fmt.Sprintf("<%d>1 %s %s %s %d %s %s %s",
		r.Priority(),
		r.Timestamp.Format("2006-01-02T15:04:05.000Z"),
		hostname,
		AppName,
		r.ProcID,
		r.MsgID,
		sd,
		r.Message,
	)
}

// formatStructuredData renders [sdid k="v" ...] elements with sorted ids
// and params so that records are stable.
func formatStructuredData(sd map[string]map[string]string) string {
	if len(sd) == 0 {
		return ""
	}

	sdids := make([]string, 0, len(sd))
	for sdid := range sd {
		sdids = append(sdids, sdid)
	}
	sort.Strings(sdids)

	var b strings.Builder
	for _, sdid := range sdids {
		params := sd[sdid]
		keys := make([]string, 0, len(params))
		for key := range params {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		b.WriteString("[" + sdid)
		for _, key := range keys {
			b.WriteString(" " + key + "=" + escapeSDValue(params[key]))
		}
		b.WriteString("]")
	}
	return b.String()
}

// escapeSDValue quotes value, escaping \ " and ] (RFC5424 6.3.3).
func escapeSDValue(value string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, `]`, `\]`)
	return `"` + r.Replace(value) + `"`
}
