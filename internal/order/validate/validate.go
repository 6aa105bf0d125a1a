package validate

import (
	"fmt"
	"strings"

	"github.com/dshills/servicereport/internal/order"
)

// Severity levels for findings. No finding ever blocks rendering.
type Severity string

const (
	SeverityInfo Severity = "INFO"
	SeverityWarn Severity = "WARN"
)

// Finding is a validation gap in a record.
type Finding struct {
	Field    order.Field `json:"field"`
	Severity Severity    `json:"severity"`
	Message  string      `json:"message"`
}

func (f Finding) String() string {
	return fmt.Sprintf("%s %s: %s", f.Severity, f.Field, f.Message)
}

// Check inspects r and returns its validation gaps in field order.
func Check(r order.ServiceRecord) []Finding {
	var out []Finding

	if strings.TrimSpace(r.Technician) == "" {
		out = append(out, info(order.FieldTechnician, "technician is empty"))
	}
	if strings.TrimSpace(r.Client) == "" {
		out = append(out, warn(order.FieldClient, "client is empty; the document file name will carry no client"))
	}
	if r.EntryDate.IsZero() {
		out = append(out, warn(order.FieldEntryDate, "entry date is not set"))
	}
	if r.ExitDate != nil && !r.EntryDate.IsZero() && r.ExitDate.Before(r.EntryDate) {
		out = append(out, warn(order.FieldExitDate, fmt.Sprintf(
			"exit date %s is before entry date %s",
			r.ExitDate.Format("2006-01-02"), r.EntryDate.Format("2006-01-02"))))
	}
	if strings.TrimSpace(r.Defect) == "" {
		out = append(out, info(order.FieldDefect, "defect is empty"))
	}
	if strings.TrimSpace(r.Solution) == "" {
		out = append(out, info(order.FieldSolution, "solution is empty"))
	}
	if r.ServiceValue.IsNegative() {
		out = append(out, warn(order.FieldServiceValue, "service value is negative"))
	}
	for i, p := range r.Parts {
		if p.Value.IsNegative() {
			out = append(out, warn("parts", fmt.Sprintf("part[%d] %q has a negative value", i, p.Description)))
		}
	}
	return out
}

// HasWarnings reports whether any finding is at WARN severity.
func HasWarnings(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityWarn {
			return true
		}
	}
	return false
}

// Counts returns the number of warn and info findings.
func Counts(findings []Finding) (warnCount, infoCount int) {
	for _, f := range findings {
		switch f.Severity {
		case SeverityWarn:
			warnCount++
		case SeverityInfo:
			infoCount++
		}
	}
	return
}

func info(f order.Field, msg string) Finding {
	return Finding{Field: f, Severity: SeverityInfo, Message: msg}
}

func warn(f order.Field, msg string) Finding {
	return Finding{Field: f, Severity: SeverityWarn, Message: msg}
}
