package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// WarrantyDays is the warranty length, counted in calendar days from the exit date.
const WarrantyDays = 90

// Part is a billable component used in a repair. It has no identity beyond
// its position in ServiceRecord.Parts.
type Part struct {
	Description string          `json:"description"`
	Value       decimal.Decimal `json:"value"`
}

// ServiceRecord is the editable entity describing one repair job.
// Observations is optional; an empty string means absent.
type ServiceRecord struct {
	Technician   string          `json:"technician"`
	Client       string          `json:"client"`
	Equipment    string          `json:"equipment"`
	Model        string          `json:"model"`
	SerialNumber string          `json:"serialNumber"`
	Defect       string          `json:"defect"`
	Solution     string          `json:"solution"`
	Observations string          `json:"observations,omitempty"`
	Parts        []Part          `json:"parts"`
	ServiceValue decimal.Decimal `json:"serviceValue"`
	EntryDate    time.Time       `json:"entryDate"`
	ExitDate     *time.Time      `json:"exitDate,omitempty"`
}

// New returns an empty record whose entry date is the calendar day of now.
func New(now time.Time) ServiceRecord {
	return ServiceRecord{
		Parts:     []Part{},
		EntryDate: Day(now),
	}
}

// Day truncates t to its calendar day. The result is midnight UTC so that
// day arithmetic never crosses a daylight-saving boundary.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// PartsTotal is the sum of all part values.
func (r ServiceRecord) PartsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, p := range r.Parts {
		total = total.Add(p.Value)
	}
	return total
}

// ComputeTotal returns the grand total: labor plus the parts subtotal.
// An empty parts list yields ServiceValue alone.
func (r ServiceRecord) ComputeTotal() decimal.Decimal {
	return r.PartsTotal().Add(r.ServiceValue)
}

// WarrantyExpiry returns the exit date plus WarrantyDays. ok is false when
// the record has no exit date.
func (r ServiceRecord) WarrantyExpiry() (expiry time.Time, ok bool) {
	if r.ExitDate == nil {
		return time.Time{}, false
	}
	return Day(*r.ExitDate).AddDate(0, 0, WarrantyDays), true
}

// HasObservations reports whether the optional observations text is present.
func (r ServiceRecord) HasObservations() bool {
	return r.Observations != ""
}
