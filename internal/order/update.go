package order

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Field names a scalar field of ServiceRecord by its wire name.
type Field string

const (
	FieldTechnician   Field = "technician"
	FieldClient       Field = "client"
	FieldEquipment    Field = "equipment"
	FieldModel        Field = "model"
	FieldSerialNumber Field = "serialNumber"
	FieldDefect       Field = "defect"
	FieldSolution     Field = "solution"
	FieldObservations Field = "observations"
	FieldServiceValue Field = "serviceValue"
	FieldEntryDate    Field = "entryDate"
	FieldExitDate     Field = "exitDate"
)

// Fields lists every settable field in form order.
func Fields() []Field {
	return []Field{
		FieldTechnician,
		FieldClient,
		FieldEquipment,
		FieldModel,
		FieldSerialNumber,
		FieldEntryDate,
		FieldExitDate,
		FieldDefect,
		FieldSolution,
		FieldObservations,
		FieldServiceValue,
	}
}

// IsValidField reports whether f names a settable field.
func IsValidField(f Field) bool {
	for _, known := range Fields() {
		if f == known {
			return true
		}
	}
	return false
}

// Change is a single field edit as entered by the user.
type Change struct {
	Field Field
	Value string
}

// dateLayouts are the accepted input forms for dates, ISO first.
var dateLayouts = []string{"2006-01-02", "02/01/2006"}

// Update returns a copy of r with the change applied. Numeric input that is
// empty, unparsable or negative becomes zero. An entry date that cannot be
// parsed leaves the current entry date in place; an exit date that is empty
// or cannot be parsed clears the exit date. Unknown fields leave r unchanged.
func Update(r ServiceRecord, c Change) ServiceRecord {
	next := r.clone()
	switch c.Field {
	case FieldTechnician:
		next.Technician = c.Value
	case FieldClient:
		next.Client = c.Value
	case FieldEquipment:
		next.Equipment = c.Value
	case FieldModel:
		next.Model = c.Value
	case FieldSerialNumber:
		next.SerialNumber = c.Value
	case FieldDefect:
		next.Defect = c.Value
	case FieldSolution:
		next.Solution = c.Value
	case FieldObservations:
		next.Observations = c.Value
	case FieldServiceValue:
		next.ServiceValue = ParseAmount(c.Value)
	case FieldEntryDate:
		if d, ok := ParseDate(c.Value); ok {
			next.EntryDate = d
		}
	case FieldExitDate:
		if d, ok := ParseDate(c.Value); ok {
			next.ExitDate = &d
		} else {
			next.ExitDate = nil
		}
	}
	return next
}

// AddPart appends p when its description is non-blank and its value is
// strictly positive. The returned bool reports whether p was accepted; a
// rejected part leaves the record untouched.
func AddPart(r ServiceRecord, p Part) (ServiceRecord, bool) {
	if strings.TrimSpace(p.Description) == "" || !p.Value.IsPositive() {
		return r, false
	}
	next := r.clone()
	next.Parts = append(next.Parts, p)
	return next, true
}

// RemovePart returns a copy of r without the part at index. An index out of
// range is a no-op.
func RemovePart(r ServiceRecord, index int) ServiceRecord {
	if index < 0 || index >= len(r.Parts) {
		return r
	}
	next := r.clone()
	next.Parts = append(next.Parts[:index], next.Parts[index+1:]...)
	return next
}

// ParseAmount coerces user input into a non-negative amount. A lone comma is
// accepted as the decimal separator ("50,90"). Anything else that does not
// parse, any negative value, and any exponent form ("1e5") yields zero.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, "eE") {
		return decimal.Zero
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// ParseDate parses a calendar date in ISO (2006-01-02) or DD/MM/YYYY form.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Day(t), true
		}
	}
	return time.Time{}, false
}

// clone copies r so that edits never alias the caller's parts slice.
func (r ServiceRecord) clone() ServiceRecord {
	next := r
	next.Parts = make([]Part, len(r.Parts))
	copy(next.Parts, r.Parts)
	if r.ExitDate != nil {
		d := *r.ExitDate
		next.ExitDate = &d
	}
	return next
}
