// Package tabular prints a record and its totals as aligned terminal tables.
package tabular

import (
	"strconv"

	"github.com/gosuri/uitable"

	"github.com/dshills/servicereport/internal/format"
	"github.com/dshills/servicereport/internal/order"
)

// Record returns a field/value table followed by the parts and totals.
func Record(r order.ServiceRecord) string {
	table := uitable.New()
	table.MaxColWidth = 60
	table.Wrap = true

	table.AddRow("FIELD", "VALUE")
	table.AddRow(string(order.FieldTechnician), r.Technician)
	table.AddRow(string(order.FieldClient), r.Client)
	table.AddRow(string(order.FieldEquipment), r.Equipment)
	table.AddRow(string(order.FieldModel), r.Model)
	table.AddRow(string(order.FieldSerialNumber), r.SerialNumber)
	table.AddRow(string(order.FieldEntryDate), format.Date(r.EntryDate))
	table.AddRow(string(order.FieldExitDate), format.OptionalDate(r.ExitDate))
	table.AddRow(string(order.FieldDefect), r.Defect)
	table.AddRow(string(order.FieldSolution), r.Solution)
	if r.HasObservations() {
		table.AddRow(string(order.FieldObservations), r.Observations)
	}
	table.AddRow("", "")
	table.AddRow("#", "PART", "VALUE")
	for i, p := range r.Parts {
		table.AddRow(strconv.Itoa(i), p.Description, format.Currency(p.Value))
	}
	table.AddRow("", "")
	return table.String() + "\n" + Totals(r)
}

// Totals returns the labor, parts and grand total lines, plus the warranty
// expiry when the record has an exit date.
func Totals(r order.ServiceRecord) string {
	table := uitable.New()
	table.RightAlign(1)
	table.AddRow("Labor", format.Currency(r.ServiceValue))
	table.AddRow("Parts", format.Currency(r.PartsTotal()))
	table.AddRow("Total", format.Currency(r.ComputeTotal()))
	if expiry, ok := r.WarrantyExpiry(); ok {
		table.AddRow("Warranty until", format.Date(expiry))
	}
	return table.String() + "\n"
}
