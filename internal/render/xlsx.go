package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dshills/servicereport/internal/layout"
)

// XLSXSheet is the name of the single worksheet written by the xlsx renderer.
const XLSXSheet = "relatorio"

type xlsxRenderer struct{}

func (r *xlsxRenderer) Extension() string { return ".xlsx" }

// xlsxSheet writes nodes top to bottom, one node row per spreadsheet row.
type xlsxSheet struct {
	f      *excelize.File
	row    int
	err    error // first cell write failure
	bold   int
	title  int
	header int
	right  int
	total  int
}

func (r *xlsxRenderer) Render(doc *layout.Document) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", XLSXSheet); err != nil {
		return nil, fmt.Errorf("rendering xlsx: %w", err)
	}
	s := &xlsxSheet{f: f, row: 1}
	if err := s.styles(); err != nil {
		return nil, fmt.Errorf("rendering xlsx styles: %w", err)
	}
	s.check(f.SetColWidth(XLSXSheet, "A", "A", 32))
	s.check(f.SetColWidth(XLSXSheet, "B", "B", 60))

	for _, n := range doc.Nodes {
		s.node(n)
	}
	if s.err != nil {
		return nil, fmt.Errorf("rendering xlsx: %w", s.err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("writing xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *xlsxSheet) styles() error {
	var err error
	if s.bold, err = s.f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return err
	}
	if s.title, err = s.f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}}); err != nil {
		return err
	}
	if s.header, err = s.f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12, Color: "2563EB"},
	}); err != nil {
		return err
	}
	if s.right, err = s.f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "right"},
	}); err != nil {
		return err
	}
	s.total, err = s.f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "1E40AF"},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	return err
}

func (s *xlsxSheet) cell(col string) string {
	return fmt.Sprintf("%s%d", col, s.row)
}

func (s *xlsxSheet) check(err error) {
	if s.err == nil {
		s.err = err
	}
}

func (s *xlsxSheet) set(col, value string, style int) {
	if s.err != nil {
		return
	}
	ref := s.cell(col)
	if err := s.f.SetCellValue(XLSXSheet, ref, value); err != nil {
		s.check(fmt.Errorf("cell %s: %w", ref, err))
		return
	}
	if style != 0 {
		s.check(s.f.SetCellStyle(XLSXSheet, ref, ref, style))
	}
}

func (s *xlsxSheet) node(n layout.Node) {
	switch v := n.(type) {
	case layout.Heading:
		s.set("A", v.Text, s.title)
		s.row += 2
	case layout.Section:
		s.set("A", v.Title, s.header)
		s.row++
		for _, c := range v.Children {
			s.node(c)
		}
		s.row++
	case layout.Field:
		s.set("A", v.Label, s.bold)
		s.set("B", v.Value, 0)
		s.row++
	case layout.Table:
		s.table(v)
	case layout.Summary:
		s.set("A", v.Title, s.header)
		s.row++
		for _, line := range v.Lines {
			if line.Emphasis {
				s.set("A", line.Label, s.bold)
				s.set("B", line.Value, s.total)
			} else {
				s.set("A", line.Label, 0)
				s.set("B", line.Value, s.right)
			}
			s.row++
		}
		s.row++
	case layout.Notice:
		style := 0
		if v.Bold {
			style = s.bold
		}
		s.set("A", strings.Join(v.Lines, " "), style)
		s.row += 2
	case layout.Footer:
		for _, line := range v.Lines {
			s.set("A", line, 0)
			s.row++
		}
	}
}

func (s *xlsxSheet) table(t layout.Table) {
	cols := []string{"A", "B", "C", "D", "E", "F"}
	for i, c := range t.Columns {
		if i >= len(cols) {
			break
		}
		s.set(cols[i], c.Header, s.bold)
	}
	s.row++
	for _, row := range t.Rows {
		for i, v := range row {
			if i >= len(cols) || i >= len(t.Columns) {
				break
			}
			style := 0
			if t.Columns[i].Align == layout.AlignRight {
				style = s.right
			}
			s.set(cols[i], v, style)
		}
		s.row++
	}
}
