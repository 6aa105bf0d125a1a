package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/dshills/servicereport/internal/layout"
)

// Page geometry in millimetres (A4 portrait) and font sizes in points.
const (
	pdfMargin       = 10.5
	pdfLabelWidth   = 53.0
	pdfLineHeight   = 5.0
	pdfFooterY      = -22.0
	pdfSectionSpace = 4.0

	pdfFont        = "Helvetica"
	pdfBodySize    = 9.0
	pdfTitleSize   = 20.0
	pdfHeadingSize = 14.0
	pdfTotalSize   = 14.0
	pdfFooterSize  = 8.0
)

type rgb struct{ r, g, b int }

var (
	colorBlack     = rgb{0, 0, 0}
	colorSectionBg = rgb{248, 248, 248}
	colorSectionFg = rgb{37, 99, 235}
	colorTableHead = rgb{229, 231, 235}
	colorSummaryBg = rgb{238, 242, 255}
	colorSummaryFg = rgb{30, 64, 175}
	colorSummaryLn = rgb{199, 210, 254}
	colorNoticeBg  = rgb{243, 244, 246}
)

type pdfRenderer struct{}

func (r *pdfRenderer) Extension() string { return ".pdf" }

// pdfPage wraps one gofpdf document with the Latin-1 translator the core
// fonts need for accented text.
type pdfPage struct {
	pdf   *gofpdf.Fpdf
	tr    func(string) string
	width float64 // usable width between margins
}

func (r *pdfRenderer) Render(doc *layout.Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, -pdfFooterY+4)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator("servicereport", true)

	pageW, _ := pdf.GetPageSize()
	p := &pdfPage{pdf: pdf, tr: tr, width: pageW - 2*pdfMargin}

	if footer, ok := doc.Footer(); ok {
		pdf.SetFooterFunc(func() { p.footer(footer) })
	}

	pdf.AddPage()
	for _, n := range doc.Nodes {
		p.node(n)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("rendering pdf: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (p *pdfPage) node(n layout.Node) {
	switch v := n.(type) {
	case layout.Heading:
		p.heading(v)
	case layout.Section:
		p.section(v)
	case layout.Field:
		p.field(v)
	case layout.Table:
		p.table(v)
	case layout.Summary:
		p.summary(v)
	case layout.Notice:
		p.notice(v)
	case layout.Footer:
		// drawn by the footer func on every page
	}
}

func (p *pdfPage) font(style string, size float64, c rgb) {
	p.pdf.SetFont(pdfFont, style, size)
	p.pdf.SetTextColor(c.r, c.g, c.b)
}

func (p *pdfPage) heading(h layout.Heading) {
	p.font("B", pdfTitleSize, colorBlack)
	p.pdf.CellFormat(0, 10, p.tr(h.Text), "", 1, "C", false, 0, "")
	y := p.pdf.GetY() + 2
	p.pdf.SetLineWidth(0.7)
	p.pdf.SetDrawColor(0, 0, 0)
	p.pdf.Line(pdfMargin, y, pdfMargin+p.width, y)
	p.pdf.SetLineWidth(0.2)
	p.pdf.SetY(y + 7)
}

func (p *pdfPage) section(s layout.Section) {
	p.pdf.SetFillColor(colorSectionBg.r, colorSectionBg.g, colorSectionBg.b)
	p.font("B", pdfHeadingSize, colorSectionFg)
	p.pdf.CellFormat(0, 8, p.tr(s.Title), "", 1, "L", true, 0, "")
	for _, c := range s.Children {
		p.node(c)
	}
	p.pdf.Ln(pdfSectionSpace)
}

func (p *pdfPage) field(f layout.Field) {
	p.font("B", pdfBodySize, colorBlack)
	p.pdf.CellFormat(pdfLabelWidth, pdfLineHeight, p.tr(f.Label), "", 0, "L", false, 0, "")
	p.font("", pdfBodySize, colorBlack)
	p.pdf.MultiCell(p.width-pdfLabelWidth, pdfLineHeight, p.tr(f.Value), "", "L", false)
	p.pdf.Ln(1.5)
}

func (p *pdfPage) columnWidths(cols []layout.Column) []float64 {
	total := 0
	for _, c := range cols {
		total += max(c.Weight, 1)
	}
	widths := make([]float64, len(cols))
	for i, c := range cols {
		widths[i] = p.width * float64(max(c.Weight, 1)) / float64(total)
	}
	return widths
}

func pdfAlign(a layout.Align) string {
	switch a {
	case layout.AlignRight:
		return "R"
	case layout.AlignCenter:
		return "C"
	default:
		return "L"
	}
}

func (p *pdfPage) table(t layout.Table) {
	widths := p.columnWidths(t.Columns)

	p.font("", pdfBodySize, colorBlack)
	p.pdf.SetFillColor(colorTableHead.r, colorTableHead.g, colorTableHead.b)
	for i, c := range t.Columns {
		p.pdf.CellFormat(widths[i], 7, p.tr(c.Header), "", 0, pdfAlign(c.Align), true, 0, "")
	}
	p.pdf.Ln(-1)
	p.pdf.Ln(1)

	p.pdf.SetDrawColor(colorTableHead.r, colorTableHead.g, colorTableHead.b)
	for _, row := range t.Rows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			p.pdf.CellFormat(widths[i], 7, p.tr(cell), "B", 0, pdfAlign(t.Columns[i].Align), false, 0, "")
		}
		p.pdf.Ln(-1)
	}
	p.pdf.SetDrawColor(0, 0, 0)
}

func (p *pdfPage) summary(s layout.Summary) {
	p.pdf.SetFillColor(colorSummaryBg.r, colorSummaryBg.g, colorSummaryBg.b)
	p.pdf.SetDrawColor(colorSummaryLn.r, colorSummaryLn.g, colorSummaryLn.b)
	p.font("B", pdfHeadingSize, colorSummaryFg)
	p.pdf.CellFormat(0, 8, p.tr(s.Title), "LTR", 1, "L", true, 0, "")

	for i, line := range s.Lines {
		border := "LR"
		if i == len(s.Lines)-1 {
			border = "LRB"
		}
		if line.Emphasis {
			y := p.pdf.GetY() + 1
			p.pdf.Line(pdfMargin+2, y, pdfMargin+p.width-2, y)
			p.pdf.CellFormat(0, 2, "", "LR", 1, "L", true, 0, "")
			p.font("B", pdfTotalSize, colorBlack)
			p.pdf.CellFormat(p.width/2, 8, p.tr(line.Label), strings.Replace(border, "R", "", 1), 0, "L", true, 0, "")
			p.font("B", pdfTotalSize, colorSummaryFg)
			p.pdf.CellFormat(p.width/2, 8, p.tr(line.Value), strings.Replace(border, "L", "", 1), 1, "R", true, 0, "")
			continue
		}
		p.font("", pdfBodySize, colorBlack)
		p.pdf.CellFormat(p.width/2, 6, p.tr(line.Label), strings.Replace(border, "R", "", 1), 0, "L", true, 0, "")
		p.pdf.CellFormat(p.width/2, 6, p.tr(line.Value), strings.Replace(border, "L", "", 1), 1, "R", true, 0, "")
	}
	p.pdf.SetDrawColor(0, 0, 0)
	p.pdf.Ln(pdfSectionSpace)
}

func (p *pdfPage) notice(n layout.Notice) {
	style := ""
	if n.Bold {
		style = "B"
	}
	p.font(style, pdfBodySize, colorBlack)
	p.pdf.SetFillColor(colorNoticeBg.r, colorNoticeBg.g, colorNoticeBg.b)
	p.pdf.Ln(2)
	p.pdf.MultiCell(0, pdfLineHeight+1, p.tr(strings.Join(n.Lines, " ")), "", "C", true)
	p.pdf.Ln(2)
}

func (p *pdfPage) footer(f layout.Footer) {
	p.pdf.SetY(pdfFooterY)
	y := p.pdf.GetY()
	p.pdf.SetDrawColor(colorSummaryFg.r, colorSummaryFg.g, colorSummaryFg.b)
	p.pdf.Line(pdfMargin+4, y, pdfMargin+p.width-4, y)
	p.pdf.SetDrawColor(0, 0, 0)
	p.pdf.Ln(1.5)
	p.font("", pdfFooterSize, colorBlack)
	for _, line := range f.Lines {
		p.pdf.CellFormat(0, 4, p.tr(line), "", 1, "C", false, 0, "")
	}
}
