package layout

import (
	"strconv"

	"github.com/dshills/servicereport/internal/format"
	"github.com/dshills/servicereport/internal/order"
)

// DefaultPixKey is the payment key printed on every document.
const DefaultPixKey = "d6765eff-2e0e-40c7-a965-2709ef20aca7"

// Fixed document text.
const (
	TitleText        = "Relatório de Serviço"
	InfoTitle        = "Informações"
	DetailsTitle     = "Detalhes do Serviço"
	PartsTitle       = "Peças Utilizadas"
	SummaryTitle     = "Valores"
	LaborLabel       = "Mão de Obra"
	PartsTotalLabel  = "Peças e Componentes"
	GrandTotalLabel  = "Valor Total"
	ObservationLabel = "Observações:"
	FooterRule       = "#############################"
	FooterRights     = "Todos os direitos reservados."
)

// Options carries the static content that is not derived from the record.
type Options struct {
	PixKey string
}

// DefaultOptions returns the options used by Build.
func DefaultOptions() Options {
	return Options{PixKey: DefaultPixKey}
}

// Build lays out r with DefaultOptions.
func Build(r order.ServiceRecord) *Document {
	return BuildWith(r, DefaultOptions())
}

// BuildWith lays out r. It never fails: empty fields render as empty strings
// and optional blocks are omitted entirely.
func BuildWith(r order.ServiceRecord, opts Options) *Document {
	if opts.PixKey == "" {
		opts.PixKey = DefaultPixKey
	}

	b := NewBuilder().Heading(TitleText)

	b.Section(InfoTitle, func(s *Builder) {
		s.Field("Cliente:", r.Client).
			Field("Equipamento:", r.Equipment).
			Field("Modelo:", r.Model).
			Field("Nº de Série:", r.SerialNumber).
			Field("Data de Entrada:", format.Date(r.EntryDate)).
			Field("Data de Saída:", format.OptionalDate(r.ExitDate))
	})

	b.Section(DetailsTitle, func(s *Builder) {
		s.Field("Defeito Apresentado:", r.Defect).
			Field("Solução:", r.Solution).
			Field("Técnico Responsável:", r.Technician).
			If(r.HasObservations(), func(s *Builder) {
				s.Field(ObservationLabel, r.Observations)
			})
	})

	b.If(len(r.Parts) > 0, func(b *Builder) {
		b.Section(PartsTitle, func(s *Builder) {
			s.Add(partsTable(r.Parts))
		})
	})

	b.Add(Summary{
		Title: SummaryTitle,
		Lines: []SummaryLine{
			{Label: LaborLabel, Value: format.Currency(r.ServiceValue)},
			{Label: PartsTotalLabel, Value: format.Currency(r.PartsTotal())},
			{Label: GrandTotalLabel, Value: format.Currency(r.ComputeTotal()), Emphasis: true},
		},
	})

	b.Add(warrantyNotice(r))
	b.Add(Notice{Lines: []string{paymentText(opts.PixKey)}, Bold: true})
	b.Add(Footer{Lines: []string{FooterRule, FooterRights}})

	return &Document{
		Title:    TitleText,
		FileName: format.FileName(r.Client, ""),
		Nodes:    b.Nodes(),
	}
}

func partsTable(parts []order.Part) Table {
	t := Table{
		Columns: []Column{
			{Header: "Descrição", Align: AlignLeft, Weight: 2},
			{Header: "Valor", Align: AlignRight, Weight: 1},
		},
		Rows: make([][]string, 0, len(parts)),
	}
	for _, p := range parts {
		t.Rows = append(t.Rows, []string{p.Description, format.Currency(p.Value)})
	}
	return t
}

func warrantyNotice(r order.ServiceRecord) Notice {
	n := Notice{Lines: []string{"Garantia " + strconv.Itoa(order.WarrantyDays) + " dias a partir da data de entrega"}}
	if expiry, ok := r.WarrantyExpiry(); ok {
		n.Lines = append(n.Lines, "Válida até "+format.Date(expiry))
	}
	return n
}

func paymentText(key string) string {
	return "Para pagamentos via Pix, Copie e Cole a CHAVE: " + key +
		" em seu banco de preferência e informe o Valor Total acima."
}
