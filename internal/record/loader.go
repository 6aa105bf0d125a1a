package record

import (
	"crypto/sha256"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dshills/servicereport/internal/order"
)

// File holds a loaded record file with derived metadata.
type File struct {
	Path    string
	Hash    string // "sha256:<hex>"
	Record  order.ServiceRecord
	Dropped int // parts rejected while loading
}

// wireRecord is the on-disk shape. Amounts and dates are read as text so
// they coerce exactly like form input.
type wireRecord struct {
	Technician   string     `yaml:"technician"`
	Client       string     `yaml:"client"`
	Equipment    string     `yaml:"equipment"`
	Model        string     `yaml:"model"`
	SerialNumber string     `yaml:"serialNumber"`
	Defect       string     `yaml:"defect"`
	Solution     string     `yaml:"solution"`
	Observations string     `yaml:"observations,omitempty"`
	Parts        []wirePart `yaml:"parts"`
	ServiceValue string     `yaml:"serviceValue"`
	EntryDate    string     `yaml:"entryDate"`
	ExitDate     string     `yaml:"exitDate,omitempty"`
}

type wirePart struct {
	Description string `yaml:"description"`
	Value       string `yaml:"value"`
}

// Load reads a record file (YAML or JSON) from disk and hashes its content.
// now supplies the entry date when the file has none.
func Load(path string, now time.Time) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading record file: %w", err)
	}

	rec, dropped, err := Parse(data, now)
	if err != nil {
		return nil, fmt.Errorf("parsing record file %s: %w", path, err)
	}

	sum := sha256.Sum256(data)
	return &File{
		Path:    path,
		Hash:    fmt.Sprintf("sha256:%x", sum),
		Record:  rec,
		Dropped: dropped,
	}, nil
}

// Parse decodes a record. Every scalar goes through order.Update and every
// part through order.AddPart, so a file can never hold a value the editor
// would refuse. dropped counts the parts AddPart rejected.
func Parse(data []byte, now time.Time) (rec order.ServiceRecord, dropped int, err error) {
	var w wireRecord
	if err := yaml.Unmarshal(data, &w); err != nil {
		return order.ServiceRecord{}, 0, fmt.Errorf("decoding record: %w", err)
	}

	rec = order.New(now)
	for _, c := range []order.Change{
		{Field: order.FieldTechnician, Value: w.Technician},
		{Field: order.FieldClient, Value: w.Client},
		{Field: order.FieldEquipment, Value: w.Equipment},
		{Field: order.FieldModel, Value: w.Model},
		{Field: order.FieldSerialNumber, Value: w.SerialNumber},
		{Field: order.FieldDefect, Value: w.Defect},
		{Field: order.FieldSolution, Value: w.Solution},
		{Field: order.FieldObservations, Value: w.Observations},
		{Field: order.FieldServiceValue, Value: w.ServiceValue},
		{Field: order.FieldEntryDate, Value: w.EntryDate},
		{Field: order.FieldExitDate, Value: w.ExitDate},
	} {
		rec = order.Update(rec, c)
	}

	for _, p := range w.Parts {
		var ok bool
		rec, ok = order.AddPart(rec, order.Part{Description: p.Description, Value: order.ParseAmount(p.Value)})
		if !ok {
			dropped++
		}
	}
	return rec, dropped, nil
}

// Marshal encodes rec in the on-disk YAML shape.
func Marshal(rec order.ServiceRecord) ([]byte, error) {
	w := wireRecord{
		Technician:   rec.Technician,
		Client:       rec.Client,
		Equipment:    rec.Equipment,
		Model:        rec.Model,
		SerialNumber: rec.SerialNumber,
		Defect:       rec.Defect,
		Solution:     rec.Solution,
		Observations: rec.Observations,
		Parts:        make([]wirePart, 0, len(rec.Parts)),
		ServiceValue: rec.ServiceValue.StringFixed(2),
		EntryDate:    rec.EntryDate.Format("2006-01-02"),
	}
	if rec.ExitDate != nil {
		w.ExitDate = rec.ExitDate.Format("2006-01-02")
	}
	for _, p := range rec.Parts {
		w.Parts = append(w.Parts, wirePart{Description: p.Description, Value: p.Value.StringFixed(2)})
	}
	data, err := yaml.Marshal(&w)
	if err != nil {
		return nil, fmt.Errorf("encoding record: %w", err)
	}
	return data, nil
}

// Save writes rec to path as YAML.
func Save(path string, rec order.ServiceRecord) error {
	data, err := Marshal(rec)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing record file: %w", err)
	}
	return nil
}
