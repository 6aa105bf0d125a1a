package session

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/dshills/servicereport/internal/export"
	"github.com/dshills/servicereport/internal/format"
	"github.com/dshills/servicereport/internal/order"
	"github.com/dshills/servicereport/internal/order/validate"
	"github.com/dshills/servicereport/internal/record"
	"github.com/dshills/servicereport/internal/tabular"
)

// LineReader yields one input line per call and io.EOF at the end.
type LineReader interface {
	Readline() (string, error)
}

// Options configures a Session.
type Options struct {
	// Export supplies output dir, layout and term style for the export
	// command. Its Format and Out are taken from each command.
	Export export.Request
	Logger *zap.Logger
}

// Session is an interactive editor over one in-memory record. Every command
// replaces the record with the value returned by the order package.
type Session struct {
	rec  order.ServiceRecord
	out  io.Writer
	opts Options
	log  *zap.Logger
}

const helpText = `commands:
  set <field> <value>        assign a field (empty value clears exitDate)
  add <value> <description>  append a part
  remove <index>             remove the part at index
  total                      print the grand total
  show                       print the record and totals
  check                      list validation gaps
  export <format> [path]     render pdf, xlsx, md, json or term ("-" for stdout)
  save <path>                write the record as YAML
  help                       show this help
  quit                       leave the session
fields: `

// New starts a session over rec, writing all feedback to out.
func New(rec order.ServiceRecord, out io.Writer, opts Options) *Session {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{rec: rec, out: out, opts: opts, log: log}
}

// Record returns the current record.
func (s *Session) Record() order.ServiceRecord {
	return s.rec
}

// Run executes lines from r until quit or end of input. Command failures are
// reported to the output and do not end the session.
func (s *Session) Run(r LineReader) error {
	for {
		line, err := r.Readline()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		quit, err := s.Execute(line)
		if err != nil {
			s.printf("error: %s\n", err)
		}
		if quit {
			return nil
		}
	}
}

// Execute runs a single command line. quit reports whether the session
// should end. Usage mistakes are reported to the output and return nil;
// only failed exports and saves return an error.
func (s *Session) Execute(line string) (quit bool, err error) {
	cmd, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(cmd) {
	case "":
		return false, nil
	case "quit", "exit":
		return true, nil
	case "help":
		s.printf("%s%s\n", helpText, fieldList())
	case "set":
		s.set(rest)
	case "add":
		s.add(rest)
	case "remove":
		s.remove(rest)
	case "total":
		s.printf("%s\n", format.Currency(s.rec.ComputeTotal()))
	case "show":
		s.printf("%s", tabular.Record(s.rec))
	case "check":
		s.check()
	case "export":
		return false, s.export(rest)
	case "save":
		return false, s.save(rest)
	default:
		s.printf("unknown command %q; type help\n", cmd)
	}
	return false, nil
}

func (s *Session) set(args string) {
	name, value, _ := strings.Cut(args, " ")
	field := order.Field(name)
	if !order.IsValidField(field) {
		s.printf("unknown field %q; fields: %s\n", name, fieldList())
		return
	}
	s.rec = order.Update(s.rec, order.Change{Field: field, Value: strings.TrimSpace(value)})
	s.log.Debug("field set", zap.String("field", name))
}

func (s *Session) add(args string) {
	value, desc, _ := strings.Cut(args, " ")
	before := len(s.rec.Parts)
	var ok bool
	s.rec, ok = order.AddPart(s.rec, order.Part{
		Description: strings.TrimSpace(desc),
		Value:       order.ParseAmount(value),
	})
	if !ok {
		s.log.Debug("part ignored", zap.String("value", value), zap.String("description", desc))
		return
	}
	s.log.Debug("part added", zap.Int("index", before))
}

func (s *Session) remove(args string) {
	idx, err := strconv.Atoi(args)
	if err != nil {
		s.printf("usage: remove <index>\n")
		return
	}
	s.rec = order.RemovePart(s.rec, idx)
}

func (s *Session) check() {
	findings := validate.Check(s.rec)
	if len(findings) == 0 {
		s.printf("no validation gaps\n")
		return
	}
	for _, f := range findings {
		s.printf("%s\n", f)
	}
}

func (s *Session) export(args string) error {
	fields := strings.Fields(args)
	if len(fields) == 0 || len(fields) > 2 {
		s.printf("usage: export <format> [path]\n")
		return nil
	}
	req := s.opts.Export
	req.Format = fields[0]
	req.Out = ""
	if len(fields) == 2 {
		req.Out = fields[1]
	}
	res, err := export.Write(s.rec, req, s.out)
	if err != nil {
		return err
	}
	if res.Path != "" {
		s.printf("wrote %s (%d bytes)\n", res.Path, res.Bytes)
	}
	s.log.Info("document exported", zap.String("format", req.Format), zap.String("path", res.Path), zap.Int("bytes", res.Bytes))
	return nil
}

func (s *Session) save(path string) error {
	if path == "" {
		s.printf("usage: save <path>\n")
		return nil
	}
	if err := record.Save(path, s.rec); err != nil {
		return err
	}
	s.printf("saved %s\n", path)
	return nil
}

func (s *Session) printf(msg string, args ...any) {
	fmt.Fprintf(s.out, msg, args...)
}

func fieldList() string {
	names := make([]string, 0, len(order.Fields()))
	for _, f := range order.Fields() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}
