package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/servicereport/internal/config"
	"github.com/dshills/servicereport/internal/export"
	"github.com/dshills/servicereport/internal/logger"
	"github.com/dshills/servicereport/internal/order"
	"github.com/dshills/servicereport/internal/order/validate"
	"github.com/dshills/servicereport/internal/record"
	"github.com/dshills/servicereport/internal/render"
	"github.com/dshills/servicereport/internal/revision"
	"github.com/dshills/servicereport/internal/session"
	"github.com/dshills/servicereport/internal/tabular"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

// now is the clock used for default entry dates.
var now = time.Now

// exitErr carries a numeric exit code through the cobra error path.
type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

// codeError returns an exitErr for the given code.
func codeError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}

// globalFlags are shared by every command.
type globalFlags struct {
	envFile string
	verbose bool
}

// renderFlags holds the parsed flags for the render command.
type renderFlags struct {
	format      string
	out         string
	sets        []string
	addParts    []string
	removeParts []int
	failOnGaps  bool
}

// diffFlags holds the parsed flags for the diff command.
type diffFlags struct {
	patch   bool
	context bool
}

// env is the resolved configuration and logger for one command run.
type env struct {
	cfg *config.Config
	log *zap.Logger
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, "Error:", ee.msg)
			os.Exit(ee.code)
		}
		// cobra already printed the error
		os.Exit(1)
	}
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	var global globalFlags
	root := &cobra.Command{
		Use:     "servicereport",
		Short:   "Edit service orders and render customer-facing reports",
		Long:    "servicereport keeps repair service records and renders them as PDF, XLSX, Markdown, JSON or terminal reports.",
		Version: version,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&global.envFile, "env-file", "", "Load environment variables from this file")
	pf.BoolVar(&global.verbose, "verbose", false, "Log processing steps to stderr")

	var rflags renderFlags
	renderCmd := &cobra.Command{
		Use:   "render <record-file>",
		Short: "Render a service record as a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(global)
			if err != nil {
				return err
			}
			defer e.log.Sync() //nolint:errcheck
			return runRender(e, args[0], rflags, stdout)
		},
	}
	f := renderCmd.Flags()
	f.StringVar(&rflags.format, "format", "pdf", "Output format: "+strings.Join(render.Formats, ", "))
	f.StringVar(&rflags.out, "out", "", `Output path; defaults to the derived file name, "-" writes to stdout`)
	f.StringArrayVar(&rflags.sets, "set", nil, "Override a field as name=value (may be repeated)")
	f.StringArrayVar(&rflags.addParts, "add-part", nil, "Append a part as description=value (may be repeated)")
	f.IntSliceVar(&rflags.removeParts, "remove-part", nil, "Remove the part at this index before additions (may be repeated)")
	f.BoolVar(&rflags.failOnGaps, "fail-on-gaps", false, "Exit 2 when validation reports a warning")

	showCmd := &cobra.Command{
		Use:   "show <record-file>",
		Short: "Print a service record and its totals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(global)
			if err != nil {
				return err
			}
			defer e.log.Sync() //nolint:errcheck
			return runShow(e, args[0], stdout)
		},
	}

	var dflags diffFlags
	diffCmd := &cobra.Command{
		Use:   "diff <old-record> <new-record>",
		Short: "Compare the rendered documents of two records",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(global)
			if err != nil {
				return err
			}
			defer e.log.Sync() //nolint:errcheck
			return runDiff(e, args[0], args[1], dflags, stdout)
		},
	}
	diffCmd.Flags().BoolVar(&dflags.patch, "patch", false, "Print a diff-match-patch patch instead of changed lines")
	diffCmd.Flags().BoolVar(&dflags.context, "context", false, "Include unchanged lines")

	newCmd := &cobra.Command{
		Use:   "new <record-file>",
		Short: "Write a blank service record dated today",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(global)
			if err != nil {
				return err
			}
			defer e.log.Sync() //nolint:errcheck
			return runNew(e, args[0], stdout)
		},
	}

	sessionCmd := &cobra.Command{
		Use:   "session [record-file]",
		Short: "Edit a service record interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(global)
			if err != nil {
				return err
			}
			defer e.log.Sync() //nolint:errcheck
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runSession(e, path)
		},
	}

	root.AddCommand(renderCmd, showCmd, diffCmd, newCmd, sessionCmd)
	return root
}

// setup loads configuration and builds the logger shared by all commands.
func setup(global globalFlags) (*env, error) {
	cfg, err := config.Load(global.envFile)
	if err != nil {
		return nil, codeError(3, "loading config: %s", err)
	}
	level := cfg.LogLevel
	if global.verbose {
		level = "debug"
	}
	log, err := logger.New(level)
	if err != nil {
		return nil, codeError(3, "creating logger: %s", err)
	}
	return &env{cfg: cfg, log: log}, nil
}

func (e *env) exportRequest(format, out string) export.Request {
	return export.Request{
		Format:    format,
		Out:       out,
		OutputDir: e.cfg.OutputDir,
		Layout:    e.cfg.LayoutOptions(),
		TermStyle: e.cfg.TermStyle,
	}
}

func runRender(e *env, path string, flags renderFlags, stdout io.Writer) error {
	log := logger.Named(e.log, "render")

	// --- Step 1: Validate flags ---
	changes, parts, err := validateFlags(flags)
	if err != nil {
		return codeError(3, "invalid flags: %s", err)
	}

	// --- Step 2: Load record ---
	log.Debug("loading record", zap.String("path", path))
	file, err := record.Load(path, now())
	if err != nil {
		return codeError(3, "loading record: %s", err)
	}
	if file.Dropped > 0 {
		log.Warn("ignored invalid parts", zap.Int("count", file.Dropped))
	}
	log.Debug("record loaded", zap.String("hash", file.Hash))

	// --- Step 3: Apply overrides; removals first so indexes refer to the file ---
	rec := file.Record
	for _, idx := range removalOrder(flags.removeParts) {
		rec = order.RemovePart(rec, idx)
	}
	for _, c := range changes {
		rec = order.Update(rec, c)
	}
	for _, p := range parts {
		var ok bool
		if rec, ok = order.AddPart(rec, p); !ok {
			log.Warn("ignored invalid part", zap.String("description", p.Description))
		}
	}

	// --- Step 4: Validate record ---
	findings := validate.Check(rec)
	for _, fd := range findings {
		log.Debug("validation", zap.Stringer("finding", fd))
	}
	warnCount, infoCount := validate.Counts(findings)
	if warnCount > 0 {
		log.Warn("record has gaps", zap.Int("warn", warnCount), zap.Int("info", infoCount))
	}

	// --- Step 5: Render and write ---
	log.Debug("rendering", zap.String("format", flags.format))
	res, err := export.Write(rec, e.exportRequest(flags.format, flags.out), stdout)
	if err != nil {
		return codeError(4, "rendering output: %s", err)
	}
	if res.Path != "" {
		log.Info("document written", zap.String("path", res.Path), zap.Int("bytes", res.Bytes))
	}

	// --- Step 6: Evaluate --fail-on-gaps ---
	if flags.failOnGaps && warnCount > 0 {
		return codeError(2, "record has %d validation warning(s)", warnCount)
	}
	return nil
}

func runShow(e *env, path string, stdout io.Writer) error {
	file, err := record.Load(path, now())
	if err != nil {
		return codeError(3, "loading record: %s", err)
	}
	fmt.Fprint(stdout, tabular.Record(file.Record))
	for _, fd := range validate.Check(file.Record) {
		fmt.Fprintln(stdout, fd)
	}
	logger.Named(e.log, "show").Debug("record shown", zap.String("hash", file.Hash))
	return nil
}

func runDiff(e *env, oldPath, newPath string, flags diffFlags, stdout io.Writer) error {
	log := logger.Named(e.log, "diff")
	before, err := markdownOf(e, oldPath)
	if err != nil {
		return err
	}
	after, err := markdownOf(e, newPath)
	if err != nil {
		return err
	}

	if flags.patch {
		fmt.Fprint(stdout, revision.Patch(before, after))
		return nil
	}
	lines := revision.Lines(before, after)
	if !revision.Changed(lines) {
		log.Info("documents are identical")
		return nil
	}
	fmt.Fprint(stdout, revision.Format(lines, flags.context))
	return nil
}

// markdownOf loads a record and returns its Markdown rendering.
func markdownOf(e *env, path string) (string, error) {
	file, err := record.Load(path, now())
	if err != nil {
		return "", codeError(3, "loading record: %s", err)
	}
	out, _, _, err := export.Bytes(file.Record, e.exportRequest("md", export.Stdout))
	if err != nil {
		return "", codeError(4, "rendering %s: %s", path, err)
	}
	return string(out), nil
}

func runNew(e *env, path string, stdout io.Writer) error {
	if _, err := os.Stat(path); err == nil {
		return codeError(3, "%s already exists", path)
	}
	if err := record.Save(path, order.New(now())); err != nil {
		return codeError(3, "%s", err)
	}
	logger.Named(e.log, "new").Debug("record created", zap.String("path", path))
	fmt.Fprintf(stdout, "created %s\n", path)
	return nil
}

func runSession(e *env, path string) error {
	rec := order.New(now())
	if path != "" {
		file, err := record.Load(path, now())
		if err != nil {
			return codeError(3, "loading record: %s", err)
		}
		rec = file.Record
	}

	rl, err := readline.New("> ")
	if err != nil {
		return codeError(3, "starting line editor: %s", err)
	}
	defer rl.Close()

	s := session.New(rec, rl.Stdout(), session.Options{
		Export: e.exportRequest("", ""),
		Logger: logger.Named(e.log, "session"),
	})
	fmt.Fprintln(rl.Stdout(), `type "help" for commands`)
	return s.Run(interruptReader{rl})
}

// interruptReader ends the session on Ctrl-C the same way as Ctrl-D.
type interruptReader struct {
	rl *readline.Instance
}

func (r interruptReader) Readline() (string, error) {
	line, err := r.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", io.EOF
	}
	return line, err
}

// validateFlags checks the render flags and parses the override lists.
func validateFlags(flags renderFlags) ([]order.Change, []order.Part, error) {
	if !isKnownFormat(flags.format) {
		return nil, nil, fmt.Errorf("--format must be one of %s, got %q", strings.Join(render.Formats, ", "), flags.format)
	}

	changes := make([]order.Change, 0, len(flags.sets))
	for _, s := range flags.sets {
		name, value, ok := strings.Cut(s, "=")
		if !ok {
			return nil, nil, fmt.Errorf("--set must be name=value, got %q", s)
		}
		field := order.Field(strings.TrimSpace(name))
		if !order.IsValidField(field) {
			return nil, nil, fmt.Errorf("--set: unknown field %q", name)
		}
		changes = append(changes, order.Change{Field: field, Value: value})
	}

	parts := make([]order.Part, 0, len(flags.addParts))
	for _, s := range flags.addParts {
		i := strings.LastIndex(s, "=")
		if i < 0 {
			return nil, nil, fmt.Errorf("--add-part must be description=value, got %q", s)
		}
		parts = append(parts, order.Part{
			Description: strings.TrimSpace(s[:i]),
			Value:       order.ParseAmount(s[i+1:]),
		})
	}

	for _, idx := range flags.removeParts {
		if idx < 0 {
			return nil, nil, fmt.Errorf("--remove-part must be >= 0, got %d", idx)
		}
	}
	return changes, parts, nil
}

// removalOrder dedupes part indexes and sorts them highest first, so each
// removal leaves the positions of the remaining indexes untouched.
func removalOrder(indexes []int) []int {
	out := slices.Clone(indexes)
	slices.Sort(out)
	out = slices.Compact(out)
	slices.Reverse(out)
	return out
}

func isKnownFormat(format string) bool {
	for _, f := range render.Formats {
		if f == format {
			return true
		}
	}
	return false
}
