package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/servicereport/internal/config"
	"github.com/dshills/servicereport/internal/layout"
	"github.com/dshills/servicereport/internal/record"
)

// testdataDir is the root of the testdata directory.
const testdataDir = "../../testdata"

// recordPath returns the path to a file in testdata/records/.
func recordPath(name string) string {
	return filepath.Join(testdataDir, "records", name)
}

// testEnv returns an env writing derived files into a temp directory.
func testEnv(t *testing.T) *env {
	t.Helper()
	return &env{
		cfg: &config.Config{
			LogLevel:  "info",
			OutputDir: t.TempDir(),
			PixKey:    layout.DefaultPixKey,
			TermStyle: "notty",
		},
		log: zap.NewNop(),
	}
}

// runRenderFlags returns renderFlags populated with safe defaults for testing.
func runRenderFlags() renderFlags {
	return renderFlags{format: "md", out: "-"}
}

// exitCode extracts the exit code carried by err, or 0 for nil.
func exitCode(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		return 0
	}
	var ee *exitErr
	if !errors.As(err, &ee) {
		t.Fatalf("error is not an exitErr: %v", err)
	}
	return ee.code
}

// --- Tests ---

func TestRunRender_MarkdownToStdout(t *testing.T) {
	var out bytes.Buffer
	if err := runRender(testEnv(t), recordPath("basic.yaml"), runRenderFlags(), &out); err != nil {
		t.Fatalf("runRender returned error: %v", err)
	}
	got := out.String()
	for _, want := range []string{
		"# Relatório de Serviço",
		"Maria Souza",
		"| Conector DC | R$ 45.00 |",
		"**Valor Total: R$ 180.50**",
		"Válida até 04/04/2024",
		layout.DefaultPixKey,
		"Cliente retira na sexta",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRunRender_DerivedFileName(t *testing.T) {
	e := testEnv(t)
	flags := runRenderFlags()
	flags.format = "pdf"
	flags.out = ""

	if err := runRender(e, recordPath("basic.yaml"), flags, &bytes.Buffer{}); err != nil {
		t.Fatalf("runRender returned error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(e.cfg.OutputDir, "ordem-servico-maria-souza.pdf"))
	if err != nil {
		t.Fatalf("reading derived output: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Error("derived output is not a PDF")
	}
}

func TestRunRender_XLSXOutFile(t *testing.T) {
	flags := runRenderFlags()
	flags.format = "xlsx"
	flags.out = filepath.Join(t.TempDir(), "nested", "report.xlsx")

	if err := runRender(testEnv(t), recordPath("basic.yaml"), flags, &bytes.Buffer{}); err != nil {
		t.Fatalf("runRender returned error: %v", err)
	}
	data, err := os.ReadFile(flags.out)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	// xlsx is a zip container
	if !bytes.HasPrefix(data, []byte("PK")) {
		t.Error("output is not an xlsx archive")
	}
}

func TestRunRender_Overrides(t *testing.T) {
	flags := runRenderFlags()
	flags.sets = []string{"client=Pedro Alves", "serviceValue=10,00", "observations="}
	flags.removeParts = []int{0}
	flags.addParts = []string{"Bateria=a=99.90", "Brinde=0"}

	var out bytes.Buffer
	if err := runRender(testEnv(t), recordPath("basic.yaml"), flags, &out); err != nil {
		t.Fatalf("runRender returned error: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "Pedro Alves") {
		t.Errorf("client override missing:\n%s", got)
	}
	if strings.Contains(got, "Conector DC") {
		t.Errorf("removed part still rendered:\n%s", got)
	}
	if !strings.Contains(got, "| Bateria=a | R$ 99.90 |") {
		t.Errorf("added part missing:\n%s", got)
	}
	if strings.Contains(got, "Brinde") {
		t.Errorf("zero-value part rendered:\n%s", got)
	}
	// 10.00 + 15.50 + 99.90
	if !strings.Contains(got, "**Valor Total: R$ 125.40**") {
		t.Errorf("wrong total:\n%s", got)
	}
	if strings.Contains(got, "Observações") {
		t.Errorf("cleared observations still rendered:\n%s", got)
	}
}

func TestRunRender_DropsInvalidParts(t *testing.T) {
	var out bytes.Buffer
	if err := runRender(testEnv(t), recordPath("invalid_parts.json"), runRenderFlags(), &out); err != nil {
		t.Fatalf("runRender returned error: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "| Fonte | R$ 90.00 |") || strings.Contains(got, "Brinde") {
		t.Errorf("unexpected parts:\n%s", got)
	}
	if !strings.Contains(got, "R$ 290.00") {
		t.Errorf("wrong total:\n%s", got)
	}
}

func TestRunRender_FailOnGaps(t *testing.T) {
	flags := runRenderFlags()
	flags.failOnGaps = true

	err := runRender(testEnv(t), recordPath("exit_before_entry.yaml"), flags, &bytes.Buffer{})
	if code := exitCode(t, err); code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}

	err = runRender(testEnv(t), recordPath("basic.yaml"), flags, &bytes.Buffer{})
	if code := exitCode(t, err); code != 0 {
		t.Errorf("clean record exit code = %d, want 0", code)
	}
}

func TestRunRender_GapsDoNotBlockOutput(t *testing.T) {
	var out bytes.Buffer
	if err := runRender(testEnv(t), recordPath("exit_before_entry.yaml"), runRenderFlags(), &out); err != nil {
		t.Fatalf("runRender returned error: %v", err)
	}
	if !strings.Contains(out.String(), "Válida até 01/05/2024") {
		t.Errorf("warranty line missing:\n%s", out.String())
	}
}

func TestRunRender_InvalidFlags(t *testing.T) {
	cases := []renderFlags{
		{format: "odt", out: "-"},
		{format: "md", out: "-", sets: []string{"client"}},
		{format: "md", out: "-", sets: []string{"colour=red"}},
		{format: "md", out: "-", addParts: []string{"no value"}},
		{format: "md", out: "-", removeParts: []int{-1}},
	}
	for _, flags := range cases {
		err := runRender(testEnv(t), recordPath("basic.yaml"), flags, &bytes.Buffer{})
		if code := exitCode(t, err); code != 3 {
			t.Errorf("flags %+v: exit code = %d, want 3", flags, code)
		}
	}
}

func TestRunRender_MissingRecord(t *testing.T) {
	err := runRender(testEnv(t), recordPath("missing.yaml"), runRenderFlags(), &bytes.Buffer{})
	if code := exitCode(t, err); code != 3 {
		t.Errorf("exit code = %d, want 3", code)
	}
}

func TestRunShow(t *testing.T) {
	var out bytes.Buffer
	if err := runShow(testEnv(t), recordPath("exit_before_entry.yaml"), &out); err != nil {
		t.Fatalf("runShow returned error: %v", err)
	}
	got := out.String()
	for _, want := range []string{"Carlos Dias", "R$ 80.00", "WARN exitDate"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRunDiff(t *testing.T) {
	var out bytes.Buffer
	err := runDiff(testEnv(t), recordPath("basic.yaml"), recordPath("revised.yaml"), diffFlags{}, &out)
	if err != nil {
		t.Fatalf("runDiff returned error: %v", err)
	}
	got := out.String()
	for _, want := range []string{"- - **Valor Total: R$ 180.50**", "+ - **Valor Total: R$ 270.50**", "+ | Cooler | R$ 60.00 |"} {
		if !strings.Contains(got, want) {
			t.Errorf("diff missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Maria Souza") {
		t.Errorf("unchanged line shown without --context:\n%s", got)
	}
}

func TestRunDiff_Identical(t *testing.T) {
	var out bytes.Buffer
	err := runDiff(testEnv(t), recordPath("basic.yaml"), recordPath("basic.yaml"), diffFlags{patch: true}, &out)
	if err != nil {
		t.Fatalf("runDiff returned error: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("expected empty patch, got:\n%s", out.String())
	}
}

func TestRunNew(t *testing.T) {
	fixed := time.Date(2024, 6, 15, 14, 30, 0, 0, time.UTC)
	orig := now
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = orig })

	path := filepath.Join(t.TempDir(), "blank.yaml")
	var out bytes.Buffer
	if err := runNew(testEnv(t), path, &out); err != nil {
		t.Fatalf("runNew returned error: %v", err)
	}
	file, err := record.Load(path, time.Time{})
	if err != nil {
		t.Fatalf("loading new record: %v", err)
	}
	if got := file.Record.EntryDate.Format("2006-01-02"); got != "2024-06-15" {
		t.Errorf("EntryDate = %s, want 2024-06-15", got)
	}
	if len(file.Record.Parts) != 0 || file.Record.ExitDate != nil {
		t.Errorf("new record not blank: %+v", file.Record)
	}

	err = runNew(testEnv(t), path, &out)
	if code := exitCode(t, err); code != 3 {
		t.Errorf("overwrite exit code = %d, want 3", code)
	}
}

func TestRootCmd_UnknownFormat(t *testing.T) {
	t.Setenv("SERVICEREPORT_OUTPUT_DIR", t.TempDir())
	root := newRootCmd(&bytes.Buffer{})
	root.SetArgs([]string{"render", "--format", "odt", recordPath("basic.yaml")})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	if code := exitCode(t, root.Execute()); code != 3 {
		t.Errorf("exit code = %d, want 3", code)
	}
}

func TestRootCmd_RenderJSON(t *testing.T) {
	t.Setenv("SERVICEREPORT_OUTPUT_DIR", t.TempDir())
	var stdout bytes.Buffer
	root := newRootCmd(&stdout)
	root.SetArgs([]string{"render", "--format", "json", "--out", "-", recordPath("basic.yaml")})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(stdout.String(), `"file_name": "ordem-servico-maria-souza"`) {
		t.Errorf("unexpected JSON:\n%s", stdout.String())
	}
}

func TestRootCmd_BadPixKey(t *testing.T) {
	t.Setenv("SERVICEREPORT_PIX_KEY", "not-a-key")
	root := newRootCmd(&bytes.Buffer{})
	root.SetArgs([]string{"show", recordPath("basic.yaml")})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	if code := exitCode(t, root.Execute()); code != 3 {
		t.Errorf("exit code = %d, want 3", code)
	}
}

func TestRunRender_RemovePartsUseFileIndexes(t *testing.T) {
	flags := runRenderFlags()
	flags.removeParts = []int{0, 1, 0}

	var out bytes.Buffer
	if err := runRender(testEnv(t), recordPath("three_parts.yaml"), flags, &out); err != nil {
		t.Fatalf("runRender returned error: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "| Placa C | R$ 1.00 |") {
		t.Errorf("part C missing:\n%s", got)
	}
	for _, gone := range []string{"Placa A", "Placa B"} {
		if strings.Contains(got, gone) {
			t.Errorf("%s still rendered:\n%s", gone, got)
		}
	}
	if !strings.Contains(got, "**Valor Total: R$ 11.00**") {
		t.Errorf("wrong total:\n%s", got)
	}
}

func TestRemovalOrder(t *testing.T) {
	got := removalOrder([]int{1, 3, 1, 0})
	want := []int{3, 1, 0}
	if len(got) != len(want) {
		t.Fatalf("removalOrder = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("removalOrder = %v, want %v", got, want)
		}
	}
}

func TestRootCmd_MissingEnvFile(t *testing.T) {
	root := newRootCmd(&bytes.Buffer{})
	root.SetArgs([]string{"show", "--env-file", filepath.Join(t.TempDir(), "nope.env"), recordPath("basic.yaml")})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	if code := exitCode(t, root.Execute()); code != 3 {
		t.Errorf("exit code = %d, want 3", code)
	}
}
