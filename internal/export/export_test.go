package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dshills/servicereport/internal/layout"
	"github.com/dshills/servicereport/internal/order"
)

func sampleRecord() order.ServiceRecord {
	r := order.New(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	r.Client = "Casa  Verde"
	r.ServiceValue = decimal.NewFromInt(100)
	return r
}

func TestWrite_DerivedFileName(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	res, err := Write(sampleRecord(), Request{Format: "md", OutputDir: dir, Layout: layout.DefaultOptions()}, nil)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := filepath.Join(dir, "ordem-servico-casa-verde.md")
	if res.Path != want {
		t.Errorf("Path = %q, want %q", res.Path, want)
	}
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if len(data) != res.Bytes || !strings.Contains(string(data), "R$ 100.00") {
		t.Errorf("unexpected output (%d bytes reported):\n%s", res.Bytes, data)
	}
}

func TestWrite_Stdout(t *testing.T) {
	var buf bytes.Buffer
	res, err := Write(sampleRecord(), Request{Format: "json", Out: Stdout}, &buf)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if res.Path != "" || res.Bytes != buf.Len() {
		t.Errorf("Result = %+v, buffer has %d bytes", res, buf.Len())
	}
	if !strings.Contains(buf.String(), `"kind": "summary"`) {
		t.Errorf("stdout missing summary node: %s", buf.String())
	}
}

func TestWrite_ExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.pdf")
	res, err := Write(sampleRecord(), Request{Format: "pdf", Out: path}, nil)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if res.Path != path {
		t.Errorf("Path = %q, want %q", res.Path, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Error("output is not a PDF")
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	if _, err := Write(sampleRecord(), Request{Format: "odt", Out: Stdout}, &bytes.Buffer{}); err == nil {
		t.Error("expected error for unknown format")
	}
}
