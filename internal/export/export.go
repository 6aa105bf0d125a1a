// Package export turns a record into a rendered document on disk or stdout.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dshills/servicereport/internal/layout"
	"github.com/dshills/servicereport/internal/order"
	"github.com/dshills/servicereport/internal/render"
)

// Stdout as Request.Out writes the document to the given writer instead of a file.
const Stdout = "-"

// Request describes one export.
type Request struct {
	Format    string
	Out       string // explicit path, Stdout, or "" for the derived file name
	OutputDir string // directory for the derived file name
	Layout    layout.Options
	TermStyle string
}

// Result reports where the document went.
type Result struct {
	Path  string // empty when written to stdout
	Bytes int
}

// Bytes renders rec in the requested format without writing it anywhere.
func Bytes(rec order.ServiceRecord, req Request) ([]byte, render.Renderer, *layout.Document, error) {
	r, err := render.NewRenderer(req.Format, render.WithTermStyle(req.TermStyle))
	if err != nil {
		return nil, nil, nil, err
	}
	doc := layout.BuildWith(rec, req.Layout)
	out, err := r.Render(doc)
	if err != nil {
		return nil, nil, nil, err
	}
	return out, r, doc, nil
}

// Write renders rec and writes it to the destination named by req. stdout
// receives the document when req.Out is Stdout.
func Write(rec order.ServiceRecord, req Request, stdout io.Writer) (Result, error) {
	out, r, doc, err := Bytes(rec, req)
	if err != nil {
		return Result{}, err
	}

	if req.Out == Stdout {
		if _, err := stdout.Write(out); err != nil {
			return Result{}, fmt.Errorf("writing output: %w", err)
		}
		return Result{Bytes: len(out)}, nil
	}

	path := req.Out
	if path == "" {
		dir := req.OutputDir
		if dir == "" {
			dir = "."
		}
		path = filepath.Join(dir, render.FileName(doc, r))
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Result{}, fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return Result{}, fmt.Errorf("writing output file: %w", err)
	}
	return Result{Path: path, Bytes: len(out)}, nil
}
