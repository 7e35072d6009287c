// Package runner executes the check catalog over postings and decides
// what happens with rewritten content.
package runner

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/andreasscherbaum/check-markdown-files/internal/checks"
	"github.com/andreasscherbaum/check-markdown-files/internal/document"
	"github.com/andreasscherbaum/check-markdown-files/internal/storage"
)

// Result is the outcome of running the catalog over one posting.
type Result struct {
	// Path of the posting as given by the caller.
	Path string `json:"path"`
	// Diagnostics in catalog order.
	Diagnostics []string `json:"diagnostics"`
	// Output is the content after all checks ran.
	Output string `json:"-"`
	// Changed is true when a fix check rewrote the content.
	Changed bool `json:"changed"`
}

// Flagged reports whether the posting needs attention: it either produced
// diagnostics or was rewritten.
func (r *Result) Flagged() bool {
	return len(r.Diagnostics) > 0 || r.Changed
}

// Runner threads a posting through the ordered check catalog.
type Runner struct {
	catalog []checks.Check
}

// New creates a Runner over the given catalog. The caller fixes the order;
// the runner never reorders checks.
func New(catalog []checks.Check) *Runner {
	return &Runner{catalog: catalog}
}

// Checks returns the catalog in execution order.
func (r *Runner) Checks() []checks.Check { return r.catalog }

// Run executes every check against content. The frontmatter extracted
// before the first check gates whole-check suppression; each check
// re-splits the working copy itself. A check error aborts the run.
func (r *Runner) Run(path, content string) (*Result, error) {
	frontmatter, _, err := document.Split(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, path)
	}

	doc := &checks.Document{
		Path:            path,
		Content:         content,
		InitFrontmatter: frontmatter,
	}
	rep := &checks.Report{}

	for _, chk := range r.catalog {
		slog.Debug("running check", slog.String("check", chk.Name()), slog.String("file", path))
		out, err := chk.Apply(doc, rep)
		if err != nil {
			return nil, fmt.Errorf("check %s: %w", chk.Name(), err)
		}
		doc.Content = out
	}

	return &Result{
		Path:        path,
		Diagnostics: rep.Lines(),
		Output:      doc.Content,
		Changed:     doc.Content != content,
	}, nil
}

// Processor runs the catalog over files on disk and applies the
// write-back decision.
type Processor struct {
	store  storage.Provider
	runner *Runner

	// DryRun suppresses writing rewritten content back to disk.
	DryRun bool
	// PrintDry additionally prints the rewritten content in dry-run mode.
	PrintDry bool

	// Stdout receives the per-file report. Defaults to os.Stdout.
	Stdout io.Writer
}

// NewProcessor creates a Processor using store for file access.
func NewProcessor(store storage.Provider, r *Runner) *Processor {
	return &Processor{store: store, runner: r, Stdout: os.Stdout}
}

// Process checks a single posting. It returns the result so callers can
// fold exit codes or publish events; diagnostics have already been
// printed and rewritten content already handled when it returns.
func (p *Processor) Process(path string) (*Result, error) {
	slog.Debug("working on file", slog.String("file", path))
	data, err := p.store.Read(path)
	if err != nil {
		return nil, err
	}

	res, err := p.runner.Run(path, string(data))
	if err != nil {
		return nil, err
	}

	if len(res.Diagnostics) > 0 {
		fmt.Fprintf(p.Stdout, "File: %s\n", realPath(path))
		for _, line := range res.Diagnostics {
			fmt.Fprintln(p.Stdout, line)
		}
	}

	if err := p.decide(res); err != nil {
		return nil, err
	}
	return res, nil
}

// decide applies the change decision: rewritten content is written back
// unless this is a dry run, in which case it is optionally printed.
func (p *Processor) decide(res *Result) error {
	if !res.Changed {
		slog.Debug("file is unchanged", slog.String("file", res.Path))
		return nil
	}
	slog.Info("File is CHANGED!")
	if p.DryRun {
		if p.PrintDry {
			slog.Debug("dry-run mode, output file:")
			fmt.Fprintln(p.Stdout, res.Output)
		}
		return nil
	}
	slog.Info("writing changed file", slog.String("file", res.Path))
	return p.store.Write(res.Path, []byte(res.Output))
}

// realPath resolves path to an absolute path with symlinks evaluated,
// falling back to the input when resolution fails.
func realPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}
