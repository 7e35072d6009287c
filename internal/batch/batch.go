// Package batch selects postings and drives the check runs over them.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/andreasscherbaum/check-markdown-files/internal/cache"
	"github.com/andreasscherbaum/check-markdown-files/internal/runner"
	"github.com/andreasscherbaum/check-markdown-files/internal/storage"
)

// Driver walks content directories or explicit arguments and folds the
// per-file results into a single exit code.
type Driver struct {
	store     storage.Provider
	processor *runner.Processor

	// ContentDirs are scanned when no files are named on the command line.
	ContentDirs []string
	// ConfigModTime is the mtime of the loaded configuration file. Postings
	// older than it are skipped unless they are drafts or All is set.
	ConfigModTime time.Time
	// ConfigSum keys the result cache together with the content checksum.
	ConfigSum string
	// All disables both the mtime skip and the result cache.
	All bool
	// Cache is the optional result cache. Nil disables caching.
	Cache cache.Store
}

// NewDriver creates a Driver processing files through p.
func NewDriver(store storage.Provider, p *runner.Processor) *Driver {
	return &Driver{store: store, processor: p}
}

// ResolveArgs validates explicit command line arguments. A directory is
// accepted when it contains an index.md, which is used instead. Anything
// else must be an existing .md file.
func ResolveArgs(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("file (%s) does not exist", arg)
		}
		if info.IsDir() {
			index := filepath.Join(arg, "index.md")
			if fi, err := os.Stat(index); err == nil && fi.Mode().IsRegular() {
				slog.Debug("using Markdown file", slog.String("file", index))
				files = append(files, index)
				continue
			}
			return nil, fmt.Errorf("argument (%s) is not a file", arg)
		}
		if !strings.HasSuffix(arg, ".md") {
			return nil, fmt.Errorf("argument (%s) is not a Markdown file", arg)
		}
		files = append(files, arg)
	}
	return files, nil
}

// Discover walks the content directories and returns the sorted list of
// postings that need a run. Directories that do not exist are skipped,
// not every site uses all conventional content types.
func (d *Driver) Discover() ([]string, error) {
	var all []string
	for _, dir := range d.ContentDirs {
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		infos, err := d.store.List(dir)
		if err != nil {
			return nil, err
		}
		for _, fi := range infos {
			ok, err := d.shouldProcess(fi)
			if err != nil {
				return nil, err
			}
			if !ok {
				slog.Debug("skipping file (too old)", slog.String("file", fi.Path))
				continue
			}
			all = append(all, fi.Path)
		}
	}
	sort.Strings(all)
	return all, nil
}

// shouldProcess applies the incremental selection: without All, only
// postings newer than the configuration file are checked. Drafts are
// always included so work in progress gets checked regardless of age.
func (d *Driver) shouldProcess(fi storage.FileInfo) (bool, error) {
	if d.All {
		return true, nil
	}
	if !fi.ModTime.Before(d.ConfigModTime) {
		return true, nil
	}
	data, err := d.store.Read(fi.Path)
	if err != nil {
		return false, err
	}
	// Not a real frontmatter parse, too expensive for a skip decision.
	if strings.Contains(string(data), "draft: true") {
		return true, nil
	}
	return false, nil
}

// Run processes the given files and returns 0 when every posting is clean,
// 1 when at least one was flagged or changed. Check failures abort the run.
func (d *Driver) Run(ctx context.Context, files []string) (int, error) {
	rc := 0
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return rc, err
		}

		var contentSum string
		if d.Cache != nil && !d.All {
			fi, err := d.store.Stat(path)
			if err != nil {
				return rc, err
			}
			contentSum = fi.Checksum
			hit, err := d.Cache.Get(path, contentSum, d.ConfigSum)
			if err != nil {
				return rc, err
			}
			if hit != nil && !hit.Flagged {
				slog.Debug("skipping file (cached clean)", slog.String("file", path))
				continue
			}
		}

		res, err := d.processor.Process(path)
		if err != nil {
			return rc, err
		}
		if res.Flagged() {
			rc = 1
		}

		if d.Cache != nil && contentSum != "" && !res.Changed {
			err := d.Cache.Put(cache.Entry{
				Path:        path,
				ContentSum:  contentSum,
				ConfigSum:   d.ConfigSum,
				Flagged:     res.Flagged(),
				Diagnostics: res.Diagnostics,
			})
			if err != nil {
				slog.Warn("cache update failed", slog.String("file", path), slog.String("error", err.Error()))
			}
		}
	}
	return rc, nil
}
