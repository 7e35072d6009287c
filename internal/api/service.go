package api

import (
	"context"
	"fmt"

	"github.com/andreasscherbaum/check-markdown-files/internal/apperr"
	"github.com/andreasscherbaum/check-markdown-files/internal/runner"
	"github.com/andreasscherbaum/check-markdown-files/internal/storage"
)

// Service runs the check catalog for the API layer. Lint runs through the
// service are always dry: rewritten content is returned, never written.
type Service struct {
	store  storage.Provider
	runner *runner.Runner
}

// NewService creates a new API service.
func NewService(store storage.Provider, r *runner.Runner) *Service {
	return &Service{store: store, runner: r}
}

// LintContent checks content submitted directly. name is used in
// diagnostics and defaults to "request.md" when empty.
func (s *Service) LintContent(ctx context.Context, name, content string) (*runner.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if name == "" {
		name = "request.md"
	}
	return s.runner.Run(name, content)
}

// LintFile checks a posting on disk without modifying it.
func (s *Service) LintFile(ctx context.Context, path string) (*runner.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := s.store.Read(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperr.ErrNotFound, path)
	}
	return s.runner.Run(path, string(data))
}

// CheckNames returns the enabled checks in execution order.
func (s *Service) CheckNames() []string {
	checks := s.runner.Checks()
	names := make([]string, 0, len(checks))
	for _, c := range checks {
		names = append(names, c.Name())
	}
	return names
}
