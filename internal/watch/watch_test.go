package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/andreasscherbaum/check-markdown-files/internal/checks"
	"github.com/andreasscherbaum/check-markdown-files/internal/runner"
	"github.com/andreasscherbaum/check-markdown-files/internal/storage"
)

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func TestWatcherChecksNewFile(t *testing.T) {
	dir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var results []*runner.Result

	r := runner.New([]checks.Check{checks.WhitespacesAtEnd{}})
	go Watch(ctx, storage.NewFS(), r, []string{dir}, func(res *runner.Result) {
		mu.Lock()
		results = append(results, res)
		mu.Unlock()
	})

	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(dir, "new.md")
	_ = os.WriteFile(path, []byte("---\ntitle: t\n---\ntrailing  \n"), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, res := range results {
			if res.Path == path && res.Flagged() {
				return true
			}
		}
		return false
	}, "new file not checked by watcher")
}

func TestWatcherIgnoresNonMarkdown(t *testing.T) {
	dir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	count := 0

	r := runner.New(nil)
	go Watch(ctx, storage.NewFS(), r, []string{dir}, func(_ *runner.Result) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	time.Sleep(100 * time.Millisecond)
	_ = os.WriteFile(filepath.Join(dir, "ignore.txt"), []byte("x"), 0o644)
	time.Sleep(500 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if count != 0 {
		t.Errorf("non-markdown file triggered %d checks", count)
	}
}

func TestWatcherNeverWritesBack(t *testing.T) {
	dir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{}, 1)
	r := runner.New([]checks.Check{checks.RemoveWhitespacesAtEnd{}})
	go Watch(ctx, storage.NewFS(), r, []string{dir}, func(_ *runner.Result) {
		select {
		case done <- struct{}{}:
		default:
		}
	})

	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(dir, "post.md")
	content := "---\ntitle: t\n---\ntrailing  \n"
	_ = os.WriteFile(path, []byte(content), 0o644)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not report the change")
	}

	got, _ := os.ReadFile(path)
	if string(got) != content {
		t.Errorf("watcher rewrote the file: %q", got)
	}
}
