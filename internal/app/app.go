// Package app wires together adapters and domain logic.
// It provides lifecycle management for the psearch daemon and the one-shot
// scan path: load patterns, build the matcher, rebuild on change.
package app

import (
	"fmt"
	"sync"
	"time"

	"github.com/so1ar-ec1ipse/pattern-search/internal/adapters/matcher"
	"github.com/so1ar-ec1ipse/pattern-search/internal/adapters/store"
	"github.com/so1ar-ec1ipse/pattern-search/internal/adapters/watch"
	"github.com/so1ar-ec1ipse/pattern-search/internal/domain/dictionary"
	"github.com/so1ar-ec1ipse/pattern-search/internal/ports"
)

// Config controls how the app sources its patterns. Exactly one of Patterns,
// DictFile, or (DBPath, DictName) should be set; precedence is in that order.
type Config struct {
	Patterns []string // explicit pattern list (inline spec, already parsed)
	DictFile string   // pattern file, one pattern per line
	DBPath   string   // bbolt database holding named dictionaries
	DictName string   // dictionary name within DBPath
	Dense    bool     // use the byte-table automaton representation
}

// App owns the matcher and its pattern source. A built matcher is swapped
// wholesale on Reload; in-flight matches keep the automaton they started with.
type App struct {
	cfg     Config
	matcher *matcher.Matcher
	store   *store.Store
	watcher *watch.Watcher

	mu sync.Mutex // serializes Reload
}

// New creates a fully wired app and performs the initial pattern load.
func New(cfg Config) (*App, error) {
	a := &App{
		cfg:     cfg,
		matcher: matcher.New(cfg.Dense),
	}

	if len(cfg.Patterns) == 0 && cfg.DictFile == "" {
		if cfg.DBPath == "" || cfg.DictName == "" {
			return nil, fmt.Errorf("no pattern source: need a pattern spec, --dict-file, or --dict")
		}
		s, err := store.NewStore(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		a.store = s
	}

	if _, err := a.Reload(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// Reload re-reads the pattern source and rebuilds the matcher.
// Returns the new pattern count.
func (a *App) Reload() (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	patterns, err := a.loadPatterns()
	if err != nil {
		return 0, err
	}
	if len(patterns) == 0 {
		return 0, fmt.Errorf("pattern source %s is empty", a.Source())
	}
	if err := a.matcher.Rebuild(patterns); err != nil {
		return 0, err
	}
	return len(patterns), nil
}

func (a *App) loadPatterns() ([]string, error) {
	if len(a.cfg.Patterns) > 0 {
		return dictionary.Normalize(a.cfg.Patterns), nil
	}
	if a.cfg.DictFile != "" {
		return dictionary.LoadFile(a.cfg.DictFile)
	}
	dict, err := a.store.Load(a.cfg.DictName)
	if err != nil {
		return nil, err
	}
	if dict == nil {
		return nil, fmt.Errorf("dictionary %q not found in %s", a.cfg.DictName, a.cfg.DBPath)
	}
	return dict.Patterns, nil
}

// Matcher returns the app's pattern matcher.
func (a *App) Matcher() ports.PatternMatcher {
	return a.matcher
}

// Source returns the human-readable pattern source.
func (a *App) Source() string {
	switch {
	case len(a.cfg.Patterns) > 0:
		return "inline"
	case a.cfg.DictFile != "":
		return a.cfg.DictFile
	default:
		return fmt.Sprintf("%s:%s", a.cfg.DBPath, a.cfg.DictName)
	}
}

// WatchDictFile starts watching the pattern file and rebuilds the matcher on
// each change. onReload, if non-nil, is called after every rebuild attempt
// with the new pattern count or the error. Only valid with a DictFile source.
func (a *App) WatchDictFile(onReload func(count int, err error)) error {
	if a.cfg.DictFile == "" {
		return fmt.Errorf("watch requires a --dict-file source")
	}
	w, err := watch.NewWatcher()
	if err != nil {
		return err
	}
	a.watcher = w
	return w.Watch(a.cfg.DictFile, func(string) {
		// Small grace period: an editor may still be mid-rewrite.
		time.Sleep(20 * time.Millisecond)
		count, err := a.Reload()
		if onReload != nil {
			onReload(count, err)
		}
	})
}

// Close releases the watcher and store.
func (a *App) Close() error {
	if a.watcher != nil {
		a.watcher.Stop()
	}
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}
