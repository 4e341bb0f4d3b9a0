// Package reload keeps a wolfssl Context in sync with a profile on disk.
//
// A Reloader builds the profile once at construction and again whenever the
// profile or any file it references changes. A failed rebuild leaves the
// previous Context in service. Sessions created from a replaced Context keep
// it alive until they are closed.
package reload

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/coinbase/wolfssl-go/pkg/wolfssl"
	"github.com/coinbase/wolfssl-go/pkg/wolfssl/logging"
	"github.com/coinbase/wolfssl-go/pkg/wolfssl/profile"
)

// ErrClosed is returned by a Reloader after Close.
var ErrClosed = errors.New("reload: closed")

const defaultDebounce = 100 * time.Millisecond

// Reporter receives the outcome of every reload attempt.
type Reporter interface {
	Reloaded(err error)
}

type config struct {
	logger   logging.Logger
	reporter Reporter
	debounce time.Duration
	ctxOpts  []wolfssl.Option
}

// Option configures New.
type Option func(*config)

// WithLogger sets the logger. It is also passed to the contexts it builds
// unless WithContextOptions overrides it.
func WithLogger(l logging.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithReporter registers a reload outcome hook, such as a metrics collector.
func WithReporter(r Reporter) Option {
	return func(c *config) { c.reporter = r }
}

// WithDebounce sets how long Run waits after a file event before
// rebuilding, so a burst of writes causes one reload.
func WithDebounce(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.debounce = d
		}
	}
}

// WithContextOptions forwards options to wolfssl.NewContextBuilder.
func WithContextOptions(opts ...wolfssl.Option) Option {
	return func(c *config) { c.ctxOpts = append(c.ctxOpts, opts...) }
}

// Reloader owns the current Context built from a profile file.
type Reloader struct {
	path string
	cfg  config

	mu      sync.RWMutex
	current *wolfssl.Context
	files   []string
	closed  bool

	reloadMu sync.Mutex
}

// New loads and builds the profile at path.
func New(path string, opts ...Option) (*Reloader, error) {
	cfg := config{logger: logging.New(nil), debounce: defaultDebounce}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.ctxOpts = append([]wolfssl.Option{wolfssl.WithLogger(cfg.logger)}, cfg.ctxOpts...)

	r := &Reloader{path: path, cfg: cfg}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload rebuilds the Context from disk and swaps it in. On failure the
// current Context is kept and the error is returned.
func (r *Reloader) Reload() error {
	r.reloadMu.Lock()
	defer r.reloadMu.Unlock()

	err := r.reload()
	if r.cfg.reporter != nil {
		r.cfg.reporter.Reloaded(err)
	}
	return err
}

func (r *Reloader) reload() error {
	p, err := profile.Load(r.path)
	if err != nil {
		return err
	}
	next, err := p.Build(r.cfg.ctxOpts...)
	if err != nil {
		return err
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		_ = next.Close()
		return ErrClosed
	}
	prev := r.current
	r.current = next
	r.files = append([]string{r.path}, p.Files()...)
	r.mu.Unlock()

	if prev != nil {
		_ = prev.Close()
	}
	r.cfg.logger.Info(context.Background(), "context loaded", "profile", r.path, "method", next.Method().String())
	return nil
}

// Current returns a new owner of the current Context. The caller must Close
// it.
func (r *Reloader) Current() (*wolfssl.Context, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return nil, ErrClosed
	}
	return r.current.Clone()
}

// NewSession creates a session from the current Context.
func (r *Reloader) NewSession() (*wolfssl.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return nil, ErrClosed
	}
	return r.current.NewSession()
}

// Files lists the paths whose changes trigger a reload: the profile itself
// followed by the material it references.
func (r *Reloader) Files() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.files...)
}

// Close releases the Reloader's Context. Sessions and clones handed out
// earlier stay valid.
func (r *Reloader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	err := r.current.Close()
	r.current = nil
	return err
}

// Run watches the profile and its material and reloads on change until ctx
// is done. Watch errors and failed reloads are logged and do not stop Run.
func (r *Reloader) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer watcher.Close()

	watched := map[string]bool{}
	r.watch(watcher, watched)

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !r.relevant(event) {
				continue
			}
			r.cfg.logger.Debug(ctx, "profile material changed", "file", event.Name, "operation", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(r.cfg.debounce)
			} else {
				timer.Reset(r.cfg.debounce)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			if err := r.Reload(); err != nil {
				if errors.Is(err, ErrClosed) {
					return nil
				}
				r.cfg.logger.Error(ctx, "reload failed; keeping previous context", "profile", r.path, "error", err)
				continue
			}
			r.watch(watcher, watched)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.cfg.logger.Error(ctx, "file watcher error", "error", err)
		}
	}
}

// watch adds the directories of every tracked file. Directories are watched
// rather than files so atomic replacement by rename is seen.
func (r *Reloader) watch(w *fsnotify.Watcher, watched map[string]bool) {
	for _, dir := range r.watchDirs() {
		if watched[dir] {
			continue
		}
		if err := w.Add(dir); err != nil {
			r.cfg.logger.Warn(context.Background(), "cannot watch directory", "dir", dir, "error", err)
			continue
		}
		watched[dir] = true
	}
}

func (r *Reloader) watchDirs() []string {
	seen := map[string]bool{}
	var dirs []string
	for _, f := range r.Files() {
		dir := filepath.Dir(f)
		if info, err := os.Stat(f); err == nil && info.IsDir() {
			dir = f
		}
		dir = filepath.Clean(dir)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

func (r *Reloader) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return false
	}
	name := filepath.Clean(event.Name)
	for _, f := range r.Files() {
		f = filepath.Clean(f)
		if name == f || filepath.Dir(name) == f {
			return true
		}
	}
	return false
}
