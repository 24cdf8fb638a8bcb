// Package file provides a file-backed session store: one file per
// namespaced key under a directory, the layout local storage uses in the
// browser client. Cross-process change notification is built on fsnotify;
// an origin metadata file lets watchers skip their own writes.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/lumenlms/sessionkit/core/logger"
	"github.com/lumenlms/sessionkit/core/session"
)

const (
	keyToken       = "token"
	keyRole        = "role"
	keyPermissions = "permissions"
	keyUser        = "user"
	keyTenant      = "tenant"
	keyOrigin      = "origin"

	defaultDebounce = 50 * time.Millisecond
)

var sessionKeys = []string{keyToken, keyRole, keyPermissions, keyUser, keyTenant}

// Store implements session.Store over a directory of namespaced files.
type Store struct {
	dir      string
	ns       string
	origin   string
	debounce time.Duration
	log      *slog.Logger

	mu sync.Mutex
}

// Option is a functional option for configuring the Store.
type Option func(*Store)

// WithLogger configures structured logging. Defaults to a discard logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// WithDebounce sets the window used to coalesce filesystem event bursts
// into a single change notification. A group write touches five files;
// without coalescing each would emit its own event.
func WithDebounce(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// New creates a Store rooted at dir with the given key namespace.
// The directory is created if it does not exist.
func New(dir, namespace string, opts ...Option) (*Store, error) {
	if namespace == "" {
		return nil, errors.New("namespace is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}

	s := &Store{
		dir:      dir,
		ns:       namespace,
		origin:   uuid.NewString(),
		debounce: defaultDebounce,
		log:      slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Origin returns this writer's origin ID.
func (s *Store) Origin() string {
	return s.origin
}

func (s *Store) Load(_ context.Context) (session.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, err := s.readString(keyToken)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return session.Snapshot{}, session.ErrNoSession
		}
		return session.Snapshot{}, fmt.Errorf("read token: %w", err)
	}
	if token == "" {
		return session.Snapshot{}, session.ErrNoSession
	}

	snap := session.Snapshot{Token: token}

	// Remaining keys are optional; a missing file means the value was
	// never persisted, not a corrupt store.
	if role, err := s.readString(keyRole); err == nil {
		snap.Role = role
	}
	if err := s.readJSON(keyPermissions, &snap.Permissions); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return session.Snapshot{}, fmt.Errorf("read permissions: %w", err)
	}
	if err := s.readJSON(keyUser, &snap.User); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return session.Snapshot{}, fmt.Errorf("read user: %w", err)
	}
	if err := s.readJSON(keyTenant, &snap.Tenant); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return session.Snapshot{}, fmt.Errorf("read tenant: %w", err)
	}

	return snap, nil
}

func (s *Store) Save(_ context.Context, snap session.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Origin marker first so a watcher reacting to the burst reads the
	// current writer.
	if err := s.writeString(keyOrigin, s.origin); err != nil {
		return fmt.Errorf("write origin: %w", err)
	}

	if err := s.writeString(keyToken, snap.Token); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	if err := s.writeString(keyRole, snap.Role); err != nil {
		return fmt.Errorf("write role: %w", err)
	}
	if err := s.writeJSON(keyPermissions, snap.Permissions); err != nil {
		return fmt.Errorf("write permissions: %w", err)
	}
	if err := s.writeJSON(keyUser, snap.User); err != nil {
		return fmt.Errorf("write user: %w", err)
	}
	if err := s.writeJSON(keyTenant, snap.Tenant); err != nil {
		return fmt.Errorf("write tenant: %w", err)
	}
	return nil
}

func (s *Store) SavePermissions(_ context.Context, permissions []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeString(keyOrigin, s.origin); err != nil {
		return fmt.Errorf("write origin: %w", err)
	}
	if err := s.writeJSON(keyPermissions, permissions); err != nil {
		return fmt.Errorf("write permissions: %w", err)
	}
	return nil
}

func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeString(keyOrigin, s.origin); err != nil {
		return fmt.Errorf("write origin: %w", err)
	}

	for _, key := range sessionKeys {
		if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", key, err)
		}
	}
	return nil
}

// Watch emits one event per coalesced burst of writes performed by other
// store instances sharing the directory. Own writes are identified via
// the origin marker and suppressed.
func (s *Store) Watch(ctx context.Context) (<-chan session.Event, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close() //nolint:errcheck
		return nil, fmt.Errorf("watch %s: %w", s.dir, err)
	}

	out := make(chan session.Event, 1)

	go func() {
		defer close(out)
		defer watcher.Close() //nolint:errcheck

		var timer *time.Timer
		var fire <-chan time.Time

		for {
			select {
			case <-ctx.Done():
				return

			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !s.relevant(ev) {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(s.debounce)
					fire = timer.C
				} else {
					timer.Reset(s.debounce)
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.log.Error("session watcher error",
					logger.Component("filestore"), logger.Error(err))

			case <-fire:
				timer = nil
				fire = nil

				origin, err := s.readString(keyOrigin)
				if err == nil && origin == s.origin {
					continue
				}
				select {
				case out <- session.Event{Origin: origin}:
				default:
					// Consumer still draining the previous event.
				}
			}
		}
	}()

	return out, nil
}

func (s *Store) relevant(ev fsnotify.Event) bool {
	if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Remove) && !ev.Op.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(ev.Name)
	return strings.HasPrefix(base, s.ns+"_")
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, s.ns+"_"+key)
}

func (s *Store) readString(key string) (string, error) {
	b, err := os.ReadFile(s.path(key))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *Store) readJSON(key string, out any) error {
	b, err := os.ReadFile(s.path(key))
	if err != nil {
		return err
	}
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	return json.Unmarshal(b, out)
}

func (s *Store) writeString(key, value string) error {
	return s.writeAtomic(key, []byte(value))
}

func (s *Store) writeJSON(key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.writeAtomic(key, b)
}

// writeAtomic writes via a hidden temp file and rename so watchers never
// observe a partially written value. The temp name carries no namespace
// prefix, keeping it invisible to the watch predicate.
func (s *Store) writeAtomic(key string, data []byte) error {
	target := s.path(key)
	tmp := filepath.Join(s.dir, "."+s.ns+"-"+key+".tmp")
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, target)
}
