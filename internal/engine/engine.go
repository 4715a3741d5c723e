// Package engine owns the single source of truth for what callers see: the
// local store. Every mutation is write-through (local first, then a
// best-effort push to the remote server), and a periodic background pull
// merges the other user's changes back in.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/yashwanthk/focusflow/internal/models"
	"github.com/yashwanthk/focusflow/internal/remote"
	"github.com/yashwanthk/focusflow/internal/store"
	"github.com/yashwanthk/focusflow/internal/validate"
)

// DefaultPullInterval is how often the background sync fetches the other
// user's updates. Local mutations push eagerly, so the interval only bounds
// how stale remote changes can get.
const DefaultPullInterval = 60 * time.Second

// DefaultRemoteTimeout bounds any single remote call made by the engine.
const DefaultRemoteTimeout = 10 * time.Second

// ErrNotInitialized is returned when a mutation is attempted before
// Initialize has opened the local store. This is a programmer error, not a
// recoverable runtime condition.
var ErrNotInitialized = errors.New("engine: not initialized")

// Engine reconciles the local store with the remote server.
type Engine struct {
	db       *store.DB
	sessions *store.SessionStore
	settings *store.SettingStore
	remote   *remote.Client
	logger   *slog.Logger

	remoteTimeout time.Duration
	legacyPath    string
	defaultTarget int
	now           func() time.Time

	// pullInFlight is the reentrancy guard for pulls. Only PullFromRemote
	// touches it, via CompareAndSwap, so a push finishing mid-pull can
	// neither release the guard nor block a legitimate pull.
	pullInFlight atomic.Bool
	// activePushes counts remote writes in flight. Status only; pushes
	// never exclude each other or pulls.
	activePushes atomic.Int32

	mu          sync.Mutex
	initialized bool
	online      bool
	currentUser models.User
	lastSyncAt  time.Time
	stopBg      chan struct{}
	bgDone      chan struct{}
}

// Options tunes engine construction. Zero values pick the defaults.
type Options struct {
	RemoteTimeout time.Duration
	// LegacySnapshotPath points at a pre-sync flat-file export that is
	// imported once if the local sessions collection is empty.
	LegacySnapshotPath string
	// DefaultTargetMinutes is the daily target used when the user has no
	// customTarget setting.
	DefaultTargetMinutes int
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// New creates an engine over an open local store and a remote client.
// remoteClient may be nil for a purely offline deployment.
func New(db *store.DB, remoteClient *remote.Client, logger *slog.Logger, opts Options) *Engine {
	if opts.RemoteTimeout <= 0 {
		opts.RemoteTimeout = DefaultRemoteTimeout
	}
	if opts.DefaultTargetMinutes <= 0 {
		opts.DefaultTargetMinutes = models.DefaultTargetMinutes
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine{
		db:            db,
		sessions:      store.NewSessionStore(db),
		settings:      store.NewSettingStore(db),
		remote:        remoteClient,
		logger:        logger,
		remoteTimeout: opts.RemoteTimeout,
		legacyPath:    opts.LegacySnapshotPath,
		defaultTarget: opts.DefaultTargetMinutes,
		now:           opts.Now,
	}
}

// Initialize imports any legacy snapshot, probes the remote server, and runs
// one initial pull when it is reachable. The probe and the pull are bounded
// by the remote timeout; on failure the engine falls back to local-only
// operation.
func (e *Engine) Initialize(ctx context.Context) error {
	e.mu.Lock()
	user := e.currentUser
	e.mu.Unlock()

	imported, err := store.ImportLegacySnapshot(e.db, e.legacyPath, user)
	if err != nil {
		return fmt.Errorf("import legacy snapshot: %w", err)
	}
	if imported > 0 {
		e.logger.Info("imported legacy snapshot", "sessions", imported)
	}

	online := false
	if e.remote != nil {
		probeCtx, cancel := context.WithTimeout(ctx, e.remoteTimeout)
		err := e.remote.Health(probeCtx)
		cancel()
		if err != nil {
			e.logger.Warn("remote unreachable, running local-only", "error", err)
		} else {
			online = true
		}
	}

	e.mu.Lock()
	e.initialized = true
	e.online = online
	e.mu.Unlock()

	if online {
		if err := e.PullFromRemote(ctx); err != nil {
			e.logger.Warn("initial sync failed", "error", err)
		}
	}
	return nil
}

// ListAllSessions returns every session from the local store, newest first.
// It never touches the network; this is the sole read path for the UI.
func (e *Engine) ListAllSessions() ([]models.Session, error) {
	return e.sessions.ListAll()
}

// SaveSession validates and persists a session. The local write must succeed
// for the save to succeed; the remote push is best-effort and a push failure
// is logged and swallowed, leaving the record durably local until a later
// sync pass. An absent ID means create (a fresh id is generated); an absent
// CreatedAt keeps the stored record's value on edit, or stamps now on create.
func (e *Engine) SaveSession(ctx context.Context, in models.SessionInput) (models.Session, error) {
	if err := e.requireInit(); err != nil {
		return models.Session{}, err
	}

	now := e.now()

	existing, err := e.sessions.ListByDate(in.Date, in.UserID)
	if err != nil {
		return models.Session{}, fmt.Errorf("load sessions for validation: %w", err)
	}

	duration, verr := validate.Session(in, existing, in.ID, now)
	if verr != nil {
		return models.Session{}, verr
	}

	sess := models.Session{
		ID:              in.ID,
		UserID:          in.UserID,
		Date:            in.Date,
		StartTime:       in.StartTime,
		EndTime:         in.EndTime,
		Task:            in.Task,
		DurationMinutes: duration,
		CreatedAt:       in.CreatedAt,
	}
	if sess.ID == "" {
		sess.ID = uuid.New().String()
	}
	if sess.CreatedAt == 0 {
		prev, err := e.sessions.GetByID(sess.ID)
		if err != nil {
			return models.Session{}, err
		}
		if prev != nil {
			sess.CreatedAt = prev.CreatedAt
		} else {
			sess.CreatedAt = now.UnixMilli()
		}
	}

	if err := e.sessions.Upsert(sess); err != nil {
		return models.Session{}, err
	}

	if e.isOnline() && e.remote != nil {
		e.pushOne(ctx, sess)
	}
	return sess, nil
}

// DeleteSession removes a session locally and best-effort remotely. The
// local removal is authoritative even when the remote delete fails.
func (e *Engine) DeleteSession(ctx context.Context, id string) error {
	if err := e.requireInit(); err != nil {
		return err
	}
	if err := e.sessions.Delete(id); err != nil {
		return err
	}

	if e.isOnline() && e.remote != nil {
		e.activePushes.Add(1)
		defer e.activePushes.Add(-1)

		callCtx, cancel := context.WithTimeout(ctx, e.remoteTimeout)
		defer cancel()
		if err := e.remote.DeleteSession(callCtx, id); err != nil {
			e.logger.Warn("remote delete failed, record removed locally", "id", id, "error", err)
			return nil
		}
		e.markSynced()
	}
	return nil
}

// GetSetting reads a setting for the current user from the local store.
func (e *Engine) GetSetting(key string) (json.RawMessage, error) {
	return e.settings.Get(e.CurrentUser(), key)
}

// TargetMinutes returns the current user's daily target, falling back to the
// configured default.
func (e *Engine) TargetMinutes() (int, error) {
	return e.settings.GetInt(e.CurrentUser(), models.SettingCustomTarget, e.defaultTarget)
}

// SetSetting writes a setting locally and pushes it to the server when a
// current user is known; without one the remote push is skipped.
func (e *Engine) SetSetting(ctx context.Context, key string, value any) error {
	if err := e.requireInit(); err != nil {
		return err
	}
	user := e.CurrentUser()
	if err := e.settings.Set(user, key, value); err != nil {
		return err
	}

	if user == "" || !e.isOnline() || e.remote == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal setting %s: %w", key, err)
	}

	e.activePushes.Add(1)
	defer e.activePushes.Add(-1)

	callCtx, cancel := context.WithTimeout(ctx, e.remoteTimeout)
	defer cancel()
	if err := e.remote.PutSetting(callCtx, user, key, data); err != nil {
		e.logger.Warn("remote setting push failed, kept locally", "key", key, "error", err)
		return nil
	}
	e.markSynced()
	return nil
}

// ClearAllData wipes the local store. The server copy is left untouched.
func (e *Engine) ClearAllData() error {
	if err := e.requireInit(); err != nil {
		return err
	}
	return e.db.ClearAll()
}

// SetCurrentUser switches the identity used for settings scoping. Session
// visibility is unaffected; sessions are filtered by their own userId field
// at the consumption layer.
func (e *Engine) SetCurrentUser(userID models.User) {
	e.mu.Lock()
	e.currentUser = userID
	e.mu.Unlock()
}

// CurrentUser returns the identity used for settings scoping.
func (e *Engine) CurrentUser() models.User {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentUser
}

// SetOnline feeds the engine a connectivity signal. Transitioning to online
// triggers an immediate pull; offline suppresses remote attempts while local
// operations continue uninterrupted.
func (e *Engine) SetOnline(online bool) {
	e.mu.Lock()
	was := e.online
	e.online = online
	e.mu.Unlock()

	if online && !was {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), e.remoteTimeout)
			defer cancel()
			if err := e.PullFromRemote(ctx); err != nil {
				e.logger.Warn("sync after reconnect failed", "error", err)
			}
		}()
	}
}

// IsSyncing reports whether a push or pull is currently in flight.
func (e *Engine) IsSyncing() bool {
	return e.pullInFlight.Load() || e.activePushes.Load() > 0
}

// LastSyncTime returns when the engine last completed a remote operation
// successfully, or the zero time if it never has.
func (e *Engine) LastSyncTime() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastSyncAt
}

func (e *Engine) requireInit() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		return ErrNotInitialized
	}
	return nil
}

func (e *Engine) isOnline() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.online
}

func (e *Engine) markSynced() {
	e.mu.Lock()
	e.lastSyncAt = e.now()
	e.mu.Unlock()
}

// pushOne sends a single freshly-written session to the server. Failures
// leave the record local and are not reported to the caller; the local write
// already succeeded.
func (e *Engine) pushOne(ctx context.Context, sess models.Session) {
	e.activePushes.Add(1)
	defer e.activePushes.Add(-1)

	callCtx, cancel := context.WithTimeout(ctx, e.remoteTimeout)
	defer cancel()
	if err := e.remote.PushSession(callCtx, sess); err != nil {
		e.logger.Warn("remote push failed, record kept locally", "id", sess.ID, "error", err)
		return
	}
	e.markSynced()
}
