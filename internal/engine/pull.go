package engine

import (
	"context"
	"fmt"
	"time"
)

// PullFromRemote fetches the full remote session list plus the current
// user's settings and merges them into the local store. For each remote
// record, the remote version overwrites local when no local record shares
// its id or the remote createdAt is greater or equal — remote wins ties.
// This deliberately has no tombstones: a session deleted locally that still
// exists remotely comes back on the next pull.
//
// The call is reentrant-safe: a second invocation while one is in flight is
// a no-op, so concurrent timers cannot double network traffic or thrash the
// cache.
func (e *Engine) PullFromRemote(ctx context.Context) error {
	if err := e.requireInit(); err != nil {
		return err
	}
	if !e.isOnline() || e.remote == nil {
		return nil
	}
	if !e.pullInFlight.CompareAndSwap(false, true) {
		return nil
	}
	defer e.pullInFlight.Store(false)

	callCtx, cancel := context.WithTimeout(ctx, e.remoteTimeout)
	defer cancel()

	remoteSessions, err := e.remote.ListSessions(callCtx, "", "")
	if err != nil {
		e.logger.Warn("pull failed", "error", err)
		return err
	}

	merged := 0
	for _, rs := range remoteSessions {
		local, err := e.sessions.GetByID(rs.ID)
		if err != nil {
			return fmt.Errorf("merge session %s: %w", rs.ID, err)
		}
		if local != nil && rs.CreatedAt < local.CreatedAt {
			continue // remote copy is older, keep ours
		}
		if err := e.sessions.Upsert(rs); err != nil {
			return fmt.Errorf("merge session %s: %w", rs.ID, err)
		}
		merged++
	}

	e.pullSettings(callCtx)

	e.markSynced()
	e.logger.Debug("pull complete", "remote", len(remoteSessions), "merged", merged)
	return nil
}

// pullSettings overlays the current user's server-side settings onto the
// local store. Best-effort: a failure here never fails the session pull.
func (e *Engine) pullSettings(ctx context.Context) {
	user := e.CurrentUser()
	if user == "" {
		return
	}
	settings, err := e.remote.Settings(ctx, user)
	if err != nil {
		e.logger.Warn("settings pull failed", "error", err)
		return
	}
	for key, value := range settings {
		if err := e.settings.SetRaw(user, key, value); err != nil {
			e.logger.Warn("apply remote setting failed", "key", key, "error", err)
		}
	}
}

// PushAllToRemote uploads every local session, and the current user's
// settings, to the server. Used to seed a fresh server or recover after a
// long offline stretch; per-record failures are logged and skipped.
func (e *Engine) PushAllToRemote(ctx context.Context) error {
	if err := e.requireInit(); err != nil {
		return err
	}
	if !e.isOnline() || e.remote == nil {
		return nil
	}
	e.activePushes.Add(1)
	defer e.activePushes.Add(-1)

	sessions, err := e.sessions.ListAll()
	if err != nil {
		return err
	}

	pushed := 0
	for _, sess := range sessions {
		callCtx, cancel := context.WithTimeout(ctx, e.remoteTimeout)
		err := e.remote.PushSession(callCtx, sess)
		cancel()
		if err != nil {
			e.logger.Warn("push failed", "id", sess.ID, "error", err)
			continue
		}
		pushed++
	}

	if user := e.CurrentUser(); user != "" {
		if settings, err := e.settings.All(user); err == nil {
			for key, value := range settings {
				callCtx, cancel := context.WithTimeout(ctx, e.remoteTimeout)
				if err := e.remote.PutSetting(callCtx, user, key, value); err != nil {
					e.logger.Warn("setting push failed", "key", key, "error", err)
				}
				cancel()
			}
		}
	}

	e.markSynced()
	e.logger.Info("push complete", "sessions", pushed, "total", len(sessions))
	return nil
}

// StartBackgroundSync schedules PullFromRemote on a fixed interval. It only
// pulls; pushes already happen eagerly on every mutation. Calling it while a
// timer is already running is a no-op, so restarts are safe.
func (e *Engine) StartBackgroundSync(interval time.Duration) {
	if interval <= 0 {
		interval = DefaultPullInterval
	}

	e.mu.Lock()
	if e.stopBg != nil {
		e.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	done := make(chan struct{})
	e.stopBg = stop
	e.bgDone = done
	e.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), e.remoteTimeout)
				if err := e.PullFromRemote(ctx); err != nil {
					e.logger.Warn("periodic sync failed", "error", err)
				}
				cancel()
			}
		}
	}()
}

// StopBackgroundSync cancels the periodic pull. It returns only after the
// sync goroutine has exited, so no further ticks fire afterwards. Stopping a
// stopped engine is a no-op.
func (e *Engine) StopBackgroundSync() {
	e.mu.Lock()
	stop, done := e.stopBg, e.bgDone
	e.stopBg, e.bgDone = nil, nil
	e.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}
