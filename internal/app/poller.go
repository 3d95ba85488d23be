package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tecnojuy/aula/internal/state"
)

const (
	defaultPollInterval = time.Minute
	maxBackoff          = 5 * time.Minute
)

// Session is what the poller drives.
type Session interface {
	Snapshot() state.Snapshot
	CheckSession(ctx context.Context) state.Snapshot
	RefreshUser(ctx context.Context)
	RefreshCourses(ctx context.Context) error
}

// StartPoller checks the session once, then keeps it fresh in the
// background. It returns immediately.
func StartPoller(ctx context.Context, sess Session, interval time.Duration, log zerolog.Logger) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	log = log.With().Str("component", "poller").Logger()
	go func() {
		snap := sess.CheckSession(ctx)
		if snap.Authenticated() {
			if err := sess.RefreshCourses(ctx); err != nil {
				log.Warn().Err(err).Msg("initial course load failed")
			}
		}
		for {
			wait := calculateBackoff(sess.Snapshot().ConsecutiveFailures, interval)
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
			tick(ctx, sess, log)
		}
	}()
}

// tick revalidates a signed-in session. An anonymous session is retried only
// when it became anonymous through transient failures; after a logout or a
// rejected token there is nothing to poll for.
func tick(ctx context.Context, sess Session, log zerolog.Logger) {
	snap := sess.Snapshot()
	switch {
	case snap.Authenticated():
		sess.RefreshUser(ctx)
		after := sess.Snapshot()
		if !after.Authenticated() {
			log.Info().AnErr("cause", after.LastError).Msg("session ended during refresh")
			return
		}
		if err := sess.RefreshCourses(ctx); err != nil {
			log.Warn().Err(err).Msg("course refresh failed")
		}
	case snap.ConsecutiveFailures > 0:
		log.Debug().Int("failures", snap.ConsecutiveFailures).Msg("retrying session check")
		sess.CheckSession(ctx)
	}
}

// calculateBackoff doubles base per consecutive failure, capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	d := base
	for range failures {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}
