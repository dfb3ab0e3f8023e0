package service

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/dom/kanban-board/internal/cache"
	"github.com/dom/kanban-board/internal/clock"
	"golang.org/x/sync/singleflight"
)

type stampSource interface {
	GetSecurityStamp(ctx context.Context, id int64) (string, error)
}

// SessionGuard checks that a session's security stamp is still the user's
// current one.
//
// Stamps are cached per user for the configured TTL. A password change made
// by another process is therefore only seen once the cached entry expires:
// a revoked session can stay valid for up to one TTL. This window is
// accepted; ChangePassword in this process calls Forget to close it locally.
// A lookup still in flight when Forget runs is not cached.
type SessionGuard struct {
	users stampSource
	cache *cache.TTL[int64, string]
	group singleflight.Group
	log   *slog.Logger

	mu    sync.Mutex
	epoch uint64
}

const stampLookupTimeout = 5 * time.Second

func NewSessionGuard(users stampSource, ttl time.Duration, clk clock.Clock, log *slog.Logger) *SessionGuard {
	return &SessionGuard{
		users: users,
		cache: cache.NewTTL[int64, string](ttl, clk),
		log:   log,
	}
}

// Validate reports whether stamp is the current security stamp of userID.
// Unknown or inactive users and lookup failures yield false.
func (g *SessionGuard) Validate(ctx context.Context, userID int64, stamp string) bool {
	if stamp == "" {
		return false
	}

	current, ok := g.cache.Get(userID)
	if !ok {
		var err error
		current, err = g.lookup(ctx, userID)
		if err != nil {
			if !isNotFound(err) {
				g.log.Warn("security stamp lookup failed", "user_id", userID, "err", err)
			}
			return false
		}
	}

	return subtle.ConstantTimeCompare([]byte(current), []byte(stamp)) == 1
}

// lookup loads the stamp once for all concurrent callers. The shared query
// is detached from the first caller's cancellation so that one aborted
// request cannot fail the others.
func (g *SessionGuard) lookup(ctx context.Context, userID int64) (string, error) {
	v, err, _ := g.group.Do(strconv.FormatInt(userID, 10), func() (interface{}, error) {
		g.mu.Lock()
		epoch := g.epoch
		g.mu.Unlock()

		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), stampLookupTimeout)
		defer cancel()
		stamp, err := g.users.GetSecurityStamp(lookupCtx, userID)
		if err != nil {
			return nil, err
		}

		g.mu.Lock()
		if g.epoch == epoch {
			g.cache.Set(userID, stamp)
		}
		g.mu.Unlock()
		return stamp, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Forget drops the cached stamp of userID. Lookups already in flight finish
// but do not populate the cache.
func (g *SessionGuard) Forget(userID int64) {
	g.mu.Lock()
	g.epoch++
	g.cache.Delete(userID)
	g.mu.Unlock()
	g.group.Forget(strconv.FormatInt(userID, 10))
}

// Sweep purges expired stamps every interval until ctx is done.
func (g *SessionGuard) Sweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := g.cache.Purge(); n > 0 {
				g.log.Debug("purged expired session stamps", "count", n, "cached", g.cache.Len())
			}
		}
	}
}
