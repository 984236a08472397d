package tablestore

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// conn is one pooled logical connection. The synchronous client doesn't
// need a real socket handle here: the underlying net/http.Transport
// already pools TCP connections keyed by host, so a tablestore conn is
// a lightweight ticket that bounds how many requests may be in flight
// at once and carries a notion of age for the idle-trimming policy.
type conn struct {
	createdAt time.Time
	touchedAt time.Time
}

// connPool is the bounded pool described in spec.md §4.5: acquire
// reuses an idle conn, grows up to max, then waits with exponential
// back-off; release pushes the conn back to the front of the idle list,
// unless keep-alive is disabled, and periodically trims idle connections
// once they outnumber half of the live count.
//
// This is the one process-wide shared mutable resource (SPEC_FULL.md
// §4.5a / spec.md §4.4's concurrency model): every acquire/release holds
// mu for the duration of its bookkeeping, never across a blocking wait.
type connPool struct {
	mu sync.Mutex

	max             int
	connectTimeout  time.Duration
	enableKeepAlive bool

	live int     // count of conns issued and not yet destroyed
	idle []*conn // idle conns, most-recently-released first

	waiters int // count of goroutines currently blocked in acquire, for tests/metrics
}

func newConnPool(max int, connectTimeout time.Duration, enableKeepAlive bool) *connPool {
	return &connPool{max: max, connectTimeout: connectTimeout, enableKeepAlive: enableKeepAlive}
}

// acquire returns a conn, blocking with exponential back-off (starting
// at 2ms, doubling each attempt) for up to connectTimeout before giving
// up with a ClientError carrying code-less message "no available
// connection" (spec.md: NoAvailableConnection).
func (p *connPool) acquire(traceID string) (*conn, error) {
	deadline := time.Now().Add(p.connectTimeout)
	backoff := 2 * time.Millisecond
	// limiter paces the wait between attempts: burst 1 means the first
	// Wait returns immediately, then each failed attempt doubles the
	// limiter's rate so the next Wait blocks for the new backoff —
	// the doubling-backoff sleep expressed as a token-bucket instead of
	// a hand-rolled time.Sleep loop.
	limiter := rate.NewLimiter(rate.Every(backoff), 1)

	for {
		p.mu.Lock()
		if n := len(p.idle); n > 0 {
			c := p.idle[0]
			p.idle = p.idle[1:]
			c.touchedAt = time.Now()
			p.mu.Unlock()
			return c, nil
		}
		if p.live < p.max {
			p.live++
			c := &conn{createdAt: time.Now(), touchedAt: time.Now()}
			p.mu.Unlock()
			return c, nil
		}
		p.mu.Unlock()

		if time.Now().After(deadline) {
			return nil, newClientError(traceID, "no available connection: pool exhausted (max=%d)", p.max)
		}

		p.mu.Lock()
		p.waiters++
		p.mu.Unlock()

		ctx, cancel := context.WithDeadline(context.Background(), deadline)
		waitErr := limiter.Wait(ctx)
		cancel()

		p.mu.Lock()
		p.waiters--
		p.mu.Unlock()

		if waitErr != nil {
			return nil, newClientError(traceID, "no available connection: pool exhausted (max=%d)", p.max)
		}

		backoff *= 2
		limiter.SetLimit(rate.Every(backoff))
	}
}

// release returns c to the pool. If keep-alive is disabled the conn is
// destroyed outright (decrementing live); otherwise it's pushed to the
// front of the idle list and, if idle now exceeds half of live, the
// oldest quarter of idle conns are destroyed to reclaim memory.
func (p *connPool) release(c *conn) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.enableKeepAlive {
		p.live--
		return
	}

	c.touchedAt = time.Now()
	p.idle = append([]*conn{c}, p.idle...)

	if len(p.idle) > p.live/2 {
		p.trimOldestLocked(len(p.idle) / 4)
	}
}

// trimOldestLocked destroys up to n idle conns, oldest (by touchedAt)
// first. Callers must hold p.mu.
func (p *connPool) trimOldestLocked(n int) {
	if n <= 0 || len(p.idle) == 0 {
		return
	}
	// p.idle is newest-first; the oldest entries sit at the tail.
	cut := len(p.idle) - n
	if cut < 0 {
		cut = 0
	}
	removed := len(p.idle) - cut
	p.idle = p.idle[:cut]
	p.live -= removed
}

// stats reports a snapshot for tests and diagnostics.
func (p *connPool) stats() (live, idle, waiters int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.live, len(p.idle), p.waiters
}
