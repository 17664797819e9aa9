package rate

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter keeps one token bucket per key. Buckets that have not been used
// for Expiry are dropped by a background sweep until Close is called.
type Limiter struct {
	Burst  int
	Every  time.Duration
	Expiry time.Duration

	mu      sync.Mutex
	buckets map[string]*bucket
	done    chan struct{}
	once    sync.Once
}

type bucket struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// NewLimiter returns a limiter refilling one token per every, holding at most
// burst tokens per key. A burst below 1 disables limiting.
func NewLimiter(burst int, every time.Duration, expiry time.Duration) *Limiter {
	l := &Limiter{
		Burst:   burst,
		Every:   every,
		Expiry:  expiry,
		buckets: make(map[string]*bucket),
		done:    make(chan struct{}),
	}
	if l.Enabled() {
		go l.sweep(time.Minute)
	}
	return l
}

// Enabled reports whether the limiter rejects anything at all.
func (l *Limiter) Enabled() bool {
	return l != nil && l.Burst > 0
}

// Allow consumes a token for key and reports whether one was available.
func (l *Limiter) Allow(key string) bool {
	if !l.Enabled() {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Every(l.Every), l.Burst)}
		l.buckets[key] = b
	}
	b.lastAccess = time.Now()
	return b.limiter.Allow()
}

// Close stops the background sweep.
func (l *Limiter) Close() {
	if l == nil {
		return
	}
	l.once.Do(func() { close(l.done) })
}

func (l *Limiter) sweep(interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-l.done:
			return
		case <-t.C:
		}

		l.mu.Lock()
		for key, b := range l.buckets {
			if time.Since(b.lastAccess) > l.Expiry {
				delete(l.buckets, key)
			}
		}
		l.mu.Unlock()
	}
}
