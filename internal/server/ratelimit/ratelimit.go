// Package ratelimit throttles requests per client and endpoint with token buckets.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Info describes the limit applied to one request.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// bucket is the token bucket for one client on one endpoint.
type bucket struct {
	limiter  *rate.Limiter
	burst    int
	lastSeen time.Time
}

// Limiter holds a bucket per client, endpoint and method. Idle buckets are
// dropped by a background sweep.
type Limiter struct {
	config *Config
	now    func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket

	stop     chan struct{}
	stopOnce sync.Once
}

// NewLimiter creates a limiter. A nil config allows DefaultLimit requests per minute
// for every endpoint.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = &Config{
			Enabled:       true,
			DefaultLimit:  DefaultLimit,
			DefaultWindow: time.Minute,
			IdleTTL:       DefaultIdleTTL,
		}
	}

	l := &Limiter{
		config:  config,
		now:     time.Now,
		buckets: make(map[string]*bucket),
		stop:    make(chan struct{}),
	}

	if config.Enabled && config.CleanupInterval > 0 {
		go l.sweepEvery(config.CleanupInterval)
	}
	return l
}

// Allow consumes a token for the request and reports whether it may proceed.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	switch {
	case !l.config.Enabled, l.config.Whitelist[clientID]:
		return true, Info{Allowed: true}
	case l.config.Blacklist[clientID]:
		return false, Info{}
	}

	rule := l.ruleFor(path, method)
	if rule.Limit <= 0 {
		return true, Info{Allowed: true}
	}

	now := l.now()
	b := l.bucketFor(clientID+" "+method+" "+path, rule, now)

	l.mu.Lock()
	allowed := b.limiter.AllowN(now, 1)
	tokens := b.limiter.TokensAt(now)
	l.mu.Unlock()

	info := Info{
		Allowed:   allowed,
		Limit:     rule.Limit,
		Remaining: max(int(tokens), 0),
		ResetTime: now.Add(untilFull(tokens, b.burst, b.limiter.Limit())),
	}
	if !allowed {
		info.RetryAfter = untilFull(tokens, int(tokens)+1, b.limiter.Limit())
	}
	return allowed, info
}

// ruleFor returns the endpoint rule for a request, or the default rule.
func (l *Limiter) ruleFor(path, method string) EndpointConfig {
	if rule, ok := MatchEndpoint(path, method, l.config.EndpointConfigs); ok {
		return rule
	}
	return EndpointConfig{
		Limit:  l.config.DefaultLimit,
		Window: l.config.DefaultWindow,
		Burst:  l.config.DefaultLimit,
	}
}

func (l *Limiter) bucketFor(key string, rule EndpointConfig, now time.Time) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		burst := rule.Burst
		if burst <= 0 {
			burst = rule.Limit
		}
		window := rule.Window
		if window <= 0 {
			window = time.Minute
		}
		b = &bucket{
			limiter: rate.NewLimiter(rate.Limit(float64(rule.Limit)/window.Seconds()), burst),
			burst:   burst,
		}
		l.buckets[key] = b
	}
	b.lastSeen = now
	return b
}

// untilFull is how long a bucket at tokens takes to refill to target.
func untilFull(tokens float64, target int, perSecond rate.Limit) time.Duration {
	missing := float64(target) - tokens
	if missing <= 0 || perSecond <= 0 {
		return 0
	}
	return time.Duration(missing / float64(perSecond) * float64(time.Second))
}

func (l *Limiter) sweepEvery(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.sweep(l.now())
		case <-l.stop:
			return
		}
	}
}

// sweep drops buckets not used within the idle TTL.
func (l *Limiter) sweep(now time.Time) int {
	ttl := l.config.IdleTTL
	if ttl <= 0 {
		ttl = DefaultIdleTTL
	}
	cutoff := now.Add(-ttl)

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, b := range l.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(l.buckets, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of live buckets.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Stop ends the background sweep. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}
