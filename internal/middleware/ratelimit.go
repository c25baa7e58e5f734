package middleware

import (
	"net/http" // HTTP status codes
	"sync"
	"time"

	"github.com/gin-gonic/gin" // Gin web framework
)

// Limiter is a fixed-window per-IP request limiter. It guards the whole
// API surface against abusive clients; the login throttle handles the
// per-account policy separately.
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*windowCount

	window time.Duration
	max    int

	stopCleanup chan struct{}
	once        sync.Once
}

type windowCount struct {
	start    time.Time
	requests int
}

// NewLimiter creates a limiter allowing max requests per window per IP
// and starts its background cleanup.
func NewLimiter(max int, window time.Duration) *Limiter {
	l := &Limiter{
		clients:     make(map[string]*windowCount),
		window:      window,
		max:         max,
		stopCleanup: make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

// Allow counts a request from ip and reports whether it fits the window.
func (l *Limiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now()
	w, ok := l.clients[ip]
	if !ok || now.Sub(w.start) > l.window {
		l.clients[ip] = &windowCount{start: now, requests: 1}
		return true
	}
	w.requests++
	return w.requests <= l.max
}

// Stop terminates the cleanup goroutine.
func (l *Limiter) Stop() {
	l.once.Do(func() { close(l.stopCleanup) })
}

func (l *Limiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.mu.Lock()
			cutoff := time.Now().Add(-l.window)
			for ip, w := range l.clients {
				if w.start.Before(cutoff) {
					delete(l.clients, ip)
				}
			}
			l.mu.Unlock()
		case <-l.stopCleanup:
			return
		}
	}
}

// RateLimit rejects requests over the limiter's budget with 429.
func RateLimit(l *Limiter, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": message})
			return
		}
		c.Next()
	}
}
