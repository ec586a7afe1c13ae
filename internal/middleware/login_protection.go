// Copyright (c) 2026 Pentalingo Contributors
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// LoginProtection provides combined IP rate limiting and account lockout
// protection for the login endpoint.
type LoginProtection struct {
	ipLimiters *limiterCache[string]

	failedAttempts map[string]*loginAttempt
	attemptsMu     sync.RWMutex

	maxFailedAttempts int
	lockoutDuration   time.Duration // base duration, doubles with each lockout
	attemptWindow     time.Duration
}

// loginAttempt tracks failed login attempts for an account.
type loginAttempt struct {
	count       int
	firstFailed time.Time
	lockedUntil time.Time
	lockouts    int
}

// LoginProtectionConfig holds configuration for login protection.
type LoginProtectionConfig struct {
	// IPRateLimit is requests per second per IP.
	IPRateLimit float64
	// IPBurst is the maximum burst size for IP rate limiting.
	IPBurst int
	// MaxFailedAttempts before account lockout.
	MaxFailedAttempts int
	// LockoutDuration is the base lockout time, doubled with each lockout.
	LockoutDuration time.Duration
	// AttemptWindow is the time window for counting failed attempts.
	AttemptWindow time.Duration
}

// DefaultLoginProtectionConfig returns sensible defaults.
func DefaultLoginProtectionConfig() LoginProtectionConfig {
	return LoginProtectionConfig{
		IPRateLimit:       0.5,
		IPBurst:           5,
		MaxFailedAttempts: 5,
		LockoutDuration:   15 * time.Minute,
		AttemptWindow:     15 * time.Minute,
	}
}

// NewLoginProtection creates a new login protection instance.
func NewLoginProtection(cfg LoginProtectionConfig) *LoginProtection {
	if cfg.IPRateLimit <= 0 {
		cfg.IPRateLimit = 0.5
	}
	if cfg.IPBurst <= 0 {
		cfg.IPBurst = 5
	}
	if cfg.MaxFailedAttempts <= 0 {
		cfg.MaxFailedAttempts = 5
	}
	if cfg.LockoutDuration <= 0 {
		cfg.LockoutDuration = 15 * time.Minute
	}
	if cfg.AttemptWindow <= 0 {
		cfg.AttemptWindow = 15 * time.Minute
	}

	lp := &LoginProtection{
		ipLimiters:        newLimiterCache[string](cfg.IPRateLimit, cfg.IPBurst),
		failedAttempts:    make(map[string]*loginAttempt),
		maxFailedAttempts: cfg.MaxFailedAttempts,
		lockoutDuration:   cfg.LockoutDuration,
		attemptWindow:     cfg.AttemptWindow,
	}

	go lp.cleanup()

	return lp
}

// CheckIPRateLimit reports whether the request from this IP should be
// allowed.
func (lp *LoginProtection) CheckIPRateLimit(ip string) bool {
	return lp.ipLimiters.get(ip).Allow()
}

// IsAccountLocked checks if an account is currently locked.
// Returns (locked, remainingTime).
func (lp *LoginProtection) IsAccountLocked(email string) (bool, time.Duration) {
	lp.attemptsMu.RLock()
	attempt, exists := lp.failedAttempts[email]
	lp.attemptsMu.RUnlock()

	if !exists {
		return false, 0
	}
	if time.Now().Before(attempt.lockedUntil) {
		return true, time.Until(attempt.lockedUntil)
	}
	return false, 0
}

// RecordFailedAttempt records a failed login attempt.
// Returns (locked, lockDuration) if the account is now locked.
func (lp *LoginProtection) RecordFailedAttempt(email string) (bool, time.Duration) {
	lp.attemptsMu.Lock()
	defer lp.attemptsMu.Unlock()

	now := time.Now()
	attempt, exists := lp.failedAttempts[email]

	if !exists {
		lp.failedAttempts[email] = &loginAttempt{
			count:       1,
			firstFailed: now,
		}
		return false, 0
	}

	// Window passed: reset the counter.
	if now.Sub(attempt.firstFailed) > lp.attemptWindow {
		attempt.count = 1
		attempt.firstFailed = now
		return false, 0
	}

	attempt.count++

	if attempt.count >= lp.maxFailedAttempts {
		// Exponential backoff, capped at 24 hours.
		lockDuration := lp.lockoutDuration
		for i := 0; i < attempt.lockouts; i++ {
			lockDuration *= 2
			if lockDuration > 24*time.Hour {
				lockDuration = 24 * time.Hour
				break
			}
		}

		attempt.lockedUntil = now.Add(lockDuration)
		attempt.lockouts++
		attempt.count = 0

		slog.Warn("account locked due to failed attempts",
			"email", email,
			"lockouts", attempt.lockouts,
			"duration", lockDuration,
		)
		return true, lockDuration
	}

	return false, 0
}

// RecordSuccessfulLogin clears failed attempt tracking for an account.
func (lp *LoginProtection) RecordSuccessfulLogin(email string) {
	lp.attemptsMu.Lock()
	defer lp.attemptsMu.Unlock()
	delete(lp.failedAttempts, email)
}

// GetRemainingAttempts returns the number of attempts left before lockout.
func (lp *LoginProtection) GetRemainingAttempts(email string) int {
	lp.attemptsMu.RLock()
	attempt, exists := lp.failedAttempts[email]
	lp.attemptsMu.RUnlock()

	if !exists {
		return lp.maxFailedAttempts
	}
	if time.Since(attempt.firstFailed) > lp.attemptWindow {
		return lp.maxFailedAttempts
	}

	remaining := lp.maxFailedAttempts - attempt.count
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (lp *LoginProtection) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		lp.cleanupStaleEntries()
	}
}

func (lp *LoginProtection) cleanupStaleEntries() {
	now := time.Now()

	if lp.ipLimiters.clearIfExceeds(10000) {
		slog.Info("cleared IP rate limiters due to size")
	}

	lp.attemptsMu.Lock()
	for email, attempt := range lp.failedAttempts {
		if now.After(attempt.lockedUntil) &&
			now.Sub(attempt.firstFailed) > lp.attemptWindow {
			delete(lp.failedAttempts, email)
		}
	}
	lp.attemptsMu.Unlock()
}

// Middleware returns HTTP middleware that rate limits login POST requests
// by client IP.
func (lp *LoginProtection) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			ip := getClientIP(r)
			if !lp.CheckIPRateLimit(ip) {
				slog.Warn("login rate limit exceeded", "ip", ip)
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
