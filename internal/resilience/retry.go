// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package resilience retries storage operations that fail on lock contention.
package resilience

import (
	"context"
	"math"
	"math/rand/v2"
	"strings"
	"time"
)

// Policy describes how a failed call is retried.
type Policy struct {
	Attempts  int           // Total tries including the first. Values below 1 mean 1.
	Base      time.Duration // Delay before the first retry
	Cap       time.Duration // Upper bound on any single delay; zero means no bound
	Factor    float64       // Growth per retry; values below 1 mean a constant delay
	Jitter    float64       // Fraction of the delay added at random, in [0, 1]
	Retryable func(error) bool
	OnRetry   func(retry int, err error)
}

// BusyPolicy retries SQLite busy and locked errors three times, starting at
// 100ms and doubling up to one second.
func BusyPolicy() Policy {
	return Policy{
		Attempts:  4,
		Base:      100 * time.Millisecond,
		Cap:       time.Second,
		Factor:    2,
		Jitter:    0.25,
		Retryable: IsBusy,
	}
}

// Backoff returns the delay before retry n (1-based) without jitter.
func (p Policy) Backoff(n int) time.Duration {
	if n < 1 {
		return 0
	}
	factor := max(p.Factor, 1)
	d := float64(p.Base) * math.Pow(factor, float64(n-1))
	if p.Cap > 0 && d > float64(p.Cap) {
		return p.Cap
	}
	return time.Duration(d)
}

func (p Policy) delay(n int) time.Duration {
	d := p.Backoff(n)
	if p.Jitter > 0 {
		d += time.Duration(float64(d) * min(p.Jitter, 1) * rand.Float64())
	}
	if p.Cap > 0 {
		d = min(d, p.Cap)
	}
	return d
}

// Do calls fn until it succeeds, returns an error the policy does not retry,
// runs out of attempts, or ctx is done. The last error from fn is returned,
// or ctx.Err() when the wait was cut short.
func Do(ctx context.Context, p Policy, fn func(context.Context) error) error {
	attempts := max(p.Attempts, 1)
	var err error
	for n := 0; n < attempts; n++ {
		if n > 0 {
			if p.OnRetry != nil {
				p.OnRetry(n, err)
			}
			if werr := sleep(ctx, p.delay(n)); werr != nil {
				return werr
			}
		}
		if err = fn(ctx); err == nil {
			return nil
		}
		if p.Retryable == nil || !p.Retryable(err) {
			return err
		}
	}
	return err
}

// DoValue is Do for calls that produce a value.
func DoValue[T any](ctx context.Context, p Policy, fn func(context.Context) (T, error)) (T, error) {
	var out T
	err := Do(ctx, p, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err == nil {
			out = v
		}
		return err
	})
	return out, err
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// IsBusy reports whether err is an SQLite busy or locked condition.
func IsBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, s := range []string{"SQLITE_BUSY", "SQLITE_LOCKED", "database is locked", "database table is locked"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
