// Package ratelimit implements fixed-window admission control keyed by
// client identity and bucket name.
//
// A fixed window can admit up to 2×max requests across a window boundary.
// It is an abuse guard, not a hard ceiling.
package ratelimit

import (
	"context"
	"time"
)

// WindowStore records hits against fixed windows.
// Hit performs the read-modify-write for key atomically and reports whether
// the hit is admitted. A denied hit does not consume quota.
type WindowStore interface {
	Hit(ctx context.Context, key string, max int, window time.Duration, now time.Time) (bool, error)
}

// Key builds the store key for a client and bucket
func Key(clientKey, bucket string) string {
	return clientKey + ":" + bucket
}
