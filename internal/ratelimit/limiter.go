package ratelimit

import "context"

// Limiter paces outbound sends. Wait blocks until the next send may go
// out or the context ends.
type Limiter interface {
	Wait(ctx context.Context) error
}
