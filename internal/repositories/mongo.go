package repositories

import (
	"context"
	"time"
)

// mongoOpTimeout bounds every single-document store operation.
const mongoOpTimeout = 5 * time.Second

func opContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), mongoOpTimeout)
}
