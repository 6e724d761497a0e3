package cache

import (
	"context"
	"time"
)

// Noop is a port.Cache that never stores anything. Used when Redis is disabled.
type Noop struct{}

func (Noop) Get(context.Context, string) (string, bool, error) { return "", false, nil }

func (Noop) Put(context.Context, string, string, time.Duration) error { return nil }
