package lock

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrNotAcquired = errors.New("lock not acquired")
)

// Locker serializa secciones críticas por clave. Los services lo usan
// para transiciones de estado (ej: "consultation:<id>") de modo que dos
// requests concurrentes sobre la misma entidad no se intercalen.
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// memoryLocker guarda un mutex por clave. Suficiente para una sola
// instancia del proceso; para varias instancias usar el locker de Redis.
type memoryLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewMemoryLocker() Locker {
	return &memoryLocker{
		locks: make(map[string]*sync.Mutex),
	}
}

func (l *memoryLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	defer m.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}
