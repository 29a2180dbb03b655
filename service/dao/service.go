package dao

import (
	"context"
)

// Service is a minimal generic persistence contract shared by the vault and
// the consent gate. List returns records in insertion order – both consumers
// rely on deterministic iteration.
type Service[K comparable, T any] interface {
	Save(ctx context.Context, t *T) error

	Load(ctx context.Context, id K) (*T, error)

	Delete(ctx context.Context, id K) error

	List(ctx context.Context) ([]*T, error)
}
