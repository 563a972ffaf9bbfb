package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type staticChecker struct {
	name string
	err  error
}

func (c staticChecker) Name() string                    { return c.name }
func (c staticChecker) Check(ctx context.Context) error { return c.err }

func TestRegistryAllHealthy(t *testing.T) {
	registry := NewCheckerRegistry()
	registry.Register(staticChecker{name: "redis"})
	registry.Register(staticChecker{name: "object_store"})

	health := registry.Check(context.Background())

	assert.Equal(t, StatusHealthy, health.Status)
	assert.Len(t, health.Checks, 2)
	assert.Equal(t, StatusHealthy, health.Checks["redis"].Status)
}

func TestRegistryUnhealthyWhenAnyCheckFails(t *testing.T) {
	registry := NewCheckerRegistry()
	registry.Register(staticChecker{name: "redis"})
	registry.Register(staticChecker{name: "object_store", err: errors.New("unreachable")})

	health := registry.Check(context.Background())

	assert.Equal(t, StatusUnhealthy, health.Status)
	assert.Equal(t, StatusUnhealthy, health.Checks["object_store"].Status)
	assert.Equal(t, "unreachable", health.Checks["object_store"].Message)
	assert.Equal(t, StatusHealthy, health.Checks["redis"].Status)
}

func TestRegistryEmpty(t *testing.T) {
	registry := NewCheckerRegistry()

	health := registry.Check(context.Background())

	assert.Equal(t, StatusHealthy, health.Status)
	assert.Empty(t, health.Checks)
}

type staticPinger struct{ err error }

func (p staticPinger) Ping(ctx context.Context) error { return p.err }

func TestObjectStoreChecker(t *testing.T) {
	assert.NoError(t, NewObjectStoreChecker(staticPinger{}).Check(context.Background()))
	assert.Error(t, NewObjectStoreChecker(staticPinger{err: errors.New("down")}).Check(context.Background()))
}
