package contact

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safyra/internal/infrastructure/repository"
	"safyra/internal/shared/errors"
	"safyra/internal/shared/logger"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(repository.NewMemoryContactRepository(), logger.NewLogger())
}

func TestService_Create(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	c, err := svc.Create(ctx, "user-1", "Asha", "+91 98765 43210", "asha@example.com", "sister", 1)
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID())
	assert.Equal(t, "Asha", c.Name())
	assert.Equal(t, 1, c.Priority())
}

func TestService_Create_InvalidPhone(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(context.Background(), "user-1", "Asha", "not-a-number", "", "", 1)
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestService_Update_KeepsUnsetFields(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	c, err := svc.Create(ctx, "user-1", "Asha", "+919876543210", "asha@example.com", "sister", 1)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, c.ID(), "", "", "", "neighbor", 2)
	require.NoError(t, err)
	assert.Equal(t, "Asha", updated.Name(), "empty name keeps the current value")
	assert.Equal(t, "+919876543210", updated.Phone())
	assert.Equal(t, "neighbor", updated.Relationship())
	assert.Equal(t, 2, updated.Priority())
}

func TestService_ListOrderedByPriority(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "user-1", "Second", "+1222333444", "", "", 2)
	require.NoError(t, err)
	_, err = svc.Create(ctx, "user-1", "First", "+1222333445", "", "", 1)
	require.NoError(t, err)

	contacts, err := svc.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, "First", contacts[0].Name())
	assert.Equal(t, "Second", contacts[1].Name())
}

func TestService_Delete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	c, err := svc.Create(ctx, "user-1", "Asha", "+919876543210", "", "", 1)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, c.ID()))

	_, err = svc.Get(ctx, c.ID())
	require.Error(t, err)
	assert.True(t, errors.IsNotFoundError(err))
}
