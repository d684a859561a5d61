package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/horario-admin-api/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, "horario", nil)
	ctx := context.Background()

	var dest map[string]int
	err := repo.Get(ctx, "eligibility:v1:abc", &dest)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrCacheMiss))

	assert.NoError(t, repo.Set(ctx, "eligibility:v1:abc", map[string]int{"a": 1}, time.Minute))
	assert.NoError(t, repo.DeleteByPattern(ctx, "eligibility:*"))
	assert.NoError(t, repo.Ping(ctx))
	assert.NoError(t, repo.Close())
}

func TestCacheRepositoryKeyNamespace(t *testing.T) {
	assert.Equal(t, "horario:k", NewCacheRepository(nil, "horario", nil).key("k"))
	assert.Equal(t, "k", NewCacheRepository(nil, "", nil).key("k"))
}
