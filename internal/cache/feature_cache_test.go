package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moabank/ai-risk-go/internal/models"
	"github.com/moabank/ai-risk-go/internal/testutil"
)

func TestFeatureCache_SetAndGet(t *testing.T) {
	client, _ := testutil.NewTestRedis(t)
	featureCache := NewFeatureCache(client, time.Hour)
	ctx := context.Background()

	vec := &models.FeatureVector{TotUseAmMean: 150000, DebtToIncomeRatio: 0.83}
	featureCache.Set(ctx, 1, vec)

	got, ok := featureCache.Get(ctx, 1)
	require.True(t, ok)
	assert.Equal(t, vec.TotUseAmMean, got.TotUseAmMean)
	assert.Equal(t, vec.DebtToIncomeRatio, got.DebtToIncomeRatio)

	stats := featureCache.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(0), stats.Misses)
	assert.Equal(t, int64(1), stats.Sets)
}

func TestFeatureCache_MissOnUnknownUser(t *testing.T) {
	client, _ := testutil.NewTestRedis(t)
	featureCache := NewFeatureCache(client, time.Hour)

	_, ok := featureCache.Get(context.Background(), 404)
	assert.False(t, ok)
	assert.Equal(t, int64(1), featureCache.Stats().Misses)
}

func TestFeatureCache_Invalidate(t *testing.T) {
	client, _ := testutil.NewTestRedis(t)
	featureCache := NewFeatureCache(client, time.Hour)
	ctx := context.Background()

	featureCache.Set(ctx, 7, &models.FeatureVector{BalanceMean: 42})
	featureCache.Invalidate(ctx, 7)

	_, ok := featureCache.Get(ctx, 7)
	assert.False(t, ok)
}

func TestFeatureCache_ExpiresWithTTL(t *testing.T) {
	client, server := testutil.NewTestRedis(t)
	featureCache := NewFeatureCache(client, time.Minute)
	ctx := context.Background()

	featureCache.Set(ctx, 3, &models.FeatureVector{BalanceMean: 42})
	server.FastForward(2 * time.Minute)

	_, ok := featureCache.Get(ctx, 3)
	assert.False(t, ok)
}

func TestFeatureCache_DiscardsCorruptEntry(t *testing.T) {
	client, server := testutil.NewTestRedis(t)
	featureCache := NewFeatureCache(client, time.Hour)

	require.NoError(t, server.Set("feature_snapshot:9", "not json"))

	_, ok := featureCache.Get(context.Background(), 9)
	assert.False(t, ok)
}
