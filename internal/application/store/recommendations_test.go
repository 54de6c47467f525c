package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jatmnk9/UNAYOE-web-sub001/internal/infrastructure/portal"
	"github.com/jatmnk9/UNAYOE-web-sub001/internal/infrastructure/transport/transporttest"
)

func newRecommendationsStore(fake *transporttest.Fake, opts Options) *RecommendationsStore {
	return NewRecommendationsStore(portal.NewRecommendationService(fake, nil), opts)
}

func TestRecommendationsStore_ToggleRemovesLikedID(t *testing.T) {
	fake := transporttest.New()
	fake.On("GET", "/likes/u1").Reply(`[7]`)
	fake.On("DELETE", "/likes/u1/7").Reply(``)

	s := newRecommendationsStore(fake, testOptions())
	ctx := context.Background()
	require.True(t, s.FetchUserLikes(ctx, "u1"))
	require.True(t, s.Snapshot().IsLiked(7))

	require.True(t, s.ToggleLike(ctx, "u1", 7))

	assert.Equal(t, 1, fake.CallCount("DELETE", "/likes/u1/7"))
	assert.Zero(t, fake.CallCount("POST", "/likes/u1/7"))
	snap := s.Snapshot()
	assert.False(t, snap.IsLiked(7))
	assert.Empty(t, snap.Error)
}

func TestRecommendationsStore_ToggleFailureKeepsLikes(t *testing.T) {
	fake := transporttest.New()
	fake.On("GET", "/likes/u1").Reply(`[7]`)
	fake.On("DELETE", "/likes/u1/7").Fail(500, "")

	s := newRecommendationsStore(fake, testOptions())
	ctx := context.Background()
	require.True(t, s.FetchUserLikes(ctx, "u1"))

	assert.False(t, s.ToggleLike(ctx, "u1", 7))

	snap := s.Snapshot()
	assert.True(t, snap.IsLiked(7))
	assert.Equal(t, msgToggleLike, snap.Error)
	assert.False(t, snap.IsLoading)
}

func TestRecommendationsStore_ToggleAddsUnlikedID(t *testing.T) {
	fake := transporttest.New()
	fake.On("POST", "/likes/u1/8").Reply(``)

	s := newRecommendationsStore(fake, testOptions())
	require.True(t, s.ToggleLike(context.Background(), "u1", 8))
	assert.Equal(t, []int64{8}, s.Snapshot().Likes.IDs())
}

func TestRecommendationsStore_LikeLoadFailureIsSilent(t *testing.T) {
	fake := transporttest.New()
	fake.On("GET", "/likes/u1").Fail(500, "boom")

	s := newRecommendationsStore(fake, testOptions())
	assert.False(t, s.FetchUserLikes(context.Background(), "u1"))

	snap := s.Snapshot()
	assert.Empty(t, snap.Error)
	assert.False(t, snap.IsLoading)
	assert.Zero(t, snap.Likes.Len())
}

func TestRecommendationsStore_SerializedToggles(t *testing.T) {
	fake := transporttest.New()
	gate := make(chan struct{})
	fake.On("POST", "/likes/u1/7").After(gate).Reply(``)
	fake.On("DELETE", "/likes/u1/7").Reply(``)

	opts := testOptions()
	opts.SerializeToggles = true
	s := newRecommendationsStore(fake, opts)
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); s.ToggleLike(ctx, "u1", 7) }()
	require.Eventually(t, func() bool { return fake.CallCount("POST", "/likes/u1/7") == 1 }, time.Second, time.Millisecond)
	go func() { defer wg.Done(); s.ToggleLike(ctx, "u1", 7) }()

	close(gate)
	wg.Wait()

	assert.Equal(t, 1, fake.CallCount("POST", "/likes/u1/7"))
	assert.Equal(t, 1, fake.CallCount("DELETE", "/likes/u1/7"))
	assert.False(t, s.Snapshot().IsLiked(7))
}

func TestRecommendationsStore_CatalogAndPersonalized(t *testing.T) {
	fake := transporttest.New()
	fake.On("GET", "/recomendaciones/todas").Reply(`{"data":[{"id":1,"titulo":"Respira"},{"id":2,"titulo":"Camina"}]}`)
	fake.On("GET", "/recomendaciones/u1").Reply(`{"data":[{"id":2,"titulo":"Camina"}],"emocion_detectada":"alegría","sentimiento_detectado":"POS"}`)

	s := newRecommendationsStore(fake, testOptions())
	ctx := context.Background()
	require.True(t, s.FetchRecommendations(ctx))
	require.True(t, s.FetchPersonalized(ctx, "u1"))

	snap := s.Snapshot()
	assert.Len(t, snap.Recommendations, 2)
	require.NotNil(t, snap.Personalized)
	first, ok := snap.Personalized.First()
	require.True(t, ok)
	assert.Equal(t, int64(2), first.ID)

	s.Reset()
	snap = s.Snapshot()
	assert.Empty(t, snap.Recommendations)
	assert.Nil(t, snap.Personalized)
}

func TestRecommendationsStore_ResetDropsLateResults(t *testing.T) {
	fake := transporttest.New()
	likesGate := make(chan struct{})
	toggleGate := make(chan struct{})
	fake.On("GET", "/likes/u1").After(likesGate).Reply(`[3, 4]`)
	fake.On("POST", "/likes/u1/9").After(toggleGate).Reply(``)

	s := newRecommendationsStore(fake, testOptions())
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make([]bool, 2)
	wg.Add(2)
	go func() { defer wg.Done(); results[0] = s.FetchUserLikes(ctx, "u1") }()
	go func() { defer wg.Done(); results[1] = s.ToggleLike(ctx, "u1", 9) }()
	require.Eventually(t, func() bool {
		return fake.CallCount("GET", "/likes/u1") == 1 && fake.CallCount("POST", "/likes/u1/9") == 1
	}, time.Second, time.Millisecond)

	s.Reset()
	close(likesGate)
	close(toggleGate)
	wg.Wait()

	assert.Equal(t, []bool{false, false}, results)
	snap := s.Snapshot()
	assert.Zero(t, snap.Likes.Len())
	assert.False(t, snap.IsLoading)
}
