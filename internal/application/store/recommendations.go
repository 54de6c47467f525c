package store

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/jatmnk9/UNAYOE-web-sub001/internal/domain/recommendation"
	"github.com/jatmnk9/UNAYOE-web-sub001/pkg/collection"
	"github.com/jatmnk9/UNAYOE-web-sub001/pkg/keyedmutex"
	"github.com/jatmnk9/UNAYOE-web-sub001/pkg/logger"
)

// RecommendationAPI is the recommendation service the store drives.
type RecommendationAPI interface {
	GetAll(ctx context.Context) ([]recommendation.Recommendation, error)
	GetPersonalized(ctx context.Context, userID string) (recommendation.Personalized, error)
	GetUserLikes(ctx context.Context, userID string) (recommendation.LikeSet, error)
	ApplyToggle(ctx context.Context, userID string, recommendationID int64, action recommendation.ToggleAction) error
}

const (
	msgFetchRecommendations = "Error al cargar las recomendaciones"
	msgFetchPersonalized    = "Error al cargar la recomendación personalizada"
	msgToggleLike           = "Error al actualizar el like"
)

// RecommendationsSnapshot is a copy of the recommendations store state.
type RecommendationsSnapshot struct {
	Recommendations []recommendation.Recommendation
	Personalized    *recommendation.Personalized
	Likes           recommendation.LikeSet
	Status
}

// IsLiked reports whether the user likes id.
func (s RecommendationsSnapshot) IsLiked(id int64) bool {
	return s.Likes.Contains(id)
}

// RecommendationsStore mirrors the catalog and the user's like-set. The two
// are independent: likes may name ids the catalog does not hold.
type RecommendationsStore struct {
	base
	svc RecommendationAPI

	recommendations []recommendation.Recommendation
	personalized    *recommendation.Personalized
	likes           recommendation.LikeSet

	likeLoads singleflight.Group
	toggles   *keyedmutex.KeyedMutex[int64]
}

// NewRecommendationsStore creates an empty RecommendationsStore.
func NewRecommendationsStore(svc RecommendationAPI, opts Options) *RecommendationsStore {
	s := &RecommendationsStore{
		svc:             svc,
		recommendations: []recommendation.Recommendation{},
		likes:           recommendation.NewLikeSet(),
	}
	if opts.SerializeToggles {
		s.toggles = keyedmutex.New[int64]()
	}
	s.init("recommendations", opts)
	return s
}

// Snapshot returns a copy of the current state.
func (s *RecommendationsStore) Snapshot() RecommendationsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := RecommendationsSnapshot{
		Recommendations: collection.Clone(s.recommendations),
		Likes:           s.likes,
		Status:          s.statusLocked(),
	}
	if s.personalized != nil {
		p := *s.personalized
		p.Recommendations = collection.Clone(p.Recommendations)
		snap.Personalized = &p
	}
	return snap
}

// FetchRecommendations loads the full catalog.
func (s *RecommendationsStore) FetchRecommendations(ctx context.Context) bool {
	c := s.beginLoad("catalog", "FetchRecommendations", msgFetchRecommendations)
	list, err := s.svc.GetAll(ctx)
	return s.end(c, err, func() { s.recommendations = collection.Clone(list) })
}

// FetchPersonalized loads the picks derived from the user's recent notes.
func (s *RecommendationsStore) FetchPersonalized(ctx context.Context, userID string) bool {
	c := s.beginLoad("personalized", "FetchPersonalized", msgFetchPersonalized)
	p, err := s.svc.GetPersonalized(ctx, userID)
	return s.end(c, err, func() { s.personalized = &p })
}

// FetchUserLikes loads the like-set. Failures are logged and never touch
// Error or IsLoading. Concurrent loads for the same user share one request.
// A set that arrives after Reset is dropped.
func (s *RecommendationsStore) FetchUserLikes(ctx context.Context, userID string) bool {
	epoch := s.since()
	v, err, dup := s.likeLoads.Do(userID, func() (any, error) {
		return s.svc.GetUserLikes(ctx, userID)
	})
	if err != nil {
		s.logger.Warn("like-set load failed", logger.UserID(userID), logger.Err(err))
		return false
	}
	if dup {
		s.logger.Debug("like-set load shared", logger.UserID(userID))
	}

	likes := v.(recommendation.LikeSet)
	return s.mutateSince(epoch, "FetchUserLikes", func() { s.likes = likes })
}

// ToggleLike flips the user's like on a recommendation. The remote call is
// chosen from the current membership; membership changes only after the
// call succeeded. On failure the like-set is unchanged and Error is set.
func (s *RecommendationsStore) ToggleLike(ctx context.Context, userID string, recommendationID int64) bool {
	if s.toggles != nil {
		unlock := s.toggles.Lock(recommendationID)
		defer unlock()
	}

	s.mu.Lock()
	decision := recommendation.NextMembership(s.likes, recommendationID)
	s.mu.Unlock()

	c := s.begin("ToggleLike", msgToggleLike)
	err := s.svc.ApplyToggle(ctx, userID, recommendationID, decision.Action)
	return s.end(c, err, func() {
		// Applied to the current set so concurrent toggles of other ids survive.
		if decision.Action == recommendation.ActionAdd {
			s.likes = s.likes.With(recommendationID)
		} else {
			s.likes = s.likes.Without(recommendationID)
		}
	})
}

// Reset restores the initial empty state.
func (s *RecommendationsStore) Reset() {
	s.mutate("Reset", func() {
		s.resetLocked()
		s.recommendations = []recommendation.Recommendation{}
		s.personalized = nil
		s.likes = recommendation.NewLikeSet()
	})
}
