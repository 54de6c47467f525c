package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/jatmnk9/UNAYOE-web-sub001/internal/domain/recommendation"
	"github.com/jatmnk9/UNAYOE-web-sub001/internal/domain/shared"
	"github.com/jatmnk9/UNAYOE-web-sub001/internal/infrastructure/transport"
)

// RecommendationService reads the tip catalog and manages the like-set.
type RecommendationService struct {
	requester transport.Requester
	mapper    *Mapper
	logger    *slog.Logger
}

// NewRecommendationService creates a RecommendationService.
func NewRecommendationService(requester transport.Requester, logger *slog.Logger) *RecommendationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RecommendationService{
		requester: requester,
		mapper:    NewMapper(logger),
		logger:    logger,
	}
}

// GetAll loads the catalog.
func (s *RecommendationService) GetAll(ctx context.Context) ([]recommendation.Recommendation, error) {
	var raw json.RawMessage
	if err := s.requester.Get(ctx, "/recomendaciones/todas", &raw); err != nil {
		return nil, fmt.Errorf("get recommendations: %w", err)
	}

	var dtos []RecommendationDTO
	if err := unwrap(raw, &dtos); err != nil {
		return nil, shared.WrapError("recommendations", "GetAll", shared.ErrUnknown, "Respuesta de recomendaciones inválida", err)
	}
	return s.mapper.RecommendationsFromDTOs(dtos), nil
}

// GetPersonalized loads the pick derived from the user's latest note.
func (s *RecommendationService) GetPersonalized(ctx context.Context, userID string) (recommendation.Personalized, error) {
	if err := requireID("recommendations", "GetPersonalized", "user_id", userID); err != nil {
		return recommendation.Personalized{}, err
	}

	var dto PersonalizedDTO
	if err := s.requester.Get(ctx, "/recomendaciones/"+url.PathEscape(userID), &dto); err != nil {
		return recommendation.Personalized{}, fmt.Errorf("get personalized recommendation %s: %w", userID, err)
	}
	return s.mapper.PersonalizedFromDTO(dto), nil
}

// GetUserLikes loads the like-set of a user.
func (s *RecommendationService) GetUserLikes(ctx context.Context, userID string) (recommendation.LikeSet, error) {
	if err := requireID("recommendations", "GetUserLikes", "user_id", userID); err != nil {
		return recommendation.LikeSet{}, err
	}

	var raw json.RawMessage
	if err := s.requester.Get(ctx, "/likes/"+url.PathEscape(userID), &raw); err != nil {
		return recommendation.LikeSet{}, fmt.Errorf("get likes %s: %w", userID, err)
	}

	var ids []flexInt
	if err := unwrap(raw, &ids); err != nil {
		return recommendation.LikeSet{}, shared.WrapError("recommendations", "GetUserLikes", shared.ErrUnknown, "Respuesta de favoritos inválida", err)
	}

	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		out = append(out, int64(id))
	}
	return recommendation.NewLikeSet(out...), nil
}

// AddLike marks a recommendation as favorite.
func (s *RecommendationService) AddLike(ctx context.Context, userID string, recommendationID int64) error {
	if err := requireID("recommendations", "AddLike", "user_id", userID); err != nil {
		return err
	}
	if err := s.requester.Post(ctx, likePath(userID, recommendationID), nil, nil); err != nil {
		return fmt.Errorf("add like %d: %w", recommendationID, err)
	}
	return nil
}

// RemoveLike unmarks a recommendation.
func (s *RecommendationService) RemoveLike(ctx context.Context, userID string, recommendationID int64) error {
	if err := requireID("recommendations", "RemoveLike", "user_id", userID); err != nil {
		return err
	}
	if err := s.requester.Delete(ctx, likePath(userID, recommendationID), nil); err != nil {
		return fmt.Errorf("remove like %d: %w", recommendationID, err)
	}
	return nil
}

// ApplyToggle issues the single call a toggle decision requires.
func (s *RecommendationService) ApplyToggle(ctx context.Context, userID string, recommendationID int64, action recommendation.ToggleAction) error {
	switch action {
	case recommendation.ActionAdd:
		return s.AddLike(ctx, userID, recommendationID)
	case recommendation.ActionRemove:
		return s.RemoveLike(ctx, userID, recommendationID)
	default:
		return shared.NewDomainError("recommendations", "ApplyToggle", shared.ErrValidation, "Acción de favorito desconocida")
	}
}

func likePath(userID string, recommendationID int64) string {
	return "/likes/" + url.PathEscape(userID) + "/" + strconv.FormatInt(recommendationID, 10)
}
