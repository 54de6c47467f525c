// Package recommendation contains the read-only wellness tip catalog and the
// per-user like-set, which is an edge between a user and catalog ids rather
// than state embedded in the catalog entries.
package recommendation

import "github.com/jatmnk9/UNAYOE-web-sub001/internal/domain/diary"

// Recommendation is an immutable catalog entry.
type Recommendation struct {
	ID           int64
	Title        string
	Content      string
	ThumbnailURL string
	URL          string
	Category     string
}

// GetID returns the recommendation id.
func (r Recommendation) GetID() int64 { return r.ID }

// Personalized is the pick the backend makes from the user's latest note.
type Personalized struct {
	Recommendations   []Recommendation
	DetectedEmotion   string
	DetectedSentiment diary.Sentiment
}

// First returns the top recommendation, if any.
func (p Personalized) First() (Recommendation, bool) {
	if len(p.Recommendations) == 0 {
		return Recommendation{}, false
	}
	return p.Recommendations[0], true
}
