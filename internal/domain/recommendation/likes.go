package recommendation

// LikeSet is the set of recommendation ids a user has marked as favorite.
// It keeps insertion order so that newly liked items appear last. Values are
// never mutated in place; every change returns a new set.
type LikeSet struct {
	ids []int64
}

// NewLikeSet builds a set from ids, dropping duplicates.
func NewLikeSet(ids ...int64) LikeSet {
	out := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return LikeSet{ids: out}
}

// Contains reports membership.
func (s LikeSet) Contains(id int64) bool {
	for _, v := range s.ids {
		if v == id {
			return true
		}
	}
	return false
}

// Len returns the number of liked ids.
func (s LikeSet) Len() int { return len(s.ids) }

// IDs returns a copy of the ids in insertion order. Never nil.
func (s LikeSet) IDs() []int64 {
	out := make([]int64, len(s.ids))
	copy(out, s.ids)
	return out
}

// With returns a set that also contains id.
func (s LikeSet) With(id int64) LikeSet {
	if s.Contains(id) {
		return s
	}
	out := make([]int64, len(s.ids), len(s.ids)+1)
	copy(out, s.ids)
	return LikeSet{ids: append(out, id)}
}

// Without returns a set that no longer contains id.
func (s LikeSet) Without(id int64) LikeSet {
	out := make([]int64, 0, len(s.ids))
	for _, v := range s.ids {
		if v != id {
			out = append(out, v)
		}
	}
	return LikeSet{ids: out}
}

// ToggleAction is the single remote call a toggle needs.
type ToggleAction int

const (
	// ActionAdd likes the recommendation.
	ActionAdd ToggleAction = iota + 1
	// ActionRemove unlikes it.
	ActionRemove
)

// String returns the action name.
func (a ToggleAction) String() string {
	switch a {
	case ActionAdd:
		return "add"
	case ActionRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Decision is the outcome of NextMembership: which call to issue and the
// membership to commit once that call succeeds.
type Decision struct {
	Action     ToggleAction
	Membership LikeSet
}

// NextMembership decides a like toggle from the current membership. Present
// ids are removed, absent ids are added. It has no side effects; the caller
// commits Membership only after the remote call resolves.
func NextMembership(current LikeSet, id int64) Decision {
	if current.Contains(id) {
		return Decision{Action: ActionRemove, Membership: current.Without(id)}
	}
	return Decision{Action: ActionAdd, Membership: current.With(id)}
}
