// Package diary contains the wellness diary domain: notes a student writes,
// the sentiment the backend derives from them and the one-shot accompaniment
// text returned when a note is created.
package diary

import (
	"bytes"
	"encoding/json"
	"time"
)

// Sentiment is the polarity the backend assigns to a note.
type Sentiment string

const (
	SentimentPositive Sentiment = "POS"
	SentimentNegative Sentiment = "NEG"
	SentimentNeutral  Sentiment = "NEU"
)

// IsValid reports whether s is one of the known polarities.
func (s Sentiment) IsValid() bool {
	switch s {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return true
	}
	return false
}

// Note is a single diary entry. Once the server has assigned an ID the
// note is treated as immutable by the client.
type Note struct {
	ID           int64
	Text         string
	Sentiment    Sentiment
	EmotionLabel string
	EmotionScore float64
	CreatedAt    time.Time
	UserID       string
}

// GetID returns the note id.
func (n Note) GetID() int64 { return n.ID }

// NoteInput is the payload for creating a note.
type NoteInput struct {
	UserID    string    `validate:"required"`
	Text      string    `validate:"required,max=5000"`
	Sentiment Sentiment `validate:"omitempty,oneof=POS NEG NEU"`
}

// NotePatch is a partial update. Nil fields are left untouched.
type NotePatch struct {
	Text      *string    `validate:"omitempty,min=1,max=5000"`
	Sentiment *Sentiment `validate:"omitempty,oneof=POS NEG NEU"`
}

// Accompaniment is the AI-generated side channel returned with a freshly
// created note. The backend sends either a plain string or an object, so
// the raw JSON is kept as-is.
type Accompaniment struct {
	raw json.RawMessage
}

// NewAccompaniment wraps raw JSON. Empty and null inputs yield an empty value.
func NewAccompaniment(raw json.RawMessage) Accompaniment {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Accompaniment{}
	}
	return Accompaniment{raw: append(json.RawMessage(nil), trimmed...)}
}

// TextAccompaniment builds an accompaniment from plain text.
func TextAccompaniment(text string) Accompaniment {
	if text == "" {
		return Accompaniment{}
	}
	raw, _ := json.Marshal(text)
	return Accompaniment{raw: raw}
}

// IsEmpty reports whether no accompaniment was returned.
func (a Accompaniment) IsEmpty() bool {
	return len(a.raw) == 0
}

// Raw returns the accompaniment exactly as received.
func (a Accompaniment) Raw() json.RawMessage {
	return a.raw
}

// Text returns the display text. String payloads are unquoted; objects
// yield their "message" or "text" field when present, else the raw JSON.
func (a Accompaniment) Text() string {
	if a.IsEmpty() {
		return ""
	}

	var s string
	if err := json.Unmarshal(a.raw, &s); err == nil {
		return s
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(a.raw, &obj); err == nil {
		for _, key := range []string{"message", "text", "accompaniment"} {
			if v, ok := obj[key]; ok {
				if err := json.Unmarshal(v, &s); err == nil && s != "" {
					return s
				}
			}
		}
	}

	return string(a.raw)
}

// CreatedNote is what CreateNote hands back to its caller: the stored note
// plus the accompaniment, which is never persisted on the note itself.
type CreatedNote struct {
	Note
	Accompaniment Accompaniment
}

// Statistics summarizes a user's diary.
type Statistics struct {
	TotalNotes    int
	Sentiments    map[string]int
	Emotions      map[string]int
	TermFrequency []TermCount
}

// TermCount is one entry of the word-frequency table.
type TermCount struct {
	Term  string
	Count int
}
