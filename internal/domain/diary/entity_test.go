package diary

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccompaniment_Text(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"string", `"tip"`, "tip"},
		{"object with message", `{"message":"breathe","score":1}`, "breathe"},
		{"object without known key", `{"a":1}`, `{"a":1}`},
		{"null", `null`, ""},
		{"empty", ``, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAccompaniment(json.RawMessage(tt.raw))
			assert.Equal(t, tt.want, a.Text())
			assert.Equal(t, tt.want == "", a.IsEmpty())
		})
	}
}

func TestTextAccompaniment(t *testing.T) {
	a := TextAccompaniment("tip")
	assert.Equal(t, "tip", a.Text())
	assert.JSONEq(t, `"tip"`, string(a.Raw()))
	assert.True(t, TextAccompaniment("").IsEmpty())
}

func TestSentiment_IsValid(t *testing.T) {
	assert.True(t, SentimentPositive.IsValid())
	assert.True(t, SentimentNeutral.IsValid())
	assert.False(t, Sentiment("MIXED").IsValid())
}
