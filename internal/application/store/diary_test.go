package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jatmnk9/UNAYOE-web-sub001/internal/domain/diary"
	"github.com/jatmnk9/UNAYOE-web-sub001/internal/infrastructure/portal"
	"github.com/jatmnk9/UNAYOE-web-sub001/internal/infrastructure/transport/transporttest"
)

func newDiaryStore(fake *transporttest.Fake) *DiaryStore {
	return NewDiaryStore(portal.NewDiaryService(fake, nil), testOptions())
}

func TestDiaryStore_CreateNote(t *testing.T) {
	fake := transporttest.New()
	fake.On("POST", "/notas").Reply(`{"data":[{"id":5,"nota":"x","user_id":"u1","sentimiento":"pos"}],"accompaniment":"tip"}`)

	s := newDiaryStore(fake)
	created, ok := s.CreateNote(context.Background(), diary.NoteInput{UserID: "u1", Text: "x"})
	require.True(t, ok)

	assert.Equal(t, int64(5), created.ID)
	assert.Equal(t, "tip", created.Accompaniment.Text())

	snap := s.Snapshot()
	require.Len(t, snap.Notes, 1)
	assert.Equal(t, int64(5), snap.Notes[0].ID)
	assert.Equal(t, diary.SentimentPositive, snap.Notes[0].Sentiment)
	assert.Equal(t, "tip", snap.AccompanimentMessage.Text())

	s.ClearAccompaniment()
	assert.True(t, s.Snapshot().AccompanimentMessage.IsEmpty())
}

func TestDiaryStore_CreatePrepends(t *testing.T) {
	fake := transporttest.New()
	fake.On("GET", "/notas/u1").Reply(`{"data":[{"id":1},{"id":2}]}`)
	fake.On("POST", "/notas").Reply(`{"data":[{"id":3}]}`)

	s := newDiaryStore(fake)
	ctx := context.Background()
	require.True(t, s.FetchNotes(ctx, "u1"))
	_, ok := s.CreateNote(ctx, diary.NoteInput{UserID: "u1", Text: "n"})
	require.True(t, ok)

	ids := []int64{}
	for _, n := range s.Snapshot().Notes {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []int64{3, 1, 2}, ids)
}

func TestDiaryStore_FailedMutationsKeepNotes(t *testing.T) {
	fake := transporttest.New()
	fake.On("GET", "/notas/u1").Reply(`[{"id":1,"nota":"a"},{"id":2,"nota":"b"}]`)
	fake.On("POST", "/notas").Fail(500, "")
	fake.On("PUT", "/notas/1?user_id=u1").Fail(403, "No autorizado")
	fake.On("DELETE", "/notas/2?user_id=u1").FailWith(context.DeadlineExceeded)

	s := newDiaryStore(fake)
	ctx := context.Background()
	require.True(t, s.FetchNotes(ctx, "u1"))
	before := s.Snapshot().Notes

	_, ok := s.CreateNote(ctx, diary.NoteInput{UserID: "u1", Text: "c"})
	assert.False(t, ok)
	assert.Equal(t, msgCreateNote, s.Snapshot().Error)

	text := "z"
	assert.False(t, s.UpdateNote(ctx, 1, "u1", diary.NotePatch{Text: &text}))
	assert.Equal(t, "No autorizado", s.Snapshot().Error)

	assert.False(t, s.DeleteNote(ctx, 2, "u1"))
	assert.Equal(t, msgDeleteNote, s.Snapshot().Error)

	// Validation rejects before any request.
	_, ok = s.CreateNote(ctx, diary.NoteInput{UserID: "u1"})
	assert.False(t, ok)

	snap := s.Snapshot()
	assert.Equal(t, before, snap.Notes)
	assert.False(t, snap.IsLoading)
}

func TestDiaryStore_UpdateAndDelete(t *testing.T) {
	fake := transporttest.New()
	fake.On("GET", "/notas/u1").Reply(`[{"id":1,"nota":"a"},{"id":2,"nota":"b"}]`)
	fake.On("PUT", "/notas/1?user_id=u1").Reply(`{"data":{"id":1,"nota":"edited"}}`)
	fake.On("DELETE", "/notas/2?user_id=u1").Reply(``)

	s := newDiaryStore(fake)
	ctx := context.Background()
	require.True(t, s.FetchNotes(ctx, "u1"))

	s.SetCurrentNote(&s.Snapshot().Notes[0])
	text := "edited"
	require.True(t, s.UpdateNote(ctx, 1, "u1", diary.NotePatch{Text: &text}))
	require.True(t, s.DeleteNote(ctx, 2, "u1"))

	snap := s.Snapshot()
	require.Len(t, snap.Notes, 1)
	assert.Equal(t, "edited", snap.Notes[0].Text)
	require.NotNil(t, snap.CurrentNote)
	assert.Equal(t, "edited", snap.CurrentNote.Text)
}

func TestDiaryStore_FetchEmptyAndStatistics(t *testing.T) {
	fake := transporttest.New()
	fake.On("GET", "/notas/u1").Reply(`{"data":[]}`)
	fake.On("GET", "/notas/u1/statistics").Reply(`{"total_notes":3,"sentiments":{"POS":2,"NEG":1}}`)

	s := newDiaryStore(fake)
	ctx := context.Background()
	require.True(t, s.FetchNotes(ctx, "u1"))
	require.True(t, s.FetchStatistics(ctx, "u1"))

	snap := s.Snapshot()
	assert.NotNil(t, snap.Notes)
	assert.Empty(t, snap.Notes)
	require.NotNil(t, snap.Statistics)
	assert.Equal(t, 3, snap.Statistics.TotalNotes)

	s.Reset()
	assert.Nil(t, s.Snapshot().Statistics)
}

func TestDiaryStore_ResetDropsMutationInFlight(t *testing.T) {
	fake := transporttest.New()
	gate := make(chan struct{})
	fake.On("POST", "/notas").After(gate).Reply(`{"data":[{"id":5,"nota":"x","user_id":"u1"}],"accompaniment":"tip"}`)

	s := newDiaryStore(fake)

	done := make(chan bool)
	go func() {
		_, ok := s.CreateNote(context.Background(), diary.NoteInput{UserID: "u1", Text: "x"})
		done <- ok
	}()
	require.Eventually(t, func() bool { return fake.CallCount("POST", "/notas") == 1 }, time.Second, time.Millisecond)

	s.Reset()
	close(gate)
	assert.False(t, <-done)

	snap := s.Snapshot()
	assert.Empty(t, snap.Notes)
	assert.True(t, snap.AccompanimentMessage.IsEmpty())
	assert.False(t, snap.IsLoading)
	assert.Empty(t, snap.Error)
}
