package store

import (
	"context"

	"github.com/jatmnk9/UNAYOE-web-sub001/internal/domain/diary"
	"github.com/jatmnk9/UNAYOE-web-sub001/pkg/collection"
)

// DiaryAPI is the diary service the store drives.
type DiaryAPI interface {
	GetNotes(ctx context.Context, userID string) ([]diary.Note, error)
	CreateNote(ctx context.Context, input diary.NoteInput) (*diary.CreatedNote, error)
	UpdateNote(ctx context.Context, noteID int64, userID string, patch diary.NotePatch) (diary.Note, error)
	DeleteNote(ctx context.Context, noteID int64, userID string) error
	GetStatistics(ctx context.Context, userID string) (diary.Statistics, error)
}

const (
	msgFetchNotes     = "Error al cargar las notas"
	msgCreateNote     = "Error al crear la nota"
	msgUpdateNote     = "Error al actualizar la nota"
	msgDeleteNote     = "Error al eliminar la nota"
	msgFetchStatistic = "Error al cargar las estadísticas"
)

// DiarySnapshot is a copy of the diary store state.
type DiarySnapshot struct {
	Notes       []diary.Note
	CurrentNote *diary.Note
	Statistics  *diary.Statistics

	// AccompanimentMessage holds the text returned with the last created
	// note until ClearAccompaniment.
	AccompanimentMessage diary.Accompaniment

	Status
}

// DiaryStore mirrors the user's diary notes.
type DiaryStore struct {
	base
	svc DiaryAPI

	notes         []diary.Note
	current       *diary.Note
	statistics    *diary.Statistics
	accompaniment diary.Accompaniment
}

// NewDiaryStore creates an empty DiaryStore.
func NewDiaryStore(svc DiaryAPI, opts Options) *DiaryStore {
	s := &DiaryStore{svc: svc, notes: []diary.Note{}}
	s.init("diary", opts)
	return s
}

// Snapshot returns a copy of the current state.
func (s *DiaryStore) Snapshot() DiarySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := DiarySnapshot{
		Notes:                collection.Clone(s.notes),
		AccompanimentMessage: s.accompaniment,
		Status:               s.statusLocked(),
	}
	if s.current != nil {
		n := *s.current
		snap.CurrentNote = &n
	}
	if s.statistics != nil {
		st := *s.statistics
		snap.Statistics = &st
	}
	return snap
}

// FetchNotes replaces the notes with the user's list. An empty list is a
// success.
func (s *DiaryStore) FetchNotes(ctx context.Context, userID string) bool {
	c := s.beginLoad("notes", "FetchNotes", msgFetchNotes)
	notes, err := s.svc.GetNotes(ctx, userID)
	return s.end(c, err, func() {
		s.notes = collection.Clone(notes)
	})
}

// CreateNote creates a note and prepends it. The accompaniment text is
// returned and kept in AccompanimentMessage, never on the note itself.
func (s *DiaryStore) CreateNote(ctx context.Context, input diary.NoteInput) (*diary.CreatedNote, bool) {
	c := s.begin("CreateNote", msgCreateNote)
	created, err := s.svc.CreateNote(ctx, input)
	ok := s.end(c, err, func() {
		s.notes = collection.Prepend(s.notes, created.Note)
		s.accompaniment = created.Accompaniment
	})
	if !ok {
		return nil, false
	}
	return created, true
}

// UpdateNote replaces the matching note with the server's version.
func (s *DiaryStore) UpdateNote(ctx context.Context, noteID int64, userID string, patch diary.NotePatch) bool {
	c := s.begin("UpdateNote", msgUpdateNote)
	updated, err := s.svc.UpdateNote(ctx, noteID, userID, patch)
	return s.end(c, err, func() {
		s.notes, _ = collection.ReplaceByID(s.notes, noteID, func(diary.Note) diary.Note { return updated })
		if s.current != nil && s.current.ID == noteID {
			n := updated
			s.current = &n
		}
	})
}

// DeleteNote removes the note locally once the server confirmed.
func (s *DiaryStore) DeleteNote(ctx context.Context, noteID int64, userID string) bool {
	c := s.begin("DeleteNote", msgDeleteNote)
	err := s.svc.DeleteNote(ctx, noteID, userID)
	return s.end(c, err, func() {
		s.notes, _ = collection.RemoveByID(s.notes, noteID)
		if s.current != nil && s.current.ID == noteID {
			s.current = nil
		}
	})
}

// FetchStatistics loads the aggregate sentiment and emotion counts.
func (s *DiaryStore) FetchStatistics(ctx context.Context, userID string) bool {
	c := s.begin("FetchStatistics", msgFetchStatistic)
	stats, err := s.svc.GetStatistics(ctx, userID)
	return s.end(c, err, func() {
		s.statistics = &stats
	})
}

// SetCurrentNote selects a note for detail views. nil clears it.
func (s *DiaryStore) SetCurrentNote(note *diary.Note) {
	s.mutate("SetCurrentNote", func() {
		if note == nil {
			s.current = nil
			return
		}
		n := *note
		s.current = &n
	})
}

// ClearAccompaniment drops the last accompaniment message.
func (s *DiaryStore) ClearAccompaniment() {
	s.mutate("ClearAccompaniment", func() {
		s.accompaniment = diary.Accompaniment{}
	})
}

// Reset restores the initial empty state.
func (s *DiaryStore) Reset() {
	s.mutate("Reset", func() {
		s.resetLocked()
		s.notes = []diary.Note{}
		s.current = nil
		s.statistics = nil
		s.accompaniment = diary.Accompaniment{}
	})
}
