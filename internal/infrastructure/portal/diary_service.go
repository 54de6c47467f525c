package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/jatmnk9/UNAYOE-web-sub001/internal/domain/diary"
	"github.com/jatmnk9/UNAYOE-web-sub001/internal/domain/shared"
	"github.com/jatmnk9/UNAYOE-web-sub001/internal/infrastructure/transport"
)

// DiaryService manages diary notes.
type DiaryService struct {
	requester transport.Requester
	mapper    *Mapper
	logger    *slog.Logger
}

// NewDiaryService creates a DiaryService.
func NewDiaryService(requester transport.Requester, logger *slog.Logger) *DiaryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DiaryService{
		requester: requester,
		mapper:    NewMapper(logger),
		logger:    logger,
	}
}

// GetNotes loads every note of a user. No notes is an empty slice.
func (s *DiaryService) GetNotes(ctx context.Context, userID string) ([]diary.Note, error) {
	if err := requireID("diary", "GetNotes", "user_id", userID); err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := s.requester.Get(ctx, "/notas/"+url.PathEscape(userID), &raw); err != nil {
		return nil, fmt.Errorf("get notes %s: %w", userID, err)
	}

	var dtos []NoteDTO
	if err := unwrap(raw, &dtos); err != nil {
		return nil, shared.WrapError("diary", "GetNotes", shared.ErrUnknown, "Respuesta de notas inválida", err)
	}
	return s.mapper.NotesFromDTOs(dtos), nil
}

// CreateNote submits a note. The backend answers with a one-element array
// and, optionally, an accompaniment that is returned to the caller only.
func (s *DiaryService) CreateNote(ctx context.Context, input diary.NoteInput) (*diary.CreatedNote, error) {
	if err := validateInput("diary", "CreateNote", input); err != nil {
		return nil, err
	}

	var resp CreateNoteResponseDTO
	if err := s.requester.Post(ctx, "/notas", noteRequestDTO{
		UserID:    input.UserID,
		Text:      input.Text,
		Sentiment: string(input.Sentiment),
	}, &resp); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, shared.NewDomainError("diary", "CreateNote", shared.ErrUnknown, "La respuesta no contiene la nota creada")
	}

	return &diary.CreatedNote{
		Note:          s.mapper.NoteFromDTO(resp.Data[0]),
		Accompaniment: diary.NewAccompaniment(resp.Accompaniment),
	}, nil
}

// UpdateNote applies a partial update on behalf of userID.
func (s *DiaryService) UpdateNote(ctx context.Context, noteID int64, userID string, patch diary.NotePatch) (diary.Note, error) {
	if err := requireID("diary", "UpdateNote", "user_id", userID); err != nil {
		return diary.Note{}, err
	}
	if err := validateInput("diary", "UpdateNote", patch); err != nil {
		return diary.Note{}, err
	}

	body := notePatchDTO{Text: patch.Text}
	if patch.Sentiment != nil {
		v := string(*patch.Sentiment)
		body.Sentiment = &v
	}

	var raw json.RawMessage
	if err := s.requester.Put(ctx, notePath(noteID, userID), body, &raw); err != nil {
		return diary.Note{}, fmt.Errorf("update note %d: %w", noteID, err)
	}

	var dto NoteDTO
	if err := decodeOne(raw, &dto); err != nil {
		return diary.Note{}, shared.WrapError("diary", "UpdateNote", shared.ErrUnknown, "Respuesta de nota inválida", err)
	}
	return s.mapper.NoteFromDTO(dto), nil
}

// DeleteNote removes a note on behalf of userID.
func (s *DiaryService) DeleteNote(ctx context.Context, noteID int64, userID string) error {
	if err := requireID("diary", "DeleteNote", "user_id", userID); err != nil {
		return err
	}
	if err := s.requester.Delete(ctx, notePath(noteID, userID), nil); err != nil {
		return fmt.Errorf("delete note %d: %w", noteID, err)
	}
	return nil
}

// GetStatistics loads the diary summary of a user.
func (s *DiaryService) GetStatistics(ctx context.Context, userID string) (diary.Statistics, error) {
	if err := requireID("diary", "GetStatistics", "user_id", userID); err != nil {
		return diary.Statistics{}, err
	}

	var raw json.RawMessage
	if err := s.requester.Get(ctx, "/notas/"+url.PathEscape(userID)+"/statistics", &raw); err != nil {
		return diary.Statistics{}, fmt.Errorf("get statistics %s: %w", userID, err)
	}

	var dto StatisticsDTO
	if err := unwrap(raw, &dto); err != nil {
		return diary.Statistics{}, shared.WrapError("diary", "GetStatistics", shared.ErrUnknown, "Respuesta de estadísticas inválida", err)
	}
	return s.mapper.StatisticsFromDTO(dto), nil
}

func notePath(noteID int64, userID string) string {
	q := url.Values{}
	q.Set("user_id", userID)
	return "/notas/" + strconv.FormatInt(noteID, 10) + "?" + q.Encode()
}

// decodeOne decodes a single entity that may arrive bare, enveloped, or as
// the first element of an array.
func decodeOne[T any](raw json.RawMessage, out *T) error {
	var inner json.RawMessage
	if err := unwrap(raw, &inner); err != nil {
		return err
	}
	inner = bytes.TrimSpace(inner)
	if len(inner) == 0 {
		return nil
	}
	if inner[0] == '[' {
		var list []T
		if err := json.Unmarshal(inner, &list); err != nil {
			return err
		}
		if len(list) > 0 {
			*out = list[0]
		}
		return nil
	}
	return json.Unmarshal(inner, out)
}
