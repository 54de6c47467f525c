package portal

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jatmnk9/UNAYOE-web-sub001/internal/domain/appointment"
	"github.com/jatmnk9/UNAYOE-web-sub001/internal/domain/auth"
	"github.com/jatmnk9/UNAYOE-web-sub001/internal/domain/diary"
	"github.com/jatmnk9/UNAYOE-web-sub001/internal/domain/psychologist"
	"github.com/jatmnk9/UNAYOE-web-sub001/internal/domain/recommendation"
	"github.com/jatmnk9/UNAYOE-web-sub001/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAPPER - DTO to Domain Entity transformations
// ══════════════════════════════════════════════════════════════════════════════

// ErrNilDTO is returned when a mapping receives no payload.
var ErrNilDTO = errors.New("portal: nil dto")

// Mapper handles transformation between portal API DTOs and domain entities.
// Unparsable timestamps are logged and left zero rather than failing the
// whole response.
type Mapper struct {
	logger *slog.Logger
}

// NewMapper creates a new Mapper instance.
func NewMapper(logger *slog.Logger) *Mapper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mapper{logger: logger}
}

func (m *Mapper) parseTime(field, value string) time.Time {
	t, err := timeutil.ParseBackend(value)
	if err != nil {
		m.logger.Warn("unparsable timestamp from portal api", "field", field, "value", value)
		return time.Time{}
	}
	return t
}

// ══════════════════════════════════════════════════════════════════════════════
// AUTH MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// SessionUserFromDTO converts the login/signup user record.
func (m *Mapper) SessionUserFromDTO(dto *UserDTO) (*auth.SessionUser, error) {
	if dto == nil {
		return nil, ErrNilDTO
	}

	role, ok := auth.ParseRole(dto.Role)
	if !ok {
		m.logger.Warn("unknown role from portal api, treating as student", "role", dto.Role)
		role = auth.RoleStudent
	}

	name := strings.TrimSpace(dto.Name + " " + dto.LastName)

	return &auth.SessionUser{
		ID:                string(dto.ID),
		Email:             dto.Email,
		Role:              role,
		Name:              name,
		AccessToken:       dto.AccessToken,
		RefreshToken:      dto.RefreshToken,
		ProfilePhotoURL:   dto.ProfilePhotoURL,
		HasFaceRegistered: dto.ProfilePhotoURL != "",
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DIARY MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// NoteFromDTO converts a note.
func (m *Mapper) NoteFromDTO(dto NoteDTO) diary.Note {
	return diary.Note{
		ID:           int64(dto.ID),
		Text:         dto.Text,
		Sentiment:    diary.Sentiment(strings.ToUpper(dto.Sentiment)),
		EmotionLabel: dto.Emotion,
		EmotionScore: dto.EmotionScore,
		CreatedAt:    m.parseTime("created_at", dto.CreatedAt),
		UserID:       string(dto.UserID),
	}
}

// NotesFromDTOs converts a list of notes. Never returns nil.
func (m *Mapper) NotesFromDTOs(dtos []NoteDTO) []diary.Note {
	out := make([]diary.Note, 0, len(dtos))
	for _, dto := range dtos {
		out = append(out, m.NoteFromDTO(dto))
	}
	return out
}

// StatisticsFromDTO converts the diary summary.
func (m *Mapper) StatisticsFromDTO(dto StatisticsDTO) diary.Statistics {
	stats := diary.Statistics{
		TotalNotes:    dto.TotalNotes,
		Sentiments:    make(map[string]int, len(dto.Sentiments)),
		Emotions:      make(map[string]int, len(dto.Emotions)),
		TermFrequency: make([]diary.TermCount, 0, len(dto.TermFrequency)),
	}
	for k, v := range dto.Sentiments {
		stats.Sentiments[k] = v
	}
	for k, v := range dto.Emotions {
		stats.Emotions[k] = v
	}
	for _, tc := range dto.TermFrequency {
		stats.TermFrequency = append(stats.TermFrequency, diary.TermCount{Term: tc.Term, Count: tc.Count})
	}
	return stats
}

// ══════════════════════════════════════════════════════════════════════════════
// APPOINTMENT MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// AppointmentFromDTO converts an appointment.
func (m *Mapper) AppointmentFromDTO(dto AppointmentDTO) appointment.Appointment {
	a := appointment.Appointment{
		ID:          int64(dto.ID),
		StudentID:   string(dto.StudentID),
		Status:      appointment.ParseStatus(dto.Status),
		Title:       dto.Title,
		ScheduledAt: m.parseTime("fecha_cita", dto.ScheduledAt),
		Specialty:   dto.PsychologistSpecialty,
		CreatedAt:   m.parseTime("created_at", dto.CreatedAt),
		UpdatedAt:   m.parseTime("updated_at", dto.UpdatedAt),
	}

	if dto.PsychologistID != "" {
		id := string(dto.PsychologistID)
		a.PsychologistID = &id
	}
	a.PsychologistName = strings.TrimSpace(dto.PsychologistName + " " + dto.PsychologistLastName)

	// Legacy rows carry no estado; an assigned psychologist means confirmed.
	if dto.Status == "" && a.HasPsychologist() {
		a.Status = appointment.StatusConfirmed
	}

	return a
}

// AppointmentsFromDTOs converts a list of appointments. Never returns nil.
func (m *Mapper) AppointmentsFromDTOs(dtos []AppointmentDTO) []appointment.Appointment {
	out := make([]appointment.Appointment, 0, len(dtos))
	for _, dto := range dtos {
		out = append(out, m.AppointmentFromDTO(dto))
	}
	return out
}

// PsychologistFromDTO converts a directory entry.
func (m *Mapper) PsychologistFromDTO(dto PsychologistDTO) appointment.Psychologist {
	return appointment.Psychologist{
		ID:        string(dto.ID),
		FirstName: dto.FirstName,
		LastName:  dto.LastName,
		Email:     dto.Email,
		Specialty: dto.Specialty,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// RECOMMENDATION MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// RecommendationFromDTO converts a catalog entry.
func (m *Mapper) RecommendationFromDTO(dto RecommendationDTO) recommendation.Recommendation {
	return recommendation.Recommendation{
		ID:           int64(dto.ID),
		Title:        dto.Title,
		Content:      dto.Description,
		ThumbnailURL: dto.ThumbnailURL,
		URL:          dto.URL,
		Category:     dto.Category,
	}
}

// RecommendationsFromDTOs converts a list of entries. Never returns nil.
func (m *Mapper) RecommendationsFromDTOs(dtos []RecommendationDTO) []recommendation.Recommendation {
	out := make([]recommendation.Recommendation, 0, len(dtos))
	for _, dto := range dtos {
		out = append(out, m.RecommendationFromDTO(dto))
	}
	return out
}

// PersonalizedFromDTO converts the per-user pick.
func (m *Mapper) PersonalizedFromDTO(dto PersonalizedDTO) recommendation.Personalized {
	return recommendation.Personalized{
		Recommendations:   m.RecommendationsFromDTOs(dto.Data),
		DetectedEmotion:   dto.DetectedEmotion,
		DetectedSentiment: diary.Sentiment(strings.ToUpper(dto.DetectedSentiment)),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// PSYCHOLOGIST MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// StudentFromDTO converts a followed student. Older endpoints use
// codigo_alumno/risk/alert_message instead of the current field names.
func (m *Mapper) StudentFromDTO(dto StudentDTO) psychologist.Student {
	s := psychologist.Student{
		ID:              string(dto.ID),
		Name:            dto.Name,
		LastName:        dto.LastName,
		Email:           dto.Email,
		Code:            firstNonEmpty(dto.Code, dto.LegacyCode),
		AlertLevel:      firstNonEmpty(dto.AlertLevel, dto.Risk),
		LastNoteSummary: firstNonEmpty(dto.LastNote, dto.AlertMessage),
		LastNoteAt:      m.parseTime("fecha_ultima_nota", dto.LastNoteAt),
		NextAppointment: m.parseTime("proxima_cita", dto.NextAppointment),
	}
	return s
}

// StudentsFromDTOs converts a list of students. Never returns nil.
func (m *Mapper) StudentsFromDTOs(dtos []StudentDTO) []psychologist.Student {
	out := make([]psychologist.Student, 0, len(dtos))
	for _, dto := range dtos {
		out = append(out, m.StudentFromDTO(dto))
	}
	return out
}

// AlertFromDTO converts an alert.
func (m *Mapper) AlertFromDTO(dto AlertDTO) *psychologist.Alert {
	return &psychologist.Alert{
		ID:          int64(dto.ID),
		StudentID:   string(dto.StudentID),
		StudentName: dto.StudentName,
		Kind:        dto.Kind,
		Level:       dto.Level,
		Message:     dto.Message,
		CreatedAt:   m.parseTime("fecha_creacion", dto.CreatedAt),
		Read:        dto.Read,
	}
}

// AlertsFromDTOs converts a list of alerts. Never returns nil.
func (m *Mapper) AlertsFromDTOs(dtos []AlertDTO) []*psychologist.Alert {
	out := make([]*psychologist.Alert, 0, len(dtos))
	for _, dto := range dtos {
		out = append(out, m.AlertFromDTO(dto))
	}
	return out
}

// ReportFromDTO converts a student report.
func (m *Mapper) ReportFromDTO(dto StudentReportDTO) psychologist.Report {
	return psychologist.Report{
		Student:    m.StudentFromDTO(dto.Student),
		Notes:      m.NotesFromDTOs(dto.Notes),
		Statistics: m.StatisticsFromDTO(dto.Statistics),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
