// Package portal implements the resource services of the wellness portal:
// one stateless facade per feature translating intents into requests
// against the portal API and mapping its wire format onto domain types.
package portal

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// ══════════════════════════════════════════════════════════════════════════════
// API RESPONSE WRAPPERS
// ══════════════════════════════════════════════════════════════════════════════

// unwrap decodes raw as {data: T} when a data field is present and as a
// bare T otherwise. The API is not consistent across endpoints.
func unwrap[T any](raw json.RawMessage, out *T) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if trimmed[0] == '{' {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &fields); err == nil {
			if data, ok := fields["data"]; ok {
				if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
					return nil
				}
				return json.Unmarshal(data, out)
			}
		}
	}
	return json.Unmarshal(trimmed, out)
}

// flexString accepts both JSON strings and numbers. Ids are numeric in some
// tables and UUIDs in others.
type flexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// flexInt accepts both JSON numbers and numeric strings.
type flexInt int64

// UnmarshalJSON implements json.Unmarshaler.
func (f *flexInt) UnmarshalJSON(b []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	if s == "" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(string(s), 10, 64)
	if err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// AUTH DTOs
// ══════════════════════════════════════════════════════════════════════════════

// UserDTO is the user record returned by /login and /signup.
type UserDTO struct {
	ID              flexString `json:"id"`
	Email           string     `json:"email"`
	Role            string     `json:"rol"`
	Name            string     `json:"nombre"`
	LastName        string     `json:"apellido,omitempty"`
	StudentCode     string     `json:"codigo_alumno,omitempty"`
	AccessToken     string     `json:"access_token"`
	RefreshToken    string     `json:"refresh_token"`
	ProfilePhotoURL string     `json:"foto_perfil_url,omitempty"`
}

// AuthResponseDTO wraps the user record.
type AuthResponseDTO struct {
	User    *UserDTO `json:"user"`
	Message string   `json:"message,omitempty"`
}

type loginRequestDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequestDTO struct {
	Name        string `json:"nombre"`
	LastName    string `json:"apellido,omitempty"`
	StudentCode string `json:"codigo_alumno,omitempty"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"rol"`
}

// ══════════════════════════════════════════════════════════════════════════════
// DIARY DTOs
// ══════════════════════════════════════════════════════════════════════════════

// NoteDTO is a diary note as stored by the backend.
type NoteDTO struct {
	ID           flexInt    `json:"id"`
	Text         string     `json:"nota"`
	Sentiment    string     `json:"sentimiento"`
	Emotion      string     `json:"emocion"`
	EmotionScore float64    `json:"emocion_score"`
	CreatedAt    string     `json:"created_at"`
	UserID       flexString `json:"user_id"`
}

// CreateNoteResponseDTO is the answer of POST /notas. The backend returns an
// array even for a single insert.
type CreateNoteResponseDTO struct {
	Data          []NoteDTO       `json:"data"`
	Accompaniment json.RawMessage `json:"accompaniment,omitempty"`
}

type noteRequestDTO struct {
	UserID    string `json:"user_id"`
	Text      string `json:"nota"`
	Sentiment string `json:"sentimiento,omitempty"`
}

type notePatchDTO struct {
	Text      *string `json:"nota,omitempty"`
	Sentiment *string `json:"sentimiento,omitempty"`
}

// TermCountDTO is one word-frequency row.
type TermCountDTO struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// StatisticsDTO is the diary summary.
type StatisticsDTO struct {
	TotalNotes    int            `json:"total_notes"`
	Sentiments    map[string]int `json:"sentiments"`
	Emotions      map[string]int `json:"emotions"`
	TermFrequency []TermCountDTO `json:"term_frequency"`
}

// ══════════════════════════════════════════════════════════════════════════════
// APPOINTMENT DTOs
// ══════════════════════════════════════════════════════════════════════════════

// AppointmentDTO is an appointment ("cita") as returned by the backend.
type AppointmentDTO struct {
	ID                    flexInt    `json:"id_cita"`
	Title                 string     `json:"titulo"`
	ScheduledAt           string     `json:"fecha_cita"`
	StudentID             flexString `json:"id_usuario"`
	PsychologistID        flexString `json:"id_psicologo,omitempty"`
	PsychologistName      string     `json:"nombre_psicologo,omitempty"`
	PsychologistLastName  string     `json:"apellido_psicologo,omitempty"`
	PsychologistSpecialty string     `json:"especialidad_psicologo,omitempty"`
	Status                string     `json:"estado,omitempty"`
	CreatedAt             string     `json:"created_at,omitempty"`
	UpdatedAt             string     `json:"updated_at,omitempty"`
}

// UserAppointmentsDTO splits a user's appointments by role in them.
type UserAppointmentsDTO struct {
	Created  []AppointmentDTO `json:"citas_creadas"`
	Assigned []AppointmentDTO `json:"citas_asignadas"`
}

type appointmentRequestDTO struct {
	Title       string `json:"titulo"`
	ScheduledAt string `json:"fecha_cita"`
}

type appointmentPatchDTO struct {
	Title       *string `json:"titulo,omitempty"`
	ScheduledAt *string `json:"fecha_cita,omitempty"`
}

type assignRequestDTO struct {
	PsychologistID string `json:"id_psicologo"`
}

// PsychologistDTO is an entry of the available-psychologists list.
type PsychologistDTO struct {
	ID        flexString `json:"id"`
	FirstName string     `json:"nombre"`
	LastName  string     `json:"apellido"`
	Email     string     `json:"email"`
	Specialty string     `json:"especialidad,omitempty"`
}

// ══════════════════════════════════════════════════════════════════════════════
// RECOMMENDATION DTOs
// ══════════════════════════════════════════════════════════════════════════════

// RecommendationDTO is a catalog entry.
type RecommendationDTO struct {
	ID           flexInt `json:"id"`
	Title        string  `json:"titulo"`
	Description  string  `json:"descripcion"`
	ThumbnailURL string  `json:"miniatura,omitempty"`
	URL          string  `json:"url"`
	Category     string  `json:"categoria,omitempty"`
}

// PersonalizedDTO is the per-user pick.
type PersonalizedDTO struct {
	Data              []RecommendationDTO `json:"data"`
	DetectedEmotion   string              `json:"emocion_detectada"`
	DetectedSentiment string              `json:"sentimiento_detectado"`
}

// ══════════════════════════════════════════════════════════════════════════════
// PSYCHOLOGIST DTOs
// ══════════════════════════════════════════════════════════════════════════════

// StudentDTO is a followed student.
type StudentDTO struct {
	ID              flexString `json:"id"`
	Name            string     `json:"nombre"`
	LastName        string     `json:"apellido"`
	Email           string     `json:"email,omitempty"`
	Code            string     `json:"codigo_estudiante,omitempty"`
	LegacyCode      string     `json:"codigo_alumno,omitempty"`
	AlertLevel      string     `json:"nivel_alerta,omitempty"`
	Risk            string     `json:"risk,omitempty"`
	LastNote        string     `json:"ultima_nota,omitempty"`
	AlertMessage    string     `json:"alert_message,omitempty"`
	LastNoteAt      string     `json:"fecha_ultima_nota,omitempty"`
	NextAppointment string     `json:"proxima_cita,omitempty"`
}

// AlertDTO is a risk alert.
type AlertDTO struct {
	ID          flexInt    `json:"id"`
	StudentID   flexString `json:"estudiante_id"`
	StudentName string     `json:"estudiante_nombre"`
	Kind        string     `json:"tipo"`
	Level       string     `json:"nivel"`
	Message     string     `json:"mensaje"`
	CreatedAt   string     `json:"fecha_creacion"`
	Read        bool       `json:"leida"`
}

// StudentReportDTO is the detailed report of a student.
type StudentReportDTO struct {
	Student    StudentDTO    `json:"student"`
	Notes      []NoteDTO     `json:"notes"`
	Statistics StatisticsDTO `json:"statistics"`
}
