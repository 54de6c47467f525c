package store

import (
	"context"

	"github.com/jatmnk9/UNAYOE-web-sub001/internal/domain/appointment"
	"github.com/jatmnk9/UNAYOE-web-sub001/internal/domain/auth"
	"github.com/jatmnk9/UNAYOE-web-sub001/internal/domain/diary"
	"github.com/jatmnk9/UNAYOE-web-sub001/internal/domain/psychologist"
	"github.com/jatmnk9/UNAYOE-web-sub001/internal/domain/recommendation"
)

// StatusReader is the loading and error surface shared by every accessor.
type StatusReader interface {
	IsLoading() bool
	Error() string
	ClearError()
}

// AuthAccessor is the auth surface handed to presentation code.
type AuthAccessor interface {
	StatusReader
	User() *auth.SessionUser
	IsAuthenticated() bool
	Login(ctx context.Context, email, password string) bool
	Signup(ctx context.Context, input auth.SignupInput) bool
	Logout(ctx context.Context)
	CheckAuth(ctx context.Context) bool
}

// DiaryAccessor is the diary surface handed to presentation code.
type DiaryAccessor interface {
	StatusReader
	Notes() []diary.Note
	AccompanimentMessage() diary.Accompaniment
	FetchNotes(ctx context.Context, userID string) bool
	CreateNote(ctx context.Context, input diary.NoteInput) (*diary.CreatedNote, bool)
	UpdateNote(ctx context.Context, noteID int64, userID string, patch diary.NotePatch) bool
	DeleteNote(ctx context.Context, noteID int64, userID string) bool
	ClearAccompaniment()
}

// AppointmentsAccessor is the appointments surface handed to presentation code.
type AppointmentsAccessor interface {
	StatusReader
	Appointments() []appointment.Appointment
	GetUserAppointments(ctx context.Context, userID string) bool
	CreateAppointment(ctx context.Context, userID string, input appointment.Input) bool
	AssignPsychologist(ctx context.Context, appointmentID int64, psychologistID string) bool
	UpdateAppointment(ctx context.Context, appointmentID int64, userID string, patch appointment.Patch) bool
	DeleteAppointment(ctx context.Context, appointmentID int64, userID string) bool
}

// RecommendationsAccessor is the recommendations surface handed to
// presentation code.
type RecommendationsAccessor interface {
	StatusReader
	Recommendations() []recommendation.Recommendation
	IsLiked(id int64) bool
	FetchRecommendations(ctx context.Context) bool
	FetchUserLikes(ctx context.Context, userID string) bool
	ToggleLike(ctx context.Context, userID string, recommendationID int64) bool
}

// PsychologistAccessor is the dashboard surface handed to presentation code.
type PsychologistAccessor interface {
	StatusReader
	Students() []psychologist.Student
	Alerts() []*psychologist.Alert
	FetchStudents(ctx context.Context, psychologistID string) bool
	FetchAlerts(ctx context.Context, psychologistID string) bool
	MarkAlertAsRead(ctx context.Context, alertID int64) bool
	SetSelectedStudent(student *psychologist.Student)
}

// UseAuth returns the auth accessor for s.
func UseAuth(s *AuthStore) AuthAccessor { return authView{s} }

// UseDiary returns the diary accessor for s.
func UseDiary(s *DiaryStore) DiaryAccessor { return diaryView{s} }

// UseAppointments returns the appointments accessor for s.
func UseAppointments(s *AppointmentsStore) AppointmentsAccessor { return appointmentsView{s} }

// UseRecommendations returns the recommendations accessor for s.
func UseRecommendations(s *RecommendationsStore) RecommendationsAccessor {
	return recommendationsView{s}
}

// UsePsychologist returns the dashboard accessor for s.
func UsePsychologist(s *PsychologistStore) PsychologistAccessor { return psychologistView{s} }

type authView struct{ *AuthStore }

func (v authView) User() *auth.SessionUser { return v.Snapshot().User }
func (v authView) IsAuthenticated() bool   { return v.Snapshot().IsAuthenticated() }
func (v authView) IsLoading() bool         { return v.Snapshot().IsLoading }
func (v authView) Error() string           { return v.Snapshot().Error }

type diaryView struct{ *DiaryStore }

func (v diaryView) Notes() []diary.Note { return v.Snapshot().Notes }
func (v diaryView) AccompanimentMessage() diary.Accompaniment {
	return v.Snapshot().AccompanimentMessage
}
func (v diaryView) IsLoading() bool { return v.Snapshot().IsLoading }
func (v diaryView) Error() string   { return v.Snapshot().Error }

type appointmentsView struct{ *AppointmentsStore }

func (v appointmentsView) Appointments() []appointment.Appointment {
	return v.Snapshot().Appointments
}
func (v appointmentsView) IsLoading() bool { return v.Snapshot().IsLoading }
func (v appointmentsView) Error() string   { return v.Snapshot().Error }

type recommendationsView struct{ *RecommendationsStore }

func (v recommendationsView) Recommendations() []recommendation.Recommendation {
	return v.Snapshot().Recommendations
}
func (v recommendationsView) IsLiked(id int64) bool { return v.Snapshot().IsLiked(id) }
func (v recommendationsView) IsLoading() bool       { return v.Snapshot().IsLoading }
func (v recommendationsView) Error() string         { return v.Snapshot().Error }

type psychologistView struct{ *PsychologistStore }

func (v psychologistView) Students() []psychologist.Student { return v.Snapshot().Students }
func (v psychologistView) Alerts() []*psychologist.Alert    { return v.Snapshot().Alerts }
func (v psychologistView) IsLoading() bool                  { return v.Snapshot().IsLoading }
func (v psychologistView) Error() string                    { return v.Snapshot().Error }
