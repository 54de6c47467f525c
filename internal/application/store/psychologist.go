package store

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/jatmnk9/UNAYOE-web-sub001/internal/domain/psychologist"
	"github.com/jatmnk9/UNAYOE-web-sub001/pkg/collection"
)

// PsychologistAPI is the psychologist service the store drives.
type PsychologistAPI interface {
	GetStudents(ctx context.Context, psychologistID string) ([]psychologist.Student, error)
	GetStudentsWithAlerts(ctx context.Context, psychologistID string) ([]psychologist.Student, error)
	GetAlerts(ctx context.Context, psychologistID string) ([]*psychologist.Alert, error)
	MarkAlertAsRead(ctx context.Context, alertID int64) error
	GetStudentReport(ctx context.Context, studentID string) (psychologist.Report, error)
}

const (
	msgFetchStudents = "Error al obtener estudiantes"
	msgFetchAlerts   = "Error al obtener alertas"
	msgMarkAlertRead = "Error al marcar alerta como leída"
	msgStudentReport = "Error al obtener el reporte del estudiante"
)

var errDashboardPartial = errors.New("dashboard refresh incomplete")

// PsychologistSnapshot is a copy of the psychologist store state. Alerts
// share their pointers with the store; alerts are never modified in place.
type PsychologistSnapshot struct {
	Students        []psychologist.Student
	Alerts          []*psychologist.Alert
	SelectedStudent *psychologist.Student
	Report          *psychologist.Report
	Status
}

// UnreadAlerts returns how many alerts are unread.
func (s PsychologistSnapshot) UnreadAlerts() int {
	return psychologist.CountUnread(s.Alerts)
}

// PsychologistStore mirrors a psychologist's students and alerts.
type PsychologistStore struct {
	base
	svc PsychologistAPI

	students []psychologist.Student
	alerts   []*psychologist.Alert
	selected *psychologist.Student
	report   *psychologist.Report
}

// NewPsychologistStore creates an empty PsychologistStore.
func NewPsychologistStore(svc PsychologistAPI, opts Options) *PsychologistStore {
	s := &PsychologistStore{
		svc:      svc,
		students: []psychologist.Student{},
		alerts:   []*psychologist.Alert{},
	}
	s.init("psychologist", opts)
	return s
}

// Snapshot returns a copy of the current state.
func (s *PsychologistStore) Snapshot() PsychologistSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := PsychologistSnapshot{
		Students: collection.Clone(s.students),
		Alerts:   collection.Clone(s.alerts),
		Status:   s.statusLocked(),
	}
	if s.selected != nil {
		st := *s.selected
		snap.SelectedStudent = &st
	}
	if s.report != nil {
		r := *s.report
		r.Notes = collection.Clone(r.Notes)
		snap.Report = &r
	}
	return snap
}

// FetchStudents loads the students the psychologist follows.
func (s *PsychologistStore) FetchStudents(ctx context.Context, psychologistID string) bool {
	c := s.beginLoad("students", "FetchStudents", msgFetchStudents)
	list, err := s.svc.GetStudents(ctx, psychologistID)
	return s.end(c, err, func() { s.students = collection.Clone(list) })
}

// FetchStudentsWithAlerts loads the students together with their alert
// level and last note summary.
func (s *PsychologistStore) FetchStudentsWithAlerts(ctx context.Context, psychologistID string) bool {
	c := s.beginLoad("students", "FetchStudentsWithAlerts", msgFetchStudents)
	list, err := s.svc.GetStudentsWithAlerts(ctx, psychologistID)
	return s.end(c, err, func() { s.students = collection.Clone(list) })
}

// FetchAlerts loads the psychologist's alerts.
func (s *PsychologistStore) FetchAlerts(ctx context.Context, psychologistID string) bool {
	c := s.beginLoad("alerts", "FetchAlerts", msgFetchAlerts)
	list, err := s.svc.GetAlerts(ctx, psychologistID)
	return s.end(c, err, func() { s.alerts = collection.Clone(list) })
}

// MarkAlertAsRead marks one alert read after the server confirmed. Only the
// matching entry is replaced; every other alert keeps its identity.
func (s *PsychologistStore) MarkAlertAsRead(ctx context.Context, alertID int64) bool {
	c := s.begin("MarkAlertAsRead", msgMarkAlertRead)
	err := s.svc.MarkAlertAsRead(ctx, alertID)
	return s.end(c, err, func() {
		s.alerts, _ = collection.ReplaceByID(s.alerts, alertID, (*psychologist.Alert).MarkedRead)
	})
}

// FetchStudentReport loads the detailed report of one student.
func (s *PsychologistStore) FetchStudentReport(ctx context.Context, studentID string) bool {
	c := s.begin("FetchStudentReport", msgStudentReport)
	r, err := s.svc.GetStudentReport(ctx, studentID)
	return s.end(c, err, func() { s.report = &r })
}

// RefreshDashboard loads students with alerts and the alert list in
// parallel. It reports true only when both loads succeeded.
func (s *PsychologistStore) RefreshDashboard(ctx context.Context, psychologistID string) bool {
	var g errgroup.Group
	g.Go(func() error {
		if !s.FetchStudentsWithAlerts(ctx, psychologistID) {
			return errDashboardPartial
		}
		return nil
	})
	g.Go(func() error {
		if !s.FetchAlerts(ctx, psychologistID) {
			return errDashboardPartial
		}
		return nil
	})
	return g.Wait() == nil
}

// SetSelectedStudent selects a student locally. nil clears the selection.
func (s *PsychologistStore) SetSelectedStudent(student *psychologist.Student) {
	s.mutate("SetSelectedStudent", func() {
		if student == nil {
			s.selected = nil
			return
		}
		st := *student
		s.selected = &st
	})
}

// Reset restores the initial empty state.
func (s *PsychologistStore) Reset() {
	s.mutate("Reset", func() {
		s.resetLocked()
		s.students = []psychologist.Student{}
		s.alerts = []*psychologist.Alert{}
		s.selected = nil
		s.report = nil
	})
}
