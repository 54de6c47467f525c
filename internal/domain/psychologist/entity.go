// Package psychologist contains the monitoring domain used by psychologists:
// the students they follow, risk alerts about them and per-student reports.
package psychologist

import (
	"time"

	"github.com/jatmnk9/UNAYOE-web-sub001/internal/domain/diary"
)

// Student is a student as seen from the psychologist dashboard.
type Student struct {
	ID              string
	Name            string
	LastName        string
	Email           string
	Code            string
	AlertLevel      string
	LastNoteSummary string
	LastNoteAt      time.Time
	NextAppointment time.Time
}

// FullName joins name and last name.
func (s Student) FullName() string {
	if s.LastName == "" {
		return s.Name
	}
	return s.Name + " " + s.LastName
}

// Alert is a risk notification about a student. Only Read ever changes on
// the client, and only after the server confirmed it.
type Alert struct {
	ID          int64
	StudentID   string
	StudentName string
	Kind        string
	Level       string
	Message     string
	CreatedAt   time.Time
	Read        bool
}

// GetID returns the alert id.
func (a *Alert) GetID() int64 { return a.ID }

// MarkedRead returns a copy of a with Read set.
func (a *Alert) MarkedRead() *Alert {
	cp := *a
	cp.Read = true
	return &cp
}

// CountUnread returns how many alerts are still unread.
func CountUnread(alerts []*Alert) int {
	n := 0
	for _, a := range alerts {
		if !a.Read {
			n++
		}
	}
	return n
}

// Report is the detailed view of one student.
type Report struct {
	Student    Student
	Notes      []diary.Note
	Statistics diary.Statistics
}
