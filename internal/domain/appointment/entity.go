// Package appointment contains the booking domain shared by students, who
// request appointments, and psychologists, who take them.
package appointment

import "time"

// Status is the lifecycle state of an appointment.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// ParseStatus maps the backend's value onto a Status. Unknown or empty
// values are treated as pending, which is what a fresh booking is.
func ParseStatus(s string) Status {
	switch Status(s) {
	case StatusConfirmed, StatusCompleted, StatusCancelled:
		return Status(s)
	case "confirmada":
		return StatusConfirmed
	case "completada":
		return StatusCompleted
	case "cancelada":
		return StatusCancelled
	default:
		return StatusPending
	}
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether the lifecycle allows moving to next.
// The client never enforces this; the server owns the transition.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCompleted || next == StatusCancelled
	default:
		return false
	}
}

// Appointment is a booking between a student and, once assigned, a psychologist.
type Appointment struct {
	ID               int64
	StudentID        string
	PsychologistID   *string
	Status           Status
	Title            string
	ScheduledAt      time.Time
	PsychologistName string
	Specialty        string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// GetID returns the appointment id.
func (a Appointment) GetID() int64 { return a.ID }

// HasPsychologist reports whether a psychologist has been assigned.
func (a Appointment) HasPsychologist() bool {
	return a.PsychologistID != nil && *a.PsychologistID != ""
}

// Input is the payload for requesting an appointment.
type Input struct {
	Title       string    `validate:"required,max=200"`
	ScheduledAt time.Time `validate:"required"`
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Title       *string    `validate:"omitempty,min=1,max=200"`
	ScheduledAt *time.Time `validate:"omitempty"`
}

// Psychologist is an entry of the available-psychologists directory.
type Psychologist struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Specialty string
}

// FullName joins first and last name.
func (p Psychologist) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// MergeUnique concatenates lists keeping the first occurrence of each id.
// The backend returns created and assigned appointments separately and an
// appointment can appear in both.
func MergeUnique(lists ...[]Appointment) []Appointment {
	seen := make(map[int64]struct{})
	out := make([]Appointment, 0)
	for _, list := range lists {
		for _, a := range list {
			if _, ok := seen[a.ID]; ok {
				continue
			}
			seen[a.ID] = struct{}{}
			out = append(out, a)
		}
	}
	return out
}
