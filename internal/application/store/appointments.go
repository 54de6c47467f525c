package store

import (
	"context"

	"github.com/jatmnk9/UNAYOE-web-sub001/internal/domain/appointment"
	"github.com/jatmnk9/UNAYOE-web-sub001/pkg/collection"
)

// AppointmentAPI is the appointment service the store drives.
type AppointmentAPI interface {
	Create(ctx context.Context, userID string, input appointment.Input) (appointment.Appointment, error)
	GetUserAppointments(ctx context.Context, userID string) ([]appointment.Appointment, error)
	GetPending(ctx context.Context) ([]appointment.Appointment, error)
	GetAll(ctx context.Context) ([]appointment.Appointment, error)
	GetDetail(ctx context.Context, appointmentID int64) (appointment.Appointment, error)
	AssignPsychologist(ctx context.Context, appointmentID int64, psychologistID string) (appointment.Appointment, error)
	Update(ctx context.Context, appointmentID int64, userID string, patch appointment.Patch) (appointment.Appointment, error)
	Delete(ctx context.Context, appointmentID int64, userID string) error
	AvailablePsychologists(ctx context.Context) ([]appointment.Psychologist, error)
}

const (
	msgFetchAppointments = "Error al cargar las citas"
	msgFetchPsychologist = "Error al cargar psicólogos disponibles"
	msgCreateAppointment = "Error al crear la cita"
	msgUpdateAppointment = "Error al actualizar la cita"
	msgDeleteAppointment = "Error al eliminar la cita"
	msgAssignAppointment = "Error al asignar el psicólogo"
	msgAppointmentDetail = "Error al cargar la cita"
)

// AppointmentsSnapshot is a copy of the appointments store state.
type AppointmentsSnapshot struct {
	Appointments           []appointment.Appointment
	AvailablePsychologists []appointment.Psychologist
	Selected               *appointment.Appointment
	Status
}

// AppointmentsStore mirrors the appointments visible to the current user.
type AppointmentsStore struct {
	base
	svc AppointmentAPI

	appointments  []appointment.Appointment
	psychologists []appointment.Psychologist
	selected      *appointment.Appointment
}

// NewAppointmentsStore creates an empty AppointmentsStore.
func NewAppointmentsStore(svc AppointmentAPI, opts Options) *AppointmentsStore {
	s := &AppointmentsStore{
		svc:           svc,
		appointments:  []appointment.Appointment{},
		psychologists: []appointment.Psychologist{},
	}
	s.init("appointments", opts)
	return s
}

// Snapshot returns a copy of the current state.
func (s *AppointmentsStore) Snapshot() AppointmentsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := AppointmentsSnapshot{
		Appointments:           cloneAppointments(s.appointments),
		AvailablePsychologists: collection.Clone(s.psychologists),
		Status:                 s.statusLocked(),
	}
	if s.selected != nil {
		a := cloneAppointment(*s.selected)
		snap.Selected = &a
	}
	return snap
}

// GetUserAppointments loads the appointments the user created or was
// assigned, merged by id.
func (s *AppointmentsStore) GetUserAppointments(ctx context.Context, userID string) bool {
	c := s.beginLoad("appointments", "GetUserAppointments", msgFetchAppointments)
	list, err := s.svc.GetUserAppointments(ctx, userID)
	return s.end(c, err, func() { s.appointments = collection.Clone(list) })
}

// GetPendingAppointments loads appointments still awaiting a psychologist.
func (s *AppointmentsStore) GetPendingAppointments(ctx context.Context) bool {
	c := s.beginLoad("appointments", "GetPendingAppointments", msgFetchAppointments)
	list, err := s.svc.GetPending(ctx)
	return s.end(c, err, func() { s.appointments = collection.Clone(list) })
}

// GetAllAppointments loads every appointment.
func (s *AppointmentsStore) GetAllAppointments(ctx context.Context) bool {
	c := s.beginLoad("appointments", "GetAllAppointments", msgFetchAppointments)
	list, err := s.svc.GetAll(ctx)
	return s.end(c, err, func() { s.appointments = collection.Clone(list) })
}

// GetAppointmentDetail loads one appointment into Selected and refreshes
// its entry in the list when present.
func (s *AppointmentsStore) GetAppointmentDetail(ctx context.Context, appointmentID int64) bool {
	c := s.begin("GetAppointmentDetail", msgAppointmentDetail)
	a, err := s.svc.GetDetail(ctx, appointmentID)
	return s.end(c, err, func() {
		s.selected = &a
		s.appointments, _ = collection.ReplaceByID(s.appointments, appointmentID, func(appointment.Appointment) appointment.Appointment { return a })
	})
}

// FetchAvailablePsychologists loads the psychologists open for booking.
func (s *AppointmentsStore) FetchAvailablePsychologists(ctx context.Context) bool {
	c := s.begin("FetchAvailablePsychologists", msgFetchPsychologist)
	list, err := s.svc.AvailablePsychologists(ctx)
	return s.end(c, err, func() { s.psychologists = collection.Clone(list) })
}

// CreateAppointment books a new appointment and prepends it.
func (s *AppointmentsStore) CreateAppointment(ctx context.Context, userID string, input appointment.Input) bool {
	c := s.begin("CreateAppointment", msgCreateAppointment)
	a, err := s.svc.Create(ctx, userID, input)
	return s.end(c, err, func() { s.appointments = collection.Prepend(s.appointments, a) })
}

// AssignPsychologist assigns a psychologist and reflects whatever status the
// server returns.
func (s *AppointmentsStore) AssignPsychologist(ctx context.Context, appointmentID int64, psychologistID string) bool {
	c := s.begin("AssignPsychologist", msgAssignAppointment)
	a, err := s.svc.AssignPsychologist(ctx, appointmentID, psychologistID)
	return s.end(c, err, func() { s.replace(appointmentID, a) })
}

// UpdateAppointment applies a partial update.
func (s *AppointmentsStore) UpdateAppointment(ctx context.Context, appointmentID int64, userID string, patch appointment.Patch) bool {
	c := s.begin("UpdateAppointment", msgUpdateAppointment)
	a, err := s.svc.Update(ctx, appointmentID, userID, patch)
	return s.end(c, err, func() { s.replace(appointmentID, a) })
}

// DeleteAppointment removes the appointment once the server confirmed.
func (s *AppointmentsStore) DeleteAppointment(ctx context.Context, appointmentID int64, userID string) bool {
	c := s.begin("DeleteAppointment", msgDeleteAppointment)
	err := s.svc.Delete(ctx, appointmentID, userID)
	return s.end(c, err, func() {
		s.appointments, _ = collection.RemoveByID(s.appointments, appointmentID)
		if s.selected != nil && s.selected.ID == appointmentID {
			s.selected = nil
		}
	})
}

// Reset restores the initial empty state.
func (s *AppointmentsStore) Reset() {
	s.mutate("Reset", func() {
		s.resetLocked()
		s.appointments = []appointment.Appointment{}
		s.psychologists = []appointment.Psychologist{}
		s.selected = nil
	})
}

func (s *AppointmentsStore) replace(id int64, a appointment.Appointment) {
	s.appointments, _ = collection.ReplaceByID(s.appointments, id, func(appointment.Appointment) appointment.Appointment { return a })
	if s.selected != nil && s.selected.ID == id {
		s.selected = &a
	}
}

func cloneAppointments(in []appointment.Appointment) []appointment.Appointment {
	out := make([]appointment.Appointment, len(in))
	for i, a := range in {
		out[i] = cloneAppointment(a)
	}
	return out
}

func cloneAppointment(a appointment.Appointment) appointment.Appointment {
	if a.PsychologistID != nil {
		id := *a.PsychologistID
		a.PsychologistID = &id
	}
	return a
}
