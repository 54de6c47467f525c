package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/jatmnk9/UNAYOE-web-sub001/internal/domain/appointment"
	"github.com/jatmnk9/UNAYOE-web-sub001/internal/domain/shared"
	"github.com/jatmnk9/UNAYOE-web-sub001/internal/infrastructure/transport"
	"github.com/jatmnk9/UNAYOE-web-sub001/pkg/timeutil"
)

// scheduleLayout is the naive Lima-local layout the backend stores fecha_cita in.
const scheduleLayout = "2006-01-02T15:04:05"

// AppointmentService manages appointments between students and psychologists.
// Every mutating call carries the acting user's id for the server-side
// ownership check; the client holds no authorization logic.
type AppointmentService struct {
	requester transport.Requester
	mapper    *Mapper
	logger    *slog.Logger
}

// NewAppointmentService creates an AppointmentService.
func NewAppointmentService(requester transport.Requester, logger *slog.Logger) *AppointmentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AppointmentService{
		requester: requester,
		mapper:    NewMapper(logger),
		logger:    logger,
	}
}

// Create books a new appointment. It starts pending with no psychologist.
func (s *AppointmentService) Create(ctx context.Context, userID string, input appointment.Input) (appointment.Appointment, error) {
	if err := requireID("appointments", "Create", "id_usuario", userID); err != nil {
		return appointment.Appointment{}, err
	}
	if err := validateInput("appointments", "Create", input); err != nil {
		return appointment.Appointment{}, err
	}

	body := appointmentRequestDTO{
		Title:       input.Title,
		ScheduledAt: formatSchedule(input.ScheduledAt),
	}

	var raw json.RawMessage
	if err := s.requester.Post(ctx, "/citas?"+userQuery(userID), body, &raw); err != nil {
		return appointment.Appointment{}, fmt.Errorf("create appointment: %w", err)
	}
	return s.decodeAppointment(raw, "Create")
}

// GetUserAppointments loads the appointments a user created or was
// assigned to, merged without duplicates.
func (s *AppointmentService) GetUserAppointments(ctx context.Context, userID string) ([]appointment.Appointment, error) {
	if err := requireID("appointments", "GetUserAppointments", "id_usuario", userID); err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := s.requester.Get(ctx, "/citas/usuario/"+url.PathEscape(userID), &raw); err != nil {
		return nil, fmt.Errorf("get user appointments %s: %w", userID, err)
	}

	var dto UserAppointmentsDTO
	if err := unwrap(raw, &dto); err != nil {
		return nil, shared.WrapError("appointments", "GetUserAppointments", shared.ErrUnknown, "Respuesta de citas inválida", err)
	}
	return appointment.MergeUnique(
		s.mapper.AppointmentsFromDTOs(dto.Created),
		s.mapper.AppointmentsFromDTOs(dto.Assigned),
	), nil
}

// GetPending loads appointments still waiting for a psychologist.
func (s *AppointmentService) GetPending(ctx context.Context) ([]appointment.Appointment, error) {
	return s.list(ctx, "/citas/pendientes", "GetPending")
}

// GetAll loads every appointment.
func (s *AppointmentService) GetAll(ctx context.Context) ([]appointment.Appointment, error) {
	return s.list(ctx, "/citas/todas", "GetAll")
}

// GetDetail loads a single appointment.
func (s *AppointmentService) GetDetail(ctx context.Context, appointmentID int64) (appointment.Appointment, error) {
	var raw json.RawMessage
	if err := s.requester.Get(ctx, appointmentPath(appointmentID), &raw); err != nil {
		return appointment.Appointment{}, fmt.Errorf("get appointment %d: %w", appointmentID, err)
	}
	return s.decodeAppointment(raw, "GetDetail")
}

// AssignPsychologist requests the pending → confirmed transition. The
// returned appointment carries whatever status the server decided.
func (s *AppointmentService) AssignPsychologist(ctx context.Context, appointmentID int64, psychologistID string) (appointment.Appointment, error) {
	if err := requireID("appointments", "AssignPsychologist", "id_psicologo", psychologistID); err != nil {
		return appointment.Appointment{}, err
	}

	var raw json.RawMessage
	path := appointmentPath(appointmentID) + "/asignar-psicologo"
	if err := s.requester.Put(ctx, path, assignRequestDTO{PsychologistID: psychologistID}, &raw); err != nil {
		return appointment.Appointment{}, fmt.Errorf("assign psychologist to %d: %w", appointmentID, err)
	}
	return s.decodeAppointment(raw, "AssignPsychologist")
}

// Update applies a partial update on behalf of userID.
func (s *AppointmentService) Update(ctx context.Context, appointmentID int64, userID string, patch appointment.Patch) (appointment.Appointment, error) {
	if err := requireID("appointments", "Update", "id_usuario", userID); err != nil {
		return appointment.Appointment{}, err
	}
	if err := validateInput("appointments", "Update", patch); err != nil {
		return appointment.Appointment{}, err
	}

	body := appointmentPatchDTO{Title: patch.Title}
	if patch.ScheduledAt != nil {
		v := formatSchedule(*patch.ScheduledAt)
		body.ScheduledAt = &v
	}

	var raw json.RawMessage
	path := appointmentPath(appointmentID) + "?" + userQuery(userID)
	if err := s.requester.Put(ctx, path, body, &raw); err != nil {
		return appointment.Appointment{}, fmt.Errorf("update appointment %d: %w", appointmentID, err)
	}
	return s.decodeAppointment(raw, "Update")
}

// Delete cancels an appointment on behalf of userID.
func (s *AppointmentService) Delete(ctx context.Context, appointmentID int64, userID string) error {
	if err := requireID("appointments", "Delete", "id_usuario", userID); err != nil {
		return err
	}
	path := appointmentPath(appointmentID) + "?" + userQuery(userID)
	if err := s.requester.Delete(ctx, path, nil); err != nil {
		return fmt.Errorf("delete appointment %d: %w", appointmentID, err)
	}
	return nil
}

// AvailablePsychologists loads the psychologist directory.
func (s *AppointmentService) AvailablePsychologists(ctx context.Context) ([]appointment.Psychologist, error) {
	var raw json.RawMessage
	if err := s.requester.Get(ctx, "/citas/psicologos/disponibles", &raw); err != nil {
		return nil, fmt.Errorf("get available psychologists: %w", err)
	}

	var dtos []PsychologistDTO
	if err := unwrap(raw, &dtos); err != nil {
		return nil, shared.WrapError("appointments", "AvailablePsychologists", shared.ErrUnknown, "Respuesta de psicólogos inválida", err)
	}

	out := make([]appointment.Psychologist, 0, len(dtos))
	for _, dto := range dtos {
		out = append(out, s.mapper.PsychologistFromDTO(dto))
	}
	return out, nil
}

func (s *AppointmentService) list(ctx context.Context, path, op string) ([]appointment.Appointment, error) {
	var raw json.RawMessage
	if err := s.requester.Get(ctx, path, &raw); err != nil {
		return nil, fmt.Errorf("list appointments %s: %w", path, err)
	}

	var dtos []AppointmentDTO
	if err := unwrap(raw, &dtos); err != nil {
		return nil, shared.WrapError("appointments", op, shared.ErrUnknown, "Respuesta de citas inválida", err)
	}
	return s.mapper.AppointmentsFromDTOs(dtos), nil
}

func (s *AppointmentService) decodeAppointment(raw json.RawMessage, op string) (appointment.Appointment, error) {
	var dto AppointmentDTO
	if err := decodeOne(raw, &dto); err != nil {
		return appointment.Appointment{}, shared.WrapError("appointments", op, shared.ErrUnknown, "Respuesta de cita inválida", err)
	}
	return s.mapper.AppointmentFromDTO(dto), nil
}

func appointmentPath(id int64) string {
	return "/citas/" + strconv.FormatInt(id, 10)
}

func userQuery(userID string) string {
	q := url.Values{}
	q.Set("id_usuario", userID)
	return q.Encode()
}

func formatSchedule(t time.Time) string {
	return timeutil.ToLima(t).Format(scheduleLayout)
}
