package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/jatmnk9/UNAYOE-web-sub001/internal/domain/diary"
	"github.com/jatmnk9/UNAYOE-web-sub001/internal/domain/psychologist"
	"github.com/jatmnk9/UNAYOE-web-sub001/internal/domain/shared"
	"github.com/jatmnk9/UNAYOE-web-sub001/internal/infrastructure/transport"
)

// PsychologistService backs the psychologist dashboard.
type PsychologistService struct {
	requester transport.Requester
	mapper    *Mapper
	logger    *slog.Logger
}

// NewPsychologistService creates a PsychologistService.
func NewPsychologistService(requester transport.Requester, logger *slog.Logger) *PsychologistService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PsychologistService{
		requester: requester,
		mapper:    NewMapper(logger),
		logger:    logger,
	}
}

// GetStudents loads the students followed by a psychologist. An empty
// psychologistID lists every student the caller may see.
func (s *PsychologistService) GetStudents(ctx context.Context, psychologistID string) ([]psychologist.Student, error) {
	return s.students(ctx, "/psychologist/students", psychologistID, "GetStudents")
}

// GetStudentsWithAlerts loads only students with an open risk alert.
func (s *PsychologistService) GetStudentsWithAlerts(ctx context.Context, psychologistID string) ([]psychologist.Student, error) {
	return s.students(ctx, "/psychologist/students-alerts", psychologistID, "GetStudentsWithAlerts")
}

// GetAlerts loads the alerts addressed to a psychologist.
func (s *PsychologistService) GetAlerts(ctx context.Context, psychologistID string) ([]*psychologist.Alert, error) {
	var raw json.RawMessage
	if err := s.requester.Get(ctx, withPsychologist("/psychologist/alerts", psychologistID), &raw); err != nil {
		return nil, fmt.Errorf("get alerts: %w", err)
	}

	var dtos []AlertDTO
	if err := unwrap(raw, &dtos); err != nil {
		return nil, shared.WrapError("psychologist", "GetAlerts", shared.ErrUnknown, "Respuesta de alertas inválida", err)
	}
	return s.mapper.AlertsFromDTOs(dtos), nil
}

// MarkAlertAsRead flags an alert as read on the server.
func (s *PsychologistService) MarkAlertAsRead(ctx context.Context, alertID int64) error {
	path := "/psychologist/alerts/" + strconv.FormatInt(alertID, 10) + "/read"
	if err := s.requester.Put(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("mark alert %d as read: %w", alertID, err)
	}
	return nil
}

// GetStudentReport loads the detailed report of a student.
func (s *PsychologistService) GetStudentReport(ctx context.Context, studentID string) (psychologist.Report, error) {
	if err := requireID("psychologist", "GetStudentReport", "student_id", studentID); err != nil {
		return psychologist.Report{}, err
	}

	var raw json.RawMessage
	if err := s.requester.Get(ctx, "/psychologist/student/"+url.PathEscape(studentID)+"/report", &raw); err != nil {
		return psychologist.Report{}, fmt.Errorf("get report %s: %w", studentID, err)
	}

	var dto StudentReportDTO
	if err := unwrap(raw, &dto); err != nil {
		return psychologist.Report{}, shared.WrapError("psychologist", "GetStudentReport", shared.ErrUnknown, "Respuesta de reporte inválida", err)
	}
	return s.mapper.ReportFromDTO(dto), nil
}

// GetStudentStatistics loads the diary summary of a followed student.
func (s *PsychologistService) GetStudentStatistics(ctx context.Context, studentID string) (diary.Statistics, error) {
	if err := requireID("psychologist", "GetStudentStatistics", "student_id", studentID); err != nil {
		return diary.Statistics{}, err
	}

	var raw json.RawMessage
	if err := s.requester.Get(ctx, "/psychologist/student/"+url.PathEscape(studentID)+"/statistics", &raw); err != nil {
		return diary.Statistics{}, fmt.Errorf("get student statistics %s: %w", studentID, err)
	}

	var dto StatisticsDTO
	if err := unwrap(raw, &dto); err != nil {
		return diary.Statistics{}, shared.WrapError("psychologist", "GetStudentStatistics", shared.ErrUnknown, "Respuesta de estadísticas inválida", err)
	}
	return s.mapper.StatisticsFromDTO(dto), nil
}

func (s *PsychologistService) students(ctx context.Context, path, psychologistID, op string) ([]psychologist.Student, error) {
	var raw json.RawMessage
	if err := s.requester.Get(ctx, withPsychologist(path, psychologistID), &raw); err != nil {
		return nil, fmt.Errorf("get students %s: %w", path, err)
	}

	var dtos []StudentDTO
	if err := unwrap(raw, &dtos); err != nil {
		return nil, shared.WrapError("psychologist", op, shared.ErrUnknown, "Respuesta de estudiantes inválida", err)
	}
	return s.mapper.StudentsFromDTOs(dtos), nil
}

func withPsychologist(path, psychologistID string) string {
	if psychologistID == "" {
		return path
	}
	q := url.Values{}
	q.Set("psychologist_id", psychologistID)
	return path + "?" + q.Encode()
}
