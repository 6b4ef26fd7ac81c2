package patient

import (
	"context"

	"github.com/mediconnect/omnichannel-platform/internal/events"
	"github.com/mediconnect/omnichannel-platform/internal/queue"
	"github.com/mediconnect/omnichannel-platform/pkg/logging"
)

// Thread is one of the patient's own channel conversations. Statuses
// here are display labels, not the agent queue lifecycle.
type Thread struct {
	ID          int           `json:"id"`
	Channel     queue.Channel `json:"canal"`
	LastMessage string        `json:"ultimaMensagem"`
	TimeLabel   string        `json:"tempo"`
	Status      string        `json:"status"`
}

// Appointment is one of the patient's consultations.
type Appointment struct {
	ID        int    `json:"id"`
	Doctor    string `json:"medico"`
	Specialty string `json:"especialidade"`
	Date      string `json:"data"`
	Time      string `json:"horario"`
	Status    string `json:"status"`
}

// Dashboard is the patient view payload.
type Dashboard struct {
	Threads      []Thread      `json:"conversas"`
	Appointments []Appointment `json:"consultas"`
}

// Service serves the patient dashboard fixtures and the appointment
// request action.
type Service struct {
	publisher events.Publisher
	logger    *logging.Logger

	threads      []Thread
	appointments []Appointment
}

// NewService creates the patient service with the demo fixtures.
func NewService(publisher events.Publisher, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		publisher:    publisher,
		logger:       logger,
		threads:      seedThreads(),
		appointments: seedAppointments(),
	}
}

func seedThreads() []Thread {
	return []Thread{
		{
			ID:          1,
			Channel:     queue.ChannelWhatsApp,
			LastMessage: "Consulta agendada para amanhã às 14h",
			TimeLabel:   "2 horas atrás",
			Status:      "respondido",
		},
		{
			ID:          2,
			Channel:     queue.ChannelEmail,
			LastMessage: "Resultado do exame disponível",
			TimeLabel:   "1 dia atrás",
			Status:      "pendente",
		},
		{
			ID:          3,
			Channel:     queue.ChannelInstagram,
			LastMessage: "Obrigada pelo atendimento!",
			TimeLabel:   "3 dias atrás",
			Status:      "finalizado",
		},
	}
}

func seedAppointments() []Appointment {
	return []Appointment{
		{
			ID:        1,
			Doctor:    "Dr. João Silva",
			Specialty: "Cardiologia",
			Date:      "2024-01-10",
			Time:      "14:00",
			Status:    "agendada",
		},
		{
			ID:        2,
			Doctor:    "Dra. Maria Santos",
			Specialty: "Dermatologia",
			Date:      "2024-01-05",
			Time:      "10:30",
			Status:    "realizada",
		},
	}
}

// Dashboard returns the patient's threads and appointments.
func (s *Service) Dashboard() Dashboard {
	return Dashboard{
		Threads:      s.threads,
		Appointments: s.appointments,
	}
}

// RequestAppointment reports the patient's intent to schedule. The
// scheduling collaborator owns the real booking; only the confirmation
// event is produced here.
func (s *Service) RequestAppointment(ctx context.Context, patientName string) error {
	s.logger.Info("appointment requested", "patient", patientName)
	if s.publisher == nil {
		return nil
	}
	return s.publisher.Publish(ctx, events.Event{
		Type:  events.TypeAppointmentRequested,
		Actor: patientName,
	})
}
