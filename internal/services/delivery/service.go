package delivery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xelth-com/asbuiltgo/internal/ingest"
	"github.com/xelth-com/asbuiltgo/internal/models"
	"github.com/xelth-com/asbuiltgo/internal/store"
)

// ValidationError reports an invalid delivery field
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Input is a delivery as sent by clients. Dates accept RFC3339,
// YYYY-MM-DD or DD/MM/YYYY.
type Input struct {
	ID                 uint    `json:"id"`
	DocumentName       string  `json:"nomeDocumento"`
	DocumentType       string  `json:"tipoDocumento"`
	Building           string  `json:"edificacao"`
	Discipline         string  `json:"disciplina"`
	ResponsibleCompany string  `json:"empresaResponsavel"`
	ExpectedAt         string  `json:"dataPrevista"`
	ReceivedAt         *string `json:"dataRecebimento"`
	Status             string  `json:"status"`
	Description        *string `json:"descricao"`
}

// Stats counts deliveries per status
type Stats struct {
	Total     int `json:"total"`
	Awaiting  int `json:"aguardando"`
	Received  int `json:"recebidos"`
	Reviewing int `json:"emRevisao"`
	Validated int `json:"validados"`
	Rejected  int `json:"rejeitados"`
	Overdue   int `json:"atrasados"` // awaiting past the expected date
}

// Service tracks as-built document deliveries
type Service struct {
	store *store.Store
	log   *zap.Logger
	now   func() time.Time
}

// NewService creates a delivery service
func NewService(st *store.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: st, log: log, now: time.Now}
}

// List returns deliveries ordered by expected date, latest first
func (s *Service) List(ctx context.Context, building, status string) ([]models.Delivery, error) {
	return s.store.ListDeliveries(ctx, store.DeliveryFilter{Building: building, Status: status})
}

// Get returns one delivery
func (s *Service) Get(ctx context.Context, id uint) (*models.Delivery, error) {
	return s.store.DeliveryByID(ctx, id)
}

// Save creates the delivery when in.ID is 0, else replaces the stored one
func (s *Service) Save(ctx context.Context, in Input) (*models.Delivery, error) {
	d, err := toModel(in)
	if err != nil {
		return nil, err
	}

	if d.ID != 0 {
		existing, err := s.store.DeliveryByID(ctx, d.ID)
		if err != nil {
			return nil, err
		}
		d.CreatedAt = existing.CreatedAt
	}

	if err := s.store.SaveDelivery(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to save delivery: %w", err)
	}

	s.log.Info("delivery saved",
		zap.Uint("id", d.ID),
		zap.String("document", d.DocumentName),
		zap.String("status", d.Status))
	return d, nil
}

// Delete removes a delivery
func (s *Service) Delete(ctx context.Context, id uint) error {
	return s.store.DeleteDelivery(ctx, id)
}

// Stats counts deliveries per status, optionally for one building
func (s *Service) Stats(ctx context.Context, building string) (*Stats, error) {
	all, err := s.store.ListDeliveries(ctx, store.DeliveryFilter{Building: building})
	if err != nil {
		return nil, err
	}

	now := s.now()
	st := &Stats{Total: len(all)}
	for _, d := range all {
		switch d.Status {
		case models.DeliveryStatusAwaiting:
			st.Awaiting++
			if d.ExpectedAt.Before(now) {
				st.Overdue++
			}
		case models.DeliveryStatusReceived:
			st.Received++
		case models.DeliveryStatusReviewing:
			st.Reviewing++
		case models.DeliveryStatusValidated:
			st.Validated++
		case models.DeliveryStatusRejected:
			st.Rejected++
		}
	}
	return st, nil
}

func toModel(in Input) (*models.Delivery, error) {
	required := []struct{ field, value string }{
		{"nomeDocumento", in.DocumentName},
		{"tipoDocumento", in.DocumentType},
		{"edificacao", in.Building},
		{"disciplina", in.Discipline},
		{"empresaResponsavel", in.ResponsibleCompany},
		{"dataPrevista", in.ExpectedAt},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return nil, &ValidationError{Field: r.field, Message: "is required"}
		}
	}

	expected := ingest.ParseDateText(in.ExpectedAt)
	if expected == nil {
		return nil, &ValidationError{Field: "dataPrevista", Message: "is not a valid date"}
	}

	var received *time.Time
	if in.ReceivedAt != nil && strings.TrimSpace(*in.ReceivedAt) != "" {
		received = ingest.ParseDateText(*in.ReceivedAt)
		if received == nil {
			return nil, &ValidationError{Field: "dataRecebimento", Message: "is not a valid date"}
		}
	}

	status := strings.ToUpper(strings.TrimSpace(in.Status))
	if status == "" {
		status = models.DeliveryStatusAwaiting
	}
	if !validStatus(status) {
		return nil, &ValidationError{
			Field:   "status",
			Message: fmt.Sprintf("must be one of %s", strings.Join(models.DeliveryStatuses, ", ")),
		}
	}

	return &models.Delivery{
		ID:                 in.ID,
		DocumentName:       strings.TrimSpace(in.DocumentName),
		DocumentType:       strings.TrimSpace(in.DocumentType),
		Building:           strings.TrimSpace(in.Building),
		Discipline:         strings.TrimSpace(in.Discipline),
		ResponsibleCompany: strings.TrimSpace(in.ResponsibleCompany),
		ExpectedAt:         *expected,
		ReceivedAt:         received,
		Status:             status,
		Description:        in.Description,
	}, nil
}

func validStatus(status string) bool {
	for _, s := range models.DeliveryStatuses {
		if s == status {
			return true
		}
	}
	return false
}
