package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/michaelkatsweb/Heronix-Application-sub017/internal/models"
	"github.com/michaelkatsweb/Heronix-Application-sub017/internal/validation"
	appErrors "github.com/michaelkatsweb/Heronix-Application-sub017/pkg/errors"
)

const medicationResource = "medication"

type medicationRepository interface {
	Create(ctx context.Context, med *models.Medication) error
	FindByID(ctx context.Context, id int64) (*models.Medication, error)
	ListByStudent(ctx context.Context, studentID int64) ([]models.Medication, error)
	ListActiveOn(ctx context.Context, studentID *int64, day time.Time) ([]models.Medication, error)
	UpdateStatus(ctx context.Context, id int64, status models.MedicationStatus, actor *int64, now time.Time) error
}

// CreateMedicationRequest registers a prescription with the health office.
type CreateMedicationRequest struct {
	StudentID         int64                  `json:"student_id" validate:"required,gt=0"`
	Name              string                 `json:"name" validate:"required,max=200"`
	Dosage            string                 `json:"dosage" validate:"required,max=100"`
	Route             models.MedicationRoute `json:"route" validate:"required,enum"`
	Frequency         string                 `json:"frequency" validate:"required,max=100"`
	PrescribingDoctor *string                `json:"prescribing_doctor"`
	StartDate         *time.Time             `json:"start_date"`
	EndDate           *time.Time             `json:"end_date"`
	ExpirationDate    *time.Time             `json:"expiration_date"`
	QuantityOnHand    *int                   `json:"quantity_on_hand" validate:"omitempty,min=0"`
	ParentConsent     bool                   `json:"parent_consent"`
	SelfAdminister    bool                   `json:"self_administer"`
}

// MedicationStatusRequest changes the administration status.
type MedicationStatusRequest struct {
	Status models.MedicationStatus `json:"status" validate:"required,enum"`
}

// RefillAlert flags a medication that needs restocking.
type RefillAlert struct {
	Medication          models.Medication `json:"medication"`
	Dose                string            `json:"dose"`
	QuantityOnHand      *int              `json:"quantity_on_hand,omitempty"`
	DaysUntilExpiration int               `json:"days_until_expiration"`
}

// HealthConfig tunes refill alerts.
type HealthConfig struct {
	RefillMinDoses int
	RefillDays     int
}

// MedicationService manages prescriptions administered at school.
type MedicationService struct {
	repo      medicationRepository
	audit     *AuditService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       HealthConfig
	now       Clock
}

// NewMedicationService constructs a MedicationService.
func NewMedicationService(repo medicationRepository, audit *AuditService, validate *validator.Validate, logger *zap.Logger, cfg HealthConfig) *MedicationService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.RefillMinDoses <= 0 {
		cfg.RefillMinDoses = 5
	}
	if cfg.RefillDays <= 0 {
		cfg.RefillDays = 14
	}
	return &MedicationService{repo: repo, audit: audit, validator: validate, logger: logger, cfg: cfg, now: systemClock}
}

// WithClock overrides the time source.
func (s *MedicationService) WithClock(now Clock) *MedicationService {
	if now != nil {
		s.now = now
	}
	return s
}

// Create stores an ACTIVE medication after checking its administration window.
func (s *MedicationService) Create(ctx context.Context, req CreateMedicationRequest, actor *int64) (*models.Medication, error) {
	if err := validation.Struct(s.validator, req); err != nil {
		return nil, err
	}
	med := &models.Medication{
		StudentID:         req.StudentID,
		Name:              req.Name,
		Dosage:            req.Dosage,
		Route:             req.Route,
		Frequency:         req.Frequency,
		PrescribingDoctor: req.PrescribingDoctor,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		ExpirationDate:    req.ExpirationDate,
		QuantityOnHand:    req.QuantityOnHand,
		ParentConsent:     req.ParentConsent,
		SelfAdminister:    req.SelfAdminister,
		Status:            models.MedicationStatusActive,
	}
	med.StampCreate(actor, s.now())
	if err := validation.Struct(s.validator, med); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, med); err != nil {
		return nil, appErrors.Internal(err, "failed to create medication")
	}
	s.audit.Record(ctx, AuditEntry{Actor: actor, Action: models.AuditActionCreate, Resource: medicationResource, ResourceID: med.ID, New: med})
	if !med.ParentConsent {
		s.logger.Warn("medication recorded without parent consent", zap.Int64("medication_id", med.ID), zap.Int64("student_id", med.StudentID))
	}
	return med, nil
}

// Get loads one medication.
func (s *MedicationService) Get(ctx context.Context, id int64) (*models.Medication, error) {
	med, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "medication")
	}
	return med, nil
}

// ListByStudent returns every medication on file for the student.
func (s *MedicationService) ListByStudent(ctx context.Context, studentID int64) ([]models.Medication, error) {
	meds, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list medications")
	}
	return meds, nil
}

// ActiveToday returns medications that may be administered today. A nil
// studentID covers the whole school. The query narrows candidates and the
// model predicate has the final say.
func (s *MedicationService) ActiveToday(ctx context.Context, studentID *int64) ([]models.Medication, error) {
	now := s.now()
	candidates, err := s.repo.ListActiveOn(ctx, studentID, now)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list active medications")
	}
	active := make([]models.Medication, 0, len(candidates))
	for _, med := range candidates {
		if med.IsActiveToday(now) {
			active = append(active, med)
		}
	}
	return active, nil
}

// RefillAlerts lists active medications running low or expiring within days.
// days <= 0 uses the configured window.
func (s *MedicationService) RefillAlerts(ctx context.Context, studentID *int64, days int) ([]RefillAlert, error) {
	if days <= 0 {
		days = s.cfg.RefillDays
	}
	active, err := s.ActiveToday(ctx, studentID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	alerts := make([]RefillAlert, 0)
	for _, med := range active {
		if !med.NeedsRefill(now, s.cfg.RefillMinDoses, days) {
			continue
		}
		alerts = append(alerts, RefillAlert{
			Medication:          med,
			Dose:                med.DisplayDose(),
			QuantityOnHand:      med.QuantityOnHand,
			DaysUntilExpiration: med.DaysUntilExpiration(now),
		})
	}
	return alerts, nil
}

// ChangeStatus moves a medication along its lifecycle.
func (s *MedicationService) ChangeStatus(ctx context.Context, id int64, req MedicationStatusRequest, actor *int64) (*models.Medication, error) {
	if err := validation.Struct(s.validator, req); err != nil {
		return nil, err
	}
	med, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validation.MedicationTransitions.CheckTransition(med.Status, req.Status); err != nil {
		return nil, err
	}
	now := s.now()
	if err := s.repo.UpdateStatus(ctx, id, req.Status, actor, now); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "medication not found")
		}
		return nil, appErrors.Internal(err, "failed to update medication status")
	}
	from := med.Status
	med.Status = req.Status
	med.StampUpdate(actor, now)
	s.audit.Record(ctx, AuditEntry{
		Actor:      actor,
		Action:     models.AuditActionTransition,
		Resource:   medicationResource,
		ResourceID: id,
		Old:        map[string]interface{}{"status": from},
		New:        map[string]interface{}{"status": req.Status},
	})
	return med, nil
}
