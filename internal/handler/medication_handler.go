package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/michaelkatsweb/Heronix-Application-sub017/internal/models"
	"github.com/michaelkatsweb/Heronix-Application-sub017/internal/service"
	"github.com/michaelkatsweb/Heronix-Application-sub017/pkg/response"
)

type medicationUseCases interface {
	Create(ctx context.Context, req service.CreateMedicationRequest, actor *int64) (*models.Medication, error)
	ListByStudent(ctx context.Context, studentID int64) ([]models.Medication, error)
	ActiveToday(ctx context.Context, studentID *int64) ([]models.Medication, error)
	RefillAlerts(ctx context.Context, studentID *int64, days int) ([]service.RefillAlert, error)
	ChangeStatus(ctx context.Context, id int64, req service.MedicationStatusRequest, actor *int64) (*models.Medication, error)
}

// MedicationHandler serves the nurse's medication endpoints.
type MedicationHandler struct {
	medications medicationUseCases
}

// NewMedicationHandler constructs MedicationHandler.
func NewMedicationHandler(medications medicationUseCases) *MedicationHandler {
	return &MedicationHandler{medications: medications}
}

// Create godoc
// @Summary Record a medication order
// @Tags Health
// @Accept json
// @Produce json
// @Param payload body service.CreateMedicationRequest true "Medication payload"
// @Success 201 {object} response.Envelope
// @Router /medications [post]
func (h *MedicationHandler) Create(c *gin.Context) {
	var req service.CreateMedicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	med, err := h.medications.Create(c.Request.Context(), req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, med)
}

// ListByStudent godoc
// @Summary List a student's medications
// @Tags Health
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/medications [get]
func (h *MedicationHandler) ListByStudent(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	meds, err := h.medications.ListByStudent(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, meds)
}

// ActiveForStudent godoc
// @Summary Medications administrable today
// @Tags Health
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/medications/active [get]
func (h *MedicationHandler) ActiveForStudent(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	meds, err := h.medications.ActiveToday(c.Request.Context(), &id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, meds)
}

// ActiveToday lists every medication active today across students.
func (h *MedicationHandler) ActiveToday(c *gin.Context) {
	meds, err := h.medications.ActiveToday(c.Request.Context(), nil)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, meds)
}

// Refills godoc
// @Summary Medications needing a refill
// @Tags Health
// @Produce json
// @Param student_id query int false "Filter by student"
// @Param days query int false "Expiration window in days"
// @Success 200 {object} response.Envelope
// @Router /medications/refills [get]
func (h *MedicationHandler) Refills(c *gin.Context) {
	studentID, err := optionalQueryID(c, "student_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	days, _ := strconv.Atoi(c.Query("days"))
	alerts, err := h.medications.RefillAlerts(c.Request.Context(), studentID, days)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, alerts, nil, map[string]interface{}{"count": len(alerts)})
}

// ChangeStatus godoc
// @Summary Change medication status
// @Tags Health
// @Accept json
// @Produce json
// @Param id path int true "Medication ID"
// @Param payload body service.MedicationStatusRequest true "New status"
// @Success 200 {object} response.Envelope
// @Router /medications/{id}/status [patch]
func (h *MedicationHandler) ChangeStatus(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.MedicationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, invalidPayload(err))
		return
	}
	med, err := h.medications.ChangeStatus(c.Request.Context(), id, req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, med)
}
