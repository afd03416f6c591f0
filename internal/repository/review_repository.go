package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/michaelkatsweb/Heronix-Application-sub017/internal/models"
)

var (
	iepSelect = "SELECT " + strings.Join(append([]string{
		"id", "iep_number", "student_id", "case_manager_id", "primary_disability", "start_date",
		"end_date", "annual_review_date", "reevaluation_date", "status",
	}, auditColumns...), ", ") + " FROM ieps"
	plan504Select = "SELECT " + strings.Join(append([]string{
		"id", "plan_number", "student_id", "coordinator_id", "disability", "start_date",
		"end_date", "next_review_date", "status",
	}, auditColumns...), ", ") + " FROM plans_504"
	giftedSelect = "SELECT " + strings.Join(append([]string{
		"id", "student_id", "case_manager_id", "areas_of_strength", "goals", "plan_start_date",
		"plan_end_date", "next_review_date", "parent_approved", "status",
	}, auditColumns...), ", ") + " FROM gifted_plans"
	crisisSelect = "SELECT " + strings.Join(append([]string{
		"id", "incident_number", "student_id", "counselor_id", "incident_at", "severity",
		"description", "parent_contacted", "safety_plan", "follow_up_date", "resolved_at", "status",
	}, auditColumns...), ", ") + " FROM crisis_interventions"
	feeSelect = "SELECT " + strings.Join(append([]string{
		"id", "invoice_number", "student_id", "description", "amount_cents", "paid_cents",
		"due_date", "paid_at", "status",
	}, auditColumns...), ", ") + " FROM student_fees"
)

// ReviewRepository reads the open records that feed the due-review board.
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository constructs a ReviewRepository.
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// OpenIEPs returns IEPs still under management.
func (r *ReviewRepository) OpenIEPs(ctx context.Context) ([]models.IEP, error) {
	var rows []models.IEP
	query := iepSelect + " WHERE status IN ($1, $2, $3) ORDER BY annual_review_date NULLS FIRST"
	if err := r.db.SelectContext(ctx, &rows, query, models.IEPStatusDraft, models.IEPStatusPendingApproval, models.IEPStatusActive); err != nil {
		return nil, fmt.Errorf("list open ieps: %w", err)
	}
	return rows, nil
}

// OpenPlan504s returns draft and active 504 plans.
func (r *ReviewRepository) OpenPlan504s(ctx context.Context) ([]models.Plan504, error) {
	var rows []models.Plan504
	query := plan504Select + " WHERE status IN ($1, $2) ORDER BY next_review_date NULLS FIRST"
	if err := r.db.SelectContext(ctx, &rows, query, models.Plan504StatusDraft, models.Plan504StatusActive); err != nil {
		return nil, fmt.Errorf("list open 504 plans: %w", err)
	}
	return rows, nil
}

// OpenGiftedPlans returns draft and active gifted plans.
func (r *ReviewRepository) OpenGiftedPlans(ctx context.Context) ([]models.GiftedEducationPlan, error) {
	var rows []models.GiftedEducationPlan
	query := giftedSelect + " WHERE status IN ($1, $2) ORDER BY next_review_date NULLS LAST"
	if err := r.db.SelectContext(ctx, &rows, query, models.GiftedPlanStatusDraft, models.GiftedPlanStatusActive); err != nil {
		return nil, fmt.Errorf("list open gifted plans: %w", err)
	}
	return rows, nil
}

// OpenCrises returns crisis cases that are not resolved or closed.
func (r *ReviewRepository) OpenCrises(ctx context.Context) ([]models.CrisisIntervention, error) {
	var rows []models.CrisisIntervention
	query := crisisSelect + " WHERE status IN ($1, $2) ORDER BY follow_up_date NULLS LAST"
	if err := r.db.SelectContext(ctx, &rows, query, models.CrisisStatusOpen, models.CrisisStatusInProgress); err != nil {
		return nil, fmt.Errorf("list open crises: %w", err)
	}
	return rows, nil
}

// UnsettledFees returns fees with an outstanding balance.
func (r *ReviewRepository) UnsettledFees(ctx context.Context) ([]models.StudentFee, error) {
	var rows []models.StudentFee
	query := feeSelect + " WHERE status IN ($1, $2) ORDER BY due_date NULLS LAST"
	if err := r.db.SelectContext(ctx, &rows, query, models.FeeStatusUnpaid, models.FeeStatusPartial); err != nil {
		return nil, fmt.Errorf("list unsettled fees: %w", err)
	}
	return rows, nil
}
