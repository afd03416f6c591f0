package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/michaelkatsweb/Heronix-Application-sub017/internal/models"
	appErrors "github.com/michaelkatsweb/Heronix-Application-sub017/pkg/errors"
)

// Record types shown on the review board.
const (
	ReviewTypeIEP     = "iep"
	ReviewTypePlan504 = "plan504"
	ReviewTypeGifted  = "gifted_plan"
	ReviewTypeCrisis  = "crisis"
	ReviewTypeFee     = "fee"
)

var reviewTypes = []string{ReviewTypeIEP, ReviewTypePlan504, ReviewTypeGifted, ReviewTypeCrisis, ReviewTypeFee}

type reviewRepository interface {
	OpenIEPs(ctx context.Context) ([]models.IEP, error)
	OpenPlan504s(ctx context.Context) ([]models.Plan504, error)
	OpenGiftedPlans(ctx context.Context) ([]models.GiftedEducationPlan, error)
	OpenCrises(ctx context.Context) ([]models.CrisisIntervention, error)
	UnsettledFees(ctx context.Context) ([]models.StudentFee, error)
}

// ReviewFilter narrows the board. Empty Types means every type.
type ReviewFilter struct {
	Types              []string
	IncludeOnTrack     bool
	IncludeUnscheduled bool
}

// ReviewBoard lists records by urgency.
type ReviewBoard struct {
	Items       []models.DueItem         `json:"items"`
	Counts      map[models.DueStatus]int `json:"counts"`
	GeneratedAt time.Time                `json:"generated_at"`
}

// ReviewThresholds holds the due-soon window in days for each record type.
// Zero fields keep the record type's default.
type ReviewThresholds struct {
	IEP     int
	Plan504 int
	Gifted  int
	Crisis  int
	Fee     int
}

// DefaultReviewThresholds returns the windows the record types use on their own.
func DefaultReviewThresholds() ReviewThresholds {
	return ReviewThresholds{
		IEP:     models.IEPReviewThresholdDays,
		Plan504: models.Plan504ReviewThresholdDays,
		Gifted:  models.GiftedReviewThresholdDays,
		Crisis:  models.CrisisFollowUpThresholdDays,
		Fee:     models.FeeDueThresholdDays,
	}
}

func (t ReviewThresholds) withDefaults() ReviewThresholds {
	d := DefaultReviewThresholds()
	pick := func(v, fallback int) int {
		if v > 0 {
			return v
		}
		return fallback
	}
	return ReviewThresholds{
		IEP:     pick(t.IEP, d.IEP),
		Plan504: pick(t.Plan504, d.Plan504),
		Gifted:  pick(t.Gifted, d.Gifted),
		Crisis:  pick(t.Crisis, d.Crisis),
		Fee:     pick(t.Fee, d.Fee),
	}
}

// ReviewService builds the due-review board across record types.
type ReviewService struct {
	repo        reviewRepository
	logger      *zap.Logger
	horizonDays int
	thresholds  ReviewThresholds
	now         Clock
}

// NewReviewService constructs a ReviewService. On-track items are listed only
// when their target falls within horizonDays.
func NewReviewService(repo reviewRepository, logger *zap.Logger, horizonDays int) *ReviewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if horizonDays <= 0 {
		horizonDays = 30
	}
	return &ReviewService{repo: repo, logger: logger, horizonDays: horizonDays, thresholds: DefaultReviewThresholds(), now: systemClock}
}

// WithThresholds overrides the due-soon windows.
func (s *ReviewService) WithThresholds(t ReviewThresholds) *ReviewService {
	s.thresholds = t.withDefaults()
	return s
}

// WithClock overrides the time source.
func (s *ReviewService) WithClock(now Clock) *ReviewService {
	if now != nil {
		s.now = now
	}
	return s
}

// Board classifies every open record with its own due policy.
func (s *ReviewService) Board(ctx context.Context, filter ReviewFilter) (*ReviewBoard, error) {
	wanted := make(map[string]bool, len(reviewTypes))
	if len(filter.Types) == 0 {
		for _, t := range reviewTypes {
			wanted[t] = true
		}
	}
	for _, t := range filter.Types {
		if !contains(reviewTypes, t) {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown review type %q", t))
		}
		wanted[t] = true
	}

	now := s.now()
	var items []models.DueItem

	if wanted[ReviewTypeIEP] {
		rows, err := s.repo.OpenIEPs(ctx)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to load ieps")
		}
		for _, r := range rows {
			items = append(items, models.NewDueItem(ReviewTypeIEP, r.ID, models.Int64Ptr(r.StudentID), "Annual review "+r.IEPNumber, r.AnnualReviewDate, r.AnnualReviewStatusWithin(now, s.thresholds.IEP)))
		}
	}
	if wanted[ReviewTypePlan504] {
		rows, err := s.repo.OpenPlan504s(ctx)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to load 504 plans")
		}
		for _, r := range rows {
			items = append(items, models.NewDueItem(ReviewTypePlan504, r.ID, models.Int64Ptr(r.StudentID), "504 review "+r.PlanNumber, r.NextReviewDate, r.ReviewStatusWithin(now, s.thresholds.Plan504)))
		}
	}
	if wanted[ReviewTypeGifted] {
		rows, err := s.repo.OpenGiftedPlans(ctx)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to load gifted plans")
		}
		for _, r := range rows {
			items = append(items, models.NewDueItem(ReviewTypeGifted, r.ID, models.Int64Ptr(r.StudentID), "Gifted plan review", r.NextReviewDate, r.ReviewStatusWithin(now, s.thresholds.Gifted)))
		}
	}
	if wanted[ReviewTypeCrisis] {
		rows, err := s.repo.OpenCrises(ctx)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to load crisis cases")
		}
		for _, r := range rows {
			items = append(items, models.NewDueItem(ReviewTypeCrisis, r.ID, models.Int64Ptr(r.StudentID), "Follow-up "+r.IncidentNumber, r.FollowUpDate, r.FollowUpStatusWithin(now, s.thresholds.Crisis)))
		}
	}
	if wanted[ReviewTypeFee] {
		rows, err := s.repo.UnsettledFees(ctx)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to load fees")
		}
		for _, r := range rows {
			title := fmt.Sprintf("%s %s ($%.2f due)", r.InvoiceNumber, r.Description, float64(r.BalanceCents())/100)
			items = append(items, models.NewDueItem(ReviewTypeFee, r.ID, models.Int64Ptr(r.StudentID), title, r.DueDate, r.DueStatusWithin(now, s.thresholds.Fee)))
		}
	}

	board := &ReviewBoard{Items: make([]models.DueItem, 0, len(items)), Counts: map[models.DueStatus]int{}, GeneratedAt: now}
	horizon := models.DayOf(now).AddDate(0, 0, s.horizonDays)
	for _, item := range items {
		board.Counts[item.Status]++
		switch item.Status {
		case models.DueStatusOnTrack:
			if !filter.IncludeOnTrack || item.TargetDate == nil || models.DayOf(*item.TargetDate).After(horizon) {
				continue
			}
		case models.DueStatusNotScheduled:
			if !filter.IncludeUnscheduled {
				continue
			}
		}
		board.Items = append(board.Items, item)
	}
	sortDueItems(board.Items)
	return board, nil
}

var dueRank = map[models.DueStatus]int{
	models.DueStatusOverdue:      0,
	models.DueStatusDueSoon:      1,
	models.DueStatusNotScheduled: 2,
	models.DueStatusOnTrack:      3,
}

// sortDueItems orders by urgency, then earliest target, with unscheduled last in each group.
func sortDueItems(items []models.DueItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if dueRank[a.Status] != dueRank[b.Status] {
			return dueRank[a.Status] < dueRank[b.Status]
		}
		switch {
		case a.TargetDate == nil:
			return false
		case b.TargetDate == nil:
			return true
		}
		return a.TargetDate.Before(*b.TargetDate)
	})
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
