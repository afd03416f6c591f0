// Package validation holds the explicit checks run before a record is
// persisted or moved to a new status. Models never reject values on their
// own; callers validate at the service boundary.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/michaelkatsweb/Heronix-Application-sub017/internal/models"
	appErrors "github.com/michaelkatsweb/Heronix-Application-sub017/pkg/errors"
)

type enumValue interface {
	Valid() bool
}

// New returns a validator with the enum tag and entity rules registered.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("enum", func(fl validator.FieldLevel) bool {
		e, ok := fl.Field().Interface().(enumValue)
		return ok && e.Valid()
	})
	// Struct rules are registered on value types; validator dereferences pointers.
	v.RegisterStructValidation(withdrawalRule, models.WithdrawalRecord{})
	v.RegisterStructValidation(medicationRule, models.Medication{})
	v.RegisterStructValidation(plan504Rule, models.Plan504{})
	v.RegisterStructValidation(iepRule, models.IEP{})
	v.RegisterStructValidation(giftedRule, models.GiftedEducationPlan{})
	v.RegisterStructValidation(apiKeyRule, models.APIKey{})
	v.RegisterStructValidation(recordLockRule, models.RecordLock{})
	v.RegisterStructValidation(busRouteRule, models.BusRoute{})
	v.RegisterStructValidation(verificationRule, models.EnrollmentVerification{})
	v.RegisterStructValidation(feeRule, models.StudentFee{})
	return v
}

// Struct validates s and converts failures to an ErrValidation clone naming the fields.
func Struct(v *validator.Validate, s interface{}) error {
	if err := v.Struct(s); err != nil {
		return Describe(err)
	}
	return nil
}

// Describe maps validator output to the application error type.
func Describe(err error) error {
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, appErrors.ErrValidation.Message)
	}
	fields := make([]string, 0, len(ve))
	seen := make(map[string]bool, len(ve))
	for _, fe := range ve {
		entry := fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag())
		if !seen[entry] {
			seen[entry] = true
			fields = append(fields, entry)
		}
	}
	sort.Strings(fields)
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid fields: "+strings.Join(fields, ", "))
}

func checkWindow(sl validator.StructLevel, w models.Window, field string) {
	if !w.Ordered() {
		sl.ReportError(w.End, field, field, "window_order", "")
	}
}

func checkEnum(sl validator.StructLevel, e enumValue, field string) {
	if !e.Valid() {
		sl.ReportError(e, field, field, "enum", "")
	}
}

func withdrawalRule(sl validator.StructLevel) {
	w := sl.Current().Interface().(models.WithdrawalRecord)
	checkEnum(sl, w.Status, "status")
	checkEnum(sl, w.Reason, "reason")
	checkWindow(sl, w.Window(), "expiration_date")
	if w.LastAttendanceDate != nil && !w.WithdrawalDate.IsZero() && models.DayOf(*w.LastAttendanceDate).After(models.DayOf(w.WithdrawalDate)) {
		sl.ReportError(w.LastAttendanceDate, "last_attendance_date", "last_attendance_date", "before_withdrawal", "")
	}
	if !w.ClearanceInSync() {
		sl.ReportError(w.ClearedItems, "cleared_items", "cleared_items", "clearance_sync", "")
	}
	if w.Status == models.WithdrawalStatusCompleted && !w.AllCleared {
		sl.ReportError(w.AllCleared, "all_cleared", "all_cleared", "clearance_complete", "")
	}
}

func medicationRule(sl validator.StructLevel) {
	m := sl.Current().Interface().(models.Medication)
	checkEnum(sl, m.Status, "status")
	checkEnum(sl, m.Route, "route")
	checkWindow(sl, m.Window(), "end_date")
	if m.QuantityOnHand != nil && *m.QuantityOnHand < 0 {
		sl.ReportError(m.QuantityOnHand, "quantity_on_hand", "quantity_on_hand", "min", "0")
	}
}

func plan504Rule(sl validator.StructLevel) {
	p := sl.Current().Interface().(models.Plan504)
	checkEnum(sl, p.Status, "status")
	checkWindow(sl, models.Window{Start: p.StartDate, End: p.EndDate}, "end_date")
	for _, a := range p.Accommodations {
		checkEnum(sl, a.Category, "accommodations.category")
		checkWindow(sl, models.Window{Start: a.EffectiveDate, End: a.EndDate}, "accommodations.end_date")
	}
}

func iepRule(sl validator.StructLevel) {
	i := sl.Current().Interface().(models.IEP)
	checkEnum(sl, i.Status, "status")
	checkWindow(sl, models.Window{Start: i.StartDate, End: i.EndDate}, "end_date")
	for _, s := range i.Services {
		if s.MinutesPerWeek < 0 {
			sl.ReportError(s.MinutesPerWeek, "services.minutes_per_week", "services.minutes_per_week", "min", "0")
		}
	}
}

func giftedRule(sl validator.StructLevel) {
	g := sl.Current().Interface().(models.GiftedEducationPlan)
	checkEnum(sl, g.Status, "status")
	checkWindow(sl, models.Window{Start: g.PlanStartDate, End: g.PlanEndDate}, "plan_end_date")
}

func apiKeyRule(sl validator.StructLevel) {
	k := sl.Current().Interface().(models.APIKey)
	checkEnum(sl, k.Status, "status")
	if k.ExpiresAt != nil && !k.IssuedAt.IsZero() && k.ExpiresAt.Before(k.IssuedAt) {
		sl.ReportError(k.ExpiresAt, "expires_at", "expires_at", "window_order", "")
	}
	if len(k.ScopeList()) == 0 {
		sl.ReportError(k.Scopes, "scopes", "scopes", "required", "")
	}
}

func recordLockRule(sl validator.StructLevel) {
	l := sl.Current().Interface().(models.RecordLock)
	checkEnum(sl, l.Status, "status")
	if l.ExpiresAt != nil && l.ExpiresAt.Before(l.AcquiredAt) {
		sl.ReportError(l.ExpiresAt, "expires_at", "expires_at", "window_order", "")
	}
}

func busRouteRule(sl validator.StructLevel) {
	b := sl.Current().Interface().(models.BusRoute)
	checkEnum(sl, b.Status, "status")
	checkWindow(sl, models.Window{Start: b.EffectiveDate, End: b.EndDate}, "end_date")
	if b.Capacity < 0 {
		sl.ReportError(b.Capacity, "capacity", "capacity", "min", "0")
	}
}

func verificationRule(sl validator.StructLevel) {
	ev := sl.Current().Interface().(models.EnrollmentVerification)
	checkEnum(sl, ev.Status, "status")
	checkEnum(sl, ev.Purpose, "purpose")
	checkWindow(sl, models.Window{Start: ev.IssueDate, End: ev.ValidUntil}, "valid_until")
}

func feeRule(sl validator.StructLevel) {
	f := sl.Current().Interface().(models.StudentFee)
	checkEnum(sl, f.Status, "status")
	if f.AmountCents < 0 {
		sl.ReportError(f.AmountCents, "amount_cents", "amount_cents", "min", "0")
	}
	if f.PaidCents < 0 {
		sl.ReportError(f.PaidCents, "paid_cents", "paid_cents", "min", "0")
	}
}
