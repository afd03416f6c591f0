package validation

import (
	"fmt"

	"github.com/michaelkatsweb/Heronix-Application-sub017/internal/models"
	appErrors "github.com/michaelkatsweb/Heronix-Application-sub017/pkg/errors"
)

// Transitions maps each status to the statuses it may move to.
type Transitions[S ~string] map[S][]S

// AllowedTransitions lists the targets reachable from from.
func (t Transitions[S]) AllowedTransitions(from S) []S {
	out := make([]S, len(t[from]))
	copy(out, t[from])
	return out
}

// CheckTransition returns ErrInvalidTransition unless from -> to is listed.
func (t Transitions[S]) CheckTransition(from, to S) error {
	for _, next := range t[from] {
		if next == to {
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("cannot move from %s to %s", from, to))
}

// WithdrawalTransitions allows unticking an item to send a cleared case back to pending.
var WithdrawalTransitions = Transitions[models.WithdrawalStatus]{
	models.WithdrawalStatusDraft:            {models.WithdrawalStatusPendingClearance, models.WithdrawalStatusCancelled},
	models.WithdrawalStatusPendingClearance: {models.WithdrawalStatusCleared, models.WithdrawalStatusDraft, models.WithdrawalStatusCancelled},
	models.WithdrawalStatusCleared:          {models.WithdrawalStatusCompleted, models.WithdrawalStatusPendingClearance, models.WithdrawalStatusCancelled},
}

var MedicationTransitions = Transitions[models.MedicationStatus]{
	models.MedicationStatusActive: {models.MedicationStatusOnHold, models.MedicationStatusDiscontinued, models.MedicationStatusExpired},
	models.MedicationStatusOnHold: {models.MedicationStatusActive, models.MedicationStatusDiscontinued, models.MedicationStatusExpired},
}

var APIKeyTransitions = Transitions[models.APIKeyStatus]{
	models.APIKeyStatusActive: {models.APIKeyStatusRevoked},
}

var LockTransitions = Transitions[models.LockStatus]{
	models.LockStatusActive: {models.LockStatusReleased, models.LockStatusExpired},
}
