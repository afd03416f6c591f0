package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/michaelkatsweb/Heronix-Application-sub017/internal/models"
	appErrors "github.com/michaelkatsweb/Heronix-Application-sub017/pkg/errors"
)

func TestWithdrawalTransitions(t *testing.T) {
	tests := []struct {
		from, to models.WithdrawalStatus
		ok       bool
	}{
		{models.WithdrawalStatusDraft, models.WithdrawalStatusPendingClearance, true},
		{models.WithdrawalStatusDraft, models.WithdrawalStatusCompleted, false},
		{models.WithdrawalStatusPendingClearance, models.WithdrawalStatusCleared, true},
		{models.WithdrawalStatusCleared, models.WithdrawalStatusCompleted, true},
		{models.WithdrawalStatusCleared, models.WithdrawalStatusPendingClearance, true},
		{models.WithdrawalStatusCompleted, models.WithdrawalStatusDraft, false},
		{models.WithdrawalStatusCancelled, models.WithdrawalStatusDraft, false},
		{models.WithdrawalStatusDraft, models.WithdrawalStatusDraft, false},
	}
	for _, tt := range tests {
		err := WithdrawalTransitions.CheckTransition(tt.from, tt.to)
		if tt.ok {
			assert.NoError(t, err, "%s -> %s", tt.from, tt.to)
			continue
		}
		assert.True(t, errors.Is(err, appErrors.ErrInvalidTransition), "%s -> %s", tt.from, tt.to)
	}
}

func TestTerminalStatusesHaveNoTargets(t *testing.T) {
	assert.Empty(t, WithdrawalTransitions.AllowedTransitions(models.WithdrawalStatusCompleted))
	assert.Empty(t, APIKeyTransitions.AllowedTransitions(models.APIKeyStatusRevoked))
	assert.Empty(t, LockTransitions.AllowedTransitions(models.LockStatusExpired))
}

func TestAllowedTransitionsReturnsCopy(t *testing.T) {
	targets := MedicationTransitions.AllowedTransitions(models.MedicationStatusActive)
	targets[0] = "MUTATED"
	assert.NotEqual(t, models.MedicationStatus("MUTATED"), MedicationTransitions[models.MedicationStatusActive][0])
}
