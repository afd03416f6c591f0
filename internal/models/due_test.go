package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassifyDue(t *testing.T) {
	now := time.Date(2026, 4, 10, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name   string
		target *time.Time
		want   DueStatus
	}{
		{"missing", nil, DueStatusNotScheduled},
		{"yesterday", TimePtr(Date(2026, 4, 9)), DueStatusOverdue},
		{"today", TimePtr(Date(2026, 4, 10)), DueStatusDueSoon},
		{"at threshold", TimePtr(Date(2026, 5, 10)), DueStatusDueSoon},
		{"past threshold", TimePtr(Date(2026, 5, 11)), DueStatusOnTrack},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyDue(tt.target, now, 30, DueStatusNotScheduled))
		})
	}
}

func TestClassifyDueMissingPolicy(t *testing.T) {
	now := Date(2026, 4, 10)
	assert.Equal(t, DueStatusOverdue, (&IEP{}).AnnualReviewStatus(now))
	assert.Equal(t, DueStatusOverdue, (&Plan504{}).ReviewStatus(now))
	assert.Equal(t, DueStatusNotScheduled, (&GiftedEducationPlan{}).ReviewStatus(now))
	assert.Equal(t, DueStatusNotScheduled, (&CrisisIntervention{Status: CrisisStatusOpen}).FollowUpStatus(now))
}

func TestDueStatusDisplay(t *testing.T) {
	assert.Equal(t, "Due Soon", DueStatusDueSoon.Label())
	assert.Equal(t, "red", DueStatusOverdue.Color())
	assert.True(t, DueStatusOverdue.NeedsAttention())
	assert.False(t, DueStatusOnTrack.NeedsAttention())

	item := NewDueItem("iep", 5, Int64Ptr(9), "Annual review", nil, DueStatusNotScheduled)
	assert.Equal(t, "Not Scheduled", item.Label)
	assert.Equal(t, "gray", item.Color)
}
