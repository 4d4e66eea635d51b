package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveAvailable(t *testing.T) {
	s := TimeSlot{TotalCapacity: 10, BookedCount: 4}

	assert.Equal(t, int64(6), s.Available())
	assert.Equal(t, int64(6), s.EffectiveAvailable(0))
	assert.Equal(t, int64(1), s.EffectiveAvailable(5))
	// Overlapping holds can briefly push the number negative; the value
	// is reported as-is and treated as full by callers.
	assert.Equal(t, int64(-1), s.EffectiveAvailable(7))
}

func TestEventBookable(t *testing.T) {
	cases := []struct {
		name       string
		status     string
		visibility string
		want       bool
	}{
		{"active public", EventStatusActive, VisibilityPublic, true},
		{"active unlisted", EventStatusActive, VisibilityUnlisted, true},
		{"active protected", EventStatusActive, VisibilityProtected, true},
		{"active private", EventStatusActive, VisibilityPrivate, false},
		{"paused public", EventStatusPaused, VisibilityPublic, false},
		{"draft public", EventStatusDraft, VisibilityPublic, false},
		{"cancelled unlisted", EventStatusCancelled, VisibilityUnlisted, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := Event{Status: tc.status, Visibility: tc.visibility}
			assert.Equal(t, tc.want, e.Bookable())
		})
	}
}
