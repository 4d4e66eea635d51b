package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttendeeValidate(t *testing.T) {
	t.Run("trims and accepts", func(t *testing.T) {
		a := Attendee{
			FirstName: "  Ada ",
			LastName:  " Lovelace ",
			Email:     " ada@example.org ",
			Phone:     " +44 20 7946 0000 ",
		}
		require.NoError(t, a.Validate())
		assert.Equal(t, "Ada", a.FirstName)
		assert.Equal(t, "Lovelace", a.LastName)
		assert.Equal(t, "ada@example.org", a.Email)
		assert.Equal(t, "+44 20 7946 0000", a.Phone)
	})

	cases := []struct {
		name string
		att  Attendee
	}{
		{"missing first name", Attendee{LastName: "L", Email: "a@b.co"}},
		{"whitespace first name", Attendee{FirstName: "   ", LastName: "L", Email: "a@b.co"}},
		{"missing last name", Attendee{FirstName: "A", Email: "a@b.co"}},
		{"missing email", Attendee{FirstName: "A", LastName: "L"}},
		{"email without at", Attendee{FirstName: "A", LastName: "L", Email: "abc.example.org"}},
		{"email without domain dot", Attendee{FirstName: "A", LastName: "L", Email: "a@example"}},
		{"email with spaces", Attendee{FirstName: "A", LastName: "L", Email: "a b@example.org"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.att.Validate())
		})
	}
}

func TestClampDuration(t *testing.T) {
	ptr := func(n int) *int { return &n }

	assert.Equal(t, 10, clampDuration(nil, 10))
	assert.Equal(t, 5, clampDuration(ptr(5), 10))
	assert.Equal(t, 1, clampDuration(ptr(0), 10))
	assert.Equal(t, 1, clampDuration(ptr(-3), 10))
	assert.Equal(t, 60, clampDuration(ptr(90), 10))
	assert.Equal(t, 60, clampDuration(ptr(60), 10))
	assert.Equal(t, 1, clampDuration(ptr(1), 10))
}
