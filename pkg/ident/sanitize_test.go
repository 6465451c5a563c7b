package ident_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nwalker85/agentfoundry/pkg/ident"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Simple Label", "Check Ticket Status", "check_ticket_status"},
		{"Already Clean", "triage", "triage"},
		{"Punctuation", "Review & Approve!", "review___approve"},
		{"Unicode", "café ☕ break", "caf____break"},
		{"Leading Digit", "1st Pass", "n_1st_pass"},
		{"Leading Underscores Trimmed", "__private__", "private"},
		{"Empty", "", "node"},
		{"Only Symbols", "!!!", "node"},
		{"Mixed Case", "HandleHTTPError", "handlehttperror"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ident.Sanitize(tt.input))
		})
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{"Check Ticket Status", "1st Pass", "", "!!!", "__private__", "ALL CAPS"}
	for _, in := range inputs {
		once := ident.Sanitize(in)
		assert.Equal(t, once, ident.Sanitize(once), "input %q", in)
	}
}

func TestUniquer_Take(t *testing.T) {
	u := ident.NewUniquer()

	assert.Equal(t, "review", u.Take("Review"))
	assert.Equal(t, "review_2", u.Take("review"))
	assert.Equal(t, "review_3", u.Take("Review!"))
	assert.Equal(t, "other", u.Take("other"))
}

func TestUniquer_Take_SuffixCollision(t *testing.T) {
	// "x 2" sanitizes straight to x_2, the same name the second
	// "x" collision was renamed to. Both must stay distinct.
	u := ident.NewUniquer()

	assert.Equal(t, "x", u.Take("x"))
	assert.Equal(t, "x_2", u.Take("x!"))
	assert.Equal(t, "x_2_2", u.Take("x 2"))
}

func TestUniquer_Take_SuffixClaimedFirst(t *testing.T) {
	u := ident.NewUniquer()

	assert.Equal(t, "x_2", u.Take("x 2"))
	assert.Equal(t, "x", u.Take("x"))
	assert.Equal(t, "x_3", u.Take("x"))
}
