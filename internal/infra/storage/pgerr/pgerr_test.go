package pgerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	err := &pq.Error{Code: "23505", Constraint: "reservations_participant_event_key"}
	wrapped := fmt.Errorf("insert: %w", err)

	assert.True(t, IsUniqueViolation(wrapped))
	assert.True(t, IsUniqueViolation(wrapped, "reservations_participant_event_key"))
	assert.False(t, IsUniqueViolation(wrapped, "branches_coach_sport_key"))
	assert.False(t, IsForeignKeyViolation(wrapped))
	assert.False(t, IsUniqueViolation(errors.New("plain")))
}
