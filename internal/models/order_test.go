package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusVocabularyIsClosed(t *testing.T) {
	for _, s := range []string{
		StatusPending, StatusPreparing, StatusPacked, StatusDelivered,
		StatusDeliveryFailed, StatusReturned, StatusCancelled,
	} {
		assert.True(t, IsValidStatus(s), s)
	}

	assert.False(t, IsValidStatus("Shipped"))
	assert.False(t, IsValidStatus("pending"))
	assert.False(t, IsValidStatus(""))
}

func TestFailureStatuses(t *testing.T) {
	assert.True(t, IsFailureStatus(StatusReturned))
	assert.True(t, IsFailureStatus(StatusDeliveryFailed))
	assert.True(t, IsFailureStatus(StatusCancelled))

	assert.False(t, IsFailureStatus(StatusPending))
	assert.False(t, IsFailureStatus(StatusPreparing))
	assert.False(t, IsFailureStatus(StatusPacked))
	assert.False(t, IsFailureStatus(StatusDelivered))
}
