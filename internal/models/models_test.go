package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringListScan(t *testing.T) {
	var l StringList
	require.NoError(t, l.Scan([]byte(`["hw-1","hw-2"]`)))
	assert.Equal(t, StringList{"hw-1", "hw-2"}, l)
	assert.True(t, l.Contains("hw-2"))
	assert.False(t, l.Contains("hw-3"))

	require.NoError(t, l.Scan(nil))
	assert.Equal(t, StringList{}, l)

	require.NoError(t, l.Scan("null"))
	assert.Equal(t, StringList{}, l)

	assert.Error(t, l.Scan(42))
}

func TestStringListValueNil(t *testing.T) {
	var l StringList
	v, err := l.Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), v)
}

func TestPriorityValid(t *testing.T) {
	assert.True(t, PriorityHigh.Valid())
	assert.False(t, Priority("urgent").Valid())
}

func TestBatchResultRecord(t *testing.T) {
	var r NotificationBatchResult
	r.Record(DeliveryOutcome{HomeworkID: "hw", Recipient: "a@test", Sent: true})
	r.Record(DeliveryOutcome{HomeworkID: "hw", Recipient: "b@test", Err: errors.New("550 mailbox unavailable")})

	assert.Equal(t, 2, r.RecipientCount)
	assert.Equal(t, 1, r.Succeeded)
	assert.Equal(t, 1, r.Failed)
	require.Len(t, r.Failures, 1)
	assert.Equal(t, "b@test", r.Failures[0].Recipient)
	assert.Equal(t, "550 mailbox unavailable", r.Failures[0].Error)
}
