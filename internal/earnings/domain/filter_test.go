package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus("")
	require.NoError(t, err)
	assert.Nil(t, status)

	status, err = ParseStatus("all")
	require.NoError(t, err)
	assert.Nil(t, status)

	status, err = ParseStatus("paid")
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, StatusPaid, *status)

	_, err = ParseStatus("settled")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestFilterRecords(t *testing.T) {
	paid := StatusPaid
	records := []Record{
		{ID: 1001, Status: StatusPaid, Description: "Booking: Excavator", CustomerName: strPtr("Rani")},
		{ID: 1002, Status: StatusPending, Description: "Booking: Crane"},
		{ID: 2003, Status: StatusPaid, Description: "Labour booking earning"},
	}

	t.Run("zero filter returns input", func(t *testing.T) {
		assert.Len(t, FilterRecords(records, RecordFilter{}), 3)
	})

	t.Run("status", func(t *testing.T) {
		out := FilterRecords(records, RecordFilter{Status: &paid})
		assert.Len(t, out, 2)
	})

	t.Run("search description", func(t *testing.T) {
		out := FilterRecords(records, RecordFilter{Search: "CRANE"})
		if assert.Len(t, out, 1) {
			assert.EqualValues(t, 1002, out[0].ID)
		}
	})

	t.Run("search id and customer", func(t *testing.T) {
		assert.Len(t, FilterRecords(records, RecordFilter{Search: "2003"}), 1)
		assert.Len(t, FilterRecords(records, RecordFilter{Search: "rani"}), 1)
	})

	t.Run("status and search combine", func(t *testing.T) {
		out := FilterRecords(records, RecordFilter{Status: &paid, Search: "booking"})
		assert.Len(t, out, 2)
		assert.Empty(t, FilterRecords(records, RecordFilter{Status: &paid, Search: "crane"}))
	})
}
