package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-04-09")
	require.NoError(t, err)
	assert.Equal(t, 2026, d.Year())
	assert.Equal(t, time.April, d.Month())
	assert.Equal(t, 9, d.Day())
	assert.Equal(t, "2026-04-09", d.String())

	_, err = ParseDate("09/04/2026")
	assert.Error(t, err)
	_, err = ParseDate("2026-04-09T10:00:00Z")
	assert.Error(t, err, "time components are not part of the wire format")
}

func TestDateJSON(t *testing.T) {
	d := NewDate(2026, time.April, 9)
	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2026-04-09"`, string(b))

	var back Date
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, d.Equal(back.Time))

	assert.Error(t, json.Unmarshal([]byte(`42`), &back))
	assert.Error(t, json.Unmarshal([]byte(`"not-a-date"`), &back))
}

func TestDateInsideDocument(t *testing.T) {
	type doc struct {
		Start Date  `json:"start_at"`
		End   *Date `json:"end_at"`
	}
	var got doc
	require.NoError(t, json.Unmarshal([]byte(`{"start_at":"2026-01-01","end_at":"2026-03-01"}`), &got))
	assert.Equal(t, "2026-01-01", got.Start.String())
	require.NotNil(t, got.End)
	assert.Equal(t, "2026-03-01", got.End.String())
}
