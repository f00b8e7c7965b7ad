package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func datePtr(d Date) *Date { return &d }

func TestBedStatus(t *testing.T) {
	past := Today()
	past.Time = past.AddDate(0, 0, -1)
	future := Today()
	future.Time = future.AddDate(0, 0, 30)

	t.Run("free bed", func(t *testing.T) {
		b := Bed{Label: "1", Free: true}
		assert.Equal(t, BedStatusFree, b.Status())
	})

	t.Run("free wins over stale end date", func(t *testing.T) {
		b := Bed{Label: "1", Free: true, EndAt: datePtr(past)}
		assert.Equal(t, BedStatusFree, b.Status())
	})

	t.Run("occupied with future end", func(t *testing.T) {
		b := Bed{Label: "1", Free: false, EndAt: datePtr(future)}
		assert.Equal(t, BedStatusOccupied, b.Status())
	})

	t.Run("occupied ending today", func(t *testing.T) {
		b := Bed{Label: "1", Free: false, EndAt: datePtr(Today())}
		assert.Equal(t, BedStatusOccupied, b.Status())
	})

	t.Run("complete when end date passed", func(t *testing.T) {
		b := Bed{Label: "1", Free: false, EndAt: datePtr(past)}
		assert.Equal(t, BedStatusComplete, b.Status())
	})

	t.Run("occupied without end date", func(t *testing.T) {
		b := Bed{Label: "1", Free: false}
		assert.Equal(t, BedStatusOccupied, b.Status())
	})
}

func TestBedJSONCarriesStatus(t *testing.T) {
	seed := primitive.NewObjectID()
	b := Bed{
		Label:  "3",
		Active: true,
		Free:   false,
		SeedID: &seed,
		EndAt:  datePtr(NewDate(2030, time.June, 1)),
	}
	raw, err := json.Marshal(b)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, "occupied", out["status"])
	assert.Equal(t, "3", out["label"])
	assert.Equal(t, "2030-06-01", out["end_at"])
}
