package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hortaviva/community-garden/internal/model"
)

func TestPutOpt(t *testing.T) {
	doc := bson.M{}
	putOpt(doc, "a", Opt[int]{})       // absent: no key
	putOpt(doc, "b", Set(7))           // set
	putOpt(doc, "c", Null[int]())      // cleared
	putOpt(doc, "d", Set(false))       // zero values are still writes

	assert.NotContains(t, doc, "a")
	assert.Equal(t, 7, doc["b"])
	assert.Contains(t, doc, "c")
	assert.Nil(t, doc["c"])
	assert.Equal(t, false, doc["d"])
}

func TestBedUpdateDocument(t *testing.T) {
	seed := primitive.NewObjectID()
	end := model.NewDate(2026, 3, 1)

	t.Run("occupy", func(t *testing.T) {
		doc := BedUpdate{
			Free:   Set(false),
			SeedID: Set(seed),
			EndAt:  Set(end),
		}.document()
		assert.Equal(t, false, doc["beds.$[bed].free"])
		assert.Equal(t, seed, doc["beds.$[bed].seed_id"])
		assert.Equal(t, end, doc["beds.$[bed].end_at"])
		assert.NotContains(t, doc, "beds.$[bed].active")
		assert.NotContains(t, doc, "beds.$[bed].bed_schedules_id")
	})

	t.Run("release clears references explicitly", func(t *testing.T) {
		doc := BedUpdate{
			Free:           Set(true),
			SeedID:         Null[primitive.ObjectID](),
			BedSchedulesID: Null[primitive.ObjectID](),
			EndAt:          Null[model.Date](),
		}.document()
		assert.Equal(t, true, doc["beds.$[bed].free"])
		assert.Contains(t, doc, "beds.$[bed].seed_id")
		assert.Nil(t, doc["beds.$[bed].seed_id"])
		assert.Nil(t, doc["beds.$[bed].bed_schedules_id"])
		assert.Nil(t, doc["beds.$[bed].end_at"])
	})

	t.Run("empty update produces empty document", func(t *testing.T) {
		assert.Empty(t, BedUpdate{}.document())
	})
}

func TestSortFromOrderBy(t *testing.T) {
	sort := sortFromOrderBy([]string{"name_up", "amount_down", "bogus"})
	assert.Equal(t, bson.D{{Key: "name", Value: 1}, {Key: "amount", Value: -1}}, sort)
	assert.Empty(t, sortFromOrderBy(nil))
}
