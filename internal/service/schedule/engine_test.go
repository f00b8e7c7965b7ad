package schedule

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/hortaviva/community-garden/internal/model"
	"github.com/hortaviva/community-garden/internal/queue"
	"github.com/hortaviva/community-garden/internal/repository"
)

// fakeRepo keeps schedules in a map and counts mutations so tests can
// assert on rollback behavior.
type fakeRepo struct {
	schedules map[string]*model.BedSchedules
	insertErr error
	deletes   int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{schedules: map[string]*model.BedSchedules{}}
}

func (f *fakeRepo) Find(_ context.Context, id string) (*model.BedSchedules, error) {
	s, ok := f.schedules[id]
	if !ok {
		return nil, repository.ErrBedScheduleNotFound
	}
	cp := *s
	cp.Schedules = append([]model.ScheduleInterval(nil), s.Schedules...)
	return &cp, nil
}

func (f *fakeRepo) List(_ context.Context, groundID, bedLabel string, _, _ int) (model.Page[model.BedSchedules], error) {
	var out []model.BedSchedules
	for _, s := range f.schedules {
		if s.GroundID.Hex() == groundID && s.BedLabel == bedLabel {
			out = append(out, *s)
		}
	}
	return model.Page[model.BedSchedules]{Entities: out, RowCount: int64(len(out))}, nil
}

func (f *fakeRepo) Insert(_ context.Context, groundID primitive.ObjectID, bedLabel string, intervals []model.ScheduleInterval, current int) (*model.BedSchedules, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	s := &model.BedSchedules{
		ID:              primitive.NewObjectID(),
		GroundID:        groundID,
		BedLabel:        bedLabel,
		Schedules:       intervals,
		CurrentSchedule: &current,
	}
	f.schedules[s.ID.Hex()] = s
	return s, nil
}

func (f *fakeRepo) Replace(_ context.Context, id string, intervals []model.ScheduleInterval, current int) (int64, error) {
	s, ok := f.schedules[id]
	if !ok {
		return 0, nil
	}
	s.Schedules = intervals
	s.CurrentSchedule = &current
	return 1, nil
}

func (f *fakeRepo) Advance(_ context.Context, id string, closing int, closeDate model.Date, next *int) (int64, error) {
	s, ok := f.schedules[id]
	if !ok {
		return 0, nil
	}
	s.Schedules[closing].EndAt = closeDate
	s.CurrentSchedule = next
	return 1, nil
}

func (f *fakeRepo) StampEnd(_ context.Context, id string, index int, endAt model.Date) (int64, error) {
	s, ok := f.schedules[id]
	if !ok {
		return 0, nil
	}
	s.Schedules[index].EndAt = endAt
	return 1, nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) (int64, error) {
	if _, ok := f.schedules[id]; !ok {
		return 0, nil
	}
	delete(f.schedules, id)
	f.deletes++
	return 1, nil
}

// fakeGrounds serves one ground and records every bed update.
type fakeGrounds struct {
	ground    *model.Ground
	updates   []repository.BedUpdate
	updateN   int64
	updateErr error
}

func (f *fakeGrounds) Show(_ context.Context, id string) (*model.Ground, error) {
	if f.ground == nil || f.ground.ID.Hex() != id {
		return nil, repository.ErrGroundNotFound
	}
	return f.ground, nil
}

func (f *fakeGrounds) FindBed(g *model.Ground, label string) (*model.Bed, error) {
	for i := range g.Beds {
		if g.Beds[i].Label == label {
			return &g.Beds[i], nil
		}
	}
	return nil, repository.ErrBedNotFound
}

func (f *fakeGrounds) UpdateBed(_ context.Context, _, _ string, upd repository.BedUpdate) (int64, error) {
	if f.updateErr != nil {
		return 0, f.updateErr
	}
	f.updates = append(f.updates, upd)
	return f.updateN, nil
}

// fakeSeeds knows a fixed set of seed ids.
type fakeSeeds struct{ known map[string]bool }

func (f *fakeSeeds) Exists(_ context.Context, id string) error {
	if !f.known[id] {
		return repository.ErrSeedNotFound
	}
	return nil
}

func date(t *testing.T, s string) model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	require.NoError(t, err)
	return d
}

type fixture struct {
	engine  *Engine
	repo    *fakeRepo
	grounds *fakeGrounds
	seeds   *fakeSeeds
	ground  *model.Ground
	seedA   primitive.ObjectID
	seedB   primitive.ObjectID
	events  []queue.ScheduleEvent
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:  newFakeRepo(),
		seedA: primitive.NewObjectID(),
		seedB: primitive.NewObjectID(),
	}
	f.ground = &model.Ground{
		ID:      primitive.NewObjectID(),
		Address: "Rua das Hortas 12",
		Active:  true,
		Beds: []model.Bed{
			{Label: "1", Active: true, Free: true},
			{Label: "2", Active: true, Free: true},
		},
	}
	f.grounds = &fakeGrounds{ground: f.ground, updateN: 1}
	f.seeds = &fakeSeeds{known: map[string]bool{f.seedA.Hex(): true, f.seedB.Hex(): true}}
	f.engine = NewEngine(f.repo, f.grounds, f.seeds, zap.NewNop(), func(_ context.Context, ev queue.ScheduleEvent) error {
		f.events = append(f.events, ev)
		return nil
	})
	return f
}

func (f *fixture) intervals(t *testing.T) []model.ScheduleInterval {
	return []model.ScheduleInterval{
		{SeedID: f.seedA, StartAt: date(t, "2026-01-01"), EndAt: date(t, "2026-03-01")},
		{SeedID: f.seedB, StartAt: date(t, "2026-03-01"), EndAt: date(t, "2026-06-01")},
	}
}

func TestValidateIntervals(t *testing.T) {
	f := newFixture(t)

	t.Run("empty sequence", func(t *testing.T) {
		err := validateIntervals(nil)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "schedules cannot be empty", verr.Reason)
	})

	t.Run("start not before end", func(t *testing.T) {
		err := validateIntervals([]model.ScheduleInterval{
			{SeedID: f.seedA, StartAt: date(t, "2026-03-01"), EndAt: date(t, "2026-03-01")},
		})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "start date must be before end date", verr.Reason)
	})

	t.Run("overlapping intervals", func(t *testing.T) {
		err := validateIntervals([]model.ScheduleInterval{
			{SeedID: f.seedA, StartAt: date(t, "2026-01-01"), EndAt: date(t, "2026-03-02")},
			{SeedID: f.seedB, StartAt: date(t, "2026-03-01"), EndAt: date(t, "2026-06-01")},
		})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "schedules must be sequential", verr.Reason)
	})

	t.Run("touching boundary is valid", func(t *testing.T) {
		require.NoError(t, validateIntervals(f.intervals(t)))
	})
}

func TestStoreHappyPath(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.engine.Store(ctx, f.ground.ID.Hex(), "1", f.intervals(t))
	require.NoError(t, err)
	require.NotNil(t, created.CurrentSchedule)
	assert.Equal(t, 0, *created.CurrentSchedule)
	assert.Equal(t, "1", created.BedLabel)

	require.Len(t, f.grounds.updates, 1)
	upd := f.grounds.updates[0]
	v, null, present := upd.Free.Get()
	require.True(t, present)
	assert.False(t, null)
	assert.False(t, v)
	id, null, present := upd.BedSchedulesID.Get()
	require.True(t, present)
	assert.False(t, null)
	assert.Equal(t, created.ID, id)
	seed, _, _ := upd.SeedID.Get()
	assert.Equal(t, f.seedA, seed)
	end, _, _ := upd.EndAt.Get()
	assert.Equal(t, "2026-03-01", end.String())

	require.Len(t, f.events, 1)
	assert.Equal(t, queue.ScheduleStored, f.events[0].Action)
}

func TestStoreUnknownSeed(t *testing.T) {
	f := newFixture(t)
	intervals := f.intervals(t)
	intervals[1].SeedID = primitive.NewObjectID()

	_, err := f.engine.Store(context.Background(), f.ground.ID.Hex(), "1", intervals)
	require.ErrorIs(t, err, repository.ErrSeedNotFound)
	assert.Empty(t, f.repo.schedules, "no schedule may survive a failed create")
}

func TestStoreUnknownBed(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.Store(context.Background(), f.ground.ID.Hex(), "9", f.intervals(t))
	require.ErrorIs(t, err, repository.ErrBedNotFound)
}

func TestStoreRollsBackWhenBedWriteHasNoEffect(t *testing.T) {
	f := newFixture(t)
	f.grounds.updateN = 0

	_, err := f.engine.Store(context.Background(), f.ground.ID.Hex(), "1", f.intervals(t))
	require.ErrorIs(t, err, ErrSyncFailed)
	assert.Empty(t, f.repo.schedules, "orphaned schedule after rollback")
	assert.Equal(t, 1, f.repo.deletes)
	assert.Empty(t, f.events)
}

func TestStoreRollsBackOnBedWriteError(t *testing.T) {
	f := newFixture(t)
	f.grounds.updateErr = errors.New("write concern timeout")

	_, err := f.engine.Store(context.Background(), f.ground.ID.Hex(), "1", f.intervals(t))
	require.EqualError(t, err, "write concern timeout")
	assert.Empty(t, f.repo.schedules)
}

func TestUpdateReplacesSequenceWithoutBedSync(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.engine.Store(ctx, f.ground.ID.Hex(), "1", f.intervals(t))
	require.NoError(t, err)
	f.grounds.updates = nil

	next := []model.ScheduleInterval{
		{SeedID: f.seedB, StartAt: date(t, "2026-02-01"), EndAt: date(t, "2026-05-01")},
	}
	got, err := f.engine.Update(ctx, created.ID.Hex(), next, 0)
	require.NoError(t, err)
	assert.Len(t, got.Schedules, 1)
	assert.Equal(t, f.seedB, got.Schedules[0].SeedID)
	assert.Empty(t, f.grounds.updates, "update must not touch the bed snapshot")
}

func TestUpdateCurrentOutOfRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.engine.Store(ctx, f.ground.ID.Hex(), "1", f.intervals(t))
	require.NoError(t, err)

	_, err = f.engine.Update(ctx, created.ID.Hex(), f.intervals(t), 2)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestUpdateUnknownSchedule(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.Update(context.Background(), primitive.NewObjectID().Hex(), f.intervals(t), 0)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCloseAdvancesToNextInterval(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.engine.Store(ctx, f.ground.ID.Hex(), "1", f.intervals(t))
	require.NoError(t, err)
	f.grounds.updates = nil
	f.events = nil

	got, err := f.engine.Close(ctx, created.ID.Hex(), date(t, "2026-02-15"), 4, "kg")
	require.NoError(t, err)
	require.NotNil(t, got.CurrentSchedule)
	assert.Equal(t, 1, *got.CurrentSchedule)
	assert.Equal(t, "2026-02-15", got.Schedules[0].EndAt.String())

	require.Len(t, f.grounds.updates, 1)
	upd := f.grounds.updates[0]
	free, _, _ := upd.Free.Get()
	assert.False(t, free, "bed stays occupied while intervals remain")
	seed, _, _ := upd.SeedID.Get()
	assert.Equal(t, f.seedB, seed)
	end, _, _ := upd.EndAt.Get()
	assert.Equal(t, "2026-06-01", end.String())

	require.Len(t, f.events, 1)
	assert.Equal(t, queue.ScheduleClosed, f.events[0].Action)
	assert.Equal(t, 4, f.events[0].HarvestAmount)
	assert.Equal(t, "kg", f.events[0].HarvestUnit)
}

func TestCloseLastIntervalFreesBed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.engine.Store(ctx, f.ground.ID.Hex(), "1", f.intervals(t))
	require.NoError(t, err)
	_, err = f.engine.Close(ctx, created.ID.Hex(), date(t, "2026-02-15"), 0, "")
	require.NoError(t, err)
	f.grounds.updates = nil

	got, err := f.engine.Close(ctx, created.ID.Hex(), date(t, "2026-05-20"), 12, "kg")
	require.NoError(t, err)
	assert.Nil(t, got.CurrentSchedule)

	require.Len(t, f.grounds.updates, 1)
	upd := f.grounds.updates[0]
	free, _, _ := upd.Free.Get()
	assert.True(t, free)
	_, null, present := upd.BedSchedulesID.Get()
	require.True(t, present)
	assert.True(t, null)
	_, null, present = upd.SeedID.Get()
	require.True(t, present)
	assert.True(t, null)
	_, null, present = upd.EndAt.Get()
	require.True(t, present)
	assert.True(t, null)
}

func TestCloseWithoutActiveInterval(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.engine.Store(ctx, f.ground.ID.Hex(), "1", f.intervals(t))
	require.NoError(t, err)
	_, err = f.engine.Close(ctx, created.ID.Hex(), date(t, "2026-02-15"), 0, "")
	require.NoError(t, err)
	_, err = f.engine.Close(ctx, created.ID.Hex(), date(t, "2026-05-20"), 0, "")
	require.NoError(t, err)

	_, err = f.engine.Close(ctx, created.ID.Hex(), date(t, "2026-07-01"), 0, "")
	require.ErrorIs(t, err, ErrNoActiveInterval)
}

func TestCloseFailsLoudWhenBedWriteHasNoEffect(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.engine.Store(ctx, f.ground.ID.Hex(), "1", f.intervals(t))
	require.NoError(t, err)
	f.grounds.updateN = 0

	_, err = f.engine.Close(ctx, created.ID.Hex(), date(t, "2026-02-15"), 0, "")
	require.ErrorIs(t, err, ErrSyncFailed)
}

func TestAdjustRewritesActiveEndDateOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.engine.Store(ctx, f.ground.ID.Hex(), "1", f.intervals(t))
	require.NoError(t, err)
	f.grounds.updates = nil

	got, err := f.engine.Adjust(ctx, created.ID.Hex(), date(t, "2026-02-20"))
	require.NoError(t, err)
	assert.Equal(t, "2026-02-20", got.Schedules[0].EndAt.String())
	require.NotNil(t, got.CurrentSchedule)
	assert.Equal(t, 0, *got.CurrentSchedule)
	assert.Empty(t, f.grounds.updates, "adjust must not touch the bed snapshot")
}

func TestAdjustWithoutActiveInterval(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.engine.Store(ctx, f.ground.ID.Hex(), "1", f.intervals(t))
	require.NoError(t, err)
	f.repo.schedules[created.ID.Hex()].CurrentSchedule = nil

	_, err = f.engine.Adjust(ctx, created.ID.Hex(), date(t, "2026-02-20"))
	require.ErrorIs(t, err, ErrNoActiveInterval)
}

func TestDeleteFreesBedAndKeepsEndDate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.engine.Store(ctx, f.ground.ID.Hex(), "1", f.intervals(t))
	require.NoError(t, err)
	f.grounds.updates = nil
	f.events = nil

	require.NoError(t, f.engine.Delete(ctx, created.ID.Hex()))
	assert.Empty(t, f.repo.schedules)

	require.Len(t, f.grounds.updates, 1)
	upd := f.grounds.updates[0]
	free, _, _ := upd.Free.Get()
	assert.True(t, free)
	_, null, present := upd.BedSchedulesID.Get()
	require.True(t, present)
	assert.True(t, null)
	_, null, present = upd.SeedID.Get()
	require.True(t, present)
	assert.True(t, null)
	_, _, present = upd.EndAt.Get()
	assert.False(t, present, "delete leaves the bed end date alone")

	require.Len(t, f.events, 1)
	assert.Equal(t, queue.ScheduleDeleted, f.events[0].Action)
}

func TestDeleteAbortsWhenBedWriteHasNoEffect(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.engine.Store(ctx, f.ground.ID.Hex(), "1", f.intervals(t))
	require.NoError(t, err)
	f.grounds.updateN = 0

	err = f.engine.Delete(ctx, created.ID.Hex())
	require.ErrorIs(t, err, ErrSyncFailed)
	assert.Len(t, f.repo.schedules, 1, "schedule must survive when the bed write fails")
}
