// Package schedule implements the bed schedule engine: the state
// machine that drives a bed's planting lifecycle through an ordered
// sequence of intervals and keeps the denormalized bed snapshot on
// the parent ground consistent with it.
//
// Every transition is two writes: the schedule document first, then
// the bed sub-document through the ground store. The writes are not
// atomic; the create path compensates by deleting the fresh schedule
// when the bed write had no effect, every other path fails loudly
// with ErrSyncFailed instead of repairing silently.
package schedule

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/hortaviva/community-garden/internal/model"
	"github.com/hortaviva/community-garden/internal/queue"
	"github.com/hortaviva/community-garden/internal/repository"
)

// Repo is the schedule persistence consumed by the engine. The
// production implementation is repository.BedScheduleRepo.
type Repo interface {
	Find(ctx context.Context, id string) (*model.BedSchedules, error)
	List(ctx context.Context, groundID, bedLabel string, page, pageSize int) (model.Page[model.BedSchedules], error)
	Insert(ctx context.Context, groundID primitive.ObjectID, bedLabel string, intervals []model.ScheduleInterval, current int) (*model.BedSchedules, error)
	Replace(ctx context.Context, id string, intervals []model.ScheduleInterval, current int) (int64, error)
	Advance(ctx context.Context, id string, closing int, closeDate model.Date, next *int) (int64, error)
	StampEnd(ctx context.Context, id string, index int, endAt model.Date) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
}

// GroundStore is the slice of the ground repository the engine needs:
// ground lookup, bed lookup by label and the single-bed partial
// update whose modified count the engine checks.
type GroundStore interface {
	Show(ctx context.Context, id string) (*model.Ground, error)
	FindBed(g *model.Ground, label string) (*model.Bed, error)
	UpdateBed(ctx context.Context, groundID, label string, upd repository.BedUpdate) (int64, error)
}

// SeedCatalog validates seed references. Exists returns the seed
// repository's not-found error when the id does not resolve.
type SeedCatalog interface {
	Exists(ctx context.Context, id string) error
}

// PublishFunc delivers a lifecycle event to the message broker.
// Publishing is best effort; the engine logs failures and moves on.
type PublishFunc func(ctx context.Context, ev queue.ScheduleEvent) error

// Engine owns bed schedule documents and the bed snapshot sync.
type Engine struct {
	repo    Repo
	grounds GroundStore
	seeds   SeedCatalog
	logger  *zap.Logger
	publish PublishFunc
}

// NewEngine wires the engine. publish may be nil to disable event
// delivery (tests, or brokerless deployments).
func NewEngine(repo Repo, grounds GroundStore, seeds SeedCatalog, logger *zap.Logger, publish PublishFunc) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{repo: repo, grounds: grounds, seeds: seeds, logger: logger, publish: publish}
}

// validateIntervals enforces the sequence invariants: at least one
// interval, every start strictly before its end, and every interval
// starting no earlier than the previous one ends.
func validateIntervals(intervals []model.ScheduleInterval) error {
	if len(intervals) == 0 {
		return &ValidationError{Reason: "schedules cannot be empty"}
	}
	for i, it := range intervals {
		if !it.StartAt.Before(it.EndAt.Time) {
			return &ValidationError{Reason: "start date must be before end date"}
		}
		if i > 0 && intervals[i-1].EndAt.After(it.StartAt.Time) {
			return &ValidationError{Reason: "schedules must be sequential"}
		}
	}
	return nil
}

// Show fetches a schedule by id.
func (e *Engine) Show(ctx context.Context, id string) (*model.BedSchedules, error) {
	return e.repo.Find(ctx, id)
}

// Index lists the schedules of one (ground, bed label) pair in
// insertion order.
func (e *Engine) Index(ctx context.Context, page, pageSize int, groundID, bedLabel string) (model.Page[model.BedSchedules], error) {
	return e.repo.List(ctx, groundID, bedLabel, page, pageSize)
}

// Store validates and persists a new schedule with interval 0 active,
// then marks the bed occupied with interval 0's seed and end date. A
// bed write with no effect rolls the fresh schedule back so no
// orphaned document survives.
func (e *Engine) Store(ctx context.Context, groundID, bedLabel string, intervals []model.ScheduleInterval) (*model.BedSchedules, error) {
	if err := validateIntervals(intervals); err != nil {
		return nil, err
	}
	ground, err := e.grounds.Show(ctx, groundID)
	if err != nil {
		return nil, err
	}
	bed, err := e.grounds.FindBed(ground, bedLabel)
	if err != nil {
		return nil, err
	}
	for _, it := range intervals {
		if err := e.seeds.Exists(ctx, it.SeedID.Hex()); err != nil {
			return nil, err
		}
	}

	created, err := e.repo.Insert(ctx, ground.ID, bed.Label, intervals, 0)
	if err != nil {
		return nil, err
	}

	upd := repository.BedUpdate{
		Free:           repository.Set(false),
		BedSchedulesID: repository.Set(created.ID),
		SeedID:         repository.Set(created.Schedules[0].SeedID),
		EndAt:          repository.Set(created.Schedules[0].EndAt),
	}
	n, err := e.grounds.UpdateBed(ctx, groundID, bed.Label, upd)
	if err != nil || n == 0 {
		// Roll back so no schedule exists without its bed marked.
		if _, delErr := e.repo.Delete(ctx, created.ID.Hex()); delErr != nil {
			e.logger.Error("orphaned bed schedule left behind",
				zap.String("schedule_id", created.ID.Hex()), zap.Error(delErr))
		}
		if err != nil {
			return nil, err
		}
		return nil, ErrSyncFailed
	}

	e.emit(ctx, queue.ScheduleEvent{
		Action:          queue.ScheduleStored,
		ScheduleID:      created.ID.Hex(),
		GroundID:        groundID,
		BedLabel:        bed.Label,
		CurrentSchedule: created.CurrentSchedule,
		SeedID:          created.Schedules[0].SeedID.Hex(),
		EndAt:           created.Schedules[0].EndAt.String(),
	})
	return created, nil
}

// Update replaces the full interval sequence and the current index in
// one call. The bed snapshot is intentionally not re-synchronized
// here; it catches up on the next Close.
func (e *Engine) Update(ctx context.Context, id string, intervals []model.ScheduleInterval, current int) (*model.BedSchedules, error) {
	if err := validateIntervals(intervals); err != nil {
		return nil, err
	}
	if current < 0 || current >= len(intervals) {
		return nil, &ValidationError{Reason: "current schedule is invalid"}
	}
	for _, it := range intervals {
		if err := e.seeds.Exists(ctx, it.SeedID.Hex()); err != nil {
			return nil, err
		}
	}
	n, err := e.repo.Replace(ctx, id, intervals, current)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, repository.ErrBedScheduleNotFound
	}
	return e.repo.Find(ctx, id)
}

// Close stamps the active interval's end date with closeDate and
// advances to the next interval, or exhausts the sequence and frees
// the bed when none remains. amount and unit describe the harvest and
// are recorded on the event only; they play no part in state logic.
func (e *Engine) Close(ctx context.Context, id string, closeDate model.Date, amount int, unit string) (*model.BedSchedules, error) {
	s, err := e.repo.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.CurrentSchedule == nil {
		return nil, ErrNoActiveInterval
	}
	cur := *s.CurrentSchedule

	var next *int
	if cur < len(s.Schedules)-1 {
		n := cur + 1
		next = &n
	}

	n, err := e.repo.Advance(ctx, id, cur, closeDate, next)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrSyncFailed
	}

	var upd repository.BedUpdate
	if next == nil {
		upd = repository.BedUpdate{
			Free:           repository.Set(true),
			BedSchedulesID: repository.Null[primitive.ObjectID](),
			SeedID:         repository.Null[primitive.ObjectID](),
			EndAt:          repository.Null[model.Date](),
		}
	} else {
		upd = repository.BedUpdate{
			Free:           repository.Set(false),
			BedSchedulesID: repository.Set(s.ID),
			SeedID:         repository.Set(s.Schedules[*next].SeedID),
			EndAt:          repository.Set(s.Schedules[*next].EndAt),
		}
	}
	bn, err := e.grounds.UpdateBed(ctx, s.GroundID.Hex(), s.BedLabel, upd)
	if err != nil {
		return nil, err
	}
	if bn == 0 {
		e.logger.Error("bed snapshot out of sync after close",
			zap.String("schedule_id", id),
			zap.String("ground_id", s.GroundID.Hex()),
			zap.String("bed_label", s.BedLabel))
		return nil, ErrSyncFailed
	}

	ev := queue.ScheduleEvent{
		Action:          queue.ScheduleClosed,
		ScheduleID:      id,
		GroundID:        s.GroundID.Hex(),
		BedLabel:        s.BedLabel,
		CurrentSchedule: next,
		HarvestAmount:   amount,
		HarvestUnit:     unit,
	}
	if next != nil {
		ev.SeedID = s.Schedules[*next].SeedID.Hex()
		ev.EndAt = s.Schedules[*next].EndAt.String()
	}
	e.emit(ctx, ev)

	return e.repo.Find(ctx, id)
}

// Adjust rewrites only the active interval's end date. The bed
// snapshot keeps the old end date until the next Close.
func (e *Engine) Adjust(ctx context.Context, id string, endAt model.Date) (*model.BedSchedules, error) {
	s, err := e.repo.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.CurrentSchedule == nil {
		return nil, ErrNoActiveInterval
	}
	n, err := e.repo.StampEnd(ctx, id, *s.CurrentSchedule, endAt)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrSyncFailed
	}
	return e.repo.Find(ctx, id)
}

// Delete frees the associated bed, then removes the schedule
// document.
func (e *Engine) Delete(ctx context.Context, id string) error {
	s, err := e.repo.Find(ctx, id)
	if err != nil {
		return err
	}
	upd := repository.BedUpdate{
		Free:           repository.Set(true),
		BedSchedulesID: repository.Null[primitive.ObjectID](),
		SeedID:         repository.Null[primitive.ObjectID](),
	}
	n, err := e.grounds.UpdateBed(ctx, s.GroundID.Hex(), s.BedLabel, upd)
	if err != nil {
		return err
	}
	if n == 0 {
		e.logger.Error("bed snapshot out of sync on delete",
			zap.String("schedule_id", id),
			zap.String("ground_id", s.GroundID.Hex()),
			zap.String("bed_label", s.BedLabel))
		return ErrSyncFailed
	}
	deleted, err := e.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return repository.ErrBedScheduleNotFound
	}
	e.emit(ctx, queue.ScheduleEvent{
		Action:     queue.ScheduleDeleted,
		ScheduleID: id,
		GroundID:   s.GroundID.Hex(),
		BedLabel:   s.BedLabel,
	})
	return nil
}

// emit publishes a lifecycle event, logging and swallowing failures.
func (e *Engine) emit(ctx context.Context, ev queue.ScheduleEvent) {
	if e.publish == nil {
		return
	}
	ev.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	if err := e.publish(ctx, ev); err != nil {
		e.logger.Warn("schedule event publish failed",
			zap.String("action", ev.Action),
			zap.String("schedule_id", ev.ScheduleID),
			zap.Error(err))
	}
}
