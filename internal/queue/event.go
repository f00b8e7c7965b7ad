// Package queue defines message payloads exchanged over the message
// broker and the background consumer that records them.
package queue

// ScheduleQueueName is the durable queue carrying bed schedule
// lifecycle events.
const ScheduleQueueName = "schedule.lifecycle"

// Lifecycle actions published for a bed schedule.
const (
	ScheduleStored  = "stored"
	ScheduleClosed  = "closed"
	ScheduleDeleted = "deleted"
)

// ScheduleEvent is published whenever a bed schedule is created,
// closed or deleted. It carries enough context for downstream
// consumers to log or trigger notifications without querying the
// primary database. Harvest amount/unit are present only on close and
// are informational.
type ScheduleEvent struct {
	Action          string `json:"action"`
	ScheduleID      string `json:"schedule_id"`
	GroundID        string `json:"ground_id"`
	BedLabel        string `json:"bed_label"`
	CurrentSchedule *int   `json:"current_schedule"`
	SeedID          string `json:"seed_id,omitempty"`
	EndAt           string `json:"end_at,omitempty"`
	HarvestAmount   int    `json:"harvest_amount,omitempty"`
	HarvestUnit     string `json:"harvest_unit,omitempty"`
	OccurredAt      string `json:"occurred_at"`
}
