// Package queue defines message payloads exchanged over the message broker.
package queue

// ShowScheduledEvent is published when a theater owner successfully schedules
// a new show. It carries enough context for downstream consumers (audit log,
// notifications, analytics) to act without querying the primary database.
type ShowScheduledEvent struct {
	ShowID      uint64  `json:"show_id"`
	TheaterID   uint64  `json:"theater_id"`
	TheaterName string  `json:"theater_name"`
	MovieID     uint64  `json:"movie_id"`
	MovieTitle  string  `json:"movie_title"`
	StartTime   string  `json:"start_time"`
	BasePrice   float64 `json:"base_price"`
	TotalSeats  uint32  `json:"total_seats"`
	ScheduledBy uint64  `json:"scheduled_by"`
	ScheduledAt string  `json:"scheduled_at"`
}
