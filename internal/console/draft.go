package console

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// Draft is the transient, unsaved form state for a show to be created. All
// fields hold raw user input; coercion happens only at submission time in
// ToPayload. A draft never carries a theater id — the payload is always
// bound to the console's loaded theater.
type Draft struct {
	MovieID  string // selected movie id
	ShowTime string // datetime-local input, e.g. "2024-06-01T19:00"
	Price    string // base ticket price
	Seats    string // total seat count
}

// showTimeLayouts are the accepted input shapes, tried in order. The first
// matches an HTML datetime-local value; the wall time is taken as UTC.
var showTimeLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// IsSubmittable reports whether the draft can be sent: every field must be
// non-empty and a theater must be loaded. It performs no coercion, so a
// draft can be submittable and still fail ToPayload on malformed numbers.
func (d Draft) IsSubmittable(theaterLoaded bool) bool {
	return theaterLoaded &&
		strings.TrimSpace(d.MovieID) != "" &&
		strings.TrimSpace(d.ShowTime) != "" &&
		strings.TrimSpace(d.Price) != "" &&
		strings.TrimSpace(d.Seats) != ""
}

// ToPayload coerces the draft into a creation request bound to theaterID.
// The show time is normalized to an ISO-8601 UTC timestamp with millisecond
// precision ("2006-01-02T15:04:05.000Z").
func (d Draft) ToPayload(theaterID uint64) (CreateShowRequest, error) {
	movieID, err := strconv.ParseUint(strings.TrimSpace(d.MovieID), 10, 64)
	if err != nil || movieID == 0 {
		return CreateShowRequest{}, errors.New("select a movie")
	}

	var start time.Time
	raw := strings.TrimSpace(d.ShowTime)
	parsed := false
	for _, layout := range showTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			start, parsed = t, true
			break
		}
	}
	if !parsed {
		return CreateShowRequest{}, errors.New("show time must look like 2024-06-01T19:00")
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(d.Price), 64)
	if err != nil || price <= 0 {
		return CreateShowRequest{}, errors.New("price must be a positive number")
	}

	seats, err := strconv.Atoi(strings.TrimSpace(d.Seats))
	if err != nil || seats < 1 {
		return CreateShowRequest{}, errors.New("seats must be a positive integer")
	}

	return CreateShowRequest{
		MovieID:    movieID,
		TheaterID:  theaterID,
		StartTime:  start.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		BasePrice:  price,
		TotalSeats: seats,
	}, nil
}
