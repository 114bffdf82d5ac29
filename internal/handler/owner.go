package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinepass/movie-booking/internal/auth"
	"github.com/cinepass/movie-booking/internal/middleware"
	"github.com/cinepass/movie-booking/internal/queue"
	"github.com/cinepass/movie-booking/internal/repository"
)

// OwnerHandler serves the theater-owner console endpoints: the owner's
// theater, its show list, and show scheduling.
type OwnerHandler struct {
	Theaters TheaterStore
	Shows    ShowStore
	Movies   MovieStore
	Publish  EventPublisher // optional; nil disables event publishing
}

// NewOwnerHandler constructs an OwnerHandler and panics if a store is nil.
func NewOwnerHandler(theaters TheaterStore, shows ShowStore, movies MovieStore, publish EventPublisher) *OwnerHandler {
	if theaters == nil || shows == nil || movies == nil {
		panic("nil store passed to NewOwnerHandler")
	}
	return &OwnerHandler{Theaters: theaters, Shows: shows, Movies: movies, Publish: publish}
}

// principal fetches the verified identity placed in context by JWTAuth.
func principal(c echo.Context) (auth.Principal, bool) {
	return middleware.GetPrincipal(c)
}

// MyTheater handles GET /theater-owner/my-theater. It returns the single
// theater affiliated with the calling owner, or 404 when none is assigned.
func (h *OwnerHandler) MyTheater(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	t, err := h.Theaters.GetByOwner(c.Request().Context(), p.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrTheaterNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "no theater is assigned to this account"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to load theater"})
	}
	return c.JSON(http.StatusOK, t)
}

// CreateTheater handles POST /theater-owner/my-theater and registers the
// caller's theater. Each owner may have exactly one.
func (h *OwnerHandler) CreateTheater(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Name      string   `json:"name"`
		Location  string   `json:"location"`
		Amenities []string `json:"amenities"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	body.Location = strings.TrimSpace(body.Location)
	var msgs []string
	if body.Name == "" {
		msgs = append(msgs, "name is required")
	}
	if body.Location == "" {
		msgs = append(msgs, "location is required")
	}
	if len(msgs) > 0 {
		return validationError(c, msgs)
	}
	t := &repository.Theater{
		OwnerID:   p.UserID,
		Name:      body.Name,
		Location:  body.Location,
		Amenities: body.Amenities,
	}
	if err := h.Theaters.Create(c.Request().Context(), t); err != nil {
		if errors.Is(err, repository.ErrTheaterExists) {
			return c.JSON(http.StatusConflict, echo.Map{"message": "a theater is already registered for this account"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not create theater"})
	}
	return c.JSON(http.StatusCreated, t)
}

// MyShows handles GET /theater-owner/my-shows. Shows are scoped to the
// caller's theater and ordered by start time. Owners without a theater get
// an empty list rather than an error so the console can still render.
func (h *OwnerHandler) MyShows(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx := c.Request().Context()
	t, err := h.Theaters.GetByOwner(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrTheaterNotFound) {
			return c.JSON(http.StatusOK, echo.Map{"items": []repository.Show{}})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to load theater"})
	}
	shows, err := h.Shows.ListByTheater(ctx, t.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to load shows"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": shows})
}

// AddShow handles POST /theater-owner/add-show. The payload binds the show
// to the caller's own theater; a body naming another theater is rejected.
// Field errors are aggregated and reported together.
func (h *OwnerHandler) AddShow(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		MovieID    uint64  `json:"movieId"`
		TheaterID  uint64  `json:"theaterId"`
		StartTime  string  `json:"startTime"`
		BasePrice  float64 `json:"basePrice"`
		TotalSeats int     `json:"totalSeats"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}

	var msgs []string
	if body.MovieID == 0 {
		msgs = append(msgs, "movieId is required")
	}
	var start time.Time
	if strings.TrimSpace(body.StartTime) == "" {
		msgs = append(msgs, "startTime is required")
	} else {
		var err error
		start, err = time.Parse(time.RFC3339, strings.TrimSpace(body.StartTime))
		if err != nil {
			msgs = append(msgs, "startTime must be a valid RFC3339 timestamp")
		}
	}
	if body.BasePrice <= 0 {
		msgs = append(msgs, "basePrice must be positive")
	}
	if body.TotalSeats < 1 {
		msgs = append(msgs, "totalSeats must be at least 1")
	}
	if len(msgs) > 0 {
		return validationError(c, msgs)
	}

	ctx := c.Request().Context()
	theater, err := h.Theaters.GetByOwner(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrTheaterNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "no theater is assigned to this account"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to load theater"})
	}
	// A zero theaterId means "my theater"; anything else must match it.
	if body.TheaterID != 0 && body.TheaterID != theater.ID {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "theaterId does not match your theater"})
	}

	movie, err := h.Movies.GetByID(ctx, body.MovieID)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to load movie"})
	}

	end := start.Add(time.Duration(movie.DurationMin) * time.Minute)
	overlaps, err := h.Shows.FindOverlapping(ctx, theater.ID, start, end)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to check existing shows"})
	}
	if len(overlaps) > 0 {
		return c.JSON(http.StatusConflict, echo.Map{
			"message":  "show time overlaps with an existing show",
			"overlaps": overlaps,
		})
	}

	show := &repository.Show{
		TheaterID:  theater.ID,
		MovieID:    movie.ID,
		StartTime:  start.UTC(),
		BasePrice:  body.BasePrice,
		TotalSeats: uint32(body.TotalSeats),
	}
	if err := h.Shows.Create(ctx, show); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not create show"})
	}
	show.Movie = &repository.MovieSummary{Title: movie.Title, Genre: movie.Genre}
	show.Theater = &repository.TheaterSummary{Name: theater.Name}

	if h.Publish != nil {
		ev := queue.ShowScheduledEvent{
			ShowID:      show.ID,
			TheaterID:   theater.ID,
			TheaterName: theater.Name,
			MovieID:     movie.ID,
			MovieTitle:  movie.Title,
			StartTime:   show.StartTime.UTC().Format(time.RFC3339),
			BasePrice:   show.BasePrice,
			TotalSeats:  show.TotalSeats,
			ScheduledBy: p.UserID,
			ScheduledAt: time.Now().UTC().Format(time.RFC3339),
		}
		if err := h.Publish(context.WithoutCancel(ctx), ev); err != nil {
			log.Printf("add-show: publish show.scheduled failed: %v", err)
		}
	}

	return c.JSON(http.StatusCreated, show)
}

// DeleteShow handles DELETE /theater-owner/shows/:id.
func (h *OwnerHandler) DeleteShow(c echo.Context) error {
	p, ok := principal(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Shows.DeleteByIDAndOwner(c.Request().Context(), id, p.UserID); err != nil {
		if errors.Is(err, repository.ErrShowNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not delete show"})
	}
	return c.NoContent(http.StatusNoContent)
}

// validationError reports aggregated field errors. A single cause is sent as
// a plain string, multiple causes as an array; clients join arrays with ", ".
func validationError(c echo.Context, msgs []string) error {
	if len(msgs) == 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": msgs[0]})
	}
	return c.JSON(http.StatusBadRequest, echo.Map{"message": msgs})
}
