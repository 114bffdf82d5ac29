package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cinepass/movie-booking/internal/repository"
)

// MovieHandler serves the movie catalog: a public listing used by the
// console's show-creation selector, plus admin-only CRUD.
type MovieHandler struct {
	Movies MovieStore
}

func NewMovieHandler(movies MovieStore) *MovieHandler {
	if movies == nil {
		panic("nil store passed to NewMovieHandler")
	}
	return &MovieHandler{Movies: movies}
}

// List handles GET /movies.
func (h *MovieHandler) List(c echo.Context) error {
	movies, err := h.Movies.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to load movies"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": movies})
}

// Create handles POST /movies (admin only).
func (h *MovieHandler) Create(c echo.Context) error {
	var body struct {
		Title       string `json:"title"`
		Genre       string `json:"genre"`
		DurationMin uint32 `json:"duration"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	body.Title = strings.TrimSpace(body.Title)
	body.Genre = strings.TrimSpace(body.Genre)
	var msgs []string
	if body.Title == "" {
		msgs = append(msgs, "title is required")
	}
	if body.Genre == "" {
		msgs = append(msgs, "genre is required")
	}
	if body.DurationMin == 0 {
		msgs = append(msgs, "duration must be positive")
	}
	if len(msgs) > 0 {
		return validationError(c, msgs)
	}
	m := &repository.Movie{Title: body.Title, Genre: body.Genre, DurationMin: body.DurationMin}
	if err := h.Movies.Create(c.Request().Context(), m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not create movie"})
	}
	return c.JSON(http.StatusCreated, m)
}

// Update handles PUT /movies/:id (admin only).
func (h *MovieHandler) Update(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	cur, err := h.Movies.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "failed to load movie"})
	}
	var body struct {
		Title       *string `json:"title"`
		Genre       *string `json:"genre"`
		DurationMin *uint32 `json:"duration"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	if body.Title != nil && strings.TrimSpace(*body.Title) != "" {
		cur.Title = strings.TrimSpace(*body.Title)
	}
	if body.Genre != nil && strings.TrimSpace(*body.Genre) != "" {
		cur.Genre = strings.TrimSpace(*body.Genre)
	}
	if body.DurationMin != nil && *body.DurationMin > 0 {
		cur.DurationMin = *body.DurationMin
	}
	if err := h.Movies.Update(c.Request().Context(), cur); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "update failed"})
	}
	return c.JSON(http.StatusOK, cur)
}

// Delete handles DELETE /movies/:id (admin only).
func (h *MovieHandler) Delete(c echo.Context) error {
	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Movies.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrMovieNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "could not delete movie"})
	}
	return c.NoContent(http.StatusNoContent)
}

// parseID converts a path parameter to a uint64 id.
func parseID(raw string) (uint64, error) {
	return strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
}
