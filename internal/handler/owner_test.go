package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinepass/movie-booking/internal/auth"
	"github.com/cinepass/movie-booking/internal/queue"
	"github.com/cinepass/movie-booking/internal/repository"
)

// ---- fakes ----

type fakeTheaters struct {
	byOwner map[uint64]*repository.Theater
}

func (f *fakeTheaters) GetByOwner(_ context.Context, ownerID uint64) (*repository.Theater, error) {
	if t, ok := f.byOwner[ownerID]; ok {
		return t, nil
	}
	return nil, repository.ErrTheaterNotFound
}
func (f *fakeTheaters) Create(_ context.Context, t *repository.Theater) error {
	if _, ok := f.byOwner[t.OwnerID]; ok {
		return repository.ErrTheaterExists
	}
	t.ID = uint64(len(f.byOwner) + 1)
	f.byOwner[t.OwnerID] = t
	return nil
}
func (f *fakeTheaters) Update(_ context.Context, t *repository.Theater) error {
	if _, ok := f.byOwner[t.OwnerID]; !ok {
		return repository.ErrTheaterNotFound
	}
	f.byOwner[t.OwnerID] = t
	return nil
}

type fakeShows struct {
	shows    []repository.Show
	overlaps []repository.Show
	nextID   uint64
}

func (f *fakeShows) ListByTheater(_ context.Context, theaterID uint64) ([]repository.Show, error) {
	out := []repository.Show{}
	for _, s := range f.shows {
		if s.TheaterID == theaterID {
			out = append(out, s)
		}
	}
	return out, nil
}
func (f *fakeShows) FindOverlapping(_ context.Context, _ uint64, _, _ time.Time) ([]repository.Show, error) {
	return f.overlaps, nil
}
func (f *fakeShows) Create(_ context.Context, s *repository.Show) error {
	f.nextID++
	s.ID = f.nextID
	s.CreatedAt = time.Now().UTC()
	f.shows = append(f.shows, *s)
	return nil
}
func (f *fakeShows) GetByID(_ context.Context, id uint64) (*repository.Show, error) {
	for i := range f.shows {
		if f.shows[i].ID == id {
			return &f.shows[i], nil
		}
	}
	return nil, repository.ErrShowNotFound
}
func (f *fakeShows) DeleteByIDAndOwner(_ context.Context, id, _ uint64) error {
	for i := range f.shows {
		if f.shows[i].ID == id {
			f.shows = append(f.shows[:i], f.shows[i+1:]...)
			return nil
		}
	}
	return repository.ErrShowNotFound
}

type fakeMovies struct {
	movies map[uint64]*repository.Movie
}

func (f *fakeMovies) List(context.Context) ([]repository.Movie, error) {
	out := []repository.Movie{}
	for _, m := range f.movies {
		out = append(out, *m)
	}
	return out, nil
}
func (f *fakeMovies) GetByID(_ context.Context, id uint64) (*repository.Movie, error) {
	if m, ok := f.movies[id]; ok {
		return m, nil
	}
	return nil, repository.ErrMovieNotFound
}
func (f *fakeMovies) Create(_ context.Context, m *repository.Movie) error {
	m.ID = uint64(len(f.movies) + 1)
	f.movies[m.ID] = m
	return nil
}
func (f *fakeMovies) Update(_ context.Context, m *repository.Movie) error {
	if _, ok := f.movies[m.ID]; !ok {
		return repository.ErrMovieNotFound
	}
	f.movies[m.ID] = m
	return nil
}
func (f *fakeMovies) Delete(_ context.Context, id uint64) error {
	if _, ok := f.movies[id]; !ok {
		return repository.ErrMovieNotFound
	}
	delete(f.movies, id)
	return nil
}

// ---- helpers ----

func ownerPrincipal() auth.Principal {
	return auth.Principal{UserID: 10, Email: "owner@example.com", Role: "OWNER", TheaterID: 3}
}

func newOwnerFixture() (*OwnerHandler, *fakeTheaters, *fakeShows, *int) {
	theaters := &fakeTheaters{byOwner: map[uint64]*repository.Theater{
		10: {ID: 3, OwnerID: 10, Name: "Astra", Location: "12 Main St", Amenities: []string{"IMAX"}},
	}}
	shows := &fakeShows{}
	movies := &fakeMovies{movies: map[uint64]*repository.Movie{
		7: {ID: 7, Title: "Solaris", Genre: "sci-fi", DurationMin: 120},
	}}
	published := 0
	publish := func(context.Context, queue.ShowScheduledEvent) error {
		published++
		return nil
	}
	return NewOwnerHandler(theaters, shows, movies, publish), theaters, shows, &published
}

func invoke(t *testing.T, fn echo.HandlerFunc, method, path, body string, p *auth.Principal) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if p != nil {
		c.Set("principal", *p)
		c.Set("role", p.Role)
	}
	require.NoError(t, fn(c))
	return rec
}

// ---- tests ----

func TestMyTheater(t *testing.T) {
	h, _, _, _ := newOwnerFixture()
	p := ownerPrincipal()

	rec := invoke(t, h.MyTheater, http.MethodGet, "/theater-owner/my-theater", "", &p)
	require.Equal(t, http.StatusOK, rec.Code)

	var theater repository.Theater
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &theater))
	assert.Equal(t, uint64(3), theater.ID)
	assert.Equal(t, "Astra", theater.Name)
	assert.Equal(t, []string{"IMAX"}, theater.Amenities)
}

func TestMyTheaterUnassigned(t *testing.T) {
	h, theaters, _, _ := newOwnerFixture()
	delete(theaters.byOwner, 10)
	p := ownerPrincipal()

	rec := invoke(t, h.MyTheater, http.MethodGet, "/theater-owner/my-theater", "", &p)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "no theater is assigned")
}

func TestMyShowsWithoutTheaterIsEmptyList(t *testing.T) {
	h, theaters, _, _ := newOwnerFixture()
	delete(theaters.byOwner, 10)
	p := ownerPrincipal()

	rec := invoke(t, h.MyShows, http.MethodGet, "/theater-owner/my-shows", "", &p)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[]}`, rec.Body.String())
}

func TestAddShowSuccess(t *testing.T) {
	h, _, shows, published := newOwnerFixture()
	p := ownerPrincipal()

	body := `{"movieId":7,"theaterId":3,"startTime":"2024-06-01T19:00:00.000Z","basePrice":12.5,"totalSeats":100}`
	rec := invoke(t, h.AddShow, http.MethodPost, "/theater-owner/add-show", body, &p)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created repository.Show
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, uint64(3), created.TheaterID)
	assert.Equal(t, uint64(7), created.MovieID)
	assert.Equal(t, time.Date(2024, 6, 1, 19, 0, 0, 0, time.UTC), created.StartTime)
	assert.Equal(t, 12.5, created.BasePrice)
	assert.Equal(t, uint32(100), created.TotalSeats)
	require.NotNil(t, created.Movie)
	assert.Equal(t, "Solaris", created.Movie.Title)

	require.Len(t, shows.shows, 1)
	assert.Equal(t, 1, *published, "a scheduled show publishes exactly one event")
}

func TestAddShowCoercesZeroTheaterID(t *testing.T) {
	h, _, shows, _ := newOwnerFixture()
	p := ownerPrincipal()

	body := `{"movieId":7,"startTime":"2024-06-01T19:00:00Z","basePrice":10,"totalSeats":50}`
	rec := invoke(t, h.AddShow, http.MethodPost, "/theater-owner/add-show", body, &p)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, uint64(3), shows.shows[0].TheaterID)
}

func TestAddShowRejectsForeignTheater(t *testing.T) {
	h, _, _, published := newOwnerFixture()
	p := ownerPrincipal()

	body := `{"movieId":7,"theaterId":99,"startTime":"2024-06-01T19:00:00Z","basePrice":10,"totalSeats":50}`
	rec := invoke(t, h.AddShow, http.MethodPost, "/theater-owner/add-show", body, &p)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Zero(t, *published)
}

func TestAddShowAggregatesValidationErrors(t *testing.T) {
	h, _, _, _ := newOwnerFixture()
	p := ownerPrincipal()

	rec := invoke(t, h.AddShow, http.MethodPost, "/theater-owner/add-show", `{}`, &p)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var out struct {
		Message []string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.ElementsMatch(t, []string{
		"movieId is required",
		"startTime is required",
		"basePrice must be positive",
		"totalSeats must be at least 1",
	}, out.Message)
}

func TestAddShowSingleValidationErrorIsAString(t *testing.T) {
	h, _, _, _ := newOwnerFixture()
	p := ownerPrincipal()

	body := `{"movieId":7,"startTime":"not-a-time","basePrice":10,"totalSeats":50}`
	rec := invoke(t, h.AddShow, http.MethodPost, "/theater-owner/add-show", body, &p)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"startTime must be a valid RFC3339 timestamp"}`, rec.Body.String())
}

func TestAddShowUnknownMovie(t *testing.T) {
	h, _, _, _ := newOwnerFixture()
	p := ownerPrincipal()

	body := `{"movieId":999,"startTime":"2024-06-01T19:00:00Z","basePrice":10,"totalSeats":50}`
	rec := invoke(t, h.AddShow, http.MethodPost, "/theater-owner/add-show", body, &p)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "movie not found")
}

func TestAddShowOverlapConflict(t *testing.T) {
	h, _, shows, published := newOwnerFixture()
	shows.overlaps = []repository.Show{{ID: 5, TheaterID: 3, MovieID: 7}}
	p := ownerPrincipal()

	body := `{"movieId":7,"startTime":"2024-06-01T19:00:00Z","basePrice":10,"totalSeats":50}`
	rec := invoke(t, h.AddShow, http.MethodPost, "/theater-owner/add-show", body, &p)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "overlaps")
	assert.Zero(t, *published)
}

func TestAddShowWithoutPrincipal(t *testing.T) {
	h, _, _, _ := newOwnerFixture()
	rec := invoke(t, h.AddShow, http.MethodPost, "/theater-owner/add-show", `{}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMyShowsListsScopedShows(t *testing.T) {
	h, _, shows, _ := newOwnerFixture()
	shows.shows = []repository.Show{
		{ID: 1, TheaterID: 3, MovieID: 7, StartTime: time.Date(2024, 6, 1, 19, 0, 0, 0, time.UTC),
			Movie: &repository.MovieSummary{Title: "Solaris", Genre: "sci-fi"}},
		{ID: 2, TheaterID: 99, MovieID: 7}, // another theater, must be filtered
	}
	p := ownerPrincipal()

	rec := invoke(t, h.MyShows, http.MethodGet, "/theater-owner/my-shows", "", &p)
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Items []repository.Show `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Items, 1)
	assert.Equal(t, uint64(1), out.Items[0].ID)
}

func TestCreateTheaterConflict(t *testing.T) {
	h, _, _, _ := newOwnerFixture()
	p := ownerPrincipal()

	body := `{"name":"Second","location":"Elsewhere"}`
	rec := invoke(t, h.CreateTheater, http.MethodPost, "/theater-owner/my-theater", body, &p)
	assert.Equal(t, http.StatusConflict, rec.Code)
}
