package console

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend is a scriptable stand-in for the booking API.
type fakeBackend struct {
	mu           sync.Mutex
	theaterCalls int
	showCalls    int
	movieCalls   int
	createCalls  int

	theaterStatus int    // 0 means 200
	showStatus    int    // 0 means 200
	movieStatus   int    // 0 means 200
	createStatus  int    // 0 means 201
	createReply   string // body for non-2xx create replies

	lastAuth   string
	lastCreate CreateShowRequest
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /theater-owner/my-theater", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.theaterCalls++
		f.lastAuth = r.Header.Get("Authorization")
		status := f.theaterStatus
		f.mu.Unlock()
		if status != 0 {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"message":"no theater is assigned to this account"}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":3,"name":"Astra","location":"12 Main St","amenities":["IMAX","parking"]}`))
	})
	mux.HandleFunc("GET /theater-owner/my-shows", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.showCalls++
		status := f.showStatus
		f.mu.Unlock()
		if status != 0 {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"message":"failed to load shows"}`))
			return
		}
		_, _ = w.Write([]byte(`{"items":[{"id":1,"theaterId":3,"movieId":7,"startTime":"2024-05-01T18:00:00Z","basePrice":10,"totalSeats":80,"movie":{"title":"Solaris","genre":"sci-fi"},"theater":{"name":"Astra"}}]}`))
	})
	mux.HandleFunc("GET /movies", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.movieCalls++
		status := f.movieStatus
		f.mu.Unlock()
		if status != 0 {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"message":"failed to load movies"}`))
			return
		}
		_, _ = w.Write([]byte(`{"items":[{"id":7,"title":"Solaris","genre":"sci-fi","duration":120}]}`))
	})
	mux.HandleFunc("POST /theater-owner/add-show", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.createCalls++
		status := f.createStatus
		reply := f.createReply
		f.mu.Unlock()
		var req CreateShowRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		f.lastCreate = req
		f.mu.Unlock()
		if status != 0 {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(reply))
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":2,"theaterId":3,"movieId":7,"startTime":"2024-06-01T19:00:00Z","basePrice":12.5,"totalSeats":100}`))
	})
	return mux
}

func (f *fakeBackend) counts() (theater, shows, movies, creates int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.theaterCalls, f.showCalls, f.movieCalls, f.createCalls
}

func (f *fakeBackend) authHeader() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastAuth
}

func (f *fakeBackend) created() CreateShowRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastCreate
}

func newTestConsole(t *testing.T, backend *fakeBackend) *Console {
	t.Helper()
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)
	con := New(NewClient(srv.URL, "owner-token", srv.Client()))
	con.logf = func(string, ...any) {} // keep test output quiet
	return con
}

func TestLoadPopulatesState(t *testing.T) {
	backend := &fakeBackend{}
	con := newTestConsole(t, backend)

	require.NoError(t, con.Load(context.Background()))
	con.LoadMovies(context.Background())

	theater := con.Theater()
	require.NotNil(t, theater)
	assert.Equal(t, uint64(3), theater.ID)
	assert.Equal(t, "Astra", theater.Name)
	assert.Equal(t, []string{"IMAX", "parking"}, theater.Amenities)

	require.Len(t, con.Shows(), 1)
	assert.Equal(t, "Solaris", con.Shows()[0].Movie.Title)
	require.Len(t, con.Movies(), 1)
	assert.Empty(t, con.PageError())
	assert.Equal(t, "Bearer owner-token", backend.authHeader())
}

func TestLoadWithoutTheaterRendersUnassigned(t *testing.T) {
	backend := &fakeBackend{theaterStatus: http.StatusNotFound}
	con := newTestConsole(t, backend)

	require.NoError(t, con.Load(context.Background()))
	assert.Nil(t, con.Theater())
	assert.Empty(t, con.PageError(), "a missing theater is the unassigned state, not an error")
}

func TestLoadFailureKeepsPreviousData(t *testing.T) {
	backend := &fakeBackend{}
	con := newTestConsole(t, backend)
	require.NoError(t, con.Load(context.Background()))

	backend.mu.Lock()
	backend.showStatus = http.StatusInternalServerError
	backend.mu.Unlock()

	require.Error(t, con.Load(context.Background()))
	assert.Equal(t, "failed to load shows", con.PageError())
	assert.NotNil(t, con.Theater(), "refresh failure must not discard loaded data")
	assert.Len(t, con.Shows(), 1)
}

func TestSubmitSuccessClearsDraftAndReloadsOnce(t *testing.T) {
	backend := &fakeBackend{}
	con := newTestConsole(t, backend)
	require.NoError(t, con.Load(context.Background()))

	con.SetDraft(Draft{MovieID: "7", ShowTime: "2024-06-01T19:00", Price: "12.50", Seats: "100"})
	require.NoError(t, con.Submit(context.Background()))

	// The payload is bound to the loaded theater, never a draft value.
	assert.Equal(t, CreateShowRequest{
		MovieID:    7,
		TheaterID:  3,
		StartTime:  "2024-06-01T19:00:00.000Z",
		BasePrice:  12.5,
		TotalSeats: 100,
	}, backend.created())

	assert.Equal(t, Draft{}, con.Draft())
	assert.Empty(t, con.FormError())

	theaters, shows, _, creates := backend.counts()
	assert.Equal(t, 1, creates)
	assert.Equal(t, 2, theaters, "initial load + exactly one post-submit refresh")
	assert.Equal(t, 2, shows, "initial load + exactly one post-submit refresh")
}

func TestSubmitBlockedMakesNoCall(t *testing.T) {
	full := Draft{MovieID: "7", ShowTime: "2024-06-01T19:00", Price: "12.50", Seats: "100"}

	drafts := map[string]Draft{
		"missing movie": {ShowTime: full.ShowTime, Price: full.Price, Seats: full.Seats},
		"missing time":  {MovieID: full.MovieID, Price: full.Price, Seats: full.Seats},
		"missing price": {MovieID: full.MovieID, ShowTime: full.ShowTime, Seats: full.Seats},
		"missing seats": {MovieID: full.MovieID, ShowTime: full.ShowTime, Price: full.Price},
	}
	for name, draft := range drafts {
		t.Run(name, func(t *testing.T) {
			backend := &fakeBackend{}
			con := newTestConsole(t, backend)
			require.NoError(t, con.Load(context.Background()))

			con.SetDraft(draft)
			require.NoError(t, con.Submit(context.Background()))

			_, _, _, creates := backend.counts()
			assert.Zero(t, creates, "blocked submission must not reach the network")
			assert.Equal(t, "all fields are required", con.FormError())
			assert.Equal(t, draft, con.Draft(), "blocked submission keeps the draft")
		})
	}

	t.Run("theater not loaded", func(t *testing.T) {
		backend := &fakeBackend{theaterStatus: http.StatusNotFound}
		con := newTestConsole(t, backend)
		require.NoError(t, con.Load(context.Background()))

		con.SetDraft(full)
		require.NoError(t, con.Submit(context.Background()))

		_, _, _, creates := backend.counts()
		assert.Zero(t, creates)
		assert.Contains(t, con.FormError(), "theater")
	})
}

func TestSubmitFailureKeepsDraftAndJoinsMessages(t *testing.T) {
	backend := &fakeBackend{
		createStatus: http.StatusBadRequest,
		createReply:  `{"message":["price must be positive","seats must be an integer"]}`,
	}
	con := newTestConsole(t, backend)
	require.NoError(t, con.Load(context.Background()))

	draft := Draft{MovieID: "7", ShowTime: "2024-06-01T19:00", Price: "12.50", Seats: "100"}
	con.SetDraft(draft)
	require.Error(t, con.Submit(context.Background()))

	assert.Equal(t, "price must be positive, seats must be an integer", con.FormError())
	assert.Equal(t, draft, con.Draft(), "failed submission preserves the draft for correction")

	theaters, _, _, _ := backend.counts()
	assert.Equal(t, 1, theaters, "no refresh after a failed submission")
}

func TestMovieCatalogFailureIsNonFatal(t *testing.T) {
	backend := &fakeBackend{movieStatus: http.StatusBadGateway}
	con := newTestConsole(t, backend)

	logged := 0
	con.logf = func(string, ...any) { logged++ }

	require.NoError(t, con.Load(context.Background()))
	con.LoadMovies(context.Background())

	assert.NotNil(t, con.Theater())
	assert.Len(t, con.Shows(), 1)
	assert.Empty(t, con.Movies(), "selector stays empty on catalog failure")
	assert.Empty(t, con.PageError(), "no visible banner for a catalog failure")
	assert.Equal(t, 1, logged, "catalog failure goes to the diagnostic channel only")
}
