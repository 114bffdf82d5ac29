package console

import (
	"context"
	"errors"
	"log"
	"sync"
)

// Console holds the owner page state: the loaded theater snapshot, the show
// list cache, the movie catalog, the draft form and the two error surfaces
// (page banner and form message). The show list is a cache invalidated and
// replaced wholesale after every successful creation; nothing is patched
// incrementally.
type Console struct {
	client *Client

	mu         sync.Mutex
	theater    *Theater
	shows      []Show
	movies     []Movie
	draft      Draft
	loading    bool
	submitting bool
	pageErr    string
	formErr    string

	// logf is the diagnostic sink for non-fatal failures (movie catalog).
	logf func(format string, args ...any)
}

// New creates a Console over the given API client.
func New(client *Client) *Console {
	return &Console{client: client, logf: log.Printf}
}

// Load fetches the owner's theater and show list. Both reads are issued as a
// unit; loading only clears once both settle. On failure the server-supplied
// message (or a generic fallback) becomes the page error and any previously
// loaded data is kept. A 404 on my-theater is not an error: the owner simply
// has no theater yet and the page renders its unassigned state.
func (c *Console) Load(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	theater, terr := c.client.MyTheater(ctx)
	shows, serr := c.client.MyShows(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false

	if terr != nil {
		var apiErr *APIError
		if errors.As(terr, &apiErr) && apiErr.StatusCode == 404 {
			c.theater = nil
			terr = nil
		} else {
			c.pageErr = messageFrom(terr, "could not load your theater")
			return terr
		}
	} else {
		c.theater = &theater
	}

	if serr != nil {
		c.pageErr = messageFrom(serr, "could not load your shows")
		return serr
	}

	c.shows = shows
	c.pageErr = ""
	return nil
}

// LoadMovies fetches the catalog for the show-creation selector. Failure is
// deliberately non-fatal: it is logged, the selector stays empty, and no
// error banner is shown, so a broken catalog never blocks viewing shows.
func (c *Console) LoadMovies(ctx context.Context) {
	movies, err := c.client.Movies(ctx)
	if err != nil {
		c.logf("console: load movie catalog: %v", err)
		return
	}
	c.mu.Lock()
	c.movies = movies
	c.mu.Unlock()
}

// Submit validates the draft, sends the creation request and refreshes the
// page. The in-flight flag serializes submissions: a second call while one
// is outstanding is a no-op. Client-side validation failures set the form
// error without any network call. On success the draft is cleared and Load
// re-runs exactly once; on failure the draft is preserved so the owner can
// correct and resubmit.
func (c *Console) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return nil
	}
	if c.theater == nil {
		c.formErr = "your theater has not loaded yet; cannot add a show"
		c.mu.Unlock()
		return nil
	}
	if !c.draft.IsSubmittable(true) {
		c.formErr = "all fields are required"
		c.mu.Unlock()
		return nil
	}
	payload, err := c.draft.ToPayload(c.theater.ID)
	if err != nil {
		c.formErr = err.Error()
		c.mu.Unlock()
		return nil
	}
	c.submitting = true
	c.formErr = ""
	c.mu.Unlock()

	_, err = c.client.CreateShow(ctx, payload)

	c.mu.Lock()
	c.submitting = false
	if err != nil {
		c.formErr = messageFrom(err, "could not create show")
		c.mu.Unlock()
		return err
	}
	c.draft = Draft{}
	c.mu.Unlock()

	// Full refresh: server truth replaces the local cache wholesale.
	return c.Load(ctx)
}

// ---- accessors for the UI layer ----

// Theater returns the loaded theater snapshot, or nil when unassigned.
func (c *Console) Theater() *Theater {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.theater
}

// Shows returns the current show list cache.
func (c *Console) Shows() []Show {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.shows
}

// Movies returns the loaded movie catalog (possibly empty).
func (c *Console) Movies() []Movie {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.movies
}

// Draft returns a copy of the current form state.
func (c *Console) Draft() Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// SetDraft replaces the form state with edited values.
func (c *Console) SetDraft(d Draft) {
	c.mu.Lock()
	c.draft = d
	c.mu.Unlock()
}

// Loading reports whether the initial page load is in progress.
func (c *Console) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Submitting reports whether a creation request is outstanding.
func (c *Console) Submitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

// PageError returns the page-level banner message ("" when healthy).
func (c *Console) PageError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pageErr
}

// FormError returns the form-level message ("" when clear).
func (c *Console) FormError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.formErr
}

// messageFrom prefers the server-supplied message on API errors and falls
// back to a generic one for transport failures.
func messageFrom(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if err != nil {
		return fallback
	}
	return ""
}
