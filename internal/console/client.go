// Package console implements the theater-owner console: an authenticated API
// client plus the page/form state that drives the terminal UI.
package console

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// Theater is the owner's venue as returned by the backend.
type Theater struct {
	ID        uint64   `json:"id"`
	Name      string   `json:"name"`
	Location  string   `json:"location"`
	Amenities []string `json:"amenities"`
}

// Movie is a catalog entry for the show-creation selector.
type Movie struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	Genre       string `json:"genre"`
	DurationMin uint32 `json:"duration"`
}

// MovieSummary and TheaterSummary are embedded in show listings.
type MovieSummary struct {
	Title string `json:"title"`
	Genre string `json:"genre"`
}

type TheaterSummary struct {
	Name string `json:"name"`
}

// Show is a scheduled screening as listed by my-shows.
type Show struct {
	ID         uint64          `json:"id"`
	TheaterID  uint64          `json:"theaterId"`
	MovieID    uint64          `json:"movieId"`
	StartTime  time.Time       `json:"startTime"`
	BasePrice  float64         `json:"basePrice"`
	TotalSeats uint32          `json:"totalSeats"`
	Movie      *MovieSummary   `json:"movie,omitempty"`
	Theater    *TheaterSummary `json:"theater,omitempty"`
}

// CreateShowRequest is the add-show payload.
type CreateShowRequest struct {
	MovieID    uint64  `json:"movieId"`
	TheaterID  uint64  `json:"theaterId"`
	StartTime  string  `json:"startTime"`
	BasePrice  float64 `json:"basePrice"`
	TotalSeats int     `json:"totalSeats"`
}

// APIError is returned when the backend responds with a non-2xx status.
// Message carries the server-supplied explanation; when the server reports a
// list of validation messages they are joined with ", ".
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e == nil {
		return "api error"
	}
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

// Client wraps HTTP access to the booking API, attaching the owner's bearer
// token to every request.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient creates an API client. If httpClient is nil, a default client
// with a request timeout is used so a hung call cannot stall the UI forever.
func NewClient(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
	}
}

// MyTheater fetches the theater affiliated with the authenticated owner.
func (c *Client) MyTheater(ctx context.Context) (Theater, error) {
	var t Theater
	if err := c.doJSON(ctx, http.MethodGet, "/theater-owner/my-theater", nil, &t); err != nil {
		return Theater{}, err
	}
	return t, nil
}

// MyShows fetches the current show list for the owner's theater.
func (c *Client) MyShows(ctx context.Context) ([]Show, error) {
	var out struct {
		Items []Show `json:"items"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/theater-owner/my-shows", nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// Movies fetches the movie catalog.
func (c *Client) Movies(ctx context.Context) ([]Movie, error) {
	var out struct {
		Items []Movie `json:"items"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/movies", nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// CreateShow submits a new show for the owner's theater.
func (c *Client) CreateShow(ctx context.Context, req CreateShowRequest) (Show, error) {
	var s Show
	if err := c.doJSON(ctx, http.MethodPost, "/theater-owner/add-show", req, &s); err != nil {
		return Show{}, err
	}
	return s, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		bs, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(bs)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 8<<10))
		return decodeAPIError(res.StatusCode, snippet)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("decode response from %s: %w", path, err)
	}
	return nil
}

// decodeAPIError extracts a human-readable message from an error payload.
// The backend uses {"message": string | [string]} for validation errors and
// {"error": string} elsewhere; arrays of messages are joined with ", ".
// Anything unparseable falls back to a generic message.
func decodeAPIError(status int, body []byte) *APIError {
	var payload struct {
		Message json.RawMessage `json:"message"`
		Err     string          `json:"error"`
	}
	msg := ""
	if json.Unmarshal(body, &payload) == nil {
		if len(payload.Message) > 0 {
			var single string
			var many []string
			if json.Unmarshal(payload.Message, &single) == nil {
				msg = single
			} else if json.Unmarshal(payload.Message, &many) == nil {
				msg = strings.Join(many, ", ")
			}
		}
		if msg == "" {
			msg = payload.Err
		}
	}
	if msg == "" {
		msg = "something went wrong"
	}
	return &APIError{StatusCode: status, Message: msg}
}
