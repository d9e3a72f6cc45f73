package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vncsmyrnk/votesync/internal/core/domain"
	"github.com/vncsmyrnk/votesync/internal/core/ports"
)

const DefaultTimeout = 10 * time.Second

// Client talks to the vote API on behalf of one signed-in viewer.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

var (
	_ ports.VoteClient = (*Client)(nil)
	_ ports.Session    = (*Client)(nil)
)

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

func WithToken(token string) Option {
	return func(cl *Client) {
		cl.token = token
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(cl *Client) {
		cl.logger = l
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Authenticated reports whether votes can be sent. Without a token the
// server would reject every vote.
func (c *Client) Authenticated() bool {
	return c.token != ""
}

type voteRequest struct {
	EntityID  string `json:"entityId"`
	Direction string `json:"direction"`
}

func (c *Client) CastVote(ctx context.Context, entityID string, direction domain.Direction) (domain.VoteState, error) {
	if !direction.Valid() {
		return domain.VoteState{}, domain.ErrInvalidDirection
	}

	body := voteRequest{EntityID: entityID, Direction: direction.String()}
	var tally domain.Tally
	if err := c.do(ctx, http.MethodPost, "/api/vote", body, &tally); err != nil {
		return domain.VoteState{}, err
	}

	state := tally.VoteState(entityID)
	if tally.VoteCount != state.Score {
		c.logger.Warn("vote count disagrees with totals",
			"entity_id", entityID,
			"vote_count", tally.VoteCount,
			"upvotes", tally.Upvotes,
			"downvotes", tally.Downvotes,
		)
	}
	return state, nil
}

func (c *Client) GetProject(ctx context.Context, id string) (domain.Project, error) {
	var p domain.Project
	err := c.do(ctx, http.MethodGet, "/api/projects/"+url.PathEscape(id), nil, &p)
	return p, err
}

func (c *Client) ListProjects(ctx context.Context, page int, query string) ([]domain.Project, error) {
	params := url.Values{}
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}
	if query != "" {
		params.Set("q", query)
	}

	path := "/api/projects"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var projects []domain.Project
	err := c.do(ctx, http.MethodGet, path, nil, &projects)
	return projects, err
}

func (c *Client) CreateProject(ctx context.Context, title, description string) (domain.Project, error) {
	body := map[string]string{"title": title, "description": description}
	var p domain.Project
	err := c.do(ctx, http.MethodPost, "/api/projects", body, &p)
	return p, err
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// decodeError accepts JSON error bodies and plain text ones.
func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var eb errorBody
	msg := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &eb) == nil && (eb.Message != "" || eb.Error != "") {
		msg = eb.Message
		if msg == "" {
			msg = eb.Error
		}
	}

	return &StatusError{Status: resp.StatusCode, Message: msg}
}
