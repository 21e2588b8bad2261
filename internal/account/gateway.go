package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// Plain-text replies of the account endpoints.
const (
	ReplySuccess = "Success"
	ReplyFailure = "Failure"
)

// Endpoint paths, relative to the API base URL.
const (
	PathLogin         = "/login"
	PathCreateAccount = "/createAccount"
	PathStatistics    = "/get"
)

// ErrUnexpectedResponse is returned when a statistics reply is neither
// "Failure" nor a statistics object.
var ErrUnexpectedResponse = errors.New("unexpected response")

// Statistics is a player's record as reported by the server.
type Statistics struct {
	Username    string `json:"username"`
	GamesPlayed int    `json:"gamesPlayed"`
	GamesWon    int    `json:"gamesWon"`
}

// Gateway is the account request/response surface used by the UI.
// Login and CreateAccount return "" on success or a user-facing message;
// err is reserved for transport failures.
type Gateway interface {
	Login(ctx context.Context, username, password string) (string, error)
	CreateAccount(ctx context.Context, username, password string) (string, error)
	FetchStatistics(ctx context.Context, username string) (*Statistics, error)
}

// Client implements Gateway over HTTP.
type Client struct {
	http *resty.Client
	log  *zerolog.Logger
}

// NewClient builds a Client for the API at baseURL.
func NewClient(baseURL string, timeout time.Duration, logger *zerolog.Logger) *Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Content-Type", "text/plain; charset=utf-8")
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return &Client{http: c, log: logger}
}

// Login checks credentials with the server.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	return c.credentials(ctx, PathLogin, username, password, MsgLoginFailed)
}

// CreateAccount registers a new account.
func (c *Client) CreateAccount(ctx context.Context, username, password string) (string, error) {
	return c.credentials(ctx, PathCreateAccount, username, password, MsgCreateFailed)
}

func (c *Client) credentials(ctx context.Context, path, username, password, failure string) (string, error) {
	if msg := ValidateCredentials(username, password); msg != "" {
		return msg, nil
	}

	body, err := c.post(ctx, path, username+" "+password)
	if err != nil {
		return "", err
	}
	if body != ReplySuccess {
		c.log.Debug().Str("path", path).Str("username", username).Msg("account request rejected")
		return failure, nil
	}
	return "", nil
}

// FetchStatistics returns the player's statistics, or nil when the server has none.
func (c *Client) FetchStatistics(ctx context.Context, username string) (*Statistics, error) {
	body, err := c.post(ctx, PathStatistics, username)
	if err != nil {
		return nil, err
	}
	if body == ReplyFailure {
		c.log.Debug().Str("username", username).Msg("no statistics for user")
		return nil, nil
	}

	var stats Statistics
	if err := json.Unmarshal([]byte(body), &stats); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}
	return &stats, nil
}

func (c *Client) post(ctx context.Context, path, body string) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post(path)
	if err != nil {
		return "", fmt.Errorf("post %s: %w", path, err)
	}
	return strings.TrimSpace(resp.String()), nil
}
