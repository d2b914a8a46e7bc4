// Package subsonic is a typed client for the Subsonic REST API. It covers
// the album catalog: fetching single albums, fetching album lists by
// server-side ordering, and reconciling the partial song lists that list
// endpoints return. Responses are validated at the decode boundary; a
// payload that does not match the documented shape is rejected rather
// than repaired.
package subsonic

import (
	"context"
	"crypto/md5"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// protocolVersion is the Subsonic REST API version this client speaks.
const protocolVersion = "1.16.1"

const defaultClientName = "subwave"

// Client performs authenticated GET calls against one Subsonic-compatible
// server. The zero value is not usable; construct with NewClient. A
// Client holds no per-call state and is safe for concurrent use.
type Client struct {
	baseURL    string
	username   string
	password   string
	clientName string
	httpClient *http.Client
}

// ClientOption adjusts a Client during construction.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client, e.g. to change
// transport behavior in tests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithClientName overrides the client name reported to the server as the
// c parameter.
func WithClientName(name string) ClientOption {
	return func(c *Client) { c.clientName = name }
}

// WithTimeout adjusts the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// NewClient creates a client for the server at baseURL using salted
// token authentication.
func NewClient(baseURL, username, password string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		username:   username,
		password:   password,
		clientName: defaultClientName,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelopeKeys are the metadata fields of a subsonic-response object.
// Whatever single field remains is the operation's payload.
var envelopeKeys = map[string]bool{
	"status":        true,
	"version":       true,
	"type":          true,
	"serverVersion": true,
	"openSubsonic":  true,
	"error":         true,
	"xmlns":         true,
}

// Get performs one GET round trip for the named API operation and returns
// the operation's payload with the response envelope stripped. Operations
// without a payload, such as ping, return nil. Transport failures and
// server-reported errors come back as-is; Get never retries.
func (c *Client) Get(ctx context.Context, op string, q *Query) (json.RawMessage, error) {
	log.Tracef("GET %s against %s", op, c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(op, q), nil)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s request: unexpected status %d", op, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", op, err)
	}

	return parseEnvelope(op, body)
}

// Ping checks that the server is reachable and the credentials are
// accepted.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Get(ctx, "ping", nil)
	return err
}

// CoverArtURL returns an authenticated URL for a cover image. A size of
// zero requests the original dimensions.
func (c *Client) CoverArtURL(id string, size uint64) string {
	q := NewQuery().Arg("id", id)
	if size > 0 {
		q.ArgUint("size", size)
	}
	return c.requestURL("getCoverArt", q)
}

// StreamURL returns an authenticated URL that streams one song.
func (c *Client) StreamURL(id uint64) string {
	return c.requestURL("stream", NewQuery().ArgUint("id", id))
}

// requestURL assembles {base}/rest/{op} with authentication parameters
// followed by the operation's own. A fresh salt is drawn per request so
// the password never travels in clear.
func (c *Client) requestURL(op string, q *Query) string {
	salt := rand.Text()
	full := NewQuery().
		Arg("u", c.username).
		Arg("t", saltedToken(c.password, salt)).
		Arg("s", salt).
		Arg("v", protocolVersion).
		Arg("c", c.clientName).
		Arg("f", "json")
	if q != nil {
		for _, p := range q.Pairs() {
			full.Arg(p[0], p[1])
		}
	}
	return c.baseURL + "/rest/" + op + "?" + full.Encode()
}

// saltedToken derives the Subsonic auth token: hex md5 of password+salt.
func saltedToken(password, salt string) string {
	sum := md5.Sum([]byte(password + salt))
	return hex.EncodeToString(sum[:])
}

func parseEnvelope(op string, body []byte) (json.RawMessage, error) {
	var env struct {
		Response map[string]json.RawMessage `json:"subsonic-response"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("parse %s envelope: %w", op, err)
	}
	if env.Response == nil {
		return nil, fmt.Errorf("parse %s envelope: subsonic-response object missing", op)
	}

	var status string
	if raw, ok := env.Response["status"]; ok {
		if err := json.Unmarshal(raw, &status); err != nil {
			return nil, fmt.Errorf("parse %s envelope: bad status: %w", op, err)
		}
	}

	if status == "failed" {
		apiErr := &APIError{Message: "unknown server error"}
		if raw, ok := env.Response["error"]; ok {
			if err := json.Unmarshal(raw, apiErr); err != nil {
				return nil, fmt.Errorf("parse %s envelope: bad error object: %w", op, err)
			}
		}
		return nil, apiErr
	}
	if status != "ok" {
		return nil, fmt.Errorf("%s response: unexpected status %q", op, status)
	}

	for key, raw := range env.Response {
		if !envelopeKeys[key] {
			return raw, nil
		}
	}
	return nil, nil
}
