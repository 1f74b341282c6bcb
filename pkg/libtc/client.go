package libtc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"sync"

	"github.com/pkg/errors"
)

// Capsule boxes.
const (
	BoxSent     = "sent"
	BoxReceived = "received"
)

type (
	// A Client defines all interactions that can be performed on a timecapsule server.
	Client interface {
		// Register creates an account and connects the Client to the timecapsule server.
		Register(email, name, password string) error
		// Login connects the Client to the timecapsule server.
		Login(email, password string) error
		// Logout terminates the current session.
		Logout() error
		// User returns the user authenticated by Register or Login.
		User() User
		// Session returns the authentication session used for requests.
		Session() Session
		// SetSession sets the authentication session used for requests.
		SetSession(session Session)
		// RefreshSession gets a new pair of tokens by refreshing the current session.
		RefreshSession() (Session, error)

		// CreateDraft persists a new draft.
		CreateDraft(ctx context.Context, draft Draft) (Draft, error)
		// UpdateDraft overwrites the draft identified by id.
		UpdateDraft(ctx context.Context, id string, draft Draft) (Draft, error)
		// GetDraft returns the draft identified by id.
		GetDraft(ctx context.Context, id string) (Draft, error)
		// ListDrafts returns the drafts of the current user, last edited first.
		ListDrafts(ctx context.Context) ([]Draft, error)
		// DeleteDraft deletes the draft identified by id.
		DeleteDraft(ctx context.Context, id string) error

		// Seal creates a capsule.
		Seal(ctx context.Context, params SealParams) (Capsule, error)
		// ListCapsules returns the capsules of the given box matching the query.
		ListCapsules(ctx context.Context, box, query string) ([]Capsule, error)
		// GetCapsule returns the capsule identified by id.
		GetCapsule(ctx context.Context, id string) (Capsule, error)
		// OpenCapsule opens a ready capsule.
		OpenCapsule(ctx context.Context, id string) (Capsule, error)
	}

	p      map[string]any
	client struct {
		http     *http.Client
		endpoint string

		mu      sync.Mutex
		user    User
		session Session
	}
)

// NewDefaultClient returns a new Client with default HTTP client.
func NewDefaultClient(endpoint string) (Client, error) {
	return NewClient(http.DefaultClient, endpoint)
}

// NewClient returns a new Client.
func NewClient(c *http.Client, endpoint string) (Client, error) {
	_, err := url.Parse(endpoint)
	return &client{endpoint: endpoint, http: c}, errors.Wrap(err, "could not parse endpoint")
}

func (c *client) Register(email, name, password string) error {
	return c.authenticate("/auth", p{"email": email, "name": name, "password": password})
}

func (c *client) Login(email, password string) error {
	return c.authenticate("/auth/sign_in", p{"email": email, "password": password})
}

func (c *client) authenticate(route string, params p) error {
	var auth struct {
		User    User    `json:"user"`
		Session Session `json:"session"`
	}

	if err := c.do(context.Background(), http.MethodPost, route, nil, params, &auth, false); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.user = auth.User
	c.session = auth.Session
	return nil
}

func (c *client) Logout() error {
	if !c.Session().Defined() {
		return errors.New("no session defined")
	}
	return c.do(context.Background(), http.MethodPost, "/auth/sign_out", nil, nil, nil, true)
}

func (c *client) User() User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

func (c *client) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

func (c *client) SetSession(session Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = session
}

func (c *client) RefreshSession() (Session, error) {
	current := c.Session()

	var refresh struct {
		Session Session `json:"session"`
	}
	params := p{"access_token": current.AccessToken, "refresh_token": current.RefreshToken}
	if err := c.do(context.Background(), http.MethodPost, "/session/refresh", nil, params, &refresh, false); err != nil {
		return Session{}, err
	}

	c.SetSession(refresh.Session)
	return refresh.Session, nil
}

//
// Drafts
//

func (c *client) CreateDraft(ctx context.Context, draft Draft) (Draft, error) {
	var created Draft
	err := c.do(ctx, http.MethodPost, "/drafts", nil, draft, &created, true)
	return created, err
}

func (c *client) UpdateDraft(ctx context.Context, id string, draft Draft) (Draft, error) {
	var updated Draft
	err := c.do(ctx, http.MethodPut, path.Join("/drafts", url.PathEscape(id)), nil, draft, &updated, true)
	return updated, err
}

func (c *client) GetDraft(ctx context.Context, id string) (Draft, error) {
	var draft Draft
	err := c.do(ctx, http.MethodGet, path.Join("/drafts", url.PathEscape(id)), nil, nil, &draft, true)
	return draft, err
}

func (c *client) ListDrafts(ctx context.Context) ([]Draft, error) {
	drafts := []Draft{}
	err := c.do(ctx, http.MethodGet, "/drafts", nil, nil, &drafts, true)
	return drafts, err
}

func (c *client) DeleteDraft(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, path.Join("/drafts", url.PathEscape(id)), nil, nil, nil, true)
}

//
// Capsules
//

func (c *client) Seal(ctx context.Context, params SealParams) (Capsule, error) {
	var capsule Capsule
	err := c.do(ctx, http.MethodPost, "/capsules", nil, params, &capsule, true)
	return capsule, err
}

func (c *client) ListCapsules(ctx context.Context, box, query string) ([]Capsule, error) {
	values := url.Values{}
	if box != "" {
		values.Set("box", box)
	}
	if query != "" {
		values.Set("q", query)
	}

	capsules := []Capsule{}
	err := c.do(ctx, http.MethodGet, "/capsules", values, nil, &capsules, true)
	return capsules, err
}

func (c *client) GetCapsule(ctx context.Context, id string) (Capsule, error) {
	var capsule Capsule
	err := c.do(ctx, http.MethodGet, path.Join("/capsules", url.PathEscape(id)), nil, nil, &capsule, true)
	return capsule, err
}

func (c *client) OpenCapsule(ctx context.Context, id string) (Capsule, error) {
	var capsule Capsule
	err := c.do(ctx, http.MethodPost, path.Join("/capsules", url.PathEscape(id), "open"), nil, nil, &capsule, true)
	return capsule, err
}

//
// Transport
//

// do performs the request and decodes the response in result.
// When the access token has expired, the session is refreshed and the request is sent once more.
func (c *client) do(ctx context.Context, method, route string, query url.Values, payload, result any, authenticated bool) error {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return errors.Wrap(err, "could not serialize payload")
		}
	}

	err := c.perform(ctx, method, route, query, body, result, authenticated)
	if authenticated && isExpired(err) && c.Session().Defined() {
		if _, rerr := c.RefreshSession(); rerr != nil {
			return errors.Wrap(rerr, "could not refresh session")
		}
		err = c.perform(ctx, method, route, query, body, result, authenticated)
	}
	return err
}

func (c *client) perform(ctx context.Context, method, route string, query url.Values, body []byte, result any, authenticated bool) error {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return errors.Wrap(err, "could not parse endpoint")
	}
	u.Path = path.Join(u.Path, route)
	u.RawQuery = query.Encode()

	//
	// Build request
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), r)
	if err != nil {
		return errors.Wrap(err, "could not build request")
	}
	req.Close = true
	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("Accept", "application/json")
	if authenticated {
		req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", c.Session().AccessToken))
	}

	//
	// Perform request
	res, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "could not perform request")
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return parseError(res.Body, res.StatusCode)
	}

	//
	// Process response
	if result == nil || res.StatusCode == http.StatusNoContent {
		return nil
	}

	dec := json.NewDecoder(res.Body)
	return errors.Wrap(dec.Decode(result), "could not parse response")
}

func isExpired(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.StatusCode == StatusExpiredAccessToken
}
