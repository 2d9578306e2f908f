package resource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"zerostour/internal/config"
	"zerostour/internal/metrics"

	"github.com/rs/zerolog/log"
)

// Client talks to the path-based report/create/update/delete endpoints of
// the backend. Every call is a fresh round trip: nothing is cached and
// nothing is retried.
type Client struct {
	http *HTTPClient
}

// NewClient creates a resource client from the API configuration
func NewClient(cfg config.APICfg) *Client {
	hc := NewHTTPClient(cfg.BaseURL, cfg.TimeoutSec)
	hc.SetToken(cfg.Token)
	return &Client{http: hc}
}

// NewClientWithHTTP wraps an existing transport.
func NewClientWithHTTP(hc *HTTPClient) *Client {
	return &Client{http: hc}
}

// List posts req to path and decodes the page into out.
func (c *Client) List(ctx context.Context, path string, req PagedRequest, out any) error {
	if req.Filters == nil {
		req.Filters = map[string]string{}
	}
	resp, err := c.call(ctx, "list", http.MethodPost, path, req)
	if err != nil {
		return err
	}
	if err := resp.Decode(out); err != nil {
		return &ServerError{Op: "list " + path, StatusCode: resp.StatusCode, Body: "malformed page: " + err.Error()}
	}
	return nil
}

// Create posts record to path and returns the new identifier.
func (c *Client) Create(ctx context.Context, path string, record any) (int64, error) {
	resp, err := c.call(ctx, "create", http.MethodPost, path, record)
	if err != nil {
		return 0, err
	}
	id, ok := parseID(resp.Body)
	if !ok || id <= 0 {
		return 0, &ServerError{Op: "create " + path, StatusCode: resp.StatusCode, Body: "create not acknowledged: " + truncate(resp.String(), 128)}
	}
	return id, nil
}

// Update sends record to path/{id}.
func (c *Client) Update(ctx context.Context, path string, id int64, record any) error {
	resp, err := c.call(ctx, "update", http.MethodPut, withID(path, id), record)
	if err != nil {
		return err
	}
	if rejected(resp.Body) {
		return &ServerError{Op: "update " + path, StatusCode: resp.StatusCode, Body: "update not acknowledged"}
	}
	return nil
}

// Delete removes path/{id}. What happens for a missing id is up to the
// backend.
func (c *Client) Delete(ctx context.Context, path string, id int64) error {
	resp, err := c.call(ctx, "delete", http.MethodDelete, withID(path, id), nil)
	if err != nil {
		return err
	}
	if rejected(resp.Body) {
		return &ServerError{Op: "delete " + path, StatusCode: resp.StatusCode, Body: "delete not acknowledged"}
	}
	return nil
}

func (c *Client) call(ctx context.Context, op, method, path string, payload any) (*HTTPResponse, error) {
	start := time.Now()
	resp, err := c.http.Do(ctx, method, path, payload)
	if err == nil && !resp.IsSuccess() {
		err = classify(op+" "+path, resp)
	}
	metrics.ObserveUpstream(op, resourceName(path), outcome(err), time.Since(start))
	if err != nil {
		log.Warn().
			Str("op", op).
			Str("path", path).
			Err(err).
			Msg("resource call failed")
		return nil, err
	}
	return resp, nil
}

func withID(path string, id int64) string {
	return strings.TrimRight(path, "/") + "/" + strconv.FormatInt(id, 10)
}

// parseID accepts a bare number (the backend's normal answer) or an object
// carrying an id field.
func parseID(body []byte) (int64, bool) {
	var n json.Number
	if err := json.Unmarshal(body, &n); err == nil {
		id, err := n.Int64()
		return id, err == nil
	}
	var obj map[string]json.Number
	if err := json.Unmarshal(body, &obj); err == nil {
		for k, v := range obj {
			if strings.EqualFold(k, "id") || strings.HasSuffix(k, "Id") {
				id, err := v.Int64()
				return id, err == nil
			}
		}
	}
	return 0, false
}

// rejected is true when a 2xx body is literally false or 0, which the
// backend uses to signal that nothing happened.
func rejected(body []byte) bool {
	switch strings.TrimSpace(string(body)) {
	case "false", "0":
		return true
	}
	return false
}

func resourceName(path string) string {
	p := strings.TrimPrefix(path, "/")
	if i := strings.Index(p, "/"); i >= 0 {
		p = p[:i]
	}
	for _, suffix := range []string{"-report", "-create", "-update", "-delete"} {
		p = strings.TrimSuffix(p, suffix)
	}
	return p
}

func outcome(err error) string {
	switch err.(type) {
	case nil:
		return "ok"
	case *NetworkError:
		return "network_error"
	case *ValidationError:
		return "validation_error"
	default:
		return "server_error"
	}
}

// List is the typed form of Client.List.
func List[T any](ctx context.Context, c *Client, path string, req PagedRequest) (*PagedResponse[T], error) {
	var page PagedResponse[T]
	if err := c.List(ctx, path, req, &page); err != nil {
		return nil, err
	}
	page.Normalize(req)
	return &page, nil
}

// Endpoints are the four paths of one backend collection.
type Endpoints struct {
	List   string `json:"list"`
	Create string `json:"create"`
	Update string `json:"update"`
	Delete string `json:"delete"`
}

// EndpointsFor derives the backend's naming scheme: /<name>-report,
// /<name>-create, /<name>-update, /<name>-delete.
func EndpointsFor(name string) Endpoints {
	return Endpoints{
		List:   "/" + name + "-report",
		Create: "/" + name + "-create",
		Update: "/" + name + "-update",
		Delete: "/" + name + "-delete",
	}
}

// Collection binds a Client to one backend collection of records T whose
// drafts D are sent on create and update.
type Collection[T any, D any] struct {
	client *Client
	paths  Endpoints
}

// NewCollection creates a typed collection
func NewCollection[T any, D any](client *Client, paths Endpoints) *Collection[T, D] {
	return &Collection[T, D]{client: client, paths: paths}
}

func (c *Collection[T, D]) List(ctx context.Context, req PagedRequest) (*PagedResponse[T], error) {
	return List[T](ctx, c.client, c.paths.List, req)
}

func (c *Collection[T, D]) Create(ctx context.Context, draft D) (int64, error) {
	return c.client.Create(ctx, c.paths.Create, draft)
}

func (c *Collection[T, D]) Update(ctx context.Context, id int64, draft D) error {
	return c.client.Update(ctx, c.paths.Update, id, draft)
}

func (c *Collection[T, D]) Delete(ctx context.Context, id int64) error {
	return c.client.Delete(ctx, c.paths.Delete, id)
}

// Paths returns the endpoints the collection uses.
func (c *Collection[T, D]) Paths() Endpoints {
	return c.paths
}

func (e Endpoints) String() string {
	return fmt.Sprintf("list=%s create=%s update=%s delete=%s", e.List, e.Create, e.Update, e.Delete)
}
