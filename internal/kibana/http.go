package kibana

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/groblegark/soscope/internal/model"
)

// HTTPClient implements Client against the Kibana HTTP/JSON saved-objects API.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check that HTTPClient implements Client.
var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a client targeting the given Kibana base URL
// (e.g. "http://localhost:5601"). When apiKey is non-empty, an
// "Authorization: ApiKey ..." header is set on every request.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

func (c *HTTPClient) GetObject(ctx context.Context, typ model.ObjectType, id string, opts GetOptions) (*SavedObject, error) {
	path := spacePath(opts.Space) + "/api/saved_objects/" + url.PathEscape(typ.String()) + "/" + url.PathEscape(id)
	var obj SavedObject
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &obj); err != nil {
		return nil, err
	}
	return &obj, nil
}

func (c *HTTPClient) FindObjects(ctx context.Context, req *FindRequest) (*FindResponse, error) {
	q := url.Values{}
	for _, t := range req.Types {
		q.Add("type", t.String())
	}
	if req.HasReference != nil {
		ref, err := json.Marshal(req.HasReference)
		if err != nil {
			return nil, fmt.Errorf("marshaling has_reference: %w", err)
		}
		q.Set("has_reference", string(ref))
	}
	if req.Search != "" {
		q.Set("search", req.Search)
	}
	for _, f := range req.SearchFields {
		q.Add("search_fields", f)
	}
	for _, f := range req.Fields {
		q.Add("fields", f)
	}
	if req.PerPage > 0 {
		q.Set("per_page", fmt.Sprintf("%d", req.PerPage))
	}
	if req.Page > 0 {
		q.Set("page", fmt.Sprintf("%d", req.Page))
	}

	path := spacePath(req.Space) + "/api/saved_objects/_find"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp FindResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// spacePath returns the URL prefix selecting a Kibana space. The default
// space has no prefix.
func spacePath(space string) string {
	if space == "" || space == "default" {
		return ""
	}
	return "/s/" + url.PathEscape(space)
}

// --- internal helpers ---

// APIError represents an error response from Kibana.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// doJSON performs an HTTP request with optional JSON body and decodes the
// JSON response. If result is nil, the response body is discarded.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	// Kibana rejects API requests without this header.
	req.Header.Set("kbn-xsrf", "true")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "ApiKey "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			StatusCode int    `json:"statusCode"`
			Error      string `json:"error"`
			Message    string `json:"message"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Message != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Message}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
