package kibana

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/groblegark/soscope/internal/model"
)

// testHandler captures the incoming request details and returns a canned response.
type testHandler struct {
	// captured from the request
	method  string
	path    string
	query   string
	headers http.Header
	body    string

	// canned response
	statusCode   int
	responseBody string
}

func (h *testHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.method = r.Method
	h.path = r.URL.Path
	h.query = r.URL.RawQuery
	h.headers = r.Header.Clone()
	if r.Body != nil {
		data, _ := io.ReadAll(r.Body)
		h.body = string(data)
	}

	w.Header().Set("Content-Type", "application/json")
	if h.statusCode != 0 {
		w.WriteHeader(h.statusCode)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	if h.responseBody != "" {
		_, _ = w.Write([]byte(h.responseBody))
	}
}

// newTestClient creates an HTTPClient pointed at a test server with the given handler.
func newTestClient(h http.Handler) (*HTTPClient, *httptest.Server) {
	srv := httptest.NewServer(h)
	c := NewHTTPClient(srv.URL, "test-key", 0)
	return c, srv
}

func TestHTTPClient_GetObject(t *testing.T) {
	h := &testHandler{
		responseBody: `{
			"id": "dash-1",
			"type": "dashboard",
			"attributes": {"title": "Sales Overview"},
			"references": [
				{"name": "panel_1", "type": "visualization", "id": "viz-1"}
			]
		}`,
	}
	c, srv := newTestClient(h)
	defer srv.Close()

	obj, err := c.GetObject(context.Background(), model.TypeDashboard, "dash-1", GetOptions{})
	if err != nil {
		t.Fatalf("GetObject: %v", err)
	}

	if h.method != http.MethodGet {
		t.Errorf("method = %q, want GET", h.method)
	}
	if h.path != "/api/saved_objects/dashboard/dash-1" {
		t.Errorf("path = %q", h.path)
	}
	if got := h.headers.Get("kbn-xsrf"); got != "true" {
		t.Errorf("kbn-xsrf header = %q, want %q", got, "true")
	}
	if got := h.headers.Get("Authorization"); got != "ApiKey test-key" {
		t.Errorf("Authorization header = %q", got)
	}

	if obj.ID != "dash-1" || obj.Type != model.TypeDashboard {
		t.Errorf("object = %s, want dashboard/dash-1", obj.Key())
	}
	if got := obj.Title(); got != "Sales Overview" {
		t.Errorf("Title() = %q, want %q", got, "Sales Overview")
	}
	if len(obj.References) != 1 || obj.References[0].Name != "panel_1" {
		t.Errorf("references = %+v", obj.References)
	}
}

func TestHTTPClient_GetObject_SpacePrefix(t *testing.T) {
	h := &testHandler{responseBody: `{"id": "v1", "type": "visualization", "attributes": {}}`}
	c, srv := newTestClient(h)
	defer srv.Close()

	_, err := c.GetObject(context.Background(), model.TypeVisualization, "v1", GetOptions{Space: "marketing"})
	if err != nil {
		t.Fatalf("GetObject: %v", err)
	}
	if h.path != "/s/marketing/api/saved_objects/visualization/v1" {
		t.Errorf("path = %q", h.path)
	}
}

func TestHTTPClient_GetObject_DefaultSpaceHasNoPrefix(t *testing.T) {
	h := &testHandler{responseBody: `{"id": "v1", "type": "visualization", "attributes": {}}`}
	c, srv := newTestClient(h)
	defer srv.Close()

	_, err := c.GetObject(context.Background(), model.TypeVisualization, "v1", GetOptions{Space: "default"})
	if err != nil {
		t.Fatalf("GetObject: %v", err)
	}
	if h.path != "/api/saved_objects/visualization/v1" {
		t.Errorf("path = %q", h.path)
	}
}

func TestHTTPClient_GetObject_NotFound(t *testing.T) {
	h := &testHandler{
		statusCode:   http.StatusNotFound,
		responseBody: `{"statusCode": 404, "error": "Not Found", "message": "Saved object [dashboard/nope] not found"}`,
	}
	c, srv := newTestClient(h)
	defer srv.Close()

	_, err := c.GetObject(context.Background(), model.TypeDashboard, "nope", GetOptions{})
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if !IsNotFound(err) {
		t.Errorf("IsNotFound(%v) = false, want true", err)
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("error message = %q, want server message included", err.Error())
	}
}

func TestHTTPClient_FindObjects(t *testing.T) {
	h := &testHandler{
		responseBody: `{
			"saved_objects": [
				{"id": "dash-1", "type": "dashboard", "attributes": {"title": "One"}, "references": []},
				{"id": "viz-2", "type": "visualization", "attributes": {"title": "Two"}, "references": []}
			],
			"total": 2,
			"per_page": 20,
			"page": 1
		}`,
	}
	c, srv := newTestClient(h)
	defer srv.Close()

	resp, err := c.FindObjects(context.Background(), &FindRequest{
		Types:        []model.ObjectType{model.TypeDashboard, model.TypeVisualization},
		HasReference: &HasReference{Type: model.TypeIndexPattern, ID: "idx-1"},
		Fields:       []string{"title"},
		PerPage:      20,
	})
	if err != nil {
		t.Fatalf("FindObjects: %v", err)
	}

	if h.path != "/api/saved_objects/_find" {
		t.Errorf("path = %q", h.path)
	}
	q := h.query
	for _, want := range []string{"type=dashboard", "type=visualization", "per_page=20", "fields=title"} {
		if !strings.Contains(q, want) {
			t.Errorf("query %q missing %q", q, want)
		}
	}
	// has_reference is a URL-encoded JSON object.
	if !strings.Contains(q, "has_reference=") || !strings.Contains(q, "index-pattern") {
		t.Errorf("query %q missing encoded has_reference", q)
	}

	if resp.Total != 2 || len(resp.SavedObjects) != 2 {
		t.Fatalf("total = %d, objects = %d", resp.Total, len(resp.SavedObjects))
	}
	if resp.SavedObjects[0].Title() != "One" {
		t.Errorf("first object title = %q", resp.SavedObjects[0].Title())
	}
}

func TestHTTPClient_FindObjects_ServerError(t *testing.T) {
	h := &testHandler{
		statusCode:   http.StatusInternalServerError,
		responseBody: `{"statusCode": 500, "error": "Internal Server Error", "message": "boom"}`,
	}
	c, srv := newTestClient(h)
	defer srv.Close()

	_, err := c.FindObjects(context.Background(), &FindRequest{Types: []model.ObjectType{model.TypeDashboard}})
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if IsNotFound(err) {
		t.Error("IsNotFound() = true for a 500 error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("error = %v, want APIError with status 500", err)
	}
}
