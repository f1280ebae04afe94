// Package kibana provides a transport-agnostic interface for the Kibana
// saved-objects API and an HTTP/JSON implementation. The analysis engine
// consumes exactly two capabilities: single-object reads and filtered finds.
package kibana

import (
	"context"
	"encoding/json"

	"github.com/groblegark/soscope/internal/model"
)

// Client is the read-only saved-objects interface the analysis engine runs
// against. It is implemented by HTTPClient (default) and by test doubles.
type Client interface {
	// GetObject fetches one saved object by exact type and id.
	// A missing object is reported as an *APIError with status 404;
	// use IsNotFound to distinguish it from transport failures.
	GetObject(ctx context.Context, typ model.ObjectType, id string, opts GetOptions) (*SavedObject, error)

	// FindObjects runs a filtered search over saved objects. It is the
	// reverse-lookup and listing primitive: with HasReference set it
	// returns every object of the requested types that declares a
	// reference to the target.
	FindObjects(ctx context.Context, req *FindRequest) (*FindResponse, error)

	// Lifecycle
	Close() error
}

// GetOptions holds optional parameters for GetObject.
type GetOptions struct {
	// Space selects the Kibana space; empty means the default space.
	Space string
}

// SavedObject is a stored configuration entity as returned by the API.
// Attributes are kept raw; callers unmarshal the subset they understand.
type SavedObject struct {
	ID         string            `json:"id"`
	Type       model.ObjectType  `json:"type"`
	Attributes json.RawMessage   `json:"attributes"`
	References []model.Reference `json:"references"`
	UpdatedAt  string            `json:"updated_at,omitempty"`

	// Error is set on individual _find results the server could not
	// resolve (for example objects in an inaccessible namespace). Such
	// entries carry no attributes.
	Error *ObjectError `json:"error,omitempty"`
}

// ObjectError is a per-object error embedded in a find result.
type ObjectError struct {
	StatusCode int    `json:"statusCode"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

// Key returns the object's identity.
func (o *SavedObject) Key() model.ObjectKey {
	return model.ObjectKey{Type: o.Type, ID: o.ID}
}

// Title unmarshals the conventional title attribute, returning the empty
// string when the object has no title or the attributes are malformed.
func (o *SavedObject) Title() string {
	var attrs struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(o.Attributes, &attrs); err != nil {
		return ""
	}
	return attrs.Title
}

// HasReference narrows a find to objects declaring a reference to one target.
type HasReference struct {
	Type model.ObjectType `json:"type"`
	ID   string           `json:"id"`
}

// FindRequest holds parameters for FindObjects.
type FindRequest struct {
	Types        []model.ObjectType `json:"types"`
	HasReference *HasReference      `json:"has_reference,omitempty"`
	Search       string             `json:"search,omitempty"`
	SearchFields []string           `json:"search_fields,omitempty"`
	Fields       []string           `json:"fields,omitempty"`
	PerPage      int                `json:"per_page,omitempty"`
	Page         int                `json:"page,omitempty"`
	Space        string             `json:"space,omitempty"`
}

// FindResponse is the response from FindObjects.
type FindResponse struct {
	SavedObjects []*SavedObject `json:"saved_objects"`
	Total        int            `json:"total"`
	PerPage      int            `json:"per_page"`
	Page         int            `json:"page"`
}
