package model

import (
	"fmt"
	"strings"
)

// ObjectType identifies the kind of a saved object.
// Well-known constants are provided below, but object types are extensible;
// any non-empty value returned by the saved-objects API is accepted.
type ObjectType string

const (
	TypeDashboard     ObjectType = "dashboard"
	TypeVisualization ObjectType = "visualization"
	TypeLens          ObjectType = "lens"
	TypeSearch        ObjectType = "search"
	TypeMap           ObjectType = "map"
	TypeIndexPattern  ObjectType = "index-pattern"
	TypeTag           ObjectType = "tag"
)

// String returns the string representation of the object type.
func (t ObjectType) String() string {
	return string(t)
}

// IsValid reports whether the object type is non-empty.
func (t ObjectType) IsValid() bool {
	return t != ""
}

// ConsumerTypes are the saved-object types that can declare references to
// other objects and are searched during impact analysis.
var ConsumerTypes = []ObjectType{
	TypeDashboard,
	TypeVisualization,
	TypeLens,
	TypeSearch,
	TypeMap,
}

// ObjectKey identifies a saved object by type and id. It is comparable and
// used as the node identity in dependency graphs.
type ObjectKey struct {
	Type ObjectType `json:"type"`
	ID   string     `json:"id"`
}

// String returns a "type/id" rendering for logs and messages.
func (k ObjectKey) String() string {
	return fmt.Sprintf("%s/%s", k.Type, k.ID)
}

// IsValid reports whether both type and id are set.
func (k ObjectKey) IsValid() bool {
	return k.Type.IsValid() && k.ID != ""
}

// ParseKey parses a "type/id" string into an ObjectKey. The id portion may
// itself contain slashes.
func ParseKey(s string) (ObjectKey, error) {
	typ, id, ok := strings.Cut(s, "/")
	key := ObjectKey{Type: ObjectType(typ), ID: id}
	if !ok || !key.IsValid() {
		return ObjectKey{}, fmt.Errorf("invalid object key %q, want type/id", s)
	}
	return key, nil
}

// Reference is a declared, named edge from one saved object to another.
// The name is the local role label used by the owning object (for example
// which panel slot the target fills).
type Reference struct {
	ID   string     `json:"id"`
	Type ObjectType `json:"type"`
	Name string     `json:"name"`
}

// Key returns the referenced object's key.
func (r Reference) Key() ObjectKey {
	return ObjectKey{Type: r.Type, ID: r.ID}
}
