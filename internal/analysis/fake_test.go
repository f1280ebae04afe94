package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"testing"

	"github.com/groblegark/soscope/internal/kibana"
	"github.com/groblegark/soscope/internal/model"
)

// fakeClient is an in-memory kibana.Client. FindObjects scans the object set
// unless findFunc overrides it; forced per-object errors simulate outages.
type fakeClient struct {
	objects  map[model.ObjectKey]*kibana.SavedObject
	getErr   map[model.ObjectKey]error
	findFunc func(req *kibana.FindRequest) (*kibana.FindResponse, error)

	getCalls  []model.ObjectKey
	findCalls []*kibana.FindRequest
}

var _ kibana.Client = (*fakeClient)(nil)

func newFakeClient() *fakeClient {
	return &fakeClient{
		objects: make(map[model.ObjectKey]*kibana.SavedObject),
		getErr:  make(map[model.ObjectKey]error),
	}
}

func (f *fakeClient) add(obj *kibana.SavedObject) {
	f.objects[obj.Key()] = obj
}

func (f *fakeClient) GetObject(_ context.Context, typ model.ObjectType, id string, _ kibana.GetOptions) (*kibana.SavedObject, error) {
	key := model.ObjectKey{Type: typ, ID: id}
	f.getCalls = append(f.getCalls, key)
	if err, ok := f.getErr[key]; ok {
		return nil, err
	}
	obj, ok := f.objects[key]
	if !ok {
		return nil, &kibana.APIError{
			StatusCode: http.StatusNotFound,
			Message:    fmt.Sprintf("Saved object [%s] not found", key.String()),
		}
	}
	return obj, nil
}

func (f *fakeClient) FindObjects(_ context.Context, req *kibana.FindRequest) (*kibana.FindResponse, error) {
	f.findCalls = append(f.findCalls, req)
	if f.findFunc != nil {
		return f.findFunc(req)
	}

	var matches []*kibana.SavedObject
	for _, obj := range f.objects {
		if !typeListed(req.Types, obj.Type) {
			continue
		}
		if req.HasReference != nil && !declaresReference(obj, req.HasReference) {
			continue
		}
		matches = append(matches, obj)
	}
	total := len(matches)
	if req.PerPage > 0 && len(matches) > req.PerPage {
		matches = matches[:req.PerPage]
	}
	return &kibana.FindResponse{SavedObjects: matches, Total: total}, nil
}

func (f *fakeClient) Close() error { return nil }

func typeListed(types []model.ObjectType, t model.ObjectType) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}

func declaresReference(obj *kibana.SavedObject, target *kibana.HasReference) bool {
	for _, ref := range obj.References {
		if ref.Type == target.Type && ref.ID == target.ID {
			return true
		}
	}
	return false
}

// --- object builders ---

func testObject(t *testing.T, typ model.ObjectType, id, title string, refs ...model.Reference) *kibana.SavedObject {
	t.Helper()
	attrs, err := json.Marshal(map[string]string{"title": title})
	if err != nil {
		t.Fatalf("marshaling attributes: %v", err)
	}
	if refs == nil {
		refs = []model.Reference{}
	}
	return &kibana.SavedObject{ID: id, Type: typ, Attributes: attrs, References: refs}
}

// testDashboard builds a dashboard whose attributes carry a panelsJSON layout.
func testDashboard(t *testing.T, id, title string, panels []panelDescriptor, refs ...model.Reference) *kibana.SavedObject {
	t.Helper()
	layout, err := json.Marshal(panels)
	if err != nil {
		t.Fatalf("marshaling panels: %v", err)
	}
	attrs, err := json.Marshal(map[string]string{
		"title":      title,
		"panelsJSON": string(layout),
	})
	if err != nil {
		t.Fatalf("marshaling attributes: %v", err)
	}
	if refs == nil {
		refs = []model.Reference{}
	}
	return &kibana.SavedObject{ID: id, Type: model.TypeDashboard, Attributes: attrs, References: refs}
}

// vizPanel builds a healthy visualization panel descriptor wired to refName.
func vizPanel(index, refName string) panelDescriptor {
	p := panelDescriptor{
		PanelIndex:   index,
		Type:         "visualization",
		PanelRefName: refName,
	}
	p.GridData.W = 24
	p.GridData.H = 2
	return p
}

func newTestAnalyzer(f *fakeClient) *Analyzer {
	return New(f, slog.New(slog.DiscardHandler))
}
