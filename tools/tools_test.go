package tools_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kartik-syal/facebook-ads-ai-assistant/internal/adsapi"
	"github.com/kartik-syal/facebook-ads-ai-assistant/tools"
)

// deadAPI returns a client whose every request fails the test. Used by
// validation cases that must reject arguments before any network call.
func deadAPI(t *testing.T) *adsapi.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected API call: %s %s", r.Method, r.URL.Path)
		w.WriteHeader(http.StatusTeapot)
	}))
	t.Cleanup(srv.Close)
	api := adsapi.New(adsapi.Config{BaseURL: srv.URL, AccessToken: "tok", AdAccountID: "123"})
	t.Cleanup(func() { _ = api.Close() })
	return api
}

func TestMoneyAmount_UnmarshalForms(t *testing.T) {
	cases := []struct {
		in        string
		wantCents int
	}{
		{`10`, 1000},
		{`10.5`, 1050},
		{`"10"`, 1000},
		{`"$10.50"`, 1050},
		{`"$ 7"`, 700},
		{`0.5`, 50},
		{`19.99`, 1999},
	}
	for _, tc := range cases {
		var m tools.MoneyAmount
		if err := json.Unmarshal([]byte(tc.in), &m); err != nil {
			t.Errorf("unmarshal %s: %v", tc.in, err)
			continue
		}
		if got := m.Cents(); got != tc.wantCents {
			t.Errorf("%s -> %d cents, want %d", tc.in, got, tc.wantCents)
		}
	}
}

func TestMoneyAmount_RejectsGarbage(t *testing.T) {
	var m tools.MoneyAmount
	if err := json.Unmarshal([]byte(`"ten dollars"`), &m); err == nil {
		t.Fatal("expected an error for a non-numeric amount")
	}
}

func TestGenerateSchema_ListsRequiredProperties(t *testing.T) {
	schema := tools.GetPostsInputSchema
	props, ok := schema["properties"].(map[string]any)
	if !ok {
		t.Fatalf("schema has no properties map: %v", schema)
	}
	for _, name := range []string{"since", "until"} {
		if _, ok := props[name]; !ok {
			t.Errorf("schema missing property %q", name)
		}
	}
}

func TestRegistry_ActionNames(t *testing.T) {
	defs := tools.Registry(deadAPI(t), "page-1")
	want := map[string]struct{}{
		"GetPosts":       {},
		"CreateCampaign": {},
		"BoostPosts":     {},
	}
	if len(defs) != len(want) {
		t.Fatalf("unexpected number of actions: got %d want %d", len(defs), len(want))
	}
	for _, d := range defs {
		if _, ok := want[d.Name]; !ok {
			t.Errorf("unexpected action in registry: %q", d.Name)
		}
		if d.InputSchema == nil {
			t.Errorf("action %q has no input schema", d.Name)
		}
		if d.Function == nil {
			t.Errorf("action %q has no handler", d.Name)
		}
	}
}
