package tools_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kartik-syal/facebook-ads-ai-assistant/internal/adsapi"
	"github.com/kartik-syal/facebook-ads-ai-assistant/internal/faults"
	"github.com/kartik-syal/facebook-ads-ai-assistant/tools"
)

// boostAPI serves the adset/adcreative/ad creation endpoints with
// predictable IDs and records the forms it receives per path.
func boostAPI(t *testing.T) (*adsapi.Client, map[string][]map[string]string) {
	t.Helper()
	forms := map[string][]map[string]string{}
	var nextAd int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		form := map[string]string{}
		for k := range r.PostForm {
			form[k] = r.PostForm.Get(k)
		}
		forms[r.URL.Path] = append(forms[r.URL.Path], form)

		var id string
		switch r.URL.Path {
		case "/act_123/adsets":
			id = "adset-1"
		case "/act_123/adcreatives":
			id = "creative-" + form["object_story_id"]
		case "/act_123/ads":
			nextAd++
			id = fmt.Sprintf("ad-%d", nextAd)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"id": id})
	}))
	t.Cleanup(srv.Close)
	api := adsapi.New(adsapi.Config{BaseURL: srv.URL, AccessToken: "tok", AdAccountID: "123"})
	t.Cleanup(func() { _ = api.Close() })
	return api, forms
}

func TestBoostPosts_Success(t *testing.T) {
	api, forms := boostAPI(t)
	def := tools.NewBoostPosts(api)

	out, err := def.Function(context.Background(),
		[]byte(`{"campaign_id":"camp-1","post_ids":["p1","p2"],"bid_amount":"$0.50"}`))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := "Boosted 2 posts under ad set adset-1. Ad IDs: [ad-1 ad-2]"
	if out != want {
		t.Fatalf("result text = %q, want %q", out, want)
	}

	adsets := forms["/act_123/adsets"]
	if len(adsets) != 1 {
		t.Fatalf("expected one ad set, got %d", len(adsets))
	}
	if adsets[0]["optimization_goal"] != "POST_ENGAGEMENT" {
		t.Errorf("optimization_goal default missing: %q", adsets[0]["optimization_goal"])
	}
	if adsets[0]["bid_amount"] != "50" {
		t.Errorf("bid not converted to minor units: %q", adsets[0]["bid_amount"])
	}
	if !strings.Contains(adsets[0]["targeting"], `"US"`) {
		t.Errorf("default geo targeting missing: %q", adsets[0]["targeting"])
	}
	if len(forms["/act_123/adcreatives"]) != 2 || len(forms["/act_123/ads"]) != 2 {
		t.Fatalf("expected one creative and one ad per post, got %d/%d",
			len(forms["/act_123/adcreatives"]), len(forms["/act_123/ads"]))
	}
	for _, ad := range forms["/act_123/ads"] {
		if ad["status"] != "PAUSED" {
			t.Errorf("ads must be created paused, got %q", ad["status"])
		}
		if ad["adset_id"] != "adset-1" {
			t.Errorf("ad not attached to the new ad set: %q", ad["adset_id"])
		}
	}
}

func TestBoostPosts_GeoNormalization(t *testing.T) {
	api, forms := boostAPI(t)
	def := tools.NewBoostPosts(api)

	_, err := def.Function(context.Background(),
		[]byte(`{"campaign_id":"camp-1","post_ids":["p1"],"bid_amount":1,"geo_locations":[" gb ","de"]}`))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	targeting := forms["/act_123/adsets"][0]["targeting"]
	if !strings.Contains(targeting, `"GB"`) || !strings.Contains(targeting, `"DE"`) {
		t.Fatalf("country codes not normalized: %q", targeting)
	}
}

func TestBoostPosts_Validation(t *testing.T) {
	def := tools.NewBoostPosts(deadAPI(t))
	cases := []struct {
		name string
		args string
	}{
		{"empty campaign", `{"campaign_id":" ","post_ids":["p1"],"bid_amount":1}`},
		{"no posts", `{"campaign_id":"c","post_ids":[],"bid_amount":1}`},
		{"zero bid", `{"campaign_id":"c","post_ids":["p1"],"bid_amount":0}`},
		{"bad country code", `{"campaign_id":"c","post_ids":["p1"],"bid_amount":1,"geo_locations":["USA"]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := def.Function(context.Background(), []byte(tc.args))
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if faults.KindOf(err) != faults.KindValidation {
				t.Fatalf("kind = %s, want validation", faults.KindOf(err))
			}
		})
	}
}

func TestBoostPosts_MidSequenceFailure(t *testing.T) {
	var adCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/act_123/adsets", "/act_123/adcreatives":
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "obj-1"})
		case "/act_123/ads":
			adCalls++
			if adCalls == 2 {
				w.WriteHeader(http.StatusBadRequest)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"error": map[string]any{"message": "Post not boostable", "code": 10},
				})
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "ad-1"})
		}
	}))
	defer srv.Close()
	api := adsapi.New(adsapi.Config{BaseURL: srv.URL, AccessToken: "tok", AdAccountID: "123"})
	defer api.Close()

	def := tools.NewBoostPosts(api)
	_, err := def.Function(context.Background(),
		[]byte(`{"campaign_id":"camp-1","post_ids":["p1","p2"],"bid_amount":1}`))
	if err == nil {
		t.Fatal("expected failure on the second ad")
	}
	if faults.KindOf(err) != faults.KindPlatform {
		t.Fatalf("kind = %s, want platform", faults.KindOf(err))
	}
	if !strings.Contains(err.Error(), "Post not boostable") {
		t.Fatalf("remote message lost: %v", err)
	}
}
