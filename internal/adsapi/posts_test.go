package adsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func pagedPostsServer(t *testing.T, pages [][]rawPost, failFrom int) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		idx := 0
		if c := r.URL.Query().Get("cursor"); c != "" {
			fmt.Sscanf(c, "%d", &idx)
		}
		w.Header().Set("Content-Type", "application/json")
		if failFrom >= 0 && idx >= failFrom {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": "transient", "code": 1},
			})
			return
		}
		var page postsPage
		page.Data = pages[idx]
		if idx+1 < len(pages) {
			page.Paging.Next = fmt.Sprintf("%s/page-1/posts?cursor=%d", srv.URL, idx+1)
		}
		_ = json.NewEncoder(w).Encode(page)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func fetchWindow() (time.Time, time.Time) {
	since := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	return since, since.AddDate(0, 1, 0)
}

func TestFetchPosts_FollowsPagination(t *testing.T) {
	srv := pagedPostsServer(t, [][]rawPost{
		{{ID: "p1", CreatedTime: "2024-02-01T10:00:00+0000", Message: "first"}},
		{{ID: "p2", Message: "second"}},
		{{ID: "p3", CreatedTime: "2024-02-03T10:00:00+0000", Message: "third"}},
	}, -1)
	api := New(Config{BaseURL: srv.URL, AccessToken: "tok"})
	defer api.Close()

	since, until := fetchWindow()
	posts, err := api.FetchPosts(context.Background(), "page-1", since, until)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("got %d posts, want 3", len(posts))
	}
	if posts[0].ID != "p1" || posts[1].ID != "p2" || posts[2].ID != "p3" {
		t.Errorf("platform order not preserved: %+v", posts)
	}
	if posts[1].CreatedTime != "N/A" {
		t.Errorf("missing created_time should read N/A, got %q", posts[1].CreatedTime)
	}
}

func TestFetchPosts_ContinuationFailureTruncates(t *testing.T) {
	srv := pagedPostsServer(t, [][]rawPost{
		{{ID: "p1", Message: "first"}},
		{{ID: "p2", Message: "second"}},
	}, 1)
	api := New(Config{BaseURL: srv.URL, AccessToken: "tok"})
	defer api.Close()

	since, until := fetchWindow()
	posts, err := api.FetchPosts(context.Background(), "page-1", since, until)
	if err != nil {
		t.Fatalf("continuation failure must not fail the fetch: %v", err)
	}
	if len(posts) != 1 || posts[0].ID != "p1" {
		t.Fatalf("expected the first page only, got %+v", posts)
	}
}

func TestFetchPosts_FirstPageFailureFails(t *testing.T) {
	srv := pagedPostsServer(t, [][]rawPost{{}}, 0)
	api := New(Config{BaseURL: srv.URL, AccessToken: "tok"})
	defer api.Close()

	since, until := fetchWindow()
	if _, err := api.FetchPosts(context.Background(), "page-1", since, until); err == nil {
		t.Fatal("first-page failure must be reported")
	}
}

func TestFetchPosts_SendsWindowAndFields(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = map[string]string{}
		for k := range r.URL.Query() {
			got[k] = r.URL.Query().Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(postsPage{})
	}))
	defer srv.Close()
	api := New(Config{BaseURL: srv.URL, AccessToken: "tok"})
	defer api.Close()

	since, until := fetchWindow()
	if _, err := api.FetchPosts(context.Background(), "page-1", since, until); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got["since"] != since.Format(time.RFC3339) || got["until"] != until.Format(time.RFC3339) {
		t.Errorf("time window not forwarded: %v", got)
	}
	if got["fields"] != "id,created_time,message,full_picture,permalink_url" {
		t.Errorf("fields = %q", got["fields"])
	}
	if got["access_token"] != "tok" {
		t.Errorf("access token missing: %v", got)
	}
}
