package crawl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHTTPFetcher_Returns2xxBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); !strings.HasPrefix(got, "FreeLLMsTxt-Bot/") {
			t.Errorf("unexpected User-Agent %q", got)
		}
		w.Write([]byte("<html><body>hello</body></html>"))
	}))
	defer srv.Close()

	f := newHTTPFetcher(5*time.Second, defaultUserAgent)
	body, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(body, "hello") {
		t.Errorf("body = %q", body)
	}
}

func TestHTTPFetcher_NonSuccessStatusIsError(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusInternalServerError, http.StatusForbidden} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))
		f := newHTTPFetcher(5*time.Second, defaultUserAgent)
		if _, err := f.Fetch(context.Background(), srv.URL); err == nil {
			t.Errorf("expected error for HTTP %d", status)
		}
		srv.Close()
	}
}

func TestHTTPFetcher_FollowsRedirects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/old" {
			http.Redirect(w, r, "/new", http.StatusMovedPermanently)
			return
		}
		w.Write([]byte("landed"))
	}))
	defer srv.Close()

	f := newHTTPFetcher(5*time.Second, defaultUserAgent)
	body, err := f.Fetch(context.Background(), srv.URL+"/old")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body != "landed" {
		t.Errorf("body = %q", body)
	}
}

func TestHTTPFetcher_TimeoutDegradesSingleFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	f := newHTTPFetcher(50*time.Millisecond, defaultUserAgent)
	if _, err := f.Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("expected timeout error")
	}
}
