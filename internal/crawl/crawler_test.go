package crawl

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func pageHTML(title string, links ...string) string {
	var b strings.Builder
	b.WriteString("<html><head><title>" + title + "</title></head><body>")
	for _, l := range links {
		b.WriteString(`<a href="` + l + `">link</a>`)
	}
	b.WriteString("</body></html>")
	return b.String()
}

func pageURLs(pages []Page) []string {
	urls := make([]string, len(pages))
	for i, p := range pages {
		urls[i] = p.URL
	}
	return urls
}

// -- Discover via sitemap ------------------------------------------------------

func TestDiscover_RobotsSitemapPath(t *testing.T) {
	f := newMapFetcher(map[string]string{
		base + "/robots.txt": "Sitemap: https://x.com/s.xml\n",
		base + "/s.xml":      urlset(base+"/", base+"/blog/a"),
		base + "/":           pageHTML("Home"),
		base + "/blog/a":     pageHTML("Post A"),
	})
	c := New(Options{Fetcher: f, Concurrency: 1})

	result, err := c.Discover(context.Background(), base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{base + "/", base + "/blog/a"}
	if !reflect.DeepEqual(pageURLs(result.Pages), want) {
		t.Errorf("pages = %v, want %v", pageURLs(result.Pages), want)
	}
	if f.requested(base + "/sitemap.xml") {
		t.Error("well-known probe ran even though robots.txt named a sitemap")
	}
}

func TestDiscover_WellKnownProbeWhenRobotsSilent(t *testing.T) {
	f := newMapFetcher(map[string]string{
		base + "/robots.txt":  "User-agent: *\nDisallow:\n",
		base + "/sitemap.xml": urlset(base + "/docs"),
		base + "/docs":        pageHTML("Docs"),
	})
	c := New(Options{Fetcher: f, Concurrency: 1})

	result, err := c.Discover(context.Background(), base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(pageURLs(result.Pages), []string{base + "/docs"}) {
		t.Errorf("pages = %v", pageURLs(result.Pages))
	}
}

func TestDiscover_CapsAndDeduplicates(t *testing.T) {
	bodies := map[string]string{
		base + "/robots.txt": "Sitemap: https://x.com/s.xml\n",
	}
	var locs []string
	for i := 0; i < 30; i++ {
		u := fmt.Sprintf("%s/p/%02d", base, i)
		locs = append(locs, u, u) // every URL listed twice
		bodies[u] = pageHTML(fmt.Sprintf("Page %d", i))
	}
	bodies[base+"/s.xml"] = urlset(locs...)

	c := New(Options{Fetcher: newMapFetcher(bodies), MaxURLs: 5, Concurrency: 1})
	result, err := c.Discover(context.Background(), base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Pages) != 5 {
		t.Fatalf("got %d pages, want 5", len(result.Pages))
	}
	seen := make(map[string]bool)
	for _, p := range result.Pages {
		if seen[p.URL] {
			t.Errorf("duplicate page %s", p.URL)
		}
		seen[p.URL] = true
	}
}

func TestDiscover_FetchFailureSkipsPageOnly(t *testing.T) {
	f := newMapFetcher(map[string]string{
		base + "/robots.txt": "Sitemap: https://x.com/s.xml\n",
		base + "/s.xml":      urlset(base+"/ok", base+"/broken", base+"/also-ok"),
		base + "/ok":         pageHTML("OK"),
		base + "/also-ok":    pageHTML("Also OK"),
	})
	c := New(Options{Fetcher: f, Concurrency: 1})

	result, err := c.Discover(context.Background(), base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{base + "/ok", base + "/also-ok"}
	if !reflect.DeepEqual(pageURLs(result.Pages), want) {
		t.Errorf("pages = %v, want %v", pageURLs(result.Pages), want)
	}
	if c.Stats().FetchErrors.Load() == 0 {
		t.Error("fetch error not counted")
	}
}

func TestDiscover_ParallelExtractionKeepsDiscoveryOrder(t *testing.T) {
	bodies := map[string]string{
		base + "/robots.txt": "Sitemap: https://x.com/s.xml\n",
	}
	var locs []string
	for i := 0; i < 12; i++ {
		u := fmt.Sprintf("%s/p/%02d", base, i)
		locs = append(locs, u)
		bodies[u] = pageHTML(fmt.Sprintf("Page %d", i))
	}
	bodies[base+"/s.xml"] = urlset(locs...)

	c := New(Options{Fetcher: newMapFetcher(bodies), Concurrency: 8})
	result, err := c.Discover(context.Background(), base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(pageURLs(result.Pages), locs) {
		t.Errorf("pages out of discovery order: %v", pageURLs(result.Pages))
	}
}

// -- Discover via homepage fallback --------------------------------------------

func TestDiscover_FallsBackToFrontierCrawl(t *testing.T) {
	f := newMapFetcher(map[string]string{
		base:            pageHTML("Home", "/a", "/b", "https://other.com/out"),
		base + "/a":     pageHTML("A", "/b", "/c"),
		base + "/b":     pageHTML("B"),
		base + "/c":     pageHTML("C"),
		base + "/about": pageHTML("About"),
	})
	c := New(Options{Fetcher: f, Concurrency: 1})

	result, err := c.Discover(context.Background(), base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{base, base + "/a", base + "/b", base + "/c"}
	if !reflect.DeepEqual(pageURLs(result.Pages), want) {
		t.Errorf("pages = %v, want %v", pageURLs(result.Pages), want)
	}
}

func TestDiscover_FrontierHonorsMaxURLs(t *testing.T) {
	bodies := map[string]string{}
	var links []string
	for i := 0; i < 10; i++ {
		u := fmt.Sprintf("/page-%d", i)
		links = append(links, u)
		bodies[base+u] = pageHTML(fmt.Sprintf("Page %d", i))
	}
	bodies[base] = pageHTML("Home", links...)

	c := New(Options{Fetcher: newMapFetcher(bodies), MaxURLs: 3, Concurrency: 1})
	result, err := c.Discover(context.Background(), base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Pages) != 3 {
		t.Errorf("got %d pages, want 3", len(result.Pages))
	}
}

func TestDiscover_FrontierSkipsDeadLinks(t *testing.T) {
	f := newMapFetcher(map[string]string{
		base:           pageHTML("Home", "/dead", "/live"),
		base + "/live": pageHTML("Live"),
	})
	c := New(Options{Fetcher: f, Concurrency: 1})

	result, err := c.Discover(context.Background(), base)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{base, base + "/live"}
	if !reflect.DeepEqual(pageURLs(result.Pages), want) {
		t.Errorf("pages = %v, want %v", pageURLs(result.Pages), want)
	}
}

// -- Failed outcomes -----------------------------------------------------------

func TestDiscover_NoURLsDiscovered(t *testing.T) {
	c := New(Options{Fetcher: newMapFetcher(nil), Concurrency: 1})

	result, err := c.Discover(context.Background(), base)
	if !errors.Is(err, ErrNoURLsDiscovered) {
		t.Fatalf("err = %v, want ErrNoURLsDiscovered", err)
	}
	if len(result.Log) == 0 {
		t.Error("failed outcome should still carry the trail")
	}
}

func TestDiscover_NoPagesExtracted(t *testing.T) {
	// The sitemap names pages but every page fetch fails.
	f := newMapFetcher(map[string]string{
		base + "/robots.txt": "Sitemap: https://x.com/s.xml\n",
		base + "/s.xml":      urlset(base+"/gone", base+"/also-gone"),
	})
	c := New(Options{Fetcher: f, Concurrency: 1})

	result, err := c.Discover(context.Background(), base)
	if !errors.Is(err, ErrNoPagesExtracted) {
		t.Fatalf("err = %v, want ErrNoPagesExtracted", err)
	}
	if len(result.Pages) != 0 {
		t.Errorf("pages = %v", result.Pages)
	}
	if len(result.Log) == 0 {
		t.Error("failed outcome should still carry the trail")
	}
}

func TestDiscover_CancelledContextReturnsPartialResult(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := newMapFetcher(map[string]string{
		base + "/robots.txt": "Sitemap: https://x.com/s.xml\n",
	})
	c := New(Options{Fetcher: f, Concurrency: 1})

	result, err := c.Discover(ctx, base)
	if err == nil {
		t.Fatal("expected a failed outcome under a cancelled context")
	}
	if result == nil {
		t.Fatal("cancelled crawl must still return a result with the trail")
	}
}
