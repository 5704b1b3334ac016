package crawl

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Page is one discovered page. Built once during extraction and not
// modified afterwards.
type Page struct {
	URL            string   `json:"url"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	ContentPreview string   `json:"content_preview"`
	Links          []string `json:"links"`
}

// Result is the outcome of one Discover invocation.
type Result struct {
	Pages []Page
	Log   []string
}

// Stats counts pipeline progress for one Crawler. Counters are atomic so
// the parallel extraction phase can bump them without extra locking.
type Stats struct {
	Discovered  atomic.Int64
	Fetched     atomic.Int64
	FetchErrors atomic.Int64
	Extracted   atomic.Int64
}

// Trail is the append-only diagnostic log threaded through a single
// crawl. It replaces process-wide console output so concurrent crawls
// never share mutable state.
type Trail struct {
	mu      sync.Mutex
	entries []string
}

func (t *Trail) Logf(format string, args ...any) {
	t.mu.Lock()
	t.entries = append(t.entries, fmt.Sprintf(format, args...))
	t.mu.Unlock()
}

// Entries returns a copy of the trail in append order.
func (t *Trail) Entries() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.entries))
	copy(out, t.entries)
	return out
}

// Distinct failed outcomes a caller may need to branch on. Both still
// carry the full trail in the accompanying Result.
var (
	ErrNoURLsDiscovered = errors.New("no URLs discovered by any strategy")
	ErrNoPagesExtracted = errors.New("no pages could be extracted")
)

// Options configures a Crawler. Zero values fall back to the defaults
// the original service shipped with.
type Options struct {
	MaxURLs     int           // cap on discovered pages, default 20
	Timeout     time.Duration // per-fetch timeout, default 10s
	Concurrency int           // extraction workers, default 4; 1 is fully sequential
	UserAgent   string
	Fetcher     Fetcher // overrides the HTTP fetcher, used by tests
}

const (
	defaultMaxURLs     = 20
	defaultTimeout     = 10 * time.Second
	defaultConcurrency = 4
	defaultUserAgent   = "FreeLLMsTxt-Bot/1.0 (Generating llms.txt)"
)

func (o Options) withDefaults() Options {
	if o.MaxURLs <= 0 {
		o.MaxURLs = defaultMaxURLs
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.Concurrency <= 0 {
		o.Concurrency = defaultConcurrency
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUserAgent
	}
	return o
}
