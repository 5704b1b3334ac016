// Package crawl implements the URL discovery engine behind llms.txt
// generation: robots.txt sitemap directives, well-known sitemap paths,
// recursive sitemap-index expansion, and a same-domain link-following
// fallback, followed by bounded per-page fetch and extraction.
package crawl

import (
	"context"
	"log/slog"
	"sync"
)

// Crawler runs one site discovery. Each instance owns its own trail and
// stats; instances are not reused across invocations.
type Crawler struct {
	opts    Options
	fetcher Fetcher
	trail   *Trail
	stats   Stats
}

func New(opts Options) *Crawler {
	opts = opts.withDefaults()
	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = newHTTPFetcher(opts.Timeout, opts.UserAgent)
	}
	return &Crawler{
		opts:    opts,
		fetcher: fetcher,
		trail:   &Trail{},
	}
}

// Stats exposes the pipeline counters for the finished (or cancelled)
// crawl.
func (c *Crawler) Stats() *Stats { return &c.stats }

// Discover finds the pages of the site rooted at rawBase and extracts a
// record for each. Strategies run in fixed order: robots.txt sitemap
// directives, then well-known sitemap paths, then sitemap expansion,
// then a breadth-first link crawl when no sitemap yielded anything.
//
// Individual fetch and parse failures are logged to the trail and
// skipped. The two empty outcomes are returned as ErrNoURLsDiscovered
// and ErrNoPagesExtracted; both come with a Result carrying the full
// trail. Cancelling ctx stops new fetches promptly and returns the
// pages extracted so far as a partial result.
func (c *Crawler) Discover(ctx context.Context, rawBase string) (*Result, error) {
	base := NormalizeBase(rawBase)
	c.trail.Logf("Starting crawl of %s", base)

	sitemapURLs := c.resolveSitemaps(ctx, base)

	var urls []string
	if len(sitemapURLs) > 0 {
		urls = c.expandSitemaps(ctx, sitemapURLs)
		c.trail.Logf("Found %d URLs from sitemaps", len(urls))
	}
	if len(urls) == 0 {
		urls = c.crawlFromHomepage(ctx, base)
	}

	urls = dedupe(urls)
	if len(urls) > c.opts.MaxURLs {
		urls = urls[:c.opts.MaxURLs]
	}
	c.trail.Logf("Discovered %d unique URLs", len(urls))
	c.stats.Discovered.Add(int64(len(urls)))

	if len(urls) == 0 {
		return &Result{Log: c.trail.Entries()}, ErrNoURLsDiscovered
	}

	pages := c.extractPages(ctx, urls, base)
	c.trail.Logf("Complete! Crawled %d pages", len(pages))
	slog.Info("crawl finished",
		"base", base,
		"discovered", c.stats.Discovered.Load(),
		"extracted", c.stats.Extracted.Load(),
		"fetch_errors", c.stats.FetchErrors.Load(),
	)

	result := &Result{Pages: pages, Log: c.trail.Entries()}
	if len(pages) == 0 {
		return result, ErrNoPagesExtracted
	}
	return result, nil
}

// resolveSitemaps locates candidate sitemap URLs. robots.txt directives
// win; the well-known path probe only runs when robots.txt names none.
func (c *Crawler) resolveSitemaps(ctx context.Context, base string) []string {
	c.trail.Logf("Checking robots.txt")
	robots, err := c.fetcher.Fetch(ctx, base+"/robots.txt")
	if err != nil {
		c.trail.Logf("Failed to fetch robots.txt: %v", err)
	} else if sitemaps := SitemapsFromRobots(robots); len(sitemaps) > 0 {
		c.trail.Logf("Found %d sitemap(s) in robots.txt", len(sitemaps))
		return sitemaps
	}
	return c.probeWellKnownSitemaps(ctx, base)
}

// extractPages fetches every discovered URL and builds its Page record.
// Fetches fan out across a bounded worker pool; results land in a slice
// indexed by discovery position, so the returned order is the discovery
// order no matter how the workers interleave. One failed fetch never
// affects its siblings.
func (c *Crawler) extractPages(ctx context.Context, urls []string, base string) []Page {
	c.trail.Logf("Extracting page information...")

	type job struct {
		idx int
		url string
	}

	jobs := make(chan job)
	results := make([]*Page, len(urls))

	var wg sync.WaitGroup
	workers := c.opts.Concurrency
	if workers > len(urls) {
		workers = len(urls)
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				c.trail.Logf("[%d/%d] Fetching: %s", j.idx+1, len(urls), j.url)
				html, err := c.fetcher.Fetch(ctx, j.url)
				c.stats.Fetched.Add(1)
				if err != nil {
					c.trail.Logf("Failed to fetch %s: %v", j.url, err)
					c.stats.FetchErrors.Add(1)
					continue
				}
				page := ExtractPage(j.url, html, base)
				c.stats.Extracted.Add(1)
				// Workers write disjoint indices, no lock needed.
				results[j.idx] = &page
			}
		}()
	}

	for i, u := range urls {
		select {
		case jobs <- job{idx: i, url: u}:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return collectPages(results)
		}
	}
	close(jobs)
	wg.Wait()

	return collectPages(results)
}

func collectPages(results []*Page) []Page {
	pages := make([]Page, 0, len(results))
	for _, p := range results {
		if p != nil {
			pages = append(pages, *p)
		}
	}
	return pages
}

func dedupe(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := urls[:0]
	for _, u := range urls {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
