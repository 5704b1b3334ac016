package crawl

import "context"

// crawlFromHomepage is the breadth-first fallback used when no sitemap
// produced a single URL. It walks same-domain links from the base page
// until the frontier empties or maxURLs pages have been fetched
// successfully. A URL that fails to fetch is consumed without being
// counted, so a run of dead links cannot stall the loop.
func (c *Crawler) crawlFromHomepage(ctx context.Context, base string) []string {
	c.trail.Logf("No sitemap found. Crawling from homepage...")

	frontier := []string{base}
	visited := make(map[string]struct{})
	queued := map[string]struct{}{base: {}}
	var discovered []string

	for len(frontier) > 0 && len(discovered) < c.opts.MaxURLs {
		if ctx.Err() != nil {
			break
		}

		current := frontier[0]
		frontier = frontier[1:]

		if _, ok := visited[current]; ok {
			continue
		}
		visited[current] = struct{}{}

		c.trail.Logf("Crawling: %s", current)
		html, err := c.fetcher.Fetch(ctx, current)
		if err != nil {
			c.trail.Logf("Failed to fetch %s: %v", current, err)
			c.stats.FetchErrors.Add(1)
			continue
		}

		discovered = append(discovered, current)

		for _, link := range ExtractLinks(html, current, base) {
			if _, ok := visited[link]; ok {
				continue
			}
			if _, ok := queued[link]; ok {
				continue
			}
			queued[link] = struct{}{}
			frontier = append(frontier, link)
		}
	}

	return discovered
}
