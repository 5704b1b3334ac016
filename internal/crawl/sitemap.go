package crawl

import (
	"context"
	"encoding/xml"
	"regexp"
	"strings"
)

// wellKnownSitemapPaths is probed in order when robots.txt names no
// sitemap. The list mirrors the most common generator layouts
// (wp-sitemap.xml is WordPress).
var wellKnownSitemapPaths = []string{
	"/sitemap.xml",
	"/sitemap_index.xml",
	"/sitemap-index.xml",
	"/sitemaps.xml",
	"/sitemap1.xml",
	"/sitemap/sitemap.xml",
	"/wp-sitemap.xml",
	"/post-sitemap.xml",
	"/page-sitemap.xml",
}

// maxSitemapDepth bounds sitemap-index recursion. Entries nested deeper
// are dropped, which also terminates cyclic index graphs.
const maxSitemapDepth = 3

type sitemapLoc struct {
	Loc string `xml:"loc"`
}

// sitemapDoc decodes both document shapes: a <sitemapindex> fills
// Sitemaps, a plain <urlset> fills URLs. The root element name is not
// checked, matching the tolerant parse the rest of the pipeline uses.
type sitemapDoc struct {
	Sitemaps []sitemapLoc `xml:"sitemap"`
	URLs     []sitemapLoc `xml:"url"`
}

var xmlnsDecl = regexp.MustCompile(`xmlns[^"]*"[^"]*"`)

// parseSitemap splits a sitemap body into leaf URLs and nested sitemap
// references. Namespace declarations are stripped first so documents
// with inconsistent or broken namespace usage still decode; a body the
// decoder rejects yields an empty document.
func parseSitemap(body string) (leaves, nested []string) {
	cleaned := xmlnsDecl.ReplaceAllString(body, "")

	var doc sitemapDoc
	if err := xml.Unmarshal([]byte(cleaned), &doc); err != nil {
		return nil, nil
	}
	for _, s := range doc.Sitemaps {
		if loc := strings.TrimSpace(s.Loc); loc != "" {
			nested = append(nested, loc)
		}
	}
	for _, u := range doc.URLs {
		if loc := strings.TrimSpace(u.Loc); loc != "" {
			leaves = append(leaves, loc)
		}
	}
	return leaves, nested
}

// probeWellKnownSitemaps tries the fixed path list against the base
// origin and accepts the first body that looks like a sitemap. The
// early exit is deliberate: one valid sitemap is enough, and probing
// every variant would hammer sites that 200 on unknown paths.
func (c *Crawler) probeWellKnownSitemaps(ctx context.Context, base string) []string {
	c.trail.Logf("Trying common sitemap URL patterns...")

	for _, path := range wellKnownSitemapPaths {
		if ctx.Err() != nil {
			return nil
		}
		candidate := base + path
		body, err := c.fetcher.Fetch(ctx, candidate)
		if err != nil {
			continue
		}
		if strings.Contains(body, "<urlset") || strings.Contains(body, "<sitemapindex") {
			c.trail.Logf("Found sitemap: %s", candidate)
			return []string{candidate}
		}
	}
	return nil
}

type sitemapWorkItem struct {
	url   string
	depth int
}

// expandSitemaps resolves a set of sitemap URLs into leaf page URLs.
// Index documents are expanded depth-first with an explicit worklist so
// the traversal order matches nested <sitemap> entry order: a
// document's own leaves come before any nested document's leaves.
// Fetch or parse failures skip that entry only.
func (c *Crawler) expandSitemaps(ctx context.Context, sitemapURLs []string) []string {
	stack := make([]sitemapWorkItem, 0, len(sitemapURLs))
	for i := len(sitemapURLs) - 1; i >= 0; i-- {
		stack = append(stack, sitemapWorkItem{url: sitemapURLs[i]})
	}

	var all []string
	for len(stack) > 0 {
		if ctx.Err() != nil {
			break
		}
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if item.depth > maxSitemapDepth {
			continue
		}

		c.trail.Logf("Parsing sitemap: %s", item.url)
		body, err := c.fetcher.Fetch(ctx, item.url)
		if err != nil {
			c.trail.Logf("Failed to fetch sitemap %s: %v", item.url, err)
			continue
		}

		leaves, nested := parseSitemap(body)
		if len(leaves) == 0 && len(nested) == 0 {
			c.trail.Logf("No entries parsed from %s", item.url)
		}
		all = append(all, leaves...)

		if len(nested) > 0 {
			c.trail.Logf("Found %d nested sitemap(s)", len(nested))
			for i := len(nested) - 1; i >= 0; i-- {
				stack = append(stack, sitemapWorkItem{url: nested[i], depth: item.depth + 1})
			}
		}
	}
	return all
}
