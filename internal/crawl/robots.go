package crawl

import "github.com/temoto/robotstxt"

// SitemapsFromRobots returns the Sitemap directive targets from a
// robots.txt body in file order. Directive matching is case-insensitive;
// lines that are not sitemap directives are ignored. A body the parser
// rejects outright yields nil rather than an error, since robots.txt is
// only an optional hint here.
func SitemapsFromRobots(body string) []string {
	data, err := robotstxt.FromString(body)
	if err != nil {
		return nil
	}
	return data.Sitemaps
}
