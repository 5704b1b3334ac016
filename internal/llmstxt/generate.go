// Package llmstxt renders discovered pages into an llms.txt document.
package llmstxt

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/arlenk2021/FreeLLMSTxTGenerator/internal/crawl"
)

const (
	mainCategory = "Main"
	maxTitleLen  = 80
	maxDescLen   = 200
)

// Render produces the llms.txt document for a crawl. Output is a pure
// function of (base, pages, now); the timestamp in the trailer is the
// only part that varies between otherwise identical runs.
func Render(base string, pages []crawl.Page, now time.Time) string {
	host := hostOf(base)

	siteTitle := defaultSiteTitle(host)
	siteDescription := fmt.Sprintf("Documentation and resources from %s", host)

	if home := homepage(base, pages); home != nil {
		if home.Title != "" {
			siteTitle = shortTitle(home.Title)
		}
		if home.Description != "" {
			siteDescription = home.Description
		}
	}

	categories := categorize(pages)

	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if (names[i] == mainCategory) != (names[j] == mainCategory) {
			return names[i] == mainCategory
		}
		return names[i] < names[j]
	})

	lines := []string{"# " + siteTitle, "", "> " + siteDescription, ""}

	for _, name := range names {
		catPages := categories[name]

		if name == mainCategory && len(catPages) == 1 {
			lines = append(lines, bullet(catPages[0]))
			continue
		}

		lines = append(lines, "## "+name, "")
		sort.Slice(catPages, func(i, j int) bool { return catPages[i].URL < catPages[j].URL })
		for _, p := range catPages {
			lines = append(lines, bullet(p))
		}
		lines = append(lines, "")
	}

	lines = append(lines,
		"",
		"---",
		fmt.Sprintf("Generated by FreeLLMsTxt on %s", now.Format("2006-01-02")),
		fmt.Sprintf("Source: %s", base),
	)

	return strings.Join(lines, "\n")
}

// categorize groups pages by the first segment of their URL path,
// human-cased; root-level pages go under "Main".
func categorize(pages []crawl.Page) map[string][]crawl.Page {
	categories := make(map[string][]crawl.Page)
	for _, p := range pages {
		cat := categoryOf(p.URL)
		categories[cat] = append(categories[cat], p)
	}
	return categories
}

func categoryOf(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return mainCategory
	}
	for _, seg := range strings.Split(u.Path, "/") {
		if seg == "" {
			continue
		}
		seg = strings.ReplaceAll(seg, "-", " ")
		seg = strings.ReplaceAll(seg, "_", " ")
		return titleCase(seg)
	}
	return mainCategory
}

func bullet(p crawl.Page) string {
	title := shortTitle(p.Title)
	if title == "" {
		title = lastPathSegment(p.URL)
	}
	if title == "" {
		title = "Page"
	}
	// Limits count characters, not bytes, so multibyte titles are
	// never cut mid-rune.
	if utf8.RuneCountInString(title) > maxTitleLen {
		title = string([]rune(title)[:maxTitleLen-3]) + "..."
	}

	line := fmt.Sprintf("- [%s](%s)", title, p.URL)
	if p.Description != "" {
		desc := p.Description
		if utf8.RuneCountInString(desc) > maxDescLen {
			desc = string([]rune(desc)[:maxDescLen]) + "..."
		}
		line += ": " + desc
	}
	return line
}

// shortTitle keeps the portion of a page title before the first
// " | " or " - " separator.
func shortTitle(title string) string {
	title, _, _ = strings.Cut(title, " | ")
	title, _, _ = strings.Cut(title, " - ")
	return strings.TrimSpace(title)
}

// homepage finds the record for the base URL itself, accepting a www
// host variant of it.
func homepage(base string, pages []crawl.Page) *crawl.Page {
	wwwBase := strings.Replace(base, "://", "://www.", 1)
	for i := range pages {
		u := strings.TrimSuffix(pages[i].URL, "/")
		if u == base || u == wwwBase {
			return &pages[i]
		}
	}
	return nil
}

func defaultSiteTitle(host string) string {
	name, _, _ := strings.Cut(host, ".")
	return titleCase(name)
}

func hostOf(base string) string {
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return base
	}
	return strings.TrimPrefix(u.Host, "www.")
}

// lastPathSegment returns the final segment of the URL's path, or ""
// for a root URL with no path so the caller falls through to the
// "Page" placeholder.
func lastPathSegment(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	parts := strings.Split(strings.TrimSuffix(u.Path, "/"), "/")
	return parts[len(parts)-1]
}

// titleCase uppercases the first letter of every space-separated word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
