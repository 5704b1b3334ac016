package crawl

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const (
	previewMinLen = 100
	previewMaxLen = 500
)

// ExtractLinks pulls same-domain links out of an HTML document. Relative
// references resolve against pageURL, fragments are stripped, and
// non-navigational schemes (javascript, mailto, tel) are dropped. The
// result is deduplicated in first-seen order.
func ExtractLinks(html, pageURL, base string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	pageU, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	var links []string
	seen := make(map[string]struct{})

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		lower := strings.ToLower(href)
		if strings.HasPrefix(lower, "javascript:") ||
			strings.HasPrefix(lower, "mailto:") ||
			strings.HasPrefix(lower, "tel:") {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		resolved := pageU.ResolveReference(ref)
		resolved.Fragment = ""
		full := resolved.String()

		if !SameDomain(full, base) {
			return
		}
		if _, ok := seen[full]; ok {
			return
		}
		seen[full] = struct{}{}
		links = append(links, full)
	})

	return links
}

// ExtractPage builds the Page record for one fetched document: title,
// meta description (og:description as fallback), a preview from the
// first substantial content element, and the outbound link set.
func ExtractPage(pageURL, html, base string) Page {
	page := Page{URL: pageURL}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return page
	}

	page.Title = strings.TrimSpace(doc.Find("title").First().Text())

	if desc, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok && desc != "" {
		page.Description = desc
	} else if og, ok := doc.Find(`meta[property="og:description"]`).First().Attr("content"); ok && og != "" {
		page.Description = og
	}

	// Both thresholds count characters, not bytes, so multibyte text
	// is measured and truncated on rune boundaries.
	doc.Find("p, article, main").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if utf8.RuneCountInString(text) <= previewMinLen {
			return true
		}
		if utf8.RuneCountInString(text) > previewMaxLen {
			text = string([]rune(text)[:previewMaxLen]) + "..."
		}
		page.ContentPreview = text
		return false
	})

	page.Links = ExtractLinks(html, pageURL, base)
	return page
}
