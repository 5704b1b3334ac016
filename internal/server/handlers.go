package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arlenk2021/FreeLLMSTxTGenerator/internal/config"
	"github.com/arlenk2021/FreeLLMSTxTGenerator/internal/crawl"
	"github.com/arlenk2021/FreeLLMSTxTGenerator/internal/llmstxt"
)

// Handler serves llms.txt generation over HTTP.
type Handler struct {
	cfg       config.Config
	startTime time.Time
}

func NewHandler(cfg config.Config) *Handler {
	return &Handler{cfg: cfg, startTime: time.Now()}
}

func (h *Handler) crawlSite(c *gin.Context, rawURL string, maxURLs int) (string, *crawl.Result, error) {
	crawler := crawl.New(crawl.Options{
		MaxURLs:     maxURLs,
		Timeout:     h.cfg.FetchTimeout,
		Concurrency: h.cfg.Concurrency,
	})
	base := crawl.NormalizeBase(rawURL)
	result, err := crawler.Discover(c.Request.Context(), base)
	return base, result, err
}

// clampMaxURLs keeps client-supplied limits inside the service ceiling.
func (h *Handler) clampMaxURLs(raw string) int {
	n := h.cfg.MaxURLs
	if raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			n = v
		}
	}
	if n > h.cfg.MaxURLsCeiling {
		n = h.cfg.MaxURLsCeiling
	}
	return n
}

// crawlFailure maps a Discover error to a response status and message.
// The two empty-crawl outcomes are the client's problem (bad or
// uncrawlable site); anything else is ours.
func crawlFailure(err error) (int, string) {
	if errors.Is(err, crawl.ErrNoURLsDiscovered) || errors.Is(err, crawl.ErrNoPagesExtracted) {
		return http.StatusBadRequest, "No pages could be crawled from this URL"
	}
	return http.StatusInternalServerError, "Crawl failed unexpectedly: " + err.Error()
}

// Generate handles POST /generate: crawl the submitted site and return
// the document plus the crawl trail as JSON.
func (h *Handler) Generate(c *gin.Context) {
	rawURL := c.PostForm("url")
	if rawURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "url is required",
		})
		return
	}

	base, result, err := h.crawlSite(c, rawURL, h.clampMaxURLs(c.PostForm("max_urls")))
	if err != nil {
		status, msg := crawlFailure(err)
		c.JSON(status, gin.H{
			"success": false,
			"error":   msg,
			"logs":    result.Log,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"llms_txt": llmstxt.Render(base, result.Pages, time.Now()),
		"stats": gin.H{
			"pages_crawled": len(result.Pages),
			"source_url":    base,
		},
		"logs": result.Log,
	})
}

// LLMsTxt handles GET /llms.txt: the document as plain text, for direct
// consumption by tooling.
func (h *Handler) LLMsTxt(c *gin.Context) {
	rawURL := c.Query("url")
	if rawURL == "" {
		c.String(http.StatusBadRequest, "url query parameter is required")
		return
	}

	base, result, err := h.crawlSite(c, rawURL, h.clampMaxURLs(c.Query("max_urls")))
	if err != nil {
		c.String(http.StatusNotFound, "Could not crawl the specified URL")
		return
	}

	c.String(http.StatusOK, llmstxt.Render(base, result.Pages, time.Now()))
}

// Health handles GET /healthz.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(h.startTime).String(),
	})
}
