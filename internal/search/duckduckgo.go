package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	DefaultDuckDuckGoURL = "https://html.duckduckgo.com/html/"
	DefaultUserAgent     = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

type DuckDuckGoOption func(*DuckDuckGo)

func WithBaseURL(baseURL string) DuckDuckGoOption {
	return func(d *DuckDuckGo) {
		d.baseURL = baseURL
	}
}

func WithRegion(region string) DuckDuckGoOption {
	return func(d *DuckDuckGo) {
		d.region = region
	}
}

func WithHttpClient(clt *http.Client) DuckDuckGoOption {
	return func(d *DuckDuckGo) {
		d.httpClient = clt
	}
}

// DuckDuckGo scrapes the JavaScript-free DuckDuckGo results page.
type DuckDuckGo struct {
	baseURL    string
	region     string
	userAgent  string
	httpClient *http.Client
}

func NewDuckDuckGo(opts ...DuckDuckGoOption) *DuckDuckGo {
	d := &DuckDuckGo{
		baseURL:   DefaultDuckDuckGoURL,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.httpClient == nil {
		d.httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return d
}

func (d *DuckDuckGo) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	values := url.Values{}
	values.Set("q", query)
	if d.region != "" {
		values.Set("kl", d.region)
	}
	searchURL := fmt.Sprintf("%s?%s", d.baseURL, values.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("User-Agent", d.userAgent)
	httpReq.Header.Set("Accept", "text/html")

	httpResp, err := d.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error querying duckduckgo: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("non-200 response from duckduckgo: %d", httpResp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse duckduckgo page: %w", err)
	}
	return parseResults(doc, limit), nil
}

func parseResults(doc *goquery.Document, limit int) []Result {
	var results []Result
	doc.Find("div.result").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if sel.HasClass("result--ad") {
			return true
		}
		link := sel.Find("a.result__a").First()
		title := strings.TrimSpace(link.Text())
		if title == "" {
			return true
		}
		href, _ := link.Attr("href")
		results = append(results, Result{
			Title:   title,
			URL:     resolveRedirect(href),
			Snippet: strings.TrimSpace(sel.Find(".result__snippet").First().Text()),
		})
		return limit <= 0 || len(results) < limit
	})
	return results
}

// resolveRedirect unwraps DuckDuckGo's /l/?uddg=<target> tracking links.
func resolveRedirect(href string) string {
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}
