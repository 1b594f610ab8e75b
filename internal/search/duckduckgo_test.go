package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resultsPage = `<html><body>
<div class="result results_links result--ad">
  <a class="result__a" href="https://ads.example.com">Sponsored tour</a>
  <a class="result__snippet">Buy now</a>
</div>
<div class="result results_links">
  <h2><a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fwww.japan-guide.com%2Fe%2Fe3007.html&amp;rut=abc">Tokyo Travel: Asakusa</a></h2>
  <a class="result__snippet">Asakusa is the center of Tokyo's shitamachi.</a>
</div>
<div class="result results_links">
  <h2><a class="result__a" href="https://example.org/ueno">Ueno Park guide</a></h2>
  <a class="result__snippet">Museums, a zoo and cherry blossoms.</a>
</div>
<div class="result results_links">
  <h2><a class="result__a" href="https://example.org/yanaka">Yanaka walk</a></h2>
</div>
</body></html>`

func newTestServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "day trip Tokyo", r.URL.Query().Get("q"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDuckDuckGoParsesResults(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, resultsPage)
	engine := NewDuckDuckGo(WithBaseURL(srv.URL))

	results, err := engine.Search(context.Background(), "day trip Tokyo", 10)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "Tokyo Travel: Asakusa", results[0].Title)
	assert.Equal(t, "https://www.japan-guide.com/e/e3007.html", results[0].URL)
	assert.Equal(t, "Asakusa is the center of Tokyo's shitamachi.", results[0].Snippet)
	assert.Equal(t, "https://example.org/ueno", results[1].URL)
	assert.Empty(t, results[2].Snippet)
}

func TestDuckDuckGoHonoursLimit(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, resultsPage)
	engine := NewDuckDuckGo(WithBaseURL(srv.URL))

	results, err := engine.Search(context.Background(), "day trip Tokyo", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Tokyo Travel: Asakusa", results[0].Title)
}

func TestDuckDuckGoNoResults(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `<html><body><div class="no-results">No results.</div></body></html>`)
	engine := NewDuckDuckGo(WithBaseURL(srv.URL))

	results, err := engine.Search(context.Background(), "day trip Tokyo", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestDuckDuckGoNon200(t *testing.T) {
	srv := newTestServer(t, http.StatusServiceUnavailable, "")
	engine := NewDuckDuckGo(WithBaseURL(srv.URL))

	_, err := engine.Search(context.Background(), "day trip Tokyo", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

type countingTransport struct {
	calls int
}

func (c *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	c.calls++
	return http.DefaultTransport.RoundTrip(req)
}

func TestDuckDuckGoRegionAndClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "jp-jp", r.URL.Query().Get("kl"))
		_, _ = w.Write([]byte(resultsPage))
	}))
	defer srv.Close()

	transport := &countingTransport{}
	engine := NewDuckDuckGo(
		WithBaseURL(srv.URL),
		WithRegion("jp-jp"),
		WithHttpClient(&http.Client{Transport: transport}),
	)

	results, err := engine.Search(context.Background(), "kamakura", 1)
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, 1, transport.calls)
}
