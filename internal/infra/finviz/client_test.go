package finviz

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quotePageHTML = `<!DOCTYPE html>
<html><body>
<table class="snapshot-table2">
  <tr>
    <td>Index</td><td>S&amp;P 500</td>
    <td>P/E</td><td>28.50</td>
  </tr>
  <tr>
    <td>Market Cap</td><td>2950.12B</td>
    <td>EPS (ttm)</td><td>6.42</td>
  </tr>
</table>
<table id="news-table">
  <tr>
    <td>Jan-05-24 08:30AM</td>
    <td><a href="https://example.com/earnings">Earnings beat expectations</a> <span>(Reuters)</span></td>
  </tr>
  <tr>
    <td>07:15AM</td>
    <td><a href="/news/analysis.ashx?id=42">Analyst upgrades shares</a> <span>(Barrons)</span></td>
  </tr>
</table>
</body></html>`

func newTestClient(serverURL string) *Client {
	cfg := DefaultConfig()
	cfg.BaseURL = serverURL
	cfg.RequestsPerSecond = 1000
	cfg.Burst = 1000
	return NewClient(cfg)
}

func TestFetchQuote_ParsesSnapshotAndNews(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "AAPL", r.URL.Query().Get("t"))
		_, _ = w.Write([]byte(quotePageHTML))
	}))
	defer srv.Close()

	quote, err := newTestClient(srv.URL).FetchQuote(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", quote.Ticker)
	wantFundamentals := map[string]string{
		"Index":      "S&P 500",
		"P/E":        "28.50",
		"Market Cap": "2950.12B",
		"EPS (ttm)":  "6.42",
	}
	if diff := cmp.Diff(wantFundamentals, quote.Fundamentals); diff != "" {
		t.Errorf("fundamentals mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, quote.News, 2)
	assert.Equal(t, "Earnings beat expectations", quote.News[0].Title)
	assert.Equal(t, "https://example.com/earnings", quote.News[0].Link)
	assert.Equal(t, "Reuters", quote.News[0].Source)
	assert.Equal(t, "Jan-05-24 08:30AM", quote.News[0].Date)

	// Same-day rows omit the date; it carries forward from the row above.
	assert.Equal(t, "Jan-05-24 07:15AM", quote.News[1].Date)
	assert.Equal(t, srv.URL+"/news/analysis.ashx?id=42", quote.News[1].Link)

	assert.True(t, strings.HasPrefix(quote.ChartURL, srv.URL+"/chart.ashx?t=AAPL"))
}

func TestFetchQuote_UnknownTicker(t *testing.T) {
	// Finviz serves a search page without a snapshot table for bad symbols.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><div>search results</div></body></html>`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchQuote(context.Background(), "ZZZZZZ")
	assert.ErrorIs(t, err, ErrTickerNotFound)
}

func TestFetchQuote_NotFoundStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchQuote(context.Background(), "AAPL")
	assert.ErrorIs(t, err, ErrTickerNotFound)
}
