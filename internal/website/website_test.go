package website_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"feedgen/internal/website"
	"feedgen/mocks"
)

const page = `<!doctype html>
<html><head><title>Ignored</title><style>body{color:red}</style></head>
<body>
  <h1>Gretsch   Snare</h1>
  <script>var tracking = 1;</script>
  <p>Maple shell,
     chrome hardware.</p>
  <noscript>enable js</noscript>
</body></html>`

func TestExtractText(t *testing.T) {
	got, err := website.ExtractText(page)
	require.NoError(t, err)
	assert.Equal(t, "Gretsch Snare Maple shell, chrome hardware.", got)
}

func TestExtractText_Truncates(t *testing.T) {
	got, err := website.ExtractText("<p>" + strings.Repeat("ä", website.MaxTextLength+50) + "</p>")
	require.NoError(t, err)
	assert.Equal(t, website.MaxTextLength, len([]rune(got)))
}

func TestHTTPFetcher_FetchText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(page))
	}))
	defer server.Close()

	f := website.NewHTTPFetcher(time.Second)

	got, err := f.FetchText(context.Background(), server.URL+"/product")
	require.NoError(t, err)
	assert.Contains(t, got, "Maple shell")

	_, err = f.FetchText(context.Background(), server.URL+"/missing")
	assert.Error(t, err)
}

func TestCachedFetcher_HitSkipsFetch(t *testing.T) {
	cache := new(mocks.MockCache)
	fetcher := new(mocks.MockPageFetcher)
	cache.On("Get", mock.Anything, "sku-1").Return("cached text", true, nil)

	f := website.NewCachedFetcher(fetcher, cache, time.Hour, zap.NewNop())

	got, err := f.Text(context.Background(), "sku-1", "https://shop.example.com/p/1")
	require.NoError(t, err)
	assert.Equal(t, "cached text", got)
	fetcher.AssertNotCalled(t, "FetchText", mock.Anything, mock.Anything)
}

func TestCachedFetcher_MissFetchesAndStores(t *testing.T) {
	cache := new(mocks.MockCache)
	fetcher := new(mocks.MockPageFetcher)
	cache.On("Get", mock.Anything, "sku-1").Return("", false, nil)
	fetcher.On("FetchText", mock.Anything, "https://shop.example.com/p/1").Return("fresh text", nil)
	cache.On("Put", mock.Anything, "sku-1", "fresh text", time.Hour).Return(nil)

	f := website.NewCachedFetcher(fetcher, cache, time.Hour, nil)

	got, err := f.Text(context.Background(), "sku-1", "https://shop.example.com/p/1")
	require.NoError(t, err)
	assert.Equal(t, "fresh text", got)
	cache.AssertExpectations(t)
}

func TestCachedFetcher_CacheFailuresAreSwallowed(t *testing.T) {
	cache := new(mocks.MockCache)
	fetcher := new(mocks.MockPageFetcher)
	cache.On("Get", mock.Anything, "sku-1").Return("", false, errors.New("connection refused"))
	fetcher.On("FetchText", mock.Anything, mock.Anything).Return("fresh text", nil)
	cache.On("Put", mock.Anything, "sku-1", "fresh text", time.Hour).Return(errors.New("connection refused"))

	f := website.NewCachedFetcher(fetcher, cache, time.Hour, nil)

	got, err := f.Text(context.Background(), "sku-1", "https://shop.example.com/p/1")
	require.NoError(t, err)
	assert.Equal(t, "fresh text", got)
}

func TestCachedFetcher_EmptyURL(t *testing.T) {
	f := website.NewCachedFetcher(new(mocks.MockPageFetcher), new(mocks.MockCache), time.Hour, nil)

	got, err := f.Text(context.Background(), "sku-1", "")
	require.NoError(t, err)
	assert.Empty(t, got)
}
