package selfupdate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func releaseServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/abhisek/penwise/releases/latest" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestLatest(t *testing.T) {
	server := releaseServer(t, `{"tag_name":"v1.4.0","html_url":"https://example.com/v1.4.0"}`)
	u := New(WithAPIBaseURL(server.URL))

	tests := []struct {
		current string
		newer   bool
	}{
		{"v1.3.9", true},
		{"1.3.0", true},
		{"v1.4.0", false},
		{"v1.10.0", false},
		{"garbage", true},
	}
	for _, tt := range tests {
		t.Run(tt.current, func(t *testing.T) {
			rel, err := u.Latest(context.Background(), tt.current)
			require.NoError(t, err)
			assert.Equal(t, "v1.4.0", rel.Tag)
			assert.Equal(t, "https://example.com/v1.4.0", rel.URL)
			assert.Equal(t, tt.newer, rel.Newer)
		})
	}
}

func TestLatestRejectsBadTag(t *testing.T) {
	server := releaseServer(t, `{"tag_name":"nightly"}`)
	_, err := New(WithAPIBaseURL(server.URL)).Latest(context.Background(), "v1.0.0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a semantic version")
}

func TestLatestHTTPError(t *testing.T) {
	server := releaseServer(t, "")
	_, err := New(WithAPIBaseURL(server.URL), WithRepository("someone", "else")).Latest(context.Background(), "v1.0.0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
}
