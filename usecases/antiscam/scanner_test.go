package antiscam

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeBrowsingScanner(t *testing.T) {
	t.Run("FlagsOnlyMatchedURLs", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "POST", r.Method)
			assert.Equal(t, "test-key", r.URL.Query().Get("key"))

			var req threatMatchesRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Len(t, req.ThreatInfo.ThreatEntries, 2)

			resp := threatMatchesResponse{}
			resp.Matches = append(resp.Matches, struct {
				Threat threatEntry `json:"threat"`
			}{Threat: threatEntry{URL: "https://evil.example.com"}})
			json.NewEncoder(w).Encode(resp)
		}))
		defer server.Close()

		scanner := NewSafeBrowsingScanner(server.URL, "test-key")
		verdicts, err := scanner.CheckURLs(context.Background(),
			[]string{"https://evil.example.com", "https://go.dev"})

		require.NoError(t, err)
		assert.True(t, verdicts["https://evil.example.com"])
		assert.False(t, verdicts["https://go.dev"])
	})

	t.Run("NoMatchesMeansAllClean", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		scanner := NewSafeBrowsingScanner(server.URL, "test-key")
		verdicts, err := scanner.CheckURLs(context.Background(), []string{"https://go.dev"})

		require.NoError(t, err)
		assert.False(t, verdicts["https://go.dev"])
	})

	t.Run("NonOKStatusIsAnError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error": "invalid key"}`))
		}))
		defer server.Close()

		scanner := NewSafeBrowsingScanner(server.URL, "bad-key")
		_, err := scanner.CheckURLs(context.Background(), []string{"https://go.dev"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 400")
	})

	t.Run("EmptyInputSkipsTheAPI", func(t *testing.T) {
		scanner := NewSafeBrowsingScanner("http://unreachable.invalid", "test-key")
		verdicts, err := scanner.CheckURLs(context.Background(), nil)

		require.NoError(t, err)
		assert.Empty(t, verdicts)
	})
}
