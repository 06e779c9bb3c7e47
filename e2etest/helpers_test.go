package e2etest

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func request(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err, "Should be able to make a request to %s", url)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// getJSON fetches url and decodes the body after checking the status
func getJSON[T any](t *testing.T, url string, status int) T {
	t.Helper()
	return decodeBody[T](t, request(t, http.MethodGet, url, ""), status)
}

func decodeBody[T any](t *testing.T, resp *http.Response, status int) T {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "Should be able to read response body")
	require.Equal(t, status, resp.StatusCode, "unexpected status, body: %s", body)

	var v T
	require.NoError(t, json.Unmarshal(body, &v), "Response should be valid JSON")
	return v
}

// waitForListing waits until the first poll has reached the session
func waitForListing(t *testing.T, env *TestEnv) {
	t.Helper()
	require.Eventually(t, func() bool {
		return !env.App.Session.View().Loading
	}, 10*time.Second, 100*time.Millisecond, "Listing was never loaded")
}
