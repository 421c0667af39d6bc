package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><h1>Backend Developer</h1></body></html>"))
	}))
	defer server.Close()

	result, err := Get(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, server.URL, result.URL)
	assert.Contains(t, result.HTML, "Backend Developer")
	assert.Equal(t, http.StatusOK, result.StatusCode)
}

func TestGet_InvalidURL(t *testing.T) {
	_, err := Get(context.Background(), "not-a-valid-url", nil)
	require.Error(t, err)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "invalid URL")
}

func TestGet_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	result, err := Get(context.Background(), server.URL, nil)
	require.Error(t, err)
	// Result comes back even on error so callers can inspect the body.
	require.NotNil(t, result)
	assert.Equal(t, http.StatusNotFound, result.StatusCode)
	assert.Contains(t, err.Error(), "404")
}

func TestGet_SendsUserAgent(t *testing.T) {
	var agent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	_, err := Get(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultUserAgent, agent)
}

func TestJobText_PrefersPostingContainer(t *testing.T) {
	html := `
	<html>
		<body>
			<div class="sidebar">Sidebar junk</div>
			<div class="job-description">
				<h2>Requirements</h2>
				<p>Experience with Python, Flask, and PostgreSQL</p>
			</div>
		</body>
	</html>`

	text, err := JobText(html)
	require.NoError(t, err)
	assert.Contains(t, text, "Requirements")
	assert.Contains(t, text, "Python, Flask, and PostgreSQL")
	assert.NotContains(t, text, "Sidebar junk")
}

func TestJobText_StripsNoise(t *testing.T) {
	html := `
	<html>
		<body>
			<nav>Navigation</nav>
			<main>
				<h1>Data Scientist</h1>
				<p>Knowledge of pandas and spark.</p>
			</main>
			<footer>Footer</footer>
			<script>tracking()</script>
		</body>
	</html>`

	text, err := JobText(html)
	require.NoError(t, err)
	assert.Contains(t, text, "Data Scientist")
	assert.Contains(t, text, "pandas and spark")
	assert.NotContains(t, text, "Navigation")
	assert.NotContains(t, text, "Footer")
	assert.NotContains(t, text, "tracking")
}

func TestJobText_FallsBackToBody(t *testing.T) {
	text, err := JobText(`<html><body><div>Some posting text here.</div></body></html>`)
	require.NoError(t, err)
	assert.Contains(t, text, "Some posting text here")
}

func TestJobText_CondensesWhitespace(t *testing.T) {
	text, err := JobText("<html><body><main><p>  first  </p>\n\n\n<p>  second  </p></main></body></html>")
	require.NoError(t, err)
	assert.NotContains(t, text, "\n\n")
	for _, line := range strings.Split(text, "\n") {
		assert.Equal(t, strings.TrimSpace(line), line)
	}
}

func TestNeedsBrowser(t *testing.T) {
	assert.True(t, NeedsBrowser("too short"))
	assert.False(t, NeedsBrowser(strings.Repeat("posting text ", 100)))
}
