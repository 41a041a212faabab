package passthrough

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<!doctype html><html><head><title>t</title></head><body>
<a href="/about">a</a><a href="//cdn.example.org/x.js">b</a><a href="https://other.example/y">c</a>
<img src="/img/logo.png"><form action="/submit"></form><a href="rel/path">d</a>
</body></html>`

func TestRewriteHTML(t *testing.T) {
	base, err := url.Parse("https://example.com/docs/index.html")
	require.NoError(t, err)

	out, err := RewriteHTML([]byte(page), base)
	require.NoError(t, err)
	s := string(out)

	assert.Contains(t, s, `<head><base href="https://example.com/docs/index.html"/><title>`)
	assert.Contains(t, s, `href="https://example.com/about"`)
	assert.Contains(t, s, `src="https://example.com/img/logo.png"`)
	assert.Contains(t, s, `action="https://example.com/submit"`)
	assert.Contains(t, s, `href="//cdn.example.org/x.js"`)
	assert.Contains(t, s, `href="https://other.example/y"`)
	assert.Contains(t, s, `href="rel/path"`)
}

func TestFetch_HTMLIsRewrittenAgainstFinalURL(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/landing", http.StatusFound)
	})
	mux.HandleFunc("/landing", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<html><head></head><body><a href="/x">x</a></body></html>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p, err := New(time.Second, 5).Fetch(t.Context(), srv.URL+"/start")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, p.Status)
	assert.Equal(t, srv.URL+"/landing", p.FinalURL.String())
	assert.Contains(t, string(p.Body), `<base href="`+srv.URL+`/landing"/>`)
	assert.Contains(t, string(p.Body), `href="`+srv.URL+`/x"`)
}

func TestFetch_NonHTMLUntouched(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"href":"/x"}`)
	}))
	defer srv.Close()

	p, err := New(time.Second, 5).Fetch(t.Context(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, `{"href":"/x"}`, string(p.Body))
}

func redirectChain(t *testing.T, hops int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var n int
		fmt.Sscanf(r.URL.Path, "/hop/%d", &n)
		if n < hops {
			http.Redirect(w, r, fmt.Sprintf("/hop/%d", n+1), http.StatusFound)
			return
		}
		fmt.Fprint(w, "done")
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch_RedirectCap(t *testing.T) {
	f := New(time.Second, 5)

	p, err := f.Fetch(t.Context(), redirectChain(t, 5).URL+"/hop/0")
	require.NoError(t, err)
	assert.Equal(t, "done", string(p.Body))

	_, err = f.Fetch(t.Context(), redirectChain(t, 6).URL+"/hop/0")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTooManyHops)
}

func TestFetch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	_, err := New(50*time.Millisecond, 5).Fetch(t.Context(), srv.URL)
	require.Error(t, err)
}

func TestFetch_BadURL(t *testing.T) {
	f := New(time.Second, 5)
	for _, raw := range []string{"", "ftp://example.com", "/relative", "http://"} {
		_, err := f.Fetch(t.Context(), raw)
		assert.ErrorIs(t, err, ErrBadURL, raw)
	}
}

func TestHandler_FailureIs500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/fetch", New(time.Second, 5).Handler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fetch?url=notaurl", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])
}

func TestHandler_PassesStatusAndType(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, "missing")
	}))
	defer upstream.Close()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/fetch", New(time.Second, 5).Handler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fetch?url="+url.QueryEscape(upstream.URL), nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "text/plain", w.Header().Get("Content-Type"))
	assert.Equal(t, "missing", w.Body.String())
}
