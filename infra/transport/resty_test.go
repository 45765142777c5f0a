package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/gridfeed/core/logger"
)

func TestSessionGetSendsParamsAndHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "A75", r.URL.Query().Get("documentType"))
		assert.Equal(t, "xml", r.Header.Get("Accept"))
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("<ok/>"))
	}))
	defer srv.Close()

	rec := &logger.Recorder{}
	s, err := NewSession(Config{Timeout: time.Second, UserAgent: "test-agent"}, rec)
	require.NoError(t, err)

	res, err := s.Get(context.Background(), srv.URL, url.Values{"documentType": {"A75"}}, map[string]string{"Accept": "xml"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusTeapot, res.StatusCode)
	assert.False(t, res.OK())
	assert.Equal(t, "<ok/>", res.Text())
	assert.NotEmpty(t, rec.Entries())
}

func TestSessionKeepsCookiesAcrossCalls(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "alice", r.PostForm.Get("user"))
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc", Path: "/"})
		case "/data":
			c, err := r.Cookie("session")
			if err != nil || c.Value != "abc" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte("secret"))
		}
	}))
	defer srv.Close()

	s, err := NewSession(Config{}, nil)
	require.NoError(t, err)

	res, err := s.PostForm(context.Background(), srv.URL+"/login", url.Values{"user": {"alice"}}, nil)
	require.NoError(t, err)
	require.True(t, res.OK())
	require.Len(t, res.Cookies, 1)

	res, err = s.Get(context.Background(), srv.URL+"/data", nil, nil)
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Equal(t, "secret", res.Text())
}

func TestSessionHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	s, err := NewSession(Config{}, nil)
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = s.Get(ctx, srv.URL, nil, nil)
	assert.Error(t, err)
}
