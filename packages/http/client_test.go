package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Do(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/api/items", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient()
	resp, err := client.Do(context.Background(), NewRequest(http.MethodGet, server.URL+"/api/items"))

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
	assert.True(t, resp.IsSuccess())
	assert.Equal(t, "[]", resp.BodyString())
}

func TestClient_DoWithBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 1}`))
	}))
	defer server.Close()

	client := NewClient()
	req := NewRequest(http.MethodPost, server.URL).
		SetHeader("Content-Type", "application/json").
		SetBody(`{"name": "test"}`)
	resp, err := client.Do(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)
	assert.Contains(t, resp.BodyString(), `"id": 1`)
}

func TestClient_ErrorStatusIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient()
	resp, err := client.Do(context.Background(), NewRequest(http.MethodDelete, server.URL+"/api/items/77"))

	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
	assert.Equal(t, "404 Not Found", resp.Status)
	assert.False(t, resp.IsSuccess())
	assert.Contains(t, resp.BodyString(), "not found")
}

func TestClient_WithTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(WithTimeout(50 * time.Millisecond))
	_, err := client.Do(context.Background(), NewRequest(http.MethodGet, server.URL))

	assert.Error(t, err)
}

func TestClient_WithDefaultHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "itemprobe", r.Header.Get("User-Agent"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(WithDefaultHeaders(map[string]string{
		"Content-Type": "application/json",
		"User-Agent":   "itemprobe",
	}))
	resp, err := client.Do(context.Background(), NewRequest(http.MethodGet, server.URL))

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestClient_RequestID(t *testing.T) {
	var seen []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get(RequestIDHeader))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	t.Run("generated per request", func(t *testing.T) {
		seen = nil
		client := NewClient()
		_, err := client.Do(context.Background(), NewRequest(http.MethodGet, server.URL))
		require.NoError(t, err)
		_, err = client.Do(context.Background(), NewRequest(http.MethodGet, server.URL))
		require.NoError(t, err)

		require.Len(t, seen, 2)
		assert.Len(t, seen[0], 36)
		assert.NotEqual(t, seen[0], seen[1])
	})

	t.Run("explicit header wins", func(t *testing.T) {
		seen = nil
		client := NewClient()
		_, err := client.Do(context.Background(), NewRequest(http.MethodGet, server.URL).SetHeader(RequestIDHeader, "fixed"))
		require.NoError(t, err)
		assert.Equal(t, []string{"fixed"}, seen)
	})

}

func TestClient_WithLogger(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer server.Close()

	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetLevel(logrus.DebugLevel)

	client := NewClient(WithLogger(logger))
	_, err := client.Do(context.Background(), NewRequest(http.MethodGet, server.URL))

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "received response")
	assert.Contains(t, buf.String(), "status=418")
}

func TestClient_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient()
	resp, err := client.Do(context.Background(), NewRequest(http.MethodGet, url))

	assert.Error(t, err)
	assert.Nil(t, resp)
}

func TestClient_InvalidURL(t *testing.T) {
	_, err := NewClient().Do(context.Background(), NewRequest(http.MethodGet, "ftp://example.com"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported URL scheme")
}

func TestJoinPath(t *testing.T) {
	assert.Equal(t, "http://127.0.0.1:8080/api/items/7", JoinPath("http://127.0.0.1:8080/api/items", "7"))
	assert.Equal(t, "http://127.0.0.1:8080/api/items/7", JoinPath("http://127.0.0.1:8080/api/items/", "7"))
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid http URL",
			url:     "http://127.0.0.1:8080/api/items",
			wantErr: false,
		},
		{
			name:    "valid https URL",
			url:     "https://example.com/path",
			wantErr: false,
		},
		{
			name:    "invalid scheme",
			url:     "ftp://example.com",
			wantErr: true,
			errMsg:  "unsupported URL scheme",
		},
		{
			name:    "missing scheme",
			url:     "example.com/path",
			wantErr: true,
			errMsg:  "unsupported URL scheme",
		},
		{
			name:    "missing host",
			url:     "http:///path",
			wantErr: true,
			errMsg:  "URL must have a host",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
