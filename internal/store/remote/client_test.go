package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/shopster/internal/logging"
	"github.com/Makepad-fr/shopster/internal/model"
	"github.com/Makepad-fr/shopster/internal/server"
)

func newClient(t *testing.T) *Client {
	t.Helper()
	srv := httptest.NewServer(server.New(server.NewMemoryStore(server.SeedItems()...), logging.Discard(), server.Options{}))
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, WithHTTPClient(srv.Client()), WithLogger(logging.Discard()))
	require.NoError(t, err)
	return c
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New("localhost:4000")
	assert.Error(t, err)
	_, err = New("ftp://localhost")
	assert.Error(t, err)
}

func TestClientCRUD(t *testing.T) {
	ctx := context.Background()
	c := newClient(t)

	items, err := c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, server.SeedItems(), items)

	created, err := c.Create(ctx, model.Draft{Name: "Ice Cream", Category: model.Dessert})
	require.NoError(t, err)
	assert.Equal(t, model.Item{ID: 4, Name: "Ice Cream", Category: model.Dessert}, created)

	updated, err := c.Update(ctx, 1, model.InCart(true))
	require.NoError(t, err)
	assert.Equal(t, model.Item{ID: 1, Name: "Yogurt", Category: model.Dairy, IsInCart: true}, updated)

	require.NoError(t, c.Delete(ctx, 1))

	items, err = c.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestClientNotFound(t *testing.T) {
	ctx := context.Background()
	c := newClient(t)

	_, err := c.Update(ctx, 99, model.InCart(true))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Invalid ID", apiErr.Message)

	assert.ErrorIs(t, c.Delete(ctx, 99), ErrNotFound)
}

func TestClientServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()
	c, err := New(srv.URL, WithLogger(logging.Discard()))
	require.NoError(t, err)

	_, err = c.List(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
}

func TestClientSendsJSONHeaders(t *testing.T) {
	var got http.Header
	var method, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, method, path = r.Header.Clone(), r.Method, r.URL.Path
		w.Write([]byte(`{"id":2,"name":"Pomegranate","category":"Produce","isInCart":true}`))
	}))
	defer srv.Close()
	c, err := New(srv.URL+"/api", WithLogger(logging.Discard()))
	require.NoError(t, err)

	_, err = c.Update(context.Background(), 2, model.InCart(true))
	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, method)
	assert.Equal(t, "/api/items/2", path)
	assert.Equal(t, "application/json", got.Get("Content-Type"))
}

func TestClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(url, WithLogger(logging.Discard()))
	require.NoError(t, err)
	_, err = c.List(context.Background())
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}
