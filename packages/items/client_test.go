package items

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/itemprobe/packages/itemstest"
)

func newTestClient(t *testing.T, opts ...Option) (*Client, *itemstest.Server) {
	t.Helper()
	srv := itemstest.New()
	return NewClient(itemstest.Start(t, srv), nil, opts...), srv
}

func TestClient_CreateThenGet(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	created, err := client.Create(ctx, Item{ID: 42, Name: "Ноутбук", Price: 1567.89})
	require.NoError(t, err)
	assert.Equal(t, 1, created.ID, "server assigns the id")
	assert.Equal(t, "Ноутбук", created.Name)
	assert.Equal(t, 1567.89, created.Price)

	got, err := client.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestClient_ListUpdateDelete(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	list, err := client.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	a, err := client.Create(ctx, Item{Name: "Смартфон", Price: 234.56, Vendor: "ACER"})
	require.NoError(t, err)
	b, err := client.Create(ctx, Item{Name: "Смартфон", Price: 543.21, Vendor: "DELL"})
	require.NoError(t, err)

	list, err = client.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{a.ID, b.ID}, IDs(list))

	updated, err := client.Update(ctx, a.ID, Item{Name: "Игровой ноутбук", Price: 1678.95, Vendor: "Lenovo"})
	require.NoError(t, err)
	assert.Equal(t, a.ID, updated.ID)

	got, err := client.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Игровой ноутбук", got.Name)
	assert.Equal(t, "Lenovo", got.Vendor)

	msg, err := client.Delete(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Item 2 deleted", msg)

	list, err = client.List(ctx)
	require.NoError(t, err)
	_, found := Find(list, b.ID)
	assert.False(t, found)
}

func TestClient_NotFound(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	_, err := client.Get(ctx, 88)
	require.Error(t, err)
	status, ok := StatusCode(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, IsTransport(err))

	var he *HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, "item 88 not found", he.Message())

	_, err = client.Delete(ctx, 999)
	status, _ = StatusCode(err)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestClient_Send(t *testing.T) {
	client, srv := newTestClient(t)
	ctx := context.Background()

	resp, err := client.Send(ctx, http.MethodPost, nil, "{invalid json}")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, resp.BodyString())

	resp, err = client.Send(ctx, http.MethodPatch, nil, "{}")
	require.NoError(t, err)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	id := 77
	resp, err = client.Send(ctx, http.MethodDelete, &id, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	assert.Equal(t, []string{
		"POST /api/items",
		"PATCH /api/items",
		"DELETE /api/items/77",
	}, srv.Seen())
}

func TestClient_SendsJSONContentType(t *testing.T) {
	var seen []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`[]`))
		case http.MethodDelete:
			_, _ = w.Write([]byte(`{"message":"deleted"}`))
		default:
			_, _ = w.Write([]byte(`{"id":5,"name":"x","price":1}`))
		}
	}))
	defer server.Close()

	ctx := context.Background()
	client := NewClient(server.URL+"/api/items", nil)

	item, err := client.Create(ctx, Item{Name: "x", Price: 1})
	require.NoError(t, err)
	assert.Equal(t, 5, item.ID)

	_, err = client.List(ctx)
	require.NoError(t, err)
	_, err = client.Delete(ctx, 5)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"POST application/json",
		"GET application/json",
		"DELETE application/json",
	}, seen)
}

func TestClient_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL + "/api/items"
	server.Close()

	client := NewClient(url, nil)
	err := client.Probe(context.Background())

	require.Error(t, err)
	assert.True(t, IsTransport(err))
	_, ok := StatusCode(err)
	assert.False(t, ok)
}

func TestClient_ProbeHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	err := client.Probe(context.Background())

	require.Error(t, err)
	assert.False(t, IsTransport(err))
	status, ok := StatusCode(err)
	assert.True(t, ok)
	assert.Equal(t, 500, status)
	assert.Contains(t, err.Error(), "boom")
}

func TestClient_SchemaValidation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodDelete:
			_, _ = w.Write([]byte(`{"msg":"gone"}`))
		default:
			_, _ = w.Write([]byte(`{"Id":1,"Name":"x","Price":2}`))
		}
	}))
	defer server.Close()

	t.Run("disabled accepts any casing", func(t *testing.T) {
		client := NewClient(server.URL, nil)
		item, err := client.Get(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, 1, item.ID)
		assert.Equal(t, "x", item.Name)
	})

	t.Run("enabled rejects items", func(t *testing.T) {
		client := NewClient(server.URL, nil, WithSchemaValidation(true))
		_, err := client.Get(context.Background(), 1)

		var de *DecodeError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "item", de.What)
		assert.Contains(t, err.Error(), "schema validation failed")
	})

	t.Run("enabled rejects delete responses", func(t *testing.T) {
		client := NewClient(server.URL, nil, WithSchemaValidation(true))
		_, err := client.Delete(context.Background(), 1)

		var de *DecodeError
		require.ErrorAs(t, err, &de)
		assert.Contains(t, err.Error(), "message")
	})

	t.Run("enabled passes a conforming server", func(t *testing.T) {
		client, _ := newTestClient(t, WithSchemaValidation(true))
		ctx := context.Background()

		created, err := client.Create(ctx, Item{Name: "Ноутбук", Price: 1567.89, Vendor: "HP"})
		require.NoError(t, err)
		_, err = client.List(ctx)
		require.NoError(t, err)
		_, err = client.Delete(ctx, created.ID)
		require.NoError(t, err)
	})
}

func TestClient_ItemURL(t *testing.T) {
	client := NewClient("", nil)
	assert.Equal(t, DefaultBaseURL, client.BaseURL())
	assert.Equal(t, "http://127.0.0.1:8080/api/items/3", client.ItemURL(3))
}

func TestBodyMessage(t *testing.T) {
	assert.Equal(t, "gone", BodyMessage([]byte(`{"message":"gone"}`)))
	assert.Equal(t, "bad", BodyMessage([]byte(`{"error":"bad"}`)))
	assert.Equal(t, "plain text", BodyMessage([]byte("plain text\n")))
	assert.Equal(t, `{"code":1}`, BodyMessage([]byte(`{"code":1}`)))
}
