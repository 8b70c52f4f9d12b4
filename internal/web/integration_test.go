package web_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vbonduro/prepstock/internal/db"
	"github.com/vbonduro/prepstock/internal/inventory"
	"github.com/vbonduro/prepstock/internal/service"
	"github.com/vbonduro/prepstock/internal/store"
	"github.com/vbonduro/prepstock/internal/web"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

// newTestServer sets up a real web.Server over an empty inventory persisted
// in in-memory SQLite.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	database, err := db.OpenForTesting()
	require.NoError(t, err)

	blobs := store.NewBlobStore(database, store.SQLite)
	require.NoError(t, blobs.Put(context.Background(), inventory.ItemsKey, []byte(`[]`)))

	inv := inventory.Open(context.Background(), blobs, inventory.WithClock(clock))
	svc := service.NewInventoryService(inv, clock, slog.Default())
	srv := httptest.NewServer(web.NewServer(svc, clock, slog.Default()))

	t.Cleanup(func() {
		srv.Close()
		_ = database.Close()
	})
	return srv
}

type itemJSON struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Category       string    `json:"category"`
	Location       string    `json:"location"`
	ExpirationDate time.Time `json:"expirationDate"`
	ImageURL       string    `json:"imageUrl"`
	Status         string    `json:"status"`
	DaysRemaining  int       `json:"daysRemaining"`
	CategoryLabel  string    `json:"categoryLabel"`
	CategoryIcon   string    `json:"categoryIcon"`
}

type errorJSON struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, rd)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func createItem(t *testing.T, srv *httptest.Server, body string) itemJSON {
	t.Helper()
	resp := do(t, srv, http.MethodPost, "/api/items", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[itemJSON](t, resp)
}

func TestHealthzAndSecurityHeaders(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, srv, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestCreateItemExpiringToday(t *testing.T) {
	srv := newTestServer(t)

	item := createItem(t, srv, `{"name":"Milk","expirationDate":"2025-06-01"}`)
	assert.Equal(t, "warning", item.Status)
	assert.Equal(t, 0, item.DaysRemaining)

	resp := do(t, srv, http.MethodGet, "/api/items?days=today", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[struct {
		Items []itemJSON `json:"items"`
	}](t, resp)
	require.Len(t, list.Items, 1)
	assert.Equal(t, item.ID, list.Items[0].ID)
}

func TestCreateAndGetItem(t *testing.T) {
	srv := newTestServer(t)

	item := createItem(t, srv, `{"name":"Canned Food","category":"food","expirationDate":"2025-06-11"}`)
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "warning", item.Status)
	assert.Equal(t, 10, item.DaysRemaining)
	assert.Equal(t, "Food", item.CategoryLabel)
	assert.Equal(t, "sandwich", item.CategoryIcon)

	resp := do(t, srv, http.MethodGet, "/api/items/"+item.ID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[itemJSON](t, resp)
	assert.Equal(t, item.ID, got.ID)
	assert.Equal(t, "Canned Food", got.Name)
}

func TestCreateItem_ValidationErrors(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, srv, http.MethodPost, "/api/items", `{"name":"  ","expirationDate":"tomorrow"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decode[errorJSON](t, resp)
	assert.Equal(t, "validation failed", body.Error)
	assert.Contains(t, body.Fields, "name")
	assert.Contains(t, body.Fields, "expirationDate")
}

func TestCreateItem_RejectsUnknownFields(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, srv, http.MethodPost, "/api/items", `{"name":"Rice","quantity":3}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListItems_Filters(t *testing.T) {
	srv := newTestServer(t)
	createItem(t, srv, `{"name":"Water Storage","category":"water","expirationDate":"2025-05-27"}`)
	createItem(t, srv, `{"name":"Canned Food","category":"food","expirationDate":"2025-06-05"}`)
	createItem(t, srv, `{"name":"First Aid Kit","category":"medical","expirationDate":"2026-06-01"}`)

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"Water Storage", "Canned Food", "First Aid Kit"}},
		{"?days=expired", []string{"Water Storage"}},
		{"?days=week", []string{"Canned Food"}},
		{"?status=safe", []string{"First Aid Kit"}},
		{"?category=food&status=warning", []string{"Canned Food"}},
		{"?q=KIT", []string{"First Aid Kit"}},
		{"?q=batteries", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp := do(t, srv, http.MethodGet, "/api/items"+tt.query, "")
			require.Equal(t, http.StatusOK, resp.StatusCode)

			body := decode[struct {
				Items []itemJSON `json:"items"`
				Total int        `json:"total"`
			}](t, resp)
			assert.Equal(t, 3, body.Total)

			names := []string{}
			for _, item := range body.Items {
				names = append(names, item.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestListItems_InvalidFilter(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, srv, http.MethodGet, "/api/items?status=urgent&days=decade", "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decode[errorJSON](t, resp)
	assert.Contains(t, body.Fields, "status")
	assert.Contains(t, body.Fields, "days")
}

func TestUpdateAndDeleteItem(t *testing.T) {
	srv := newTestServer(t)
	item := createItem(t, srv, `{"name":"Rice","category":"food","expirationDate":"2026-01-01"}`)

	resp := do(t, srv, http.MethodPatch, "/api/items/"+item.ID, `{"location":"Pantry","category":"other"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[itemJSON](t, resp)
	assert.Equal(t, "Pantry", updated.Location)
	assert.Equal(t, "Rice", updated.Name)
	assert.Equal(t, "Other", updated.CategoryLabel)

	resp = do(t, srv, http.MethodPatch, "/api/items/"+item.ID, `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, srv, http.MethodDelete, "/api/items/"+item.ID, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/api/items/"+item.ID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, srv, http.MethodDelete, "/api/items/"+item.ID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, srv, http.MethodPatch, "/api/items/missing", `{"name":"x"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSummaries(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, srv, http.MethodGet, "/api/summaries", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]map[string]any](t, resp))

	createItem(t, srv, `{"name":"Water","category":"water","expirationDate":"2025-05-27"}`)
	createItem(t, srv, `{"name":"Tins","category":"food","expirationDate":"2025-06-11"}`)
	createItem(t, srv, `{"name":"Bottles","category":"water","expirationDate":"2027-01-01"}`)

	resp = do(t, srv, http.MethodGet, "/api/summaries", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	type summary struct {
		Category      string `json:"category"`
		TotalItems    int    `json:"totalItems"`
		ExpiringSoon  int    `json:"expiringSoon"`
		Expired       int    `json:"expired"`
		CategoryLabel string `json:"categoryLabel"`
	}
	got := decode[[]summary](t, resp)
	assert.Equal(t, []summary{
		{Category: "water", TotalItems: 2, Expired: 1, CategoryLabel: "Water"},
		{Category: "food", TotalItems: 1, ExpiringSoon: 1, CategoryLabel: "Food"},
	}, got)
}

func TestSettings(t *testing.T) {
	srv := newTestServer(t)
	item := createItem(t, srv, `{"name":"Batteries","category":"tools","expirationDate":"2025-06-21"}`)
	require.Equal(t, "warning", item.Status)

	resp := do(t, srv, http.MethodPatch, "/api/settings", `{"warningThreshold":14}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	settings := decode[map[string]any](t, resp)
	assert.EqualValues(t, 14, settings["warningThreshold"])
	assert.EqualValues(t, 7, settings["reminderDays"])

	resp = do(t, srv, http.MethodGet, "/api/items/"+item.ID, "")
	assert.Equal(t, "safe", decode[itemJSON](t, resp).Status)

	resp = do(t, srv, http.MethodPatch, "/api/settings", `{"warningThreshold":0,"reminderDays":0}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[errorJSON](t, resp)
	assert.Len(t, body.Fields, 2)

	resp = do(t, srv, http.MethodGet, "/api/settings", "")
	assert.EqualValues(t, 14, decode[map[string]any](t, resp)["warningThreshold"])
}

func TestCustomCategories(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, srv, http.MethodPost, "/api/categories", `{"label":"Pets","icon":"paw-print"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	cc := decode[struct {
		ID    string `json:"id"`
		Value string `json:"value"`
	}](t, resp)
	assert.Equal(t, "pets", cc.Value)

	resp = do(t, srv, http.MethodPost, "/api/categories", `{"value":"pets","label":"More pets"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	item := createItem(t, srv, `{"name":"Dog food","category":"pets","expirationDate":"2026-01-01"}`)
	assert.Equal(t, "Pets", item.CategoryLabel)
	assert.Equal(t, "paw-print", item.CategoryIcon)

	resp = do(t, srv, http.MethodGet, "/api/categories", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]map[string]any](t, resp), 9)

	resp = do(t, srv, http.MethodDelete, "/api/categories/"+cc.ID, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = do(t, srv, http.MethodDelete, "/api/categories/"+cc.ID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/api/items/"+item.ID, "")
	got := decode[itemJSON](t, resp)
	assert.Equal(t, "pets", got.Category)
	assert.Equal(t, "pets", got.CategoryLabel)
	assert.Equal(t, "package", got.CategoryIcon)

	resp = do(t, srv, http.MethodPatch, "/api/items/"+item.ID, `{"category":"pets","notes":"kibble"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPhones(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, srv, http.MethodGet, "/api/phones", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	all := decode[[]map[string]string](t, resp)
	assert.NotEmpty(t, all)

	resp = do(t, srv, http.MethodGet, "/api/phones?kind=health", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	health := decode[[]map[string]string](t, resp)
	assert.Less(t, len(health), len(all))
	for _, p := range health {
		assert.Equal(t, "health", p["kind"])
	}

	resp = do(t, srv, http.MethodGet, "/api/phones?kind=pizza", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func multipartImage(t *testing.T, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	fw, err := w.CreateFormFile("image", "photo.png")
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func upload(t *testing.T, srv *httptest.Server, id string, data []byte) *http.Response {
	t.Helper()
	body, contentType := multipartImage(t, data)
	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/items/"+id+"/image", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", contentType)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestUploadImage(t *testing.T) {
	srv := newTestServer(t)
	item := createItem(t, srv, `{"name":"Radio","category":"communication","expirationDate":"2027-01-01"}`)

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := range 8 {
		for y := range 8 {
			img.Set(x, y, color.RGBA{0, 128, 0, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	resp := upload(t, srv, item.ID, buf.Bytes())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[itemJSON](t, resp)
	assert.True(t, strings.HasPrefix(got.ImageURL, "data:image/jpeg;base64,"))

	resp = upload(t, srv, item.ID, []byte("GIF89a not really"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = upload(t, srv, "missing", buf.Bytes())
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
