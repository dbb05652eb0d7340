package controllers

import (
	"context"
	"falci/internal/models"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedHistory(t *testing.T, h *harness, email string) (models.HistoryEntry, models.HistoryEntry) {
	t.Helper()
	ctx := context.Background()
	coffee, err := h.history.Append(ctx, email, models.HistoryEntry{
		ID: 1000, Kind: models.KindCoffee, CreatedAt: "1 Ekim 2026 10:00", Question: "Kahve Falı",
		Narrative: "kuş", Image: cupPNG(t), MediaType: "image/png",
	})
	require.NoError(t, err)
	palm, err := h.history.Append(ctx, email, models.HistoryEntry{
		ID: 2000, Kind: models.KindPalm, CreatedAt: "2 Ekim 2026 10:00", Question: "El Falı", Narrative: "çizgi",
	})
	require.NoError(t, err)
	return coffee, palm
}

func TestHistory_ListByKind(t *testing.T) {
	h := newHarness(t)
	token := h.register(t, "Ayşe", "ayse@example.com", "p")
	seedHistory(t, h, "ayse@example.com")

	tests := []struct {
		query string
		count int
	}{
		{"", 2},
		{"?kind=all", 2},
		{"?kind=coffee", 1},
		{"?kind=palm", 1},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rr := h.serve(h.hist.List, httptest.NewRequest(http.MethodGet, "/history"+tt.query, nil), token)
			require.Equal(t, http.StatusOK, rr.Code)
			list := decode[historyListResponse](t, rr)
			assert.Equal(t, tt.count, list.Count)
			assert.Len(t, list.Entries, tt.count)
		})
	}

	rr := h.serve(h.hist.List, httptest.NewRequest(http.MethodGet, "/history", nil), token)
	assert.NotContains(t, rr.Body.String(), `"image"`)
	list := decode[historyListResponse](t, rr)
	assert.Equal(t, models.KindPalm, list.Entries[0].Kind)

	rr = h.serve(h.hist.List, httptest.NewRequest(http.MethodGet, "/history?kind=tarot", nil), token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHistory_EntryAndImage(t *testing.T) {
	h := newHarness(t)
	token := h.register(t, "Ayşe", "ayse@example.com", "p")
	coffee, palm := seedHistory(t, h, "ayse@example.com")

	rr := h.serve(h.hist.Entry, httptest.NewRequest(http.MethodGet, "/history/entry?id="+strconv.FormatInt(coffee.ID, 10), nil), token)
	require.Equal(t, http.StatusOK, rr.Code)
	entry := decode[models.HistoryEntry](t, rr)
	assert.Equal(t, coffee.Image, entry.Image)

	rr = h.serve(h.hist.Image, httptest.NewRequest(http.MethodGet, "/history/image?id="+strconv.FormatInt(coffee.ID, 10), nil), token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
	assert.Equal(t, coffee.Image, rr.Body.Bytes())

	rr = h.serve(h.hist.Image, httptest.NewRequest(http.MethodGet, "/history/image?id="+strconv.FormatInt(palm.ID, 10), nil), token)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = h.serve(h.hist.Entry, httptest.NewRequest(http.MethodGet, "/history/entry?id=42", nil), token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Kayıt bulunamadı.", errorMessage(t, rr))

	rr = h.serve(h.hist.Entry, httptest.NewRequest(http.MethodGet, "/history/entry?id=abc", nil), token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHistory_OtherUsersEntriesAreInvisible(t *testing.T) {
	h := newHarness(t)
	coffee, _ := seedHistory(t, h, "ayse@example.com")
	token := h.register(t, "Mehmet", "mehmet@example.com", "p")

	rr := h.serve(h.hist.Entry, httptest.NewRequest(http.MethodGet, "/history/entry?id="+strconv.FormatInt(coffee.ID, 10), nil), token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHistory_CorruptAndUnavailable(t *testing.T) {
	h := newHarness(t)
	token := h.register(t, "Ayşe", "ayse@example.com", "p")
	require.NoError(t, h.store.Set(context.Background(), models.HistoryKey("ayse@example.com"), []byte("{broken")))

	rr := h.serve(h.hist.List, httptest.NewRequest(http.MethodGet, "/history", nil), token)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Kayıt okunamadı.", errorMessage(t, rr))

	h.store.SetFailures(true, false)
	rr = h.serve(h.hist.List, httptest.NewRequest(http.MethodGet, "/history", nil), token)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
