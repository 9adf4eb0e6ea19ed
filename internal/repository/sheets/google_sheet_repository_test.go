package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/warehouse-tracker/internal/config"
)

func newTestRepository(t *testing.T, handler http.HandlerFunc) *GoogleSheetRepository {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	service, err := sheetsapi.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	return &GoogleSheetRepository{service: service, spreadsheetID: "sheet-1", logger: zap.NewNop()}
}

func TestAppendRowsSendsOneRequest(t *testing.T) {
	var calls int
	var body sheetsapi.ValueRange
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasPrefix(r.URL.Path, "/v4/spreadsheets/sheet-1/values/"), r.URL.Path)
		assert.True(t, strings.HasSuffix(r.URL.Path, ":append"), r.URL.Path)
		assert.Equal(t, "USER_ENTERED", r.URL.Query().Get("valueInputOption"))
		assert.Equal(t, "INSERT_ROWS", r.URL.Query().Get("insertDataOption"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, _ = w.Write([]byte(`{}`))
	})

	err := repo.AppendRows(context.Background(), "Inventory!A:D", [][]interface{}{
		{"2025-03-14", "Widget", "W-1", 8},
		{"2025-03-14", "Gadget", "G-1", 0},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	require.Len(t, body.Values, 2)
	assert.Equal(t, "Widget", body.Values[0][1])
}

func TestAppendRowsWithoutRowsIsNoop(t *testing.T) {
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL.Path)
	})
	require.NoError(t, repo.AppendRows(context.Background(), "Inventory!A:D", nil))
	require.Error(t, repo.AppendRows(context.Background(), "", [][]interface{}{{"x"}}))
}

func TestReadRange(t *testing.T) {
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "ROWS", r.URL.Query().Get("majorDimension"))
		assert.Equal(t, "FORMATTED_VALUE", r.URL.Query().Get("valueRenderOption"))
		_, _ = w.Write([]byte(`{"range":"Inventory!A1:A2","values":[["date"],["2025-03-14"]]}`))
	})

	rows, err := repo.ReadRange(context.Background(), "Inventory!A:A")
	require.NoError(t, err)
	assert.Equal(t, [][]interface{}{{"date"}, {"2025-03-14"}}, rows)
}

func TestReadRangeError(t *testing.T) {
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"denied"}}`))
	})

	_, err := repo.ReadRange(context.Background(), "Inventory!A:A")
	require.ErrorContains(t, err, "read range Inventory!A:A")
}

func TestNewRepositoryRequiresCompleteConfig(t *testing.T) {
	_, err := NewGoogleSheetRepository(context.Background(), config.SheetsConfig{SpreadsheetID: "sheet-1"}, nil)
	require.Error(t, err)
}
