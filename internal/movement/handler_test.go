package movement

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockfront/stockfront/internal/backend"
	"github.com/stockfront/stockfront/internal/refdata"
	"github.com/stockfront/stockfront/internal/view"
)

func newMovementRouter(t *testing.T, backendURL string) http.Handler {
	t.Helper()
	templates, err := view.NewEngine()
	require.NoError(t, err)

	logger := slog.New(slog.DiscardHandler)
	api := backend.NewClient(backendURL, logger)
	h := NewHandler(logger, api, refdata.New(api), templates, nil)

	r := chi.NewRouter()
	h.MountRoutes(r)
	return r
}

func TestShowListRendersMovements(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/warehouses":
			_, _ = w.Write([]byte(`[{"id":1,"name":"Основной"}]`))
		case "/employees":
			_, _ = w.Write([]byte(`[{"id":20,"name":"Иванов"}]`))
		case "/counterparties":
			_, _ = w.Write([]byte(`[{"id":10,"name":"ООО Ромашка"}]`))
		case "/products":
			_, _ = w.Write([]byte(`[]`))
		case "/movements":
			require.Equal(t, "INBOUND", r.URL.Query().Get("type"))
			_, _ = w.Write([]byte(`[{"id":1,"date":"2024-12-25T14:30:00","type":"INBOUND","info":null,"warehouse":{"id":1,"name":"Основной"},"counterparty":{"id":10,"name":"ООО Ромашка"},"employee":{"id":20,"name":"Иванов"},"targetWarehouse":null,"targetEmployee":null,"items":[]}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	router := newMovementRouter(t, srv.URL)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/deliveries", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Поставки")
	assert.Contains(t, body, "<th>ID</th>")
	assert.Contains(t, body, "<td>1</td>", "the id column always renders")
	assert.Contains(t, body, "25.12.2024 14:30")
	assert.Contains(t, body, "ООО Ромашка")
	assert.Contains(t, body, "/deliveries/1")
}

func TestUpdateValidationRerendersDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/warehouses":
			_, _ = w.Write([]byte(`[{"id":1,"name":"Основной"}]`))
		case "/employees":
			_, _ = w.Write([]byte(`[{"id":20,"name":"Иванов"}]`))
		case "/counterparties":
			_, _ = w.Write([]byte(`[{"id":10,"name":"ООО Ромашка"}]`))
		case "/products":
			_, _ = w.Write([]byte(`[]`))
		case "/movements/1":
			require.Equal(t, http.MethodGet, r.Method, "no update reaches the backend on validation failure")
			_, _ = w.Write([]byte(`{"id":1,"date":"2024-12-25T14:30:00","type":"INBOUND","info":null,"warehouse":{"id":1,"name":"Основной"},"counterparty":{"id":10,"name":"ООО Ромашка"},"employee":{"id":20,"name":"Иванов"},"targetWarehouse":null,"targetEmployee":null,"items":[]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	router := newMovementRouter(t, srv.URL)
	form := url.Values{
		"date":           {"2024-12-25T14:30"},
		"warehouseId":    {""},
		"employeeId":     {"20"},
		"counterpartyId": {"10"},
		"info":           {"уточнённый комментарий"},
	}
	req := httptest.NewRequest(http.MethodPost, "/deliveries/1/update", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Выберите склад")
	assert.Contains(t, body, "уточнённый комментарий", "submitted edits survive the re-render")
	assert.Contains(t, body, "Поставка 25.12.2024 14:30", "the detail page renders, not a redirect")
}

func TestShowListForbiddenRendersRightsPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	router := newMovementRouter(t, srv.URL)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/shipments", nil))

	require.Equal(t, http.StatusForbidden, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Недостаточно прав")
	assert.NotContains(t, body, "<table", "no data table leaks onto the rights page")
}

func TestShowListBackendDownRendersErrorPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	router := newMovementRouter(t, srv.URL)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/transfers", nil))

	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Не удалось связаться с сервером")
}

func TestShowDetailNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/warehouses", "/employees", "/counterparties", "/products":
			_, _ = w.Write([]byte(`[]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	router := newMovementRouter(t, srv.URL)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/deliveries/99", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Запись не найдена")
}
