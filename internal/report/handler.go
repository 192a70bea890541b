package report

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/stockfront/stockfront/internal/backend"
	"github.com/stockfront/stockfront/internal/refdata"
	"github.com/stockfront/stockfront/internal/shared"
	"github.com/stockfront/stockfront/internal/view"
)

// Handler serves the stock report filter page and the PDF download.
type Handler struct {
	logger    *slog.Logger
	api       *backend.Client
	refs      *refdata.Cache
	templates *view.Engine
	csrf      *shared.CSRFManager
	snapshots *SnapshotStore
}

// NewHandler builds Handler instance. The snapshot store may be nil when
// the nightly worker is not deployed.
func NewHandler(logger *slog.Logger, api *backend.Client, refs *refdata.Cache, templates *view.Engine, csrf *shared.CSRFManager, snapshots *SnapshotStore) *Handler {
	return &Handler{logger: logger, api: api, refs: refs, templates: templates, csrf: csrf, snapshots: snapshots}
}

// MountRoutes registers report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/reports/stock", h.showFilter)
	r.Post("/reports/stock", h.downloadReport)
	r.Get("/reports/stock/latest", h.downloadSnapshot)
}

func (h *Handler) showFilter(w http.ResponseWriter, r *http.Request) {
	refs, err := h.refs.References(r.Context())
	if err != nil {
		h.renderLoadError(w, r, err)
		return
	}
	categories, err := h.refs.Categories(r.Context())
	if err != nil {
		h.renderLoadError(w, r, err)
		return
	}

	var snapshotAt time.Time
	hasSnapshot := false
	if h.snapshots != nil {
		if _, at, err := h.snapshots.Latest(r.Context()); err == nil {
			hasSnapshot = true
			snapshotAt = at
		} else if !errors.Is(err, ErrNoSnapshot) {
			h.logger.Warn("read report snapshot", slog.Any("error", err))
		}
	}

	h.render(w, r, "pages/reports.html", "Отчёт по остаткам", map[string]any{
		"Warehouses":  refs.Warehouses,
		"Categories":  categories,
		"HasSnapshot": hasSnapshot,
		"SnapshotAt":  snapshotAt,
	}, http.StatusOK)
}

func (h *Handler) downloadReport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	req := backend.StockReportRequest{
		WarehouseIDs: parseIDs(r.Form["warehouseIds"]),
		CategoryIDs:  parseIDs(r.Form["categoryIds"]),
	}
	if raw := r.PostFormValue("reportDate"); raw != "" {
		if _, err := time.Parse("2006-01-02", raw); err != nil {
			h.redirectWithFlash(w, r, "error", "Укажите дату отчёта в формате ГГГГ-ММ-ДД")
			return
		}
		req.ReportDate = &raw
	}

	pdf, err := h.api.StockReport(r.Context(), req)
	if err != nil {
		switch {
		case backend.IsUnauthorized(err):
			h.redirectWithFlash(w, r, "error", "Недостаточно прав. Проверьте авторизацию и повторите попытку.")
		case backend.IsUnavailable(err):
			h.redirectWithFlash(w, r, "error", "Не удалось связаться с сервером. Проверьте подключение к сети.")
		default:
			h.logger.Error("build stock report", slog.Any("error", err))
			h.redirectWithFlash(w, r, "error", "Не удалось сформировать отчёт")
		}
		return
	}

	servePDF(w, pdf, time.Now())
}

func (h *Handler) downloadSnapshot(w http.ResponseWriter, r *http.Request) {
	if h.snapshots == nil {
		http.NotFound(w, r)
		return
	}
	pdf, at, err := h.snapshots.Latest(r.Context())
	if err != nil {
		if errors.Is(err, ErrNoSnapshot) {
			h.redirectWithFlash(w, r, "error", "Готовый отчёт ещё не сформирован")
			return
		}
		h.logger.Error("read report snapshot", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	servePDF(w, pdf, at)
}

// servePDF streams the document as an attachment. The filename carries
// the build time in UTC so repeated downloads sort chronologically.
func servePDF(w http.ResponseWriter, pdf []byte, at time.Time) {
	filename := "stock-report-" + at.UTC().Format("20060102T1504") + ".pdf"
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	_, _ = w.Write(pdf)
}

func parseIDs(values []string) []int64 {
	ids := make([]int64, 0, len(values))
	for _, v := range values {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil && id > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, page, title string, data any, status int) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	signedIn := false
	if sess != nil {
		flash = sess.PopFlash()
		signedIn = sess.Token() != ""
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	viewData := view.TemplateData{
		Title:       title,
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		SignedIn:    signedIn,
		Data:        data,
	}
	if err := h.templates.Render(w, page, viewData); err != nil {
		h.logger.Error("render report page", slog.String("page", page), slog.Any("error", err))
	}
}

func (h *Handler) renderLoadError(w http.ResponseWriter, r *http.Request, err error) {
	type errorPageData struct {
		Message    string
		ReturnPath string
	}
	switch {
	case backend.IsUnauthorized(err):
		h.render(w, r, "pages/forbidden.html", "Недостаточно прав", errorPageData{
			Message:    "Проверьте авторизацию и повторите попытку.",
			ReturnPath: "/dashboard",
		}, http.StatusForbidden)
	case backend.IsUnavailable(err):
		h.render(w, r, "pages/error.html", "Сервис недоступен", errorPageData{
			Message:    "Не удалось связаться с сервером. Проверьте подключение к сети.",
			ReturnPath: "/dashboard",
		}, http.StatusBadGateway)
	default:
		h.logger.Error("load report filters", slog.Any("error", err))
		h.render(w, r, "pages/error.html", "Ошибка", errorPageData{
			Message:    "Попробуйте повторить попытку позже.",
			ReturnPath: "/dashboard",
		}, http.StatusInternalServerError)
	}
}

func (h *Handler) redirectWithFlash(w http.ResponseWriter, r *http.Request, kind, msg string) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: kind, Message: msg})
	}
	http.Redirect(w, r, "/reports/stock", http.StatusSeeOther)
}
