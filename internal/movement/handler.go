package movement

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/stockfront/stockfront/internal/backend"
	"github.com/stockfront/stockfront/internal/refdata"
	"github.com/stockfront/stockfront/internal/shared"
	"github.com/stockfront/stockfront/internal/view"
)

// Handler serves the list and detail pages of all three movement kinds.
type Handler struct {
	logger    *slog.Logger
	api       *backend.Client
	refs      *refdata.Cache
	templates *view.Engine
	csrf      *shared.CSRFManager
}

// NewHandler constructs the movement handler.
func NewHandler(logger *slog.Logger, api *backend.Client, refs *refdata.Cache, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{logger: logger, api: api, refs: refs, templates: templates, csrf: csrf}
}

// MountRoutes registers one route group per movement kind, derived from
// the typed registry. Unknown kinds cannot be routed at all.
func (h *Handler) MountRoutes(r chi.Router) {
	for _, cfg := range AllConfigs() {
		cfg := cfg
		r.Route(cfg.BasePath, func(r chi.Router) {
			r.Get("/", h.showList(cfg))
			r.Post("/", h.handleCreate(cfg))
			r.Get("/{id}", h.showDetail(cfg))
			r.Post("/{id}/update", h.handleUpdate(cfg))
			r.Post("/{id}/delete", h.handleDelete(cfg))
			r.Post("/{id}/items", h.handleItemSave(cfg))
			r.Post("/{id}/items/{itemID}/delete", h.handleItemDelete(cfg))
		})
	}
}

type listPageData struct {
	List ListView
	Form *Form
}

type detailPageData struct {
	Detail       DetailView
	Form         *Form
	ItemForm     itemFormData
	ProductNames []string
}

type itemFormData struct {
	ProductName    string
	Quantity       string
	Error          string
	NewProductOpen bool
	NewProductName string
	Categories     []backend.Category
}

func (h *Handler) showList(cfg Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		refs, err := h.refs.References(r.Context())
		if err != nil {
			h.renderLoadError(w, r, err, cfg.BasePath)
			return
		}
		movements, err := h.api.Movements(r.Context(), string(cfg.Type))
		if err != nil {
			h.renderLoadError(w, r, err, cfg.BasePath)
			return
		}

		form := NewForm(refs)
		NewBinder().Apply(form, cfg)
		data := listPageData{List: BuildListView(cfg, movements), Form: form}
		h.render(w, r, "pages/movements_list.html", cfg.ListTitle, data, http.StatusOK)
	}
}

func (h *Handler) handleCreate(cfg Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		in := parseInput(r)
		if errs := Validate(cfg, in); len(errs) > 0 {
			h.rerenderList(w, r, cfg, in, errs)
			return
		}

		payload := BuildPayload(cfg, in, nil)
		if _, err := h.api.CreateMovement(r.Context(), payload); err != nil {
			h.flashError(r, err, "Не удалось сохранить операцию")
			http.Redirect(w, r, cfg.BasePath, http.StatusSeeOther)
			return
		}
		h.flashSuccess(r, "Операция создана")
		http.Redirect(w, r, cfg.BasePath, http.StatusSeeOther)
	}
}

func (h *Handler) handleUpdate(cfg Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r, "id")
		if !ok {
			http.NotFound(w, r)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		in := parseInput(r)
		if errs := Validate(cfg, in); len(errs) > 0 {
			h.rerenderDetailWithFormErrors(w, r, cfg, id, in, errs)
			return
		}

		// Header edits must carry the existing item collection verbatim:
		// the backend update replaces the whole record.
		current, err := h.api.Movement(r.Context(), id)
		if err != nil {
			h.renderLoadError(w, r, err, cfg.BasePath)
			return
		}
		payload := BuildPayload(cfg, in, ItemsPayload(current.Items))
		if _, err := h.api.UpdateMovement(r.Context(), id, payload); err != nil {
			h.flashError(r, err, "Не удалось обновить операцию")
			http.Redirect(w, r, detailPath(cfg, id), http.StatusSeeOther)
			return
		}
		h.flashSuccess(r, "Операция обновлена")
		http.Redirect(w, r, detailPath(cfg, id), http.StatusSeeOther)
	}
}

func (h *Handler) handleDelete(cfg Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r, "id")
		if !ok {
			http.NotFound(w, r)
			return
		}
		if err := h.api.DeleteMovement(r.Context(), id); err != nil {
			h.flashError(r, err, "Не удалось удалить операцию")
			http.Redirect(w, r, cfg.BasePath, http.StatusSeeOther)
			return
		}
		h.flashSuccess(r, "Операция удалена")
		http.Redirect(w, r, cfg.BasePath, http.StatusSeeOther)
	}
}

func (h *Handler) showDetail(cfg Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r, "id")
		if !ok {
			http.NotFound(w, r)
			return
		}
		refs, err := h.refs.References(r.Context())
		if err != nil {
			h.renderLoadError(w, r, err, cfg.BasePath)
			return
		}
		m, err := h.api.Movement(r.Context(), id)
		if err != nil {
			h.renderLoadError(w, r, err, cfg.BasePath)
			return
		}

		form := NewForm(refs)
		NewBinder().Apply(form, cfg)
		form.FillFrom(*m)
		data := detailPageData{
			Detail:       BuildDetailView(cfg, *m),
			Form:         form,
			ProductNames: h.refs.SortedProductNames(),
		}
		h.render(w, r, "pages/movement_detail.html", cfg.DetailTitle, data, http.StatusOK)
	}
}

// handleItemSave adds a new item or updates the quantity of an existing
// one (itemId form field set). When the typed product name resolves to
// nothing, the inline new-product flow kicks in: either the sub-form's
// fields are present and the product is created and selected in one go,
// or the page is re-rendered with the sub-form open and categories
// loaded lazily.
func (h *Handler) handleItemSave(cfg Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r, "id")
		if !ok {
			http.NotFound(w, r)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		quantity, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("quantity")))
		if err != nil || quantity <= 0 {
			h.rerenderDetailWithItemError(w, r, cfg, id, itemFormData{
				ProductName: r.PostFormValue("productName"),
				Quantity:    r.PostFormValue("quantity"),
				Error:       "Количество должно быть целым числом больше нуля",
			})
			return
		}

		current, err := h.api.Movement(r.Context(), id)
		if err != nil {
			h.renderLoadError(w, r, err, cfg.BasePath)
			return
		}

		var items []backend.ItemPayload
		successMsg := "Товар добавлен"
		if itemIDRaw := r.PostFormValue("itemId"); itemIDRaw != "" {
			itemID, err := strconv.ParseInt(itemIDRaw, 10, 64)
			if err != nil {
				http.NotFound(w, r)
				return
			}
			items = UpdateItemQuantity(current.Items, itemID, quantity)
			successMsg = "Количество обновлено"
		} else {
			product, ok := h.resolveProduct(w, r, cfg, id, quantity)
			if !ok {
				return
			}
			items = AppendItem(current.Items, product.ID, quantity)
		}

		payload := HeaderPayload(*current, items)
		if _, err := h.api.UpdateMovement(r.Context(), id, payload); err != nil {
			h.flashError(r, err, "Не удалось сохранить изменения")
			http.Redirect(w, r, detailPath(cfg, id), http.StatusSeeOther)
			return
		}
		h.flashSuccess(r, successMsg)
		http.Redirect(w, r, detailPath(cfg, id), http.StatusSeeOther)
	}
}

// resolveProduct resolves the typed name against the cache, creating the
// product inline when the new-product sub-form was submitted. A false
// return means the response has been written already.
func (h *Handler) resolveProduct(w http.ResponseWriter, r *http.Request, cfg Config, id int64, quantity int) (backend.Product, bool) {
	name := strings.TrimSpace(r.PostFormValue("productName"))
	if product, ok := h.refs.ProductByName(name); ok {
		return product, true
	}

	newName := strings.TrimSpace(r.PostFormValue("newProductName"))
	categoryID, _ := strconv.ParseInt(r.PostFormValue("newProductCategoryId"), 10, 64)
	if newName != "" && categoryID != 0 {
		created, err := h.api.CreateProduct(r.Context(), backend.ProductPayload{
			Name:     newName,
			Category: backend.RefID{ID: categoryID},
		})
		if err != nil {
			h.flashError(r, err, "Не удалось создать товар")
			http.Redirect(w, r, detailPath(cfg, id), http.StatusSeeOther)
			return backend.Product{}, false
		}
		h.refs.RegisterProduct(*created)
		return *created, true
	}

	// Unknown product and no complete sub-form: reopen the item dialog
	// with the new-product section visible. Categories load here, on
	// first need.
	categories, err := h.refs.Categories(r.Context())
	if err != nil {
		h.renderLoadError(w, r, err, cfg.BasePath)
		return backend.Product{}, false
	}
	h.rerenderDetailWithItemError(w, r, cfg, id, itemFormData{
		ProductName:    name,
		Quantity:       strconv.Itoa(quantity),
		Error:          "Выберите товар из списка или создайте новый",
		NewProductOpen: true,
		NewProductName: newName,
		Categories:     categories,
	})
	return backend.Product{}, false
}

func (h *Handler) handleItemDelete(cfg Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r, "id")
		if !ok {
			http.NotFound(w, r)
			return
		}
		itemID, ok := pathID(r, "itemID")
		if !ok {
			http.NotFound(w, r)
			return
		}
		current, err := h.api.Movement(r.Context(), id)
		if err != nil {
			h.renderLoadError(w, r, err, cfg.BasePath)
			return
		}
		payload := HeaderPayload(*current, RemoveItem(current.Items, itemID))
		if _, err := h.api.UpdateMovement(r.Context(), id, payload); err != nil {
			h.flashError(r, err, "Не удалось удалить товар")
			http.Redirect(w, r, detailPath(cfg, id), http.StatusSeeOther)
			return
		}
		h.flashSuccess(r, "Товар удалён")
		http.Redirect(w, r, detailPath(cfg, id), http.StatusSeeOther)
	}
}

func (h *Handler) rerenderList(w http.ResponseWriter, r *http.Request, cfg Config, in Input, errs map[string]string) {
	refs, err := h.refs.References(r.Context())
	if err != nil {
		h.renderLoadError(w, r, err, cfg.BasePath)
		return
	}
	movements, err := h.api.Movements(r.Context(), string(cfg.Type))
	if err != nil {
		h.renderLoadError(w, r, err, cfg.BasePath)
		return
	}

	form := NewForm(refs)
	NewBinder().Apply(form, cfg)
	form.FillFromInput(in, errs)

	data := listPageData{List: BuildListView(cfg, movements), Form: form}
	h.render(w, r, "pages/movements_list.html", cfg.ListTitle, data, http.StatusBadRequest)
}

// rerenderDetailWithFormErrors keeps the user's header edits on screen
// when a detail-page update fails validation.
func (h *Handler) rerenderDetailWithFormErrors(w http.ResponseWriter, r *http.Request, cfg Config, id int64, in Input, errs map[string]string) {
	refs, err := h.refs.References(r.Context())
	if err != nil {
		h.renderLoadError(w, r, err, cfg.BasePath)
		return
	}
	m, err := h.api.Movement(r.Context(), id)
	if err != nil {
		h.renderLoadError(w, r, err, cfg.BasePath)
		return
	}
	form := NewForm(refs)
	NewBinder().Apply(form, cfg)
	form.FillFromInput(in, errs)
	data := detailPageData{
		Detail:       BuildDetailView(cfg, *m),
		Form:         form,
		ProductNames: h.refs.SortedProductNames(),
	}
	h.render(w, r, "pages/movement_detail.html", cfg.DetailTitle, data, http.StatusBadRequest)
}

func (h *Handler) rerenderDetailWithItemError(w http.ResponseWriter, r *http.Request, cfg Config, id int64, itemForm itemFormData) {
	refs, err := h.refs.References(r.Context())
	if err != nil {
		h.renderLoadError(w, r, err, cfg.BasePath)
		return
	}
	m, err := h.api.Movement(r.Context(), id)
	if err != nil {
		h.renderLoadError(w, r, err, cfg.BasePath)
		return
	}
	form := NewForm(refs)
	NewBinder().Apply(form, cfg)
	form.FillFrom(*m)
	data := detailPageData{
		Detail:       BuildDetailView(cfg, *m),
		Form:         form,
		ItemForm:     itemForm,
		ProductNames: h.refs.SortedProductNames(),
	}
	h.render(w, r, "pages/movement_detail.html", cfg.DetailTitle, data, http.StatusBadRequest)
}

// renderLoadError maps page-load failures onto their dedicated pages:
// the uniform insufficient-rights page for 401/403 (no table is ever
// rendered in that case), a record-not-found page with a way back to the
// list, and a generic error page otherwise.
func (h *Handler) renderLoadError(w http.ResponseWriter, r *http.Request, err error, returnPath string) {
	type errorPageData struct {
		Message    string
		ReturnPath string
	}
	switch {
	case backend.IsUnauthorized(err):
		h.render(w, r, "pages/forbidden.html", "Недостаточно прав", errorPageData{
			Message:    "Проверьте авторизацию и повторите попытку.",
			ReturnPath: returnPath,
		}, http.StatusForbidden)
	case backend.IsNotFound(err):
		h.render(w, r, "pages/not_found.html", "Запись не найдена", errorPageData{
			Message:    "Запись не найдена. Вернитесь к списку.",
			ReturnPath: returnPath,
		}, http.StatusNotFound)
	case backend.IsUnavailable(err):
		h.render(w, r, "pages/error.html", "Сервис недоступен", errorPageData{
			Message:    "Не удалось связаться с сервером. Проверьте подключение к сети.",
			ReturnPath: returnPath,
		}, http.StatusBadGateway)
	default:
		h.logger.Error("load movement data", slog.Any("error", err))
		h.render(w, r, "pages/error.html", "Ошибка", errorPageData{
			Message:    userMessage(err),
			ReturnPath: returnPath,
		}, http.StatusInternalServerError)
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, page, title string, data any, status int) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken := ""
	if h.csrf != nil {
		csrfToken, _ = h.csrf.EnsureToken(r.Context(), sess)
	}
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
		h.logger.Error("render movement page", slog.String("page", page), slog.Any("error", err))
	}
}

func (h *Handler) flashSuccess(r *http.Request, msg string) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: "success", Message: msg})
	}
}

func (h *Handler) flashError(r *http.Request, err error, title string) {
	if err != nil {
		h.logger.Warn("movement operation failed", slog.Any("error", err))
	}
	msg := title
	if err != nil {
		msg = title + ": " + userMessage(err)
	}
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: "error", Message: msg})
	}
}

// userMessage keeps backend validation text but hides internals.
func userMessage(err error) string {
	var statusErr *backend.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Error()
	}
	switch {
	case backend.IsUnauthorized(err):
		return "Недостаточно прав. Проверьте авторизацию и повторите попытку."
	case backend.IsNotFound(err):
		return "Запись не найдена."
	case backend.IsUnavailable(err):
		return "Не удалось связаться с сервером. Проверьте подключение к сети."
	}
	return "Попробуйте повторить попытку позже."
}

func parseInput(r *http.Request) Input {
	return Input{
		Date:              strings.TrimSpace(r.PostFormValue("date")),
		Info:              strings.TrimSpace(r.PostFormValue("info")),
		WarehouseID:       formID(r, "warehouseId"),
		CounterpartyID:    formID(r, "counterpartyId"),
		EmployeeID:        formID(r, "employeeId"),
		TargetWarehouseID: formID(r, "targetWarehouseId"),
		TargetEmployeeID:  formID(r, "targetEmployeeId"),
	}
}

func formID(r *http.Request, field string) int64 {
	id, _ := strconv.ParseInt(r.PostFormValue(field), 10, 64)
	return id
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func detailPath(cfg Config, id int64) string {
	return cfg.BasePath + "/" + strconv.FormatInt(id, 10)
}
