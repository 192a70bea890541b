package catalog

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/stockfront/stockfront/internal/backend"
	"github.com/stockfront/stockfront/internal/refdata"
	"github.com/stockfront/stockfront/internal/shared"
	"github.com/stockfront/stockfront/internal/view"
)

type formErrors map[string]string

// Handler manages reference data pages: warehouses, categories,
// products, counterparties and employees.
type Handler struct {
	logger    *slog.Logger
	api       *backend.Client
	refs      *refdata.Cache
	templates *view.Engine
	csrf      *shared.CSRFManager
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, api *backend.Client, refs *refdata.Cache, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	return &Handler{
		logger:    logger,
		api:       api,
		refs:      refs,
		templates: templates,
		csrf:      csrf,
		validator: validator.New(),
	}
}

// MountRoutes registers catalog routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/warehouses", h.listWarehouses)
	r.Post("/warehouses", h.createWarehouse)
	r.Get("/warehouses/{id}", h.showWarehouse)
	r.Post("/warehouses/{id}/update", h.updateWarehouse)
	r.Post("/warehouses/{id}/delete", h.deleteWarehouse)

	r.Get("/categories", h.listCategories)
	r.Post("/categories", h.createCategory)
	r.Post("/categories/{id}/update", h.updateCategory)
	r.Post("/categories/{id}/delete", h.deleteCategory)

	r.Get("/products", h.listProducts)
	r.Post("/products", h.createProduct)
	r.Post("/products/{id}/update", h.updateProduct)
	r.Post("/products/{id}/delete", h.deleteProduct)

	r.Get("/counterparties", h.listCounterparties)
	r.Post("/counterparties", h.createCounterparty)
	r.Post("/counterparties/{id}/update", h.updateCounterparty)
	r.Post("/counterparties/{id}/delete", h.deleteCounterparty)

	r.Get("/employees", h.listEmployees)
	r.Post("/employees", h.createEmployee)
	r.Post("/employees/{id}/update", h.updateEmployee)
	r.Post("/employees/{id}/delete", h.deleteEmployee)
}

// ============================================================================
// WAREHOUSES
// ============================================================================

func (h *Handler) listWarehouses(w http.ResponseWriter, r *http.Request) {
	warehouses, err := h.api.Warehouses(r.Context())
	if err != nil {
		h.renderLoadError(w, r, err, "/warehouses")
		return
	}
	h.render(w, r, "pages/warehouses.html", "Склады", map[string]any{
		"Warehouses": warehouses,
	}, http.StatusOK)
}

func (h *Handler) showWarehouse(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	warehouse, err := h.api.Warehouse(r.Context(), id)
	if err != nil {
		h.renderLoadError(w, r, err, "/warehouses")
		return
	}
	stock, err := h.api.WarehouseStockList(r.Context(), id)
	if err != nil {
		h.renderLoadError(w, r, err, "/warehouses")
		return
	}
	h.render(w, r, "pages/warehouse_detail.html", warehouse.Name, map[string]any{
		"Warehouse": warehouse,
		"Stock":     stock,
		"Empty":     len(stock) == 0,
	}, http.StatusOK)
}

type warehouseForm struct {
	Name string `validate:"required"`
	Info string
}

func (h *Handler) createWarehouse(w http.ResponseWriter, r *http.Request) {
	h.saveWarehouse(w, r, 0)
}

func (h *Handler) updateWarehouse(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	h.saveWarehouse(w, r, id)
}

func (h *Handler) saveWarehouse(w http.ResponseWriter, r *http.Request, id int64) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := warehouseForm{
		Name: strings.TrimSpace(r.PostFormValue("name")),
		Info: strings.TrimSpace(r.PostFormValue("info")),
	}
	if err := h.validator.Struct(form); err != nil {
		h.redirectWithFlash(w, r, "/warehouses", "error", "Укажите название склада")
		return
	}

	payload := backend.WarehousePayload{Name: form.Name, Info: form.Info}
	var err error
	if id == 0 {
		_, err = h.api.CreateWarehouse(r.Context(), payload)
	} else {
		_, err = h.api.UpdateWarehouse(r.Context(), id, payload)
	}
	if err != nil {
		h.redirectWithError(w, r, "/warehouses", err, "Не удалось сохранить склад")
		return
	}
	h.refs.Invalidate()
	h.redirectWithFlash(w, r, "/warehouses", "success", "Склад сохранён")
}

func (h *Handler) deleteWarehouse(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := h.api.DeleteWarehouse(r.Context(), id); err != nil {
		h.redirectWithError(w, r, "/warehouses", err, "Не удалось удалить склад")
		return
	}
	h.refs.Invalidate()
	h.redirectWithFlash(w, r, "/warehouses", "success", "Склад удалён")
}

// ============================================================================
// CATEGORIES
// ============================================================================

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.api.Categories(r.Context())
	if err != nil {
		h.renderLoadError(w, r, err, "/categories")
		return
	}
	h.render(w, r, "pages/categories.html", "Категории", map[string]any{
		"Categories": categories,
	}, http.StatusOK)
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	h.saveCategory(w, r, 0)
}

func (h *Handler) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	h.saveCategory(w, r, id)
}

func (h *Handler) saveCategory(w http.ResponseWriter, r *http.Request, id int64) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	name := strings.TrimSpace(r.PostFormValue("name"))
	if name == "" {
		h.redirectWithFlash(w, r, "/categories", "error", "Укажите название категории")
		return
	}

	payload := backend.CategoryPayload{Name: name}
	var err error
	if id == 0 {
		_, err = h.api.CreateCategory(r.Context(), payload)
	} else {
		_, err = h.api.UpdateCategory(r.Context(), id, payload)
	}
	if err != nil {
		h.redirectWithError(w, r, "/categories", err, "Не удалось сохранить категорию")
		return
	}
	h.refs.InvalidateCategories()
	h.redirectWithFlash(w, r, "/categories", "success", "Категория сохранена")
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := h.api.DeleteCategory(r.Context(), id); err != nil {
		h.redirectWithError(w, r, "/categories", err, "Не удалось удалить категорию")
		return
	}
	h.refs.InvalidateCategories()
	h.redirectWithFlash(w, r, "/categories", "success", "Категория удалена")
}

// ============================================================================
// PRODUCTS
// ============================================================================

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.api.Products(r.Context())
	if err != nil {
		h.renderLoadError(w, r, err, "/products")
		return
	}
	categories, err := h.refs.Categories(r.Context())
	if err != nil {
		h.renderLoadError(w, r, err, "/products")
		return
	}
	h.render(w, r, "pages/products.html", "Товары", map[string]any{
		"Products":   products,
		"Categories": categories,
	}, http.StatusOK)
}

type productForm struct {
	Name       string `validate:"required"`
	CategoryID int64  `validate:"required,gt=0"`
	Info       string
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	h.saveProduct(w, r, 0)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	h.saveProduct(w, r, id)
}

func (h *Handler) saveProduct(w http.ResponseWriter, r *http.Request, id int64) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	categoryID, _ := strconv.ParseInt(r.PostFormValue("categoryId"), 10, 64)
	form := productForm{
		Name:       strings.TrimSpace(r.PostFormValue("name")),
		CategoryID: categoryID,
		Info:       strings.TrimSpace(r.PostFormValue("info")),
	}
	if err := h.validator.Struct(form); err != nil {
		h.redirectWithFlash(w, r, "/products", "error", "Укажите название товара и категорию")
		return
	}

	payload := backend.ProductPayload{
		Name:     form.Name,
		Category: backend.RefID{ID: form.CategoryID},
	}
	if form.Info != "" {
		payload.Info = &form.Info
	}
	var err error
	if id == 0 {
		var created *backend.Product
		created, err = h.api.CreateProduct(r.Context(), payload)
		if err == nil {
			h.refs.RegisterProduct(*created)
		}
	} else {
		_, err = h.api.UpdateProduct(r.Context(), id, payload)
		if err == nil {
			h.refs.Invalidate()
		}
	}
	if err != nil {
		h.redirectWithError(w, r, "/products", err, "Не удалось сохранить товар")
		return
	}
	h.redirectWithFlash(w, r, "/products", "success", "Товар сохранён")
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := h.api.DeleteProduct(r.Context(), id); err != nil {
		h.redirectWithError(w, r, "/products", err, "Не удалось удалить товар")
		return
	}
	h.refs.Invalidate()
	h.redirectWithFlash(w, r, "/products", "success", "Товар удалён")
}

// ============================================================================
// COUNTERPARTIES AND EMPLOYEES
// ============================================================================

type contactForm struct {
	Name  string `validate:"required"`
	Phone string
	Info  string
}

func parseContactForm(r *http.Request) contactForm {
	return contactForm{
		Name:  strings.TrimSpace(r.PostFormValue("name")),
		Phone: strings.TrimSpace(r.PostFormValue("phone")),
		Info:  strings.TrimSpace(r.PostFormValue("info")),
	}
}

func (h *Handler) listCounterparties(w http.ResponseWriter, r *http.Request) {
	counterparties, err := h.api.Counterparties(r.Context())
	if err != nil {
		h.renderLoadError(w, r, err, "/counterparties")
		return
	}
	h.render(w, r, "pages/counterparties.html", "Контрагенты", map[string]any{
		"Counterparties": counterparties,
	}, http.StatusOK)
}

func (h *Handler) createCounterparty(w http.ResponseWriter, r *http.Request) {
	h.saveCounterparty(w, r, 0)
}

func (h *Handler) updateCounterparty(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	h.saveCounterparty(w, r, id)
}

func (h *Handler) saveCounterparty(w http.ResponseWriter, r *http.Request, id int64) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := parseContactForm(r)
	if err := h.validator.Struct(form); err != nil {
		h.redirectWithFlash(w, r, "/counterparties", "error", "Укажите название контрагента")
		return
	}

	payload := backend.ContactPayload{Name: form.Name, Phone: form.Phone, Info: form.Info}
	var err error
	if id == 0 {
		_, err = h.api.CreateCounterparty(r.Context(), payload)
	} else {
		_, err = h.api.UpdateCounterparty(r.Context(), id, payload)
	}
	if err != nil {
		h.redirectWithError(w, r, "/counterparties", err, "Не удалось сохранить контрагента")
		return
	}
	h.refs.Invalidate()
	h.redirectWithFlash(w, r, "/counterparties", "success", "Контрагент сохранён")
}

func (h *Handler) deleteCounterparty(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := h.api.DeleteCounterparty(r.Context(), id); err != nil {
		h.redirectWithError(w, r, "/counterparties", err, "Не удалось удалить контрагента")
		return
	}
	h.refs.Invalidate()
	h.redirectWithFlash(w, r, "/counterparties", "success", "Контрагент удалён")
}

func (h *Handler) listEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.api.Employees(r.Context())
	if err != nil {
		h.renderLoadError(w, r, err, "/employees")
		return
	}
	h.render(w, r, "pages/employees.html", "Сотрудники", map[string]any{
		"Employees": employees,
	}, http.StatusOK)
}

func (h *Handler) createEmployee(w http.ResponseWriter, r *http.Request) {
	h.saveEmployee(w, r, 0)
}

func (h *Handler) updateEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	h.saveEmployee(w, r, id)
}

func (h *Handler) saveEmployee(w http.ResponseWriter, r *http.Request, id int64) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := parseContactForm(r)
	if err := h.validator.Struct(form); err != nil {
		h.redirectWithFlash(w, r, "/employees", "error", "Укажите имя сотрудника")
		return
	}

	payload := backend.ContactPayload{Name: form.Name, Phone: form.Phone, Info: form.Info}
	var err error
	if id == 0 {
		_, err = h.api.CreateEmployee(r.Context(), payload)
	} else {
		_, err = h.api.UpdateEmployee(r.Context(), id, payload)
	}
	if err != nil {
		h.redirectWithError(w, r, "/employees", err, "Не удалось сохранить сотрудника")
		return
	}
	h.refs.Invalidate()
	h.redirectWithFlash(w, r, "/employees", "success", "Сотрудник сохранён")
}

func (h *Handler) deleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := h.api.DeleteEmployee(r.Context(), id); err != nil {
		h.redirectWithError(w, r, "/employees", err, "Не удалось удалить сотрудника")
		return
	}
	h.refs.Invalidate()
	h.redirectWithFlash(w, r, "/employees", "success", "Сотрудник удалён")
}

// ============================================================================
// HELPERS
// ============================================================================

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
		h.logger.Error("render catalog page", slog.String("page", page), slog.Any("error", err))
	}
}

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
		h.logger.Error("load catalog data", slog.Any("error", err))
		h.render(w, r, "pages/error.html", "Ошибка", errorPageData{
			Message:    "Попробуйте повторить попытку позже.",
			ReturnPath: returnPath,
		}, http.StatusInternalServerError)
	}
}

func (h *Handler) redirectWithError(w http.ResponseWriter, r *http.Request, target string, err error, title string) {
	h.logger.Warn("catalog operation failed", slog.Any("error", err))
	msg := title
	var statusErr *backend.StatusError
	switch {
	case errors.As(err, &statusErr):
		msg = title + ": " + statusErr.Error()
	case backend.IsUnauthorized(err):
		msg = "Недостаточно прав. Проверьте авторизацию и повторите попытку."
	case backend.IsUnavailable(err):
		msg = "Не удалось связаться с сервером. Проверьте подключение к сети."
	}
	h.redirectWithFlash(w, r, target, "error", msg)
}

func (h *Handler) redirectWithFlash(w http.ResponseWriter, r *http.Request, target, kind, msg string) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: kind, Message: msg})
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
