package movement

import (
	"fmt"

	"github.com/stockfront/stockfront/internal/backend"
)

// View models are pure projections of backend state; rendering them twice
// with unchanged data yields identical output, and nothing here touches
// HTTP or templates.

// ListColumnView is one extra table header beyond the fixed id and date
// columns.
type ListColumnView struct {
	ID    string
	Label string
}

// ListRow is one rendered movement row.
type ListRow struct {
	ID         int64
	Date       string
	Cells      []string
	DetailPath string
}

// ListView is everything a movement list page needs.
type ListView struct {
	Type     Type
	Title    string
	BasePath string
	Columns  []ListColumnView
	Rows     []ListRow
	Empty    bool
}

// BuildListView projects movements into the list page model using the
// kind's column config. Columns absent from the config simply do not
// appear; id and date are always present.
func BuildListView(cfg Config, movements []backend.Movement) ListView {
	view := ListView{
		Type:     cfg.Type,
		Title:    cfg.ListTitle,
		BasePath: cfg.BasePath,
		Empty:    len(movements) == 0,
	}
	for _, col := range cfg.ListColumns {
		view.Columns = append(view.Columns, ListColumnView{ID: col.ID, Label: col.Label})
	}
	for _, m := range movements {
		row := ListRow{
			ID:         m.ID,
			Date:       FormatDisplay(m.Date.Time),
			DetailPath: fmt.Sprintf("%s/%d", cfg.BasePath, m.ID),
		}
		for _, col := range cfg.ListColumns {
			row.Cells = append(row.Cells, col.Value(m))
		}
		view.Rows = append(view.Rows, row)
	}
	return view
}

// DetailField is one labeled header value on the detail page.
type DetailField struct {
	Label string
	Value string
}

// ItemRow is one product line on the detail page.
type ItemRow struct {
	ID          int64
	ProductID   int64
	ProductName string
	Quantity    int
}

// DetailView is everything a movement detail page needs.
type DetailView struct {
	Type       Type
	ID         int64
	Title      string
	Date       string
	Info       string
	BasePath   string
	Fields     []DetailField
	Items      []ItemRow
	ItemsEmpty bool
}

// BuildDetailView projects one movement into the detail page model. Only
// fields with a detail label for this kind are included, so a TRANSFER
// never shows a counterparty and deliveries never show target fields.
func BuildDetailView(cfg Config, m backend.Movement) DetailView {
	date := FormatDisplay(m.Date.Time)
	view := DetailView{
		Type:     cfg.Type,
		ID:       m.ID,
		Title:    cfg.DetailTitle + " " + date,
		Date:     date,
		BasePath: cfg.BasePath,
	}
	view.Info = "Информация отсутствует."
	if m.Info != nil && *m.Info != "" {
		view.Info = *m.Info
	}

	labels := cfg.DetailLabels
	if labels.Warehouse != "" {
		view.Fields = append(view.Fields, DetailField{Label: labels.Warehouse, Value: warehouseName(m)})
	}
	if labels.TargetWarehouse != "" {
		view.Fields = append(view.Fields, DetailField{Label: labels.TargetWarehouse, Value: targetWarehouseName(m)})
	}
	if labels.Counterparty != "" {
		view.Fields = append(view.Fields, DetailField{Label: labels.Counterparty, Value: counterpartyName(m)})
	}
	if labels.Employee != "" {
		view.Fields = append(view.Fields, DetailField{Label: labels.Employee, Value: employeeName(m)})
	}
	if labels.TargetEmployee != "" {
		view.Fields = append(view.Fields, DetailField{Label: labels.TargetEmployee, Value: targetEmployeeName(m)})
	}

	for _, item := range m.Items {
		view.Items = append(view.Items, ItemRow{
			ID:          item.ID,
			ProductID:   item.Product.ID,
			ProductName: item.Product.Name,
			Quantity:    item.Quantity,
		})
	}
	view.ItemsEmpty = len(view.Items) == 0
	return view
}
