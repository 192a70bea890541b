// Package movement implements the shared list/detail/edit flow for the
// three stock movement kinds. One declarative config per kind drives
// routing, list columns, field visibility and labels; the handlers and
// view-model builders are generic over it.
package movement

import "github.com/stockfront/stockfront/internal/backend"

// Type enumerates the movement kinds.
type Type string

const (
	// Inbound is a delivery from a counterparty into a warehouse.
	Inbound Type = "INBOUND"
	// Outbound is a shipment from a warehouse to a counterparty.
	Outbound Type = "OUTBOUND"
	// Transfer moves stock between two warehouses.
	Transfer Type = "TRANSFER"
)

// ParseType maps a wire/query string onto a known Type.
func ParseType(s string) (Type, bool) {
	switch Type(s) {
	case Inbound, Outbound, Transfer:
		return Type(s), true
	}
	return "", false
}

// Column describes one type-specific list column: its header label and
// how to project a movement to display text.
type Column struct {
	ID    string
	Label string
	Value func(m backend.Movement) string
}

// FieldVisibility says which optional relation fields apply to a kind.
// Visible fields are required; hidden fields must be null on the wire.
type FieldVisibility struct {
	RequireCounterparty    bool
	RequireTargetWarehouse bool
	RequireTargetEmployee  bool
}

// Labels carries per-field display labels. An empty string means the
// field keeps its default label (forms) or is not shown (detail).
type Labels struct {
	Warehouse       string
	Counterparty    string
	Employee        string
	TargetWarehouse string
	TargetEmployee  string
}

// Config is the static description of one movement kind. Configs are
// never mutated after construction.
type Config struct {
	Type         Type
	BasePath     string
	ListTitle    string
	DetailTitle  string
	ListColumns  []Column
	Fields       FieldVisibility
	FormLabels   Labels
	DetailLabels Labels
}

const missing = "—"

func warehouseName(m backend.Movement) string {
	if m.Warehouse == nil || m.Warehouse.Name == "" {
		return missing
	}
	return m.Warehouse.Name
}

func counterpartyName(m backend.Movement) string {
	if m.Counterparty == nil || m.Counterparty.Name == "" {
		return missing
	}
	return m.Counterparty.Name
}

func employeeName(m backend.Movement) string {
	if m.Employee == nil || m.Employee.Name == "" {
		return missing
	}
	return m.Employee.Name
}

func targetWarehouseName(m backend.Movement) string {
	if m.TargetWarehouse == nil || m.TargetWarehouse.Name == "" {
		return missing
	}
	return m.TargetWarehouse.Name
}

func targetEmployeeName(m backend.Movement) string {
	if m.TargetEmployee == nil || m.TargetEmployee.Name == "" {
		return missing
	}
	return m.TargetEmployee.Name
}

var configs = map[Type]Config{
	Inbound: {
		Type:        Inbound,
		BasePath:    "/deliveries",
		ListTitle:   "Поставки",
		DetailTitle: "Поставка",
		ListColumns: []Column{
			{ID: "warehouse", Label: "Склад", Value: warehouseName},
			{ID: "second", Label: "Поставщик", Value: counterpartyName},
			{ID: "third", Label: "Приёмщик", Value: employeeName},
		},
		Fields: FieldVisibility{RequireCounterparty: true},
		FormLabels: Labels{
			Warehouse:       "Склад",
			Counterparty:    "Поставщик",
			Employee:        "Приёмщик",
			TargetWarehouse: "Склад приёмки",
			TargetEmployee:  "Сотрудник приёмки",
		},
		DetailLabels: Labels{
			Warehouse:    "Склад",
			Counterparty: "Поставщик",
			Employee:     "Приёмщик",
		},
	},
	Outbound: {
		Type:        Outbound,
		BasePath:    "/shipments",
		ListTitle:   "Отгрузки",
		DetailTitle: "Отгрузка",
		ListColumns: []Column{
			{ID: "warehouse", Label: "Склад", Value: warehouseName},
			{ID: "second", Label: "Приёмщик", Value: counterpartyName},
			{ID: "third", Label: "Отгрузчик", Value: employeeName},
		},
		Fields: FieldVisibility{RequireCounterparty: true},
		FormLabels: Labels{
			Warehouse:       "Склад",
			Counterparty:    "Приёмщик",
			Employee:        "Отгрузчик",
			TargetWarehouse: "Склад приёмки",
			TargetEmployee:  "Сотрудник приёмки",
		},
		DetailLabels: Labels{
			Warehouse:    "Склад",
			Counterparty: "Приёмщик",
			Employee:     "Отгрузчик",
		},
	},
	Transfer: {
		Type:        Transfer,
		BasePath:    "/transfers",
		ListTitle:   "Трансферы",
		DetailTitle: "Трансфер",
		ListColumns: []Column{
			{ID: "warehouse", Label: "Склад отправки", Value: warehouseName},
			{ID: "second", Label: "Склад приёмки", Value: targetWarehouseName},
			{ID: "third", Label: "Отгрузчик", Value: employeeName},
			{ID: "fourth", Label: "Приёмщик", Value: targetEmployeeName},
		},
		Fields: FieldVisibility{RequireTargetWarehouse: true, RequireTargetEmployee: true},
		FormLabels: Labels{
			Warehouse:       "Склад отправки",
			Employee:        "Отгрузчик",
			TargetWarehouse: "Склад приёмки",
			TargetEmployee:  "Приёмщик",
		},
		DetailLabels: Labels{
			Warehouse:       "Склад отправки",
			Employee:        "Отгрузчик",
			TargetWarehouse: "Склад приёмки",
			TargetEmployee:  "Приёмщик",
		},
	},
}

// ConfigFor returns the static config of a movement kind.
func ConfigFor(t Type) (Config, bool) {
	cfg, ok := configs[t]
	return cfg, ok
}

// AllConfigs returns the three configs in a stable order for route
// registration and navigation.
func AllConfigs() []Config {
	return []Config{configs[Inbound], configs[Outbound], configs[Transfer]}
}
