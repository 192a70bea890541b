package movement

import (
	"strings"

	"github.com/stockfront/stockfront/internal/backend"
	"github.com/stockfront/stockfront/internal/refdata"
)

// Option is one entry of a reference select.
type Option struct {
	ID       int64
	Name     string
	Selected bool
}

// SelectField is one relation select on the movement form.
type SelectField struct {
	Name     string
	Label    string
	Visible  bool
	Required bool
	Value    int64
	Options  []Option
}

// Form is the movement header form model rendered by add and edit
// dialogs. Field visibility and labels depend on the movement kind and
// are applied by the Binder.
type Form struct {
	Date            string
	Info            string
	Warehouse       SelectField
	Counterparty    SelectField
	Employee        SelectField
	TargetWarehouse SelectField
	TargetEmployee  SelectField
	Errors          map[string]string
}

// NewForm builds a form with default labels and reference options. The
// warehouse and employee selects are always present; the rest start
// hidden until a Binder applies a kind's visibility.
func NewForm(refs *refdata.Bundle) *Form {
	f := &Form{
		Warehouse:       SelectField{Name: "warehouseId", Label: "Склад", Visible: true, Required: true},
		Counterparty:    SelectField{Name: "counterpartyId", Label: "Контрагент"},
		Employee:        SelectField{Name: "employeeId", Label: "Сотрудник", Visible: true, Required: true},
		TargetWarehouse: SelectField{Name: "targetWarehouseId", Label: "Склад приёмки"},
		TargetEmployee:  SelectField{Name: "targetEmployeeId", Label: "Сотрудник приёмки"},
		Errors:          map[string]string{},
	}
	if refs != nil {
		for _, w := range refs.Warehouses {
			f.Warehouse.Options = append(f.Warehouse.Options, Option{ID: w.ID, Name: w.Name})
			f.TargetWarehouse.Options = append(f.TargetWarehouse.Options, Option{ID: w.ID, Name: w.Name})
		}
		for _, cp := range refs.Counterparties {
			f.Counterparty.Options = append(f.Counterparty.Options, Option{ID: cp.ID, Name: cp.Name})
		}
		for _, e := range refs.Employees {
			f.Employee.Options = append(f.Employee.Options, Option{ID: e.ID, Name: e.Name})
			f.TargetEmployee.Options = append(f.TargetEmployee.Options, Option{ID: e.ID, Name: e.Name})
		}
	}
	return f
}

// FillFrom copies an existing movement into the form for editing.
func (f *Form) FillFrom(m backend.Movement) {
	f.Date = ToInputValue(m.Date.Time)
	if m.Info != nil {
		f.Info = *m.Info
	}
	if m.Warehouse != nil {
		f.Warehouse.Value = m.Warehouse.ID
	}
	if m.Counterparty != nil {
		f.Counterparty.Value = m.Counterparty.ID
	}
	if m.Employee != nil {
		f.Employee.Value = m.Employee.ID
	}
	if m.TargetWarehouse != nil {
		f.TargetWarehouse.Value = m.TargetWarehouse.ID
	}
	if m.TargetEmployee != nil {
		f.TargetEmployee.Value = m.TargetEmployee.ID
	}
	f.markSelected()
}

// FillFromInput restores a rejected submission into the form so the
// user's values and field errors survive the re-render.
func (f *Form) FillFromInput(in Input, errs map[string]string) {
	f.Date = in.Date
	f.Info = in.Info
	f.Warehouse.Value = in.WarehouseID
	f.Counterparty.Value = in.CounterpartyID
	f.Employee.Value = in.EmployeeID
	f.TargetWarehouse.Value = in.TargetWarehouseID
	f.TargetEmployee.Value = in.TargetEmployeeID
	f.Errors = errs
	f.markSelected()
}

func (f *Form) markSelected() {
	for _, field := range f.fields() {
		for i := range field.Options {
			field.Options[i].Selected = field.Options[i].ID == field.Value
		}
	}
}

func (f *Form) fields() []*SelectField {
	return []*SelectField{&f.Warehouse, &f.Counterparty, &f.Employee, &f.TargetWarehouse, &f.TargetEmployee}
}

// SelectFields returns the relation selects in render order.
func (f *Form) SelectFields() []SelectField {
	return []SelectField{f.Warehouse, f.Counterparty, f.Employee, f.TargetWarehouse, f.TargetEmployee}
}

// Binder applies a kind's visibility flags and label overrides to a
// form. It remembers each field's default label on first application, so
// re-binding the same form for another kind restores defaults where the
// new kind has no override.
type Binder struct {
	defaults map[string]string
}

// NewBinder constructs an empty binder.
func NewBinder() *Binder {
	return &Binder{defaults: map[string]string{}}
}

// Apply shows/hides the optional relation fields, synchronizes
// required-ness with visibility, clears hidden values and applies label
// overrides.
func (b *Binder) Apply(f *Form, cfg Config) {
	for _, field := range f.fields() {
		if _, ok := b.defaults[field.Name]; !ok {
			b.defaults[field.Name] = field.Label
		}
	}

	b.toggle(&f.Counterparty, cfg.Fields.RequireCounterparty, cfg.FormLabels.Counterparty)
	b.toggle(&f.TargetWarehouse, cfg.Fields.RequireTargetWarehouse, cfg.FormLabels.TargetWarehouse)
	b.toggle(&f.TargetEmployee, cfg.Fields.RequireTargetEmployee, cfg.FormLabels.TargetEmployee)

	f.Warehouse.Label = b.labelFor(&f.Warehouse, cfg.FormLabels.Warehouse)
	f.Employee.Label = b.labelFor(&f.Employee, cfg.FormLabels.Employee)
	f.markSelected()
}

func (b *Binder) toggle(field *SelectField, visible bool, label string) {
	field.Visible = visible
	field.Required = visible
	if !visible {
		field.Value = 0
	}
	field.Label = b.labelFor(field, label)
}

func (b *Binder) labelFor(field *SelectField, override string) string {
	if override != "" {
		return override
	}
	if def, ok := b.defaults[field.Name]; ok {
		return def
	}
	return field.Label
}

// Input is the parsed movement header submission.
type Input struct {
	Date              string
	Info              string
	WarehouseID       int64
	CounterpartyID    int64
	EmployeeID        int64
	TargetWarehouseID int64
	TargetEmployeeID  int64
}

// Validate checks the submission against the kind's visibility rules.
// It is a client-side gate only; the backend stays authoritative.
func Validate(cfg Config, in Input) map[string]string {
	errs := map[string]string{}
	if _, ok := ParseDate(in.Date); !ok {
		errs["date"] = "Укажите дату в формате ДД.ММ.ГГГГ ЧЧ:ММ"
	}
	if in.WarehouseID == 0 {
		errs["warehouseId"] = "Выберите склад"
	}
	if in.EmployeeID == 0 {
		errs["employeeId"] = "Выберите сотрудника"
	}
	if cfg.Fields.RequireCounterparty && in.CounterpartyID == 0 {
		errs["counterpartyId"] = "Выберите контрагента"
	}
	if cfg.Fields.RequireTargetWarehouse && in.TargetWarehouseID == 0 {
		errs["targetWarehouseId"] = "Выберите склад приёмки"
	}
	if cfg.Fields.RequireTargetEmployee && in.TargetEmployeeID == 0 {
		errs["targetEmployeeId"] = "Выберите сотрудника приёмки"
	}
	return errs
}

// BuildPayload assembles the write payload for a validated submission.
// Fields hidden for the kind are forced to null regardless of what the
// submission carried.
func BuildPayload(cfg Config, in Input, items []backend.ItemPayload) backend.MovementPayload {
	date, _ := ParseDate(in.Date)
	var info *string
	if trimmed := strings.TrimSpace(in.Info); trimmed != "" {
		info = &trimmed
	}
	p := backend.MovementPayload{
		Date:      backend.NewLocalTime(date),
		Type:      string(cfg.Type),
		Info:      info,
		Warehouse: backend.RefID{ID: in.WarehouseID},
		Employee:  backend.RefID{ID: in.EmployeeID},
		Items:     items,
	}
	if cfg.Fields.RequireCounterparty {
		p.Counterparty = backend.NullableRef(in.CounterpartyID)
	}
	if cfg.Fields.RequireTargetWarehouse {
		p.TargetWarehouse = backend.NullableRef(in.TargetWarehouseID)
	}
	if cfg.Fields.RequireTargetEmployee {
		p.TargetEmployee = backend.NullableRef(in.TargetEmployeeID)
	}
	if p.Items == nil {
		p.Items = []backend.ItemPayload{}
	}
	return p
}
