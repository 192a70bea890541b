package movement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockfront/stockfront/internal/backend"
	"github.com/stockfront/stockfront/internal/refdata"
)

func testBundle() *refdata.Bundle {
	return &refdata.Bundle{
		Warehouses: []backend.Warehouse{
			{ID: 1, Name: "Основной"},
			{ID: 2, Name: "Резервный"},
		},
		Counterparties: []backend.Counterparty{
			{ID: 10, Name: "ООО Ромашка"},
		},
		Employees: []backend.Employee{
			{ID: 20, Name: "Иванов"},
			{ID: 21, Name: "Петров"},
		},
	}
}

func TestNewFormPopulatesOptions(t *testing.T) {
	f := NewForm(testBundle())

	assert.Len(t, f.Warehouse.Options, 2)
	assert.Len(t, f.TargetWarehouse.Options, 2)
	assert.Len(t, f.Counterparty.Options, 1)
	assert.Len(t, f.Employee.Options, 2)
	assert.Len(t, f.TargetEmployee.Options, 2)

	assert.True(t, f.Warehouse.Visible)
	assert.True(t, f.Employee.Visible)
	assert.False(t, f.Counterparty.Visible)
	assert.False(t, f.TargetWarehouse.Visible)
	assert.False(t, f.TargetEmployee.Visible)
}

func TestBinderAppliesVisibilityPerKind(t *testing.T) {
	f := NewForm(testBundle())
	binder := NewBinder()

	inbound, _ := ConfigFor(Inbound)
	binder.Apply(f, inbound)
	assert.True(t, f.Counterparty.Visible)
	assert.True(t, f.Counterparty.Required)
	assert.False(t, f.TargetWarehouse.Visible)
	assert.Equal(t, "Поставщик", f.Counterparty.Label)
	assert.Equal(t, "Приёмщик", f.Employee.Label)

	transfer, _ := ConfigFor(Transfer)
	binder.Apply(f, transfer)
	assert.False(t, f.Counterparty.Visible)
	assert.True(t, f.TargetWarehouse.Visible)
	assert.True(t, f.TargetEmployee.Visible)
	assert.Equal(t, "Склад отправки", f.Warehouse.Label)
	assert.Equal(t, "Приёмщик", f.TargetEmployee.Label)
	// The transfer config has no counterparty label override, so the
	// default label must come back after the inbound override.
	assert.Equal(t, "Контрагент", f.Counterparty.Label)
}

func TestBinderClearsHiddenValues(t *testing.T) {
	f := NewForm(testBundle())
	f.Counterparty.Value = 10

	transfer, _ := ConfigFor(Transfer)
	NewBinder().Apply(f, transfer)

	assert.Zero(t, f.Counterparty.Value)
	assert.False(t, f.Counterparty.Required)
}

func TestFillFromMarksSelectedOptions(t *testing.T) {
	info := "срочная"
	m := backend.Movement{
		Date:      backend.NewLocalTime(mustDate(t, "25.12.2024 14:30")),
		Info:      &info,
		Warehouse: &backend.Warehouse{ID: 2, Name: "Резервный"},
		Employee:  &backend.Employee{ID: 21, Name: "Петров"},
	}
	f := NewForm(testBundle())
	f.FillFrom(m)

	assert.Equal(t, "2024-12-25T14:30", f.Date)
	assert.Equal(t, "срочная", f.Info)
	assert.Equal(t, int64(2), f.Warehouse.Value)
	assert.False(t, f.Warehouse.Options[0].Selected)
	assert.True(t, f.Warehouse.Options[1].Selected)
	assert.True(t, f.Employee.Options[1].Selected)
}

func TestValidateRequiredFieldsPerKind(t *testing.T) {
	inbound, _ := ConfigFor(Inbound)
	errs := Validate(inbound, Input{})
	assert.Contains(t, errs, "date")
	assert.Contains(t, errs, "warehouseId")
	assert.Contains(t, errs, "employeeId")
	assert.Contains(t, errs, "counterpartyId")
	assert.NotContains(t, errs, "targetWarehouseId")

	transfer, _ := ConfigFor(Transfer)
	errs = Validate(transfer, Input{Date: "25.12.2024 14:30", WarehouseID: 1, EmployeeID: 20})
	assert.NotContains(t, errs, "counterpartyId")
	assert.Contains(t, errs, "targetWarehouseId")
	assert.Contains(t, errs, "targetEmployeeId")

	errs = Validate(transfer, Input{
		Date: "25.12.2024 14:30", WarehouseID: 1, EmployeeID: 20,
		TargetWarehouseID: 2, TargetEmployeeID: 21,
	})
	assert.Empty(t, errs)
}

func TestBuildPayloadForcesHiddenFieldsNull(t *testing.T) {
	transfer, _ := ConfigFor(Transfer)
	in := Input{
		Date:              "25.12.2024 14:30",
		WarehouseID:       1,
		EmployeeID:        20,
		CounterpartyID:    10,
		TargetWarehouseID: 2,
		TargetEmployeeID:  21,
	}
	p := BuildPayload(transfer, in, nil)

	assert.Equal(t, "TRANSFER", p.Type)
	assert.Nil(t, p.Counterparty, "counterparty stays null for transfers")
	require.NotNil(t, p.TargetWarehouse)
	assert.Equal(t, int64(2), p.TargetWarehouse.ID)
	require.NotNil(t, p.TargetEmployee)
	assert.Equal(t, int64(21), p.TargetEmployee.ID)
	require.NotNil(t, p.Items, "whole-record writes always carry an item array")
	assert.Empty(t, p.Items)
}

func TestBuildPayloadTrimsInfo(t *testing.T) {
	inbound, _ := ConfigFor(Inbound)
	p := BuildPayload(inbound, Input{Date: "25.12.2024", WarehouseID: 1, EmployeeID: 20, CounterpartyID: 10, Info: "  примечание  "}, nil)
	require.NotNil(t, p.Info)
	assert.Equal(t, "примечание", *p.Info)

	p = BuildPayload(inbound, Input{Date: "25.12.2024", WarehouseID: 1, EmployeeID: 20, CounterpartyID: 10, Info: "   "}, nil)
	assert.Nil(t, p.Info)
}

func mustDate(t *testing.T, s string) (parsed time.Time) {
	t.Helper()
	parsed, ok := ParseDate(s)
	require.True(t, ok)
	return parsed
}
