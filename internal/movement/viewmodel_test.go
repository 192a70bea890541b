package movement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockfront/stockfront/internal/backend"
)

func transferMovement(t *testing.T) backend.Movement {
	t.Helper()
	return backend.Movement{
		ID:              7,
		Date:            backend.NewLocalTime(mustDate(t, "01.02.2025 09:00")),
		Type:            "TRANSFER",
		Warehouse:       &backend.Warehouse{ID: 1, Name: "Основной"},
		Employee:        &backend.Employee{ID: 20, Name: "Иванов"},
		TargetWarehouse: &backend.Warehouse{ID: 2, Name: "Резервный"},
		TargetEmployee:  &backend.Employee{ID: 21, Name: "Петров"},
		Items:           sampleItems(),
	}
}

func TestBuildListViewColumnsPerKind(t *testing.T) {
	inbound, _ := ConfigFor(Inbound)
	movements := []backend.Movement{
		{
			ID:           1,
			Date:         backend.NewLocalTime(mustDate(t, "25.12.2024 14:30")),
			Warehouse:    &backend.Warehouse{ID: 1, Name: "Основной"},
			Counterparty: &backend.Counterparty{ID: 10, Name: "ООО Ромашка"},
			Employee:     &backend.Employee{ID: 20, Name: "Иванов"},
		},
	}

	view := BuildListView(inbound, movements)
	assert.Equal(t, "Поставки", view.Title)
	assert.False(t, view.Empty)
	require.Len(t, view.Columns, 3)
	assert.Equal(t, "Поставщик", view.Columns[1].Label)
	require.Len(t, view.Rows, 1)
	assert.Equal(t, "25.12.2024 14:30", view.Rows[0].Date)
	assert.Equal(t, "/deliveries/1", view.Rows[0].DetailPath)
	assert.Equal(t, []string{"Основной", "ООО Ромашка", "Иванов"}, view.Rows[0].Cells)
}

func TestBuildListViewMissingRelations(t *testing.T) {
	outbound, _ := ConfigFor(Outbound)
	view := BuildListView(outbound, []backend.Movement{{ID: 2, Date: backend.NewLocalTime(mustDate(t, "10.01.2025"))}})
	require.Len(t, view.Rows, 1)
	assert.Equal(t, []string{"—", "—", "—"}, view.Rows[0].Cells)
}

func TestBuildListViewEmpty(t *testing.T) {
	transfer, _ := ConfigFor(Transfer)
	view := BuildListView(transfer, nil)
	assert.True(t, view.Empty)
	assert.Empty(t, view.Rows)
	assert.Len(t, view.Columns, 4)
}

func TestBuildListViewIsPure(t *testing.T) {
	inbound, _ := ConfigFor(Inbound)
	movements := []backend.Movement{{ID: 1, Date: backend.NewLocalTime(mustDate(t, "25.12.2024 14:30"))}}
	first := BuildListView(inbound, movements)
	second := BuildListView(inbound, movements)
	assert.Equal(t, first, second)
}

func TestBuildDetailViewTransferHidesCounterparty(t *testing.T) {
	transfer, _ := ConfigFor(Transfer)
	view := BuildDetailView(transfer, transferMovement(t))

	assert.Equal(t, "Трансфер 01.02.2025 09:00", view.Title)
	labels := make([]string, 0, len(view.Fields))
	for _, f := range view.Fields {
		labels = append(labels, f.Label)
	}
	assert.Equal(t, []string{"Склад отправки", "Склад приёмки", "Отгрузчик", "Приёмщик"}, labels)

	require.Len(t, view.Items, 3)
	assert.Equal(t, "Гвозди", view.Items[0].ProductName)
	assert.False(t, view.ItemsEmpty)
}

func TestBuildDetailViewInboundFields(t *testing.T) {
	inbound, _ := ConfigFor(Inbound)
	info := "крупная партия"
	m := backend.Movement{
		ID:           3,
		Date:         backend.NewLocalTime(mustDate(t, "25.12.2024 14:30")),
		Info:         &info,
		Warehouse:    &backend.Warehouse{ID: 1, Name: "Основной"},
		Counterparty: &backend.Counterparty{ID: 10, Name: "ООО Ромашка"},
		Employee:     &backend.Employee{ID: 20, Name: "Иванов"},
	}
	view := BuildDetailView(inbound, m)

	assert.Equal(t, "крупная партия", view.Info)
	require.Len(t, view.Fields, 3)
	assert.Equal(t, "Поставщик", view.Fields[1].Label)
	assert.Equal(t, "ООО Ромашка", view.Fields[1].Value)
	assert.True(t, view.ItemsEmpty)
}

func TestBuildDetailViewInfoDefault(t *testing.T) {
	inbound, _ := ConfigFor(Inbound)
	view := BuildDetailView(inbound, backend.Movement{ID: 4, Date: backend.NewLocalTime(mustDate(t, "25.12.2024"))})
	assert.Equal(t, "Информация отсутствует.", view.Info)
}
