package movement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockfront/stockfront/internal/backend"
)

func sampleItems() []backend.MovementItem {
	return []backend.MovementItem{
		{ID: 1, Product: backend.Product{ID: 100, Name: "Гвозди"}, Quantity: 5},
		{ID: 2, Product: backend.Product{ID: 101, Name: "Шурупы"}, Quantity: 3},
		{ID: 3, Product: backend.Product{ID: 102, Name: "Доски"}, Quantity: 7},
	}
}

func TestItemsPayloadPreservesOrder(t *testing.T) {
	payload := ItemsPayload(sampleItems())
	require.Len(t, payload, 3)
	assert.Equal(t, int64(100), payload[0].Product.ID)
	assert.Equal(t, 5, payload[0].Quantity)
	assert.Equal(t, int64(102), payload[2].Product.ID)
}

func TestItemsPayloadEmpty(t *testing.T) {
	payload := ItemsPayload(nil)
	require.NotNil(t, payload)
	assert.Empty(t, payload)
}

func TestAppendItem(t *testing.T) {
	payload := AppendItem(sampleItems(), 200, 12)
	require.Len(t, payload, 4)
	assert.Equal(t, int64(200), payload[3].Product.ID)
	assert.Equal(t, 12, payload[3].Quantity)
}

func TestUpdateItemQuantity(t *testing.T) {
	payload := UpdateItemQuantity(sampleItems(), 2, 99)
	require.Len(t, payload, 3)
	assert.Equal(t, 5, payload[0].Quantity)
	assert.Equal(t, 99, payload[1].Quantity)
	assert.Equal(t, 7, payload[2].Quantity)
}

func TestRemoveItemDropsExactlyOneLine(t *testing.T) {
	payload := RemoveItem(sampleItems(), 1)
	require.Len(t, payload, 2)
	assert.Equal(t, int64(101), payload[0].Product.ID)
	assert.Equal(t, int64(102), payload[1].Product.ID)
}

func TestRemoveItemUnknownIDKeepsAll(t *testing.T) {
	payload := RemoveItem(sampleItems(), 999)
	assert.Len(t, payload, 3)
}

func TestHeaderPayloadCarriesHeaderVerbatim(t *testing.T) {
	info := "перемещение между цехами"
	m := backend.Movement{
		ID:              7,
		Date:            backend.NewLocalTime(mustDate(t, "01.02.2025 09:00")),
		Type:            "TRANSFER",
		Info:            &info,
		Warehouse:       &backend.Warehouse{ID: 1, Name: "Основной"},
		Employee:        &backend.Employee{ID: 20, Name: "Иванов"},
		TargetWarehouse: &backend.Warehouse{ID: 2, Name: "Резервный"},
		TargetEmployee:  &backend.Employee{ID: 21, Name: "Петров"},
		Items:           sampleItems(),
	}

	items := RemoveItem(m.Items, 3)
	p := HeaderPayload(m, items)

	assert.Equal(t, "TRANSFER", p.Type)
	assert.Equal(t, m.Date, p.Date)
	assert.Equal(t, &info, p.Info)
	assert.Equal(t, int64(1), p.Warehouse.ID)
	assert.Equal(t, int64(20), p.Employee.ID)
	assert.Nil(t, p.Counterparty)
	require.NotNil(t, p.TargetWarehouse)
	assert.Equal(t, int64(2), p.TargetWarehouse.ID)
	require.NotNil(t, p.TargetEmployee)
	assert.Equal(t, int64(21), p.TargetEmployee.ID)
	assert.Len(t, p.Items, 2)
}
