package movement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	for _, s := range []string{"INBOUND", "OUTBOUND", "TRANSFER"} {
		parsed, ok := ParseType(s)
		require.True(t, ok)
		assert.Equal(t, Type(s), parsed)
	}

	_, ok := ParseType("RETURN")
	assert.False(t, ok)
	_, ok = ParseType("inbound")
	assert.False(t, ok, "type matching is case sensitive")
}

func TestConfigVisibilityPerKind(t *testing.T) {
	inbound, ok := ConfigFor(Inbound)
	require.True(t, ok)
	assert.True(t, inbound.Fields.RequireCounterparty)
	assert.False(t, inbound.Fields.RequireTargetWarehouse)
	assert.False(t, inbound.Fields.RequireTargetEmployee)

	outbound, ok := ConfigFor(Outbound)
	require.True(t, ok)
	assert.True(t, outbound.Fields.RequireCounterparty)
	assert.False(t, outbound.Fields.RequireTargetWarehouse)

	transfer, ok := ConfigFor(Transfer)
	require.True(t, ok)
	assert.False(t, transfer.Fields.RequireCounterparty, "transfers never show a counterparty")
	assert.True(t, transfer.Fields.RequireTargetWarehouse)
	assert.True(t, transfer.Fields.RequireTargetEmployee)
}

func TestConfigLabelsAndPaths(t *testing.T) {
	inbound, _ := ConfigFor(Inbound)
	assert.Equal(t, "/deliveries", inbound.BasePath)
	assert.Equal(t, "Поставки", inbound.ListTitle)
	assert.Equal(t, "Поставщик", inbound.FormLabels.Counterparty)

	outbound, _ := ConfigFor(Outbound)
	assert.Equal(t, "/shipments", outbound.BasePath)
	assert.Equal(t, "Приёмщик", outbound.FormLabels.Counterparty)

	transfer, _ := ConfigFor(Transfer)
	assert.Equal(t, "/transfers", transfer.BasePath)
	assert.Equal(t, "Склад отправки", transfer.FormLabels.Warehouse)
	assert.Len(t, transfer.ListColumns, 4)
}

func TestAllConfigsStableOrder(t *testing.T) {
	configs := AllConfigs()
	require.Len(t, configs, 3)
	assert.Equal(t, Inbound, configs[0].Type)
	assert.Equal(t, Outbound, configs[1].Type)
	assert.Equal(t, Transfer, configs[2].Type)
}
