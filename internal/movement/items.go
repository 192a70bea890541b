package movement

import "github.com/stockfront/stockfront/internal/backend"

// The backend has no partial item update: every item change is a full
// PUT of the movement. These helpers compute the next item collection
// locally; HeaderPayload then carries the unchanged header fields along.

// ItemsPayload converts stored items to their write shape, preserving
// order, product ids and quantities.
func ItemsPayload(items []backend.MovementItem) []backend.ItemPayload {
	out := make([]backend.ItemPayload, 0, len(items))
	for _, item := range items {
		out = append(out, backend.ItemPayload{
			Product:  backend.RefID{ID: item.Product.ID},
			Quantity: item.Quantity,
		})
	}
	return out
}

// AppendItem returns the item payload collection with one line added.
func AppendItem(items []backend.MovementItem, productID int64, quantity int) []backend.ItemPayload {
	return append(ItemsPayload(items), backend.ItemPayload{
		Product:  backend.RefID{ID: productID},
		Quantity: quantity,
	})
}

// UpdateItemQuantity returns the item payload collection with one line's
// quantity changed in place.
func UpdateItemQuantity(items []backend.MovementItem, itemID int64, quantity int) []backend.ItemPayload {
	out := make([]backend.ItemPayload, 0, len(items))
	for _, item := range items {
		qty := item.Quantity
		if item.ID == itemID {
			qty = quantity
		}
		out = append(out, backend.ItemPayload{
			Product:  backend.RefID{ID: item.Product.ID},
			Quantity: qty,
		})
	}
	return out
}

// RemoveItem returns the item payload collection without one line.
func RemoveItem(items []backend.MovementItem, itemID int64) []backend.ItemPayload {
	out := make([]backend.ItemPayload, 0, len(items))
	for _, item := range items {
		if item.ID == itemID {
			continue
		}
		out = append(out, backend.ItemPayload{
			Product:  backend.RefID{ID: item.Product.ID},
			Quantity: item.Quantity,
		})
	}
	return out
}

// HeaderPayload rebuilds the full write payload of an existing movement
// with its header fields unchanged and the given item collection.
func HeaderPayload(m backend.Movement, items []backend.ItemPayload) backend.MovementPayload {
	p := backend.MovementPayload{
		Date:  m.Date,
		Type:  m.Type,
		Info:  m.Info,
		Items: items,
	}
	if m.Warehouse != nil {
		p.Warehouse = backend.RefID{ID: m.Warehouse.ID}
	}
	if m.Employee != nil {
		p.Employee = backend.RefID{ID: m.Employee.ID}
	}
	if m.Counterparty != nil {
		p.Counterparty = &backend.RefID{ID: m.Counterparty.ID}
	}
	if m.TargetWarehouse != nil {
		p.TargetWarehouse = &backend.RefID{ID: m.TargetWarehouse.ID}
	}
	if m.TargetEmployee != nil {
		p.TargetEmployee = &backend.RefID{ID: m.TargetEmployee.ID}
	}
	return p
}
