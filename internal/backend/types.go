package backend

import (
	"fmt"
	"strings"
	"time"
)

// localTimeLayout is the wire format for timestamps: ISO local time with
// seconds precision and no zone, as the backend serializes LocalDateTime.
const localTimeLayout = "2006-01-02T15:04:05"

// LocalTime marshals to the backend's zone-less timestamp format.
type LocalTime struct {
	time.Time
}

// NewLocalTime wraps a time.Time.
func NewLocalTime(t time.Time) LocalTime {
	return LocalTime{Time: t}
}

// MarshalJSON renders the ISO local format with seconds.
func (t LocalTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Format(localTimeLayout) + `"`), nil
}

// UnmarshalJSON accepts the wire format with or without seconds or
// fractional seconds.
func (t *LocalTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{localTimeLayout, "2006-01-02T15:04:05.999999999", "2006-01-02T15:04", "2006-01-02"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("backend: cannot parse timestamp %q", s)
}

// Warehouse is a storage location.
type Warehouse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Info string `json:"info,omitempty"`
}

// Category groups products.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Product is a stock-keeping unit.
type Product struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"`
	Info     *string   `json:"info"`
	Category *Category `json:"category,omitempty"`
}

// Counterparty is an external supplier or receiver.
type Counterparty struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Info  string `json:"info,omitempty"`
}

// Employee is an internal actor on movements.
type Employee struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Info  string `json:"info,omitempty"`
}

// MovementItem is one product line inside a movement.
type MovementItem struct {
	ID       int64   `json:"id"`
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Movement is a stock movement record: an inbound delivery, an outbound
// shipment or an inter-warehouse transfer. Which relations are set depends
// on the type: INBOUND/OUTBOUND carry a counterparty, TRANSFER carries
// target warehouse and employee instead.
type Movement struct {
	ID              int64          `json:"id"`
	Date            LocalTime      `json:"date"`
	Type            string         `json:"type"`
	Info            *string        `json:"info"`
	Warehouse       *Warehouse     `json:"warehouse"`
	Counterparty    *Counterparty  `json:"counterparty"`
	Employee        *Employee      `json:"employee"`
	TargetWarehouse *Warehouse     `json:"targetWarehouse"`
	TargetEmployee  *Employee      `json:"targetEmployee"`
	Items           []MovementItem `json:"items"`
}

// RefID is the id-only reference shape the backend expects on writes.
type RefID struct {
	ID int64 `json:"id"`
}

// NullableRef renders as {"id": n} or JSON null.
func NullableRef(id int64) *RefID {
	if id == 0 {
		return nil
	}
	return &RefID{ID: id}
}

// ItemPayload is one item line on a movement write.
type ItemPayload struct {
	Product  RefID `json:"product"`
	Quantity int   `json:"quantity"`
}

// MovementPayload is the write shape for creating or fully replacing a
// movement. Updates are whole-record: the complete item collection must be
// present on every write.
type MovementPayload struct {
	Date            LocalTime     `json:"date"`
	Type            string        `json:"type"`
	Info            *string       `json:"info"`
	Warehouse       RefID         `json:"warehouse"`
	Employee        RefID         `json:"employee"`
	Counterparty    *RefID        `json:"counterparty"`
	TargetWarehouse *RefID        `json:"targetWarehouse"`
	TargetEmployee  *RefID        `json:"targetEmployee"`
	Items           []ItemPayload `json:"items"`
}

// ProductPayload is the write shape for products.
type ProductPayload struct {
	Name     string  `json:"name"`
	Info     *string `json:"info"`
	Category RefID   `json:"category"`
}

// ContactPayload is the shared write shape for counterparties and employees.
type ContactPayload struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Info  string `json:"info"`
}

// WarehousePayload is the write shape for warehouses.
type WarehousePayload struct {
	Name string `json:"name"`
	Info string `json:"info"`
}

// CategoryPayload is the write shape for categories.
type CategoryPayload struct {
	Name string `json:"name"`
}

// WarehouseStock is one product balance inside a warehouse.
type WarehouseStock struct {
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
}

// StockReportRequest filters the PDF stock report. ReportDate is a plain
// YYYY-MM-DD date or null for "as of now".
type StockReportRequest struct {
	ReportDate   *string `json:"reportDate"`
	WarehouseIDs []int64 `json:"warehouseIds"`
	CategoryIDs  []int64 `json:"categoryIds"`
}
