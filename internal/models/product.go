package models

// InventoryStatus is the stock state shown next to a product
type InventoryStatus string

const (
	InStock    InventoryStatus = "INSTOCK"
	LowStock   InventoryStatus = "LOWSTOCK"
	OutOfStock InventoryStatus = "OUTOFSTOCK"
)

// Severity maps the inventory status to the badge severity used by the catalog screen.
// Unknown statuses have no severity.
func (s InventoryStatus) Severity() string {
	switch s {
	case InStock:
		return "success"
	case LowStock:
		return "warning"
	case OutOfStock:
		return "danger"
	default:
		return ""
	}
}

// Product represents a catalog item
// Field names match the remote catalog API
type Product struct {
	ID               int64           `json:"id,omitempty"`
	Codigo           string          `json:"codigo"`
	Nombre           string          `json:"nombre"`
	Descripcion      string          `json:"descripcion"`
	Precio           float64         `json:"precio"`
	Imagen           string          `json:"imagen"`
	Categoria        string          `json:"categoria"`
	Cantidad         int             `json:"cantidad"`
	EstadoInventario InventoryStatus `json:"estadoInventario"`
	Rating           float64         `json:"rating"`
}
