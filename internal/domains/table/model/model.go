package model

import "mesa/shared/model"

const (
	TableName  = "restaurant_tables"
	EntityName = "table"

	FieldID       = "id"
	FieldNumber   = "number"
	FieldCapacity = "capacity"
	FieldArea     = "area"
	FieldActive   = "active"
)

// Dining areas of the restaurant.
const (
	AreaMainHall    = "salon_principal"
	AreaTerrace     = "terraza"
	AreaPrivateRoom = "salon_privado"
	AreaBar         = "barra"
)

// Areas lists every valid dining area, in presentation order.
var Areas = []string{AreaMainHall, AreaTerrace, AreaPrivateRoom, AreaBar}

// Table is a physical table of the restaurant. The catalog is read-mostly
// reference data: the allocator consumes it, the admin dashboard edits it.
type Table struct {
	ID       string `db:"id"`
	Number   string `db:"number"`
	Capacity int    `db:"capacity"`
	Area     string `db:"area"`
	Active   bool   `db:"active"`
	model.Metadata
}
