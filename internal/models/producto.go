package models

import "time"

// Producto represents a product in the catalog.
// A Producto without ID is new; the server assigns the ID on create.
type Producto struct {
	ID          *int64  `json:"id,omitempty"`
	Nombre      string  `json:"nombre" validate:"required,min=3"`
	Descripcion string  `json:"descripcion" validate:"required"`
	Precio      float64 `json:"precio" validate:"gte=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
}

// IsNew reports whether the product has not been persisted yet.
func (p Producto) IsNew() bool {
	return p.ID == nil
}

// IDValue returns the ID or 0 for a new product.
func (p Producto) IDValue() int64 {
	if p.ID == nil {
		return 0
	}
	return *p.ID
}

// WithID returns a copy of p carrying the given ID.
func (p Producto) WithID(id int64) Producto {
	p.ID = &id
	return p
}

// WithoutID returns a copy of p with the ID cleared.
func (p Producto) WithoutID() Producto {
	p.ID = nil
	return p
}

// Draft is the in-progress field set edited before a create or update.
// Precio and Stock are pointers so an empty field can be told apart from zero.
type Draft struct {
	Nombre      string   `json:"nombre" validate:"required,min=3"`
	Descripcion string   `json:"descripcion" validate:"required"`
	Precio      *float64 `json:"precio" validate:"required,gte=0"`
	Stock       *int     `json:"stock" validate:"required,gte=0"`
}

// NewDraft seeds a draft from p. A nil p yields the empty create defaults.
func NewDraft(p *Producto) Draft {
	precio, stock := 0.0, 0
	d := Draft{Precio: &precio, Stock: &stock}
	if p == nil {
		return d
	}
	d.Nombre = p.Nombre
	d.Descripcion = p.Descripcion
	precio = p.Precio
	stock = p.Stock
	return d
}

// Producto converts the draft into a record without ID.
// Missing numeric fields become zero; callers validate first.
func (d Draft) Producto() Producto {
	p := Producto{
		Nombre:      d.Nombre,
		Descripcion: d.Descripcion,
	}
	if d.Precio != nil {
		p.Precio = *d.Precio
	}
	if d.Stock != nil {
		p.Stock = *d.Stock
	}
	return p
}

// Clone returns a deep copy so callers cannot alias the pointer fields.
func (d Draft) Clone() Draft {
	c := Draft{Nombre: d.Nombre, Descripcion: d.Descripcion}
	if d.Precio != nil {
		v := *d.Precio
		c.Precio = &v
	}
	if d.Stock != nil {
		v := *d.Stock
		c.Stock = &v
	}
	return c
}

// ProductoEvent is published by the backend after each successful mutation.
type ProductoEvent struct {
	Type       string    `json:"type"` // "producto.created", "producto.updated", "producto.deleted"
	ProductoID int64     `json:"producto_id"`
	Producto   *Producto `json:"producto,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

const (
	EventProductoCreated = "producto.created"
	EventProductoUpdated = "producto.updated"
	EventProductoDeleted = "producto.deleted"
)
