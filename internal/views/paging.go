package views

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"productos/internal/models"
)

// DefaultPageSize is used when a non-positive page size is requested.
const DefaultPageSize = 10

// Page is one slice of a snapshot. Index is zero based.
type Page struct {
	Items []models.Producto
	Index int
	Size  int
	Total int
	Pages int
}

// Paginate slices items into the page at index. The index is clamped into
// range; an empty input yields one empty page.
func Paginate(items []models.Producto, index, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := len(items)
	pages := total / size
	if total%size != 0 {
		pages++
	}
	if pages == 0 {
		pages = 1
	}
	index = min(max(index, 0), pages-1)

	start := min(index*size, total)
	end := start + min(size, total-start)
	out := make([]models.Producto, end-start)
	copy(out, items[start:end])

	return Page{Items: out, Index: index, Size: size, Total: total, Pages: pages}
}

// SortColumns lists the columns accepted by SortProductos.
var SortColumns = []string{"id", "nombre", "descripcion", "precio", "stock"}

// SortProductos returns a sorted copy of items. The sort is stable.
func SortProductos(items []models.Producto, column string, desc bool) ([]models.Producto, error) {
	var compare func(a, b models.Producto) int
	switch strings.ToLower(column) {
	case "id":
		compare = func(a, b models.Producto) int { return cmp.Compare(a.IDValue(), b.IDValue()) }
	case "nombre":
		compare = func(a, b models.Producto) int { return strings.Compare(strings.ToLower(a.Nombre), strings.ToLower(b.Nombre)) }
	case "descripcion":
		compare = func(a, b models.Producto) int {
			return strings.Compare(strings.ToLower(a.Descripcion), strings.ToLower(b.Descripcion))
		}
	case "precio":
		compare = func(a, b models.Producto) int { return cmp.Compare(a.Precio, b.Precio) }
	case "stock":
		compare = func(a, b models.Producto) int { return cmp.Compare(a.Stock, b.Stock) }
	default:
		return nil, fmt.Errorf("unknown sort column %q", column)
	}

	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b models.Producto) int {
		if desc {
			return compare(b, a)
		}
		return compare(a, b)
	})
	return out, nil
}
