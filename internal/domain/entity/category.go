package entity

// Category agrupa productos. Eliminar una categoría deja los productos sin
// categoría (la referencia se anula), nunca los elimina.
type Category struct {
	ID   string
	Name string
}
