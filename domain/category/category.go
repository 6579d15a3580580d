// Package category defines the Category entity and related types.
package category

// Type classifies what a category contains. Materials are physical products
// that carry stock; services have no stock of their own.
type Type string

const (
	TypeMaterial Type = "MATERIAL"
	TypeService  Type = "SERVICIO"
)

// Valid reports whether t is one of the known category types.
func (t Type) Valid() bool {
	return t == TypeMaterial || t == TypeService
}

// Category groups products for classification and reporting.
type Category struct {
	// ID is the unique identifier assigned by the database.
	ID int64

	// Name is the display name, unique among categories.
	Name string

	// Type determines whether products in this category carry stock.
	Type Type
}

// IsMaterial reports whether products in this category carry stock.
func (c *Category) IsMaterial() bool {
	return c.Type == TypeMaterial
}
