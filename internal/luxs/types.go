package luxs

import "github.com/woonstad/datamakelaar/pkg/models"

// Attribute types as reported by /v1/metadata.
const (
	TypeString  = "STRING"
	TypeBoolean = "BOOLEAN"
	TypeDate    = "DATE"
)

// Metadata is the response of the /v1/metadata endpoint.
type Metadata struct {
	ObjectTypes []ObjectType `json:"objectTypes"`
}

// ObjectType describes one object type and its attributes.
type ObjectType struct {
	Name             string         `json:"name"`
	Attributes       []AttributeDef `json:"attributes"`
	ChildObjectTypes []string       `json:"childObjectTypes,omitempty"`
}

// AttributeDef describes a single attribute of an object type.
type AttributeDef struct {
	Name                  string   `json:"name"`
	Type                  string   `json:"type"`
	Source                string   `json:"source,omitempty"`
	Definition            string   `json:"definition,omitempty"`
	AttributeCategory     string   `json:"attributeCategory,omitempty"`
	DateFormat            string   `json:"dateFormat,omitempty"`
	AttributeValueOptions []string `json:"attributeValueOptions,omitempty"`
	ContactPerson         string   `json:"contactPerson,omitempty"`
	ContactEmail          string   `json:"contactEmail,omitempty"`
}

// ObjectTypeNamed returns the object type with the given name, or nil.
func (m *Metadata) ObjectTypeNamed(name string) *ObjectType {
	for i := range m.ObjectTypes {
		if m.ObjectTypes[i].Name == name {
			return &m.ObjectTypes[i]
		}
	}
	return nil
}

// AttributeNamed returns the attribute with the given name, or nil.
func (ot *ObjectType) AttributeNamed(name string) *AttributeDef {
	for i := range ot.Attributes {
		if ot.Attributes[i].Name == name {
			return &ot.Attributes[i]
		}
	}
	return nil
}

// ObjectQuery selects objects from /v1/objects/filterByObjectType.
type ObjectQuery struct {
	// ObjectType is the required object type to filter on.
	ObjectType string
	// Attributes limits the returned attributes. Empty means all.
	Attributes []string
	// Identifier filters on a single object identifier.
	Identifier string
	// OnlyActive limits the result to active objects.
	OnlyActive bool
	// Page is the zero-based page number.
	Page int
	// PageSize is the number of objects per page.
	PageSize int
}

// ObjectPage is one page of objects. The platform sometimes answers
// with a bare JSON array; the client normalizes that into this shape.
type ObjectPage struct {
	Objects     []models.Object `json:"objects"`
	TotalCount  int             `json:"totalCount"`
	TotalPages  int             `json:"totalPages"`
	CurrentPage int             `json:"currentPage"`
	PageSize    int             `json:"pageSize,omitempty"`
}
