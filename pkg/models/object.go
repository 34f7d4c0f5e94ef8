// Package models defines the shared domain types for datamakelaar.
package models

// Object is a single record as returned by the data platform.
type Object struct {
	// ObjectType is the platform object type (e.g. "Building").
	ObjectType string `json:"objectType"`
	// Identifier uniquely identifies the object within its type.
	Identifier string `json:"identifier"`
	// Attributes maps full attribute names to their values.
	// A nil value means the attribute is unset.
	Attributes map[string]*string `json:"attributes"`
}

// Attribute returns the value of the named attribute, or "" if unset.
func (o Object) Attribute(name string) string {
	if v, ok := o.Attributes[name]; ok && v != nil {
		return *v
	}
	return ""
}

// ObjectUpdate is the payload for a single object in a PUT or POST
// to /v1/objects.
type ObjectUpdate struct {
	// ObjectType is the platform object type being updated.
	ObjectType string `json:"objectType"`
	// Identifier selects the object to update.
	Identifier string `json:"identifier"`
	// Attributes holds the new attribute values. A nil value clears
	// the attribute on the platform.
	Attributes map[string]*string `json:"attributes"`
}

// UpdateResult is the platform's per-object response to an update.
type UpdateResult struct {
	// ObjectType echoes the object type from the request.
	ObjectType string `json:"objectType"`
	// Identifier echoes the identifier from the request.
	Identifier string `json:"identifier"`
	// Success reports whether the update was applied.
	Success bool `json:"success"`
	// IsCreation reports whether the object was created rather than updated.
	IsCreation bool `json:"isCreation"`
	// Message is the platform's human-readable status message.
	Message string `json:"message,omitempty"`
}
