package dataset

import (
	"fmt"

	"github.com/woonstad/datamakelaar/internal/luxs"
)

// MergeMetadata fills in field types, date formats and value options
// from platform metadata for fields the definition leaves unspecified.
// Definition values win over platform values.
func MergeMetadata(def *Definition, md *luxs.Metadata) error {
	ot := md.ObjectTypeNamed(def.ObjectType)
	if ot == nil {
		return fmt.Errorf("object type %q not present in platform metadata", def.ObjectType)
	}

	for i := range def.Fields {
		f := &def.Fields[i]
		attr := ot.AttributeNamed(f.Attribute)
		if attr == nil {
			return fmt.Errorf("attribute %q not present on object type %q", f.Attribute, def.ObjectType)
		}
		if f.Type == "" {
			f.Type = FieldType(attr.Type)
			if !f.Type.Valid() {
				return fmt.Errorf("attribute %q has unsupported type %q", f.Attribute, attr.Type)
			}
		}
		if f.DateFormat == "" {
			f.DateFormat = attr.DateFormat
		}
		if len(f.Options) == 0 {
			f.Options = attr.AttributeValueOptions
		}
	}
	return nil
}
