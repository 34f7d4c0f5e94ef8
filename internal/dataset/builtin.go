package dataset

// PODaken returns the built-in roof maintenance dataset. It is used
// when no dataset directory is configured.
func PODaken() *Definition {
	return &Definition{
		Name:        "po_daken",
		DisplayName: "PO Daken",
		ObjectType:  "Building",
		Fields: []Field{
			{
				Key:       "dakpartner",
				Attribute: "Dakpartner - Building - Woonstad Rotterdam",
				Column:    "Dakpartner",
				Type:      FieldString,
				Options: []string{
					"Cazdak Dakbedekkingen BV",
					"Oranjedak West BV",
					"Voormolen Dakbedekkingen B.V.",
				},
			},
			{
				Key:        "jaar_laatste_dakonderhoud",
				Attribute:  "Jaar laatste dakonderhoud - Building - Woonstad Rotterdam",
				Column:     "Jaar Laatste Dakonderhoud",
				Type:       FieldDate,
				DateFormat: "yyyy",
			},
			{
				Key:       "projectleider",
				Attribute: "Betrokken Projectleider Techniek Daken - Building - Woonstad Rotterdam",
				Column:    "Projectleider Techniek Daken",
				Type:      FieldString,
				Options:   []string{"Jack Robbemond", "Anton Jansen"},
			},
			{
				Key:       "dakveiligheid",
				Attribute: "Dakveiligheidsvoorzieningen aangebracht  - Building - Woonstad Rotterdam",
				Column:    "Dakveiligheid",
				Type:      FieldBoolean,
			},
			{
				Key:       "antenne",
				Attribute: "Antenne(opstelplaats) op dak  - Building - Woonstad Rotterdam",
				Column:    "Antenne",
				Type:      FieldBoolean,
			},
		},
	}
}
