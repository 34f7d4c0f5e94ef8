package models

import "testing"

func TestObjectAttribute(t *testing.T) {
	dakpartner := "Oranjedak"
	obj := Object{
		ObjectType: "Building",
		Identifier: "10001",
		Attributes: map[string]*string{
			"Dakpartner - Building - Woonstad Rotterdam":        &dakpartner,
			"Jaar dakrenovatie - Building - Woonstad Rotterdam": nil,
		},
	}

	tests := []struct {
		name string
		attr string
		want string
	}{
		{"set attribute", "Dakpartner - Building - Woonstad Rotterdam", "Oranjedak"},
		{"nil attribute", "Jaar dakrenovatie - Building - Woonstad Rotterdam", ""},
		{"missing attribute", "Onbekend", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := obj.Attribute(tt.attr); got != tt.want {
				t.Errorf("Attribute(%q) = %q, want %q", tt.attr, got, tt.want)
			}
		})
	}
}
