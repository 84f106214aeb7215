package schema

// Field builds a NamedEntry, the small piece of sugar used when
// assembling a GenericRecord or Enumeration by hand in Go rather than
// deriving one from a language-level type definition.
func Field(name string, s Schema) NamedEntry {
	return NamedEntry{Name: name, Schema: s}
}
