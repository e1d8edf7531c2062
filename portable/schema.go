package portable

import (
	"fmt"

	"github.com/stokaro/dbxform/dbxerrors"
)

// Column is one column of a Table: a name, nullability, a PortableType, and an optional
// human-readable comment carried through to backends that support column comments.
type Column struct {
	Name     string
	Nullable bool
	Type     PortableType
	Comment  string
}

// Table is an ordered sequence of Columns under a single name.
type Table struct {
	Name    string
	Columns []Column
}

// NamedType is one entry of a Schema's named-type map: the type a Named("X") reference
// resolves to.
type NamedType struct {
	Name string
	Type PortableType
}

// Schema is the top-level container: a named-type map plus the single Table it describes.
// dbxform, like the original it's grounded on, models one schema as describing one target
// table; multi-table schemas are a higher-level concern outside the core.
type Schema struct {
	NamedTypes map[string]NamedType
	Table      Table
}

// NewSchema builds an empty schema around the given table.
func NewSchema(table Table) *Schema {
	return &Schema{NamedTypes: map[string]NamedType{}, Table: table}
}

// AddNamedType registers a named type definition, overwriting any prior definition under
// the same name.
func (s *Schema) AddNamedType(name string, t PortableType) {
	s.NamedTypes[name] = NamedType{Name: name, Type: t}
}

// Resolve looks up a Named(name) reference. It fails with dbxerrors.UnknownNamedType if no
// such name was registered.
func (s *Schema) Resolve(name string) (PortableType, error) {
	nt, ok := s.NamedTypes[name]
	if !ok {
		return PortableType{}, &dbxerrors.SchemaError{Kind: dbxerrors.UnknownNamedType, Name: name}
	}
	return nt.Type, nil
}

// Validate walks the whole schema looking for the five fatal conditions spec.md §4.A
// names: dangling Named references, cyclic named-type reference chains, duplicate struct
// field names, duplicate column names, and empty OneOf label sets. It returns the first
// error found; there is no partial-validation or warning mode.
func (s *Schema) Validate() error {
	seenColumns := map[string]bool{}
	for _, col := range s.Table.Columns {
		if seenColumns[col.Name] {
			return &dbxerrors.SchemaError{Kind: dbxerrors.DuplicateColumn, Name: col.Name, Context: s.Table.Name}
		}
		seenColumns[col.Name] = true
		if err := s.validateType(col.Type, nil); err != nil {
			return err
		}
	}
	for name, nt := range s.NamedTypes {
		if err := s.validateType(nt.Type, []string{name}); err != nil {
			return err
		}
	}
	return nil
}

// validateType recursively checks t. path tracks the chain of Named references currently
// being resolved, used to detect cycles via a simple DFS membership test as spec.md §9
// recommends.
func (s *Schema) validateType(t PortableType, path []string) error {
	switch t.Kind {
	case Array:
		return s.validateType(*t.Element, path)
	case Struct:
		seen := map[string]bool{}
		for _, f := range t.Fields {
			if seen[f.Name] {
				return &dbxerrors.SchemaError{Kind: dbxerrors.DuplicateField, Name: f.Name}
			}
			seen[f.Name] = true
			if err := s.validateType(f.Type, path); err != nil {
				return err
			}
		}
		return nil
	case OneOf:
		if len(t.Labels) == 0 {
			return &dbxerrors.SchemaError{Kind: dbxerrors.EmptyOneOf, Name: "<anonymous>"}
		}
		return nil
	case Named:
		for _, p := range path {
			if p == t.Name {
				return &dbxerrors.SchemaError{Kind: dbxerrors.CyclicNamedType, Name: t.Name, Context: fmt.Sprintf("%v", append(path, t.Name))}
			}
		}
		resolved, err := s.Resolve(t.Name)
		if err != nil {
			return err
		}
		return s.validateType(resolved, append(path, t.Name))
	default:
		return nil
	}
}
