package portable

import (
	"encoding/json"
	"fmt"

	"github.com/go-extras/go-kit/ptr"
)

// schemaDoc mirrors the wire format from spec.md §6.1: a named_data_types map plus a
// single table.
type schemaDoc struct {
	NamedDataTypes map[string]namedTypeDoc `json:"named_data_types"`
	Table          tableDoc                `json:"table"`
}

type namedTypeDoc struct {
	Name     string          `json:"name"`
	DataType json.RawMessage `json:"data_type"`
}

type tableDoc struct {
	Name    string      `json:"name"`
	Columns []columnDoc `json:"columns"`
}

type columnDoc struct {
	Name       string          `json:"name"`
	IsNullable bool            `json:"is_nullable"`
	DataType   json.RawMessage `json:"data_type"`
	Comment    *string         `json:"comment,omitempty"`
}

// scalarSpellings maps every scalar Kind to its JSON string spelling and back.
var scalarSpellings = map[Kind]string{
	Bool: "bool", Int16: "int16", Int32: "int32", Int64: "int64",
	Float32: "float32", Float64: "float64", Decimal: "decimal", Text: "text",
	Date: "date", TimestampNoTz: "timestamp_without_time_zone",
	TimestampTz: "timestamp_with_time_zone", Uuid: "uuid", Json: "json",
}

var scalarByName = func() map[string]Kind {
	m := make(map[string]Kind, len(scalarSpellings))
	for k, name := range scalarSpellings {
		m[name] = k
	}
	return m
}()

// MarshalJSON renders t in spec.md §6.1's tagged-object-or-string form.
func (t PortableType) MarshalJSON() ([]byte, error) {
	if name, ok := scalarSpellings[t.Kind]; ok {
		return json.Marshal(name)
	}
	switch t.Kind {
	case GeoJson:
		return json.Marshal(struct {
			GeoJson uint32 `json:"geo_json"`
		}{t.Srid})
	case Array:
		return json.Marshal(struct {
			Array PortableType `json:"array"`
		}{*t.Element})
	case Struct:
		fields := make([]structFieldDoc, len(t.Fields))
		for i, f := range t.Fields {
			fields[i] = structFieldDoc{Name: f.Name, IsNullable: f.Nullable, DataType: f.Type}
		}
		return json.Marshal(struct {
			Struct []structFieldDoc `json:"struct"`
		}{fields})
	case OneOf:
		return json.Marshal(struct {
			OneOf []string `json:"one_of"`
		}{t.Labels})
	case Named:
		return json.Marshal(struct {
			Named string `json:"named"`
		}{t.Name})
	default:
		return nil, fmt.Errorf("portable: cannot marshal unknown kind %d", t.Kind)
	}
}

type structFieldDoc struct {
	Name       string       `json:"name"`
	IsNullable bool         `json:"is_nullable"`
	DataType   PortableType `json:"data_type"`
}

// UnmarshalJSON parses t from spec.md §6.1's tagged-object-or-string form.
func (t *PortableType) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		kind, ok := scalarByName[asString]
		if !ok {
			return fmt.Errorf("portable: unknown scalar data_type %q", asString)
		}
		*t = PortableType{Kind: kind}
		return nil
	}

	var tagged map[string]json.RawMessage
	if err := json.Unmarshal(data, &tagged); err != nil {
		return fmt.Errorf("portable: data_type must be a string or tagged object: %w", err)
	}
	switch {
	case tagged["geo_json"] != nil:
		var srid uint32
		if err := json.Unmarshal(tagged["geo_json"], &srid); err != nil {
			return fmt.Errorf("portable: invalid geo_json srid: %w", err)
		}
		*t = NewGeoJson(srid)
		return nil
	case tagged["array"] != nil:
		var elem PortableType
		if err := json.Unmarshal(tagged["array"], &elem); err != nil {
			return fmt.Errorf("portable: invalid array element: %w", err)
		}
		*t = NewArray(elem)
		return nil
	case tagged["struct"] != nil:
		var fields []structFieldDoc
		if err := json.Unmarshal(tagged["struct"], &fields); err != nil {
			return fmt.Errorf("portable: invalid struct fields: %w", err)
		}
		sfs := make([]StructField, len(fields))
		for i, f := range fields {
			sfs[i] = StructField{Name: f.Name, Nullable: f.IsNullable, Type: f.DataType}
		}
		*t = NewStruct(sfs...)
		return nil
	case tagged["one_of"] != nil:
		var labels []string
		if err := json.Unmarshal(tagged["one_of"], &labels); err != nil {
			return fmt.Errorf("portable: invalid one_of labels: %w", err)
		}
		*t = NewOneOf(labels...)
		return nil
	case tagged["named"] != nil:
		var name string
		if err := json.Unmarshal(tagged["named"], &name); err != nil {
			return fmt.Errorf("portable: invalid named reference: %w", err)
		}
		*t = NewNamed(name)
		return nil
	default:
		return fmt.Errorf("portable: unrecognized tagged data_type %s", string(data))
	}
}

// MarshalJSON renders s in spec.md §6.1's document shape.
func (s *Schema) MarshalJSON() ([]byte, error) {
	named := make(map[string]namedTypeDoc, len(s.NamedTypes))
	for name, nt := range s.NamedTypes {
		raw, err := json.Marshal(nt.Type)
		if err != nil {
			return nil, err
		}
		named[name] = namedTypeDoc{Name: nt.Name, DataType: raw}
	}
	columns := make([]columnDoc, len(s.Table.Columns))
	for i, col := range s.Table.Columns {
		raw, err := json.Marshal(col.Type)
		if err != nil {
			return nil, err
		}
		cd := columnDoc{Name: col.Name, IsNullable: col.Nullable, DataType: raw}
		if col.Comment != "" {
			cd.Comment = ptr.To(col.Comment)
		}
		columns[i] = cd
	}
	return json.Marshal(schemaDoc{
		NamedDataTypes: named,
		Table:          tableDoc{Name: s.Table.Name, Columns: columns},
	})
}

// UnmarshalJSON parses s from spec.md §6.1's document shape. It does not call Validate;
// callers must do that explicitly once the schema is fully loaded.
func (s *Schema) UnmarshalJSON(data []byte) error {
	var doc schemaDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	s.NamedTypes = make(map[string]NamedType, len(doc.NamedDataTypes))
	for name, ntDoc := range doc.NamedDataTypes {
		var t PortableType
		if err := json.Unmarshal(ntDoc.DataType, &t); err != nil {
			return fmt.Errorf("portable: named type %q: %w", name, err)
		}
		s.NamedTypes[name] = NamedType{Name: ntDoc.Name, Type: t}
	}
	columns := make([]Column, len(doc.Table.Columns))
	for i, colDoc := range doc.Table.Columns {
		var t PortableType
		if err := json.Unmarshal(colDoc.DataType, &t); err != nil {
			return fmt.Errorf("portable: column %q: %w", colDoc.Name, err)
		}
		col := Column{Name: colDoc.Name, Nullable: colDoc.IsNullable, Type: t}
		if colDoc.Comment != nil {
			col.Comment = *colDoc.Comment
		}
		columns[i] = col
	}
	s.Table = Table{Name: doc.Table.Name, Columns: columns}
	return nil
}
