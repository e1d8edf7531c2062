package trino

import (
	"strconv"
	"strings"

	"github.com/stokaro/dbxform/dbxerrors"
)

// Parse parses s as a Trino native type text form. Parsing is whitespace- and
// case-insensitive on keywords and case-sensitive on identifiers (Row field names), per
// spec.md §6.2. CHAR, TIME WITH TIME ZONE, INTERVAL DAY TO SECOND, INTERVAL YEAR TO MONTH,
// and MAP are recognized but always rejected, mirroring the original grammar's explicit
// "not currently supported" rules rather than failing with a generic parse error.
func Parse(s string) (DataType, error) {
	p := &parser{input: s}
	p.skipSpace()
	t, err := p.parseType()
	if err != nil {
		return DataType{}, err
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return DataType{}, p.errorf("unexpected trailing input")
	}
	return t, nil
}

type parser struct {
	input string
	pos   int
}

func (p *parser) errorf(msg string) error {
	line, col := 1, 1
	for _, r := range p.input[:p.pos] {
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return &dbxerrors.TypeParseError{
		Backend: "trino",
		Input:   p.input,
		Pos:     dbxerrors.Position{Line: line, Column: col, Offset: p.pos},
		Expected: []string{msg},
	}
}

func (p *parser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t' || p.input[p.pos] == '\n') {
		p.pos++
	}
}

// tryKeyword consumes kw case-insensitively (followed by a non-identifier boundary) and
// reports whether it matched, restoring position on failure.
func (p *parser) tryKeyword(kw string) bool {
	start := p.pos
	p.skipSpace()
	if p.pos+len(kw) > len(p.input) {
		p.pos = start
		return false
	}
	if !strings.EqualFold(p.input[p.pos:p.pos+len(kw)], kw) {
		p.pos = start
		return false
	}
	end := p.pos + len(kw)
	if end < len(p.input) && isIdentRune(rune(p.input[end])) {
		p.pos = start
		return false
	}
	p.pos = end
	return true
}

func isIdentRune(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func (p *parser) tryByte(b byte) bool {
	start := p.pos
	p.skipSpace()
	if p.pos < len(p.input) && p.input[p.pos] == b {
		p.pos++
		return true
	}
	p.pos = start
	return false
}

func (p *parser) expectByte(b byte) error {
	if !p.tryByte(b) {
		return p.errorf(string(b))
	}
	return nil
}

func (p *parser) parseInt() (int, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.input) && p.input[p.pos] >= '0' && p.input[p.pos] <= '9' {
		p.pos++
	}
	if p.pos == start {
		return 0, p.errorf("integer")
	}
	n, err := strconv.Atoi(p.input[start:p.pos])
	if err != nil {
		return 0, p.errorf("integer")
	}
	return n, nil
}

// parseIdent parses a Row field name: a bare identifier, or a double-quoted identifier
// allowing "" as an escaped quote, matching the original grammar's identifier rule.
func (p *parser) parseIdent() (string, error) {
	p.skipSpace()
	if p.pos < len(p.input) && p.input[p.pos] == '"' {
		p.pos++
		var b strings.Builder
		for {
			if p.pos >= len(p.input) {
				return "", p.errorf("closing quote")
			}
			if p.input[p.pos] == '"' {
				if p.pos+1 < len(p.input) && p.input[p.pos+1] == '"' {
					b.WriteByte('"')
					p.pos += 2
					continue
				}
				p.pos++
				return b.String(), nil
			}
			b.WriteByte(p.input[p.pos])
			p.pos++
		}
	}
	start := p.pos
	for p.pos < len(p.input) && isIdentRune(rune(p.input[p.pos])) {
		p.pos++
	}
	if p.pos == start {
		return "", p.errorf("identifier")
	}
	return p.input[start:p.pos], nil
}

// sizeOpt parses an optional "(n)" group, returning def when absent.
func (p *parser) sizeOpt(def int) (int, error) {
	if !p.tryByte('(') {
		return def, nil
	}
	n, err := p.parseInt()
	if err != nil {
		return 0, err
	}
	if err := p.expectByte(')'); err != nil {
		return 0, err
	}
	return n, nil
}

func (p *parser) parseType() (DataType, error) {
	switch {
	case p.tryKeyword("BOOLEAN"):
		return NewBoolean(), nil
	case p.tryKeyword("TINYINT"):
		return NewTinyInt(), nil
	case p.tryKeyword("SMALLINT"):
		return NewSmallInt(), nil
	case p.tryKeyword("INTEGER"), p.tryKeyword("INT"):
		return NewInt(), nil
	case p.tryKeyword("BIGINT"):
		return NewBigInt(), nil
	case p.tryKeyword("REAL"):
		return NewReal(), nil
	case p.tryKeyword("DOUBLE"):
		return NewDouble(), nil
	case p.tryKeyword("DECIMAL"):
		if err := p.expectByte('('); err != nil {
			return DataType{}, err
		}
		prec, err := p.parseInt()
		if err != nil {
			return DataType{}, err
		}
		if err := p.expectByte(','); err != nil {
			return DataType{}, err
		}
		scale, err := p.parseInt()
		if err != nil {
			return DataType{}, err
		}
		if err := p.expectByte(')'); err != nil {
			return DataType{}, err
		}
		return NewDecimal(prec, scale), nil
	case p.tryKeyword("VARCHAR"):
		if p.pos < len(p.input) {
			start := p.pos
			if p.tryByte('(') {
				n, err := p.parseInt()
				if err != nil {
					return DataType{}, err
				}
				if err := p.expectByte(')'); err != nil {
					return DataType{}, err
				}
				return VarcharN(n), nil
			}
			p.pos = start
		}
		return NewVarchar(), nil
	case p.tryKeyword("VARBINARY"):
		return NewVarbinary(), nil
	case p.tryKeyword("JSON"):
		return NewJson(), nil
	case p.tryKeyword("DATE"):
		return NewDate(), nil
	case p.tryKeyword("TIME"):
		prec, err := p.sizeOpt(3)
		if err != nil {
			return DataType{}, err
		}
		if p.tryKeyword("WITH") {
			return DataType{}, p.errorf("TIME WITH TIME ZONE is not currently supported")
		}
		return NewTime(prec), nil
	case p.tryKeyword("TIMESTAMP"):
		prec, err := p.sizeOpt(3)
		if err != nil {
			return DataType{}, err
		}
		if p.tryKeyword("WITH") {
			if !p.tryKeyword("TIME") || !p.tryKeyword("ZONE") {
				return DataType{}, p.errorf("WITH TIME ZONE")
			}
			return NewTimestampWithTimeZone(prec), nil
		}
		if p.tryKeyword("WITHOUT") {
			if !p.tryKeyword("TIME") || !p.tryKeyword("ZONE") {
				return DataType{}, p.errorf("WITHOUT TIME ZONE")
			}
		}
		return NewTimestamp(prec), nil
	case p.tryKeyword("UUID"):
		return NewUuid(), nil
	case p.tryKeyword("SPHERICALGEOGRAPHY"):
		return NewSphericalGeography(), nil
	case p.tryKeyword("ARRAY"):
		if err := p.expectByte('('); err != nil {
			return DataType{}, err
		}
		elem, err := p.parseType()
		if err != nil {
			return DataType{}, err
		}
		if err := p.expectByte(')'); err != nil {
			return DataType{}, err
		}
		return NewArray(elem), nil
	case p.tryKeyword("ROW"):
		if err := p.expectByte('('); err != nil {
			return DataType{}, err
		}
		var fields []Field
		for {
			save := p.pos
			name, identErr := p.parseIdent()
			var fieldType DataType
			var err error
			if identErr == nil {
				fieldType, err = p.parseType()
				if err != nil {
					// not actually "name type"; rewind and parse as anonymous type
					p.pos = save
					name = ""
					fieldType, err = p.parseType()
				}
			} else {
				p.pos = save
				fieldType, err = p.parseType()
			}
			if err != nil {
				return DataType{}, err
			}
			fields = append(fields, Field{Name: name, Type: fieldType})
			if p.tryByte(',') {
				continue
			}
			break
		}
		if err := p.expectByte(')'); err != nil {
			return DataType{}, err
		}
		return NewRow(fields...), nil
	case p.tryKeyword("CHAR"):
		return DataType{}, p.errorf("CHAR is not currently supported")
	case p.tryKeyword("INTERVAL"):
		return DataType{}, p.errorf("INTERVAL types are not currently supported")
	case p.tryKeyword("MAP"):
		return DataType{}, p.errorf("MAP is not currently supported")
	default:
		return DataType{}, p.errorf("a Trino type")
	}
}
