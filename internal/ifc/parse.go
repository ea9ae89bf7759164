package ifc

import (
	"fmt"
	"strconv"
	"strings"
)

// The parser handles the subset of ISO 10303-21 the structural exports
// use: one instance per statement, simple and typed values, nested
// lists. It produces a generic entity map; schema knowledge lives in
// lift.go.

type valueKind int

const (
	valNull valueKind = iota // $ or *
	valString
	valNumber
	valRef
	valEnum
	valList
	valTyped // e.g. IFCLENGTHMEASURE(30.)
)

type value struct {
	kind  valueKind
	str   string // valString, valEnum, and the wrapper name for valTyped
	num   float64
	ref   int
	list  []value // valList; single inner value for valTyped
}

type entity struct {
	id   int
	typ  string
	args []value
}

// Argument helpers. Out-of-range or mistyped arguments read as absent,
// exports in the wild omit trailing attributes freely.

func (e *entity) arg(i int) (value, bool) {
	if i < 0 || i >= len(e.args) {
		return value{}, false
	}
	return e.args[i], true
}

func (e *entity) str(i int) string {
	if v, ok := e.arg(i); ok && v.kind == valString {
		return v.str
	}
	return ""
}

func (e *entity) num(i int) (float64, bool) {
	v, ok := e.arg(i)
	if !ok {
		return 0, false
	}
	return v.number()
}

func (e *entity) ref(i int) (int, bool) {
	if v, ok := e.arg(i); ok && v.kind == valRef {
		return v.ref, true
	}
	return 0, false
}

func (e *entity) list(i int) []value {
	if v, ok := e.arg(i); ok && v.kind == valList {
		return v.list
	}
	return nil
}

// number unwraps typed values so IFCLENGTHMEASURE(30.) reads as 30.
func (v value) number() (float64, bool) {
	switch v.kind {
	case valNumber:
		return v.num, true
	case valTyped:
		if len(v.list) == 1 {
			return v.list[0].number()
		}
	}
	return 0, false
}

// parseData splits the DATA section into statements and parses each
// instance. Any malformed statement is a structural failure; partial
// graphs are worse than no graph.
func parseData(data string) (map[int]*entity, error) {
	entities := make(map[int]*entity)
	for _, stmt := range splitStatements(data) {
		ent, err := parseInstance(stmt)
		if err != nil {
			return nil, err
		}
		if ent == nil {
			continue
		}
		if _, dup := entities[ent.id]; dup {
			return nil, fmt.Errorf("duplicate instance #%d", ent.id)
		}
		entities[ent.id] = ent
	}
	return entities, nil
}

// splitStatements cuts on ';' outside string literals.
func splitStatements(data string) []string {
	var stmts []string
	var b strings.Builder
	inString := false
	for i := 0; i < len(data); i++ {
		c := data[i]
		if inString {
			b.WriteByte(c)
			if c == '\'' {
				// '' is an escaped quote inside the literal.
				if i+1 < len(data) && data[i+1] == '\'' {
					b.WriteByte('\'')
					i++
					continue
				}
				inString = false
			}
			continue
		}
		switch c {
		case '\'':
			inString = true
			b.WriteByte(c)
		case ';':
			stmts = append(stmts, strings.TrimSpace(b.String()))
			b.Reset()
		default:
			b.WriteByte(c)
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		stmts = append(stmts, s)
	}
	return stmts
}

// parseInstance parses "#12=IFCCOLUMN(...)" into an entity. Statements
// that are not instances (section keywords, empty lines) return nil.
func parseInstance(stmt string) (*entity, error) {
	if stmt == "" || !strings.HasPrefix(stmt, "#") {
		return nil, nil
	}
	eq := strings.IndexByte(stmt, '=')
	if eq < 0 {
		return nil, fmt.Errorf("malformed instance statement %q", truncate(stmt))
	}
	id, err := strconv.Atoi(strings.TrimSpace(stmt[1:eq]))
	if err != nil {
		return nil, fmt.Errorf("malformed instance id in %q", truncate(stmt))
	}

	rest := strings.TrimSpace(stmt[eq+1:])
	open := strings.IndexByte(rest, '(')
	if open < 0 || !strings.HasSuffix(rest, ")") {
		return nil, fmt.Errorf("malformed instance body in #%d", id)
	}
	typ := strings.ToUpper(strings.TrimSpace(rest[:open]))

	p := &valueParser{src: rest[open+1 : len(rest)-1]}
	args, err := p.parseArgs()
	if err != nil {
		return nil, fmt.Errorf("instance #%d: %w", id, err)
	}
	return &entity{id: id, typ: typ, args: args}, nil
}

func truncate(s string) string {
	if len(s) > 40 {
		return s[:40] + "..."
	}
	return s
}

// valueParser is a recursive-descent parser over one argument list.
type valueParser struct {
	src string
	pos int
}

func (p *valueParser) parseArgs() ([]value, error) {
	var args []value
	p.skipSpace()
	if p.pos >= len(p.src) {
		return args, nil
	}
	for {
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		args = append(args, v)
		p.skipSpace()
		if p.pos >= len(p.src) {
			return args, nil
		}
		if p.src[p.pos] != ',' {
			return nil, fmt.Errorf("expected ',' at offset %d", p.pos)
		}
		p.pos++
	}
}

func (p *valueParser) parseValue() (value, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return value{}, fmt.Errorf("unexpected end of arguments")
	}
	switch c := p.src[p.pos]; {
	case c == '$' || c == '*':
		p.pos++
		return value{kind: valNull}, nil
	case c == '#':
		return p.parseRef()
	case c == '\'':
		return p.parseString()
	case c == '.':
		return p.parseEnum()
	case c == '(':
		return p.parseList()
	case c == '-' || c == '+' || (c >= '0' && c <= '9'):
		return p.parseNumber()
	case (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z'):
		return p.parseTyped()
	default:
		return value{}, fmt.Errorf("unexpected character %q at offset %d", c, p.pos)
	}
}

func (p *valueParser) parseRef() (value, error) {
	p.pos++ // '#'
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	if p.pos == start {
		return value{}, fmt.Errorf("malformed reference at offset %d", start)
	}
	id, err := strconv.Atoi(p.src[start:p.pos])
	if err != nil {
		return value{}, err
	}
	return value{kind: valRef, ref: id}, nil
}

func (p *valueParser) parseString() (value, error) {
	p.pos++ // opening quote
	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '\'' {
			if p.pos+1 < len(p.src) && p.src[p.pos+1] == '\'' {
				b.WriteByte('\'')
				p.pos += 2
				continue
			}
			p.pos++
			return value{kind: valString, str: b.String()}, nil
		}
		b.WriteByte(c)
		p.pos++
	}
	return value{}, fmt.Errorf("unterminated string literal")
}

func (p *valueParser) parseEnum() (value, error) {
	p.pos++ // leading '.'
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] != '.' {
		p.pos++
	}
	if p.pos >= len(p.src) {
		return value{}, fmt.Errorf("unterminated enumeration at offset %d", start)
	}
	tok := p.src[start:p.pos]
	p.pos++ // trailing '.'
	return value{kind: valEnum, str: tok}, nil
}

func (p *valueParser) parseList() (value, error) {
	p.pos++ // '('
	var items []value
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == ')' {
		p.pos++
		return value{kind: valList}, nil
	}
	for {
		v, err := p.parseValue()
		if err != nil {
			return value{}, err
		}
		items = append(items, v)
		p.skipSpace()
		if p.pos >= len(p.src) {
			return value{}, fmt.Errorf("unterminated list")
		}
		switch p.src[p.pos] {
		case ',':
			p.pos++
		case ')':
			p.pos++
			return value{kind: valList, list: items}, nil
		default:
			return value{}, fmt.Errorf("unexpected character %q in list at offset %d", p.src[p.pos], p.pos)
		}
	}
}

func (p *valueParser) parseNumber() (value, error) {
	start := p.pos
	p.pos++ // sign or first digit
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if (c >= '0' && c <= '9') || c == '.' || c == 'e' || c == 'E' {
			p.pos++
			continue
		}
		if (c == '-' || c == '+') && (p.src[p.pos-1] == 'e' || p.src[p.pos-1] == 'E') {
			p.pos++
			continue
		}
		break
	}
	text := p.src[start:p.pos]
	// STEP writes "30." for 30.0; ParseFloat accepts that form.
	n, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return value{}, fmt.Errorf("malformed number %q at offset %d", text, start)
	}
	return value{kind: valNumber, num: n}, nil
}

// parseTyped handles wrapped simple values like IFCLENGTHMEASURE(30.).
func (p *valueParser) parseTyped() (value, error) {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_' {
			p.pos++
			continue
		}
		break
	}
	name := strings.ToUpper(p.src[start:p.pos])
	p.skipSpace()
	if p.pos >= len(p.src) || p.src[p.pos] != '(' {
		return value{}, fmt.Errorf("malformed typed value %q at offset %d", name, start)
	}
	inner, err := p.parseList()
	if err != nil {
		return value{}, err
	}
	return value{kind: valTyped, str: name, list: inner.list}, nil
}

func (p *valueParser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\r', '\n':
			p.pos++
		default:
			return
		}
	}
}
