package eventquery

import (
	"fmt"
	"strconv"
	"strings"
)

// SyntaxError describes malformed query text. It is the only error Parse
// returns; callers typically map it to a client-error response.
type SyntaxError struct {
	Pos   int    // byte offset of the offending token in the input
	Token string // offending token, empty when the input just ends
	Msg   string
}

func (e *SyntaxError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("syntax error at position %d near %q: %s", e.Pos, e.Token, e.Msg)
	}

	return fmt.Sprintf("syntax error at position %d: %s", e.Pos, e.Msg)
}

// parser holds the per-call cursor state. All of it lives on the stack of a
// single Parse call, so one process-wide grammar serves concurrent callers.
type parser struct {
	input string
	pos   int
}

// Parse turns a query string into its flat AST.
//
// An empty input parses to an empty Query; Compile turns that into the None
// sentinel. Whitespace inside a filter (between path, comparator and value)
// is insignificant, but the connectives must appear as exactly " and " or
// " or " with single surrounding spaces.
func Parse(input string) (Query, error) {
	var query Query

	if input == "" {
		return query, nil
	}

	p := &parser{input: input}

	filter, err := p.parseFilter()
	if err != nil {
		return Query{}, err
	}
	query.Filters = append(query.Filters, filter)

	for !p.eof() {
		op, err := p.parseConnective()
		if err != nil {
			return Query{}, err
		}

		if p.eof() {
			return Query{}, &SyntaxError{Pos: p.pos, Msg: fmt.Sprintf("dangling %q with no following filter", op)}
		}

		filter, err := p.parseFilter()
		if err != nil {
			return Query{}, err
		}

		query.Ops = append(query.Ops, op)
		query.Filters = append(query.Filters, filter)
	}

	return query, nil
}

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parser) peek() byte {
	return p.input[p.pos]
}

func (p *parser) skipSpaces() {
	for !p.eof() && (p.peek() == ' ' || p.peek() == '\t') {
		p.pos++
	}
}

// parseConnective matches the literal tokens " and " / " or " at the current
// position. No whitespace is skipped first: the surrounding single spaces
// belong to the token, so any other separator spacing fails here.
func (p *parser) parseConnective() (BoolOp, error) {
	rest := p.input[p.pos:]

	switch {
	case strings.HasPrefix(rest, tokenAnd):
		p.pos += len(tokenAnd)
		return BoolAnd, nil
	case strings.HasPrefix(rest, tokenOr):
		p.pos += len(tokenOr)
		return BoolOr, nil
	default:
		return 0, &SyntaxError{
			Pos:   p.pos,
			Token: p.errorContext(),
			Msg:   `expected " and " or " or " between filters`,
		}
	}
}

// parseFilter parses one "path comparator value" triple. The path must start
// at the current position; the connective that precedes it has already
// consumed its trailing space.
func (p *parser) parseFilter() (Filter, error) {
	path, err := p.parsePath()
	if err != nil {
		return Filter{}, err
	}

	p.skipSpaces()

	cmp, err := p.parseComparator()
	if err != nil {
		return Filter{}, err
	}

	p.skipSpaces()

	value, err := p.parseValue()
	if err != nil {
		return Filter{}, err
	}

	return Filter{Path: path, Cmp: cmp, Value: value}, nil
}

func (p *parser) parsePath() (AttributePath, error) {
	start := p.pos

	name := p.readIdent()
	if name == "" {
		return AttributePath{}, &SyntaxError{Pos: start, Token: p.errorContext(), Msg: "expected an attribute name"}
	}

	if name != AttrData {
		if !isSimpleAttribute(name) {
			return AttributePath{}, &SyntaxError{
				Pos:   start,
				Token: name,
				Msg:   `unknown attribute, expected "id", "timestamp", "source" or "data"`,
			}
		}

		return AttributePath{Name: name}, nil
	}

	path := AttributePath{Name: AttrData}

	for !p.eof() && p.peek() == '.' {
		p.pos++

		key := p.readIdent()
		if key == "" {
			return AttributePath{}, &SyntaxError{Pos: p.pos, Token: p.errorContext(), Msg: "expected a payload key after '.'"}
		}

		path.Keys = append(path.Keys, key)
	}

	return path, nil
}

func (p *parser) parseComparator() (Comparator, error) {
	start := p.pos
	rest := p.input[p.pos:]

	for _, candidate := range comparatorLexemes {
		if !strings.HasPrefix(rest, candidate.lexeme) {
			continue
		}

		// "in" is a word, not a symbol: it must not swallow the start of an
		// identifier such as "index".
		if candidate.cmp == CmpIn {
			after := p.pos + len(candidate.lexeme)
			if after < len(p.input) && isIdentChar(p.input[after]) {
				continue
			}
		}

		p.pos += len(candidate.lexeme)

		return candidate.cmp, nil
	}

	return 0, &SyntaxError{
		Pos:   start,
		Token: p.errorContext(),
		Msg:   `unsupported comparator, expected one of ">", "<", "=", "<=", ">=", "!=", "in"`,
	}
}

func (p *parser) parseValue() (Literal, error) {
	if p.eof() {
		return Literal{}, &SyntaxError{Pos: p.pos, Msg: "expected a value"}
	}

	switch ch := p.peek(); {
	case ch == '"':
		return p.parseQuotedString()
	case isNumberStart(ch):
		return p.parseNumber()
	case isIdentStart(ch):
		return Literal{Kind: LiteralIdent, Text: p.readIdent()}, nil
	default:
		return Literal{}, &SyntaxError{Pos: p.pos, Token: p.errorContext(), Msg: "expected a number, quoted string or identifier"}
	}
}

func (p *parser) parseQuotedString() (Literal, error) {
	start := p.pos
	p.pos++ // opening quote

	for !p.eof() {
		switch p.peek() {
		case '\\':
			p.pos += 2
		case '"':
			p.pos++

			raw := p.input[start:p.pos]
			text, err := strconv.Unquote(raw)
			if err != nil {
				return Literal{}, &SyntaxError{Pos: start, Token: raw, Msg: "invalid string literal"}
			}

			return Literal{Kind: LiteralText, Text: text}, nil
		default:
			p.pos++
		}
	}

	return Literal{}, &SyntaxError{Pos: start, Token: p.input[start:], Msg: "unmatched quote in string literal"}
}

func (p *parser) parseNumber() (Literal, error) {
	start := p.pos

	for !p.eof() && isNumberChar(p.peek()) {
		p.pos++
	}

	raw := p.input[start:p.pos]

	num, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Literal{}, &SyntaxError{Pos: start, Token: raw, Msg: "malformed number"}
	}

	return Literal{Kind: LiteralNumber, Text: raw, Num: num}, nil
}

func (p *parser) readIdent() string {
	if p.eof() || !isIdentStart(p.peek()) {
		return ""
	}

	start := p.pos
	for !p.eof() && isIdentChar(p.peek()) {
		p.pos++
	}

	return p.input[start:p.pos]
}

// errorContext returns a short run of input starting at the cursor, for use
// as the offending token in error messages.
func (p *parser) errorContext() string {
	const contextLen = 10

	rest := p.input[p.pos:]
	if idx := strings.IndexByte(rest, ' '); idx > 0 {
		rest = rest[:idx]
	}
	if len(rest) > contextLen {
		rest = rest[:contextLen]
	}

	return rest
}
