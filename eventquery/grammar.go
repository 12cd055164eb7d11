package eventquery

// The grammar of the filter-query language:
//
//	query      := filter ( (AND|OR) filter )*
//	filter     := path comparator value
//	path       := "id" | "timestamp" | "source" | "data" ( "." key )*
//	comparator := ">" | "<" | "=" | "<=" | ">=" | "!=" | "in"
//	value      := signed-number | quoted-string | bare-identifier
//	AND        := " and "   (the spaces are part of the token)
//	OR         := " or "    (the spaces are part of the token)
//
// All tables below are built once and never mutated, so the grammar is safe
// to share across goroutines.

// Top-level attribute names accepted at path position. AttrData is the base
// of nested payload paths; the other three map directly to record fields.
const (
	AttrID        = "id"
	AttrTimestamp = "timestamp"
	AttrSource    = "source"
	AttrData      = "data"
)

// The boolean connectives are literal tokens including their surrounding
// single spaces. Any other separator spacing is a syntax error.
const (
	tokenAnd = " and "
	tokenOr  = " or "
)

// Comparator identifies one of the supported relational or containment
// operators.
type Comparator int

const (
	CmpGT Comparator = iota // >
	CmpLT                   // <
	CmpEQ                   // =
	CmpGE                   // >=
	CmpLE                   // <=
	CmpNE                   // !=
	CmpIn                   // in (field contains value)
)

// String returns the comparator as it appears in query text.
func (c Comparator) String() string {
	switch c {
	case CmpGT:
		return ">"
	case CmpLT:
		return "<"
	case CmpEQ:
		return "="
	case CmpGE:
		return ">="
	case CmpLE:
		return "<="
	case CmpNE:
		return "!="
	case CmpIn:
		return "in"
	default:
		return "?"
	}
}

// comparatorLexemes is ordered longest-first so that ">=" is never lexed as
// ">" followed by "=".
var comparatorLexemes = []struct {
	lexeme string
	cmp    Comparator
}{
	{">=", CmpGE},
	{"<=", CmpLE},
	{"!=", CmpNE},
	{">", CmpGT},
	{"<", CmpLT},
	{"=", CmpEQ},
	{"in", CmpIn},
}

// BoolOp identifies a boolean connective between two filters.
type BoolOp int

const (
	BoolAnd BoolOp = iota
	BoolOr
)

// String returns the connective keyword without its surrounding spaces.
func (op BoolOp) String() string {
	if op == BoolOr {
		return "or"
	}
	return "and"
}

func isSimpleAttribute(name string) bool {
	switch name {
	case AttrID, AttrTimestamp, AttrSource:
		return true
	default:
		return false
	}
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentChar(ch byte) bool {
	return isIdentStart(ch) || (ch >= '0' && ch <= '9')
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isNumberStart(ch byte) bool {
	return isDigit(ch) || ch == '+' || ch == '-'
}

func isNumberChar(ch byte) bool {
	return isDigit(ch) || ch == '.' || ch == 'e' || ch == 'E' || ch == '+' || ch == '-'
}
