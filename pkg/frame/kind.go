package frame

// Kind is the declared logical type of a column.
type Kind uint8

const (
	Int Kind = iota + 1
	Float
	String
	Categorical
	Bool
	Datetime
)

var kindNames = map[Kind]string{
	Int:         "int",
	Float:       "float",
	String:      "string",
	Categorical: "category",
	Bool:        "bool",
	Datetime:    "datetime",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "invalid"
}

// IsNumeric reports whether columns of this kind hold integer or floating point values.
func (k Kind) IsNumeric() bool { return k == Int || k == Float }

// IsCategorical reports whether columns of this kind hold text or category labels.
func (k Kind) IsCategorical() bool { return k == String || k == Categorical }

// ParseKind maps a kind name (as produced by String) back to a Kind.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}
