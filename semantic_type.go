package tabconv

import "fmt"

// SemanticType is the logical column type tabconv distinguishes, independent of native SQL type codes.
type SemanticType int

const (
	Integer SemanticType = iota
	Double
	String
	Date
	DateTime
	Raw
	Logical
)

func (t SemanticType) String() string {
	switch t {
	case Integer:
		return "Integer"
	case Double:
		return "Double"
	case String:
		return "String"
	case Date:
		return "Date"
	case DateTime:
		return "DateTime"
	case Raw:
		return "Raw"
	case Logical:
		return "Logical"
	default:
		return fmt.Sprintf("SemanticType(%d)", int(t))
	}
}

// Class tags a double column as holding dates or date-times.
type Class string

const (
	ClassNone     Class = ""
	ClassDate     Class = "date"
	ClassDateTime Class = "datetime"
)
