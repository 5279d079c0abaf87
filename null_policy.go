package tabconv

// NullStrategyKind tells how missing values are signalled to the statement binder.
type NullStrategyKind int

const (
	// SentinelNulls marks nulls with a reserved in-band value.
	SentinelNulls NullStrategyKind = iota

	// MaskNulls marks nulls with a parallel boolean mask.
	MaskNulls
)

// NullStrategy is the null representation used for one semantic type.
type NullStrategy struct {
	Kind     NullStrategyKind
	Sentinel int64
}

// Sentinel returns a strategy signalling nulls through value.
func Sentinel(value int64) NullStrategy {
	return NullStrategy{Kind: SentinelNulls, Sentinel: value}
}

// Mask returns a strategy signalling nulls through a boolean mask.
func Mask() NullStrategy {
	return NullStrategy{Kind: MaskNulls}
}

// Only integers have a safe out-of-range value. NaN payloads do not survive equality tests,
// so doubles, and everything built from them, use masks.
var nullStrategies = map[SemanticType]NullStrategy{
	Integer:  Sentinel(NullInt),
	Double:   Mask(),
	String:   Mask(),
	Date:     Mask(),
	DateTime: Mask(),
	Raw:      Mask(),
	Logical:  Mask(),
}

// NullStrategyFor returns the null strategy for t.
func NullStrategyFor(t SemanticType) NullStrategy {
	if s, ok := nullStrategies[t]; ok {
		return s
	}
	return Mask()
}

// doubleNullMask marks every element of values carrying NullDouble.
func doubleNullMask(values []float64) []bool {
	nulls := make([]bool, len(values))
	for i, v := range values {
		if IsNullDouble(v) {
			nulls[i] = true
		}
	}
	return nulls
}
