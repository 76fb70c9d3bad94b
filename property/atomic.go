package property

import (
	"errors"
	"fmt"

	"github.com/vlath-eng/symcheck/bitvector"
	"github.com/vlath-eng/symcheck/machine"
)

// ErrSignednessNotEstablished is returned when an ordered comparison
// (<, <=, >, >=) is evaluated on a field whose signedness was never pinned
// down by an as_signed(...)/as_unsigned(...) wrapper at the use site.
var ErrSignednessNotEstablished = errors.New("property: ordered comparison requires as_signed(...) or as_unsigned(...)")

// Comparison is the relational operator of an atomic property.
type Comparison int

const (
	CmpEq Comparison = iota
	CmpNe
	CmpLt
	CmpLe
	CmpGt
	CmpGe
)

func (c Comparison) String() string {
	switch c {
	case CmpEq:
		return "=="
	case CmpNe:
		return "!="
	case CmpLt:
		return "<"
	case CmpLe:
		return "<="
	case CmpGt:
		return ">"
	case CmpGe:
		return ">="
	default:
		return "?"
	}
}

// ValueExpr names the left-hand side of an atomic comparison: a field
// (scalar, or array-indexed), optionally wrapped in a forced signedness
// annotation for ordered comparisons.
type ValueExpr struct {
	Field      string
	HasIndex   bool
	Index      uint64
	Signedness machine.Signedness
}

// AtomicProperty is a single field-vs-literal comparison, the leaf of
// every property formula.
type AtomicProperty struct {
	Left          ValueExpr
	Comparison    Comparison
	Right         int64
	Complementary bool
}

func (a AtomicProperty) String() string {
	left := a.Left.Field
	if a.Left.HasIndex {
		left = fmt.Sprintf("%s[%d]", left, a.Left.Index)
	}
	switch a.Left.Signedness {
	case machine.SignednessSigned:
		left = fmt.Sprintf("as_signed(%s)", left)
	case machine.SignednessUnsigned:
		left = fmt.Sprintf("as_unsigned(%s)", left)
	}
	s := fmt.Sprintf("%s %s %d", left, a.Comparison, a.Right)
	if a.Complementary {
		s = "!(" + s + ")"
	}
	return s
}

// Eval compares a's left-hand field against its literal in state, returning
// a width-1 Abstract: concrete true/false if every concretization agrees,
// NewUnknown(1) otherwise. state must already carry machine.PanicFieldName
// when a refers to it.
func (a AtomicProperty) Eval(state machine.Valuation) (bitvector.Abstract, error) {
	var left bitvector.Abstract
	var err error
	if a.Left.HasIndex {
		left, err = machine.GetElement(state, a.Left.Field, a.Left.Index)
	} else {
		left, err = machine.GetScalar(state, a.Left.Field)
	}
	if err != nil {
		return bitvector.Abstract{}, err
	}
	right := bitvector.NewAbstractFromConcrete(bitvector.NewConcrete(left.W, uint64(a.Right)))

	var result bitvector.Abstract
	switch a.Comparison {
	case CmpEq:
		result = left.Eq(right)
	case CmpNe:
		result = left.Ne(right)
	default:
		signed, serr := resolveSignedness(a.Left.Signedness)
		if serr != nil {
			return bitvector.Abstract{}, serr
		}
		switch a.Comparison {
		case CmpLt:
			result = ordered(left, right, signed, false)
		case CmpLe:
			result = ordered(left, right, signed, true)
		case CmpGt:
			result = ordered(right, left, signed, false)
		case CmpGe:
			result = ordered(right, left, signed, true)
		}
	}
	if a.Complementary {
		result = result.Not()
	}
	return result, nil
}

func ordered(lhs, rhs bitvector.Abstract, signed, orEqual bool) bitvector.Abstract {
	switch {
	case signed && orEqual:
		return lhs.Sle(rhs)
	case signed && !orEqual:
		return lhs.Slt(rhs)
	case !signed && orEqual:
		return lhs.Ule(rhs)
	default:
		return lhs.Ult(rhs)
	}
}

func resolveSignedness(s machine.Signedness) (bool, error) {
	switch s {
	case machine.SignednessSigned:
		return true, nil
	case machine.SignednessUnsigned:
		return false, nil
	default:
		return false, ErrSignednessNotEstablished
	}
}

// Resolve turns a possibly-unknown width-1 Abstract boolean into a
// definite bool, per the optimistic/pessimistic interpretation a
// three-valued model-checking run fixes for unresolved atomics.
func Resolve(value bitvector.Abstract, optimistic bool) bool {
	if c, ok := value.ConcreteValue(); ok {
		return c.AsUnsigned() != 0
	}
	return optimistic
}
