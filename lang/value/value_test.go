package value_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dust-lang/dust/lang/value"
)

func TestPrimitiveConstructorsRoundTrip(t *testing.T) {
	require.Equal(t, true, value.Bool(true).AsBool())
	require.Equal(t, false, value.Bool(false).AsBool())
	require.Equal(t, byte(42), value.Byte(42).AsByte())
	require.Equal(t, 'x', value.Character('x').AsCharacter())
	require.Equal(t, 3.5, value.Float(3.5).AsFloat())
	require.Equal(t, int64(-7), value.Integer(-7).AsInteger())
}

func TestEqualStructural(t *testing.T) {
	a := value.ListValue(&value.Object{Kind: value.ObjectList, List: []value.Value{value.Integer(1), value.Integer(2)}})
	b := value.ListValue(&value.Object{Kind: value.ObjectList, List: []value.Value{value.Integer(1), value.Integer(2)}})
	c := value.ListValue(&value.Object{Kind: value.ObjectList, List: []value.Value{value.Integer(1), value.Integer(3)}})

	require.True(t, value.Equal(a, b))
	require.False(t, value.Equal(a, c))
	require.False(t, value.Equal(value.Integer(1), value.Float(1)))
}

func TestEqualFloatNaNIsDistinguishableByBitPattern(t *testing.T) {
	nan := value.Float(nan())
	require.True(t, value.Equal(nan, nan))
}

func nan() float64 {
	var zero float64
	return zero / zero
}

func TestLessLexicographicForLists(t *testing.T) {
	short := value.ListValue(&value.Object{Kind: value.ObjectList, List: []value.Value{value.Integer(1)}})
	long := value.ListValue(&value.Object{Kind: value.ObjectList, List: []value.Value{value.Integer(1), value.Integer(0)}})
	require.True(t, value.Less(short, long))
}

func TestLessOrdersNegativeIntegersBelowPositive(t *testing.T) {
	require.True(t, value.Less(value.Integer(-1), value.Integer(5)))
	require.False(t, value.Less(value.Integer(5), value.Integer(-1)))
	require.True(t, value.Less(value.Integer(-100), value.Integer(-1)))
}

func TestStringFormatsQuoted(t *testing.T) {
	s := value.StringValue(&value.Object{Kind: value.ObjectString, Str: "hi"})
	require.Equal(t, `"hi"`, s.String())
}

func TestKindStringNamesEveryKind(t *testing.T) {
	kinds := []value.Kind{
		value.KindNone, value.KindBoolean, value.KindByte, value.KindCharacter,
		value.KindFloat, value.KindInteger, value.KindString, value.KindList, value.KindFunction,
	}
	for _, k := range kinds {
		require.NotEmpty(t, k.String())
	}
}
