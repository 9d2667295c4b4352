package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dust-lang/dust/lang/compiler"
)

func TestProgramSerializeRoundTrip(t *testing.T) {
	program, errs := compileSource(t, `
		fn add(a: int, b: int) -> int { a + b }
		fn main() -> int {
			let xs = [1, 2, 3];
			add(xs[0], xs[1])
		}
	`)
	require.Empty(t, errs)

	data, err := program.Serialize()
	require.NoError(t, err)

	got, err := compiler.Deserialize(data)
	require.NoError(t, err)
	require.Equal(t, program, got)
}

func TestProgramSerializeRejectsBadMagic(t *testing.T) {
	_, err := compiler.Deserialize([]byte("not a dust file at all"))
	require.Error(t, err)
}

func TestProgramSerializeRejectsFutureVersion(t *testing.T) {
	program, errs := compileSource(t, `fn main() { 1 + 2 }`)
	require.Empty(t, errs)

	data, err := program.Serialize()
	require.NoError(t, err)

	// Corrupt the version field (immediately after the 4-byte magic) so it
	// no longer matches compiler.Version.
	data[4] = 0xFF

	_, err = compiler.Deserialize(data)
	require.Error(t, err)
}
