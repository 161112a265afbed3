package naturalkey

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQualify(t *testing.T) {
	require.Equal(t, "north:MATH101", Qualify("north", "MATH101"))
	require.Equal(t, "MATH101", Qualify("", "MATH101"))
	require.Equal(t, "north:MATH101", Qualify("north", "north:MATH101"))
	require.Equal(t, "north:MATH101", Qualify("north", "  MATH101 "))
	require.Equal(t, "", Qualify("north", ""))
}

func TestUnqualify(t *testing.T) {
	require.Equal(t, "MATH101", Unqualify("north", "north:MATH101"))
	require.Equal(t, "MATH101", Unqualify("", "MATH101"))
	require.Equal(t, "south:MATH101", Unqualify("north", "south:MATH101"))
}

func TestCompose(t *testing.T) {
	require.Equal(t, "MATH101:G1:T9", Compose("MATH101", "G1", "T9"))
	require.Equal(t, "MATH101:G1:T9", Compose(" MATH101", "G1 ", "T9"))
}
