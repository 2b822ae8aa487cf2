package utils_test

import (
	"testing"

	"github.com/jrsteele09/lankaconnect-client/internal/utils"
	"github.com/stretchr/testify/require"
)

func TestPointers(t *testing.T) {
	require.Equal(t, 0, utils.Value[int](nil))
	require.Equal(t, 5, utils.Value(utils.Ptr(5)))
	require.False(t, utils.Value(utils.Ptr(false)))
}

func TestFormatFloat(t *testing.T) {
	require.Equal(t, "41.5", utils.FormatFloat(41.5))
	require.Equal(t, "-81.6944", utils.FormatFloat(-81.6944))
	require.Equal(t, "25", utils.FormatFloat(25))
}

func TestNonEmpty(t *testing.T) {
	require.Equal(t, []string{"a", "b"}, utils.NonEmpty([]string{"", "a", "", "b"}))
	require.Empty(t, utils.NonEmpty(nil))
}

func TestFirstNonEmpty(t *testing.T) {
	require.Equal(t, "b", utils.FirstNonEmpty("", "b", "c"))
	require.Equal(t, "", utils.FirstNonEmpty("", ""))
}

func TestValueOr(t *testing.T) {
	require.Equal(t, "-", utils.ValueOr[string](nil, "-"))
	require.Equal(t, "Akron", utils.ValueOr(utils.Ptr("Akron"), "-"))
	require.Equal(t, 0, utils.Value[int](nil))
}
