package pricer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/depsolve/pvsolve/solve"
)

func TestPriceVersionsUpdateFavorsNewest(t *testing.T) {
	// 2.1.0 is newest and costs 0 everywhere. 2.0.0 differs from it only by
	// minor and is the cheapest (rank 1) minor-bucket entry. 1.1.0 and 1.0.0
	// both differ by major; 1.1.0 is the newer of the two so it ranks
	// cheaper (1) than 1.0.0 (2) within the major bucket.
	versions := []string{"1.0.0", "1.1.0", "2.0.0", "2.1.0"}
	major, minor, patch, rest := Default{}.PriceVersions(versions, solve.ModeUpdate)

	require.Equal(t, []int{2, 1, 0, 0}, major)
	require.Equal(t, []int{0, 0, 1, 0}, minor)
	require.Equal(t, []int{0, 0, 0, 0}, patch)
	require.Equal(t, []int{0, 0, 0, 0}, rest)
}

func TestPriceVersionsGravityFavorsOldestPatchedLine(t *testing.T) {
	versions := []string{"1.0.0", "1.0.1", "1.1.0", "2.0.0"}
	major, minor, patch, _ := Default{}.PriceVersions(versions, solve.ModeGravityWithPatches)

	require.Equal(t, []int{0, 0, 0, 1}, major)
	require.Equal(t, []int{0, 0, 1, 0}, minor)
	require.Equal(t, []int{1, 0, 0, 0}, patch)
}

func TestPriceVersionsWithPreviousClassifiesIncompat(t *testing.T) {
	versions := []string{"1.2.3", "1.3.0", "2.0.0", "1.2.3"}
	incompat, major, minor, patch, rest := Default{}.PriceVersionsWithPrevious(versions, "1.2.3")

	require.Equal(t, []int{0, 0, 1, 0}, incompat)
	require.Equal(t, []int{0, 0, 1, 0}, major)
	require.Equal(t, []int{0, 1, 0, 0}, minor)
	require.Equal(t, []int{0, 0, 0, 0}, patch)
	require.Equal(t, []int{0, 0, 0, 0}, rest)
}

func TestPartitionVersionsSplitsOlderCompatibleHigherMajor(t *testing.T) {
	versions := []string{"1.0.0", "1.5.0", "1.9.0", "2.0.0", "3.0.0"}
	part := Default{}.PartitionVersions(versions, "1.5.0")

	require.Equal(t, []string{"1.0.0"}, part.Older)
	require.Equal(t, []string{"1.5.0", "1.9.0"}, part.Compatible)
	require.Equal(t, []string{"2.0.0", "3.0.0"}, part.HigherMajor)
}

func TestPartitionVersionsZeroMajorTreatsMinorAsBreaking(t *testing.T) {
	versions := []string{"0.1.0", "0.2.0", "0.2.5", "0.3.0"}
	part := Default{}.PartitionVersions(versions, "0.2.0")

	require.Equal(t, []string{"0.1.0"}, part.Older)
	require.Equal(t, []string{"0.2.0", "0.2.5"}, part.Compatible)
	require.Equal(t, []string{"0.3.0"}, part.HigherMajor)
}
