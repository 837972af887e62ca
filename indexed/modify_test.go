package indexed_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/regexident/inplace/indexed"
)

var errClosure = errors.New("closure error")

// TestModifyAt_MutatesInPlace checks that writes through the borrowed pointer
// land directly in the slice.
func TestModifyAt_MutatesInPlace(t *testing.T) {
	s := []int{10, 20, 30}

	err := indexed.ModifyAt(s, 1, func(element *int) error {
		*element += 2
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []int{10, 22, 30}, s)
}

// TestModifyAt_OutOfRange checks that any index outside [0, len) yields a
// typed error, never invokes the closure, and leaves the slice untouched.
func TestModifyAt_OutOfRange(t *testing.T) {
	s := []int{10, 20, 30}

	for _, index := range []int{-1, 3, 8} {
		err := indexed.ModifyAt(s, index, func(*int) error {
			require.Failf(t, "unexpected invocation", "closure must not run for index %d", index)
			return nil
		})
		require.ErrorIs(t, err, indexed.ErrIndexOutOfRange)
		require.True(t, indexed.IsIndexOutOfRangeError(err))

		var indexOutOfRangeError indexed.IndexOutOfRangeError
		require.ErrorAs(t, err, &indexOutOfRangeError)
		require.Equal(t, index, indexOutOfRangeError.Index)
		require.Equal(t, len(s), indexOutOfRangeError.Length)

		require.Empty(t, cmp.Diff([]int{10, 20, 30}, s))
	}
}

// TestModifyAt_EmptySlice checks that index 0 of an empty slice is out of range,
// for nil and non-nil slices alike.
func TestModifyAt_EmptySlice(t *testing.T) {
	for _, s := range [][]int{nil, {}} {
		err := indexed.ModifyAt(s, 0, func(*int) error {
			require.Fail(t, "closure must not be invoked on an empty slice")
			return nil
		})
		require.True(t, indexed.IsIndexOutOfRangeError(err))
	}
}

// TestModifyAt_ErrorPassesThrough checks that closure errors surface unchanged
// and that mutations applied before the failure remain visible.
func TestModifyAt_ErrorPassesThrough(t *testing.T) {
	s := []int{1, 2, 3}

	err := indexed.ModifyAt(s, 0, func(element *int) error {
		*element = 7
		return errClosure
	})
	require.ErrorIs(t, err, errClosure)
	require.False(t, indexed.IsIndexOutOfRangeError(err))
	require.Equal(t, []int{7, 2, 3}, s)
}

// TestModifyAt_RoundTripIdempotence checks that a modification followed by its
// inverse restores the original slice exactly.
func TestModifyAt_RoundTripIdempotence(t *testing.T) {
	original := []string{"x", "y", "z"}
	s := append([]string(nil), original...)

	err := indexed.ModifyAt(s, 2, func(element *string) error {
		*element = "replaced"
		return nil
	})
	require.NoError(t, err)

	err = indexed.ModifyAt(s, 2, func(element *string) error {
		*element = "z"
		return nil
	})
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(original, s))
}

// TestModifyAt_SharedBackingArray checks that the closure operates on the
// backing array itself: a mutation through a re-sliced view is visible
// through the parent slice, so no copy of the element was handed out.
func TestModifyAt_SharedBackingArray(t *testing.T) {
	parent := []int{1, 2, 3, 4}
	view := parent[1:3]

	err := indexed.ModifyAt(view, 0, func(element *int) error {
		require.Same(t, &parent[1], element)
		*element = 9
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []int{1, 9, 3, 4}, parent)
}

type row []int

// TestModifyAt_NamedSliceType checks that defined slice types satisfy the
// constraint without conversion.
func TestModifyAt_NamedSliceType(t *testing.T) {
	r := row{1, 2}

	err := indexed.ModifyAt(r, 0, func(element *int) error {
		*element = -1
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, row{-1, 2}, r)
}

// TestModifyAt_ZeroAllocation checks that the borrow allocates nothing: no
// scratch copy is involved.
func TestModifyAt_ZeroAllocation(t *testing.T) {
	s := make([]uint64, 16)
	bump := func(element *uint64) error {
		*element++
		return nil
	}

	allocs := testing.AllocsPerRun(100, func() {
		_ = indexed.ModifyAt(s, 3, bump)
	})
	require.Zero(t, allocs)
}

// TestModifyAt_Rapid drives random in- and out-of-range modifications and
// compares against a model maintained with plain index expressions.
func TestModifyAt_Rapid(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		length := rapid.IntRange(0, 8).Draw(t, "length")
		s := make([]int, length)
		model := make([]int, length)

		steps := rapid.IntRange(1, 40).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			index := rapid.IntRange(-2, length+2).Draw(t, "index")
			value := rapid.IntRange(-100, 100).Draw(t, "value")

			err := indexed.ModifyAt(s, index, func(element *int) error {
				*element = value
				return nil
			})
			if index < 0 || index >= length {
				require.True(t, indexed.IsIndexOutOfRangeError(err))
			} else {
				require.NoError(t, err)
				model[index] = value
			}

			require.Empty(t, cmp.Diff(model, s))
		}
	})
}

func BenchmarkModifyAt(b *testing.B) {
	s := make([]uint64, 1024)
	bump := func(element *uint64) error {
		*element++
		return nil
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = indexed.ModifyAt(s, i%1024, bump)
	}
}
