package rotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmoroz/hearth/internal/errs"
	"github.com/kmoroz/hearth/internal/models"
)

func TestNextIndex(t *testing.T) {
	tests := []struct {
		name    string
		current int
		size    int
		want    int
		wantErr error
	}{
		{name: "advance", current: 0, size: 3, want: 1},
		{name: "middle", current: 1, size: 3, want: 2},
		{name: "wraparound", current: 2, size: 3, want: 0},
		{name: "single member ring", current: 0, size: 1, want: 0},
		{name: "empty roster", current: 0, size: 0, wantErr: errs.ErrEmptyRoster},
		{name: "negative index", current: -1, size: 3, wantErr: errs.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextIndex(tt.current, tt.size)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextIndexCoversWholeRing(t *testing.T) {
	// Starting anywhere, N advances return to the start and visit every
	// index exactly once.
	const n = 5
	seen := make(map[int]bool)
	idx := 2
	for range n {
		var err error
		idx, err = NextIndex(idx, n)
		require.NoError(t, err)
		assert.False(t, seen[idx], "index %d visited twice", idx)
		seen[idx] = true
	}
	assert.Len(t, seen, n)
	assert.Equal(t, 2, idx)
}

func TestMemberIndex(t *testing.T) {
	roster := []models.Member{
		{ID: "m1", DisplayName: "Alice"},
		{ID: "m2", DisplayName: "Bob"},
		{ID: "m3", Email: "carol@example.com"},
	}

	idx, err := MemberIndex(roster, "m2")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	_, err = MemberIndex(roster, "gone")
	assert.ErrorIs(t, err, errs.ErrAssigneeNotFound)

	_, err = MemberIndex(nil, "m1")
	assert.ErrorIs(t, err, errs.ErrAssigneeNotFound)
}

func TestDerivedItemIndex(t *testing.T) {
	// Household with 3 members, items in creation order: positions map
	// onto the ring modulo roster size.
	for pos, want := range []int{0, 1, 2, 0, 1} {
		got, err := DerivedItemIndex(pos, 3)
		require.NoError(t, err)
		assert.Equal(t, want, got, "position %d", pos)
	}

	_, err := DerivedItemIndex(0, 0)
	assert.ErrorIs(t, err, errs.ErrEmptyRoster)
}
