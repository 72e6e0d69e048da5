package lineupdomain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniqueRiders(t *testing.T) {
	tests := []struct {
		name string
		in   []int64
		want []int64
	}{
		{"nil", nil, []int64{}},
		{"no duplicates", []int64{3, 1, 2}, []int64{3, 1, 2}},
		{"keeps first seen order", []int64{5, 3, 5, 1, 3}, []int64{5, 3, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UniqueRiders(tt.in))
		})
	}
}

func TestIneligible(t *testing.T) {
	roster := map[int64]bool{1: true, 2: false, 3: true}

	assert.Nil(t, Ineligible([]int64{1, 3}, roster))
	assert.Equal(t, []int64{9, 2}, Ineligible([]int64{9, 1, 2}, roster))
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus(" Maybe ")
	require.NoError(t, err)
	assert.Equal(t, StatusMaybe, s)

	_, err = ParseStatus("sometimes")
	assert.Error(t, err)
}
