package mosaic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alanyang/insta-mosaic/internal/domain/mosaic"
)

type occupants map[int]uint64

func (o occupants) lookup(i int) (uint64, bool) {
	d, ok := o[i]
	return d, ok
}

func TestAssign(t *testing.T) {
	tests := []struct {
		name     string
		dv       mosaic.DistanceVector
		occupied occupants
		wantCell int
		wantOK   bool
	}{
		{name: "empty grid picks minimum", dv: mosaic.DistanceVector{5, 3, 9}, occupied: occupants{}, wantCell: 1, wantOK: true},
		{name: "tie goes to lowest index", dv: mosaic.DistanceVector{4, 2, 2, 2}, occupied: occupants{}, wantCell: 1, wantOK: true},
		{name: "better incumbent blocks its cell", dv: mosaic.DistanceVector{5, 3, 9}, occupied: occupants{1: 1}, wantCell: 0, wantOK: true},
		{name: "equal incumbent is not replaced", dv: mosaic.DistanceVector{5, 3, 9}, occupied: occupants{1: 3}, wantCell: 0, wantOK: true},
		{name: "worse incumbent is replaced", dv: mosaic.DistanceVector{5, 3, 9}, occupied: occupants{1: 4}, wantCell: 1, wantOK: true},
		{name: "no eligible cell", dv: mosaic.DistanceVector{5, 3}, occupied: occupants{0: 5, 1: 1}, wantOK: false},
		{name: "empty vector", dv: mosaic.DistanceVector{}, occupied: occupants{}, wantOK: false},
		{name: "prefers empty worse cell over nothing", dv: mosaic.DistanceVector{1, 8}, occupied: occupants{0: 0}, wantCell: 1, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cell, ok := mosaic.Assign(tt.dv, tt.occupied.lookup)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantCell, cell)
			}
		})
	}
}
