package mosaic

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

var ErrPieceSize = errors.New("photo does not match the piece size")

// DistanceVector holds one dissimilarity score per grid cell, in row-major
// cell order. Larger is a worse match.
type DistanceVector []uint64

const distanceScale = 10000

// Grid is the tiled reference image with one cached signature per cell.
// It is immutable after NewGrid returns.
type Grid struct {
	dims       Dimensions
	signatures []float64
}

func NewGrid(reference image.Image, dims Dimensions) (*Grid, error) {
	b := reference.Bounds()
	if b.Dx() != dims.Reference.Width || b.Dy() != dims.Reference.Height {
		return nil, fmt.Errorf("%w: got %dx%d, want %s", ErrReferenceSize, b.Dx(), b.Dy(), dims.Reference)
	}

	gray := imaging.Grayscale(reference)
	sigs := make([]float64, dims.Cells())
	for i := range sigs {
		sigs[i] = meanGray(gray, dims.Rect(dims.Position(i)))
	}
	return &Grid{dims: dims, signatures: sigs}, nil
}

func (g *Grid) Dimensions() Dimensions { return g.dims }
func (g *Grid) Len() int               { return len(g.signatures) }
func (g *Grid) Rows() int              { return g.dims.Rows() }
func (g *Grid) Cols() int              { return g.dims.Cols() }

func (g *Grid) Position(index int) Position { return g.dims.Position(index) }
func (g *Grid) Index(p Position) int        { return g.dims.Index(p) }

func (g *Grid) Signature(index int) float64 { return g.signatures[index] }

// Score computes the distance vector of photo against every cell.
func (g *Grid) Score(photo image.Image) (DistanceVector, error) {
	b := photo.Bounds()
	if b.Dx() != g.dims.Piece.Width || b.Dy() != g.dims.Piece.Height {
		return nil, fmt.Errorf("%w: got %dx%d, want %s", ErrPieceSize, b.Dx(), b.Dy(), g.dims.Piece)
	}
	return g.ScoreSignature(MeanGrayscale(photo)), nil
}

func (g *Grid) ScoreSignature(sig float64) DistanceVector {
	dv := make(DistanceVector, len(g.signatures))
	for i, cell := range g.signatures {
		dv[i] = uint64(math.Round(math.Abs(sig-cell) * distanceScale))
	}
	return dv
}
