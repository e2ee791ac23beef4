package mosaic

import (
	"errors"
	"fmt"
	"image"
)

var (
	ErrSizeMismatch  = errors.New("piece size does not evenly tile the reference size")
	ErrReferenceSize = errors.New("reference image does not match the required size")
)

type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s Size) String() string { return fmt.Sprintf("%dx%d", s.Width, s.Height) }

func (s Size) IsZero() bool { return s.Width == 0 && s.Height == 0 }

// Dimensions pairs a reference size with the piece size that tiles it.
// Construct with NewDimensions; the zero value is not usable.
type Dimensions struct {
	Reference Size `json:"reference"`
	Piece     Size `json:"piece"`
}

func NewDimensions(reference, piece Size) (Dimensions, error) {
	if reference.Width <= 0 || reference.Height <= 0 {
		return Dimensions{}, fmt.Errorf("%w: reference %s", ErrSizeMismatch, reference)
	}
	if piece.Width <= 0 || piece.Height <= 0 ||
		piece.Width > reference.Width || piece.Height > reference.Height {
		return Dimensions{}, fmt.Errorf("%w: piece %s, reference %s", ErrSizeMismatch, piece, reference)
	}
	if reference.Width%piece.Width != 0 || reference.Height%piece.Height != 0 {
		return Dimensions{}, fmt.Errorf("%w: piece %s, reference %s", ErrSizeMismatch, piece, reference)
	}
	return Dimensions{Reference: reference, Piece: piece}, nil
}

func (d Dimensions) Rows() int  { return d.Reference.Height / d.Piece.Height }
func (d Dimensions) Cols() int  { return d.Reference.Width / d.Piece.Width }
func (d Dimensions) Cells() int { return d.Rows() * d.Cols() }

// Position identifies one grid cell.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (d Dimensions) Contains(p Position) bool {
	return p.Row >= 0 && p.Row < d.Rows() && p.Col >= 0 && p.Col < d.Cols()
}

// Rect returns the pixel rectangle covered by p on the reference canvas.
func (d Dimensions) Rect(p Position) image.Rectangle {
	x := p.Col * d.Piece.Width
	y := p.Row * d.Piece.Height
	return image.Rect(x, y, x+d.Piece.Width, y+d.Piece.Height)
}

// Position maps a row-major cell index to its grid coordinate.
func (d Dimensions) Position(index int) Position {
	cols := d.Cols()
	return Position{Row: index / cols, Col: index % cols}
}

func (d Dimensions) Index(p Position) int {
	return p.Row*d.Cols() + p.Col
}
