package mosaic

import (
	"image"

	"github.com/disintegration/imaging"
)

// MeanGrayscale returns the mean luma of img in [0, 1].
func MeanGrayscale(img image.Image) float64 {
	gray := imaging.Grayscale(img)
	return meanGray(gray, gray.Bounds())
}

// meanGray averages the red channel of an already-grayscale image over r.
func meanGray(gray *image.NRGBA, r image.Rectangle) float64 {
	if r.Empty() {
		return 0
	}
	var sum uint64
	w := r.Dx()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		off := gray.PixOffset(r.Min.X, y)
		row := gray.Pix[off : off+w*4]
		for x := 0; x < len(row); x += 4 {
			sum += uint64(row[x])
		}
	}
	return float64(sum) / float64(w*r.Dy()) / 255
}

// FitPiece scales and center-crops img to exactly size.
func FitPiece(img image.Image, size Size) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() == size.Width && b.Dy() == size.Height {
		return imaging.Clone(img)
	}
	return imaging.Fill(img, size.Width, size.Height, imaging.Center, imaging.Lanczos)
}
