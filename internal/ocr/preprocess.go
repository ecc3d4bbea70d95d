package ocr

import (
	"bytes"
	"image"
	"sort"

	"github.com/disintegration/imaging"
)

// Luminance cutoff for the final binarization step. Card text is dark on a
// light background, so a slightly-above-middle cutoff keeps glyph edges after
// the contrast stretch.
const binarizeCutoff = 150

// decodeOriented decodes an image buffer and normalizes its orientation using
// embedded EXIF metadata. Phone photos routinely arrive rotated.
func decodeOriented(buf []byte) (image.Image, error) {
	return imaging.Decode(bytes.NewReader(buf), imaging.AutoOrientation(true))
}

// preprocess runs the enhancement chain used for the second variant family:
// grayscale, contrast stretch, median denoise, unsharp mask, 2x upscale and
// binary threshold.
func preprocess(src image.Image) *image.NRGBA {
	img := imaging.Grayscale(src)
	img = imaging.AdjustContrast(img, 40)
	img = medianDenoise(img)
	img = imaging.Sharpen(img, 1.5)
	img = imaging.Resize(img, img.Bounds().Dx()*2, 0, imaging.Lanczos)
	return binarize(img, binarizeCutoff)
}

// rotate returns the image turned by one of the four cardinal angles.
func rotate(img image.Image, degrees int) image.Image {
	switch degrees {
	case 90:
		return imaging.Rotate90(img)
	case 180:
		return imaging.Rotate180(img)
	case 270:
		return imaging.Rotate270(img)
	default:
		return img
	}
}

// encodePNG renders an image variant into the byte form the recognizer takes.
func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// medianDenoise applies a 3x3 median filter. The image is grayscale at this
// point, so filtering the red channel and copying it across is enough.
func medianDenoise(img *image.NRGBA) *image.NRGBA {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := imaging.Clone(img)

	window := make([]uint8, 0, 9)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			window = window[:0]
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if nx < 0 || ny < 0 || nx >= w || ny >= h {
						continue
					}
					window = append(window, img.Pix[ny*img.Stride+nx*4])
				}
			}
			sort.Slice(window, func(i, j int) bool { return window[i] < window[j] })
			v := window[len(window)/2]
			off := y*out.Stride + x*4
			out.Pix[off] = v
			out.Pix[off+1] = v
			out.Pix[off+2] = v
		}
	}
	return out
}

// binarize maps every pixel to pure black or white around the cutoff.
func binarize(img *image.NRGBA, cutoff uint8) *image.NRGBA {
	out := imaging.Clone(img)
	for i := 0; i < len(out.Pix); i += 4 {
		v := uint8(0)
		if out.Pix[i] >= cutoff {
			v = 255
		}
		out.Pix[i] = v
		out.Pix[i+1] = v
		out.Pix[i+2] = v
	}
	return out
}
