// package common contains shared value types used across the encoder: plain
// structs expressing commonly needed data, not interface-wrapped services.
package common

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"golang.org/x/image/draw"
)

// EmbeddedImage is a decoded, optionally downscaled image re-encoded to PNG
// bytes ready for embedding in a Video node.
type EmbeddedImage struct {
	// PNG is the re-encoded image data.
	PNG []byte

	// Width and Height are the final pixel dimensions, after any downscale.
	Width, Height int
}

// DecodeAndFit decodes src as a PNG, and if either dimension exceeds
// maxSize (when maxSize > 0), downscales it to fit while preserving aspect
// ratio, then re-encodes to PNG. A maxSize of 0 means no limit; src is
// re-encoded unchanged (decode validates it is readable).
//
// Parameters:
//   - src: source PNG bytes
//   - maxSize: maximum width/height in pixels, or 0 for unlimited
//
// Returns:
//   - *EmbeddedImage: the resulting image, ready to embed
//   - error: error if src cannot be decoded or re-encoded
func DecodeAndFit(src []byte, maxSize int) (*EmbeddedImage, error) {
	img, err := png.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("failed to decode embedded image: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if maxSize > 0 && (width > maxSize || height > maxSize) {
		img = downscaleToFit(img, maxSize)
		bounds = img.Bounds()
		width, height = bounds.Dx(), bounds.Dy()
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to re-encode image: %w", err)
	}

	return &EmbeddedImage{PNG: buf.Bytes(), Width: width, Height: height}, nil
}

// downscaleToFit resizes img so that neither dimension exceeds maxSize,
// preserving aspect ratio, using a high-quality resampling kernel.
func downscaleToFit(img image.Image, maxSize int) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	scale := float64(maxSize) / float64(width)
	if hs := float64(maxSize) / float64(height); hs < scale {
		scale = hs
	}

	newW := maxInt(1, int(float64(width)*scale))
	newH := maxInt(1, int(float64(height)*scale))

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
