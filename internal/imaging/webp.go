// Package imaging re-encodes uploaded scans for archival.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
)

// maxArchiveWidth caps the stored copy; the original is what the inference
// service sees, the archive only needs to be reviewable.
const maxArchiveWidth = 512

// ToWebP decodes a jpeg/png image, scales it down to at most maxArchiveWidth
// wide, and re-encodes it as lossy webp.
func ToWebP(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := src.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width > maxArchiveWidth {
		height = height * maxArchiveWidth / width
		width = maxArchiveWidth

		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)
		src = dst
	}

	var out bytes.Buffer
	if err := webp.Encode(&out, src, &webp.Options{Quality: 80}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}

	return out.Bytes(), nil
}
