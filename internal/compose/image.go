// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compose

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/pdiddy/memoria-engine/internal/docmodel"
)

const (
	emuPerInch = 914400

	// ImageWidthEMU is the display width of re-embedded pictures: 6 inches.
	ImageWidthEMU = 6 * emuPerInch
)

// ImageExtent returns the display size for a re-embedded picture: a fixed
// width and a height that keeps the aspect ratio of the decoded pixels.
// When the data cannot be decoded the ratio of the source extent is used,
// and failing that the picture is square.
func ImageExtent(img *docmodel.Image) (cx, cy int64) {
	cx = ImageWidthEMU
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(img.Data)); err == nil && cfg.Width > 0 && cfg.Height > 0 {
		return cx, cx * int64(cfg.Height) / int64(cfg.Width)
	}
	if img.WidthEMU > 0 && img.HeightEMU > 0 {
		return cx, cx * img.HeightEMU / img.WidthEMU
	}
	return cx, cx
}
