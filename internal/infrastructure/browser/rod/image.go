package rod

import (
	"bytes"
	"fmt"

	"askseer-mcp/internal/domain/entity"

	"github.com/disintegration/imaging"
)

// normalizePNG downscales images wider than maxWidth, keeping the aspect
// ratio so a full-page capture stays full length.
func normalizePNG(data []byte, maxWidth int) (*entity.Screenshot, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}

	if maxWidth > 0 && img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)

		buf := new(bytes.Buffer)
		if err := imaging.Encode(buf, img, imaging.PNG); err != nil {
			return nil, fmt.Errorf("png encode failed: %w", err)
		}
		data = buf.Bytes()
	}

	return &entity.Screenshot{
		Data:   data,
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}, nil
}
