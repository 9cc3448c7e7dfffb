package rolniknysa

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"time"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

const (
	maxImageWidth = 1200
	jpegQuality   = 80
	maxUploadSize = 10 << 20 // 10MB
)

// processImage decodes an uploaded picture, scales it down to maxImageWidth
// when wider, and re-encodes it as JPEG. The returned record carries the
// stored mimetype and size; Path is filled in by the caller once the bytes
// hit disk.
func processImage(src io.Reader, originalName, author string) (Image, []byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return Image{}, nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxImageWidth {
		newH := h * maxImageWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return Image{}, nil, fmt.Errorf("encode jpeg: %w", err)
	}

	return Image{
		Src:      Slugify(originalName, 0),
		Original: originalName,
		Mimetype: "image/jpeg",
		Size:     int64(buf.Len()),
		Meta: ImageMeta{
			Date:   time.Now().UTC(),
			Author: author,
		},
	}, buf.Bytes(), nil
}

// storedFilename picks an opaque on-disk name for an upload. The slug in
// the record is the public identifier; the filename is not.
func storedFilename() string {
	return uuid.NewString() + ".jpg"
}
