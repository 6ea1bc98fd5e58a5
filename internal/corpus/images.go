package corpus

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // frame exports are not always JPEG
	"os"

	"golang.org/x/image/draw"
)

const (
	// frameScaleDivisor shrinks each frame to a quarter of its linear size
	// before upload.
	frameScaleDivisor = 4
	frameJPEGQuality  = 95
)

// EncodeFrame reads an image file, downscales it, and returns the base64
// encoded JPEG payload expected by the vision API.
func EncodeFrame(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open frame %s: %w", path, err)
	}
	defer file.Close()

	src, _, err := image.Decode(file)
	if err != nil {
		return "", fmt.Errorf("decode frame %s: %w", path, err)
	}

	bounds := src.Bounds()
	width := bounds.Dx() / frameScaleDivisor
	height := bounds.Dy() / frameScaleDivisor
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: frameJPEGQuality}); err != nil {
		return "", fmt.Errorf("encode frame %s: %w", path, err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func encodeFrames(paths []string) ([]string, error) {
	frames := make([]string, 0, len(paths))
	for _, path := range paths {
		frame, err := EncodeFrame(path)
		if err != nil {
			return nil, err
		}
		frames = append(frames, frame)
	}
	return frames, nil
}
