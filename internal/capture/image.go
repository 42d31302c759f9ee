package capture

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"strings"

	_ "image/png"
)

// jpegQuality matches the capture quality the product has always used
const jpegQuality = 80

// DefaultLowLightThreshold is the mean luma (0..255) below which a frame
// gets the low-light advisory.
const DefaultLowLightThreshold = 70.0

// Frame is a normalized captured image: JPEG bytes plus the data URI
// form the rest of the system stores and displays.
type Frame struct {
	JPEG     []byte
	DataURI  string
	Width    int
	Height   int
	MeanLuma float64
	LowLight bool
	Mirrored bool
}

// Processor normalizes raw capture input into Frames
type Processor struct {
	lowLightThreshold float64
}

// NewProcessor creates a Processor. A non-positive threshold selects
// the default.
func NewProcessor(lowLightThreshold float64) *Processor {
	if lowLightThreshold <= 0 {
		lowLightThreshold = DefaultLowLightThreshold
	}
	return &Processor{
		lowLightThreshold: lowLightThreshold,
	}
}

// Process decodes a JPEG or PNG image and re-encodes it as a normalized
// JPEG frame. Front-camera frames are mirrored horizontally so the stored
// image matches the preview the user saw. The low-light flag is advisory;
// a dark frame still processes.
func (p *Processor) Process(input []byte, opts Options) (*Frame, error) {
	img, _, err := image.Decode(bytes.NewReader(input))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	if opts.FacingFront {
		img = mirrorHorizontal(img)
	}

	luma := meanLuma(img)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}

	encoded := buf.Bytes()
	bounds := img.Bounds()

	return &Frame{
		JPEG:     encoded,
		DataURI:  "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(encoded),
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		MeanLuma: luma,
		LowLight: luma < p.lowLightThreshold,
		Mirrored: opts.FacingFront,
	}, nil
}

// ProcessDataURI accepts a base64 data URI, as produced by file uploads.
// File-sourced images are never mirrored; no device is involved.
func (p *Processor) ProcessDataURI(dataURI string) (*Frame, error) {
	payload := dataURI
	if idx := strings.Index(dataURI, ","); idx >= 0 && strings.HasPrefix(dataURI, "data:") {
		payload = dataURI[idx+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode data URI: %w", err)
	}

	return p.Process(raw, Options{})
}

// mirrorHorizontal flips the image around its vertical axis
func mirrorHorizontal(src image.Image) image.Image {
	bounds := src.Bounds()
	dst := image.NewRGBA(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			dst.Set(bounds.Max.X-1-(x-bounds.Min.X), y, src.At(x, y))
		}
	}

	return dst
}

// meanLuma samples the image on a coarse grid and returns the mean
// Rec. 601 luma in the 0..255 range.
func meanLuma(img image.Image) float64 {
	bounds := img.Bounds()
	if bounds.Empty() {
		return 0
	}

	stepX := bounds.Dx() / 32
	if stepX < 1 {
		stepX = 1
	}
	stepY := bounds.Dy() / 32
	if stepY < 1 {
		stepY = 1
	}

	var total float64
	var samples int
	for y := bounds.Min.Y; y < bounds.Max.Y; y += stepY {
		for x := bounds.Min.X; x < bounds.Max.X; x += stepX {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			total += 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
			samples++
		}
	}

	if samples == 0 {
		return 0
	}
	return total / float64(samples)
}
