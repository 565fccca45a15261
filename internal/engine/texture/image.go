package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"strings"

	_ "image/jpeg" // decoder registration
	_ "image/png"

	_ "golang.org/x/image/bmp" // BMP decoder registration
)

// TGA image type constants.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

type tgaHeader struct {
	idLength     int
	colorMapType byte
	imageType    byte
	width        int
	height       int
	bitsPerPixel int
	// Bit 5 of the descriptor set means rows are stored top to bottom.
	topToBottom bool
}

// LoadImage reads and decodes an image file. TGA files are decoded directly;
// everything else goes through the registered image decoders.
func LoadImage(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading image %s: %w", path, err)
	}
	if strings.HasSuffix(strings.ToLower(path), ".tga") {
		img, err := DecodeTGA(data)
		if err != nil {
			return nil, fmt.Errorf("decoding image %s: %w", path, err)
		}
		return img, nil
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image %s: %w", path, err)
	}
	return img, nil
}

// DecodeTGA decodes a TGA image. Uncompressed true-color (type 2) and RLE
// compressed (type 10) files at 24 or 32 bits per pixel are supported, which
// covers what game asset pipelines produce.
func DecodeTGA(data []byte) (image.Image, error) {
	if len(data) < 18 {
		return nil, fmt.Errorf("tga: header truncated")
	}
	h := tgaHeader{
		idLength:     int(data[0]),
		colorMapType: data[1],
		imageType:    data[2],
		width:        int(data[12]) | int(data[13])<<8,
		height:       int(data[14]) | int(data[15])<<8,
		bitsPerPixel: int(data[16]),
		topToBottom:  data[17]&0x20 != 0,
	}

	if h.colorMapType != 0 {
		return nil, fmt.Errorf("tga: color-mapped images not supported")
	}
	if h.imageType != TGATypeUncompressed && h.imageType != TGATypeRLE {
		return nil, fmt.Errorf("tga: unsupported image type %d", h.imageType)
	}
	if h.bitsPerPixel != 24 && h.bitsPerPixel != 32 {
		return nil, fmt.Errorf("tga: unsupported bit depth %d", h.bitsPerPixel)
	}

	offset := 18 + h.idLength
	if offset > len(data) {
		return nil, fmt.Errorf("tga: id field truncated")
	}
	pixels := data[offset:]

	img := image.NewRGBA(image.Rect(0, 0, h.width, h.height))
	if h.imageType == TGATypeUncompressed {
		if err := decodeTGARaw(img, h, pixels); err != nil {
			return nil, err
		}
	} else {
		decodeTGARLE(img, h, pixels)
	}
	return img, nil
}

// tgaBGRA reads one BGR(A) pixel.
func tgaBGRA(data []byte, bytesPerPixel int) color.RGBA {
	c := color.RGBA{B: data[0], G: data[1], R: data[2], A: 255}
	if bytesPerPixel == 4 {
		c.A = data[3]
	}
	return c
}

// tgaSet stores pixel i of the file into the image, flipping rows when the
// file is stored bottom to top.
func tgaSet(img *image.RGBA, h tgaHeader, i int, c color.RGBA) {
	x := i % h.width
	y := i / h.width
	if !h.topToBottom {
		y = h.height - 1 - y
	}
	img.SetRGBA(x, y, c)
}

func decodeTGARaw(img *image.RGBA, h tgaHeader, pixels []byte) error {
	bpp := h.bitsPerPixel / 8
	if len(pixels) < h.width*h.height*bpp {
		return fmt.Errorf("tga: pixel data truncated")
	}
	for i := 0; i < h.width*h.height; i++ {
		tgaSet(img, h, i, tgaBGRA(pixels[i*bpp:], bpp))
	}
	return nil
}

// decodeTGARLE expands run-length packets. Truncated data stops the decode
// and leaves the remaining pixels zero, matching common viewer behavior.
func decodeTGARLE(img *image.RGBA, h tgaHeader, pixels []byte) {
	bpp := h.bitsPerPixel / 8
	total := h.width * h.height

	i := 0
	pos := 0
	for i < total && pos < len(pixels) {
		packet := pixels[pos]
		pos++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			// A run packet repeats one pixel count times.
			if pos+bpp > len(pixels) {
				return
			}
			c := tgaBGRA(pixels[pos:], bpp)
			pos += bpp
			for n := 0; n < count && i < total; n++ {
				tgaSet(img, h, i, c)
				i++
			}
			continue
		}
		// A raw packet carries count literal pixels.
		for n := 0; n < count && i < total; n++ {
			if pos+bpp > len(pixels) {
				return
			}
			tgaSet(img, h, i, tgaBGRA(pixels[pos:], bpp))
			pos += bpp
			i++
		}
	}
}

// toRGBA converts an image to tightly packed RGBA8 for upload.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Stride == 4*rgba.Rect.Dx() {
		return rgba
	}
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return rgba
}
