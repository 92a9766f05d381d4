// Package texture converts images into the raw RGBA32 layout loaded by
// the N64 texture unit.
package texture

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// BytesPerPixel is the size of one RGBA32 texel.
const BytesPerPixel = 4

// ErrEmptyImage is returned for images without pixels.
var ErrEmptyImage = errors.New("texture: image has no pixels")

// Decode decodes an image. TGA has no magic number, so the format must be
// named by ext; other formats are sniffed.
func Decode(r io.Reader, ext string) (*image.NRGBA, error) {
	var img image.Image
	var err error
	if strings.EqualFold(ext, ".tga") {
		img, err = tga.Decode(r)
	} else {
		img, _, err = image.Decode(r)
	}
	if err != nil {
		return nil, fmt.Errorf("texture: decode: %w", err)
	}

	if img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	return ToNRGBA(img), nil
}

// Load reads and decodes an image file.
func Load(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("texture: open %s: %w", path, err)
	}
	defer f.Close()

	img, err := Decode(bufio.NewReader(f), filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// ToNRGBA converts any image to non-premultiplied RGBA with its origin at
// (0, 0).
func ToNRGBA(src image.Image) *image.NRGBA {
	b := src.Bounds()
	if n, ok := src.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return n
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// Resize scales img to w x h with Catmull-Rom filtering. Scaling happens
// in premultiplied space so transparent texels do not bleed color.
func Resize(img *image.NRGBA, w, h int) *image.NRGBA {
	if img.Bounds().Dx() == w && img.Bounds().Dy() == h {
		return img
	}

	premul := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(premul, premul.Bounds(), img, img.Bounds(), draw.Src, nil)

	dst := image.NewNRGBA(premul.Bounds())
	draw.Draw(dst, dst.Bounds(), premul, image.Point{}, draw.Src)
	return dst
}

// WriteRGBA32 writes the texels of img row by row as r, g, b, a bytes.
func WriteRGBA32(w io.Writer, img *image.NRGBA) error {
	b := img.Bounds()
	rowLen := b.Dx() * BytesPerPixel
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		if _, err := w.Write(img.Pix[off : off+rowLen]); err != nil {
			return err
		}
	}
	return nil
}

// Save writes img to path as raw RGBA32.
func Save(img *image.NRGBA, path string) error {
	return create(path, func(w io.Writer) error { return WriteRGBA32(w, img) })
}

// SavePreview writes img to path as a lossless WebP.
func SavePreview(img *image.NRGBA, path string) error {
	return create(path, func(w io.Writer) error { return nativewebp.Encode(w, img, nil) })
}

func create(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("texture: create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	bw := bufio.NewWriter(f)
	if err := write(bw); err != nil {
		return fmt.Errorf("texture: write %s: %w", path, err)
	}
	return bw.Flush()
}
