// Package imaging prepares site images for publishing: JPEG photos are
// turned upright and downscaled, everything else is copied unchanged.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"os"
	"path"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"golang.org/x/image/draw"

	"github.com/alnah/go-tachyon/internal/fileutil"
)

// DefaultQuality is the JPEG quality used when none is configured.
const DefaultQuality = 80

// cropMargin is the extra size, in pixels, of the intermediate image
// before the centre crop.
const cropMargin = 2

// Processor downscales JPEG files so their longer side is at most
// MaxLength pixels. A zero MaxLength copies every file as is.
type Processor struct {
	MaxLength int
	Quality   int
}

// IsJPEG reports whether name has a JPEG extension.
func IsJPEG(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".jpg", ".jpeg":
		return true
	}
	return false
}

// OutputName returns the published name of a logical resource path. A
// leading "_" in the file name becomes "." so the resource is hidden in
// directory listings of the web server.
func OutputName(logical string) string {
	dir, file := path.Split(logical)
	if strings.HasPrefix(file, "_") {
		file = "." + file[1:]
	}
	return dir + file
}

// Process writes the published form of src to dst.
func (p *Processor) Process(dst, src string) error {
	if p.MaxLength <= 0 || !IsJPEG(src) {
		return fileutil.CopyFile(dst, src)
	}

	data, err := os.ReadFile(src) // #nosec G304 -- src comes from the crawled source root
	if err != nil {
		return fmt.Errorf("reading %s: %w", src, err)
	}

	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decoding %s: %w", src, err)
	}
	img = Rotate(img, Orientation(bytes.NewReader(data)))
	img = p.Resize(img)

	quality := p.Quality
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return fmt.Errorf("encoding %s: %w", dst, err)
	}
	return fileutil.WriteFileAtomic(dst, buf.Bytes())
}

// Resize scales img so its longer side is MaxLength, scaling through an
// image cropMargin pixels larger on the shorter side and cropping the
// centre. Images already smaller than MaxLength on both sides are
// returned unchanged.
func (p *Processor) Resize(img image.Image) image.Image {
	b := img.Bounds()
	out, tmp, ok := targetSizes(b.Dx(), b.Dy(), p.MaxLength)
	if !ok {
		return img
	}

	scaled := image.NewRGBA(image.Rect(0, 0, tmp.X, tmp.Y))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, b, draw.Src, nil)

	x0 := (tmp.X - out.X) / 2
	y0 := (tmp.Y - out.Y) / 2
	cropped := image.NewRGBA(image.Rect(0, 0, out.X, out.Y))
	draw.Draw(cropped, cropped.Bounds(), scaled, image.Pt(x0, y0), draw.Src)
	return cropped
}

// targetSizes returns the output size and the intermediate scaling size of
// a w x h image. ok is false when no scaling is needed.
func targetSizes(w, h, maxLength int) (out, tmp image.Point, ok bool) {
	if maxLength <= 0 || (w < maxLength && h < maxLength) || w == 0 || h == 0 {
		return image.Point{}, image.Point{}, false
	}
	if w > h {
		out = image.Pt(maxLength, h*maxLength/w)
		tmpH := h*maxLength/w + cropMargin
		tmp = image.Pt(w*tmpH/h, tmpH)
	} else {
		out = image.Pt(w*maxLength/h, maxLength)
		tmpW := w*maxLength/h + cropMargin
		tmp = image.Pt(tmpW, h*tmpW/w)
	}
	if tmp.X < out.X {
		tmp.X = out.X
	}
	if tmp.Y < out.Y {
		tmp.Y = out.Y
	}
	return out, tmp, true
}

// Orientation returns the EXIF orientation tag of a JPEG stream, 1 when
// absent or unreadable.
func Orientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	v, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return v
}

// Rotate turns img upright for an EXIF orientation. Mirrored orientations
// are rotated like their unmirrored counterparts.
func Rotate(img image.Image, orientation int) image.Image {
	switch orientation {
	case 3, 4:
		return rotate(img, 180)
	case 5, 6:
		return rotate(img, 90)
	case 7, 8:
		return rotate(img, 270)
	default:
		return img
	}
}

// rotate turns img clockwise by 90, 180 or 270 degrees.
func rotate(img image.Image, degrees int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	var dst *image.RGBA
	if degrees == 180 {
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
	} else {
		dst = image.NewRGBA(image.Rect(0, 0, h, w))
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := img.At(b.Min.X+x, b.Min.Y+y)
			switch degrees {
			case 90:
				dst.Set(h-1-y, x, c)
			case 180:
				dst.Set(w-1-x, h-1-y, c)
			case 270:
				dst.Set(y, w-1-x, c)
			}
		}
	}
	return dst
}
