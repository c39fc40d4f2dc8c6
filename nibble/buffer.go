package nibble

import (
	"fmt"
	"image"
	"image/color"
)

// Buffer is a packed image. It also implements image.Image, decoding each
// level back to 8 bits, which is handy to preview what the display will show.
type Buffer struct {
	// Pix holds Stride bytes per row, Rect.Dy() rows.
	Pix    []byte
	Stride int
	Rect   image.Rectangle
}

var _ image.Image = &Buffer{}

// New returns a zeroed w x h buffer.
func New(w, h int) *Buffer {
	return &Buffer{
		Pix:    make([]byte, Len(w, h)),
		Stride: Stride(w),
		Rect:   image.Rect(0, 0, w, h),
	}
}

func (b *Buffer) Width() int {
	return b.Rect.Dx()
}

func (b *Buffer) Height() int {
	return b.Rect.Dy()
}

func (b *Buffer) ColorModel() color.Model {
	return color.GrayModel
}

func (b *Buffer) Bounds() image.Rectangle {
	return b.Rect
}

func (b *Buffer) At(x, y int) color.Color {
	return b.GrayAt(x, y)
}

// GrayAt returns the stored level scaled back to 8 bits, 0xF becoming 0xFF.
// Buffer is therefore a Source itself, and repacking it is lossless.
func (b *Buffer) GrayAt(x, y int) color.Gray {
	return color.Gray{Y: b.Level(x, y) * 0x11}
}

// Level returns the 4-bit level (0-15) stored for the pixel at (x, y),
// or 0 outside the bounds.
func (b *Buffer) Level(x, y int) uint8 {
	if !(image.Point{X: x, Y: y}.In(b.Rect)) {
		return 0
	}
	offset, shift := b.pixOffset(x, y)
	return (b.Pix[offset] >> shift) & 0x0F
}

// pixOffset returns the byte offset and bit shift of the pixel at (x, y).
// Even x is the low nibble (shift 0), odd x the high nibble (shift 4).
func (b *Buffer) pixOffset(x, y int) (offset int, shift uint) {
	x, y = x-b.Rect.Min.X, y-b.Rect.Min.Y
	return y*b.Stride + x/2, uint(4 * (x & 1))
}

// Row returns the packed bytes of row y.
func (b *Buffer) Row(y int) []byte {
	return b.Pix[y*b.Stride : (y+1)*b.Stride]
}

func (b *Buffer) String() string {
	return fmt.Sprintf("nibble.Buffer{%dx%d}", b.Width(), b.Height())
}
