// Package header writes packed images as C headers declaring a GFXimage
// for the e-paper driver (epd_driver.h).
package header

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"go.afab.re/epdimg/nibble"
)

// Include is the driver header declaring GFXimage.
const Include = "epd_driver.h"

// Descriptor is what ends up in the GFXimage struct.
type Descriptor struct {
	Width  int
	Height int
	// Data is the packed image, nibble.Len(Width, Height) bytes.
	Data []byte
}

// Guard returns the include guard macro for name.
func Guard(name string) string {
	return strings.ToUpper(name) + "_H"
}

// ArraySize is the value of the size expression declared for the data array,
// (w rounded up to even * h) / 2. It always matches nibble.Len(w, h).
func ArraySize(w, h int) int {
	return (paddedWidth(w) * h) / 2
}

func paddedWidth(w int) int {
	return nibble.Stride(w) * 2
}

// Emit writes the header for d as the symbol name.
// Nothing is written if name or d are invalid.
func Emit(w io.Writer, d Descriptor, name string) error {
	if err := ValidName(name); err != nil {
		return err
	}
	if err := d.validate(); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	guard := Guard(name)

	fmt.Fprintf(bw, "#ifndef %s\n", guard)
	fmt.Fprintf(bw, "#define %s\n\n", guard)
	fmt.Fprintf(bw, "#include <%s>\n\n", Include)

	fmt.Fprintf(bw, "static const uint8_t %s_data[(%d*%d)/2] = {\n", name, paddedWidth(d.Width), d.Height)
	stride := nibble.Stride(d.Width)
	for y := 0; y < d.Height; y++ {
		for _, b := range d.Data[y*stride : (y+1)*stride] {
			fmt.Fprintf(bw, "0x%02X, ", b)
		}
		bw.WriteString("\n\t")
	}
	bw.WriteString("};\n\n")

	fmt.Fprintf(bw, "static const GFXimage %s = {\n", name)
	fmt.Fprintf(bw, "    .width = %d,\n", d.Width)
	fmt.Fprintf(bw, "    .height = %d,\n", d.Height)
	fmt.Fprintf(bw, "    .data = (uint8_t*)%s_data\n", name)
	bw.WriteString("};\n\n")

	fmt.Fprintf(bw, "#endif // %s\n", guard)

	// bufio keeps the first write error and returns it here.
	return bw.Flush()
}

func (d Descriptor) validate() error {
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", nibble.ErrInvalidDimensions, d.Width, d.Height)
	}
	if want := ArraySize(d.Width, d.Height); len(d.Data) != want {
		return fmt.Errorf("%w: %dx%d image needs %d bytes, got %d", nibble.ErrInvalidDimensions, d.Width, d.Height, want, len(d.Data))
	}
	return nil
}
