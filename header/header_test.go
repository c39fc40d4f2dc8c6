package header

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"go.afab.re/epdimg/nibble"
)

func TestEmitLogo(t *testing.T) {
	var out bytes.Buffer
	err := Emit(&out, Descriptor{Width: 4, Height: 1, Data: make([]byte, 2)}, "logo")
	if err != nil {
		t.Fatalf("Emit() error = %v", err)
	}

	want := "#ifndef LOGO_H\n" +
		"#define LOGO_H\n" +
		"\n" +
		"#include <epd_driver.h>\n" +
		"\n" +
		"static const uint8_t logo_data[(4*1)/2] = {\n" +
		"0x00, 0x00, \n" +
		"\t};\n" +
		"\n" +
		"static const GFXimage logo = {\n" +
		"    .width = 4,\n" +
		"    .height = 1,\n" +
		"    .data = (uint8_t*)logo_data\n" +
		"};\n" +
		"\n" +
		"#endif // LOGO_H\n"

	if got := out.String(); got != want {
		t.Errorf("Emit() =\n%s\nwant\n%s", got, want)
	}
	if n := strings.Count(out.String(), "0x00"); n != 2 {
		t.Errorf("got %d hex bytes, want 2", n)
	}
}

func TestEmitRows(t *testing.T) {
	var out bytes.Buffer
	d := Descriptor{Width: 3, Height: 2, Data: []byte{0x0F, 0x0A, 0xB1, 0x02}}
	if err := Emit(&out, d, "icon_2"); err != nil {
		t.Fatalf("Emit() error = %v", err)
	}

	want := "static const uint8_t icon_2_data[(4*2)/2] = {\n" +
		"0x0F, 0x0A, \n" +
		"\t0xB1, 0x02, \n" +
		"\t};\n"
	if !strings.Contains(out.String(), want) {
		t.Errorf("Emit() =\n%s\nwant it to contain\n%s", out.String(), want)
	}
	if !strings.HasPrefix(out.String(), "#ifndef ICON_2_H\n#define ICON_2_H\n") {
		t.Errorf("Emit() has wrong include guard:\n%s", out.String())
	}
}

var sizeExpr = regexp.MustCompile(`_data\[\((\d+)\*(\d+)\)/2\]`)

// The declared array size must match the packed length for every width parity.
func TestArraySizeMatchesPacked(t *testing.T) {
	for w := 1; w <= 5; w++ {
		for _, h := range []int{1, 2, 7} {
			t.Run(fmt.Sprintf("%dx%d", w, h), func(t *testing.T) {
				buf, err := nibble.Pack(image.NewGray(image.Rect(0, 0, w, h)))
				if err != nil {
					t.Fatal(err)
				}

				if got := ArraySize(w, h); got != len(buf.Pix) {
					t.Errorf("ArraySize(%d, %d) = %d, want %d", w, h, got, len(buf.Pix))
				}

				var out bytes.Buffer
				if err := Emit(&out, Descriptor{Width: w, Height: h, Data: buf.Pix}, "img"); err != nil {
					t.Fatalf("Emit() error = %v", err)
				}

				m := sizeExpr.FindStringSubmatch(out.String())
				if m == nil {
					t.Fatalf("no size expression in:\n%s", out.String())
				}
				pw, _ := strconv.Atoi(m[1])
				ph, _ := strconv.Atoi(m[2])
				if got := (pw * ph) / 2; got != len(buf.Pix) {
					t.Errorf("declared size (%d*%d)/2 = %d, want %d", pw, ph, got, len(buf.Pix))
				}

				if n := strings.Count(out.String(), "0x"); n != len(buf.Pix) {
					t.Errorf("got %d hex bytes, want %d", n, len(buf.Pix))
				}
			})
		}
	}
}

func TestEmitReproducible(t *testing.T) {
	d := Descriptor{Width: 5, Height: 3, Data: []byte{1, 2, 3, 4, 5, 6, 7, 8, 9}}

	var a, b bytes.Buffer
	if err := Emit(&a, d, "x"); err != nil {
		t.Fatal(err)
	}
	if err := Emit(&b, d, "x"); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("Emit() output differs between runs")
	}
}

func TestEmitInvalid(t *testing.T) {
	tests := []struct {
		name    string
		symbol  string
		d       Descriptor
		wantErr error
	}{
		{"zero width", "img", Descriptor{Width: 0, Height: 1}, nibble.ErrInvalidDimensions},
		{"zero height", "img", Descriptor{Width: 2, Height: 0}, nibble.ErrInvalidDimensions},
		{"short data", "img", Descriptor{Width: 3, Height: 2, Data: make([]byte, 3)}, nibble.ErrInvalidDimensions},
		{"long data", "img", Descriptor{Width: 4, Height: 1, Data: make([]byte, 4)}, nibble.ErrInvalidDimensions},
		{"bad name", "my-logo", Descriptor{Width: 2, Height: 1, Data: make([]byte, 1)}, ErrInvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := Emit(&out, tt.d, tt.symbol)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Emit() error = %v, want %v", err, tt.wantErr)
			}
			if out.Len() != 0 {
				t.Errorf("Emit() wrote %d bytes on error", out.Len())
			}
		})
	}
}

type failWriter struct{}

var errWrite = errors.New("disk full")

func (failWriter) Write([]byte) (int, error) {
	return 0, errWrite
}

func TestEmitWriteError(t *testing.T) {
	err := Emit(failWriter{}, Descriptor{Width: 2, Height: 1, Data: []byte{0}}, "img")
	if !errors.Is(err, errWrite) {
		t.Errorf("Emit() error = %v, want %v", err, errWrite)
	}
}

func TestValidName(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"logo", true},
		{"_private", true},
		{"Icon42", true},
		{"weather_sun", true},
		{"", false},
		{"42icon", false},
		{"my-logo", false},
		{"my logo", false},
		{"logo.h", false},
		{"ünïcode", false},
		{"static", false},
		{"int", false},
		{"_Bool", false},
		{"GFXimage", false},
		{"uint8_t", false},
		{"gfximage", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidName(tt.name)
			if tt.valid && err != nil {
				t.Errorf("ValidName(%q) = %v, want nil", tt.name, err)
			}
			if !tt.valid && !errors.Is(err, ErrInvalidName) {
				t.Errorf("ValidName(%q) = %v, want %v", tt.name, err, ErrInvalidName)
			}
		})
	}
}

func TestGuard(t *testing.T) {
	if got, want := Guard("weather_sun"), "WEATHER_SUN_H"; got != want {
		t.Errorf("Guard() = %q, want %q", got, want)
	}
}
