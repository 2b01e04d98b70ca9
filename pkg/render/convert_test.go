package render

import (
	"bytes"
	"context"
	"testing"

	"github.com/matzehuels/ledwall/pkg/errors"
)

const tinySVG = `<svg xmlns="http://www.w3.org/2000/svg" width="4" height="4"><rect width="4" height="4" fill="#00FFFF"/></svg>`

func TestToPNG(t *testing.T) {
	if !Available() {
		_, err := ToPNG(context.Background(), []byte(tinySVG), 1)
		if !errors.Is(err, errors.ErrCodeUnsupported) {
			t.Fatalf("without rsvg-convert: got %v, want UNSUPPORTED", err)
		}
		t.Skip("rsvg-convert not installed")
	}
	png, err := ToPNG(context.Background(), []byte(tinySVG), 1)
	if err != nil {
		t.Fatalf("ToPNG: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("output is not a PNG")
	}
}

func TestToPDF(t *testing.T) {
	if !Available() {
		t.Skip("rsvg-convert not installed")
	}
	pdf, err := ToPDF(context.Background(), []byte(tinySVG))
	if err != nil {
		t.Fatalf("ToPDF: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Error("output is not a PDF")
	}
}
