// Package render produces the user-facing PDF artifacts: purchased tickets
// and per-event sales reports. Rendering is a pure function of its inputs;
// failures are propagated, never papered over with a blank document.
package render

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

const pageWidth = 210.0 // A4 portrait, mm

type doc struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

func newDoc(title string) *doc {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.AddPage()
	return &doc{
		pdf: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

func (d *doc) header(text string) {
	d.pdf.SetFont("Helvetica", "B", 18)
	d.pdf.SetTextColor(0, 100, 0)
	d.pdf.CellFormat(0, 10, d.tr(text), "", 1, "C", false, 0, "")
	d.pdf.Ln(6)
}

func (d *doc) title(text string) {
	d.pdf.SetFont("Helvetica", "B", 24)
	d.pdf.SetTextColor(0, 0, 139)
	d.pdf.CellFormat(0, 12, d.tr(text), "", 1, "C", false, 0, "")
	d.pdf.Ln(8)
}

// infoRow writes one bold-label row of an info table.
func (d *doc) infoRow(label, value string, fill bool) {
	d.pdf.SetTextColor(0, 0, 0)
	if fill {
		d.pdf.SetFillColor(211, 211, 211)
	}
	d.pdf.SetFont("Helvetica", "B", 12)
	d.pdf.CellFormat(55, 9, d.tr(label), "", 0, "L", fill, 0, "")
	d.pdf.SetFont("Helvetica", "", 12)
	d.pdf.CellFormat(0, 9, d.tr(value), "", 1, "L", fill, 0, "")
}

func (d *doc) text(line string) {
	d.pdf.SetFont("Helvetica", "", 12)
	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.CellFormat(0, 8, d.tr(line), "", 1, "L", false, 0, "")
}

func (d *doc) footer(line string) {
	d.pdf.Ln(10)
	d.pdf.SetFont("Helvetica", "", 10)
	d.pdf.SetTextColor(90, 90, 90)
	d.pdf.CellFormat(0, 8, d.tr(line), "", 1, "L", false, 0, "")
}

// qrImage encodes the payload at recovery level L and centers the raster on
// the page at the current Y.
func (d *doc) qrImage(payload string, sizeMM float64) error {
	png, err := qrcode.Encode(payload, qrcode.Low, 256)
	if err != nil {
		return fmt.Errorf("render: qr encode: %w", err)
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	d.pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(png))
	x := (pageWidth - sizeMM) / 2
	d.pdf.ImageOptions("qr", x, d.pdf.GetY(), sizeMM, sizeMM, false, opts, 0, "")
	d.pdf.SetY(d.pdf.GetY() + sizeMM + 6)
	return nil
}

func (d *doc) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render: pdf output: %w", err)
	}
	return buf.Bytes(), nil
}
