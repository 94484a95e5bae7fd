package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/dromero/quarryops-recon/internal/model"
)

type Generator struct {
	fontName string
}

func NewGenerator() *Generator {
	return &Generator{fontName: "Helvetica"}
}

// Generate renders one sale as a printable comprobante.
func (g *Generator) Generate(sale model.Sale) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, tr("Comprobante de venta"), "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Venta %s del %s", sale.ID, formatDate(sale.Date))), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, tr("Cliente"), "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 10)
	lines := []string{
		sale.Client,
		fmt.Sprintf("Obra: %s", safeValue(sale.SubLocation)),
		fmt.Sprintf("Origen: %s", safeValue(sale.Origin)),
		fmt.Sprintf("Destino: %s", safeValue(sale.Destination)),
		fmt.Sprintf("Condición de pago: %s", safeValue(sale.PaymentTerms)),
	}
	for _, line := range lines {
		pdf.MultiCell(0, 5, tr(line), "", "L", false)
	}
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, tr("Detalle"), "", 1, "L", false, 0, "")

	headers := []string{"Descripción", "Tipo", "Cantidad", "Precio unitario", "Subtotal"}
	colWidths := []float64{70, 25, 25, 30, 30}
	drawTableRow(pdf, g.fontName, tr, headers, colWidths, true)

	for _, item := range sale.Items {
		row := []string{
			item.Description,
			kindLabel(item.Kind),
			fmt.Sprintf("%.3f", item.Quantity),
			item.UnitPrice.StringFixed(2),
			item.Subtotal.StringFixed(2),
		}
		drawTableRow(pdf, g.fontName, tr, row, colWidths, false)
	}

	pdf.Ln(2)
	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Total: %s", sale.Total.StringFixed(2))), "", 1, "R", false, 0, "")

	if sale.Note != "" {
		pdf.Ln(2)
		pdf.SetFont(g.fontName, "", 9)
		pdf.MultiCell(0, 5, tr(sale.Note), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawTableRow(pdf *gofpdf.Fpdf, fontName string, tr func(string) string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 10)
	for i, col := range cols {
		align := "L"
		if i > 1 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 8, tr(col), "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func kindLabel(kind model.LineItemKind) string {
	switch kind {
	case model.LineItemMaterial:
		return "Material"
	case model.LineItemFreight:
		return "Flete"
	default:
		return string(kind)
	}
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "—"
	}
	return value
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format("02.01.2006")
}
