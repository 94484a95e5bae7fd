package excel

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/dromero/quarryops-recon/internal/model"
)

// SalesBook is one period's worth of automatically generated sales, ready to
// be laid out as a workbook for the back office.
type SalesBook struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	Sales       []model.Sale
}

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(book SalesBook) ([]byte, error) {
	file := excelize.NewFile()

	summarySheet := "Resumen"
	file.SetSheetName("Sheet1", summarySheet)
	if err := g.writeSummary(file, summarySheet, book); err != nil {
		return nil, err
	}

	salesSheet := "Ventas"
	file.NewSheet(salesSheet)
	if err := g.writeSales(file, salesSheet, book); err != nil {
		return nil, err
	}

	detailSheet := "Detalle"
	file.NewSheet(detailSheet)
	if err := g.writeDetail(file, detailSheet, book); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, book SalesBook) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	totalsByClient := make(map[string]decimal.Decimal)
	grandTotal := decimal.Zero
	for _, sale := range book.Sales {
		totalsByClient[sale.Client] = totalsByClient[sale.Client].Add(sale.Total)
		grandTotal = grandTotal.Add(sale.Total)
	}

	clients := make([]string, 0, len(totalsByClient))
	for client := range totalsByClient {
		clients = append(clients, client)
	}
	sort.Strings(clients)

	set("A1", "Inicio del período")
	set("B1", formatDate(book.PeriodStart))
	set("A2", "Fin del período")
	set("B2", formatDate(book.PeriodEnd))
	set("A3", "Cantidad de ventas")
	set("B3", len(book.Sales))
	set("A4", "Total del período")
	set("B4", grandTotal.StringFixed(2))

	tableRow := 6
	set(fmt.Sprintf("A%d", tableRow), "Cliente")
	set(fmt.Sprintf("B%d", tableRow), "Total")
	for i, client := range clients {
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), client)
		set(fmt.Sprintf("B%d", row), totalsByClient[client].StringFixed(2))
	}

	_ = file.SetColWidth(sheet, "A", "A", 40)
	_ = file.SetColWidth(sheet, "B", "B", 18)
	return nil
}

func (g *Generator) writeSales(file *excelize.File, sheet string, book SalesBook) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	headers := []string{
		"Fecha",
		"Cliente",
		"Obra",
		"Clasificación",
		"Origen",
		"Destino",
		"Condición de pago",
		"Total",
		"Nota",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		set(cell, header)
	}

	for i, sale := range book.Sales {
		row := i + 2
		set(fmt.Sprintf("A%d", row), formatDate(sale.Date))
		set(fmt.Sprintf("B%d", row), sale.Client)
		set(fmt.Sprintf("C%d", row), sale.SubLocation)
		set(fmt.Sprintf("D%d", row), classLabel(sale.Class))
		set(fmt.Sprintf("E%d", row), sale.Origin)
		set(fmt.Sprintf("F%d", row), sale.Destination)
		set(fmt.Sprintf("G%d", row), sale.PaymentTerms)
		set(fmt.Sprintf("H%d", row), sale.Total.StringFixed(2))
		set(fmt.Sprintf("I%d", row), sale.Note)
	}

	_ = file.SetColWidth(sheet, "A", "A", 12)
	_ = file.SetColWidth(sheet, "B", "C", 28)
	_ = file.SetColWidth(sheet, "D", "G", 18)
	_ = file.SetColWidth(sheet, "H", "H", 14)
	_ = file.SetColWidth(sheet, "I", "I", 48)
	return nil
}

func (g *Generator) writeDetail(file *excelize.File, sheet string, book SalesBook) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	headers := []string{
		"Fecha",
		"Cliente",
		"Tipo",
		"Descripción",
		"Cantidad",
		"Precio unitario",
		"Subtotal",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		set(cell, header)
	}

	row := 2
	for _, sale := range book.Sales {
		for _, item := range sale.Items {
			set(fmt.Sprintf("A%d", row), formatDate(sale.Date))
			set(fmt.Sprintf("B%d", row), sale.Client)
			set(fmt.Sprintf("C%d", row), kindLabel(item.Kind))
			set(fmt.Sprintf("D%d", row), item.Description)
			set(fmt.Sprintf("E%d", row), fmt.Sprintf("%.3f", item.Quantity))
			set(fmt.Sprintf("F%d", row), item.UnitPrice.StringFixed(2))
			set(fmt.Sprintf("G%d", row), item.Subtotal.StringFixed(2))
			row++
		}
	}

	_ = file.SetColWidth(sheet, "A", "A", 12)
	_ = file.SetColWidth(sheet, "B", "B", 28)
	_ = file.SetColWidth(sheet, "C", "C", 12)
	_ = file.SetColWidth(sheet, "D", "D", 36)
	_ = file.SetColWidth(sheet, "E", "G", 16)
	return nil
}

func classLabel(class model.SaleClass) string {
	switch class {
	case model.SaleClassMaterial:
		return "Material"
	case model.SaleClassFreight:
		return "Flete"
	case model.SaleClassMaterialFreight:
		return "Material y flete"
	default:
		return string(class)
	}
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

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
