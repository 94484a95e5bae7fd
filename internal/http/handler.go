package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/dromero/quarryops-recon/internal/excel"
	"github.com/dromero/quarryops-recon/internal/http/middleware"
	"github.com/dromero/quarryops-recon/internal/model"
	"github.com/dromero/quarryops-recon/internal/pdf"
	"github.com/dromero/quarryops-recon/internal/recon"
)

// SaleReader is the read side of the sale store the export endpoints use.
type SaleReader interface {
	List(ctx context.Context, f model.SaleFilter) ([]model.Sale, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
}

type Handler struct {
	engine *recon.Engine
	sales  SaleReader
	excel  *excel.Generator
	pdf    *pdf.Generator
	log    zerolog.Logger
}

func NewHandler(engine *recon.Engine, sales SaleReader, excelGen *excel.Generator, pdfGen *pdf.Generator, log zerolog.Logger) *Handler {
	return &Handler{engine: engine, sales: sales, excel: excelGen, pdf: pdfGen, log: log}
}

func (h *Handler) Register(protected *gin.RouterGroup) {
	protected.POST("/reconcile/reports", h.processReport)
	protected.GET("/operations", h.getOperation)
	protected.GET("/inventory/:material", h.getLedgerState)
	protected.GET("/inventory/:material/movements", h.getLedgerMovements)
	protected.POST("/sales/export", h.exportSales)
	protected.GET("/sales/:id/document", h.saleDocument)
}

type machinePayload struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

type originPayload struct {
	Name string `json:"name"`
}

type destinationPayload struct {
	Client      string `json:"client"`
	SubLocation string `json:"sub_location"`
}

type processReportRequest struct {
	ID          string              `json:"id" binding:"required"`
	Type        string              `json:"type" binding:"required"`
	Machine     machinePayload      `json:"machine"`
	Worker      string              `json:"worker"`
	ReportedAt  string              `json:"reported_at" binding:"required"`
	Origin      *originPayload      `json:"origin"`
	Destination *destinationPayload `json:"destination"`
	Material    string              `json:"material"`
	Quantity    float64             `json:"quantity"`
	TripCount   int                 `json:"trip_count"`
	Hours       float64             `json:"hours"`
	Value       float64             `json:"value"`
	Note        string              `json:"note"`
}

func (h *Handler) processReport(c *gin.Context) {
	var req processReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := req.toReport()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome := h.engine.Process(c.Request.Context(), report)
	c.JSON(outcomeStatusCode(outcome), outcomeResponseFrom(outcome))
}

func (req processReportRequest) toReport() (model.Report, error) {
	reportID, err := uuid.Parse(strings.TrimSpace(req.ID))
	if err != nil {
		return model.Report{}, errors.New("invalid report id")
	}

	reportType, err := parseReportType(req.Type)
	if err != nil {
		return model.Report{}, err
	}

	reportedAt, err := parseDate(req.ReportedAt)
	if err != nil {
		return model.Report{}, errors.New("invalid reported_at")
	}

	report := model.Report{
		ID:         reportID,
		Type:       reportType,
		Worker:     req.Worker,
		ReportedAt: reportedAt,
		Material:   req.Material,
		Quantity:   req.Quantity,
		TripCount:  req.TripCount,
		Hours:      req.Hours,
		Value:      req.Value,
		Note:       req.Note,
	}

	report.Machine.Name = req.Machine.Name
	report.Machine.Category = model.MachineCategory(strings.ToUpper(strings.TrimSpace(req.Machine.Category)))
	if req.Machine.ID != "" {
		machineID, err := uuid.Parse(req.Machine.ID)
		if err != nil {
			return model.Report{}, errors.New("invalid machine id")
		}
		report.Machine.ID = machineID
	}

	if req.Origin != nil {
		report.Origin = &model.Location{Name: req.Origin.Name}
	}
	if req.Destination != nil {
		report.Destination = &model.Destination{
			Client:      req.Destination.Client,
			SubLocation: req.Destination.SubLocation,
		}
	}
	return report, nil
}

type lineItemResponse struct {
	Kind        string  `json:"kind"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   string  `json:"unit_price"`
	Subtotal    string  `json:"subtotal"`
}

type saleResponse struct {
	ID           string             `json:"id"`
	Date         string             `json:"date"`
	Client       string             `json:"client"`
	SubLocation  string             `json:"sub_location,omitempty"`
	Class        string             `json:"class"`
	Origin       string             `json:"origin,omitempty"`
	Destination  string             `json:"destination,omitempty"`
	PaymentTerms string             `json:"payment_terms,omitempty"`
	Note         string             `json:"note,omitempty"`
	Total        string             `json:"total"`
	Items        []lineItemResponse `json:"items"`
}

type outcomeResponse struct {
	Status      string        `json:"status"`
	SaleID      string        `json:"sale_id,omitempty"`
	OperationID string        `json:"operation_id,omitempty"`
	Reason      string        `json:"reason,omitempty"`
	Error       string        `json:"error,omitempty"`
	Sale        *saleResponse `json:"sale,omitempty"`
}

func outcomeResponseFrom(outcome recon.Outcome) outcomeResponse {
	resp := outcomeResponse{
		Status: string(outcome.Status),
		Reason: outcome.Reason,
	}
	if outcome.SaleID != uuid.Nil {
		resp.SaleID = outcome.SaleID.String()
	}
	if outcome.OperationID != uuid.Nil {
		resp.OperationID = outcome.OperationID.String()
	}
	if outcome.Err != nil {
		resp.Error = outcome.Err.Error()
	}
	if outcome.Sale != nil {
		sale := saleResponseFrom(*outcome.Sale)
		resp.Sale = &sale
	}
	return resp
}

func saleResponseFrom(sale model.Sale) saleResponse {
	items := make([]lineItemResponse, 0, len(sale.Items))
	for _, item := range sale.Items {
		items = append(items, lineItemResponse{
			Kind:        string(item.Kind),
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.String(),
			Subtotal:    item.Subtotal.String(),
		})
	}
	return saleResponse{
		ID:           sale.ID.String(),
		Date:         sale.Date.Format("2006-01-02"),
		Client:       sale.Client,
		SubLocation:  sale.SubLocation,
		Class:        string(sale.Class),
		Origin:       sale.Origin,
		Destination:  sale.Destination,
		PaymentTerms: sale.PaymentTerms,
		Note:         sale.Note,
		Total:        sale.Total.String(),
		Items:        items,
	}
}

func outcomeStatusCode(outcome recon.Outcome) int {
	switch outcome.Status {
	case recon.OutcomeCreated:
		return http.StatusCreated
	case recon.OutcomeDeferred:
		return http.StatusAccepted
	case recon.OutcomeFailed:
		switch {
		case errors.Is(outcome.Err, recon.ErrInvalidReport):
			return http.StatusBadRequest
		case errors.Is(outcome.Err, recon.ErrInsufficientStock),
			errors.Is(outcome.Err, recon.ErrUnknownMaterial),
			errors.Is(outcome.Err, recon.ErrInvalidQuantity):
			return http.StatusConflict
		default:
			return http.StatusInternalServerError
		}
	default:
		return http.StatusOK
	}
}

func (h *Handler) getOperation(c *gin.Context) {
	day, err := parseDate(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}
	client := strings.TrimSpace(c.Query("client"))
	material := strings.TrimSpace(c.Query("material"))
	if client == "" || material == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "client and material are required"})
		return
	}

	y, m, d := day.Date()
	key := model.OperationKey{
		Day:      time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Client:   client,
		Material: material,
	}
	op, err := h.engine.GetOperation(c.Request.Context(), key)
	if err != nil {
		h.handleError(c, err)
		return
	}
	if op == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "operation not found"})
		return
	}
	c.JSON(http.StatusOK, op)
}

func (h *Handler) getLedgerState(c *gin.Context) {
	material, err := h.engine.LedgerState(c.Request.Context(), c.Param("material"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	if material == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "material not found"})
		return
	}
	c.JSON(http.StatusOK, material)
}

func (h *Handler) getLedgerMovements(c *gin.Context) {
	movements, err := h.engine.LedgerMovements(c.Request.Context(), c.Param("material"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, movements)
}

type exportSalesRequest struct {
	PeriodStart string `json:"period_start" binding:"required"`
	PeriodEnd   string `json:"period_end" binding:"required"`
	Client      string `json:"client"`
}

// requireBackOffice limits document and export endpoints to the roles that
// handle billing paperwork.
func (h *Handler) requireBackOffice(c *gin.Context) bool {
	principal, ok := middleware.MustPrincipal(c)
	if !ok || (!principal.IsAdmin() && !principal.IsSupervisor()) {
		c.JSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
		return false
	}
	return true
}

func (h *Handler) exportSales(c *gin.Context) {
	if !h.requireBackOffice(c) {
		return
	}

	var req exportSalesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, err := parseDate(req.PeriodStart)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid period_start"})
		return
	}
	end, err := parseDate(req.PeriodEnd)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid period_end"})
		return
	}
	if start.After(end) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "period_start must be before or equal to period_end"})
		return
	}

	sales, err := h.sales.List(c.Request.Context(), model.SaleFilter{
		Client: strings.TrimSpace(req.Client),
		From:   start,
		To:     end,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	content, err := h.excel.Generate(excel.SalesBook{
		PeriodStart: start,
		PeriodEnd:   end,
		Sales:       sales,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	fileName := "ventas-" + start.Format("20060102") + "-" + end.Format("20060102") + ".xlsx"
	c.Header("Content-Disposition", "attachment; filename=\""+fileName+"\"")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content)
}

func (h *Handler) saleDocument(c *gin.Context) {
	if !h.requireBackOffice(c) {
		return
	}

	saleID, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sale id"})
		return
	}

	sale, err := h.sales.GetByID(c.Request.Context(), saleID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	content, err := h.pdf.Generate(*sale)
	if err != nil {
		h.handleError(c, err)
		return
	}

	fileName := "venta-" + saleID.String() + ".pdf"
	c.Header("Content-Disposition", "attachment; filename=\""+fileName+"\"")
	c.Data(http.StatusOK, "application/pdf", content)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		h.log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseReportType(raw string) (model.ReportType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "worked_hours":
		return model.ReportTypeWorkedHours, nil
	case "overtime_hours":
		return model.ReportTypeOvertimeHours, nil
	case "trips":
		return model.ReportTypeTrips, nil
	case "fuel":
		return model.ReportTypeFuel, nil
	case "maintenance":
		return model.ReportTypeMaintenance, nil
	case "debris_receipt":
		return model.ReportTypeDebrisReceipt, nil
	default:
		return "", errors.New("invalid report type")
	}
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("empty date")
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, errors.New("unrecognized date format")
}
