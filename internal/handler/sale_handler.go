package handler

import (
	"net/http"
	"strconv"
	"time"

	"salestrack/internal/domain/sale"
	"salestrack/internal/services"
	"salestrack/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// SaleHandler handles the sales CRUD and table endpoints.
type SaleHandler struct {
	sales  *services.SaleService
	export *services.ExportService
}

func NewSaleHandler(sales *services.SaleService, export *services.ExportService) *SaleHandler {
	return &SaleHandler{sales: sales, export: export}
}

func (h *SaleHandler) Create(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "unauthenticated"))
		return
	}

	input, ok := bindSaleInput(c)
	if !ok {
		return
	}

	id, err := h.sales.Add(c.Request.Context(), userID, input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(gin.H{"id": id.String()}))
}

func (h *SaleHandler) Update(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "unauthenticated"))
		return
	}
	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid sale id", "invalid-argument"))
		return
	}

	input, ok := bindSaleInput(c)
	if !ok {
		return
	}

	if err := h.sales.Update(c.Request.Context(), userID, saleID, input); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

func (h *SaleHandler) Delete(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "unauthenticated"))
		return
	}
	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid sale id", "invalid-argument"))
		return
	}

	if err := h.sales.Delete(c.Request.Context(), userID, saleID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse[any](nil))
}

// Mine lists the caller's sales for one month.
func (h *SaleHandler) Mine(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "unauthenticated"))
		return
	}

	year, month := yearMonth(c)
	sales, err := h.sales.SalesForAgent(c.Request.Context(), userID, year, month)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromSales(sales)))
}

// Table is the org-wide sales view with text and date filters. Admin only.
func (h *SaleHandler) Table(c *gin.Context) {
	rows, err := h.sales.AllRows(c.Request.Context(), tableFilter(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromRows(rows)))
}

// Export streams the filtered table as an xlsx download. Admin only.
func (h *SaleHandler) Export(c *gin.Context) {
	workbook, err := h.export.SalesWorkbook(c.Request.Context(), tableFilter(c))
	if err != nil {
		writeError(c, err)
		return
	}

	filename := "sales-" + time.Now().Format(dateLayout) + ".xlsx"
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", workbook)
}

func bindSaleInput(c *gin.Context) (services.SaleInput, bool) {
	var req httpdto.SaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "invalid-argument"))
		return services.SaleInput{}, false
	}

	saleDate, err := time.Parse(dateLayout, req.SaleDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid sale date", "invalid-argument"))
		return services.SaleInput{}, false
	}

	input := services.SaleInput{
		CustomerTaxID: req.CustomerTaxID,
		CustomerPhone: req.CustomerPhone,
		Status:        req.Status,
		SaleDate:      saleDate,
		Period:        req.Period,
		SaleType:      req.SaleType,
		PaymentMethod: req.PaymentMethod,
		Ticket:        req.Ticket,
		WorkOrder:     req.WorkOrder,
		Notes:         req.Notes,
		Speed:         req.Speed,
		Region:        req.Region,
	}
	if req.InstallationDate != "" {
		installation, err := time.Parse(dateLayout, req.InstallationDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid installation date", "invalid-argument"))
			return services.SaleInput{}, false
		}
		input.InstallationDate = &installation
	}
	return input, true
}

func tableFilter(c *gin.Context) sale.Filter {
	filter := sale.Filter{Query: c.Query("q")}
	if raw := c.Query("start"); raw != "" {
		if start, err := time.Parse(dateLayout, raw); err == nil {
			filter.Start = &start
		}
	}
	if raw := c.Query("end"); raw != "" {
		if end, err := time.Parse(dateLayout, raw); err == nil {
			filter.End = &end
		}
	}
	return filter
}

// yearMonth reads the ?year= and ?month= query params, defaulting to the
// current month.
func yearMonth(c *gin.Context) (int, int) {
	now := time.Now()
	year, month := now.Year(), int(now.Month())
	if raw := c.Query("year"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			year = parsed
		}
	}
	if raw := c.Query("month"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 1 && parsed <= 12 {
			month = parsed
		}
	}
	return year, month
}
