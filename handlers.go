package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"bitbucket.org/mmdatafocus/payables_backend/config"
	"bitbucket.org/mmdatafocus/payables_backend/models"
	"bitbucket.org/mmdatafocus/payables_backend/models/reports"
	"bitbucket.org/mmdatafocus/payables_backend/utils"
)

func registerRoutes(r *gin.Engine) {
	vendors := r.Group("/vendors")
	{
		vendors.POST("", createVendorHandler)
		vendors.GET("", listVendorsHandler)
		vendors.GET("/:id", getVendorHandler)
		vendors.PATCH("/:id", updateVendorHandler)
		vendors.DELETE("/:id", deleteVendorHandler)
	}

	purchaseOrders := r.Group("/purchase-orders")
	{
		purchaseOrders.POST("", createPurchaseOrderHandler)
		purchaseOrders.GET("", listPurchaseOrdersHandler)
		purchaseOrders.GET("/:id", getPurchaseOrderHandler)
		purchaseOrders.PATCH("/:id/status", updatePoStatusHandler)
		purchaseOrders.DELETE("/:id", deletePurchaseOrderHandler)
	}

	payments := r.Group("/payments")
	{
		payments.POST("", createPaymentHandler)
		payments.GET("", listPaymentsHandler)
		payments.GET("/:id", getPaymentHandler)
		payments.DELETE("/:id", voidPaymentHandler)
	}

	analytics := r.Group("/analytics")
	{
		analytics.GET("/vendor-outstanding", vendorOutstandingHandler)
		analytics.GET("/payment-aging", paymentAgingHandler)
		analytics.GET("/export", exportLedgerHandler)
	}
}

// respondError maps the ledger error taxonomy onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, utils.ErrorRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrorValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrorConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		config.LogError(config.GetLogger(), "handlers.go", c.HandlerName(), c.Request.URL.Path, nil, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func bindError(c *gin.Context, err error) {
	if fields := utils.ProcessValidationErrors(err); len(fields) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": fields})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func idParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

/* vendors */

func createVendorHandler(c *gin.Context) {
	var input models.NewVendor
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	vendor, err := models.CreateVendor(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, vendor)
}

func listVendorsHandler(c *gin.Context) {
	var name *string
	if v := c.Query("name"); v != "" {
		name = &v
	}
	vendors, err := models.GetVendors(c.Request.Context(), name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": vendors})
}

func getVendorHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	vendor, err := models.GetVendor(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	summary, err := models.GetVendorPaymentSummary(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vendor": vendor, "payment_summary": summary})
}

func updateVendorHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input models.NewVendor
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	vendor, err := models.UpdateVendor(c.Request.Context(), id, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vendor)
}

func deleteVendorHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	vendor, err := models.DeleteVendor(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "vendor '" + vendor.Name + "' deleted"})
}

/* purchase orders */

func createPurchaseOrderHandler(c *gin.Context) {
	var input models.NewPurchaseOrder
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	po, err := models.CreatePurchaseOrder(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, po)
}

func listPurchaseOrdersHandler(c *gin.Context) {
	var vendorId *int
	if v, err := strconv.Atoi(c.Query("vendor_id")); err == nil {
		vendorId = &v
	}
	var status *models.PurchaseOrderStatus
	if v := c.Query("status"); v != "" {
		parsed, err := models.ParsePurchaseOrderStatus(v)
		if err != nil {
			respondError(c, err)
			return
		}
		status = &parsed
	}
	page, limit := pageParams(c)

	pos, total, err := models.PaginatePurchaseOrder(c.Request.Context(), vendorId, status, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": pos, "total": total, "page": page, "limit": limit})
}

func getPurchaseOrderHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	po, err := models.GetPurchaseOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"purchase_order": po,
		"total_paid":     po.TotalPaid(),
		"outstanding":    po.Outstanding(),
	})
}

func updatePoStatusHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		bindError(c, err)
		return
	}
	status, err := models.ParsePurchaseOrderStatus(body.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	po, err := models.UpdateStatusPurchaseOrder(c.Request.Context(), id, status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, po)
}

func deletePurchaseOrderHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	po, err := models.DeletePurchaseOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "purchase order '" + po.PoNumber + "' deleted"})
}

/* payments */

func createPaymentHandler(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "CreatePayment")
	defer span.End()

	var input models.NewPayment
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	payment, err := models.CreatePayment(ctx, &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, payment)
}

func listPaymentsHandler(c *gin.Context) {
	var poId *int
	if v, err := strconv.Atoi(c.Query("purchase_order_id")); err == nil {
		poId = &v
	}
	includeVoided := c.Query("include_voided") == "true"
	page, limit := pageParams(c)

	payments, total, err := models.PaginatePayment(c.Request.Context(), poId, includeVoided, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": payments, "total": total, "page": page, "limit": limit})
}

func getPaymentHandler(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	payment, err := models.GetPayment(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

func voidPaymentHandler(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "VoidPayment")
	defer span.End()

	id, ok := idParam(c)
	if !ok {
		return
	}
	payment, err := models.VoidPayment(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment " + payment.PaymentReference + " has been voided successfully"})
}

/* analytics */

func vendorOutstandingHandler(c *gin.Context) {
	var vendorId *int
	if v, err := strconv.Atoi(c.Query("vendor_id")); err == nil {
		vendorId = &v
	}
	rows, err := reports.GetVendorOutstandingReport(c.Request.Context(), vendorId)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rows})
}

func paymentAgingHandler(c *gin.Context) {
	aging, err := reports.GetPaymentAgingReport(c.Request.Context(), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, aging)
}

func exportLedgerHandler(c *gin.Context) {
	f, err := reports.BuildLedgerWorkbook(c.Request.Context(), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=payables-ledger.xlsx")
	if err := f.Write(c.Writer); err != nil {
		respondError(c, err)
	}
}
