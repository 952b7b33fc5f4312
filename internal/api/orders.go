package api

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"qr-table-service/internal/models"
	"qr-table-service/internal/service"
	"qr-table-service/internal/worker"

	"github.com/gin-gonic/gin"
)

// createOrder handles the customer cart submission from the table QR flow
func (h *Handler) createOrder(c *gin.Context) {
	restaurantID, ok := requireTenant(c)
	if !ok {
		return
	}

	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), restaurantID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// getOrder returns one order with its items. Public so the customer can
// watch their own order by id.
func (h *Handler) getOrder(c *gin.Context) {
	restaurantID, ok := requireTenant(c)
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), restaurantID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// listOrders returns orders for the staff boards. An explicit status filter
// wins; otherwise the caller's role decides the visible subset.
func (h *Handler) listOrders(c *gin.Context) {
	session := CurrentSession(c)

	statuses, err := parseStatusFilter(c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	if statuses == nil {
		statuses = models.StatusFilterForRole(session.Role)
	}

	orders, err := h.orderService.ListOrders(c.Request.Context(), session.RestaurantID, statuses)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

type advanceStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason,omitempty"`
}

// advanceOrderStatus moves an order through the lifecycle
func (h *Handler) advanceOrderStatus(c *gin.Context) {
	session := CurrentSession(c)

	var req advanceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	order, err := h.lifecycle.AdvanceOrderStatus(
		c.Request.Context(),
		session.RestaurantID,
		c.Param("id"),
		models.OrderStatus(req.Status),
		session.UserID,
		req.Reason,
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

type editItemsRequest struct {
	Items []service.CartItem `json:"items" binding:"required"`
}

// editOrderItems replaces an order's item set while it is still editable
func (h *Handler) editOrderItems(c *gin.Context) {
	session := CurrentSession(c)

	var req editItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	order, err := h.orderService.EditOrderFromCart(
		c.Request.Context(), session.RestaurantID, c.Param("id"), req.Items, session.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// streamOrders pushes full order-list snapshots over SSE. Every event
// replaces the previous snapshot entirely.
func (h *Handler) streamOrders(c *gin.Context) {
	session := CurrentSession(c)

	statuses, err := parseStatusFilter(c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	if statuses == nil {
		statuses = models.StatusFilterForRole(session.Role)
	}

	feed, err := h.projector.SubscribeOrders(c.Request.Context(), session.RestaurantID, statuses)
	if err != nil {
		respondError(c, err)
		return
	}

	sseHeaders(c)
	c.Stream(func(w io.Writer) bool {
		snapshot, ok := <-feed
		if !ok {
			return false
		}
		c.SSEvent("orders", snapshot)
		return true
	})
}

// streamOrder pushes snapshots of a single order over SSE. A deleted or
// unknown order delivers a null snapshot and keeps the stream open.
func (h *Handler) streamOrder(c *gin.Context) {
	restaurantID, ok := requireTenant(c)
	if !ok {
		return
	}

	feed, err := h.projector.SubscribeOrder(c.Request.Context(), restaurantID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	sseHeaders(c)
	c.Stream(func(w io.Writer) bool {
		snapshot, open := <-feed
		if !open {
			return false
		}
		c.SSEvent("order", snapshot)
		return true
	})
}

// isTableOccupied tells the QR landing page whether the table already has
// an active order
func (h *Handler) isTableOccupied(c *gin.Context) {
	restaurantID, ok := requireTenant(c)
	if !ok {
		return
	}

	occupied, err := h.occupancy.IsTableOccupied(c.Request.Context(), restaurantID, c.Param("tableNumber"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"table_number": c.Param("tableNumber"), "occupied": occupied})
}

// listOccupiedTables returns the floor view for staff
func (h *Handler) listOccupiedTables(c *gin.Context) {
	tables, err := h.occupancy.ListOccupiedTables(c.Request.Context(), CurrentSession(c).RestaurantID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tables)
}

// dashboardStats returns the daily counters maintained by the analytics
// worker. Defaults to today.
func (h *Handler) dashboardStats(c *gin.Context) {
	day := c.Query("day")
	if day == "" {
		day = worker.Today()
	}

	stats, err := h.redis.GetDashboardStats(c.Request.Context(), CurrentSession(c).RestaurantID, day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// parseStatusFilter parses a comma-separated status list. Empty input means
// no filter.
func parseStatusFilter(raw string) ([]models.OrderStatus, error) {
	if raw == "" {
		return nil, nil
	}
	var statuses []models.OrderStatus
	for _, part := range strings.Split(raw, ",") {
		status := models.OrderStatus(strings.TrimSpace(part))
		if !status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", models.ErrValidation, part)
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func sseHeaders(c *gin.Context) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
}
