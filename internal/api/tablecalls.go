package api

import (
	"io"
	"net/http"

	"qr-table-service/internal/service"

	"github.com/gin-gonic/gin"
)

// createTableCall records a customer service request (call waiter, ask for
// the bill)
func (h *Handler) createTableCall(c *gin.Context) {
	restaurantID, ok := requireTenant(c)
	if !ok {
		return
	}

	var req service.CreateTableCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	call, err := h.tableCalls.CreateCall(c.Request.Context(), restaurantID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, call)
}

// listTableCalls returns the pending calls for the waiter dashboard
func (h *Handler) listTableCalls(c *gin.Context) {
	calls, err := h.tableCalls.ListPendingCalls(c.Request.Context(), CurrentSession(c).RestaurantID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, calls)
}

// streamTableCalls pushes pending-call snapshots over SSE
func (h *Handler) streamTableCalls(c *gin.Context) {
	session := CurrentSession(c)

	feed, err := h.projector.SubscribeTableCalls(c.Request.Context(), session.RestaurantID)
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
		c.SSEvent("table-calls", snapshot)
		return true
	})
}

// attendTableCall claims a pending call for the current staff member. A
// call already attended by someone else returns 404, the snapshot stream
// removes it from every other dashboard.
func (h *Handler) attendTableCall(c *gin.Context) {
	session := CurrentSession(c)

	call, err := h.tableCalls.AttendCall(c.Request.Context(), session.RestaurantID, c.Param("id"), session.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, call)
}
