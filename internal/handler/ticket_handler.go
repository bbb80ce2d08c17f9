package handler

import (
	"net/http"

	"go-ticket-marketplace/internal/middleware"
	"go-ticket-marketplace/internal/service"

	"github.com/gin-gonic/gin"
)

type TicketHandler struct {
	service service.Marketplace
}

func NewTicketHandler(service service.Marketplace) *TicketHandler {
	return &TicketHandler{service: service}
}

func (h *TicketHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("tickets/:id", h.Get)
	r.PUT("tickets/:id/use", h.Use)
	r.PUT("tickets/:id/refund", h.Refund)
}

func (h *TicketHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}
	ticket, err := h.service.GetTicket(c, id)
	if err != nil {
		respondError(c, err, "GetTicket")
		return
	}
	c.JSON(http.StatusOK, ticket)
}

// Use 驗票，只有活動的 organizer 可以呼叫
func (h *TicketHandler) Use(c *gin.Context) {
	caller, ok := middleware.CallerPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	id, err := parseID(c)
	if err != nil {
		return
	}

	if err := h.service.UseTicket(c, id, caller); err != nil {
		respondError(c, err, "UseTicket")
		return
	}
	c.Status(http.StatusNoContent)
}

// Refund 退票，只有票主可以呼叫，且活動必須已取消
func (h *TicketHandler) Refund(c *gin.Context) {
	caller, ok := middleware.CallerPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	id, err := parseID(c)
	if err != nil {
		return
	}

	if err := h.service.RefundTicket(c, id, caller); err != nil {
		respondError(c, err, "RefundTicket")
		return
	}
	c.Status(http.StatusNoContent)
}
