package handler

import (
	"net/http"

	"go-ticket-marketplace/internal/middleware"
	"go-ticket-marketplace/internal/model"
	"go-ticket-marketplace/internal/service"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	service service.Marketplace
}

func NewEventHandler(service service.Marketplace) *EventHandler {
	return &EventHandler{service: service}
}

func (h *EventHandler) RegisterRoutes(r gin.IRouter) {
	r.POST("events", h.Create)
	r.GET("events/:id", h.Get)
	r.PUT("events/:id/status", h.UpdateStatus)
	r.PUT("events/:id/cancel", h.Cancel)
	r.POST("events/:id/tickets", h.Purchase)
}

// CreateEventRequest 建立活動請求；organizer 由 token 決定，不收 body。
// start_time 允許 0，時間區間交給引擎驗證
type CreateEventRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Location    string `json:"location" binding:"required"`
	StartTime   uint64 `json:"start_time"`
	EndTime     uint64 `json:"end_time" binding:"required"`
	Price       int64  `json:"price" binding:"required"`
	Capacity    uint32 `json:"capacity"`
}

// UpdateEventStatusRequest 狀態轉換請求
type UpdateEventStatusRequest struct {
	Status model.EventStatus `json:"status" binding:"required"`
}

// PurchaseTicketRequest 購票請求；payment 是買家願付的上限
type PurchaseTicketRequest struct {
	Payment int64 `json:"payment" binding:"required"`
}

func (h *EventHandler) Create(c *gin.Context) {
	caller, ok := middleware.CallerPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var req CreateEventRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	id, err := h.service.CreateEvent(c, model.CreateEventParams{
		Organizer:   caller,
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Price:       model.Amount(req.Price),
		Capacity:    req.Capacity,
	})
	if err != nil {
		respondError(c, err, "CreateEvent")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"event_id": id})
}

func (h *EventHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}
	event, err := h.service.GetEvent(c, id)
	if err != nil {
		respondError(c, err, "GetEvent")
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) UpdateStatus(c *gin.Context) {
	caller, ok := middleware.CallerPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	id, err := parseID(c)
	if err != nil {
		return
	}
	var req UpdateEventStatusRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	if err := h.service.UpdateEventStatus(c, id, req.Status, caller); err != nil {
		respondError(c, err, "UpdateEventStatus")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *EventHandler) Cancel(c *gin.Context) {
	caller, ok := middleware.CallerPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	id, err := parseID(c)
	if err != nil {
		return
	}

	if err := h.service.CancelEvent(c, caller, id); err != nil {
		respondError(c, err, "CancelEvent")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *EventHandler) Purchase(c *gin.Context) {
	caller, ok := middleware.CallerPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	id, err := parseID(c)
	if err != nil {
		return
	}
	var req PurchaseTicketRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	ticketID, err := h.service.PurchaseTicket(c, caller, id, model.Amount(req.Payment))
	if err != nil {
		respondError(c, err, "PurchaseTicket")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ticket_id": ticketID})
}
