package handler

import (
	"net/http"

	"go-ticket-marketplace/internal/middleware"
	"go-ticket-marketplace/internal/service"

	"github.com/gin-gonic/gin"
)

type PlatformHandler struct {
	service service.Marketplace
}

func NewPlatformHandler(service service.Marketplace) *PlatformHandler {
	return &PlatformHandler{service: service}
}

func (h *PlatformHandler) RegisterRoutes(r gin.IRouter) {
	r.POST("platform/initialize", h.Initialize)
	r.PUT("platform/fee", h.SetFee)
	r.POST("platform/withdrawals", h.Withdraw)
	r.GET("platform/fee", h.GetFee)
	r.GET("platform/balance", h.GetBalance)
}

// SetFeeRequest 設定平台費率（basis points）
type SetFeeRequest struct {
	Bps uint32 `json:"bps"`
}

// Initialize 以呼叫者為 admin 做一次性初始化
func (h *PlatformHandler) Initialize(c *gin.Context) {
	caller, ok := middleware.CallerPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.service.Initialize(c, caller); err != nil {
		respondError(c, err, "Initialize")
		return
	}
	c.Status(http.StatusCreated)
}

func (h *PlatformHandler) SetFee(c *gin.Context) {
	caller, ok := middleware.CallerPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var req SetFeeRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	if err := h.service.SetPlatformFee(c, caller, req.Bps); err != nil {
		respondError(c, err, "SetPlatformFee")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PlatformHandler) Withdraw(c *gin.Context) {
	caller, ok := middleware.CallerPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	amount, err := h.service.WithdrawPlatformFees(c, caller)
	if err != nil {
		respondError(c, err, "WithdrawPlatformFees")
		return
	}
	c.JSON(http.StatusOK, gin.H{"amount": amount})
}

func (h *PlatformHandler) GetFee(c *gin.Context) {
	bps, err := h.service.GetPlatformFee(c)
	if err != nil {
		respondError(c, err, "GetPlatformFee")
		return
	}
	c.JSON(http.StatusOK, gin.H{"fee_bps": bps})
}

func (h *PlatformHandler) GetBalance(c *gin.Context) {
	balance, err := h.service.GetPlatformBalance(c)
	if err != nil {
		respondError(c, err, "GetPlatformBalance")
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance})
}
