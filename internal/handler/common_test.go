package handler

import (
	"bytes"
	"encoding/json"
	"net/http"

	"go-ticket-marketplace/internal/middleware"
	"go-ticket-marketplace/internal/model"
	"go-ticket-marketplace/internal/service/mocks"

	"github.com/gin-gonic/gin"
)

var (
	InvalidJSON = `{"invalid": json}`
)

// create JSON request body
func createJSONRequest(data interface{}) *bytes.Buffer {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return bytes.NewBuffer([]byte(""))
	}
	return bytes.NewBuffer(jsonData)
}

// create HTTP request with JSON body
func createJSONHTTPRequest(method, url string, data interface{}) *http.Request {
	req, err := http.NewRequest(method, url, createJSONRequest(data))
	if err != nil {
		return nil
	}
	req.Header.Set("Content-Type", "application/json")
	return req
}

// setupTestRouter 掛上三組路由；caller 非空時模擬已通過 JWT 驗證的身分
func setupTestRouter(mockService *mocks.MarketplaceMock, caller model.Principal) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	group := router.Group("/api/v1")
	if caller != "" {
		group.Use(middleware.WithPrincipal(caller))
	}
	NewEventHandler(mockService).RegisterRoutes(group)
	NewTicketHandler(mockService).RegisterRoutes(group)
	NewPlatformHandler(mockService).RegisterRoutes(group)

	return router
}
