package middleware

import (
	"net/http"
	"strings"

	"go-ticket-marketplace/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const principalKey = "principal"

// JWTAuth 驗證 Bearer token 並把 sub claim 當作 caller principal 放進 context。
// 需要具名授權的 handler 一律從 context 取 caller，不信任 request body。
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			return
		}
		sub, err := claims.GetSubject()
		if err != nil || sub == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing subject claim"})
			return
		}

		c.Set(principalKey, model.Principal(sub))
		c.Next()
	}
}

// WithPrincipal 直接注入 caller，供測試或已驗證的內部環境使用
func WithPrincipal(principal model.Principal) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(principalKey, principal)
		c.Next()
	}
}

// CallerPrincipal 取出 middleware 放入的 caller 身分
func CallerPrincipal(c *gin.Context) (model.Principal, bool) {
	value, ok := c.Get(principalKey)
	if !ok {
		return "", false
	}
	principal, ok := value.(model.Principal)
	return principal, ok && principal != ""
}
