package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/VeeraVardhan35/campusConnect/internal/validator"
	"github.com/VeeraVardhan35/campusConnect/pkg/jwt"
	"github.com/VeeraVardhan35/campusConnect/pkg/response"
)

// 中间件写入 gin.Context 的键
const (
	ctxUserID = "user_id"
	ctxRole   = "role"
	ctxClaims = "claims"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	return mustGetString(c, ctxUserID)
}

// MustGetRole 从 Gin 上下文中安全提取 role。
func MustGetRole(c *gin.Context) (string, bool) {
	return mustGetString(c, ctxRole)
}

// GetClaims 当前 Access Token 的声明；未经 JWT 中间件时返回 nil
func GetClaims(c *gin.Context) *jwt.Claims {
	v, ok := c.Get(ctxClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*jwt.Claims)
	return claims
}

func mustGetString(c *gin.Context, key string) (string, bool) {
	v, exists := c.Get(key)
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// bindJSON 绑定请求体，失败时写入 400 与字段错误
func bindJSON(c *gin.Context, dst interface{}) bool {
	if fields := validator.Bind(c, dst); fields != nil {
		response.ValidationFailed(c, fields)
		return false
	}
	return true
}

// bindQuery 绑定查询参数，失败时写入 400 与字段错误
func bindQuery(c *gin.Context, dst interface{}) bool {
	if fields := validator.BindQuery(c, dst); fields != nil {
		response.ValidationFailed(c, fields)
		return false
	}
	return true
}

// mustParam 读取路径参数，为空时写入 400
func mustParam(c *gin.Context, name, label string) (string, bool) {
	v := c.Param(name)
	if v == "" {
		response.BadRequest(c, 10001, label+"不能为空")
		return "", false
	}
	return v, true
}
