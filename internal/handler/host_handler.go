// Package handler 包含了处理 HTTP 请求的 Gin handler。
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nichestudioai/aibnb-superhost/internal/middleware"
	"github.com/nichestudioai/aibnb-superhost/internal/service"
	"gorm.io/gorm"
)

// HostHandler 处理房东账户相关的 HTTP 请求。
type HostHandler struct {
	hostService service.HostService
}

// NewHostHandler 创建一个新的 HostHandler 实例。
func NewHostHandler(hostService service.HostService) *HostHandler {
	return &HostHandler{hostService: hostService}
}

// registerRequest 定义了注册接口的请求体。
type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=8"`
}

// loginRequest 定义了登录接口的请求体。
type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// refreshRequest 定义了刷新令牌接口的请求体。
type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// updateProfileRequest 定义了更新账户信息接口的请求体。
type updateProfileRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	City  string `json:"city"`
	State string `json:"state"`
}

// Register 处理房东注册请求。
func (h *HostHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": err.Error()})
		return
	}

	host, err := h.hostService.Register(req.Name, req.Email, req.Phone, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"code": http.StatusConflict, "message": "该邮箱已被注册"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "注册失败"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"code": http.StatusCreated, "message": "注册成功", "data": host})
}

// Login 处理房东登录请求。
func (h *HostHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": err.Error()})
		return
	}

	pair, host, err := h.hostService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "message": "邮箱或密码错误"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "登录失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "登录成功", "data": gin.H{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
		"host":         host,
	}})
}

// Logout 处理房东登出请求，将当前 token 拉入黑名单。
func (h *HostHandler) Logout(c *gin.Context) {
	tokenString := c.GetString(middleware.ContextTokenKey)
	if err := h.hostService.Logout(c.Request.Context(), tokenString); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "登出失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "登出成功"})
}

// RefreshToken 处理令牌刷新请求。
func (h *HostHandler) RefreshToken(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": err.Error()})
		return
	}

	pair, err := h.hostService.RefreshToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"code": http.StatusUnauthorized, "message": "刷新令牌无效或已过期"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "刷新成功", "data": pair})
}

// GetProfile 返回当前登录房东的账户信息。
func (h *HostHandler) GetProfile(c *gin.Context) {
	hostID := c.GetUint(middleware.ContextHostIDKey)
	host, err := h.hostService.GetProfile(hostID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": http.StatusNotFound, "message": "账户不存在"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "获取账户信息失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "成功", "data": host})
}

// UpdateProfile 更新当前登录房东的账户信息。
func (h *HostHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": err.Error()})
		return
	}

	hostID := c.GetUint(middleware.ContextHostIDKey)
	host, err := h.hostService.UpdateProfile(hostID, req.Name, req.Phone, req.City, req.State)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "更新账户信息失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "更新成功", "data": host})
}
