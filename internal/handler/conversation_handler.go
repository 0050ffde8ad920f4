// Package handler 包含了处理 HTTP 请求的 Gin handler。
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nichestudioai/aibnb-superhost/internal/middleware"
	"github.com/nichestudioai/aibnb-superhost/internal/service"
)

// ConversationHandler 处理房东侧会话回看相关的 HTTP 请求。
type ConversationHandler struct {
	convService service.ConversationService
}

// NewConversationHandler 创建一个新的 ConversationHandler 实例。
func NewConversationHandler(convService service.ConversationService) *ConversationHandler {
	return &ConversationHandler{convService: convService}
}

// List 返回房源的全部会话，最近的在前。
func (h *ConversationHandler) List(c *gin.Context) {
	propertyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	hostID := c.GetUint(middleware.ContextHostIDKey)
	conversations, err := h.convService.ListByProperty(c.Request.Context(), hostID, propertyID)
	if err != nil {
		respondOwnershipError(c, err, "获取会话列表失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "成功", "data": conversations})
}

// Transcript 返回某条会话的完整消息记录。
func (h *ConversationHandler) Transcript(c *gin.Context) {
	propertyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	conversationID, ok := parseIDParam(c, "conversationId")
	if !ok {
		return
	}

	hostID := c.GetUint(middleware.ContextHostIDKey)
	messages, err := h.convService.Transcript(c.Request.Context(), hostID, propertyID, conversationID)
	if err != nil {
		respondOwnershipError(c, err, "获取会话记录失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "成功", "data": messages})
}
