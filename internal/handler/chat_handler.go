// Package handler 包含了处理 HTTP 请求的 Gin handler。
package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nichestudioai/aibnb-superhost/internal/service"
	"github.com/nichestudioai/aibnb-superhost/pkg/llm"
	"github.com/nichestudioai/aibnb-superhost/pkg/log"
	"gorm.io/gorm"
)

// ChatHandler 处理访客侧聊天相关的 HTTP 请求，不需要登录。
type ChatHandler struct {
	chatService     service.ChatService
	propertyService service.PropertyService
	convService     service.ConversationService
}

// NewChatHandler 创建一个新的 ChatHandler 实例。
func NewChatHandler(chatService service.ChatService, propertyService service.PropertyService, convService service.ConversationService) *ChatHandler {
	return &ChatHandler{chatService: chatService, propertyService: propertyService, convService: convService}
}

// chatRequest 定义了访客提问接口的请求体。
// SessionID 为空时由服务端生成并随响应返回，访客侧须在后续请求中带回。
type chatRequest struct {
	Question  string `json:"question" binding:"required"`
	SessionID string `json:"sessionId"`
}

// Ask 处理一轮访客提问。房源通过路径中的子域名定位。
func (h *ChatHandler) Ask(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": err.Error()})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "问题不能为空"})
		return
	}

	property, err := h.propertyService.GetBySubdomain(c.Param("subdomain"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": http.StatusNotFound, "message": "房源不存在"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "获取房源失败"})
		return
	}
	if !property.ChatbotEnabled {
		c.JSON(http.StatusForbidden, gin.H{"code": http.StatusForbidden, "message": "该房源未开启聊天助手"})
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	answer, err := h.chatService.Ask(c.Request.Context(), property.ID, sessionID, req.Question)
	if err != nil {
		var upstreamErr *llm.UpstreamError
		if errors.As(err, &upstreamErr) {
			log.Errorw("answer generation failed", "propertyId", property.ID, "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"code": http.StatusBadGateway, "message": "答案生成服务暂时不可用"})
			return
		}

		var persistErr *service.PersistenceError
		if errors.As(err, &persistErr) {
			// 落库失败不影响答案送达，响应中标记未持久化
			c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "成功", "data": gin.H{
				"answer":    answer,
				"sessionId": sessionID,
				"persisted": false,
			}})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "处理提问失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "成功", "data": gin.H{
		"answer":    answer,
		"sessionId": sessionID,
		"persisted": true,
	}})
}

// History 返回访客当前会话的消息记录，供页面刷新后恢复聊天窗口。
func (h *ChatHandler) History(c *gin.Context) {
	sessionID := c.Query("sessionId")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "缺少 sessionId 参数"})
		return
	}

	property, err := h.propertyService.GetBySubdomain(c.Param("subdomain"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": http.StatusNotFound, "message": "房源不存在"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "获取房源失败"})
		return
	}

	messages, err := h.convService.History(c.Request.Context(), property.ID, sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "获取聊天记录失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "成功", "data": messages})
}
