// Package handler 包含了处理 HTTP 请求的 Gin handler。
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nichestudioai/aibnb-superhost/internal/middleware"
	"github.com/nichestudioai/aibnb-superhost/internal/service"
)

// FAQHandler 处理 FAQ 管理相关的 HTTP 请求。
type FAQHandler struct {
	faqService service.FAQService
}

// NewFAQHandler 创建一个新的 FAQHandler 实例。
func NewFAQHandler(faqService service.FAQService) *FAQHandler {
	return &FAQHandler{faqService: faqService}
}

// Create 为指定房源新增一条 FAQ。
func (h *FAQHandler) Create(c *gin.Context) {
	propertyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input service.FAQInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": err.Error()})
		return
	}

	hostID := c.GetUint(middleware.ContextHostIDKey)
	faq, err := h.faqService.Create(c.Request.Context(), hostID, propertyID, input)
	if err != nil {
		respondFAQError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"code": http.StatusCreated, "message": "创建成功", "data": faq})
}

// List 返回指定房源的全部 FAQ。
func (h *FAQHandler) List(c *gin.Context) {
	propertyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	hostID := c.GetUint(middleware.ContextHostIDKey)
	faqs, err := h.faqService.ListByProperty(hostID, propertyID)
	if err != nil {
		respondOwnershipError(c, err, "获取 FAQ 列表失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "成功", "data": faqs})
}

// Update 修改一条 FAQ。
func (h *FAQHandler) Update(c *gin.Context) {
	faqID, ok := parseIDParam(c, "faqId")
	if !ok {
		return
	}

	var input service.FAQInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": err.Error()})
		return
	}

	hostID := c.GetUint(middleware.ContextHostIDKey)
	faq, err := h.faqService.Update(c.Request.Context(), hostID, faqID, input)
	if err != nil {
		respondFAQError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "更新成功", "data": faq})
}

// Delete 删除一条 FAQ。
func (h *FAQHandler) Delete(c *gin.Context) {
	faqID, ok := parseIDParam(c, "faqId")
	if !ok {
		return
	}

	hostID := c.GetUint(middleware.ContextHostIDKey)
	if err := h.faqService.Delete(c.Request.Context(), hostID, faqID); err != nil {
		respondOwnershipError(c, err, "删除 FAQ 失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "删除成功"})
}

// respondFAQError 把 FAQ 写操作的业务错误映射为 HTTP 响应。
func respondFAQError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrQuestionTooLong), errors.Is(err, service.ErrAnswerTooLong):
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": err.Error()})
	case errors.Is(err, service.ErrFAQLimitReached):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"code": http.StatusUnprocessableEntity, "message": "FAQ 数量已达上限"})
	default:
		respondOwnershipError(c, err, "FAQ 操作失败")
	}
}
