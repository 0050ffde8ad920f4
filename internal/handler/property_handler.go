// Package handler 包含了处理 HTTP 请求的 Gin handler。
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nichestudioai/aibnb-superhost/internal/middleware"
	"github.com/nichestudioai/aibnb-superhost/internal/service"
	"gorm.io/gorm"
)

// PropertyHandler 处理房源管理相关的 HTTP 请求。
type PropertyHandler struct {
	propertyService service.PropertyService
}

// NewPropertyHandler 创建一个新的 PropertyHandler 实例。
func NewPropertyHandler(propertyService service.PropertyService) *PropertyHandler {
	return &PropertyHandler{propertyService: propertyService}
}

// Create 创建一个新房源。
func (h *PropertyHandler) Create(c *gin.Context) {
	var input service.PropertyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": err.Error()})
		return
	}

	hostID := c.GetUint(middleware.ContextHostIDKey)
	property, err := h.propertyService.Create(hostID, input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "创建房源失败"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"code": http.StatusCreated, "message": "创建成功", "data": property})
}

// List 返回当前房东的全部房源。
func (h *PropertyHandler) List(c *gin.Context) {
	hostID := c.GetUint(middleware.ContextHostIDKey)
	properties, err := h.propertyService.ListByHost(hostID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "获取房源列表失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "成功", "data": properties})
}

// Get 返回当前房东的指定房源。
func (h *PropertyHandler) Get(c *gin.Context) {
	propertyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	hostID := c.GetUint(middleware.ContextHostIDKey)
	property, err := h.propertyService.GetOwned(hostID, propertyID)
	if err != nil {
		respondOwnershipError(c, err, "获取房源失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "成功", "data": property})
}

// Update 更新当前房东的指定房源。
func (h *PropertyHandler) Update(c *gin.Context) {
	propertyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input service.PropertyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": err.Error()})
		return
	}

	hostID := c.GetUint(middleware.ContextHostIDKey)
	property, err := h.propertyService.Update(hostID, propertyID, input)
	if err != nil {
		respondOwnershipError(c, err, "更新房源失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "更新成功", "data": property})
}

// Delete 删除当前房东的指定房源。
func (h *PropertyHandler) Delete(c *gin.Context) {
	propertyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	hostID := c.GetUint(middleware.ContextHostIDKey)
	if err := h.propertyService.Delete(hostID, propertyID); err != nil {
		respondOwnershipError(c, err, "删除房源失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "删除成功"})
}

// GetBySubdomain 是访客侧的房源查询入口，按子域名返回房源页面数据。
func (h *PropertyHandler) GetBySubdomain(c *gin.Context) {
	subdomain := c.Param("subdomain")
	property, err := h.propertyService.GetBySubdomain(subdomain)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": http.StatusNotFound, "message": "房源不存在"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "获取房源失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "成功", "data": property})
}

// UploadPhoto 上传一张房源照片。
func (h *PropertyHandler) UploadPhoto(c *gin.Context) {
	propertyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "缺少 photo 文件"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": "读取上传文件失败"})
		return
	}
	defer file.Close()

	hostID := c.GetUint(middleware.ContextHostIDKey)
	photo, err := h.propertyService.UploadPhoto(c.Request.Context(), hostID, propertyID,
		file, fileHeader.Size, fileHeader.Filename, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		respondOwnershipError(c, err, "上传照片失败")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"code": http.StatusCreated, "message": "上传成功", "data": photo})
}

// ListPhotos 返回房源照片的预签名访问链接。
func (h *PropertyHandler) ListPhotos(c *gin.Context) {
	propertyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	hostID := c.GetUint(middleware.ContextHostIDKey)
	photos, err := h.propertyService.ListPhotos(hostID, propertyID)
	if err != nil {
		respondOwnershipError(c, err, "获取照片列表失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "成功", "data": photos})
}

// ListRetrievalEvents 返回房源最近的检索诊断记录。
func (h *PropertyHandler) ListRetrievalEvents(c *gin.Context) {
	propertyID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	hostID := c.GetUint(middleware.ContextHostIDKey)
	events, err := h.propertyService.ListRetrievalEvents(hostID, propertyID, limit)
	if err != nil {
		respondOwnershipError(c, err, "获取检索记录失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": http.StatusOK, "message": "成功", "data": events})
}

// parseIDParam 解析路径参数中的数字 ID，失败时直接写出 400 响应。
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "无效的 " + name + " 参数"})
		return 0, false
	}
	return uint(id), true
}

// respondOwnershipError 把资源查找/所有权类错误映射为 HTTP 响应。
func respondOwnershipError(c *gin.Context, err error, fallbackMessage string) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"code": http.StatusNotFound, "message": "资源不存在"})
	case errors.Is(err, service.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"code": http.StatusForbidden, "message": "无权访问该资源"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusInternalServerError, "message": fallbackMessage})
	}
}
