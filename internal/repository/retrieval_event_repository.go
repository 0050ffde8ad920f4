// Package repository 提供了数据访问层的实现。
package repository

import (
	"github.com/nichestudioai/aibnb-superhost/internal/model"
	"gorm.io/gorm"
)

// RetrievalEventRepository 定义了检索诊断记录的持久化操作。
type RetrievalEventRepository interface {
	Create(event *model.RetrievalEvent) error
	FindRecentByProperty(propertyID uint, limit int) ([]model.RetrievalEvent, error)
}

// retrievalEventRepository 是 RetrievalEventRepository 接口的 GORM 实现。
type retrievalEventRepository struct {
	db *gorm.DB
}

// NewRetrievalEventRepository 创建一个新的 RetrievalEventRepository 实例。
func NewRetrievalEventRepository(db *gorm.DB) RetrievalEventRepository {
	return &retrievalEventRepository{db: db}
}

// Create 写入一条检索诊断记录。
func (r *retrievalEventRepository) Create(event *model.RetrievalEvent) error {
	return r.db.Create(event).Error
}

// FindRecentByProperty 返回某个房源最近的若干条诊断记录。
func (r *retrievalEventRepository) FindRecentByProperty(propertyID uint, limit int) ([]model.RetrievalEvent, error) {
	var events []model.RetrievalEvent
	err := r.db.Where("property_id = ?", propertyID).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}
