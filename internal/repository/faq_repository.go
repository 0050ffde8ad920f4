// Package repository 提供了数据访问层的实现。
package repository

import (
	"github.com/nichestudioai/aibnb-superhost/internal/model"
	"gorm.io/gorm"
)

// FAQRepository 定义了 FAQ 数据的持久化操作。
type FAQRepository interface {
	Create(faq *model.FAQ) error
	Update(faq *model.FAQ) error
	Delete(faqID uint) error
	FindByID(faqID uint) (*model.FAQ, error)
	// FindByProperty 按创建顺序返回房源的全部 FAQ，
	// 检索的排序稳定性依赖这个顺序。
	FindByProperty(propertyID uint) ([]model.FAQ, error)
	CountByProperty(propertyID uint) (int64, error)
}

// faqRepository 是 FAQRepository 接口的 GORM 实现。
type faqRepository struct {
	db *gorm.DB
}

// NewFAQRepository 创建一个新的 FAQRepository 实例。
func NewFAQRepository(db *gorm.DB) FAQRepository {
	return &faqRepository{db: db}
}

// Create 在数据库中创建一条新的 FAQ 记录。
func (r *faqRepository) Create(faq *model.FAQ) error {
	return r.db.Create(faq).Error
}

// Update 更新数据库中一条已存在的 FAQ 记录。
func (r *faqRepository) Update(faq *model.FAQ) error {
	return r.db.Save(faq).Error
}

// Delete 删除指定的 FAQ 记录。
func (r *faqRepository) Delete(faqID uint) error {
	return r.db.Delete(&model.FAQ{}, faqID).Error
}

// FindByID 根据 ID 查找一条 FAQ。
func (r *faqRepository) FindByID(faqID uint) (*model.FAQ, error) {
	var faq model.FAQ
	err := r.db.First(&faq, faqID).Error
	if err != nil {
		return nil, err
	}
	return &faq, nil
}

// FindByProperty 按创建顺序返回某个房源的全部 FAQ。
func (r *faqRepository) FindByProperty(propertyID uint) ([]model.FAQ, error) {
	var faqs []model.FAQ
	err := r.db.Where("property_id = ?", propertyID).Order("id ASC").Find(&faqs).Error
	return faqs, err
}

// CountByProperty 统计某个房源当前的 FAQ 数量。
func (r *faqRepository) CountByProperty(propertyID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.FAQ{}).Where("property_id = ?", propertyID).Count(&count).Error
	return count, err
}
