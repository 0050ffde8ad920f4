// Package repository 提供了数据访问层的实现。
package repository

import (
	"github.com/nichestudioai/aibnb-superhost/internal/model"
	"gorm.io/gorm"
)

// PropertyRepository 定义了房源数据的持久化操作。
type PropertyRepository interface {
	Create(property *model.Property) error
	Update(property *model.Property) error
	Delete(propertyID uint) error
	FindByID(propertyID uint) (*model.Property, error)
	FindBySubdomain(subdomain string) (*model.Property, error)
	FindByHost(hostID uint) ([]model.Property, error)
	CreatePhoto(photo *model.PropertyPhoto) error
	FindPhotos(propertyID uint) ([]model.PropertyPhoto, error)
}

// propertyRepository 是 PropertyRepository 接口的 GORM 实现。
type propertyRepository struct {
	db *gorm.DB
}

// NewPropertyRepository 创建一个新的 PropertyRepository 实例。
func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &propertyRepository{db: db}
}

// Create 在数据库中创建一个新的房源记录。
func (r *propertyRepository) Create(property *model.Property) error {
	return r.db.Create(property).Error
}

// Update 更新数据库中一个已存在的房源记录。
func (r *propertyRepository) Update(property *model.Property) error {
	return r.db.Save(property).Error
}

// Delete 删除指定的房源记录。
func (r *propertyRepository) Delete(propertyID uint) error {
	return r.db.Delete(&model.Property{}, propertyID).Error
}

// FindByID 根据 ID 查找房源。
func (r *propertyRepository) FindByID(propertyID uint) (*model.Property, error) {
	var property model.Property
	err := r.db.First(&property, propertyID).Error
	if err != nil {
		return nil, err
	}
	return &property, nil
}

// FindBySubdomain 根据子域名查找房源，用于访客侧页面和聊天入口。
func (r *propertyRepository) FindBySubdomain(subdomain string) (*model.Property, error) {
	var property model.Property
	err := r.db.Where("subdomain = ?", subdomain).First(&property).Error
	if err != nil {
		return nil, err
	}
	return &property, nil
}

// FindByHost 查找某个房东名下的全部房源。
func (r *propertyRepository) FindByHost(hostID uint) ([]model.Property, error) {
	var properties []model.Property
	err := r.db.Where("host_id = ?", hostID).Order("created_at ASC").Find(&properties).Error
	return properties, err
}

// CreatePhoto 记录一张已上传到对象存储的房源照片。
func (r *propertyRepository) CreatePhoto(photo *model.PropertyPhoto) error {
	return r.db.Create(photo).Error
}

// FindPhotos 查找某个房源的全部照片记录。
func (r *propertyRepository) FindPhotos(propertyID uint) ([]model.PropertyPhoto, error) {
	var photos []model.PropertyPhoto
	err := r.db.Where("property_id = ?", propertyID).Order("created_at ASC").Find(&photos).Error
	return photos, err
}
