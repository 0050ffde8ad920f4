// Package repository 定义了与数据库进行数据交换的接口和实现。
package repository

import (
	"github.com/nichestudioai/aibnb-superhost/internal/model"
	"gorm.io/gorm"
)

// HostRepository 接口定义了房东数据的持久化操作。
type HostRepository interface {
	Create(host *model.Host) error
	FindByEmail(email string) (*model.Host, error)
	FindByID(hostID uint) (*model.Host, error)
	Update(host *model.Host) error
}

// hostRepository 是 HostRepository 接口的 GORM 实现。
type hostRepository struct {
	db *gorm.DB
}

// NewHostRepository 创建一个新的 HostRepository 实例。
func NewHostRepository(db *gorm.DB) HostRepository {
	return &hostRepository{db: db}
}

// Create 在数据库中创建一个新的房东记录。
func (r *hostRepository) Create(host *model.Host) error {
	return r.db.Create(host).Error
}

// FindByEmail 根据邮箱从数据库中查找一个房东。
func (r *hostRepository) FindByEmail(email string) (*model.Host, error) {
	var host model.Host
	err := r.db.Where("email = ?", email).First(&host).Error
	if err != nil {
		return nil, err
	}
	return &host, nil
}

// FindByID 根据 ID 从数据库中查找一个房东。
func (r *hostRepository) FindByID(hostID uint) (*model.Host, error) {
	var host model.Host
	err := r.db.First(&host, hostID).Error
	if err != nil {
		return nil, err
	}
	return &host, nil
}

// Update 更新数据库中一个已存在的房东记录。
func (r *hostRepository) Update(host *model.Host) error {
	return r.db.Save(host).Error
}
