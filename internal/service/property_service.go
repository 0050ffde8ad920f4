// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/nichestudioai/aibnb-superhost/internal/config"
	"github.com/nichestudioai/aibnb-superhost/internal/model"
	"github.com/nichestudioai/aibnb-superhost/internal/repository"
	"github.com/nichestudioai/aibnb-superhost/pkg/storage"
)

// photoURLExpiry 是房源照片预签名链接的有效期。
const photoURLExpiry = 24 * time.Hour

// PropertyInput 是创建/更新房源时的输入字段。
type PropertyInput struct {
	Title               string `json:"title" binding:"required"`
	Description         string `json:"description"`
	Subdomain           string `json:"subdomain" binding:"required"`
	ListingURL          string `json:"listingUrl"`
	Platform            string `json:"platform"`
	CheckInInstructions string `json:"checkInInstructions"`
	HouseRules          string `json:"houseRules"`
	ChatbotEnabled      *bool  `json:"chatbotEnabled"`
}

// PhotoView 是对外返回的照片信息，URL 为预签名链接。
type PhotoView struct {
	ID          uint   `json:"id"`
	URL         string `json:"url"`
	ContentType string `json:"contentType"`
}

// PropertyService 定义了房源管理的业务操作。
// 除 GetBySubdomain 外的操作都要求调用者是房源的所有者。
type PropertyService interface {
	Create(hostID uint, input PropertyInput) (*model.Property, error)
	Update(hostID, propertyID uint, input PropertyInput) (*model.Property, error)
	Delete(hostID, propertyID uint) error
	GetOwned(hostID, propertyID uint) (*model.Property, error)
	ListByHost(hostID uint) ([]model.Property, error)
	// GetBySubdomain 是访客侧的房源入口，不做所有权校验。
	GetBySubdomain(subdomain string) (*model.Property, error)
	UploadPhoto(ctx context.Context, hostID, propertyID uint, reader io.Reader, size int64, filename, contentType string) (*model.PropertyPhoto, error)
	ListPhotos(hostID, propertyID uint) ([]PhotoView, error)
	// ListRetrievalEvents 返回房源最近的检索诊断记录，用于房东侧分析。
	ListRetrievalEvents(hostID, propertyID uint, limit int) ([]model.RetrievalEvent, error)
}

type propertyService struct {
	propertyRepo repository.PropertyRepository
	eventRepo    repository.RetrievalEventRepository
}

// NewPropertyService 创建一个新的 PropertyService 实例。
func NewPropertyService(propertyRepo repository.PropertyRepository, eventRepo repository.RetrievalEventRepository) PropertyService {
	return &propertyService{propertyRepo: propertyRepo, eventRepo: eventRepo}
}

// Create 为房东创建一个新房源。
func (s *propertyService) Create(hostID uint, input PropertyInput) (*model.Property, error) {
	property := &model.Property{
		HostID:              hostID,
		Title:               input.Title,
		Description:         input.Description,
		Subdomain:           input.Subdomain,
		ListingURL:          input.ListingURL,
		Platform:            input.Platform,
		CheckInInstructions: input.CheckInInstructions,
		HouseRules:          input.HouseRules,
		ChatbotEnabled:      true,
	}
	if input.ChatbotEnabled != nil {
		property.ChatbotEnabled = *input.ChatbotEnabled
	}
	if err := s.propertyRepo.Create(property); err != nil {
		return nil, err
	}
	return property, nil
}

// Update 更新房东名下的房源。
func (s *propertyService) Update(hostID, propertyID uint, input PropertyInput) (*model.Property, error) {
	property, err := s.GetOwned(hostID, propertyID)
	if err != nil {
		return nil, err
	}

	property.Title = input.Title
	property.Description = input.Description
	property.Subdomain = input.Subdomain
	property.ListingURL = input.ListingURL
	property.Platform = input.Platform
	property.CheckInInstructions = input.CheckInInstructions
	property.HouseRules = input.HouseRules
	if input.ChatbotEnabled != nil {
		property.ChatbotEnabled = *input.ChatbotEnabled
	}

	if err := s.propertyRepo.Update(property); err != nil {
		return nil, err
	}
	return property, nil
}

// Delete 删除房东名下的房源。
func (s *propertyService) Delete(hostID, propertyID uint) error {
	if _, err := s.GetOwned(hostID, propertyID); err != nil {
		return err
	}
	return s.propertyRepo.Delete(propertyID)
}

// GetOwned 查找房源并校验所有权。
func (s *propertyService) GetOwned(hostID, propertyID uint) (*model.Property, error) {
	property, err := s.propertyRepo.FindByID(propertyID)
	if err != nil {
		return nil, err
	}
	if property.HostID != hostID {
		return nil, ErrNotOwner
	}
	return property, nil
}

// ListByHost 返回房东名下的全部房源。
func (s *propertyService) ListByHost(hostID uint) ([]model.Property, error) {
	return s.propertyRepo.FindByHost(hostID)
}

// GetBySubdomain 根据子域名查找房源。
func (s *propertyService) GetBySubdomain(subdomain string) (*model.Property, error) {
	return s.propertyRepo.FindBySubdomain(subdomain)
}

// UploadPhoto 将照片写入对象存储并记录到数据库。
// 对象名带随机前缀，避免不同照片的文件名冲突。
func (s *propertyService) UploadPhoto(ctx context.Context, hostID, propertyID uint, reader io.Reader, size int64, filename, contentType string) (*model.PropertyPhoto, error) {
	if _, err := s.GetOwned(hostID, propertyID); err != nil {
		return nil, err
	}

	objectName := fmt.Sprintf("properties/%d/%s%s", propertyID, uuid.NewString(), path.Ext(filename))
	bucket := config.Conf.MinIO.BucketName
	if err := storage.PutObject(ctx, bucket, objectName, reader, size, contentType); err != nil {
		return nil, fmt.Errorf("upload photo object: %w", err)
	}

	photo := &model.PropertyPhoto{
		PropertyID:  propertyID,
		ObjectName:  objectName,
		ContentType: contentType,
	}
	if err := s.propertyRepo.CreatePhoto(photo); err != nil {
		return nil, fmt.Errorf("record photo: %w", err)
	}
	return photo, nil
}

// ListPhotos 返回房源照片的预签名访问链接。
func (s *propertyService) ListPhotos(hostID, propertyID uint) ([]PhotoView, error) {
	if _, err := s.GetOwned(hostID, propertyID); err != nil {
		return nil, err
	}

	photos, err := s.propertyRepo.FindPhotos(propertyID)
	if err != nil {
		return nil, err
	}

	bucket := config.Conf.MinIO.BucketName
	views := make([]PhotoView, 0, len(photos))
	for _, photo := range photos {
		url, err := storage.GetPresignedURL(bucket, photo.ObjectName, photoURLExpiry)
		if err != nil {
			return nil, fmt.Errorf("presign photo %d: %w", photo.ID, err)
		}
		views = append(views, PhotoView{ID: photo.ID, URL: url, ContentType: photo.ContentType})
	}
	return views, nil
}

// ListRetrievalEvents 返回房源最近的检索诊断记录。
func (s *propertyService) ListRetrievalEvents(hostID, propertyID uint, limit int) ([]model.RetrievalEvent, error) {
	if _, err := s.GetOwned(hostID, propertyID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.eventRepo.FindRecentByProperty(propertyID, limit)
}
