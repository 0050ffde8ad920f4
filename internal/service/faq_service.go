// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"
	"unicode/utf8"

	"github.com/go-redis/redis/v8"
	"github.com/nichestudioai/aibnb-superhost/internal/model"
	"github.com/nichestudioai/aibnb-superhost/internal/repository"
	"github.com/nichestudioai/aibnb-superhost/pkg/log"
)

// FAQ 的内容约束，与前端表单保持一致。
const (
	maxQuestionLen     = 60
	maxAnswerLen       = 400
	maxFAQsPerProperty = 100
)

// FAQInput 是创建/更新 FAQ 时的输入字段。
type FAQInput struct {
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
}

// FAQService 定义了 FAQ 管理的业务操作。
// 所有写操作都要求调用者拥有目标房源，并同步失效检索语料缓存。
type FAQService interface {
	Create(ctx context.Context, hostID, propertyID uint, input FAQInput) (*model.FAQ, error)
	Update(ctx context.Context, hostID, faqID uint, input FAQInput) (*model.FAQ, error)
	Delete(ctx context.Context, hostID, faqID uint) error
	ListByProperty(hostID, propertyID uint) ([]model.FAQ, error)
}

type faqService struct {
	faqRepo      repository.FAQRepository
	propertyRepo repository.PropertyRepository
	rdb          *redis.Client
}

// NewFAQService 创建一个新的 FAQService 实例。rdb 可以为 nil。
func NewFAQService(faqRepo repository.FAQRepository, propertyRepo repository.PropertyRepository, rdb *redis.Client) FAQService {
	return &faqService{faqRepo: faqRepo, propertyRepo: propertyRepo, rdb: rdb}
}

// Create 为房源新增一条 FAQ，校验长度限制和数量上限。
func (s *faqService) Create(ctx context.Context, hostID, propertyID uint, input FAQInput) (*model.FAQ, error) {
	if err := s.checkOwnership(hostID, propertyID); err != nil {
		return nil, err
	}
	if err := validateFAQInput(input); err != nil {
		return nil, err
	}

	count, err := s.faqRepo.CountByProperty(propertyID)
	if err != nil {
		return nil, err
	}
	if count >= maxFAQsPerProperty {
		return nil, ErrFAQLimitReached
	}

	faq := &model.FAQ{
		PropertyID: propertyID,
		Question:   input.Question,
		Answer:     input.Answer,
	}
	if err := s.faqRepo.Create(faq); err != nil {
		return nil, err
	}
	s.invalidateCorpusCache(ctx, propertyID)
	return faq, nil
}

// Update 修改一条已存在的 FAQ。
func (s *faqService) Update(ctx context.Context, hostID, faqID uint, input FAQInput) (*model.FAQ, error) {
	faq, err := s.findOwned(hostID, faqID)
	if err != nil {
		return nil, err
	}
	if err := validateFAQInput(input); err != nil {
		return nil, err
	}

	faq.Question = input.Question
	faq.Answer = input.Answer
	if err := s.faqRepo.Update(faq); err != nil {
		return nil, err
	}
	s.invalidateCorpusCache(ctx, faq.PropertyID)
	return faq, nil
}

// Delete 删除一条 FAQ。
func (s *faqService) Delete(ctx context.Context, hostID, faqID uint) error {
	faq, err := s.findOwned(hostID, faqID)
	if err != nil {
		return err
	}
	if err := s.faqRepo.Delete(faqID); err != nil {
		return err
	}
	s.invalidateCorpusCache(ctx, faq.PropertyID)
	return nil
}

// ListByProperty 返回房源的全部 FAQ，按创建顺序。
func (s *faqService) ListByProperty(hostID, propertyID uint) ([]model.FAQ, error) {
	if err := s.checkOwnership(hostID, propertyID); err != nil {
		return nil, err
	}
	return s.faqRepo.FindByProperty(propertyID)
}

// findOwned 查找 FAQ 并校验其所属房源归当前房东所有。
func (s *faqService) findOwned(hostID, faqID uint) (*model.FAQ, error) {
	faq, err := s.faqRepo.FindByID(faqID)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwnership(hostID, faq.PropertyID); err != nil {
		return nil, err
	}
	return faq, nil
}

func (s *faqService) checkOwnership(hostID, propertyID uint) error {
	property, err := s.propertyRepo.FindByID(propertyID)
	if err != nil {
		return err
	}
	if property.HostID != hostID {
		return ErrNotOwner
	}
	return nil
}

// invalidateCorpusCache 删除检索语料缓存，让下一次检索读到最新 FAQ。
// 删除失败只记录日志，缓存会在 TTL 到期后自行收敛。
func (s *faqService) invalidateCorpusCache(ctx context.Context, propertyID uint) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, faqCorpusCacheKey(propertyID)).Err(); err != nil {
		log.Warnf("FAQ cache invalidation failed for property %d: %v", propertyID, err)
	}
}

// validateFAQInput 校验 FAQ 内容的长度限制。
func validateFAQInput(input FAQInput) error {
	if utf8.RuneCountInString(input.Question) > maxQuestionLen {
		return ErrQuestionTooLong
	}
	if utf8.RuneCountInString(input.Answer) > maxAnswerLen {
		return ErrAnswerTooLong
	}
	return nil
}
