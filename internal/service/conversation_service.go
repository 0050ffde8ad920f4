// Package service 包含了应用的业务逻辑层。
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/nichestudioai/aibnb-superhost/internal/model"
	"github.com/nichestudioai/aibnb-superhost/internal/repository"
	"github.com/nichestudioai/aibnb-superhost/pkg/log"
	"gorm.io/gorm"
)

// ConversationService 负责会话的查找/创建与消息的成对追加。
// 不变量：同一 (propertyID, guestID) 至多只有一个 active 会话。
type ConversationService interface {
	// Record 将一轮问答追加到访客的 active 会话中，必要时先创建会话。
	// 任何失败都以 *PersistenceError 返回，调用方仍可把答案送达访客。
	Record(ctx context.Context, propertyID uint, guestID, question, answer string) error
	// History 按追加顺序返回访客 active 会话内的全部消息，
	// 没有 active 会话时返回空列表。
	History(ctx context.Context, propertyID uint, guestID string) ([]model.ChatMessage, error)
	// ListByProperty 返回房东名下某个房源的全部会话，带所有权校验。
	ListByProperty(ctx context.Context, hostID, propertyID uint) ([]model.Conversation, error)
	// Transcript 返回某条会话的完整消息记录，带所有权校验。
	Transcript(ctx context.Context, hostID, propertyID, conversationID uint) ([]model.ChatMessage, error)
}

type conversationService struct {
	convRepo     repository.ConversationRepository
	propertyRepo repository.PropertyRepository
}

// NewConversationService 创建一个新的 ConversationService 实例。
func NewConversationService(convRepo repository.ConversationRepository, propertyRepo repository.PropertyRepository) ConversationService {
	return &conversationService{convRepo: convRepo, propertyRepo: propertyRepo}
}

// Record 追加一轮问答。会话的查找/创建走 find-or-create：
// 并发创建依赖唯一索引兜底，冲突后重新查询收敛到同一条会话。
func (s *conversationService) Record(ctx context.Context, propertyID uint, guestID, question, answer string) error {
	conversation, err := s.findOrCreate(ctx, propertyID, guestID)
	if err != nil {
		return &PersistenceError{Err: err}
	}

	userMsg := &model.ChatMessage{
		ConversationID: conversation.ID,
		Role:           model.RoleUser,
		Content:        question,
	}
	assistantMsg := &model.ChatMessage{
		ConversationID: conversation.ID,
		Role:           model.RoleAssistant,
		Content:        answer,
	}
	if err := s.convRepo.AppendPair(ctx, userMsg, assistantMsg); err != nil {
		return &PersistenceError{Err: fmt.Errorf("append message pair: %w", err)}
	}
	return nil
}

// findOrCreate 返回访客的 active 会话，不存在则创建。
// 发现多条 active 会话时执行自愈：保留最新的一条，关闭其余。
func (s *conversationService) findOrCreate(ctx context.Context, propertyID uint, guestID string) (*model.Conversation, error) {
	conversations, err := s.convRepo.FindActive(ctx, propertyID, guestID)
	if err != nil {
		return nil, fmt.Errorf("find active conversation: %w", err)
	}
	if len(conversations) > 0 {
		return s.reconcile(ctx, conversations)
	}

	activeFlag := true
	conversation := &model.Conversation{
		PropertyID: propertyID,
		GuestID:    guestID,
		Status:     model.ConversationStatusActive,
		ActiveFlag: &activeFlag,
	}
	err = s.convRepo.Create(ctx, conversation)
	if err == nil {
		return conversation, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, fmt.Errorf("create conversation: %w", err)
	}

	// 并发的另一次调用抢先创建了会话，重新查询并收敛到它
	conversations, err = s.convRepo.FindActive(ctx, propertyID, guestID)
	if err != nil {
		return nil, fmt.Errorf("requery after duplicate key: %w", err)
	}
	if len(conversations) == 0 {
		return nil, fmt.Errorf("conversation vanished after duplicate key for property %d guest %s", propertyID, guestID)
	}
	return s.reconcile(ctx, conversations)
}

// reconcile 处理查询到的 active 会话列表。多于一条说明不变量被破坏
// （例如索引失效期间的脏写），保留最新的一条并关闭其余。
func (s *conversationService) reconcile(ctx context.Context, conversations []model.Conversation) (*model.Conversation, error) {
	if len(conversations) > 1 {
		log.Warnf("found %d active conversations for property %d guest %s, closing stale ones",
			len(conversations), conversations[0].PropertyID, conversations[0].GuestID)
		for _, stale := range conversations[1:] {
			if err := s.convRepo.Close(ctx, stale.ID); err != nil {
				return nil, fmt.Errorf("close stale conversation %d: %w", stale.ID, err)
			}
		}
	}
	return &conversations[0], nil
}

// History 返回访客 active 会话的消息记录，供提示词回放历史使用。
func (s *conversationService) History(ctx context.Context, propertyID uint, guestID string) ([]model.ChatMessage, error) {
	conversations, err := s.convRepo.FindActive(ctx, propertyID, guestID)
	if err != nil {
		return nil, err
	}
	if len(conversations) == 0 {
		return []model.ChatMessage{}, nil
	}
	return s.convRepo.FindMessages(ctx, conversations[0].ID)
}

// ListByProperty 返回房源的全部会话。房源必须属于当前房东。
func (s *conversationService) ListByProperty(ctx context.Context, hostID, propertyID uint) ([]model.Conversation, error) {
	if err := s.checkOwnership(hostID, propertyID); err != nil {
		return nil, err
	}
	return s.convRepo.FindByProperty(ctx, propertyID)
}

// Transcript 返回会话的完整消息记录。会话必须属于该房东的房源。
func (s *conversationService) Transcript(ctx context.Context, hostID, propertyID, conversationID uint) ([]model.ChatMessage, error) {
	if err := s.checkOwnership(hostID, propertyID); err != nil {
		return nil, err
	}
	conversations, err := s.convRepo.FindByProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	for _, c := range conversations {
		if c.ID == conversationID {
			return s.convRepo.FindMessages(ctx, conversationID)
		}
	}
	return nil, ErrNotOwner
}

func (s *conversationService) checkOwnership(hostID, propertyID uint) error {
	property, err := s.propertyRepo.FindByID(propertyID)
	if err != nil {
		return err
	}
	if property.HostID != hostID {
		return ErrNotOwner
	}
	return nil
}
