// Package repository 提供了数据访问层的实现。
package repository

import (
	"context"

	"github.com/nichestudioai/aibnb-superhost/internal/model"
	"gorm.io/gorm"
)

// ConversationRepository 定义了会话与消息的持久化操作。
// find-or-create 的竞争处理和完整性自愈逻辑位于 service 层，
// 仓库只负责忠实地暴露存储层的状态（包括异常的多条 active 记录）。
type ConversationRepository interface {
	// FindActive 返回指定 (propertyID, guestID) 的全部 active 会话，
	// 按创建时间降序。正常情况下长度为 0 或 1；大于 1 表示完整性
	// 约束被破坏，由调用方处理。
	FindActive(ctx context.Context, propertyID uint, guestID string) ([]model.Conversation, error)
	Create(ctx context.Context, conversation *model.Conversation) error
	// Close 将会话标记为 closed 并清空 ActiveFlag，释放唯一索引占位。
	Close(ctx context.Context, conversationID uint) error
	// AppendPair 在一个事务中追加 user/assistant 消息对，
	// 不允许出现只写入一半的中间状态。
	AppendPair(ctx context.Context, userMsg, assistantMsg *model.ChatMessage) error
	FindByProperty(ctx context.Context, propertyID uint) ([]model.Conversation, error)
	FindMessages(ctx context.Context, conversationID uint) ([]model.ChatMessage, error)
}

// conversationRepository 是 ConversationRepository 接口的 GORM 实现。
type conversationRepository struct {
	db *gorm.DB
}

// NewConversationRepository 创建一个新的 ConversationRepository 实例。
func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

// FindActive 查找指定会话键下的全部 active 会话。
func (r *conversationRepository) FindActive(ctx context.Context, propertyID uint, guestID string) ([]model.Conversation, error) {
	var conversations []model.Conversation
	err := r.db.WithContext(ctx).
		Where("property_id = ? AND guest_id = ? AND status = ?", propertyID, guestID, model.ConversationStatusActive).
		Order("created_at DESC").
		Find(&conversations).Error
	return conversations, err
}

// Create 创建一条新的会话记录。唯一索引冲突时返回 gorm.ErrDuplicatedKey。
func (r *conversationRepository) Create(ctx context.Context, conversation *model.Conversation) error {
	return r.db.WithContext(ctx).Create(conversation).Error
}

// Close 将会话标记为 closed。
func (r *conversationRepository) Close(ctx context.Context, conversationID uint) error {
	return r.db.WithContext(ctx).Model(&model.Conversation{}).
		Where("id = ?", conversationID).
		Updates(map[string]interface{}{
			"status":      model.ConversationStatusClosed,
			"active_flag": nil,
		}).Error
}

// AppendPair 在一个事务中依次写入 user 和 assistant 消息。
func (r *conversationRepository) AppendPair(ctx context.Context, userMsg, assistantMsg *model.ChatMessage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(userMsg).Error; err != nil {
			return err
		}
		return tx.Create(assistantMsg).Error
	})
}

// FindByProperty 返回某个房源的全部会话，最近的在前。
func (r *conversationRepository) FindByProperty(ctx context.Context, propertyID uint) ([]model.Conversation, error) {
	var conversations []model.Conversation
	err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("created_at DESC").
		Find(&conversations).Error
	return conversations, err
}

// FindMessages 按追加顺序返回会话内的全部消息。
func (r *conversationRepository) FindMessages(ctx context.Context, conversationID uint) ([]model.ChatMessage, error) {
	var messages []model.ChatMessage
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("id ASC").
		Find(&messages).Error
	return messages, err
}
