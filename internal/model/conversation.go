// Package model 包含了应用的数据模型定义。
package model

import "time"

// 会话状态取值。
const (
	ConversationStatusActive = "active"
	ConversationStatusClosed = "closed"
)

// 消息角色取值。
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Conversation 对应于数据库中的 'chat_conversations' 表。
// 同一 (property_id, guest_id) 在任意时刻至多存在一条 active 会话。
// MySQL 不支持部分索引，因此唯一性通过可空的 ActiveFlag 列参与
// 复合唯一索引实现：active 时为 true，关闭后置为 NULL，
// 多条 NULL 不冲突，从而允许任意数量的历史会话共存。
type Conversation struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PropertyID uint      `gorm:"uniqueIndex:ux_conv_active;not null" json:"propertyId"`
	GuestID    string    `gorm:"type:varchar(64);uniqueIndex:ux_conv_active;not null" json:"guestId"`
	Status     string    `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	ActiveFlag *bool     `gorm:"uniqueIndex:ux_conv_active" json:"-"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (Conversation) TableName() string {
	return "chat_conversations"
}

// ChatMessage 对应于数据库中的 'chat_messages' 表。
// 消息只追加，不修改、不删除，按创建时间构成会话内的顺序。
type ChatMessage struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ConversationID uint      `gorm:"index;not null" json:"conversationId"`
	Role           string    `gorm:"type:varchar(20);not null" json:"role"` // "user" 或 "assistant"
	Content        string    `gorm:"type:text;not null" json:"content"`
	Type           string    `gorm:"type:varchar(20);not null;default:'text'" json:"type"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (ChatMessage) TableName() string {
	return "chat_messages"
}
