// Package model 定义了与数据库表对应的 Go 结构体。
package model

import "time"

// RetrievalEvent 对应于数据库中的 'retrieval_events' 表。
// 它持久化 FAQ 检索的诊断记录，由 Kafka 消费端写入。
type RetrievalEvent struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PropertyID    uint      `gorm:"index;not null" json:"propertyId"`
	Query         string    `gorm:"type:varchar(500);not null" json:"query"`
	CorpusSize    int       `gorm:"not null" json:"corpusSize"`
	SelectedCount int       `gorm:"not null" json:"selectedCount"`
	ElapsedMs     int64     `gorm:"not null" json:"elapsedMs"`
	TopScores     string    `gorm:"type:text" json:"topScores"` // JSON 编码的 [{question, score}]
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (RetrievalEvent) TableName() string {
	return "retrieval_events"
}
