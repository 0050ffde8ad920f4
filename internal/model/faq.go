// Package model 定义了与数据库表对应的 Go 结构体。
package model

import "time"

// FAQ 对应于数据库中的 'property_faqs' 表。
// 每条 FAQ 归属于一个房源，问题与答案由房东维护。
type FAQ struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PropertyID uint      `gorm:"index;not null" json:"propertyId"`
	Question   string    `gorm:"type:varchar(60);not null" json:"question"`
	Answer     string    `gorm:"type:varchar(400);not null" json:"answer"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (FAQ) TableName() string {
	return "property_faqs"
}

// FAQEntry 是检索结果中对外暴露的问答对，不携带得分。
type FAQEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
