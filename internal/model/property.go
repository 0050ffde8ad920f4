// Package model 定义了与数据库表对应的 Go 结构体。
package model

import "time"

// Property 对应于数据库中的 'properties' 表。
// 每个房源通过唯一的子域名对外提供页面和聊天入口。
type Property struct {
	ID                  uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	HostID              uint      `gorm:"index;not null" json:"hostId"`
	Title               string    `gorm:"type:varchar(255);not null" json:"title"`
	Description         string    `gorm:"type:text" json:"description"`
	Subdomain           string    `gorm:"type:varchar(63);uniqueIndex;not null" json:"subdomain"`
	ListingURL          string    `gorm:"type:varchar(500)" json:"listingUrl"`
	Platform            string    `gorm:"type:varchar(50)" json:"platform"`
	CheckInInstructions string    `gorm:"type:text" json:"checkInInstructions"`
	HouseRules          string    `gorm:"type:text" json:"houseRules"`
	ChatbotEnabled      bool      `gorm:"not null;default:true" json:"chatbotEnabled"`
	CreatedAt           time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt           time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (Property) TableName() string {
	return "properties"
}

// PropertyPhoto 对应于数据库中的 'property_photos' 表。
// ObjectName 指向 MinIO 中的对象，外部访问通过预签名 URL。
type PropertyPhoto struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PropertyID  uint      `gorm:"index;not null" json:"propertyId"`
	ObjectName  string    `gorm:"type:varchar(255);not null" json:"objectName"`
	ContentType string    `gorm:"type:varchar(100)" json:"contentType"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (PropertyPhoto) TableName() string {
	return "property_photos"
}
