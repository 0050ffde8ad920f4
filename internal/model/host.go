// Package model 包含了应用的数据模型定义。
package model

import "time"

// Host 对应于数据库中的 'hosts' 表，代表一个房东账户。
type Host struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone     string    `gorm:"type:varchar(30)" json:"phone"`
	Password  string    `gorm:"type:varchar(255);not null" json:"-"`
	City      string    `gorm:"type:varchar(100)" json:"city"`
	State     string    `gorm:"type:varchar(100)" json:"state"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName 指定了此模型在数据库中对应的表名。
func (Host) TableName() string {
	return "hosts"
}
