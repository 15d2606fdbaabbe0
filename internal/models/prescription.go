package models

import "time"

// Prescription records an uploaded prescription file. FilePath points at the
// UUID-keyed copy on disk; FileName keeps the name the user uploaded.
type Prescription struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	OrderID   *uint     `json:"order_id"`
	FileName  string    `json:"file_name" gorm:"type:varchar(255)"`
	FilePath  string    `json:"-" gorm:"type:varchar(500)"`
	FileSize  int64     `json:"file_size"`
	CreatedAt time.Time `json:"created_at"`
}
