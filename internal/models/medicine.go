package models

// Medicine represents a catalog entry. MRP is the unit price used for
// server-side pricing at order time.
type Medicine struct {
	ID           uint    `json:"id" gorm:"primaryKey"`
	MedicineName string  `json:"medicine_name" gorm:"type:varchar(255);index" validate:"required,max=255"`
	Brand        string  `json:"brand" gorm:"type:varchar(255);index" validate:"omitempty,max=255"`
	MRP          float64 `json:"mrp" gorm:"column:mrp" validate:"required,gt=0"`
	PackSize     string  `json:"pack_size" gorm:"type:varchar(100)"`
	Composition  string  `json:"composition" gorm:"type:varchar(500)"`
	Category     string  `json:"category" gorm:"type:varchar(100);index"`
	Popularity   int     `json:"popularity"`
}
