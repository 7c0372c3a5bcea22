package models

// Category groups products by name. Names are globally unique; categories are
// soft deleted and auto-created when a product references an unknown name.
type Category struct {
	BaseModel
	Name     string `gorm:"uniqueIndex" json:"name"`
	Image    string `json:"image"`
	IsActive bool   `gorm:"default:true" json:"is_active"`
}
