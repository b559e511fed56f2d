package resource

import "time"

// Resource is a unit of bookable studio equipment (wheels, kiln slots,
// handbuilding tables). Quantity is the number of identical units that can
// be in use at the same instant.
type Resource struct {
	ID        int64     `gorm:"column:id;primaryKey" json:"id"`
	StudioID  int64     `gorm:"column:studio_id;index" json:"studio_id"`
	Name      string    `gorm:"column:name" json:"name"`
	Quantity  int       `gorm:"column:quantity" json:"quantity"`
	IsActive  bool      `gorm:"column:is_active;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Resource) TableName() string { return "resources" }
