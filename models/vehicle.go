package models

import "time"

// Vehicle 車輛表：支援一人多車，車牌全系統唯一
type Vehicle struct {
	VehicleID    int    `json:"vehicle_id" gorm:"primaryKey;autoIncrement"`
	LicensePlate string `json:"license_plate" gorm:"uniqueIndex;size:20;column:license_plate;not null" binding:"required,max=20"`
	MemberID     int    `json:"member_id" gorm:"column:member_id;index:idx_member;not null"`
	Brand        string `json:"brand,omitempty" gorm:"size:50;column:brand"`
	Model        string `json:"model,omitempty" gorm:"size:50;column:model"`
	Color        string `json:"color,omitempty" gorm:"size:20;column:color"`

	// 關聯：這台車屬於哪個會員（可選 Preload）
	Member Member `json:"-" gorm:"foreignKey:MemberID;references:MemberID"`

	// 時間欄位（GORM 自動管理）
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (Vehicle) TableName() string {
	return "vehicle"
}

// 給前端用的回應結構
type VehicleResponse struct {
	VehicleID    int    `json:"vehicle_id"`
	LicensePlate string `json:"license_plate"`
	MemberID     int    `json:"member_id"`
	Brand        string `json:"brand,omitempty"`
	Model        string `json:"model,omitempty"`
	Color        string `json:"color,omitempty"`
	CreatedAt    string `json:"created_at"`
}

func (v *Vehicle) ToResponse() VehicleResponse {
	return VehicleResponse{
		VehicleID:    v.VehicleID,
		LicensePlate: v.LicensePlate,
		MemberID:     v.MemberID,
		Brand:        v.Brand,
		Model:        v.Model,
		Color:        v.Color,
		CreatedAt:    v.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
