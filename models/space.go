package models

// 車位類型
const (
	SpaceTypeRegular  = "regular"
	SpaceTypeDisabled = "disabled"
	SpaceTypeMoto     = "moto"
	SpaceTypePremium  = "premium"
)

// DefaultHourlyRate 建立車位未指定費率時的預設時薪
const DefaultHourlyRate = 5.00

// 車位狀態
const (
	SpaceStatusAvailable   = "available"
	SpaceStatusOccupied    = "occupied"
	SpaceStatusReserved    = "reserved"
	SpaceStatusMaintenance = "maintenance"
)

// Space 車位表：facility 內固定編號的實體車位
type Space struct {
	SpaceID     int     `json:"space_id" gorm:"primaryKey;autoIncrement"`
	Number      string  `json:"number" gorm:"type:varchar(10);uniqueIndex;not null" binding:"required,max=10"` // A1, A2, B1...
	SpaceType   string  `json:"space_type" gorm:"type:varchar(20);not null" binding:"required,oneof=regular disabled moto premium"`
	Status      string  `json:"status" gorm:"type:varchar(20);not null;default:'available'"`
	HourlyRate  float64 `json:"hourly_rate" gorm:"type:decimal(10,2);not null" binding:"gte=0"`
	Description string  `json:"description" gorm:"type:varchar(255)" binding:"omitempty,max=255"`
}

func (Space) TableName() string {
	return "space"
}

// IsAvailable 車位是否可用
func (s *Space) IsAvailable() bool {
	return s.Status == SpaceStatusAvailable
}

// IsOccupied 車位是否被佔用
func (s *Space) IsOccupied() bool {
	return s.Status == SpaceStatusOccupied
}

// IsReserved 車位是否已被預約
func (s *Space) IsReserved() bool {
	return s.Status == SpaceStatusReserved
}

// IsUnderMaintenance 車位是否維修中
func (s *Space) IsUnderMaintenance() bool {
	return s.Status == SpaceStatusMaintenance
}

type SpaceResponse struct {
	SpaceID     int     `json:"space_id"`
	Number      string  `json:"number"`
	SpaceType   string  `json:"space_type"`
	Status      string  `json:"status"`
	HourlyRate  float64 `json:"hourly_rate"`
	Description string  `json:"description"`
}

func (s *Space) ToResponse() SpaceResponse {
	return SpaceResponse{
		SpaceID:     s.SpaceID,
		Number:      s.Number,
		SpaceType:   s.SpaceType,
		Status:      s.Status,
		HourlyRate:  s.HourlyRate,
		Description: s.Description,
	}
}

// SpaceBoardResponse 營運看板用：車位加上目前停放車輛摘要
type SpaceBoardResponse struct {
	SpaceID     int     `json:"space_id"`
	Number      string  `json:"number"`
	SpaceType   string  `json:"space_type"`
	Status      string  `json:"status"`
	HourlyRate  float64 `json:"hourly_rate"`
	Description string  `json:"description"`

	// 僅在車位被佔用時填入
	SessionID    *int    `json:"session_id,omitempty"`
	LicensePlate *string `json:"license_plate,omitempty"`
	OwnerName    *string `json:"owner_name,omitempty"`
	VehicleBrand *string `json:"vehicle_brand,omitempty"`
}
