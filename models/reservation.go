package models

import "time"

// 預約狀態
const (
	ReservationStatusPending   = "pending"
	ReservationStatusConfirmed = "confirmed"
	ReservationStatusCancelled = "cancelled"
	ReservationStatusUsed      = "used"
)

// 預約業務常數
const (
	MaxActiveReservationsPerMember = 2 // 每位客戶同時最多持有的 pending + confirmed 預約數
	MaxReservationDays             = 3 // 單筆預約最長天數
)

// Reservation 預約表：客戶對單一車位在未來時間窗的預訂
type Reservation struct {
	ReservationID int       `json:"reservation_id" gorm:"primaryKey;autoIncrement"`
	MemberID      int       `json:"member_id" gorm:"index;not null;type:INT" binding:"required,gt=0"`
	VehicleID     int       `json:"vehicle_id" gorm:"index;not null;type:INT" binding:"required,gt=0"`
	SpaceID       int       `json:"space_id" gorm:"index;not null;type:INT" binding:"required,gt=0"`
	CreatedAt     time.Time `json:"created_at" gorm:"type:datetime;not null"` // 建立預約的時間
	StartTime     time.Time `json:"start_time" gorm:"type:datetime;not null"` // 時間窗起點（含）
	EndTime       time.Time `json:"end_time" gorm:"type:datetime;not null"`   // 時間窗終點（不含）
	Status        string    `json:"status" gorm:"type:varchar(20);not null;index"`
	Notes         string    `json:"notes" gorm:"type:varchar(500)"`
	Member        Member    `json:"-" gorm:"foreignKey:MemberID;references:MemberID"`
	Vehicle       Vehicle   `json:"-" gorm:"foreignKey:VehicleID;references:VehicleID"`
	Space         Space     `json:"-" gorm:"foreignKey:SpaceID;references:SpaceID"`
}

func (Reservation) TableName() string {
	return "reservation"
}

// IsPending 預約是否待審核
func (r *Reservation) IsPending() bool {
	return r.Status == ReservationStatusPending
}

// IsConfirmed 預約是否已確認
func (r *Reservation) IsConfirmed() bool {
	return r.Status == ReservationStatusConfirmed
}

// Covers 時間窗是否涵蓋指定時刻（半開區間 [start, end)）
func (r *Reservation) Covers(t time.Time) bool {
	return !t.Before(r.StartTime) && t.Before(r.EndTime)
}

// Confirm 確認預約
func (r *Reservation) Confirm() {
	r.Status = ReservationStatusConfirmed
}

// Cancel 取消預約並記下原因
func (r *Reservation) Cancel(reason string) {
	r.Status = ReservationStatusCancelled
	r.AppendNote("Cancelled: " + reason)
}

// MarkUsed 預約已被對應的進場使用
func (r *Reservation) MarkUsed() {
	r.Status = ReservationStatusUsed
}

// AppendNote 追加備註，永不覆寫
func (r *Reservation) AppendNote(note string) {
	if note == "" {
		return
	}
	if r.Notes != "" {
		r.Notes = r.Notes + " | " + note
	} else {
		r.Notes = note
	}
}

type ReservationResponse struct {
	ReservationID int       `json:"reservation_id"`
	MemberID      int       `json:"member_id"`
	MemberName    string    `json:"member_name"`
	VehicleID     int       `json:"vehicle_id"`
	LicensePlate  string    `json:"license_plate"`
	SpaceID       int       `json:"space_id"`
	SpaceNumber   string    `json:"space_number"`
	CreatedAt     time.Time `json:"created_at"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Status        string    `json:"status"`
	Notes         string    `json:"notes"`
}

func (r *Reservation) ToResponse() ReservationResponse {
	return ReservationResponse{
		ReservationID: r.ReservationID,
		MemberID:      r.MemberID,
		MemberName:    r.Member.Name,
		VehicleID:     r.VehicleID,
		LicensePlate:  r.Vehicle.LicensePlate,
		SpaceID:       r.SpaceID,
		SpaceNumber:   r.Space.Number,
		CreatedAt:     r.CreatedAt,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		Status:        r.Status,
		Notes:         r.Notes,
	}
}
