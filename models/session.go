package models

import (
	"fmt"
	"math"
	"time"
)

// 停車紀錄狀態
const (
	SessionStatusActive    = "active"
	SessionStatusFinished  = "finished"
	SessionStatusCancelled = "cancelled"
)

// ParkingSession 停車紀錄表：一台車在一個車位從進場到出場的完整紀錄。
// 紀錄永不刪除，finished/cancelled 為永久歷史。
type ParkingSession struct {
	SessionID    int        `json:"session_id" gorm:"primaryKey;autoIncrement"`
	VehicleID    int        `json:"vehicle_id" gorm:"index;not null;type:INT" binding:"required,gt=0"`
	SpaceID      int        `json:"space_id" gorm:"index;not null;type:INT" binding:"required,gt=0"`
	EntryGuardID int        `json:"entry_guard_id" gorm:"not null;type:INT"`                // 登記進場的警衛
	ExitGuardID  *int       `json:"exit_guard_id" gorm:"type:INT;default:null"`             // 登記出場的警衛，出場前為空
	EntryTime    time.Time  `json:"entry_time" gorm:"type:datetime;not null"`               // 進場時間
	ExitTime     *time.Time `json:"exit_time" gorm:"type:datetime;default:null"`            // 出場時間，出場前為空
	Status       string     `json:"status" gorm:"type:varchar(20);not null;index"`
	TotalHours   *float64   `json:"total_hours" gorm:"type:decimal(10,4);default:null"`     // 實際停放小時數（含小數）
	TotalAmount  *float64   `json:"total_amount" gorm:"type:decimal(10,2);default:null"`    // 應付金額
	Notes        string     `json:"notes" gorm:"type:varchar(500)"`                         // 僅追加的備註稽核欄位
	Vehicle      Vehicle    `json:"-" gorm:"foreignKey:VehicleID;references:VehicleID"`
	Space        Space      `json:"-" gorm:"foreignKey:SpaceID;references:SpaceID"`
}

func (ParkingSession) TableName() string {
	return "parking_session"
}

// IsActive 紀錄是否仍在進行中
func (s *ParkingSession) IsActive() bool {
	return s.Status == SessionStatusActive
}

// AppendNote 追加備註，永不覆寫既有內容
func (s *ParkingSession) AppendNote(note string) {
	if note == "" {
		return
	}
	if s.Notes != "" {
		s.Notes = s.Notes + " | " + note
	} else {
		s.Notes = note
	}
}

// Finish 結束紀錄：寫入出場時間與警衛，計算小時數和費用（不滿一小時以一小時計）
func (s *ParkingSession) Finish(exitGuardID int, exitTime time.Time, hourlyRate float64, exitNotes string) {
	s.ExitGuardID = &exitGuardID
	s.ExitTime = &exitTime
	s.Status = SessionStatusFinished

	minutes := exitTime.Sub(s.EntryTime).Minutes()
	hours := minutes / 60.0
	amount := math.Ceil(hours) * hourlyRate
	s.TotalHours = &hours
	s.TotalAmount = &amount

	if exitNotes != "" {
		s.AppendNote("Exit: " + exitNotes)
	}
}

// MoveTo 將紀錄改指到新車位，並在稽核欄位記下搬移原因
func (s *ParkingSession) MoveTo(oldNumber, newNumber string, newSpaceID int, reason string) {
	s.AppendNote(fmt.Sprintf("Moved from %s to %s: %s", oldNumber, newNumber, reason))
	s.SpaceID = newSpaceID
}

type SessionResponse struct {
	SessionID    int        `json:"session_id"`
	VehicleID    int        `json:"vehicle_id"`
	LicensePlate string     `json:"license_plate"`
	SpaceID      int        `json:"space_id"`
	SpaceNumber  string     `json:"space_number"`
	EntryGuardID int        `json:"entry_guard_id"`
	ExitGuardID  *int       `json:"exit_guard_id"`
	EntryTime    time.Time  `json:"entry_time"`
	ExitTime     *time.Time `json:"exit_time"`
	Status       string     `json:"status"`
	TotalHours   *float64   `json:"total_hours"`
	TotalAmount  *float64   `json:"total_amount"`
	Notes        string     `json:"notes"`
}

func (s *ParkingSession) ToResponse() SessionResponse {
	return SessionResponse{
		SessionID:    s.SessionID,
		VehicleID:    s.VehicleID,
		LicensePlate: s.Vehicle.LicensePlate,
		SpaceID:      s.SpaceID,
		SpaceNumber:  s.Space.Number,
		EntryGuardID: s.EntryGuardID,
		ExitGuardID:  s.ExitGuardID,
		EntryTime:    s.EntryTime,
		ExitTime:     s.ExitTime,
		Status:       s.Status,
		TotalHours:   s.TotalHours,
		TotalAmount:  s.TotalAmount,
		Notes:        s.Notes,
	}
}
