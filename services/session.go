package services

import (
	"errors"
	"fmt"
	"log"
	"math"
	"parkspot/database"
	"parkspot/models"
	"time"

	"gorm.io/gorm"
)

// CalculateSessionCost 根據進出場時間計算停放小時數與費用，不滿一小時以一小時計。
// 進出場同一時刻費用為 0。
func CalculateSessionCost(entryTime, exitTime time.Time, hourlyRate float64) (float64, float64, error) {
	if exitTime.Before(entryTime) {
		return 0, 0, ValidationError("exit_time %v cannot be earlier than entry_time %v", exitTime, entryTime)
	}
	if hourlyRate < 0 {
		return 0, 0, ValidationError("invalid hourly_rate: %.2f", hourlyRate)
	}

	minutes := exitTime.Sub(entryTime).Minutes()
	hours := minutes / 60.0
	amount := math.Ceil(hours) * hourlyRate
	return hours, amount, nil
}

// RegisterEntry 警衛登記車輛進場。依序檢查：客戶身分、車輛歸屬、
// 車輛沒有其他進行中的紀錄、車位可進入、預約歸屬。
// 進場成功時，覆蓋當下時間窗的本人預約會在同一交易內標為 used。
func RegisterEntry(guardID, clientID, vehicleID, spaceID int, notes string) (*models.ParkingSession, error) {
	var client models.Member
	if err := database.DB.First(&client, clientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("client with ID %d not found", clientID)
		}
		return nil, fmt.Errorf("failed to verify client: %w", err)
	}
	if !client.IsClient() {
		return nil, InvalidOperationError("member %d is not a client", clientID)
	}

	var vehicle models.Vehicle
	if err := database.DB.First(&vehicle, vehicleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("vehicle with ID %d not found", vehicleID)
		}
		return nil, fmt.Errorf("failed to verify vehicle: %w", err)
	}
	if vehicle.MemberID != client.MemberID {
		return nil, InvalidOperationError("vehicle %s does not belong to the selected client", vehicle.LicensePlate)
	}

	// 全系統一台車最多一筆進行中的紀錄。檢查到建立之間必須握著
	// 車輛鎖，否則同一台車在兩個入口同時登記會雙雙通過檢查
	releaseVehicle := lockVehicle(vehicleID)
	defer releaseVehicle()

	var activeSession models.ParkingSession
	err := database.DB.Preload("Space").
		Where("vehicle_id = ? AND status = ?", vehicleID, models.SessionStatusActive).
		First(&activeSession).Error
	if err == nil {
		return nil, InvalidOperationError("vehicle %s is already parked at space %s", vehicle.LicensePlate, activeSession.Space.Number)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check active session for vehicle %d: %w", vehicleID, err)
	}

	release := lockSpace(spaceID)
	defer release()

	var space models.Space
	if err := database.DB.First(&space, spaceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("space with ID %d not found", spaceID)
		}
		return nil, fmt.Errorf("failed to verify space: %w", err)
	}
	if space.IsOccupied() {
		return nil, InvalidOperationError("space %s is occupied", space.Number)
	}
	if space.IsUnderMaintenance() {
		return nil, InvalidOperationError("space %s is under maintenance", space.Number)
	}

	now := time.Now()

	// 預約中的車位：有覆蓋當下的已確認預約時，只放行預約本人。
	// 沒有覆蓋中的預約則視同可進場，交由對帳排程把過期的 reserved 狀態收回。
	var coveringReservation *models.Reservation
	if space.IsReserved() {
		var reservation models.Reservation
		err := database.DB.
			Where("space_id = ? AND status = ? AND start_time <= ? AND end_time > ?",
				spaceID, models.ReservationStatusConfirmed, now, now).
			First(&reservation).Error
		if err == nil {
			if reservation.MemberID != client.MemberID {
				return nil, InvalidOperationError("space %s is reserved by another client", space.Number)
			}
			coveringReservation = &reservation
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check reservation for space %d: %w", spaceID, err)
		}
	}

	session := &models.ParkingSession{
		VehicleID:    vehicleID,
		SpaceID:      spaceID,
		EntryGuardID: guardID,
		EntryTime:    now,
		Status:       models.SessionStatusActive,
	}
	session.AppendNote(notes)

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(session).Error; err != nil {
			return fmt.Errorf("failed to create parking session: %w", err)
		}
		if err := tx.Model(&models.Space{}).Where("space_id = ?", spaceID).
			Update("status", models.SpaceStatusOccupied).Error; err != nil {
			return fmt.Errorf("failed to occupy space %d: %w", spaceID, err)
		}
		if coveringReservation != nil {
			coveringReservation.MarkUsed()
			if err := tx.Save(coveringReservation).Error; err != nil {
				return fmt.Errorf("failed to mark reservation %d as used: %w", coveringReservation.ReservationID, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("Failed to register entry for vehicle %s at space %s: %v", vehicle.LicensePlate, space.Number, err)
		return nil, err
	}

	session.Vehicle = vehicle
	session.Space = space

	log.Printf("Entry registered: client %d, vehicle %s, space %s, session %d",
		clientID, vehicle.LicensePlate, space.Number, session.SessionID)
	return session, nil
}

// RegisterExit 警衛登記車輛出場：結束紀錄、計費並釋放車位
func RegisterExit(guardID, sessionID int, notes string) (*models.ParkingSession, error) {
	var session models.ParkingSession
	if err := database.DB.Preload("Space").Preload("Vehicle").First(&session, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("parking session with ID %d not found", sessionID)
		}
		return nil, fmt.Errorf("failed to find parking session %d: %w", sessionID, err)
	}

	// 鎖的鍵取自鎖外讀到的車位；重讀後發現紀錄已被搬走就換鎖重來，
	// 避免拿著舊車位的鎖去動新車位
	var release func()
	for {
		lockedSpaceID := session.SpaceID
		release = lockSpace(lockedSpaceID)
		if err := database.DB.First(&session, sessionID).Error; err != nil {
			release()
			return nil, fmt.Errorf("failed to reload parking session %d: %w", sessionID, err)
		}
		if session.SpaceID == lockedSpaceID {
			break
		}
		release()
	}
	defer release()

	if !session.IsActive() {
		return nil, InvalidOperationError("parking session %d is no longer active", sessionID)
	}

	var space models.Space
	if err := database.DB.First(&space, session.SpaceID).Error; err != nil {
		return nil, fmt.Errorf("failed to find space %d: %w", session.SpaceID, err)
	}

	session.Finish(guardID, time.Now(), space.HourlyRate, notes)

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&session).Error; err != nil {
			return fmt.Errorf("failed to save finished session %d: %w", sessionID, err)
		}
		if err := tx.Model(&models.Space{}).Where("space_id = ?", session.SpaceID).
			Update("status", models.SpaceStatusAvailable).Error; err != nil {
			return fmt.Errorf("failed to release space %d: %w", session.SpaceID, err)
		}
		return nil
	})
	if err != nil {
		log.Printf("Failed to register exit for session %d: %v", sessionID, err)
		return nil, err
	}

	session.Space = space

	log.Printf("Exit registered: session %d, space %s, %.4f hours, amount %.2f",
		sessionID, space.Number, *session.TotalHours, *session.TotalAmount)
	return &session, nil
}

// MoveSession 管理員把進行中的車輛搬到另一個車位：
// 釋放原車位、佔用新車位、紀錄搬移原因，全部在同一交易內完成
func MoveSession(sessionID, newSpaceID int, reason string) (*models.ParkingSession, error) {
	var session models.ParkingSession
	if err := database.DB.First(&session, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("parking session with ID %d not found", sessionID)
		}
		return nil, fmt.Errorf("failed to find parking session %d: %w", sessionID, err)
	}

	// 同出場一樣，重讀後紀錄若已被另一次搬移改指別的車位就換鎖重來
	var release func()
	for {
		lockedSpaceID := session.SpaceID
		release = lockSpaces(lockedSpaceID, newSpaceID)
		if err := database.DB.First(&session, sessionID).Error; err != nil {
			release()
			return nil, fmt.Errorf("failed to reload parking session %d: %w", sessionID, err)
		}
		if session.SpaceID == lockedSpaceID {
			break
		}
		release()
	}
	defer release()

	if !session.IsActive() {
		return nil, InvalidOperationError("parking session %d is no longer active", sessionID)
	}

	var oldSpace models.Space
	if err := database.DB.First(&oldSpace, session.SpaceID).Error; err != nil {
		return nil, fmt.Errorf("failed to find space %d: %w", session.SpaceID, err)
	}

	var newSpace models.Space
	if err := database.DB.First(&newSpace, newSpaceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("space with ID %d not found", newSpaceID)
		}
		return nil, fmt.Errorf("failed to find space %d: %w", newSpaceID, err)
	}
	if !newSpace.IsAvailable() {
		return nil, InvalidOperationError("space %s is not available", newSpace.Number)
	}

	session.MoveTo(oldSpace.Number, newSpace.Number, newSpaceID, reason)

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Space{}).Where("space_id = ?", oldSpace.SpaceID).
			Update("status", models.SpaceStatusAvailable).Error; err != nil {
			return fmt.Errorf("failed to release space %d: %w", oldSpace.SpaceID, err)
		}
		if err := tx.Model(&models.Space{}).Where("space_id = ?", newSpace.SpaceID).
			Update("status", models.SpaceStatusOccupied).Error; err != nil {
			return fmt.Errorf("failed to occupy space %d: %w", newSpace.SpaceID, err)
		}
		if err := tx.Save(&session).Error; err != nil {
			return fmt.Errorf("failed to save moved session %d: %w", sessionID, err)
		}
		return nil
	})
	if err != nil {
		log.Printf("Failed to move session %d from %s to %s: %v", sessionID, oldSpace.Number, newSpace.Number, err)
		return nil, err
	}

	session.Space = newSpace

	log.Printf("Session %d moved from space %s to space %s", sessionID, oldSpace.Number, newSpace.Number)
	return &session, nil
}

// GetSessionByID 查詢單筆停車紀錄
func GetSessionByID(sessionID int) (*models.ParkingSession, error) {
	var session models.ParkingSession
	if err := database.DB.Preload("Vehicle").Preload("Space").First(&session, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("parking session with ID %d not found", sessionID)
		}
		return nil, fmt.Errorf("failed to get parking session %d: %w", sessionID, err)
	}
	return &session, nil
}

// GetActiveSessions 列出所有進行中的停車紀錄
func GetActiveSessions() ([]models.ParkingSession, error) {
	return GetSessionsByStatus(models.SessionStatusActive)
}

// GetSessionsByStatus 依狀態列出停車紀錄，進場時間新到舊
func GetSessionsByStatus(status string) ([]models.ParkingSession, error) {
	switch status {
	case models.SessionStatusActive, models.SessionStatusFinished, models.SessionStatusCancelled:
	default:
		return nil, ValidationError("invalid status: must be 'active', 'finished' or 'cancelled'")
	}

	var sessions []models.ParkingSession
	if err := database.DB.
		Preload("Vehicle").
		Preload("Space").
		Where("status = ?", status).
		Order("entry_time DESC").
		Find(&sessions).Error; err != nil {
		log.Printf("Failed to query sessions by status %s: %v", status, err)
		return nil, fmt.Errorf("failed to query sessions by status: %w", err)
	}
	return sessions, nil
}

// GetAllSessions 列出所有停車紀錄，進場時間新到舊
func GetAllSessions() ([]models.ParkingSession, error) {
	var sessions []models.ParkingSession
	if err := database.DB.
		Preload("Vehicle").
		Preload("Space").
		Order("entry_time DESC").
		Find(&sessions).Error; err != nil {
		log.Printf("Failed to query sessions: %v", err)
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	return sessions, nil
}

// GetSessionsByClient 列出某客戶所有車輛的停車紀錄
func GetSessionsByClient(memberID int) ([]models.ParkingSession, error) {
	var vehicleIDs []int
	if err := database.DB.Model(&models.Vehicle{}).
		Where("member_id = ?", memberID).
		Pluck("vehicle_id", &vehicleIDs).Error; err != nil {
		return nil, fmt.Errorf("failed to query vehicles for member %d: %w", memberID, err)
	}
	if len(vehicleIDs) == 0 {
		return []models.ParkingSession{}, nil
	}

	var sessions []models.ParkingSession
	if err := database.DB.
		Preload("Vehicle").
		Preload("Space").
		Where("vehicle_id IN ?", vehicleIDs).
		Order("entry_time DESC").
		Find(&sessions).Error; err != nil {
		log.Printf("Failed to query sessions for member %d: %v", memberID, err)
		return nil, fmt.Errorf("failed to query sessions for member: %w", err)
	}
	return sessions, nil
}
