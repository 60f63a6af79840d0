package services

import (
	"errors"
	"fmt"
	"log"
	"parkspot/database"
	"parkspot/models"
	"time"

	"gorm.io/gorm"
)

// CreateReservation 客戶建立預約。規則：結束晚於開始、最早隔日 00:00 起、
// 時長不超過三天、每位客戶最多兩筆 pending+confirmed、車輛屬於本人、
// 車位目前 available、時間窗與既有 pending/confirmed 預約不重疊（半開區間）。
func CreateReservation(clientID, vehicleID, spaceID int, startTime, endTime time.Time, notes string) (*models.Reservation, error) {
	now := time.Now()

	if !endTime.After(startTime) {
		return nil, ValidationError("end_time must be after start_time")
	}

	// 不收當日預約，最早從隔日 00:00 開始
	year, month, day := now.Date()
	nextDayStart := time.Date(year, month, day, 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	if startTime.Before(nextDayStart) {
		return nil, InvalidOperationError("reservations must start from the next day (00:00) onwards")
	}

	if endTime.After(startTime.AddDate(0, 0, models.MaxReservationDays)) {
		return nil, InvalidOperationError("reservation cannot exceed %d days", models.MaxReservationDays)
	}

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

	// 每位客戶同時最多持有兩筆有效預約。計數到建立之間握著客戶鎖，
	// 否則同一客戶同時對兩個車位建立預約會雙雙通過計數
	releaseMember := lockMember(clientID)
	defer releaseMember()

	var activeCount int64
	if err := database.DB.Model(&models.Reservation{}).
		Where("member_id = ? AND status IN ?", clientID,
			[]string{models.ReservationStatusPending, models.ReservationStatusConfirmed}).
		Count(&activeCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count active reservations for member %d: %w", clientID, err)
	}
	if activeCount >= models.MaxActiveReservationsPerMember {
		return nil, InvalidOperationError("you cannot hold more than %d active reservations", models.MaxActiveReservationsPerMember)
	}

	var vehicle models.Vehicle
	if err := database.DB.First(&vehicle, vehicleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("vehicle with ID %d not found", vehicleID)
		}
		return nil, fmt.Errorf("failed to verify vehicle: %w", err)
	}
	if vehicle.MemberID != client.MemberID {
		return nil, InvalidOperationError("vehicle %s does not belong to the client", vehicle.LicensePlate)
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
	if !space.IsAvailable() {
		return nil, InvalidOperationError("space %s is not available", space.Number)
	}

	// 半開區間重疊檢查：a.start < b.end && b.start < a.end
	var conflictCount int64
	if err := database.DB.Model(&models.Reservation{}).
		Where("space_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
			spaceID, []string{models.ReservationStatusPending, models.ReservationStatusConfirmed},
			endTime, startTime).
		Count(&conflictCount).Error; err != nil {
		return nil, fmt.Errorf("failed to check reservation conflicts for space %d: %w", spaceID, err)
	}
	if conflictCount > 0 {
		return nil, InvalidOperationError("space %s already has a reservation in that time window", space.Number)
	}

	reservation := &models.Reservation{
		MemberID:  clientID,
		VehicleID: vehicleID,
		SpaceID:   spaceID,
		CreatedAt: now,
		StartTime: startTime,
		EndTime:   endTime,
		Status:    models.ReservationStatusPending,
		Notes:     notes,
	}

	if err := database.DB.Create(reservation).Error; err != nil {
		log.Printf("Failed to create reservation for space %s: %v", space.Number, err)
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}

	reservation.Member = client
	reservation.Vehicle = vehicle
	reservation.Space = space

	log.Printf("Reservation %d created: client %d, space %s, %s to %s",
		reservation.ReservationID, clientID, space.Number,
		startTime.Format("2006-01-02 15:04"), endTime.Format("2006-01-02 15:04"))
	return reservation, nil
}

// ApproveReservation 管理員核准預約。核准時對 confirmed 預約再做一次
// 重疊檢查（比建立時更嚴格的第二道關卡）；若時間窗已涵蓋當下，
// 車位立即轉為 reserved。
func ApproveReservation(reservationID int) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := database.DB.First(&reservation, reservationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("reservation with ID %d not found", reservationID)
		}
		return nil, fmt.Errorf("failed to find reservation %d: %w", reservationID, err)
	}

	release := lockSpace(reservation.SpaceID)
	defer release()

	if err := database.DB.First(&reservation, reservationID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload reservation %d: %w", reservationID, err)
	}
	if !reservation.IsPending() {
		return nil, InvalidOperationError("only pending reservations can be approved")
	}

	var conflictCount int64
	if err := database.DB.Model(&models.Reservation{}).
		Where("space_id = ? AND status = ? AND reservation_id != ? AND start_time < ? AND end_time > ?",
			reservation.SpaceID, models.ReservationStatusConfirmed, reservationID,
			reservation.EndTime, reservation.StartTime).
		Count(&conflictCount).Error; err != nil {
		return nil, fmt.Errorf("failed to check confirmed conflicts for space %d: %w", reservation.SpaceID, err)
	}
	if conflictCount > 0 {
		return nil, InvalidOperationError("space already has a confirmed reservation in that time window")
	}

	reservation.Confirm()

	now := time.Now()
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&reservation).Error; err != nil {
			return fmt.Errorf("failed to save confirmed reservation %d: %w", reservationID, err)
		}
		if reservation.Covers(now) {
			if err := tx.Model(&models.Space{}).
				Where("space_id = ? AND status = ?", reservation.SpaceID, models.SpaceStatusAvailable).
				Update("status", models.SpaceStatusReserved).Error; err != nil {
				return fmt.Errorf("failed to reserve space %d: %w", reservation.SpaceID, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("Failed to approve reservation %d: %v", reservationID, err)
		return nil, err
	}

	log.Printf("Reservation %d approved for space %d", reservationID, reservation.SpaceID)
	return &reservation, nil
}

// RejectReservation 管理員駁回預約，原因追加到備註
func RejectReservation(reservationID int, reason string) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := database.DB.First(&reservation, reservationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("reservation with ID %d not found", reservationID)
		}
		return nil, fmt.Errorf("failed to find reservation %d: %w", reservationID, err)
	}

	if !reservation.IsPending() {
		return nil, InvalidOperationError("only pending reservations can be rejected")
	}

	reservation.Cancel(reason)

	if err := database.DB.Save(&reservation).Error; err != nil {
		log.Printf("Failed to reject reservation %d: %v", reservationID, err)
		return nil, fmt.Errorf("failed to reject reservation: %w", err)
	}

	log.Printf("Reservation %d rejected: %s", reservationID, reason)
	return &reservation, nil
}

// GetPendingReservations 列出所有待審核預約，建立時間舊到新
func GetPendingReservations() ([]models.Reservation, error) {
	var reservations []models.Reservation
	if err := database.DB.
		Preload("Member").
		Preload("Vehicle").
		Preload("Space").
		Where("status = ?", models.ReservationStatusPending).
		Order("created_at ASC").
		Find(&reservations).Error; err != nil {
		log.Printf("Failed to query pending reservations: %v", err)
		return nil, fmt.Errorf("failed to query pending reservations: %w", err)
	}
	return reservations, nil
}

// GetReservationsByClient 列出某客戶的預約，建立時間新到舊
func GetReservationsByClient(memberID int) ([]models.Reservation, error) {
	var reservations []models.Reservation
	if err := database.DB.
		Preload("Member").
		Preload("Vehicle").
		Preload("Space").
		Where("member_id = ?", memberID).
		Order("created_at DESC").
		Find(&reservations).Error; err != nil {
		log.Printf("Failed to query reservations for member %d: %v", memberID, err)
		return nil, fmt.Errorf("failed to query reservations for member: %w", err)
	}
	return reservations, nil
}
