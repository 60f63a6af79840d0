package services

import (
	"fmt"
	"log"
	"parkspot/database"
	"parkspot/models"
	"time"
)

// ReconcileReservations 排程對帳：補上沒有時間觸發轉換的缺口。
// 1. 已確認但時間窗已整個過去且未被使用的預約 → cancelled
// 2. 時間窗已開始的已確認預約，車位仍 available → reserved
// 3. reserved 車位已沒有覆蓋當下的已確認預約 → available
func ReconcileReservations() error {
	now := time.Now()

	// 過期未使用的已確認預約
	var expired []models.Reservation
	if err := database.DB.
		Where("status = ? AND end_time <= ?", models.ReservationStatusConfirmed, now).
		Find(&expired).Error; err != nil {
		return fmt.Errorf("failed to fetch expired reservations: %w", err)
	}
	for i := range expired {
		reservation := &expired[i]
		reservation.Cancel("reservation window expired unused")
		if err := database.DB.Save(reservation).Error; err != nil {
			log.Printf("Failed to expire reservation %d: %v", reservation.ReservationID, err)
			continue
		}
		log.Printf("Reservation %d expired unused and was cancelled", reservation.ReservationID)
	}

	var spaces []models.Space
	if err := database.DB.
		Where("status IN ?", []string{models.SpaceStatusAvailable, models.SpaceStatusReserved}).
		Find(&spaces).Error; err != nil {
		return fmt.Errorf("failed to fetch spaces: %w", err)
	}

	for _, space := range spaces {
		var coveringCount int64
		if err := database.DB.Model(&models.Reservation{}).
			Where("space_id = ? AND status = ? AND start_time <= ? AND end_time > ?",
				space.SpaceID, models.ReservationStatusConfirmed, now, now).
			Count(&coveringCount).Error; err != nil {
			log.Printf("Failed to check covering reservation for space %d: %v", space.SpaceID, err)
			continue
		}

		switch {
		case space.IsAvailable() && coveringCount > 0:
			if err := promoteSpaceStatus(space.SpaceID, models.SpaceStatusAvailable, models.SpaceStatusReserved); err != nil {
				log.Printf("Failed to promote space %d to reserved: %v", space.SpaceID, err)
				continue
			}
			log.Printf("Space %s promoted to reserved, confirmed window has begun", space.Number)
		case space.IsReserved() && coveringCount == 0:
			if err := promoteSpaceStatus(space.SpaceID, models.SpaceStatusReserved, models.SpaceStatusAvailable); err != nil {
				log.Printf("Failed to release space %d: %v", space.SpaceID, err)
				continue
			}
			log.Printf("Space %s released, no covering confirmed reservation", space.Number)
		}
	}

	log.Printf("Reservation reconciliation completed")
	return nil
}

// promoteSpaceStatus 在車位鎖內做條件式狀態更新，狀態已被別的操作改走就放棄
func promoteSpaceStatus(spaceID int, from, to string) error {
	release := lockSpace(spaceID)
	defer release()

	return database.DB.Model(&models.Space{}).
		Where("space_id = ? AND status = ?", spaceID, from).
		Update("status", to).Error
}
