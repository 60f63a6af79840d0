package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"parkspot/database"
	"parkspot/models"
)

// setupTestDB 為單一測試開一個獨立的記憶體 SQLite 資料庫。
// 每個測試用自己的資料庫名稱，互不污染。
func setupTestDB(t *testing.T) {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// 單一連線讓 SQLite 的寫入自然序列化，競態測試只量服務層的鎖
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.Member{},
		&models.Vehicle{},
		&models.Space{},
		&models.ParkingSession{},
		&models.Reservation{},
	)
	require.NoError(t, err)

	database.DB = db

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
}

func createTestMember(t *testing.T, role, email string) *models.Member {
	t.Helper()
	member := &models.Member{
		Name:     "Test " + role,
		Phone:    "0912345678",
		Password: "not-a-real-hash",
		Role:     role,
		Email:    email,
	}
	require.NoError(t, database.DB.Create(member).Error)
	return member
}

func createTestVehicle(t *testing.T, memberID int, plate string) *models.Vehicle {
	t.Helper()
	vehicle := &models.Vehicle{
		LicensePlate: plate,
		MemberID:     memberID,
		Brand:        "Toyota",
		Model:        "Yaris",
		Color:        "white",
	}
	require.NoError(t, database.DB.Create(vehicle).Error)
	return vehicle
}

func createTestSpace(t *testing.T, number string, hourlyRate float64) *models.Space {
	t.Helper()
	space := &models.Space{
		Number:     number,
		SpaceType:  models.SpaceTypeRegular,
		Status:     models.SpaceStatusAvailable,
		HourlyRate: hourlyRate,
	}
	require.NoError(t, database.DB.Create(space).Error)
	return space
}

// setSpaceStatus 直接改資料庫狀態，讓測試能擺出特定前置情境
func setSpaceStatus(t *testing.T, spaceID int, status string) {
	t.Helper()
	err := database.DB.Model(&models.Space{}).
		Where("space_id = ?", spaceID).
		Update("status", status).Error
	require.NoError(t, err)
}

func reloadSpace(t *testing.T, spaceID int) *models.Space {
	t.Helper()
	var space models.Space
	require.NoError(t, database.DB.First(&space, spaceID).Error)
	return &space
}

func reloadReservation(t *testing.T, reservationID int) *models.Reservation {
	t.Helper()
	var reservation models.Reservation
	require.NoError(t, database.DB.First(&reservation, reservationID).Error)
	return &reservation
}
