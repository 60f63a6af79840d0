package services

import (
	"errors"
	"fmt"
	"log"
	"parkspot/database"
	"parkspot/models"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// CreateVehicle 登記車輛，車牌全系統唯一
func CreateVehicle(vehicle *models.Vehicle) error {
	var existing models.Vehicle
	if err := database.DB.Where("license_plate = ?", vehicle.LicensePlate).First(&existing).Error; err == nil {
		return DuplicateError("license plate %s is already registered", vehicle.LicensePlate)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Failed to check for duplicate license plate: %v", err)
		return fmt.Errorf("failed to check for duplicate license plate: %w", err)
	}

	if err := database.DB.Create(vehicle).Error; err != nil {
		if mysqlErr, ok := err.(*mysql.MySQLError); ok && mysqlErr.Number == 1062 {
			return DuplicateError("license plate %s is already registered", vehicle.LicensePlate)
		}
		log.Printf("Failed to create vehicle %s: %v", vehicle.LicensePlate, err)
		return fmt.Errorf("failed to create vehicle: %w", err)
	}

	log.Printf("Successfully registered vehicle %s for member %d", vehicle.LicensePlate, vehicle.MemberID)
	return nil
}

// GetVehiclesByMemberID 查詢會員的所有車輛
func GetVehiclesByMemberID(memberID int) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	if err := database.DB.Where("member_id = ?", memberID).Find(&vehicles).Error; err != nil {
		log.Printf("Failed to query vehicles for member %d: %v", memberID, err)
		return nil, fmt.Errorf("failed to query vehicles: %w", err)
	}
	return vehicles, nil
}

// GetVehicleByID 查詢單一車輛
func GetVehicleByID(vehicleID int) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	if err := database.DB.First(&vehicle, vehicleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("vehicle with ID %d not found", vehicleID)
		}
		return nil, fmt.Errorf("failed to get vehicle %d: %w", vehicleID, err)
	}
	return &vehicle, nil
}

// UpdateVehicle 修改車輛資料，僅限車主本人
func UpdateVehicle(vehicleID, memberID int, updatedFields map[string]interface{}) error {
	var vehicle models.Vehicle
	if err := database.DB.First(&vehicle, vehicleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundError("vehicle with ID %d not found", vehicleID)
		}
		return fmt.Errorf("failed to find vehicle %d: %w", vehicleID, err)
	}
	if vehicle.MemberID != memberID {
		return InvalidOperationError("vehicle %s does not belong to you", vehicle.LicensePlate)
	}

	mappedFields := make(map[string]interface{})
	for key, value := range updatedFields {
		switch key {
		case "brand", "model", "color":
			text, ok := value.(string)
			if !ok {
				return ValidationError("invalid %s type: must be a string", key)
			}
			mappedFields[key] = text
		default:
			log.Printf("Ignoring invalid field: %s", key)
			continue
		}
	}
	if len(mappedFields) == 0 {
		return ValidationError("no valid fields to update")
	}

	if err := database.DB.Model(&vehicle).Updates(mappedFields).Error; err != nil {
		log.Printf("Failed to update vehicle %d: %v", vehicleID, err)
		return fmt.Errorf("failed to update vehicle: %w", err)
	}

	log.Printf("Successfully updated vehicle %s", vehicle.LicensePlate)
	return nil
}

// DeleteVehicle 刪除車輛，僅限車主本人且車輛沒有進行中的停車紀錄
func DeleteVehicle(vehicleID, memberID int) error {
	var vehicle models.Vehicle
	if err := database.DB.First(&vehicle, vehicleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundError("vehicle with ID %d not found", vehicleID)
		}
		return fmt.Errorf("failed to find vehicle %d: %w", vehicleID, err)
	}
	if vehicle.MemberID != memberID {
		return InvalidOperationError("vehicle %s does not belong to you", vehicle.LicensePlate)
	}

	var activeCount int64
	if err := database.DB.Model(&models.ParkingSession{}).
		Where("vehicle_id = ? AND status = ?", vehicleID, models.SessionStatusActive).
		Count(&activeCount).Error; err != nil {
		return fmt.Errorf("failed to check active sessions for vehicle %d: %w", vehicleID, err)
	}
	if activeCount > 0 {
		return InvalidOperationError("vehicle %s is currently parked and cannot be deleted", vehicle.LicensePlate)
	}

	if err := database.DB.Delete(&vehicle).Error; err != nil {
		log.Printf("Failed to delete vehicle %d: %v", vehicleID, err)
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}

	log.Printf("Successfully deleted vehicle %s", vehicle.LicensePlate)
	return nil
}
