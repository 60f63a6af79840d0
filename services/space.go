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

// CreateSpace 建立車位，編號全系統唯一，初始狀態一律 available
func CreateSpace(space *models.Space) error {
	if space.Number == "" {
		return ValidationError("space number is required")
	}
	if !isValidSpaceType(space.SpaceType) {
		return ValidationError("invalid space_type: must be 'regular', 'disabled', 'moto' or 'premium'")
	}
	// 費率 0 是合法的免費車位，預設值由 handler 在欄位缺漏時補上
	if space.HourlyRate < 0 {
		return ValidationError("hourly_rate must not be negative")
	}

	// 檢查編號重複
	var existing models.Space
	if err := database.DB.Where("number = ?", space.Number).First(&existing).Error; err == nil {
		return DuplicateError("space number %s already exists", space.Number)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Failed to check for duplicate space number: %v", err)
		return fmt.Errorf("failed to check for duplicate space number: %w", err)
	}

	space.Status = models.SpaceStatusAvailable

	if err := database.DB.Create(space).Error; err != nil {
		if mysqlErr, ok := err.(*mysql.MySQLError); ok && mysqlErr.Number == 1062 {
			return DuplicateError("space number %s already exists", space.Number)
		}
		log.Printf("Failed to create space %s: %v", space.Number, err)
		return fmt.Errorf("failed to create space: %w", err)
	}

	log.Printf("Successfully created space %s with ID %d", space.Number, space.SpaceID)
	return nil
}

func isValidSpaceType(spaceType string) bool {
	switch spaceType {
	case models.SpaceTypeRegular, models.SpaceTypeDisabled, models.SpaceTypeMoto, models.SpaceTypePremium:
		return true
	}
	return false
}

// validateStatusChange 車位狀態機：occupied 只能由進場流程寫入，
// maintenance 不能蓋掉 occupied 且只能回到 available。
// 看不懂的狀態一律是輸入錯誤，跟車位當下狀態無關
func validateStatusChange(current, next string) error {
	switch next {
	case models.SpaceStatusAvailable, models.SpaceStatusOccupied,
		models.SpaceStatusReserved, models.SpaceStatusMaintenance:
	default:
		return ValidationError("invalid status: must be 'available', 'reserved' or 'maintenance'")
	}
	if next == current {
		return nil
	}
	if next == models.SpaceStatusOccupied {
		return InvalidOperationError("status 'occupied' is assigned automatically by vehicle entry and cannot be set manually")
	}
	if current == models.SpaceStatusOccupied {
		return InvalidOperationError("cannot change status of an occupied space")
	}
	if current == models.SpaceStatusMaintenance && next != models.SpaceStatusAvailable {
		return InvalidOperationError("a space under maintenance can only be returned to 'available'")
	}
	return nil
}

// UpdateSpace 更新車位資料，逐欄位驗證
func UpdateSpace(id int, updatedFields map[string]interface{}) error {
	release := lockSpace(id)
	defer release()

	var space models.Space
	if err := database.DB.First(&space, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundError("space with ID %d not found", id)
		}
		return fmt.Errorf("failed to find space with ID %d: %w", id, err)
	}

	mappedFields := make(map[string]interface{})
	for key, value := range updatedFields {
		switch key {
		case "space_type":
			spaceType, ok := value.(string)
			if !ok {
				return ValidationError("invalid space_type type: must be a string")
			}
			if !isValidSpaceType(spaceType) {
				return ValidationError("invalid space_type: must be 'regular', 'disabled', 'moto' or 'premium'")
			}
			mappedFields["space_type"] = spaceType
		case "status":
			status, ok := value.(string)
			if !ok {
				return ValidationError("invalid status type: must be a string")
			}
			if err := validateStatusChange(space.Status, status); err != nil {
				return err
			}
			mappedFields["status"] = status
		case "hourly_rate":
			rate, ok := value.(float64)
			if !ok {
				return ValidationError("invalid hourly_rate type: must be a number")
			}
			if rate < 0 {
				return ValidationError("hourly_rate must not be negative")
			}
			mappedFields["hourly_rate"] = rate
		case "description":
			description, ok := value.(string)
			if !ok {
				return ValidationError("invalid description type: must be a string")
			}
			if len(description) > 255 {
				return ValidationError("description must not exceed 255 characters")
			}
			mappedFields["description"] = description
		case "number":
			number, ok := value.(string)
			if !ok || number == "" {
				return ValidationError("invalid number: must be a non-empty string")
			}
			var duplicate models.Space
			if err := database.DB.Where("number = ? AND space_id != ?", number, id).First(&duplicate).Error; err == nil {
				return DuplicateError("space number %s already exists", number)
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to check for duplicate space number: %w", err)
			}
			mappedFields["number"] = number
		default:
			log.Printf("Ignoring invalid field: %s", key)
			continue
		}
	}

	if len(mappedFields) == 0 {
		return ValidationError("no valid fields to update")
	}

	if err := database.DB.Model(&space).Updates(mappedFields).Error; err != nil {
		log.Printf("Failed to update space with ID %d: %v", id, err)
		return fmt.Errorf("failed to update space with ID %d: %w", id, err)
	}

	log.Printf("Successfully updated space with ID %d", id)
	return nil
}

// DeleteSpace 刪除車位。佔用中或預約中的車位不能刪；
// 有歷史停車紀錄的車位也不能刪，紀錄是永久稽核資料
func DeleteSpace(id int) error {
	release := lockSpace(id)
	defer release()

	var space models.Space
	if err := database.DB.First(&space, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundError("space with ID %d not found", id)
		}
		return fmt.Errorf("failed to find space with ID %d: %w", id, err)
	}

	if space.IsOccupied() {
		return InvalidOperationError("cannot delete occupied space %s", space.Number)
	}
	if space.IsReserved() {
		return InvalidOperationError("cannot delete reserved space %s", space.Number)
	}

	var sessionCount int64
	if err := database.DB.Model(&models.ParkingSession{}).Where("space_id = ?", id).Count(&sessionCount).Error; err != nil {
		return fmt.Errorf("failed to check session history for space %d: %w", id, err)
	}
	if sessionCount > 0 {
		return InvalidOperationError("cannot delete space %s with recorded parking history", space.Number)
	}

	if err := database.DB.Delete(&space).Error; err != nil {
		log.Printf("Failed to delete space %d: %v", id, err)
		return fmt.Errorf("failed to delete space: %w", err)
	}

	log.Printf("Successfully deleted space %s with ID %d", space.Number, id)
	return nil
}

// GetSpaceByID 查詢單一車位
func GetSpaceByID(id int) (*models.Space, error) {
	var space models.Space
	if err := database.DB.First(&space, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("space with ID %d not found", id)
		}
		return nil, fmt.Errorf("failed to get space by ID %d: %w", id, err)
	}
	return &space, nil
}

// GetAllSpaces 依編號排序列出所有車位
func GetAllSpaces() ([]models.Space, error) {
	var spaces []models.Space
	if err := database.DB.Order("number ASC").Find(&spaces).Error; err != nil {
		log.Printf("Failed to query spaces: %v", err)
		return nil, fmt.Errorf("failed to query spaces: %w", err)
	}
	return spaces, nil
}

// GetSpacesByStatus 依狀態列出車位
func GetSpacesByStatus(status string) ([]models.Space, error) {
	switch status {
	case models.SpaceStatusAvailable, models.SpaceStatusOccupied, models.SpaceStatusReserved, models.SpaceStatusMaintenance:
	default:
		return nil, ValidationError("invalid status: must be 'available', 'occupied', 'reserved' or 'maintenance'")
	}

	var spaces []models.Space
	if err := database.DB.Where("status = ?", status).Order("number ASC").Find(&spaces).Error; err != nil {
		log.Printf("Failed to query spaces by status %s: %v", status, err)
		return nil, fmt.Errorf("failed to query spaces by status: %w", err)
	}
	return spaces, nil
}

// GetSpacesByType 依類型列出車位
func GetSpacesByType(spaceType string) ([]models.Space, error) {
	if !isValidSpaceType(spaceType) {
		return nil, ValidationError("invalid space_type: must be 'regular', 'disabled', 'moto' or 'premium'")
	}

	var spaces []models.Space
	if err := database.DB.Where("space_type = ?", spaceType).Order("number ASC").Find(&spaces).Error; err != nil {
		log.Printf("Failed to query spaces by type %s: %v", spaceType, err)
		return nil, fmt.Errorf("failed to query spaces by type: %w", err)
	}
	return spaces, nil
}

// GetSpaceBoard 營運看板：所有車位，佔用中的附上目前停放車輛與車主摘要
func GetSpaceBoard() ([]models.SpaceBoardResponse, error) {
	spaces, err := GetAllSpaces()
	if err != nil {
		return nil, err
	}

	var activeSessions []models.ParkingSession
	if err := database.DB.
		Preload("Vehicle").
		Preload("Vehicle.Member").
		Where("status = ?", models.SessionStatusActive).
		Find(&activeSessions).Error; err != nil {
		log.Printf("Failed to query active sessions for board view: %v", err)
		return nil, fmt.Errorf("failed to query active sessions: %w", err)
	}

	sessionsBySpace := make(map[int]*models.ParkingSession, len(activeSessions))
	for i := range activeSessions {
		sessionsBySpace[activeSessions[i].SpaceID] = &activeSessions[i]
	}

	board := make([]models.SpaceBoardResponse, len(spaces))
	for i, space := range spaces {
		entry := models.SpaceBoardResponse{
			SpaceID:     space.SpaceID,
			Number:      space.Number,
			SpaceType:   space.SpaceType,
			Status:      space.Status,
			HourlyRate:  space.HourlyRate,
			Description: space.Description,
		}
		if session, ok := sessionsBySpace[space.SpaceID]; ok {
			entry.SessionID = &session.SessionID
			entry.LicensePlate = &session.Vehicle.LicensePlate
			entry.OwnerName = &session.Vehicle.Member.Name
			entry.VehicleBrand = &session.Vehicle.Brand
		}
		board[i] = entry
	}

	log.Printf("Built space board with %d spaces (%d occupied)", len(board), len(sessionsBySpace))
	return board, nil
}
