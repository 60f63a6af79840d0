package services

import (
	"errors"
	"fmt"
	"log"
	"parkspot/database"
	"parkspot/models"
	"parkspot/utils"

	"gorm.io/gorm"
)

// RegisterMember 註冊會員
func RegisterMember(member *models.Member) error {
	// 檢查是否有重複的 email
	var existingMember models.Member
	if err := database.DB.Where("email = ?", member.Email).First(&existingMember).Error; err == nil {
		return DuplicateError("email %s is already in use", member.Email)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Failed to check for duplicate email: %v", err)
		return fmt.Errorf("failed to check for duplicate email: %w", err)
	}

	// 驗證角色
	if member.Role != models.RoleClient && member.Role != models.RoleGuard && member.Role != models.RoleAdmin {
		return ValidationError("invalid role: must be 'client', 'guard' or 'admin'")
	}

	// 哈希密碼
	hashedPassword, err := utils.HashPassword(member.Password)
	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		return fmt.Errorf("failed to hash password: %w", err)
	}
	member.Password = hashedPassword

	if err := database.DB.Create(member).Error; err != nil {
		log.Printf("Failed to register member: %v", err)
		return fmt.Errorf("failed to register member: %w", err)
	}

	log.Printf("Successfully registered member with ID %d (role: %s)", member.MemberID, member.Role)
	return nil
}

// LoginMember 以 email 登入，回傳會員資料供簽發 token
func LoginMember(email, password string) (*models.Member, error) {
	var member models.Member
	if err := database.DB.Where("email = ?", email).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Member with email %s not found", email)
			return nil, InvalidOperationError("invalid email or password")
		}
		log.Printf("Failed to login member: %v", err)
		return nil, fmt.Errorf("failed to login member: %w", err)
	}

	// 驗證密碼
	if !utils.CheckPasswordHash(password, member.Password) {
		log.Printf("Invalid password for email %s", email)
		return nil, InvalidOperationError("invalid email or password")
	}

	log.Printf("Member with ID %d logged in successfully", member.MemberID)
	return &member, nil
}

// GetMemberByID 根據 ID 查詢會員
func GetMemberByID(id int) (*models.Member, error) {
	var member models.Member
	if err := database.DB.Preload("Vehicles").First(&member, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("member with ID %d not found", id)
		}
		log.Printf("Failed to get member by ID %d: %v", id, err)
		return nil, fmt.Errorf("failed to get member by ID %d: %w", id, err)
	}
	return &member, nil
}
