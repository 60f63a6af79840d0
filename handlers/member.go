package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"parkspot/models"
	"parkspot/services"
	"parkspot/utils"
)

// RegisterInput 註冊請求
type RegisterInput struct {
	Name     string `json:"name" binding:"required,max=50"`
	Phone    string `json:"phone" binding:"required,max=20"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,oneof=client guard admin"`
}

// RegisterMember 註冊會員
func RegisterMember(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Printf("Invalid register input: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "無效的輸入資料", err.Error(), services.CodeValidation)
		return
	}

	member := models.Member{
		Name:     input.Name,
		Phone:    input.Phone,
		Email:    input.Email,
		Password: input.Password,
		Role:     input.Role,
	}

	if err := services.RegisterMember(&member); err != nil {
		ServiceErrorResponse(c, "註冊失敗", err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "註冊成功", member.ToResponse())
}

// LoginInput 登入請求
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginMember 登入並簽發 JWT
func LoginMember(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Printf("Invalid login input: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "無效的輸入資料", err.Error(), services.CodeValidation)
		return
	}

	member, err := services.LoginMember(input.Email, input.Password)
	if err != nil {
		ErrorResponse(c, http.StatusUnauthorized, "登入失敗", err.Error(), "ERR_LOGIN_FAILED")
		return
	}

	token, err := utils.GenerateToken(member.MemberID, member.Role)
	if err != nil {
		log.Printf("Failed to generate token for member %d: %v", member.MemberID, err)
		ErrorResponse(c, http.StatusInternalServerError, "簽發 token 失敗", err.Error(), "ERR_INTERNAL")
		return
	}

	SuccessResponse(c, http.StatusOK, "登入成功", gin.H{
		"token":  token,
		"member": member.ToResponse(),
	})
}

// GetMyProfile 取得自己的會員資料
func GetMyProfile(c *gin.Context) {
	memberID := c.GetInt("member_id")

	member, err := services.GetMemberByID(memberID)
	if err != nil {
		ServiceErrorResponse(c, "查詢會員失敗", err)
		return
	}

	SuccessResponse(c, http.StatusOK, "查詢成功", member.ToResponse())
}
