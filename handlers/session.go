package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"parkspot/models"
	"parkspot/services"
)

// EntryInput 進場登記請求
type EntryInput struct {
	ClientID  int    `json:"client_id" binding:"required,gt=0"`
	VehicleID int    `json:"vehicle_id" binding:"required,gt=0"`
	SpaceID   int    `json:"space_id" binding:"required,gt=0"`
	Notes     string `json:"notes" binding:"omitempty,max=500"`
}

// RegisterEntry 警衛登記車輛進場
func RegisterEntry(c *gin.Context) {
	guardID := c.GetInt("member_id")

	var input EntryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "無效的輸入資料", err.Error(), services.CodeValidation)
		return
	}

	session, err := services.RegisterEntry(guardID, input.ClientID, input.VehicleID, input.SpaceID, input.Notes)
	if err != nil {
		ServiceErrorResponse(c, "進場登記失敗", err)
		return
	}

	message := fmt.Sprintf("進場登記成功：車輛 %s，車位 %s",
		session.Vehicle.LicensePlate, session.Space.Number)
	SuccessResponse(c, http.StatusCreated, message, session.ToResponse())
}

// ExitInput 出場登記請求
type ExitInput struct {
	SessionID int    `json:"session_id" binding:"required,gt=0"`
	Notes     string `json:"notes" binding:"omitempty,max=500"`
}

// RegisterExit 警衛登記車輛出場，回應附計費結果
func RegisterExit(c *gin.Context) {
	guardID := c.GetInt("member_id")

	var input ExitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "無效的輸入資料", err.Error(), services.CodeValidation)
		return
	}

	session, err := services.RegisterExit(guardID, input.SessionID, input.Notes)
	if err != nil {
		ServiceErrorResponse(c, "出場登記失敗", err)
		return
	}

	message := fmt.Sprintf("出場登記成功：停放 %.4f 小時，應付金額 %.2f",
		*session.TotalHours, *session.TotalAmount)
	SuccessResponse(c, http.StatusOK, message, gin.H{
		"session":      session.ToResponse(),
		"total_hours":  *session.TotalHours,
		"total_amount": *session.TotalAmount,
	})
}

// MoveInput 搬移車位請求
type MoveInput struct {
	SessionID  int    `json:"session_id" binding:"required,gt=0"`
	NewSpaceID int    `json:"new_space_id" binding:"required,gt=0"`
	Reason     string `json:"reason" binding:"required,max=255"`
}

// MoveSession 管理員把進行中的車輛搬到另一個車位
func MoveSession(c *gin.Context) {
	var input MoveInput
	if err := c.ShouldBindJSON(&input); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "無效的輸入資料", err.Error(), services.CodeValidation)
		return
	}

	session, err := services.MoveSession(input.SessionID, input.NewSpaceID, input.Reason)
	if err != nil {
		ServiceErrorResponse(c, "搬移車位失敗", err)
		return
	}

	message := fmt.Sprintf("搬移成功：車輛現在停放於車位 %s", session.Space.Number)
	SuccessResponse(c, http.StatusOK, message, session.ToResponse())
}

// GetSessions 列出停車紀錄，可用 status 查詢參數過濾
func GetSessions(c *gin.Context) {
	var (
		sessions []models.ParkingSession
		err      error
	)

	if status := c.Query("status"); status != "" {
		sessions, err = services.GetSessionsByStatus(status)
	} else {
		sessions, err = services.GetAllSessions()
	}
	if err != nil {
		ServiceErrorResponse(c, "查詢停車紀錄失敗", err)
		return
	}

	resp := make([]models.SessionResponse, len(sessions))
	for i := range sessions {
		resp[i] = sessions[i].ToResponse()
	}

	SuccessResponse(c, http.StatusOK, "查詢成功", resp)
}

// GetActiveSessions 列出進行中的停車紀錄
func GetActiveSessions(c *gin.Context) {
	sessions, err := services.GetActiveSessions()
	if err != nil {
		ServiceErrorResponse(c, "查詢停車紀錄失敗", err)
		return
	}

	resp := make([]models.SessionResponse, len(sessions))
	for i := range sessions {
		resp[i] = sessions[i].ToResponse()
	}

	SuccessResponse(c, http.StatusOK, "查詢成功", resp)
}

// GetMySessions 客戶查詢自己車輛的停車紀錄
func GetMySessions(c *gin.Context) {
	memberID := c.GetInt("member_id")

	sessions, err := services.GetSessionsByClient(memberID)
	if err != nil {
		ServiceErrorResponse(c, "查詢停車紀錄失敗", err)
		return
	}

	resp := make([]models.SessionResponse, len(sessions))
	for i := range sessions {
		resp[i] = sessions[i].ToResponse()
	}

	SuccessResponse(c, http.StatusOK, "查詢成功", resp)
}
