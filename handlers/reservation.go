package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"parkspot/models"
	"parkspot/services"
)

// CreateReservationInput 建立預約請求，時間使用 RFC 3339 格式
type CreateReservationInput struct {
	VehicleID int    `json:"vehicle_id" binding:"required,gt=0"`
	SpaceID   int    `json:"space_id" binding:"required,gt=0"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	Notes     string `json:"notes" binding:"omitempty,max=500"`
}

// CreateReservation 客戶建立預約
func CreateReservation(c *gin.Context) {
	memberID := c.GetInt("member_id")

	var input CreateReservationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "無效的輸入資料", err.Error(), services.CodeValidation)
		return
	}

	startTime, err := time.Parse(time.RFC3339, input.StartTime)
	if err != nil {
		log.Printf("Failed to parse start_time %s: %v", input.StartTime, err)
		ErrorResponse(c, http.StatusBadRequest, "無效的開始時間格式", err.Error(), services.CodeValidation)
		return
	}

	endTime, err := time.Parse(time.RFC3339, input.EndTime)
	if err != nil {
		log.Printf("Failed to parse end_time %s: %v", input.EndTime, err)
		ErrorResponse(c, http.StatusBadRequest, "無效的結束時間格式", err.Error(), services.CodeValidation)
		return
	}

	reservation, err := services.CreateReservation(memberID, input.VehicleID, input.SpaceID, startTime, endTime, input.Notes)
	if err != nil {
		ServiceErrorResponse(c, "建立預約失敗", err)
		return
	}

	message := fmt.Sprintf("預約建立成功：車位 %s，%s 至 %s",
		reservation.Space.Number,
		reservation.StartTime.Format("2006-01-02 15:04"),
		reservation.EndTime.Format("2006-01-02 15:04"))
	SuccessResponse(c, http.StatusCreated, message, reservation.ToResponse())
}

// GetMyReservations 客戶查詢自己的預約
func GetMyReservations(c *gin.Context) {
	memberID := c.GetInt("member_id")

	reservations, err := services.GetReservationsByClient(memberID)
	if err != nil {
		ServiceErrorResponse(c, "查詢預約失敗", err)
		return
	}

	resp := make([]models.ReservationResponse, len(reservations))
	for i := range reservations {
		resp[i] = reservations[i].ToResponse()
	}

	SuccessResponse(c, http.StatusOK, "查詢成功", resp)
}

// GetPendingReservations 管理員查詢待審核預約
func GetPendingReservations(c *gin.Context) {
	reservations, err := services.GetPendingReservations()
	if err != nil {
		ServiceErrorResponse(c, "查詢預約失敗", err)
		return
	}

	resp := make([]models.ReservationResponse, len(reservations))
	for i := range reservations {
		resp[i] = reservations[i].ToResponse()
	}

	SuccessResponse(c, http.StatusOK, "查詢成功", resp)
}

// ApproveReservation 管理員核准預約
func ApproveReservation(c *gin.Context) {
	reservationID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "無效的預約 ID", err.Error(), services.CodeValidation)
		return
	}

	reservation, err := services.ApproveReservation(reservationID)
	if err != nil {
		ServiceErrorResponse(c, "核准預約失敗", err)
		return
	}

	SuccessResponse(c, http.StatusOK, "預約核准成功", reservation.ToResponse())
}

// RejectInput 駁回預約請求
type RejectInput struct {
	Reason string `json:"reason" binding:"required,max=255"`
}

// RejectReservation 管理員駁回預約
func RejectReservation(c *gin.Context) {
	reservationID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "無效的預約 ID", err.Error(), services.CodeValidation)
		return
	}

	var input RejectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "無效的輸入資料", err.Error(), services.CodeValidation)
		return
	}

	reservation, err := services.RejectReservation(reservationID, input.Reason)
	if err != nil {
		ServiceErrorResponse(c, "駁回預約失敗", err)
		return
	}

	SuccessResponse(c, http.StatusOK, "預約駁回成功", reservation.ToResponse())
}
