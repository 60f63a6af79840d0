package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"parkspot/models"
	"parkspot/services"
)

// GetMyVehicles 取得我的所有車輛
func GetMyVehicles(c *gin.Context) {
	memberID := c.GetInt("member_id")

	vehicles, err := services.GetVehiclesByMemberID(memberID)
	if err != nil {
		ServiceErrorResponse(c, "查詢車輛失敗", err)
		return
	}

	resp := make([]models.VehicleResponse, len(vehicles))
	for i, v := range vehicles {
		resp[i] = v.ToResponse()
	}

	SuccessResponse(c, http.StatusOK, "查詢成功", resp)
}

// CreateVehicle 新增車輛
func CreateVehicle(c *gin.Context) {
	memberID := c.GetInt("member_id")

	var input struct {
		LicensePlate string `json:"license_plate" binding:"required,max=20"`
		Brand        string `json:"brand,omitempty"`
		Model        string `json:"model,omitempty"`
		Color        string `json:"color,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "輸入格式錯誤", err.Error(), services.CodeValidation)
		return
	}

	vehicle := models.Vehicle{
		LicensePlate: input.LicensePlate,
		MemberID:     memberID,
		Brand:        input.Brand,
		Model:        input.Model,
		Color:        input.Color,
	}

	if err := services.CreateVehicle(&vehicle); err != nil {
		ServiceErrorResponse(c, "新增車輛失敗", err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "車輛新增成功", vehicle.ToResponse())
}

// UpdateVehicle 修改車輛資料
func UpdateVehicle(c *gin.Context) {
	memberID := c.GetInt("member_id")

	vehicleID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "無效的車輛 ID", err.Error(), services.CodeValidation)
		return
	}

	var updatedFields map[string]interface{}
	if err := c.ShouldBindJSON(&updatedFields); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "輸入格式錯誤", err.Error(), services.CodeValidation)
		return
	}

	if err := services.UpdateVehicle(vehicleID, memberID, updatedFields); err != nil {
		ServiceErrorResponse(c, "修改車輛失敗", err)
		return
	}

	SuccessResponse(c, http.StatusOK, "車輛修改成功", nil)
}

// DeleteVehicle 刪除車輛
func DeleteVehicle(c *gin.Context) {
	memberID := c.GetInt("member_id")

	vehicleID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "無效的車輛 ID", err.Error(), services.CodeValidation)
		return
	}

	if err := services.DeleteVehicle(vehicleID, memberID); err != nil {
		ServiceErrorResponse(c, "刪除車輛失敗", err)
		return
	}

	SuccessResponse(c, http.StatusOK, "車輛刪除成功", nil)
}
