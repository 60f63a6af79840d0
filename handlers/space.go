package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"parkspot/models"
	"parkspot/services"
)

// CreateSpaceInput 建立車位請求。費率用指標區分「沒帶」和「明確給 0」：
// 沒帶用預設值，給 0 是免費車位
type CreateSpaceInput struct {
	Number      string   `json:"number" binding:"required,max=10"`
	SpaceType   string   `json:"space_type" binding:"required,oneof=regular disabled moto premium"`
	HourlyRate  *float64 `json:"hourly_rate" binding:"omitempty,gte=0"`
	Description string   `json:"description" binding:"omitempty,max=255"`
}

// CreateSpace 管理員建立車位
func CreateSpace(c *gin.Context) {
	var input CreateSpaceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "無效的輸入資料", err.Error(), services.CodeValidation)
		return
	}

	space := models.Space{
		Number:      input.Number,
		SpaceType:   input.SpaceType,
		HourlyRate:  models.DefaultHourlyRate,
		Description: input.Description,
	}
	if input.HourlyRate != nil {
		space.HourlyRate = *input.HourlyRate
	}

	if err := services.CreateSpace(&space); err != nil {
		ServiceErrorResponse(c, "建立車位失敗", err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "車位建立成功", space.ToResponse())
}

// UpdateSpace 管理員更新車位
func UpdateSpace(c *gin.Context) {
	spaceID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "無效的車位 ID", err.Error(), services.CodeValidation)
		return
	}

	var updatedFields map[string]interface{}
	if err := c.ShouldBindJSON(&updatedFields); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "輸入格式錯誤", err.Error(), services.CodeValidation)
		return
	}

	if err := services.UpdateSpace(spaceID, updatedFields); err != nil {
		ServiceErrorResponse(c, "更新車位失敗", err)
		return
	}

	SuccessResponse(c, http.StatusOK, "車位更新成功", nil)
}

// DeleteSpace 管理員刪除車位
func DeleteSpace(c *gin.Context) {
	spaceID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "無效的車位 ID", err.Error(), services.CodeValidation)
		return
	}

	if err := services.DeleteSpace(spaceID); err != nil {
		ServiceErrorResponse(c, "刪除車位失敗", err)
		return
	}

	SuccessResponse(c, http.StatusOK, "車位刪除成功", nil)
}

// GetSpaces 列出車位，可用 status 或 type 查詢參數過濾
func GetSpaces(c *gin.Context) {
	var (
		spaces []models.Space
		err    error
	)

	if status := c.Query("status"); status != "" {
		spaces, err = services.GetSpacesByStatus(status)
	} else if spaceType := c.Query("type"); spaceType != "" {
		spaces, err = services.GetSpacesByType(spaceType)
	} else {
		spaces, err = services.GetAllSpaces()
	}
	if err != nil {
		ServiceErrorResponse(c, "查詢車位失敗", err)
		return
	}

	resp := make([]models.SpaceResponse, len(spaces))
	for i, s := range spaces {
		resp[i] = s.ToResponse()
	}

	SuccessResponse(c, http.StatusOK, "查詢成功", resp)
}

// GetAvailableSpaces 列出目前可用的車位
func GetAvailableSpaces(c *gin.Context) {
	spaces, err := services.GetSpacesByStatus(models.SpaceStatusAvailable)
	if err != nil {
		ServiceErrorResponse(c, "查詢車位失敗", err)
		return
	}

	resp := make([]models.SpaceResponse, len(spaces))
	for i, s := range spaces {
		resp[i] = s.ToResponse()
	}

	SuccessResponse(c, http.StatusOK, "查詢成功", resp)
}

// GetSpaceBoard 營運看板：所有車位附目前停放摘要
func GetSpaceBoard(c *gin.Context) {
	board, err := services.GetSpaceBoard()
	if err != nil {
		ServiceErrorResponse(c, "查詢看板失敗", err)
		return
	}

	SuccessResponse(c, http.StatusOK, "查詢成功", board)
}
