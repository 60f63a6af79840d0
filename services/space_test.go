package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkspot/database"
	"parkspot/models"
)

func TestCreateSpace(t *testing.T) {
	setupTestDB(t)

	space := &models.Space{
		Number:    "A1",
		SpaceType: models.SpaceTypeRegular,
	}
	require.NoError(t, CreateSpace(space))

	// 初始狀態一律 available
	assert.Equal(t, models.SpaceStatusAvailable, space.Status)
	assert.NotZero(t, space.SpaceID)

	// 費率 0 是合法的免費車位，不會被改寫成預設值
	free := &models.Space{
		Number:    "F1",
		SpaceType: models.SpaceTypeRegular,
	}
	require.NoError(t, CreateSpace(free))
	assert.Zero(t, reloadSpace(t, free.SpaceID).HourlyRate)

	// 編號全系統唯一
	err := CreateSpace(&models.Space{Number: "A1", SpaceType: models.SpaceTypePremium})
	assert.True(t, IsDuplicate(err))
	assert.Contains(t, err.Error(), "A1")
}

func TestCreateSpaceValidation(t *testing.T) {
	setupTestDB(t)

	err := CreateSpace(&models.Space{Number: "", SpaceType: models.SpaceTypeRegular})
	assert.True(t, IsValidation(err))

	err = CreateSpace(&models.Space{Number: "A1", SpaceType: "helicopter"})
	assert.True(t, IsValidation(err))

	err = CreateSpace(&models.Space{Number: "A1", SpaceType: models.SpaceTypeRegular, HourlyRate: -3})
	assert.True(t, IsValidation(err))
}

func TestUpdateSpaceStatusRules(t *testing.T) {
	setupTestDB(t)

	space := createTestSpace(t, "A1", 5.0)

	// occupied 只能由進場流程寫入
	err := UpdateSpace(space.SpaceID, map[string]interface{}{"status": models.SpaceStatusOccupied})
	assert.True(t, IsInvalidOperation(err))

	// 管理操作可以把車位送修、修好送回 available
	require.NoError(t, UpdateSpace(space.SpaceID, map[string]interface{}{"status": models.SpaceStatusMaintenance}))
	assert.Equal(t, models.SpaceStatusMaintenance, reloadSpace(t, space.SpaceID).Status)

	// 維修中只能回到 available
	err = UpdateSpace(space.SpaceID, map[string]interface{}{"status": models.SpaceStatusReserved})
	assert.True(t, IsInvalidOperation(err))

	require.NoError(t, UpdateSpace(space.SpaceID, map[string]interface{}{"status": models.SpaceStatusAvailable}))
	assert.Equal(t, models.SpaceStatusAvailable, reloadSpace(t, space.SpaceID).Status)

	// 佔用中的車位狀態不能手動改走
	setSpaceStatus(t, space.SpaceID, models.SpaceStatusOccupied)
	err = UpdateSpace(space.SpaceID, map[string]interface{}{"status": models.SpaceStatusMaintenance})
	assert.True(t, IsInvalidOperation(err))
	err = UpdateSpace(space.SpaceID, map[string]interface{}{"status": models.SpaceStatusAvailable})
	assert.True(t, IsInvalidOperation(err))

	// 看不懂的狀態是輸入錯誤，跟車位當下是否被佔用無關
	err = UpdateSpace(space.SpaceID, map[string]interface{}{"status": "flooded"})
	assert.True(t, IsValidation(err))
}

func TestUpdateSpaceFields(t *testing.T) {
	setupTestDB(t)

	space := createTestSpace(t, "A1", 5.0)
	other := createTestSpace(t, "A2", 5.0)

	require.NoError(t, UpdateSpace(space.SpaceID, map[string]interface{}{
		"hourly_rate": 8.5,
		"description": "covered, near elevator",
	}))
	updated := reloadSpace(t, space.SpaceID)
	assert.InDelta(t, 8.5, updated.HourlyRate, 1e-9)
	assert.Equal(t, "covered, near elevator", updated.Description)

	err := UpdateSpace(space.SpaceID, map[string]interface{}{"hourly_rate": -1.0})
	assert.True(t, IsValidation(err))

	// 改成免費車位是合法操作
	require.NoError(t, UpdateSpace(space.SpaceID, map[string]interface{}{"hourly_rate": 0.0}))
	assert.Zero(t, reloadSpace(t, space.SpaceID).HourlyRate)

	// 改編號也要守唯一性
	err = UpdateSpace(space.SpaceID, map[string]interface{}{"number": other.Number})
	assert.True(t, IsDuplicate(err))

	err = UpdateSpace(space.SpaceID, map[string]interface{}{})
	assert.True(t, IsValidation(err))

	err = UpdateSpace(9999, map[string]interface{}{"description": "ghost"})
	assert.True(t, IsNotFound(err))
}

func TestDeleteSpace(t *testing.T) {
	setupTestDB(t)

	fresh := createTestSpace(t, "A1", 5.0)
	require.NoError(t, DeleteSpace(fresh.SpaceID))
	_, err := GetSpaceByID(fresh.SpaceID)
	assert.True(t, IsNotFound(err))

	occupied := createTestSpace(t, "B1", 5.0)
	setSpaceStatus(t, occupied.SpaceID, models.SpaceStatusOccupied)
	err = DeleteSpace(occupied.SpaceID)
	assert.True(t, IsInvalidOperation(err))

	reserved := createTestSpace(t, "B2", 5.0)
	setSpaceStatus(t, reserved.SpaceID, models.SpaceStatusReserved)
	err = DeleteSpace(reserved.SpaceID)
	assert.True(t, IsInvalidOperation(err))

	err = DeleteSpace(9999)
	assert.True(t, IsNotFound(err))
}

func TestDeleteSpaceKeepsParkingHistory(t *testing.T) {
	setupTestDB(t)

	guard := createTestMember(t, models.RoleGuard, "guard@test.local")
	client := createTestMember(t, models.RoleClient, "client@test.local")
	vehicle := createTestVehicle(t, client.MemberID, "ABC-1234")
	space := createTestSpace(t, "A1", 5.0)

	session, err := RegisterEntry(guard.MemberID, client.MemberID, vehicle.VehicleID, space.SpaceID, "")
	require.NoError(t, err)
	_, err = RegisterExit(guard.MemberID, session.SessionID, "")
	require.NoError(t, err)

	// 車位已釋放，但歷史紀錄讓它不能被刪除
	assert.Equal(t, models.SpaceStatusAvailable, reloadSpace(t, space.SpaceID).Status)
	err = DeleteSpace(space.SpaceID)
	assert.True(t, IsInvalidOperation(err))
	assert.Contains(t, err.Error(), "parking history")
}

func TestGetSpacesFilters(t *testing.T) {
	setupTestDB(t)

	createTestSpace(t, "A1", 5.0)
	moto := &models.Space{Number: "M1", SpaceType: models.SpaceTypeMoto, Status: models.SpaceStatusAvailable, HourlyRate: 2.0}
	require.NoError(t, database.DB.Create(moto).Error)
	setSpaceStatus(t, moto.SpaceID, models.SpaceStatusMaintenance)

	available, err := GetSpacesByStatus(models.SpaceStatusAvailable)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "A1", available[0].Number)

	motos, err := GetSpacesByType(models.SpaceTypeMoto)
	require.NoError(t, err)
	require.Len(t, motos, 1)
	assert.Equal(t, "M1", motos[0].Number)

	_, err = GetSpacesByStatus("flooded")
	assert.True(t, IsValidation(err))
	_, err = GetSpacesByType("helicopter")
	assert.True(t, IsValidation(err))

	all, err := GetAllSpaces()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGetSpaceBoard(t *testing.T) {
	setupTestDB(t)

	guard := createTestMember(t, models.RoleGuard, "guard@test.local")
	client := createTestMember(t, models.RoleClient, "client@test.local")
	vehicle := createTestVehicle(t, client.MemberID, "ABC-1234")
	occupied := createTestSpace(t, "A1", 5.0)
	empty := createTestSpace(t, "A2", 5.0)

	_, err := RegisterEntry(guard.MemberID, client.MemberID, vehicle.VehicleID, occupied.SpaceID, "")
	require.NoError(t, err)

	board, err := GetSpaceBoard()
	require.NoError(t, err)
	require.Len(t, board, 2)

	byNumber := make(map[string]models.SpaceBoardResponse, len(board))
	for _, entry := range board {
		byNumber[entry.Number] = entry
	}

	occupiedEntry := byNumber[occupied.Number]
	assert.Equal(t, models.SpaceStatusOccupied, occupiedEntry.Status)
	require.NotNil(t, occupiedEntry.LicensePlate)
	assert.Equal(t, "ABC-1234", *occupiedEntry.LicensePlate)
	require.NotNil(t, occupiedEntry.OwnerName)
	assert.Equal(t, client.Name, *occupiedEntry.OwnerName)

	emptyEntry := byNumber[empty.Number]
	assert.Equal(t, models.SpaceStatusAvailable, emptyEntry.Status)
	assert.Nil(t, emptyEntry.SessionID)
	assert.Nil(t, emptyEntry.LicensePlate)
}
