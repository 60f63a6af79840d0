package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkspot/models"
)

func TestCreateVehicle(t *testing.T) {
	setupTestDB(t)

	client := createTestMember(t, models.RoleClient, "client@test.local")

	vehicle := &models.Vehicle{
		LicensePlate: "ABC-1234",
		MemberID:     client.MemberID,
		Brand:        "Honda",
	}
	require.NoError(t, CreateVehicle(vehicle))
	assert.NotZero(t, vehicle.VehicleID)

	// 車牌全系統唯一，跨會員也一樣
	other := createTestMember(t, models.RoleClient, "other@test.local")
	err := CreateVehicle(&models.Vehicle{LicensePlate: "ABC-1234", MemberID: other.MemberID})
	assert.True(t, IsDuplicate(err))
}

func TestUpdateVehicleOwnerOnly(t *testing.T) {
	setupTestDB(t)

	owner := createTestMember(t, models.RoleClient, "owner@test.local")
	stranger := createTestMember(t, models.RoleClient, "stranger@test.local")
	vehicle := createTestVehicle(t, owner.MemberID, "ABC-1234")

	require.NoError(t, UpdateVehicle(vehicle.VehicleID, owner.MemberID, map[string]interface{}{
		"color": "red",
	}))

	reloaded, err := GetVehicleByID(vehicle.VehicleID)
	require.NoError(t, err)
	assert.Equal(t, "red", reloaded.Color)

	err = UpdateVehicle(vehicle.VehicleID, stranger.MemberID, map[string]interface{}{"color": "blue"})
	assert.True(t, IsInvalidOperation(err))

	err = UpdateVehicle(vehicle.VehicleID, owner.MemberID, map[string]interface{}{"license_plate": "HCK-0000"})
	assert.True(t, IsValidation(err))
}

func TestDeleteVehicle(t *testing.T) {
	setupTestDB(t)

	guard := createTestMember(t, models.RoleGuard, "guard@test.local")
	owner := createTestMember(t, models.RoleClient, "owner@test.local")
	stranger := createTestMember(t, models.RoleClient, "stranger@test.local")
	vehicle := createTestVehicle(t, owner.MemberID, "ABC-1234")
	space := createTestSpace(t, "A1", 5.0)

	err := DeleteVehicle(vehicle.VehicleID, stranger.MemberID)
	assert.True(t, IsInvalidOperation(err))

	// 停在場內的車不能刪
	session, err := RegisterEntry(guard.MemberID, owner.MemberID, vehicle.VehicleID, space.SpaceID, "")
	require.NoError(t, err)
	err = DeleteVehicle(vehicle.VehicleID, owner.MemberID)
	assert.True(t, IsInvalidOperation(err))
	assert.Contains(t, err.Error(), "currently parked")

	_, err = RegisterExit(guard.MemberID, session.SessionID, "")
	require.NoError(t, err)
	require.NoError(t, DeleteVehicle(vehicle.VehicleID, owner.MemberID))

	_, err = GetVehicleByID(vehicle.VehicleID)
	assert.True(t, IsNotFound(err))
}

func TestGetVehiclesByMemberID(t *testing.T) {
	setupTestDB(t)

	owner := createTestMember(t, models.RoleClient, "owner@test.local")
	other := createTestMember(t, models.RoleClient, "other@test.local")
	createTestVehicle(t, owner.MemberID, "AAA-1111")
	createTestVehicle(t, owner.MemberID, "BBB-2222")
	createTestVehicle(t, other.MemberID, "CCC-3333")

	vehicles, err := GetVehiclesByMemberID(owner.MemberID)
	require.NoError(t, err)
	assert.Len(t, vehicles, 2)
}
