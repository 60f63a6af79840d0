package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkspot/models"
)

func TestReconcilePromotesSpaceWhenWindowBegins(t *testing.T) {
	setupTestDB(t)

	client := createTestMember(t, models.RoleClient, "client@test.local")
	vehicle := createTestVehicle(t, client.MemberID, "ABC-1234")
	space := createTestSpace(t, "A1", 5.0)

	// 已確認、時間窗已開始，但車位還停在 available（核准當時窗還沒開始）
	now := time.Now()
	insertReservation(t, client.MemberID, vehicle.VehicleID, space.SpaceID,
		now.Add(-time.Hour), now.Add(2*time.Hour), models.ReservationStatusConfirmed)

	require.NoError(t, ReconcileReservations())
	assert.Equal(t, models.SpaceStatusReserved, reloadSpace(t, space.SpaceID).Status)
}

func TestReconcileReleasesSpaceWithoutCoveringReservation(t *testing.T) {
	setupTestDB(t)

	space := createTestSpace(t, "A1", 5.0)
	setSpaceStatus(t, space.SpaceID, models.SpaceStatusReserved)

	// 沒有任何覆蓋當下的已確認預約，reserved 狀態應被收回
	require.NoError(t, ReconcileReservations())
	assert.Equal(t, models.SpaceStatusAvailable, reloadSpace(t, space.SpaceID).Status)
}

func TestReconcileExpiresUnusedConfirmedReservations(t *testing.T) {
	setupTestDB(t)

	client := createTestMember(t, models.RoleClient, "client@test.local")
	vehicle := createTestVehicle(t, client.MemberID, "ABC-1234")
	space := createTestSpace(t, "A1", 5.0)
	setSpaceStatus(t, space.SpaceID, models.SpaceStatusReserved)

	// 時間窗整個過去、沒被使用的已確認預約
	now := time.Now()
	expired := insertReservation(t, client.MemberID, vehicle.VehicleID, space.SpaceID,
		now.Add(-3*time.Hour), now.Add(-time.Hour), models.ReservationStatusConfirmed)

	require.NoError(t, ReconcileReservations())

	reloaded := reloadReservation(t, expired.ReservationID)
	assert.Equal(t, models.ReservationStatusCancelled, reloaded.Status)
	assert.Contains(t, reloaded.Notes, "expired unused")

	// 過期預約處理完後車位一併釋放
	assert.Equal(t, models.SpaceStatusAvailable, reloadSpace(t, space.SpaceID).Status)
}

func TestReconcileLeavesOccupiedSpacesAlone(t *testing.T) {
	setupTestDB(t)

	guard := createTestMember(t, models.RoleGuard, "guard@test.local")
	client := createTestMember(t, models.RoleClient, "client@test.local")
	vehicle := createTestVehicle(t, client.MemberID, "ABC-1234")
	space := createTestSpace(t, "A1", 5.0)

	_, err := RegisterEntry(guard.MemberID, client.MemberID, vehicle.VehicleID, space.SpaceID, "")
	require.NoError(t, err)

	// 對帳只處理 available 和 reserved，停著車的車位不動
	require.NoError(t, ReconcileReservations())
	assert.Equal(t, models.SpaceStatusOccupied, reloadSpace(t, space.SpaceID).Status)
}

func TestReconcileIgnoresPendingAndFutureReservations(t *testing.T) {
	setupTestDB(t)

	client := createTestMember(t, models.RoleClient, "client@test.local")
	vehicle := createTestVehicle(t, client.MemberID, "ABC-1234")
	spaceA := createTestSpace(t, "A1", 5.0)
	spaceB := createTestSpace(t, "A2", 5.0)

	now := time.Now()
	// pending 覆蓋當下不算數，要 confirmed 才會佔住車位
	insertReservation(t, client.MemberID, vehicle.VehicleID, spaceA.SpaceID,
		now.Add(-time.Hour), now.Add(time.Hour), models.ReservationStatusPending)
	// 已確認但時間窗還沒開始
	future := insertReservation(t, client.MemberID, vehicle.VehicleID, spaceB.SpaceID,
		now.Add(24*time.Hour), now.Add(26*time.Hour), models.ReservationStatusConfirmed)

	require.NoError(t, ReconcileReservations())

	assert.Equal(t, models.SpaceStatusAvailable, reloadSpace(t, spaceA.SpaceID).Status)
	assert.Equal(t, models.SpaceStatusAvailable, reloadSpace(t, spaceB.SpaceID).Status)
	assert.Equal(t, models.ReservationStatusConfirmed, reloadReservation(t, future.ReservationID).Status)
}
