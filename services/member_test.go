package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkspot/models"
)

func TestRegisterMemberAndLogin(t *testing.T) {
	setupTestDB(t)

	member := &models.Member{
		Name:     "Carlos",
		Phone:    "0912345678",
		Password: "s3cret-password",
		Role:     models.RoleClient,
		Email:    "carlos@test.local",
	}
	require.NoError(t, RegisterMember(member))
	// 密碼進庫前要先哈希
	assert.NotEqual(t, "s3cret-password", member.Password)

	loggedIn, err := LoginMember("carlos@test.local", "s3cret-password")
	require.NoError(t, err)
	assert.Equal(t, member.MemberID, loggedIn.MemberID)
	assert.Equal(t, models.RoleClient, loggedIn.Role)

	_, err = LoginMember("carlos@test.local", "wrong-password")
	assert.True(t, IsInvalidOperation(err))

	// 登入失敗不透露帳號是否存在
	_, err = LoginMember("nobody@test.local", "whatever")
	assert.True(t, IsInvalidOperation(err))
	assert.Contains(t, err.Error(), "invalid email or password")
}

func TestRegisterMemberDuplicateEmail(t *testing.T) {
	setupTestDB(t)

	first := &models.Member{
		Name:     "Carlos",
		Phone:    "0912345678",
		Password: "s3cret-password",
		Role:     models.RoleClient,
		Email:    "carlos@test.local",
	}
	require.NoError(t, RegisterMember(first))

	second := &models.Member{
		Name:     "Other Carlos",
		Phone:    "0987654321",
		Password: "another-password",
		Role:     models.RoleGuard,
		Email:    "carlos@test.local",
	}
	err := RegisterMember(second)
	assert.True(t, IsDuplicate(err))
}

func TestRegisterMemberInvalidRole(t *testing.T) {
	setupTestDB(t)

	err := RegisterMember(&models.Member{
		Name:     "Carlos",
		Phone:    "0912345678",
		Password: "s3cret-password",
		Role:     "janitor",
		Email:    "carlos@test.local",
	})
	assert.True(t, IsValidation(err))
}

func TestGetMemberByID(t *testing.T) {
	setupTestDB(t)

	client := createTestMember(t, models.RoleClient, "client@test.local")
	createTestVehicle(t, client.MemberID, "ABC-1234")

	found, err := GetMemberByID(client.MemberID)
	require.NoError(t, err)
	assert.Equal(t, client.Email, found.Email)
	assert.Len(t, found.Vehicles, 1)

	_, err = GetMemberByID(9999)
	assert.True(t, IsNotFound(err))
}
