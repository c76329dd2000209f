package model

import (
	"testing"

	"uplink/backend/common"
	uperrors "uplink/backend/common/errors"
	"uplink/backend/common/i18n"

	"github.com/stretchr/testify/assert"
)

func TestUserInsertHashesPassword(t *testing.T) {
	teardown := setupModelTestDB(t)
	defer teardown()

	user := &User{
		Username: "alice",
		Password: "hunter22",
		Role:     common.RoleCommonUser,
		Status:   common.UserStatusEnabled,
	}
	assert.NoError(t, user.Insert())
	assert.NotEqual(t, "hunter22", user.Password)
	assert.True(t, common.ValidatePasswordAndHash("hunter22", user.Password))
}

func TestValidateAndFill(t *testing.T) {
	teardown := setupModelTestDB(t)
	defer teardown()

	seeded := &User{
		Username: "alice",
		Password: "hunter22",
		Role:     common.RoleCommonUser,
		Status:   common.UserStatusEnabled,
		Email:    "alice@example.com",
	}
	assert.NoError(t, seeded.Insert())

	login := &User{Username: "alice", Password: "hunter22"}
	assert.NoError(t, login.ValidateAndFill("en"))
	assert.Equal(t, seeded.ID, login.ID)
	assert.Equal(t, "alice@example.com", login.Email)

	wrong := &User{Username: "alice", Password: "nope"}
	err := wrong.ValidateAndFill("en")
	assert.True(t, i18n.IsErrorCode(err, uperrors.ErrInvalidCredentials))

	missing := &User{Username: "nobody", Password: "hunter22"}
	err = missing.ValidateAndFill("en")
	assert.True(t, i18n.IsErrorCode(err, uperrors.ErrInvalidCredentials))

	empty := &User{}
	err = empty.ValidateAndFill("en")
	assert.True(t, i18n.IsErrorCode(err, uperrors.ErrEmptyCredentials))
}

func TestValidateAndFill_DisabledUser(t *testing.T) {
	teardown := setupModelTestDB(t)
	defer teardown()

	seeded := &User{
		Username: "banned",
		Password: "hunter22",
		Role:     common.RoleCommonUser,
		Status:   common.UserStatusDisabled,
	}
	assert.NoError(t, seeded.Insert())

	// A disabled user fails the same way as a bad password.
	login := &User{Username: "banned", Password: "hunter22"}
	err := login.ValidateAndFill("en")
	assert.True(t, i18n.IsErrorCode(err, uperrors.ErrInvalidCredentials))
}

func TestUsernameAndEmailTaken(t *testing.T) {
	teardown := setupModelTestDB(t)
	defer teardown()

	user := &User{Username: "alice", Password: "hunter22", Email: "alice@example.com", Status: common.UserStatusEnabled}
	assert.NoError(t, user.Insert())

	assert.True(t, IsUsernameAlreadyTaken("alice"))
	assert.False(t, IsUsernameAlreadyTaken("bob"))
	assert.True(t, IsEmailAlreadyTaken("alice@example.com"))
	assert.False(t, IsEmailAlreadyTaken("bob@example.com"))
}

func TestCreateRootAccountOnFreshDB(t *testing.T) {
	teardown := setupModelTestDB(t)
	defer teardown()

	root := &User{Username: "root"}
	assert.NoError(t, root.FillUserByUsername("en"))
	assert.Equal(t, common.RoleRootUser, root.Role)

	// Root gets a workspace at creation time.
	workspace, err := GetWorkspaceByUserID(root.ID, "en")
	assert.NoError(t, err)
	assert.NotNil(t, workspace)
}
