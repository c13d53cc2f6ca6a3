package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUserInput(t *testing.T) {
	assert.Empty(t, ValidateUserInput("mia", "secret"))

	assert.Equal(t,
		[]string{"Username can't be blank", "Password can't be blank"},
		ValidateUserInput("  ", ""))
}

func TestValidateListInput(t *testing.T) {
	assert.Empty(t, ValidateListInput("groceries", PermissionPrivate))

	// Blank name and bad permission surface together, name first.
	assert.Equal(t,
		[]string{"Name can't be blank", "Permissions is not included in the list"},
		ValidateListInput("", Permission("exclusive")))
}

func TestValidateItemInput(t *testing.T) {
	done := false
	assert.Empty(t, ValidateItemInput("milk", &done))

	// A JSON null done must fail inclusion validation rather than
	// silently becoming false.
	assert.Equal(t,
		[]string{"Done is not included in the list"},
		ValidateItemInput("milk", nil))
}

func TestPermissionValid(t *testing.T) {
	assert.True(t, PermissionViewable.Valid())
	assert.True(t, PermissionPrivate.Valid())
	assert.True(t, PermissionOpen.Valid())
	assert.False(t, Permission("public").Valid())
	assert.False(t, Permission("").Valid())
	assert.Equal(t, PermissionViewable, DefaultPermission)
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusActive.Valid())
	assert.True(t, StatusArchived.Valid())
	assert.False(t, Status("deleted").Valid())
}
