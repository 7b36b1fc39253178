package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleUser.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("superuser").Valid())
	assert.False(t, Role("").Valid())
}

func TestUserJSONHidesPasswordHash(t *testing.T) {
	data, err := json.Marshal(User{ID: "u1", Email: "a@x.com", PasswordHash: "hashed"})
	assert.NoError(t, err)
	assert.NotContains(t, string(data), "hashed")
}
