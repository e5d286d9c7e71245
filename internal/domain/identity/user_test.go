package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	user, err := NewUser("Ana.Souza", "segredo-forte", RoleLawyer)
	require.NoError(t, err)

	assert.Equal(t, "ana.souza", user.Username)
	assert.Equal(t, RoleLawyer, user.Role)
	assert.True(t, user.Active)
	assert.NotEqual(t, "segredo-forte", user.PasswordHash)
}

func TestNewUserValidation(t *testing.T) {
	_, err := NewUser("ab", "segredo-forte", RoleClerk)
	assert.Error(t, err, "short username")

	_, err = NewUser("ana souza", "segredo-forte", RoleClerk)
	assert.Error(t, err, "space in username")

	_, err = NewUser("ana", "curta", RoleClerk)
	assert.Error(t, err, "short password")

	_, err = NewUser("ana", "segredo-forte", Role("intern"))
	assert.Error(t, err, "unknown role")
}

func TestUserCheckPassword(t *testing.T) {
	user, err := NewUser("ana", "segredo-forte", RoleClerk)
	require.NoError(t, err)

	assert.True(t, user.CheckPassword("segredo-forte"))
	assert.False(t, user.CheckPassword("outra-senha"))
}

func TestUserChangePassword(t *testing.T) {
	user, err := NewUser("ana", "segredo-forte", RoleClerk)
	require.NoError(t, err)

	require.NoError(t, user.ChangePassword("novo-segredo"))
	assert.True(t, user.CheckPassword("novo-segredo"))
	assert.False(t, user.CheckPassword("segredo-forte"))

	err = user.ChangePassword("curta")
	assert.Error(t, err)
}

func TestUserSetEmail(t *testing.T) {
	user, err := NewUser("ana", "segredo-forte", RoleClerk)
	require.NoError(t, err)

	require.NoError(t, user.SetEmail("Ana@Escritorio.Adv.BR"))
	assert.Equal(t, "ana@escritorio.adv.br", user.Email)

	err = user.SetEmail("nao-eh-email")
	assert.Error(t, err)
}

func TestUserLifecycle(t *testing.T) {
	user, err := NewUser("ana", "segredo-forte", RoleAdmin)
	require.NoError(t, err)

	assert.True(t, user.IsAdmin())

	user.Deactivate()
	assert.False(t, user.Active)

	user.Activate()
	assert.True(t, user.Active)

	now := time.Now()
	user.RecordLogin(now)
	require.NotNil(t, user.LastLoginAt)
	assert.Equal(t, now.Unix(), user.LastLoginAt.Unix())
}
