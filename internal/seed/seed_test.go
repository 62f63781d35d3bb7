package seed

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideahub/internal/access"
	"ideahub/internal/database"
	"ideahub/internal/model"
)

func TestRunIsIdempotent(t *testing.T) {
	db, err := database.Open(filepath.Join(t.TempDir(), "seed.db"), zerolog.Nop())
	require.NoError(t, err)
	ctx := context.Background()
	admin := Admin{Email: "admin@university.com", Password: "admin123"}

	require.NoError(t, Run(ctx, db, admin))
	require.NoError(t, Run(ctx, db, admin))

	var perms int64
	require.NoError(t, db.Model(&model.Permission{}).Count(&perms).Error)
	assert.Equal(t, int64(len(access.Capabilities())), perms)

	var roles []model.Role
	require.NoError(t, db.Preload("Permissions").Order("name").Find(&roles).Error)
	require.Len(t, roles, 2)
	assert.Equal(t, access.RoleAdmin, roles[0].Name)
	require.Len(t, roles[0].Permissions, 1)
	assert.Equal(t, "*", roles[0].Permissions[0].Name)
	assert.Equal(t, access.RoleGuest, roles[1].Name)
	assert.Empty(t, roles[1].Permissions)

	var users []model.User
	require.NoError(t, db.Preload("Role").Find(&users).Error)
	require.Len(t, users, 1)
	assert.Equal(t, access.RoleAdmin, users[0].Role.Name)
	assert.True(t, users[0].CheckPassword("admin123"))

	var dept model.Department
	require.NoError(t, db.Where("name = ?", model.UnassignedDepartment).First(&dept).Error)
}

func TestRunRestoresAdminWildcard(t *testing.T) {
	db, err := database.Open(filepath.Join(t.TempDir(), "seed.db"), zerolog.Nop())
	require.NoError(t, err)
	ctx := context.Background()
	admin := Admin{Email: "admin@university.com", Password: "admin123"}
	require.NoError(t, Run(ctx, db, admin))

	var role model.Role
	require.NoError(t, db.Where("name = ?", access.RoleAdmin).First(&role).Error)
	require.NoError(t, db.Model(&role).Association("Permissions").Clear())

	require.NoError(t, Run(ctx, db, admin))
	assert.Equal(t, int64(1), db.Model(&role).Association("Permissions").Count())
}

func TestRunNormalisesAdminEmail(t *testing.T) {
	db, err := database.Open(filepath.Join(t.TempDir(), "seed.db"), zerolog.Nop())
	require.NoError(t, err)
	ctx := context.Background()
	admin := Admin{Email: " Admin@University.COM ", Password: "admin123"}

	require.NoError(t, Run(ctx, db, admin))
	require.NoError(t, Run(ctx, db, admin))

	var users []model.User
	require.NoError(t, db.Find(&users).Error)
	require.Len(t, users, 1)
	assert.Equal(t, "admin@university.com", users[0].Email)
}
