package access_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ideahub/internal/access"
	"ideahub/internal/apperr"
	"ideahub/internal/database"
	"ideahub/internal/model"
)

func TestGormSourceAuthorize(t *testing.T) {
	db, err := database.Open(filepath.Join(t.TempDir(), "access.db"), zerolog.Nop())
	require.NoError(t, err)

	create := model.Permission{Name: string(access.IdeaCreate)}
	require.NoError(t, db.Create(&create).Error)
	staff := model.Role{Name: "staff", Permissions: []model.Permission{create}}
	require.NoError(t, db.Create(&staff).Error)
	user := model.User{Email: "staff@university.com", Password: "pw", RoleID: staff.ID}
	require.NoError(t, db.Omit("Role", "Department").Create(&user).Error)

	r := access.NewResolver(access.NewGormSource(db))
	ctx := context.Background()
	p := access.User(user.ID, "staff")

	d, err := r.Authorize(ctx, p, access.IdeaCreate)
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	d, err = r.Authorize(ctx, p, access.IdeaDelete)
	require.NoError(t, err)
	assert.False(t, d.Allowed)

	// Revocation is visible on the next check.
	require.NoError(t, db.Model(&staff).Association("Permissions").Clear())
	d, err = r.Authorize(ctx, p, access.IdeaCreate)
	require.NoError(t, err)
	assert.False(t, d.Allowed)

	_, err = r.Authorize(ctx, access.User(user.ID+100, "staff"), access.IdeaCreate)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
