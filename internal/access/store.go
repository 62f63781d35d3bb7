package access

import (
	"context"

	"ideahub/internal/apperr"
	"ideahub/internal/model"

	"gorm.io/gorm"
)

// GormSource reads role grants from the relational store on every call.
type GormSource struct {
	db *gorm.DB
}

func NewGormSource(db *gorm.DB) *GormSource {
	return &GormSource{db: db}
}

// RolePermissions loads the user's role together with its permissions.
func (s *GormSource) RolePermissions(ctx context.Context, userID uint) ([]string, error) {
	var user model.User
	err := s.db.WithContext(ctx).
		Select("id", "role_id").
		Preload("Role.Permissions").
		First(&user, userID).Error
	if err != nil {
		return nil, apperr.FromDB(err, "user")
	}
	names := make([]string, 0, len(user.Role.Permissions))
	for _, p := range user.Role.Permissions {
		names = append(names, p.Name)
	}
	return names, nil
}
