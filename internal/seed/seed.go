// Package seed writes the rows the service needs before it can serve requests.
package seed

import (
	"context"
	"fmt"
	"strings"

	"ideahub/internal/access"
	"ideahub/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Admin identifies the administrator account created on first start.
type Admin struct {
	Email    string
	Password string
}

// Run is idempotent: it inserts the capability vocabulary, the Guest and Admin
// roles, the Unassigned department and the administrator, ignoring rows that
// already exist, and grants the wildcard to Admin if it lost it.
func Run(ctx context.Context, db *gorm.DB, admin Admin) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		caps := access.Capabilities()
		perms := make([]model.Permission, 0, len(caps))
		for _, c := range caps {
			perms = append(perms, model.Permission{Name: string(c)})
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&perms).Error; err != nil {
			return fmt.Errorf("seed permissions: %w", err)
		}

		roles := []model.Role{{Name: access.RoleGuest}, {Name: access.RoleAdmin}}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Omit("Permissions").Create(&roles).Error; err != nil {
			return fmt.Errorf("seed roles: %w", err)
		}

		var all model.Permission
		if err := tx.Where("name = ?", string(access.Wildcard)).First(&all).Error; err != nil {
			return fmt.Errorf("load wildcard permission: %w", err)
		}
		var adminRole model.Role
		if err := tx.Preload("Permissions").Where("name = ?", access.RoleAdmin).First(&adminRole).Error; err != nil {
			return fmt.Errorf("load admin role: %w", err)
		}
		if !hasPermission(adminRole, all.ID) {
			if err := tx.Model(&adminRole).Association("Permissions").Append(&all); err != nil {
				return fmt.Errorf("grant wildcard to admin: %w", err)
			}
		}

		dept := model.Department{Name: model.UnassignedDepartment}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&dept).Error; err != nil {
			return fmt.Errorf("seed departments: %w", err)
		}

		email := strings.ToLower(strings.TrimSpace(admin.Email))
		var count int64
		if err := tx.Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			user := model.User{
				Email:     email,
				Password:  admin.Password,
				FirstName: "Admin",
				LastName:  "University",
				RoleID:    adminRole.ID,
			}
			if err := tx.Omit("Role", "Department").Create(&user).Error; err != nil {
				return fmt.Errorf("seed admin user: %w", err)
			}
		}
		return nil
	})
}

func hasPermission(role model.Role, id uint) bool {
	for _, p := range role.Permissions {
		if p.ID == id {
			return true
		}
	}
	return false
}
