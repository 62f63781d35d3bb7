package handler

import (
	"net/http"

	"ideahub/internal/access"
	"ideahub/internal/apperr"
	"ideahub/internal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type roleInput struct {
	Name        *string `json:"name" binding:"omitempty,min=1"`
	Permissions *[]uint `json:"permissions"`
}

func ListRoles(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var roles []model.Role
		if err := db.WithContext(c.Request.Context()).Preload("Permissions").Order("id").Find(&roles).Error; err != nil {
			fail(c, apperr.FromDB(err, "role"))
			return
		}
		c.JSON(http.StatusOK, roles)
	}
}

func GetRole(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		var role model.Role
		if err := db.WithContext(c.Request.Context()).Preload("Permissions").First(&role, id).Error; err != nil {
			fail(c, apperr.FromDB(err, "role"))
			return
		}
		c.JSON(http.StatusOK, role)
	}
}

func CreateRole(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input roleInput
		if err := c.ShouldBindJSON(&input); err != nil {
			badRequest(c, err)
			return
		}
		if input.Name == nil {
			fail(c, apperr.InvalidState("name is required"))
			return
		}

		role := model.Role{Name: *input.Name}
		err := db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
			if input.Permissions != nil {
				perms, err := findPermissions(tx, *input.Permissions)
				if err != nil {
					return err
				}
				role.Permissions = perms
			}
			return tx.Omit("Permissions.*").Create(&role).Error
		})
		if err != nil {
			fail(c, apperr.FromDB(err, "role"))
			return
		}
		c.JSON(http.StatusCreated, role)
	}
}

// UpdateRole renames a role and, when permissions is present, replaces its
// permission set. Admin and Guest are refused before anything is written.
func UpdateRole(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		var input roleInput
		if err := c.ShouldBindJSON(&input); err != nil {
			badRequest(c, err)
			return
		}

		var role model.Role
		err := db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
			if err := tx.Preload("Permissions").First(&role, id).Error; err != nil {
				return err
			}
			if err := access.CheckRoleMutable(role.Name); err != nil {
				return err
			}
			if input.Name != nil {
				if err := access.CheckRoleMutable(*input.Name); err != nil {
					return err
				}
				role.Name = *input.Name
				if err := tx.Model(&role).Update("name", role.Name).Error; err != nil {
					return err
				}
			}
			if input.Permissions != nil {
				perms, err := findPermissions(tx, *input.Permissions)
				if err != nil {
					return err
				}
				if err := tx.Model(&role).Association("Permissions").Replace(perms); err != nil {
					return err
				}
				role.Permissions = perms
			}
			return nil
		})
		if err != nil {
			fail(c, apperr.FromDB(err, "role"))
			return
		}
		c.JSON(http.StatusOK, role)
	}
}

// DeleteRole refuses Admin, Guest and any role still assigned to a user.
func DeleteRole(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		err := db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
			var role model.Role
			if err := tx.First(&role, id).Error; err != nil {
				return err
			}
			if err := access.CheckRoleMutable(role.Name); err != nil {
				return err
			}
			var users int64
			if err := tx.Model(&model.User{}).Where("role_id = ?", role.ID).Count(&users).Error; err != nil {
				return err
			}
			if users > 0 {
				return apperr.Conflict("role is still assigned to users")
			}
			if err := tx.Model(&role).Association("Permissions").Clear(); err != nil {
				return err
			}
			return tx.Delete(&role).Error
		})
		if err != nil {
			fail(c, apperr.FromDB(err, "role"))
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "role deleted"})
	}
}

// findPermissions loads every id in ids or fails with NotFound.
func findPermissions(tx *gorm.DB, ids []uint) ([]model.Permission, error) {
	perms := []model.Permission{}
	if len(ids) == 0 {
		return perms, nil
	}
	if err := tx.Where("id IN ?", ids).Find(&perms).Error; err != nil {
		return nil, err
	}
	if len(perms) != len(uniqueIDs(ids)) {
		return nil, apperr.NotFound("permission not found")
	}
	return perms, nil
}

func uniqueIDs(ids []uint) map[uint]struct{} {
	set := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
