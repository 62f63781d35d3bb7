package handler

import (
	"net/http"

	"ideahub/internal/access"
	"ideahub/internal/apperr"
	"ideahub/internal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type permissionInput struct {
	Name string `json:"name" binding:"required,capability"`
}

func ListPermissions(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var perms []model.Permission
		if err := db.WithContext(c.Request.Context()).Order("id").Find(&perms).Error; err != nil {
			fail(c, apperr.FromDB(err, "permission"))
			return
		}
		c.JSON(http.StatusOK, perms)
	}
}

func GetPermission(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		var perm model.Permission
		if err := db.WithContext(c.Request.Context()).First(&perm, id).Error; err != nil {
			fail(c, apperr.FromDB(err, "permission"))
			return
		}
		c.JSON(http.StatusOK, perm)
	}
}

func CreatePermission(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input permissionInput
		if err := c.ShouldBindJSON(&input); err != nil {
			badRequest(c, err)
			return
		}
		if err := access.CheckPermissionName(input.Name); err != nil {
			fail(c, err)
			return
		}
		perm := model.Permission{Name: input.Name}
		if err := db.WithContext(c.Request.Context()).Create(&perm).Error; err != nil {
			fail(c, apperr.FromDB(err, "permission"))
			return
		}
		c.JSON(http.StatusCreated, perm)
	}
}

func UpdatePermission(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		var input permissionInput
		if err := c.ShouldBindJSON(&input); err != nil {
			badRequest(c, err)
			return
		}

		var perm model.Permission
		err := db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&perm, id).Error; err != nil {
				return err
			}
			if err := access.CheckPermissionMutable(perm.Name); err != nil {
				return err
			}
			if err := access.CheckPermissionMutable(input.Name); err != nil {
				return err
			}
			if err := access.CheckPermissionName(input.Name); err != nil {
				return err
			}
			perm.Name = input.Name
			return tx.Save(&perm).Error
		})
		if err != nil {
			fail(c, apperr.FromDB(err, "permission"))
			return
		}
		c.JSON(http.StatusOK, perm)
	}
}

func DeletePermission(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		err := db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
			var perm model.Permission
			if err := tx.First(&perm, id).Error; err != nil {
				return err
			}
			if err := access.CheckPermissionMutable(perm.Name); err != nil {
				return err
			}
			if err := tx.Exec("DELETE FROM role_permissions WHERE permission_id = ?", perm.ID).Error; err != nil {
				return err
			}
			return tx.Delete(&perm).Error
		})
		if err != nil {
			fail(c, apperr.FromDB(err, "permission"))
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "permission deleted"})
	}
}
