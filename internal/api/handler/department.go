package handler

import (
	"net/http"
	"strings"

	"ideahub/internal/apperr"
	"ideahub/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

const departmentCacheKeyPrefix = "departments"

func checkDepartmentName(name string) error {
	if strings.EqualFold(strings.TrimSpace(name), model.UnassignedDepartment) {
		return apperr.InvalidState(model.UnassignedDepartment + " is a reserved name")
	}
	return nil
}

func ListDepartments(db *gorm.DB, listCache *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q pageQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			badRequest(c, err)
			return
		}

		cacheKey := listCacheKey(departmentCacheKeyPrefix, q)
		if cached, found := listCache.Get(cacheKey); found {
			c.JSON(http.StatusOK, cached)
			return
		}

		var departments []model.Department
		err := db.WithContext(c.Request.Context()).Order("id").
			Offset(q.offset()).Limit(q.limit()).Find(&departments).Error
		if err != nil {
			fail(c, apperr.FromDB(err, "department"))
			return
		}
		listCache.Set(cacheKey, departments, cache.DefaultExpiration)
		c.JSON(http.StatusOK, departments)
	}
}

// SearchDepartments returns departments whose name contains :name, ignoring case.
func SearchDepartments(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := strings.ToLower(strings.TrimSpace(c.Param("name")))
		if name == "" {
			fail(c, apperr.InvalidState("name is required"))
			return
		}
		var departments []model.Department
		err := db.WithContext(c.Request.Context()).
			Where("LOWER(name) LIKE ?", "%"+name+"%").
			Order("name").Find(&departments).Error
		if err != nil {
			fail(c, apperr.FromDB(err, "department"))
			return
		}
		c.JSON(http.StatusOK, departments)
	}
}

func CreateDepartment(db *gorm.DB, listCache *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input nameInput
		if err := c.ShouldBindJSON(&input); err != nil {
			badRequest(c, err)
			return
		}
		if err := checkDepartmentName(input.Name); err != nil {
			fail(c, err)
			return
		}
		department := model.Department{Name: input.Name}
		if err := db.WithContext(c.Request.Context()).Create(&department).Error; err != nil {
			fail(c, apperr.FromDB(err, "department"))
			return
		}
		listCache.Flush()
		c.JSON(http.StatusCreated, department)
	}
}

// UpdateDepartment renames a department. Neither the reserved department nor
// the reserved name can be used.
func UpdateDepartment(db *gorm.DB, listCache *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		var input nameInput
		if err := c.ShouldBindJSON(&input); err != nil {
			badRequest(c, err)
			return
		}
		if err := checkDepartmentName(input.Name); err != nil {
			fail(c, err)
			return
		}

		ctx := c.Request.Context()
		var department model.Department
		if err := db.WithContext(ctx).First(&department, id).Error; err != nil {
			fail(c, apperr.FromDB(err, "department"))
			return
		}
		if err := checkDepartmentName(department.Name); err != nil {
			fail(c, err)
			return
		}
		department.Name = input.Name
		if err := db.WithContext(ctx).Save(&department).Error; err != nil {
			fail(c, apperr.FromDB(err, "department"))
			return
		}
		listCache.Flush()
		c.JSON(http.StatusOK, department)
	}
}

// DeleteDepartment removes a department. Its users are left without one.
func DeleteDepartment(db *gorm.DB, listCache *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		err := db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
			var department model.Department
			if err := tx.First(&department, id).Error; err != nil {
				return err
			}
			if err := checkDepartmentName(department.Name); err != nil {
				return err
			}
			return tx.Delete(&department).Error
		})
		if err != nil {
			fail(c, apperr.FromDB(err, "department"))
			return
		}
		listCache.Flush()
		c.JSON(http.StatusOK, gin.H{"message": "department deleted"})
	}
}
