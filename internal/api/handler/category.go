package handler

import (
	"net/http"

	"ideahub/internal/apperr"
	"ideahub/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

const categoryCacheKeyPrefix = "categories"

type nameInput struct {
	Name string `json:"name" binding:"required,min=1,max=255"`
}

func ListCategories(db *gorm.DB, listCache *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q pageQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			badRequest(c, err)
			return
		}

		cacheKey := listCacheKey(categoryCacheKeyPrefix, q)
		if cached, found := listCache.Get(cacheKey); found {
			c.JSON(http.StatusOK, cached)
			return
		}

		var categories []model.Category
		err := db.WithContext(c.Request.Context()).Order("id").
			Offset(q.offset()).Limit(q.limit()).Find(&categories).Error
		if err != nil {
			fail(c, apperr.FromDB(err, "category"))
			return
		}
		listCache.Set(cacheKey, categories, cache.DefaultExpiration)
		c.JSON(http.StatusOK, categories)
	}
}

func GetCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		var category model.Category
		if err := db.WithContext(c.Request.Context()).First(&category, id).Error; err != nil {
			fail(c, apperr.FromDB(err, "category"))
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

func CreateCategory(db *gorm.DB, listCache *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input nameInput
		if err := c.ShouldBindJSON(&input); err != nil {
			badRequest(c, err)
			return
		}
		category := model.Category{Name: input.Name}
		if err := db.WithContext(c.Request.Context()).Create(&category).Error; err != nil {
			fail(c, apperr.FromDB(err, "category"))
			return
		}
		listCache.Flush()
		c.JSON(http.StatusCreated, category)
	}
}

func UpdateCategory(db *gorm.DB, listCache *cache.Cache) gin.HandlerFunc {
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

		ctx := c.Request.Context()
		var category model.Category
		if err := db.WithContext(ctx).First(&category, id).Error; err != nil {
			fail(c, apperr.FromDB(err, "category"))
			return
		}
		category.Name = input.Name
		if err := db.WithContext(ctx).Save(&category).Error; err != nil {
			fail(c, apperr.FromDB(err, "category"))
			return
		}
		listCache.Flush()
		c.JSON(http.StatusOK, category)
	}
}

func DeleteCategory(db *gorm.DB, listCache *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		err := db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
			var category model.Category
			if err := tx.First(&category, id).Error; err != nil {
				return err
			}
			if err := tx.Exec("DELETE FROM idea_categories WHERE category_id = ?", category.ID).Error; err != nil {
				return err
			}
			return tx.Delete(&category).Error
		})
		if err != nil {
			fail(c, apperr.FromDB(err, "category"))
			return
		}
		listCache.Flush()
		c.JSON(http.StatusOK, gin.H{"message": "category deleted"})
	}
}
