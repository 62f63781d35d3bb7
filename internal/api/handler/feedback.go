package handler

import (
	"net/http"

	"ideahub/internal/apperr"
	"ideahub/internal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ideaExists fails with NotFound when id names no idea.
func ideaExists(db *gorm.DB, id uint) error {
	var n int64
	if err := db.Model(&model.Idea{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return apperr.FromDB(err, "idea")
	}
	if n == 0 {
		return apperr.NotFound("idea not found")
	}
	return nil
}

func ListComments(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		tx := db.WithContext(c.Request.Context())
		if err := ideaExists(tx, id); err != nil {
			fail(c, err)
			return
		}

		var comments []model.Comment
		if err := tx.Where("idea_id = ?", id).Order("created_at DESC, id DESC").Find(&comments).Error; err != nil {
			fail(c, apperr.FromDB(err, "comment"))
			return
		}
		for i := range comments {
			if comments[i].IsAnonymous {
				comments[i].UserID = 0
			}
		}
		c.JSON(http.StatusOK, comments)
	}
}

func CreateComment(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		var input struct {
			Content     string `json:"content" binding:"required"`
			IsAnonymous bool   `json:"is_anonymous"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			badRequest(c, err)
			return
		}
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		tx := db.WithContext(c.Request.Context())
		if err := ideaExists(tx, id); err != nil {
			fail(c, err)
			return
		}
		comment := model.Comment{
			IdeaID:      id,
			UserID:      userID,
			Content:     input.Content,
			IsAnonymous: input.IsAnonymous,
		}
		if err := tx.Omit("Idea").Create(&comment).Error; err != nil {
			fail(c, apperr.FromDB(err, "comment"))
			return
		}
		c.JSON(http.StatusCreated, comment)
	}
}

// GetReaction returns the caller's reaction to an idea, or none.
func GetReaction(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		reaction := model.Reaction{Type: model.ReactionNone}
		err := db.WithContext(c.Request.Context()).
			Where("idea_id = ? AND user_id = ?", id, userID).
			Limit(1).Find(&reaction).Error
		if err != nil {
			fail(c, apperr.FromDB(err, "reaction"))
			return
		}
		c.JSON(http.StatusOK, gin.H{"type": reaction.Type})
	}
}

// SetReaction records the caller's reaction, replacing any earlier one.
func SetReaction(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		var input struct {
			Type *int `json:"type" binding:"required,min=0,max=2"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			fail(c, apperr.InvalidState("this reaction type does not exist"))
			return
		}
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		tx := db.WithContext(c.Request.Context())
		if err := ideaExists(tx, id); err != nil {
			fail(c, err)
			return
		}
		reaction := model.Reaction{IdeaID: id, UserID: userID, Type: *input.Type}
		err := tx.Omit("Idea").Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "idea_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"type"}),
		}).Create(&reaction).Error
		if err != nil {
			fail(c, apperr.FromDB(err, "reaction"))
			return
		}
		c.JSON(http.StatusOK, gin.H{"type": reaction.Type})
	}
}

func ListViews(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		tx := db.WithContext(c.Request.Context())
		if err := ideaExists(tx, id); err != nil {
			fail(c, err)
			return
		}
		var views []model.View
		if err := tx.Where("idea_id = ?", id).Order("updated_at DESC").Find(&views).Error; err != nil {
			fail(c, apperr.FromDB(err, "view"))
			return
		}
		c.JSON(http.StatusOK, views)
	}
}

// RecordView marks the idea as seen by the caller. A repeat visit only moves
// updated_at.
func RecordView(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		tx := db.WithContext(c.Request.Context())
		if err := ideaExists(tx, id); err != nil {
			fail(c, err)
			return
		}
		view := model.View{IdeaID: id, UserID: userID}
		err := tx.Omit("Idea").Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "idea_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"updated_at"}),
		}).Create(&view).Error
		if err != nil {
			fail(c, apperr.FromDB(err, "view"))
			return
		}
		if err := tx.Where("idea_id = ? AND user_id = ?", id, userID).First(&view).Error; err != nil {
			fail(c, apperr.FromDB(err, "view"))
			return
		}
		c.JSON(http.StatusOK, gin.H{"created_at": view.CreatedAt, "updated_at": view.UpdatedAt})
	}
}
