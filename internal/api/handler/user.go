package handler

import (
	"net/http"
	"strings"
	"time"

	"ideahub/internal/access"
	"ideahub/internal/api/middleware"
	"ideahub/internal/apperr"
	"ideahub/internal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Login exchanges email and password for a signed token carrying the user's
// id and role name.
func Login(db *gorm.DB, secret string, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			badRequest(c, err)
			return
		}

		var user model.User
		err := db.WithContext(c.Request.Context()).Preload("Role").
			Where("email = ?", strings.ToLower(strings.TrimSpace(input.Email))).
			First(&user).Error
		if err != nil || !user.CheckPassword(input.Password) {
			fail(c, apperr.Unauthorized("invalid credentials provided"))
			return
		}

		token, err := middleware.IssueToken(access.User(user.ID, user.Role.Name), secret, ttl)
		if err != nil {
			fail(c, apperr.Internal("could not generate token", err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token, "role": user.Role.Name})
	}
}

// Me returns the authenticated user. Guests get their principal back.
func Me(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := middleware.CurrentPrincipal(c)
		if p.ID == nil {
			c.JSON(http.StatusOK, p)
			return
		}
		var user model.User
		if err := db.WithContext(c.Request.Context()).Preload("Role").Preload("Department").First(&user, *p.ID).Error; err != nil {
			fail(c, apperr.FromDB(err, "user"))
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

func ChangePassword(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			CurrentPassword string `json:"current_password" binding:"required"`
			NewPassword     string `json:"new_password" binding:"required,min=8"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			badRequest(c, err)
			return
		}
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		var user model.User
		if err := db.WithContext(c.Request.Context()).First(&user, userID).Error; err != nil {
			fail(c, apperr.FromDB(err, "user"))
			return
		}
		if !user.CheckPassword(input.CurrentPassword) {
			fail(c, apperr.InvalidState("current password incorrect"))
			return
		}
		hashed, err := model.HashPassword(input.NewPassword)
		if err != nil {
			fail(c, apperr.Internal("failed to hash password", err))
			return
		}
		if err := db.WithContext(c.Request.Context()).Model(&user).Update("password", hashed).Error; err != nil {
			fail(c, apperr.FromDB(err, "user"))
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "password updated successfully"})
	}
}

func ListUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q pageQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			badRequest(c, err)
			return
		}
		var users []model.User
		err := db.WithContext(c.Request.Context()).Preload("Role").Preload("Department").
			Order("id").Offset(q.offset()).Limit(q.limit()).Find(&users).Error
		if err != nil {
			fail(c, apperr.FromDB(err, "user"))
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

func GetUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		var user model.User
		if err := db.WithContext(c.Request.Context()).Preload("Role").Preload("Department").First(&user, id).Error; err != nil {
			fail(c, apperr.FromDB(err, "user"))
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

func CreateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Email        string `json:"email" binding:"required,email"`
			Password     string `json:"password" binding:"required,min=8"`
			FirstName    string `json:"first_name" binding:"required"`
			LastName     string `json:"last_name" binding:"required"`
			RoleID       uint   `json:"role_id" binding:"required"`
			DepartmentID *uint  `json:"department_id"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			badRequest(c, err)
			return
		}

		ctx := c.Request.Context()
		if err := db.WithContext(ctx).First(&model.Role{}, input.RoleID).Error; err != nil {
			fail(c, apperr.FromDB(err, "role"))
			return
		}
		if input.DepartmentID != nil {
			if err := db.WithContext(ctx).First(&model.Department{}, *input.DepartmentID).Error; err != nil {
				fail(c, apperr.FromDB(err, "department"))
				return
			}
		}

		user := model.User{
			Email:        strings.ToLower(strings.TrimSpace(input.Email)),
			Password:     input.Password, // BeforeCreate hook will hash this
			FirstName:    input.FirstName,
			LastName:     input.LastName,
			RoleID:       input.RoleID,
			DepartmentID: input.DepartmentID,
		}
		if err := db.WithContext(ctx).Omit("Role", "Department").Create(&user).Error; err != nil {
			fail(c, apperr.FromDB(err, "user"))
			return
		}
		c.JSON(http.StatusCreated, user)
	}
}

func UpdateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		var input struct {
			Email        *string `json:"email" binding:"omitempty,email"`
			Password     *string `json:"password" binding:"omitempty,min=8"`
			FirstName    *string `json:"first_name"`
			LastName     *string `json:"last_name"`
			RoleID       *uint   `json:"role_id"`
			DepartmentID *uint   `json:"department_id"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			badRequest(c, err)
			return
		}

		ctx := c.Request.Context()
		var user model.User
		if err := db.WithContext(ctx).First(&user, id).Error; err != nil {
			fail(c, apperr.FromDB(err, "user"))
			return
		}

		if input.Email != nil {
			user.Email = strings.ToLower(strings.TrimSpace(*input.Email))
		}
		if input.FirstName != nil {
			user.FirstName = *input.FirstName
		}
		if input.LastName != nil {
			user.LastName = *input.LastName
		}
		if input.RoleID != nil {
			if err := db.WithContext(ctx).First(&model.Role{}, *input.RoleID).Error; err != nil {
				fail(c, apperr.FromDB(err, "role"))
				return
			}
			user.RoleID = *input.RoleID
		}
		if input.DepartmentID != nil {
			if err := db.WithContext(ctx).First(&model.Department{}, *input.DepartmentID).Error; err != nil {
				fail(c, apperr.FromDB(err, "department"))
				return
			}
			user.DepartmentID = input.DepartmentID
		}
		if input.Password != nil {
			hashed, err := model.HashPassword(*input.Password)
			if err != nil {
				fail(c, apperr.Internal("failed to hash password", err))
				return
			}
			user.Password = hashed
		}

		if err := db.WithContext(ctx).Omit("Role", "Department").Save(&user).Error; err != nil {
			fail(c, apperr.FromDB(err, "user"))
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

func DeleteUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		res := db.WithContext(c.Request.Context()).Delete(&model.User{}, id)
		if res.Error != nil {
			fail(c, apperr.FromDB(res.Error, "user"))
			return
		}
		if res.RowsAffected == 0 {
			fail(c, apperr.NotFound("user not found"))
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
	}
}
