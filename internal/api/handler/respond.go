package handler

import (
	"strconv"

	"ideahub/internal/access"
	"ideahub/internal/api/middleware"
	"ideahub/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const defaultPageLimit = 10

type pageQuery struct {
	Page      int `form:"page" binding:"min=0"`
	PageLimit int `form:"pageLimit" binding:"omitempty,min=1,max=100"`
}

func (q pageQuery) limit() int {
	if q.PageLimit == 0 {
		return defaultPageLimit
	}
	return q.PageLimit
}

func (q pageQuery) offset() int {
	return q.Page * q.limit()
}

func pages(count int64, limit int) int64 {
	return (count + int64(limit) - 1) / int64(limit)
}

func fail(c *gin.Context, err error) {
	middleware.AbortWithError(c, err)
}

func badRequest(c *gin.Context, err error) {
	fail(c, apperr.InvalidState(err.Error()))
}

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		fail(c, apperr.InvalidState("invalid id"))
		return 0, false
	}
	return uint(id), true
}

// currentUserID returns the id of the authenticated user or fails the request
// when the principal has none.
func currentUserID(c *gin.Context) (uint, bool) {
	p := middleware.CurrentPrincipal(c)
	if p.ID == nil {
		fail(c, apperr.InvalidState("user id is undefined"))
		return 0, false
	}
	return *p.ID, true
}

// RegisterValidations adds the custom binding tags used by the handlers.
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("capability", func(fl validator.FieldLevel) bool {
		return access.Capability(fl.Field().String()).Valid()
	})
}
