package handler

import (
	"net/http"
	"time"

	"ideahub/internal/academicyear"
	"ideahub/internal/apperr"
	"ideahub/internal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type yearInput struct {
	Name             *string    `json:"name" binding:"omitempty,min=1"`
	OpeningDate      *time.Time `json:"opening_date"`
	ClosureDate      *time.Time `json:"closure_date"`
	FinalClosureDate *time.Time `json:"final_closure_date"`
}

func (in yearInput) apply(y *model.AcademicYear) {
	if in.Name != nil {
		y.Name = *in.Name
	}
	if in.OpeningDate != nil {
		y.OpeningDate = *in.OpeningDate
	}
	if in.ClosureDate != nil {
		y.ClosureDate = *in.ClosureDate
	}
	if in.FinalClosureDate != nil {
		y.FinalClosureDate = *in.FinalClosureDate
	}
}

// yearView adds the current gate status to a stored year.
type yearView struct {
	model.AcademicYear
	Status academicyear.Status `json:"status"`
}

func viewYear(y model.AcademicYear, now time.Time) yearView {
	return yearView{AcademicYear: y, Status: academicyear.Classify(y.Period(), now)}
}

func ListYears(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q pageQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			badRequest(c, err)
			return
		}
		var years []model.AcademicYear
		err := db.WithContext(c.Request.Context()).Order("opening_date DESC").
			Offset(q.offset()).Limit(q.limit()).Find(&years).Error
		if err != nil {
			fail(c, apperr.FromDB(err, "academic year"))
			return
		}
		now := time.Now()
		out := make([]yearView, 0, len(years))
		for _, y := range years {
			out = append(out, viewYear(y, now))
		}
		c.JSON(http.StatusOK, out)
	}
}

func GetYear(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		var year model.AcademicYear
		if err := db.WithContext(c.Request.Context()).First(&year, id).Error; err != nil {
			fail(c, apperr.FromDB(err, "academic year"))
			return
		}
		c.JSON(http.StatusOK, viewYear(year, time.Now()))
	}
}

// CreateYear validates the date ordering before anything is stored.
func CreateYear(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input yearInput
		if err := c.ShouldBindJSON(&input); err != nil {
			badRequest(c, err)
			return
		}
		if input.Name == nil {
			fail(c, apperr.InvalidState("name is required"))
			return
		}

		var year model.AcademicYear
		input.apply(&year)
		if err := academicyear.Validate(year.Period()); err != nil {
			fail(c, err)
			return
		}
		if err := db.WithContext(c.Request.Context()).Create(&year).Error; err != nil {
			fail(c, apperr.FromDB(err, "academic year"))
			return
		}
		c.JSON(http.StatusCreated, viewYear(year, time.Now()))
	}
}

func UpdateYear(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		var input yearInput
		if err := c.ShouldBindJSON(&input); err != nil {
			badRequest(c, err)
			return
		}

		var year model.AcademicYear
		err := db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&year, id).Error; err != nil {
				return err
			}
			input.apply(&year)
			if err := academicyear.Validate(year.Period()); err != nil {
				return err
			}
			return tx.Save(&year).Error
		})
		if err != nil {
			fail(c, apperr.FromDB(err, "academic year"))
			return
		}
		c.JSON(http.StatusOK, viewYear(year, time.Now()))
	}
}

// DeleteYear fails with Conflict while ideas still reference the year.
func DeleteYear(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		res := db.WithContext(c.Request.Context()).Delete(&model.AcademicYear{}, id)
		if res.Error != nil {
			fail(c, apperr.FromDB(res.Error, "academic year"))
			return
		}
		if res.RowsAffected == 0 {
			fail(c, apperr.NotFound("academic year not found"))
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "academic year deleted"})
	}
}
