package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ideahub/internal/academicyear"
	"ideahub/internal/api/middleware"
	"ideahub/internal/apperr"
	"ideahub/internal/export"
	"ideahub/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const maxIdeaDocuments = 5

const (
	viewCountSQL     = "(SELECT COUNT(*) FROM views WHERE views.idea_id = ideas.id)"
	reactionScoreSQL = "(SELECT COALESCE(SUM(CASE reactions.type WHEN 1 THEN 1 WHEN 2 THEN -1 ELSE 0 END), 0) FROM reactions WHERE reactions.idea_id = ideas.id)"
)

var ideaOrders = map[string]string{
	"latest":    "ideas.created_at DESC",
	"views":     viewCountSQL + " DESC",
	"reactions": reactionScoreSQL + " DESC",
}

// allowedDocuments maps accepted file extensions to their media types.
var allowedDocuments = map[string]string{
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".pdf":  "application/pdf",
	".doc":  "application/msword",
}

// Uploads configures where idea documents are stored.
type Uploads struct {
	Dir      string
	MaxBytes int64
}

type ideaView struct {
	model.Idea
	ViewCount     int64 `json:"view_count"`
	ReactionScore int64 `json:"reaction_score"`
}

type ideaListQuery struct {
	pageQuery
	AcademicYear uint   `form:"academicYear" binding:"required"`
	Order        string `form:"order" binding:"omitempty,oneof=latest views reactions"`
}

type yearQuery struct {
	AcademicYear uint `form:"academicYear" binding:"required"`
}

// hideAuthor strips the author of an anonymous idea.
func hideAuthor(idea *model.Idea) {
	if idea.IsAnonymous {
		idea.UserID = 0
		idea.User = nil
	}
}

func findYear(db *gorm.DB, id uint) (model.AcademicYear, error) {
	var year model.AcademicYear
	if err := db.First(&year, id).Error; err != nil {
		return year, apperr.FromDB(err, "academic year")
	}
	return year, nil
}

type ideaCount struct {
	IdeaID uint
	Total  int64
}

// ideaStats returns view counts and reaction scores keyed by idea id.
func ideaStats(db *gorm.DB, ids []uint) (map[uint]int64, map[uint]int64, error) {
	views := make(map[uint]int64, len(ids))
	scores := make(map[uint]int64, len(ids))
	if len(ids) == 0 {
		return views, scores, nil
	}

	var rows []ideaCount
	err := db.Model(&model.View{}).Select("idea_id, COUNT(*) AS total").
		Where("idea_id IN ?", ids).Group("idea_id").Scan(&rows).Error
	if err != nil {
		return nil, nil, err
	}
	for _, r := range rows {
		views[r.IdeaID] = r.Total
	}

	rows = rows[:0]
	err = db.Model(&model.Reaction{}).
		Select("idea_id, SUM(CASE type WHEN ? THEN 1 WHEN ? THEN -1 ELSE 0 END) AS total", model.ReactionThumbUp, model.ReactionThumbDown).
		Where("idea_id IN ?", ids).Group("idea_id").Scan(&rows).Error
	if err != nil {
		return nil, nil, err
	}
	for _, r := range rows {
		scores[r.IdeaID] = r.Total
	}
	return views, scores, nil
}

func viewIdeas(db *gorm.DB, ideas []model.Idea) ([]ideaView, error) {
	ids := make([]uint, 0, len(ideas))
	for _, idea := range ideas {
		ids = append(ids, idea.ID)
	}
	views, scores, err := ideaStats(db, ids)
	if err != nil {
		return nil, err
	}
	out := make([]ideaView, 0, len(ideas))
	for _, idea := range ideas {
		hideAuthor(&idea)
		out = append(out, ideaView{Idea: idea, ViewCount: views[idea.ID], ReactionScore: scores[idea.ID]})
	}
	return out, nil
}

// ListIdeas returns one page of the ideas of an academic year with their view
// counts and reaction scores.
func ListIdeas(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q ideaListQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			badRequest(c, err)
			return
		}

		tx := db.WithContext(c.Request.Context())
		if _, err := findYear(tx, q.AcademicYear); err != nil {
			fail(c, err)
			return
		}

		var count int64
		if err := tx.Model(&model.Idea{}).Where("academic_year_id = ?", q.AcademicYear).Count(&count).Error; err != nil {
			fail(c, apperr.FromDB(err, "idea"))
			return
		}

		query := tx.Preload("User.Department").Preload("Categories").Preload("Documents").
			Where("academic_year_id = ?", q.AcademicYear)
		if order, ok := ideaOrders[q.Order]; ok {
			query = query.Order(order)
		}
		var ideas []model.Idea
		if err := query.Order("ideas.id").Offset(q.offset()).Limit(q.limit()).Find(&ideas).Error; err != nil {
			fail(c, apperr.FromDB(err, "idea"))
			return
		}

		data, err := viewIdeas(tx, ideas)
		if err != nil {
			fail(c, apperr.FromDB(err, "idea"))
			return
		}
		c.JSON(http.StatusOK, gin.H{"pages": pages(count, q.limit()), "data": data})
	}
}

// ExportIdeasCSV downloads every idea of an academic year as CSV.
func ExportIdeasCSV(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q yearQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			badRequest(c, err)
			return
		}

		tx := db.WithContext(c.Request.Context())
		year, err := findYear(tx, q.AcademicYear)
		if err != nil {
			fail(c, err)
			return
		}

		var ideas []model.Idea
		err = tx.Preload("User.Department").Preload("Categories").
			Where("academic_year_id = ?", year.ID).Order("ideas.id").Find(&ideas).Error
		if err != nil {
			fail(c, apperr.FromDB(err, "idea"))
			return
		}
		views, err := viewIdeas(tx, ideas)
		if err != nil {
			fail(c, apperr.FromDB(err, "idea"))
			return
		}

		rows := make([]export.IdeaRow, 0, len(views))
		for _, v := range views {
			row := export.IdeaRow{
				ID:            v.ID,
				Content:       v.Content,
				CreatedAt:     v.CreatedAt,
				ViewCount:     v.ViewCount,
				ReactionScore: v.ReactionScore,
			}
			if v.User != nil {
				row.FirstName, row.LastName = v.User.FirstName, v.User.LastName
				if v.User.Department != nil {
					row.Department = v.User.Department.Name
				}
			}
			for _, cat := range v.Categories {
				row.Categories = append(row.Categories, cat.Name)
			}
			rows = append(rows, row)
		}

		var buf bytes.Buffer
		if err := export.WriteIdeasCSV(&buf, rows); err != nil {
			fail(c, apperr.Internal("failed to write csv", err))
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="ideas_%s.csv"`, year.Name))
		c.Data(http.StatusOK, "text/csv", buf.Bytes())
	}
}

// ExportIdeaDocuments streams a zip of every document uploaded in an academic
// year, one folder per idea.
func ExportIdeaDocuments(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q yearQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			badRequest(c, err)
			return
		}

		tx := db.WithContext(c.Request.Context())
		year, err := findYear(tx, q.AcademicYear)
		if err != nil {
			fail(c, err)
			return
		}

		var docs []model.Document
		err = tx.Joins("JOIN ideas ON ideas.id = documents.idea_id").
			Where("ideas.academic_year_id = ?", year.ID).
			Order("documents.idea_id, documents.id").Find(&docs).Error
		if err != nil {
			fail(c, apperr.FromDB(err, "document"))
			return
		}

		files := make([]export.Document, 0, len(docs))
		for _, d := range docs {
			files = append(files, export.Document{IdeaID: d.IdeaID, Name: d.Name, Path: d.Path})
		}

		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="documents_%s.zip"`, year.Name))
		c.Header("Content-Type", "application/zip")
		c.Status(http.StatusOK)
		if err := export.WriteDocumentsZip(c.Writer, files); err != nil {
			zerolog.Ctx(c.Request.Context()).Error().Err(err).Uint("academic_year_id", year.ID).Msg("documents export failed")
			c.Abort()
		}
	}
}

func GetIdea(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}

		tx := db.WithContext(c.Request.Context())
		var idea model.Idea
		err := tx.Preload("User.Department").Preload("Categories").Preload("Documents").First(&idea, id).Error
		if err != nil {
			fail(c, apperr.FromDB(err, "idea"))
			return
		}
		views, err := viewIdeas(tx, []model.Idea{idea})
		if err != nil {
			fail(c, apperr.FromDB(err, "idea"))
			return
		}
		c.JSON(http.StatusOK, views[0])
	}
}

type ideaForm struct {
	Content      string `form:"content" binding:"required"`
	AcademicYear uint   `form:"academicYear" binding:"required"`
	Categories   string `form:"categories"`
	IsAnonymous  bool   `form:"isAnonymous"`
}

// CreateIdea stores a new idea with up to five documents. The academic year
// must be open for submissions and the caller must be a known user.
func CreateIdea(db *gorm.DB, uploads Uploads) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form ideaForm
		if err := c.ShouldBind(&form); err != nil {
			badRequest(c, err)
			return
		}

		tx := db.WithContext(c.Request.Context())
		year, err := findYear(tx, form.AcademicYear)
		if err != nil {
			fail(c, err)
			return
		}
		p := middleware.CurrentPrincipal(c)
		if p.ID == nil {
			fail(c, apperr.InvalidState("invalid year or missing user"))
			return
		}
		if err := academicyear.CheckSubmission(year.Period(), time.Now()); err != nil {
			fail(c, err)
			return
		}

		categories, err := findCategories(tx, form.Categories)
		if err != nil {
			fail(c, err)
			return
		}

		var files []*multipart.FileHeader
		if mf, err := c.MultipartForm(); err == nil {
			files = mf.File["documents"]
		}
		if err := checkDocuments(files, uploads.MaxBytes); err != nil {
			fail(c, err)
			return
		}

		docs, err := saveDocuments(c, files, uploads.Dir)
		if err != nil {
			fail(c, apperr.Internal("failed to store documents", err))
			return
		}

		idea := model.Idea{
			Content:        form.Content,
			IsAnonymous:    form.IsAnonymous,
			UserID:         *p.ID,
			AcademicYearID: year.ID,
			Categories:     categories,
			Documents:      docs,
		}
		if err := tx.Omit("Categories.*").Create(&idea).Error; err != nil {
			removeDocuments(c, docs)
			fail(c, apperr.FromDB(err, "idea"))
			return
		}
		c.JSON(http.StatusCreated, idea)
	}
}

// findCategories decodes a JSON array of category ids and loads them all.
func findCategories(db *gorm.DB, raw string) ([]model.Category, error) {
	categories := []model.Category{}
	if strings.TrimSpace(raw) == "" {
		return categories, nil
	}
	var ids []uint
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, apperr.InvalidState("categories must be a list of ids")
	}
	if len(ids) == 0 {
		return categories, nil
	}
	if err := db.Where("id IN ?", ids).Find(&categories).Error; err != nil {
		return nil, apperr.FromDB(err, "category")
	}
	if len(categories) != len(uniqueIDs(ids)) {
		return nil, apperr.NotFound("category not found")
	}
	return categories, nil
}

func checkDocuments(files []*multipart.FileHeader, maxBytes int64) error {
	if len(files) > maxIdeaDocuments {
		return apperr.InvalidState(fmt.Sprintf("at most %d documents can be uploaded", maxIdeaDocuments))
	}
	for _, fh := range files {
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		want, ok := allowedDocuments[ext]
		if !ok {
			return apperr.InvalidState("file upload only supports jpeg, jpg, png, pdf and doc")
		}
		mediaType, _, err := mime.ParseMediaType(fh.Header.Get("Content-Type"))
		if err != nil || mediaType != want {
			return apperr.InvalidState(fmt.Sprintf("%s: content type does not match its extension", fh.Filename))
		}
		if fh.Size > maxBytes {
			return apperr.InvalidState(fmt.Sprintf("%s exceeds the %d byte limit", fh.Filename, maxBytes))
		}
	}
	return nil
}

// saveDocuments writes files under dir with random names. On failure the
// files already written are removed.
func saveDocuments(c *gin.Context, files []*multipart.FileHeader, dir string) ([]model.Document, error) {
	docs := make([]model.Document, 0, len(files))
	if len(files) == 0 {
		return docs, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	for _, fh := range files {
		dst := filepath.Join(dir, uuid.NewString()+strings.ToLower(filepath.Ext(fh.Filename)))
		if err := c.SaveUploadedFile(fh, dst); err != nil {
			removeDocuments(c, docs)
			return nil, err
		}
		docs = append(docs, model.Document{Name: filepath.Base(fh.Filename), Path: dst})
	}
	return docs, nil
}

func removeDocuments(c *gin.Context, docs []model.Document) {
	for _, d := range docs {
		if err := os.Remove(d.Path); err != nil && !os.IsNotExist(err) {
			zerolog.Ctx(c.Request.Context()).Warn().Err(err).Str("path", d.Path).Msg("failed to remove document")
		}
	}
}

// DeleteIdea removes an idea with its documents, comments, reactions and views.
func DeleteIdea(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}

		var idea model.Idea
		err := db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
			if err := tx.Preload("Documents").First(&idea, id).Error; err != nil {
				return err
			}
			if err := tx.Model(&idea).Association("Categories").Clear(); err != nil {
				return err
			}
			return tx.Select("Documents").Delete(&idea).Error
		})
		if err != nil {
			fail(c, apperr.FromDB(err, "idea"))
			return
		}
		removeDocuments(c, idea.Documents)
		c.JSON(http.StatusOK, gin.H{"message": "idea deleted"})
	}
}
