// Package api assembles the HTTP routes of the idea service.
package api

import (
	"time"

	"ideahub/internal/access"
	"ideahub/internal/api/handler"
	"ideahub/internal/api/middleware"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type Options struct {
	DB         *gorm.DB
	Log        zerolog.Logger
	JWTSecret  string
	TokenTTL   time.Duration
	Uploads    handler.Uploads
	CORSOrigin string
	Production bool
}

// NewRouter builds the gin engine. Every route except login runs through the
// access control resolver with its own capability.
func NewRouter(opts Options) (*gin.Engine, error) {
	if err := handler.RegisterValidations(); err != nil {
		return nil, err
	}

	db := opts.DB
	resolver := access.NewResolver(access.NewGormSource(db))
	can := func(capability access.Capability) gin.HandlerFunc {
		return middleware.RequirePermission(resolver, capability)
	}
	listCache := handler.NewListCache()

	r := gin.New()
	r.MaxMultipartMemory = 8 << 20
	r.Use(
		middleware.Recovery(),
		middleware.AccessLog(opts.Log),
		middleware.SecureHeaders(opts.Production),
		middleware.CORSMiddleware(opts.CORSOrigin),
	)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(opts.JWTSecret))
	{
		v1.POST("/auth", handler.Login(db, opts.JWTSecret, opts.TokenTTL))
		v1.GET("/auth", handler.Me(db))
		v1.PUT("/auth/password", handler.ChangePassword(db))

		// Users
		v1.GET("/users", can(access.UserGetAll), handler.ListUsers(db))
		v1.GET("/users/:id", can(access.UserGetByID), handler.GetUser(db))
		v1.POST("/users", can(access.UserCreate), handler.CreateUser(db))
		v1.PUT("/users/:id", can(access.UserUpdate), handler.UpdateUser(db))
		v1.DELETE("/users/:id", can(access.UserDelete), handler.DeleteUser(db))

		// Roles and permissions
		v1.GET("/roles", can(access.RoleGetAll), handler.ListRoles(db))
		v1.GET("/roles/:id", can(access.RoleGetByID), handler.GetRole(db))
		v1.POST("/roles", can(access.RoleCreate), handler.CreateRole(db))
		v1.PUT("/roles/:id", can(access.RoleUpdate), handler.UpdateRole(db))
		v1.DELETE("/roles/:id", can(access.RoleDelete), handler.DeleteRole(db))

		v1.GET("/permissions", can(access.PermissionGetAll), handler.ListPermissions(db))
		v1.GET("/permissions/:id", can(access.PermissionGetByID), handler.GetPermission(db))
		v1.POST("/permissions", can(access.PermissionCreate), handler.CreatePermission(db))
		v1.PUT("/permissions/:id", can(access.PermissionUpdate), handler.UpdatePermission(db))
		v1.DELETE("/permissions/:id", can(access.PermissionDelete), handler.DeletePermission(db))

		// Academic years
		v1.GET("/years", can(access.YearGetAll), handler.ListYears(db))
		v1.GET("/years/:id", can(access.YearGetByID), handler.GetYear(db))
		v1.POST("/years", can(access.YearCreate), handler.CreateYear(db))
		v1.PUT("/years/:id", can(access.YearUpdate), handler.UpdateYear(db))
		v1.DELETE("/years/:id", can(access.YearDelete), handler.DeleteYear(db))

		// Categories and departments
		v1.GET("/categories", can(access.CategoryGetAll), handler.ListCategories(db, listCache))
		v1.GET("/categories/:id", can(access.CategoryGetByID), handler.GetCategory(db))
		v1.POST("/categories", can(access.CategoryCreate), handler.CreateCategory(db, listCache))
		v1.PUT("/categories/:id", can(access.CategoryUpdate), handler.UpdateCategory(db, listCache))
		v1.DELETE("/categories/:id", can(access.CategoryDelete), handler.DeleteCategory(db, listCache))

		v1.GET("/departments", can(access.DepartmentGetAll), handler.ListDepartments(db, listCache))
		v1.GET("/departments/:name", can(access.DepartmentGetByName), handler.SearchDepartments(db))
		v1.POST("/departments", can(access.DepartmentCreate), handler.CreateDepartment(db, listCache))
		v1.PUT("/departments/:id", can(access.DepartmentUpdate), handler.UpdateDepartment(db, listCache))
		v1.DELETE("/departments/:id", can(access.DepartmentDelete), handler.DeleteDepartment(db, listCache))

		// Ideas
		ideas := v1.Group("/ideas")
		{
			ideas.GET("", can(access.IdeaGetAll), handler.ListIdeas(db))
			ideas.GET("/csv", can(access.IdeaGetAllCSV), handler.ExportIdeasCSV(db))
			ideas.GET("/documents", can(access.IdeaGetAllDocuments), handler.ExportIdeaDocuments(db))
			ideas.GET("/:id", can(access.IdeaGetByID), handler.GetIdea(db))
			ideas.POST("", can(access.IdeaCreate), handler.CreateIdea(db, opts.Uploads))
			ideas.DELETE("/:id", can(access.IdeaDelete), handler.DeleteIdea(db))

			ideas.GET("/:id/comments", can(access.IdeaGetAllComment), handler.ListComments(db))
			ideas.POST("/:id/comments", can(access.IdeaCreateComment), handler.CreateComment(db))
			ideas.GET("/:id/reactions", can(access.IdeaGetReaction), handler.GetReaction(db))
			ideas.POST("/:id/reactions", can(access.IdeaCreateReaction), handler.SetReaction(db))
			ideas.GET("/:id/views", can(access.IdeaGetAllView), handler.ListViews(db))
			ideas.POST("/:id/views", can(access.IdeaCreateView), handler.RecordView(db))
		}
	}

	return r, nil
}
