package model

import "time"

type Idea struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time     `json:"created_at"`
	Content        string        `gorm:"not null" json:"content"`
	IsAnonymous    bool          `json:"is_anonymous"`
	UserID         uint          `gorm:"not null;index" json:"user_id,omitempty"`
	User           *User         `json:"user,omitempty"`
	AcademicYearID uint          `gorm:"not null;index" json:"academic_year_id"`
	AcademicYear   *AcademicYear `json:"academic_year,omitempty"`
	Categories     []Category    `gorm:"many2many:idea_categories" json:"categories"`
	Documents      []Document    `gorm:"constraint:OnDelete:CASCADE" json:"documents"`
}

// Document is a file uploaded alongside an idea.
type Document struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	IdeaID uint   `gorm:"not null;index" json:"idea_id"`
	Name   string `json:"name"`
	Path   string `gorm:"uniqueIndex;not null" json:"-"`
}

type Comment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	IdeaID      uint      `gorm:"not null;index" json:"idea_id"`
	Idea        *Idea     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UserID      uint      `gorm:"not null;index" json:"user_id,omitempty"`
	Content     string    `gorm:"not null" json:"content"`
	IsAnonymous bool      `json:"is_anonymous"`
}

// ReactionType values. Scores count thumbs up as +1 and thumbs down as -1.
const (
	ReactionNone      = 0
	ReactionThumbUp   = 1
	ReactionThumbDown = 2
)

type Reaction struct {
	IdeaID uint  `gorm:"primaryKey" json:"idea_id"`
	Idea   *Idea `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UserID uint  `gorm:"primaryKey" json:"user_id"`
	Type   int   `gorm:"not null;default:0" json:"type"`
}

// View records that a user opened an idea. UpdatedAt moves on every visit.
type View struct {
	IdeaID    uint      `gorm:"primaryKey" json:"idea_id"`
	Idea      *Idea     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UserID    uint      `gorm:"primaryKey" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// All lists every model for AutoMigrate.
func All() []any {
	return []any{
		&Permission{}, &Role{}, &Department{}, &Category{}, &User{},
		&AcademicYear{}, &Idea{}, &Document{}, &Comment{}, &Reaction{}, &View{},
	}
}
