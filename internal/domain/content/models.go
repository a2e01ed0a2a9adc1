package content

import (
	"time"

	"portfolio/internal/domain/asset"
)

// Base is embedded by every content model.
type Base struct {
	ID        uint      `gorm:"primaryKey" json:"id" form:"id"`
	CreatedAt time.Time `json:"created_at" form:"-"`
	UpdatedAt time.Time `json:"updated_at" form:"-"`
}

func (b *Base) GetID() uint       { return b.ID }
func (b *Base) SetID(id uint)     { b.ID = id }
func (b *Base) Files() []FileSlot { return nil }
func (b *Base) ApplyDefaults()    {}

type Profile struct {
	Base
	Name              string `gorm:"size:100;not null" json:"name" form:"name" validate:"required,max=100"`
	Title             string `gorm:"size:100;not null" json:"title" form:"title" validate:"required,max=100"`
	ShortBio          string `gorm:"size:500" json:"short_bio" form:"short_bio" validate:"max=500"`
	ProfilePictureURL string `gorm:"column:profile_picture_url" json:"profile_picture_url" form:"-"`
	CVURL             string `gorm:"column:cv_url" json:"cv_url" form:"-"`
}

func (Profile) TableName() string { return "profiles" }

func (p *Profile) Files() []FileSlot {
	return []FileSlot{
		{Part: "profilePicture", Subfolder: asset.SubfolderProfile, Ref: &p.ProfilePictureURL},
		{Part: "cvFile", Subfolder: asset.SubfolderCV, PinnedStem: "resume", Ref: &p.CVURL},
	}
}

type About struct {
	Base
	Content string `gorm:"type:text;not null" json:"content" form:"content" validate:"required"`
}

func (About) TableName() string { return "abouts" }

type Contact struct {
	Base
	Email       string `gorm:"not null" json:"email" form:"email" validate:"required,email"`
	Phone       string `json:"phone" form:"phone"`
	LinkedInURL string `gorm:"column:linked_in_url" json:"linkedin_url" form:"linkedin_url"`
	GitHubURL   string `gorm:"column:git_hub_url" json:"github_url" form:"github_url"`
	Address     string `json:"address" form:"address"`
}

func (Contact) TableName() string { return "contacts" }

type Experience struct {
	Base
	JobTitle    string     `gorm:"size:100;not null" json:"job_title" form:"job_title" validate:"required,max=100"`
	Company     string     `gorm:"size:100;not null" json:"company" form:"company" validate:"required,max=100"`
	StartDate   time.Time  `gorm:"not null;index" json:"start_date" form:"start_date" time_format:"2006-01-02" validate:"required"`
	EndDate     *time.Time `json:"end_date,omitempty" form:"end_date" time_format:"2006-01-02"`
	Description string     `gorm:"type:text" json:"description" form:"description"`
}

func (Experience) TableName() string { return "experiences" }

func (e *Experience) ApplyDefaults() { e.EndDate = clearZero(e.EndDate) }

type Project struct {
	Base
	Title       string `gorm:"size:100;not null" json:"title" form:"title" validate:"required,max=100"`
	Description string `gorm:"type:text" json:"description" form:"description"`
	ImageURL    string `gorm:"column:image_url" json:"image_url" form:"-"`
	ProjectLink string `json:"project_link" form:"project_link"`
}

func (Project) TableName() string { return "projects" }

func (p *Project) Files() []FileSlot {
	return []FileSlot{{Part: "projectImage", Subfolder: asset.SubfolderProjects, Ref: &p.ImageURL}}
}

type Skill struct {
	Base
	Name      string `gorm:"size:50;not null" json:"name" form:"name" validate:"required,max=50"`
	Category  string `gorm:"size:50;not null" json:"category" form:"category" validate:"required,max=50"`
	IconClass string `json:"icon_class" form:"icon_class"`
}

func (Skill) TableName() string { return "skills" }

func (s *Skill) ApplyDefaults() {
	if s.Category == "" {
		s.Category = "Other"
	}
	if s.IconClass == "" {
		s.IconClass = "bi-code-slash"
	}
}

type SocialLink struct {
	Base
	URL       string `gorm:"column:url;size:100;not null" json:"url" form:"url" validate:"required,max=100"`
	IconClass string `gorm:"size:50;not null" json:"icon_class" form:"icon_class" validate:"required,max=50"`
	Name      string `gorm:"size:50" json:"name" form:"name" validate:"max=50"`
}

func (SocialLink) TableName() string { return "social_links" }

func (s *SocialLink) ApplyDefaults() {
	if s.IconClass == "" {
		s.IconClass = "bi-link-45deg"
	}
}

type Education struct {
	Base
	Institution  string     `gorm:"size:100;not null" json:"institution" form:"institution" validate:"required,max=100"`
	Degree       string     `gorm:"size:100;not null" json:"degree" form:"degree" validate:"required,max=100"`
	FieldOfStudy string     `gorm:"size:100" json:"field_of_study" form:"field_of_study" validate:"max=100"`
	StartDate    time.Time  `gorm:"not null;index" json:"start_date" form:"start_date" time_format:"2006-01-02" validate:"required"`
	EndDate      *time.Time `json:"end_date,omitempty" form:"end_date" time_format:"2006-01-02"`
	Description  string     `gorm:"size:500" json:"description" form:"description" validate:"max=500"`
}

func (Education) TableName() string { return "educations" }

func (e *Education) ApplyDefaults() { e.EndDate = clearZero(e.EndDate) }

type Service struct {
	Base
	Title       string `gorm:"size:100;not null" json:"title" form:"title" validate:"required,max=100"`
	Description string `gorm:"type:text" json:"description" form:"description"`
	ImageURL    string `gorm:"column:image_url" json:"image_url" form:"-"`
}

func (Service) TableName() string { return "services" }

func (s *Service) Files() []FileSlot {
	return []FileSlot{{Part: "serviceImage", Subfolder: asset.SubfolderServices, Ref: &s.ImageURL}}
}

// clearZero maps a blank end date, as sent by an empty form field, to nil.
func clearZero(t *time.Time) *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	return t
}

// Models lists every content table, for migrations.
func Models() []any {
	return []any{
		&Profile{}, &About{}, &Contact{},
		&Experience{}, &Project{}, &Skill{}, &SocialLink{}, &Education{}, &Service{},
	}
}
