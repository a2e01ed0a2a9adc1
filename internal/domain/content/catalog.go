package content

import (
	"context"

	"gorm.io/gorm"
)

// Catalog holds the service of every content kind.
type Catalog struct {
	Profile     *Section[Profile, *Profile]
	About       *Section[About, *About]
	Contact     *Section[Contact, *Contact]
	Experiences *Section[Experience, *Experience]
	Projects    *Section[Project, *Project]
	Skills      *Section[Skill, *Skill]
	SocialLinks *Section[SocialLink, *SocialLink]
	Educations  *Section[Education, *Education]
	Services    *Section[Service, *Service]
}

func NewCatalog(d Deps) *Catalog {
	return &Catalog{
		Profile:     NewSection[Profile](KindProfile, d),
		About:       NewSection[About](KindAbout, d),
		Contact:     NewSection[Contact](KindContact, d),
		Experiences: NewSection[Experience](KindExperience, d),
		Projects:    NewSection[Project](KindProject, d),
		Skills:      NewSection[Skill](KindSkill, d),
		SocialLinks: NewSection[SocialLink](KindSocialLink, d),
		Educations:  NewSection[Education](KindEducation, d),
		Services:    NewSection[Service](KindService, d),
	}
}

// References collects the referenced file names of every kind that owns
// files, keyed by subfolder.
func (c *Catalog) References(ctx context.Context) (map[string]map[string]bool, error) {
	refs := map[string]map[string]bool{}
	for _, collect := range []func(context.Context, map[string]map[string]bool) error{
		c.Profile.References,
		c.Projects.References,
		c.Services.References,
	} {
		if err := collect(ctx, refs); err != nil {
			return nil, err
		}
	}
	return refs, nil
}

// Migrate creates or updates every content table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
