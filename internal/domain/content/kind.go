package content

// Record is implemented by every content model through *Base.
type Record interface {
	GetID() uint
	SetID(id uint)
	// Files exposes the record's file-reference fields.
	Files() []FileSlot
	ApplyDefaults()
}

// FileSlot binds a file-reference field to its upload part and subfolder.
type FileSlot struct {
	Part      string // multipart field carrying a replacement file
	Subfolder string
	// PinnedStem, when set, names the stored file "<stem><ext>" regardless
	// of the uploaded name, so its public URL stays stable.
	PinnedStem string
	Ref        *string
}

// Kind describes one entity kind: how it is addressed and listed.
type Kind struct {
	Name      string // singular, used in logs and errors
	Path      string // URL segment under /admin
	Singleton bool
	// OrderBy is a date column listed descending; empty means insertion order.
	OrderBy string
}

var (
	KindProfile    = Kind{Name: "profile", Path: "profile", Singleton: true}
	KindAbout      = Kind{Name: "about", Path: "about", Singleton: true}
	KindContact    = Kind{Name: "contact", Path: "contact", Singleton: true}
	KindExperience = Kind{Name: "experience", Path: "experiences", OrderBy: "start_date"}
	KindProject    = Kind{Name: "project", Path: "projects"}
	KindSkill      = Kind{Name: "skill", Path: "skills"}
	KindSocialLink = Kind{Name: "social link", Path: "social-links"}
	KindEducation  = Kind{Name: "education", Path: "educations", OrderBy: "start_date"}
	KindService    = Kind{Name: "service", Path: "services"}
)
