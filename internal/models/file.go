package models

type ClosureFileStatus string

const (
	ClosureFileStatusPending  ClosureFileStatus = "pending"
	ClosureFileStatusAccepted ClosureFileStatus = "accepted"
	ClosureFileStatusReturned ClosureFileStatus = "returned"
)

// ProposalFile is the PDF a recipient attaches to their quote. At most one
// record per quote; re-uploading replaces the record in place and the
// previously stored bytes are simply orphaned.
type ProposalFile struct {
	BaseModel
	QuoteID     uint   `gorm:"not null;uniqueIndex" json:"quote_id"`
	UploaderID  uint   `gorm:"not null;index" json:"uploader_id"`
	Filename    string `gorm:"size:255;not null" json:"filename"`
	StoredPath  string `gorm:"size:255;not null" json:"-"`
	ContentType string `gorm:"size:100" json:"content_type"`
	Size        int64  `json:"size"`

	Quote    Quote `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE" json:"-"`
	Uploader User  `gorm:"foreignKey:UploaderID" json:"-"`
}

// ClosureFile is a versioned deliverable the assigned recipient submits on an
// active project. Version is nullable: rows migrated from the previous
// deployment predate versioning, sort as 0 and display as 1.
type ClosureFile struct {
	BaseModel
	ProjectID  uint              `gorm:"not null;index" json:"project_id"`
	UploaderID uint              `gorm:"not null;index" json:"uploader_id"`
	Filename   string            `gorm:"size:255;not null" json:"filename"`
	StoredPath string            `gorm:"size:255;not null" json:"-"`
	Version    *int              `json:"version"`
	Status     ClosureFileStatus `gorm:"size:20;not null;default:'pending'" json:"status"`

	Project  Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
	Uploader User    `gorm:"foreignKey:UploaderID" json:"-"`
}

// DisplayVersion reports the version shown to clients; NULL renders as 1.
func (f *ClosureFile) DisplayVersion() int {
	if f.Version == nil {
		return 1
	}
	return *f.Version
}
