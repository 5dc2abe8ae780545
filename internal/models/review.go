package models

// Review is a bilateral rating left after a project closes: three 1-5
// dimensions plus a free-form comment. AverageRating stores the unrounded
// mean of the three dimensions so aggregate queries never re-derive it.
type Review struct {
	BaseModel
	ProjectID     uint    `gorm:"not null;index;uniqueIndex:idx_review_project_reviewer" json:"project_id"`
	ReviewerID    uint    `gorm:"not null;index;uniqueIndex:idx_review_project_reviewer" json:"reviewer_id"`
	RevieweeID    uint    `gorm:"not null;index" json:"reviewee_id"`
	Dimension1    int     `gorm:"not null;check:dimension1 >= 1 AND dimension1 <= 5" json:"dimension_1"`
	Dimension2    int     `gorm:"not null;check:dimension2 >= 1 AND dimension2 <= 5" json:"dimension_2"`
	Dimension3    int     `gorm:"not null;check:dimension3 >= 1 AND dimension3 <= 5" json:"dimension_3"`
	Comment       string  `gorm:"type:text" json:"comment"`
	AverageRating float64 `gorm:"not null" json:"average_rating"`

	Project  Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
	Reviewer User    `gorm:"foreignKey:ReviewerID" json:"-"`
	Reviewee User    `gorm:"foreignKey:RevieweeID" json:"-"`
}
