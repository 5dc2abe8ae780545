package models

type UserRole string

const (
	RoleDelegator UserRole = "delegator"
	RoleRecipient UserRole = "recipient"
)

// User is a registered account. Role is fixed at registration and never
// changes.
type User struct {
	BaseModel
	Username     string   `gorm:"size:80;uniqueIndex;not null" json:"username"`
	Email        string   `gorm:"size:120;uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"size:200;not null" json:"-"`
	Role         UserRole `gorm:"size:20;not null;index" json:"role"`
}

func (r UserRole) Valid() bool {
	return r == RoleDelegator || r == RoleRecipient
}
