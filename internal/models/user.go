package models

type Role string

const (
	RoleUser   Role = "USER"
	RoleClient Role = "CLIENT"
	RoleAdmin  Role = "ADMIN"
)

type User struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	GUUID        string      `gorm:"uniqueIndex;not null" json:"guuid"` // public id, JWT subject
	Username     string      `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string      `json:"-"`
	ProfileImage string      `json:"profile_image"`
	Roles        StringArray `gorm:"type:jsonb" json:"roles"`
	Audit
}

func (u *User) HasRole(r Role) bool { return u.Roles.Contains(string(r)) }

func (u *User) Grant(r Role) {
	if !u.HasRole(r) {
		u.Roles = append(u.Roles, string(r))
	}
}
