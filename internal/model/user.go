package model

// 用户角色
const (
	RoleAdmin     = "admin"
	RoleProfessor = "professor"
	RoleStudent   = "student"
)

// User 用户表 — 对应 users
// ShortName 仅教师使用；Year/Branch/Section 仅学生使用，用于匹配所在班级
type User struct {
	UserID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name         string  `gorm:"type:varchar(100);not null"                     json:"name"`
	Email        string  `gorm:"type:varchar(255);not null"                     json:"email"`
	PasswordHash string  `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string  `gorm:"type:varchar(20);not null"                      json:"role"`
	ShortName    *string `gorm:"type:varchar(20)"                               json:"short_name,omitempty"`
	Year         *int    `json:"year,omitempty"`
	Branch       *string `gorm:"type:varchar(10)"                               json:"branch,omitempty"`
	Section      *string `gorm:"type:varchar(2)"                                json:"section,omitempty"`
	SoftDeleteModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// IsProfessor 是否为教师
func (u *User) IsProfessor() bool { return u.Role == RoleProfessor }

// Normalize 非教师不保留简称
func (u *User) Normalize() {
	if u.Role != RoleProfessor {
		u.ShortName = nil
	}
	if u.Role != RoleStudent {
		u.Year, u.Branch, u.Section = nil, nil, nil
	}
}
