package model

// Course 课程表 — 对应 courses
type Course struct {
	CourseID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_id"`
	Code     string `gorm:"type:varchar(20);not null;uniqueIndex"          json:"code"`
	Name     string `gorm:"type:varchar(200);not null"                     json:"name"`
	Credits  int    `gorm:"not null;default:3"                             json:"credits"`
	BaseModel
}

// TableName 指定表名
func (Course) TableName() string { return "courses" }
