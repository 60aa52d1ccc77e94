package model

// Classroom 教室表 — 对应 classrooms
type Classroom struct {
	ClassroomID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"classroom_id"`
	RoomNumber  string `gorm:"type:varchar(20);not null;uniqueIndex"          json:"room_number"`
	Building    string `gorm:"type:varchar(100);not null"                     json:"building"`
	Capacity    int    `gorm:"not null;default:60"                            json:"capacity"`
	BaseModel
}

// TableName 指定表名
func (Classroom) TableName() string { return "classrooms" }

// DefaultBuilding 未指定楼宇时的默认值
const DefaultBuilding = "Main Building"
