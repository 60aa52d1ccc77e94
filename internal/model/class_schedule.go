package model

// ClassSchedule 固定课表 — 对应 class_schedules
// (classroom_id, time_slot_id) 与 (batch_id, time_slot_id) 各自唯一
type ClassSchedule struct {
	ScheduleID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"schedule_id"`
	CourseID    string `gorm:"type:uuid;not null"                             json:"course_id"`
	ProfessorID string `gorm:"type:uuid;not null"                             json:"professor_id"`
	BatchID     string `gorm:"type:uuid;not null"                             json:"batch_id"`
	ClassroomID string `gorm:"type:uuid;not null"                             json:"classroom_id"`
	TimeSlotID  string `gorm:"type:uuid;not null"                             json:"time_slot_id"`
	BaseModel

	// 关联
	Course    *Course    `gorm:"foreignKey:CourseID;references:CourseID"       json:"course,omitempty"`
	Professor *User      `gorm:"foreignKey:ProfessorID;references:UserID"      json:"professor,omitempty"`
	Batch     *Batch     `gorm:"foreignKey:BatchID;references:BatchID"         json:"batch,omitempty"`
	Classroom *Classroom `gorm:"foreignKey:ClassroomID;references:ClassroomID" json:"classroom,omitempty"`
	TimeSlot  *TimeSlot  `gorm:"foreignKey:TimeSlotID;references:TimeSlotID"   json:"time_slot,omitempty"`
}

// TableName 指定表名
func (ClassSchedule) TableName() string { return "class_schedules" }
