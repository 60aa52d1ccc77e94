package dto

// ── 固定课表 DTO ──

// CreateClassScheduleRequest 创建课表请求
type CreateClassScheduleRequest struct {
	CourseID    string `json:"course_id"    binding:"required,uuid"`
	ProfessorID string `json:"professor_id" binding:"required,uuid"`
	BatchID     string `json:"batch_id"     binding:"required,uuid"`
	ClassroomID string `json:"classroom_id" binding:"required,uuid"`
	TimeSlotID  string `json:"time_slot_id" binding:"required,uuid"`
}

// ClassScheduleListRequest 课表列表查询参数
type ClassScheduleListRequest struct {
	BatchID     string `form:"batch_id"     binding:"omitempty,uuid"`
	ProfessorID string `form:"professor_id" binding:"omitempty,uuid"`
	ClassroomID string `form:"classroom_id" binding:"omitempty,uuid"`
	Day         string `form:"day"          binding:"omitempty,weekday"`
}

// ClassScheduleResponse 课表信息响应
type ClassScheduleResponse struct {
	ID        string             `json:"id"`
	Course    *CourseResponse    `json:"course,omitempty"`
	Professor *UserBrief         `json:"professor,omitempty"`
	Batch     *BatchResponse     `json:"batch,omitempty"`
	Classroom *ClassroomResponse `json:"classroom,omitempty"`
	TimeSlot  *TimeSlotResponse  `json:"time_slot,omitempty"`
}

// WeeklyTimetableResponse 周课表：六个教学日 × 按开始时间排序的节次
type WeeklyTimetableResponse struct {
	Days    []string                `json:"days"`
	Periods []string                `json:"periods"` // 去重后的 "HH:MM-HH:MM"
	Classes []ClassScheduleResponse `json:"classes"`
	// Grid 星期 → "HH:MM-HH:MM" → 该格的课程
	Grid map[string]map[string][]ClassScheduleResponse `json:"grid"`
}

// ProfessorClashResponse 教师同一时间在多处授课的审计结果
type ProfessorClashResponse struct {
	Professor *UserBrief             `json:"professor"`
	Day       string                 `json:"day"`
	Overlap   string                 `json:"overlap"` // "09:00-10:00"
	First     *ClassScheduleResponse `json:"first"`
	Second    *ClassScheduleResponse `json:"second"`
}
