package dto

// ── 空闲表与教室状态 DTO ──

// AvailabilityRequest 空闲表查询参数；date 缺失或无法解析时取今天
type AvailabilityRequest struct {
	Date string `form:"date"`
}

// AvailabilityResponse 某日期的教室空闲表
type AvailabilityResponse struct {
	Date        string              `json:"date"`
	Weekday     string              `json:"weekday"`
	PrevDate    string              `json:"prev_date"`
	NextDate    string              `json:"next_date"`
	Checkpoints []string            `json:"checkpoints"`
	Classrooms  []ClassroomResponse `json:"classrooms"`
	// Availability 教室ID → 检查点 → 是否空闲
	Availability map[string]map[string]bool `json:"availability"`
}

// ClassroomStatusRequest 教室状态查询参数；at 为 RFC3339，缺失时取当前时间
type ClassroomStatusRequest struct {
	At string `form:"at"`
}

// ClassroomStatusItem 单个教室的实时状态。
// ongoing 时 current_class 为进行中的课；scheduled 时 current_class 为即将开始的一节，
// next_class 为其后一节（如有）。
type ClassroomStatusItem struct {
	Classroom    ClassroomResponse      `json:"classroom"`
	Status       string                 `json:"status"` // ongoing | scheduled | completed | free
	CurrentClass *ClassScheduleResponse `json:"current_class,omitempty"`
	NextClass    *ClassScheduleResponse `json:"next_class,omitempty"`
}

// ClassroomStatusResponse 全部教室状态快照
type ClassroomStatusResponse struct {
	At         string                `json:"at"`
	Weekday    string                `json:"weekday"`
	Classrooms []ClassroomStatusItem `json:"classrooms"`
}

// ── 教师工作台 ──

// ProfessorDashboardResponse 教师工作台：今日课程与最近预订
type ProfessorDashboardResponse struct {
	Today          string                  `json:"today"`
	Weekday        string                  `json:"weekday"`
	TodayClasses   []ClassScheduleResponse `json:"today_classes"`
	RecentBookings []BookingResponse       `json:"recent_bookings"`
}
