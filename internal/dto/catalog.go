package dto

// ── 课程 ──

// CreateCourseRequest 创建课程请求
type CreateCourseRequest struct {
	Code    string `json:"code"    binding:"required,max=20"`
	Name    string `json:"name"    binding:"required,max=200"`
	Credits *int   `json:"credits" binding:"omitempty,min=0,max=30"`
}

// UpdateCourseRequest 更新课程请求
type UpdateCourseRequest struct {
	Code    *string `json:"code"    binding:"omitempty,max=20"`
	Name    *string `json:"name"    binding:"omitempty,max=200"`
	Credits *int    `json:"credits" binding:"omitempty,min=0,max=30"`
}

// CourseResponse 课程信息响应
type CourseResponse struct {
	ID      string `json:"id"`
	Code    string `json:"code"`
	Name    string `json:"name"`
	Credits int    `json:"credits"`
}

// ── 教室 ──

// CreateClassroomRequest 创建教室请求
type CreateClassroomRequest struct {
	RoomNumber string `json:"room_number" binding:"required,max=20"`
	Building   string `json:"building"    binding:"omitempty,max=100"`
	Capacity   *int   `json:"capacity"    binding:"omitempty,min=0"`
}

// UpdateClassroomRequest 更新教室请求
type UpdateClassroomRequest struct {
	RoomNumber *string `json:"room_number" binding:"omitempty,max=20"`
	Building   *string `json:"building"    binding:"omitempty,max=100"`
	Capacity   *int    `json:"capacity"    binding:"omitempty,min=0"`
}

// ClassroomResponse 教室信息响应
type ClassroomResponse struct {
	ID         string `json:"id"`
	RoomNumber string `json:"room_number"`
	Building   string `json:"building"`
	Capacity   int    `json:"capacity"`
}

// ── 班级 ──

// CreateBatchRequest 创建班级请求；name 为空时自动生成
type CreateBatchRequest struct {
	Name    string `json:"name"    binding:"omitempty,max=100"`
	Year    int    `json:"year"    binding:"required,min=2000,max=2100"`
	Branch  string `json:"branch"  binding:"required,branch"`
	Section string `json:"section" binding:"required,section"`
}

// UpdateBatchRequest 更新班级请求
type UpdateBatchRequest struct {
	Name    *string `json:"name"    binding:"omitempty,max=100"`
	Year    *int    `json:"year"    binding:"omitempty,min=2000,max=2100"`
	Branch  *string `json:"branch"  binding:"omitempty,branch"`
	Section *string `json:"section" binding:"omitempty,section"`
}

// BatchListRequest 班级列表查询参数
type BatchListRequest struct {
	Year    int    `form:"year"    binding:"omitempty,min=2000,max=2100"`
	Branch  string `form:"branch"  binding:"omitempty,branch"`
	Section string `form:"section" binding:"omitempty,section"`
}

// BatchResponse 班级信息响应
type BatchResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Year    int    `json:"year"`
	Branch  string `json:"branch"`
	Section string `json:"section"`
}
