package dto

// ── 临时预订 DTO ──

// CreateBookingRequest 创建预订请求
type CreateBookingRequest struct {
	ClassroomID string  `json:"classroom_id" binding:"required,uuid"`
	Date        string  `json:"date"         binding:"required,isodate"` // "2025-03-10"
	StartTime   string  `json:"start_time"   binding:"required,clock"`
	EndTime     string  `json:"end_time"     binding:"required,clock"`
	CourseCode  string  `json:"course_code"  binding:"omitempty,max=20"`
	CourseName  string  `json:"course_name"  binding:"required,max=200"`
	Purpose     string  `json:"purpose"      binding:"required,max=2000"`
	BatchID     *string `json:"batch_id"     binding:"omitempty,uuid"`
}

// UpdateBookingRequest 修改预订请求（仅待审批状态可修改）
type UpdateBookingRequest = CreateBookingRequest

// CheckBookingRequest 冲突预检请求；exclude_id 用于编辑场景排除自身
type CheckBookingRequest struct {
	ClassroomID string `json:"classroom_id" binding:"required,uuid"`
	Date        string `json:"date"         binding:"required,isodate"`
	StartTime   string `json:"start_time"   binding:"required,clock"`
	EndTime     string `json:"end_time"     binding:"required,clock"`
	ExcludeID   string `json:"exclude_id"   binding:"omitempty,uuid"`
}

// ConflictCheckResponse 冲突检查结果
type ConflictCheckResponse struct {
	Conflict    bool     `json:"conflict"`
	Reason      string   `json:"reason,omitempty"`
	ConflictIDs []string `json:"conflict_ids,omitempty"`
}

// BookingListRequest 预订列表查询参数（管理员）
type BookingListRequest struct {
	PaginationRequest
	Status      string `form:"status"       binding:"omitempty,oneof=pending approved rejected cancelled"`
	Date        string `form:"date"         binding:"omitempty,isodate"`
	ClassroomID string `form:"classroom_id" binding:"omitempty,uuid"`
	ProfessorID string `form:"professor_id" binding:"omitempty,uuid"`
}

// PrefillRequest 从空闲表发起预订时的表单预填参数
type PrefillRequest struct {
	ClassroomID string `form:"classroom_id" binding:"required,uuid"`
	Date        string `form:"date"         binding:"required,isodate"`
	Time        string `form:"time"         binding:"required,clock"`
}

// BookingFormResponse 预填后的预订表单
type BookingFormResponse struct {
	Classroom ClassroomResponse `json:"classroom"`
	Date      string            `json:"date"`
	StartTime string            `json:"start_time"`
	EndTime   string            `json:"end_time"`
}

// BookingResponse 预订信息响应
type BookingResponse struct {
	ID              string             `json:"id"`
	Professor       *UserBrief         `json:"professor,omitempty"`
	Classroom       *ClassroomResponse `json:"classroom,omitempty"`
	ClassroomID     string             `json:"classroom_id"`
	Batch           *BatchResponse     `json:"batch,omitempty"`
	Date            string             `json:"date"`
	StartTime       string             `json:"start_time"`
	EndTime         string             `json:"end_time"`
	DurationMinutes int                `json:"duration_minutes"`
	CourseCode      string             `json:"course_code"`
	CourseName      string             `json:"course_name"`
	Purpose         string             `json:"purpose"`
	Status          string             `json:"status"`
	CreatedAt       string             `json:"created_at"`
	UpdatedAt       string             `json:"updated_at"`
}
