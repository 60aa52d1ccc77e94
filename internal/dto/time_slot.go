package dto

// ── 时间段模块 DTO ──

// CreateTimeSlotRequest 创建时间段请求
type CreateTimeSlotRequest struct {
	Day       string `json:"day"        binding:"required,weekday"`
	StartTime string `json:"start_time" binding:"required,clock"` // "09:00"
	EndTime   string `json:"end_time"   binding:"required,clock"` // "10:00"
}

// UpdateTimeSlotRequest 更新时间段请求
type UpdateTimeSlotRequest struct {
	Day       *string `json:"day"        binding:"omitempty,weekday"`
	StartTime *string `json:"start_time" binding:"omitempty,clock"`
	EndTime   *string `json:"end_time"   binding:"omitempty,clock"`
}

// TimeSlotListRequest 时间段列表查询参数
type TimeSlotListRequest struct {
	Day string `form:"day" binding:"omitempty,weekday"`
}

// TimeSlotResponse 时间段信息响应
type TimeSlotResponse struct {
	ID        string `json:"id"`
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Label     string `json:"label"` // "Monday 09:00-10:00"
}
