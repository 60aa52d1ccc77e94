package model

import "github.com/VeeraVardhan35/campusConnect/internal/scheduling"

// TimeSlot 每周重复时间段 — 对应 time_slots
// StartTime/EndTime 以 PostgreSQL time 存储，读出时可能带秒（"09:00:00"）
type TimeSlot struct {
	TimeSlotID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"time_slot_id"`
	Day        string `gorm:"type:varchar(10);not null"                      json:"day"`
	StartTime  string `gorm:"type:time;not null"                             json:"start_time"`
	EndTime    string `gorm:"type:time;not null"                             json:"end_time"`
	BaseModel
}

// TableName 指定表名
func (TimeSlot) TableName() string { return "time_slots" }

// Interval 解析为半开区间
func (t *TimeSlot) Interval() (scheduling.Interval, error) {
	return scheduling.ParseInterval(t.StartTime, t.EndTime)
}

// Weekday 所在星期
func (t *TimeSlot) Weekday() scheduling.Weekday {
	return scheduling.Weekday(t.Day)
}
