package model

import (
	"time"

	"github.com/VeeraVardhan35/campusConnect/internal/scheduling"
)

// ClassroomBooking 临时教室预订 — 对应 classroom_bookings
// 记录只做状态流转，不删除
type ClassroomBooking struct {
	BookingID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"booking_id"`
	ProfessorID string    `gorm:"type:uuid;not null"                             json:"professor_id"`
	ClassroomID string    `gorm:"type:uuid;not null"                             json:"classroom_id"`
	BatchID     *string   `gorm:"type:uuid"                                      json:"batch_id,omitempty"`
	Date        time.Time `gorm:"type:date;not null"                             json:"date"`
	StartTime   string    `gorm:"type:time;not null"                             json:"start_time"`
	EndTime     string    `gorm:"type:time;not null"                             json:"end_time"`
	CourseCode  string    `gorm:"type:varchar(20);not null;default:''"           json:"course_code"`
	CourseName  string    `gorm:"type:varchar(200);not null"                     json:"course_name"`
	Purpose     string    `gorm:"type:text;not null"                             json:"purpose"`
	Status      string    `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	VersionedModel

	// 关联
	Professor *User      `gorm:"foreignKey:ProfessorID;references:UserID"      json:"professor,omitempty"`
	Classroom *Classroom `gorm:"foreignKey:ClassroomID;references:ClassroomID" json:"classroom,omitempty"`
	Batch     *Batch     `gorm:"foreignKey:BatchID;references:BatchID"         json:"batch,omitempty"`
}

// TableName 指定表名
func (ClassroomBooking) TableName() string { return "classroom_bookings" }

// Interval 解析为半开区间
func (b *ClassroomBooking) Interval() (scheduling.Interval, error) {
	return scheduling.ParseInterval(b.StartTime, b.EndTime)
}

// BookingStatus 当前状态
func (b *ClassroomBooking) BookingStatus() scheduling.BookingStatus {
	return scheduling.BookingStatus(b.Status)
}

// DateString ISO 日期
func (b *ClassroomBooking) DateString() string {
	return b.Date.Format(scheduling.DateLayout)
}
