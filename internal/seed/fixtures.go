// Package seed 将声明式夹具文件（YAML/JSON）写入数据库，按自然键幂等更新
package seed

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/VeeraVardhan35/campusConnect/internal/model"
	"github.com/VeeraVardhan35/campusConnect/internal/scheduling"
)

// Fixtures 夹具文件顶层结构；记录之间通过自然键互相引用
type Fixtures struct {
	Users          []UserFixture          `mapstructure:"users"`
	Courses        []CourseFixture        `mapstructure:"courses"`
	Classrooms     []ClassroomFixture     `mapstructure:"classrooms"`
	TimeSlots      []TimeSlotFixture      `mapstructure:"time_slots"`
	Batches        []BatchFixture         `mapstructure:"batches"`
	ClassSchedules []ClassScheduleFixture `mapstructure:"class_schedules"`
}

// UserFixture 以 email 为自然键
type UserFixture struct {
	Name      string `mapstructure:"name"`
	Email     string `mapstructure:"email"`
	Password  string `mapstructure:"password"`
	Role      string `mapstructure:"role"`
	ShortName string `mapstructure:"short_name"`
	Year      int    `mapstructure:"year"`
	Branch    string `mapstructure:"branch"`
	Section   string `mapstructure:"section"`
}

// CourseFixture 以 code 为自然键
type CourseFixture struct {
	Code    string `mapstructure:"code"`
	Name    string `mapstructure:"name"`
	Credits int    `mapstructure:"credits"`
}

// ClassroomFixture 以 room_number 为自然键
type ClassroomFixture struct {
	RoomNumber string `mapstructure:"room_number"`
	Building   string `mapstructure:"building"`
	Capacity   int    `mapstructure:"capacity"`
}

// TimeSlotFixture 以 day + start 为自然键
type TimeSlotFixture struct {
	Day   string `mapstructure:"day"`
	Start string `mapstructure:"start"`
	End   string `mapstructure:"end"`
}

// BatchFixture 以 year/branch/section 为自然键
type BatchFixture struct {
	Name    string `mapstructure:"name"`
	Year    int    `mapstructure:"year"`
	Branch  string `mapstructure:"branch"`
	Section string `mapstructure:"section"`
}

// ClassScheduleFixture 全部字段均为其他记录的自然键
type ClassScheduleFixture struct {
	Course    string `mapstructure:"course"`    // 课程代码 "CS101"
	Professor string `mapstructure:"professor"` // 教师邮箱
	Batch     string `mapstructure:"batch"`     // "2025/cs/A"
	Classroom string `mapstructure:"classroom"` // 教室号 "L101"
	Slot      string `mapstructure:"slot"`      // "monday 09:00"
}

// Load 读取夹具文件，格式由扩展名决定
func Load(path string) (*Fixtures, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取夹具文件失败: %w", err)
	}

	var fx Fixtures
	if err := v.Unmarshal(&fx); err != nil {
		return nil, fmt.Errorf("解析夹具文件失败: %w", err)
	}
	if err := fx.Validate(); err != nil {
		return nil, err
	}
	return &fx, nil
}

// Validate 写库前的静态校验，错误信息指明第几条记录
func (fx *Fixtures) Validate() error {
	emails := make(map[string]bool)
	for i, u := range fx.Users {
		switch {
		case u.Email == "" || u.Name == "":
			return fmt.Errorf("users[%d]: name 与 email 不能为空", i)
		case u.Password == "":
			return fmt.Errorf("users[%d] %s: password 不能为空", i, u.Email)
		case u.Role != model.RoleAdmin && u.Role != model.RoleProfessor && u.Role != model.RoleStudent:
			return fmt.Errorf("users[%d] %s: 未知角色 %q", i, u.Email, u.Role)
		}
		key := strings.ToLower(u.Email)
		if emails[key] {
			return fmt.Errorf("users[%d]: 邮箱 %s 重复", i, u.Email)
		}
		emails[key] = true
	}
	for i, c := range fx.Courses {
		if c.Code == "" || c.Name == "" {
			return fmt.Errorf("courses[%d]: code 与 name 不能为空", i)
		}
	}
	for i, r := range fx.Classrooms {
		if r.RoomNumber == "" {
			return fmt.Errorf("classrooms[%d]: room_number 不能为空", i)
		}
	}
	for i, s := range fx.TimeSlots {
		if _, err := scheduling.ParseWeekday(s.Day); err != nil {
			return fmt.Errorf("time_slots[%d]: %w", i, err)
		}
		if _, err := scheduling.ParseInterval(s.Start, s.End); err != nil {
			return fmt.Errorf("time_slots[%d] %s %s: %w", i, s.Day, s.Start, err)
		}
	}
	for i, b := range fx.Batches {
		if _, ok := model.BranchNames[b.Branch]; !ok {
			return fmt.Errorf("batches[%d]: 未知专业 %q", i, b.Branch)
		}
		if b.Year <= 0 || b.Section == "" {
			return fmt.Errorf("batches[%d]: year 与 section 不能为空", i)
		}
	}
	for i, cs := range fx.ClassSchedules {
		if _, _, err := parseSlotKey(cs.Slot); err != nil {
			return fmt.Errorf("class_schedules[%d]: %w", i, err)
		}
		if _, _, _, err := parseBatchKey(cs.Batch); err != nil {
			return fmt.Errorf("class_schedules[%d]: %w", i, err)
		}
	}
	return nil
}

// parseSlotKey 解析 "monday 09:00"
func parseSlotKey(key string) (scheduling.Weekday, scheduling.Clock, error) {
	fields := strings.Fields(key)
	if len(fields) != 2 {
		return "", 0, fmt.Errorf("时间段引用 %q 应为 \"<星期> <HH:MM>\"", key)
	}
	day, err := scheduling.ParseWeekday(fields[0])
	if err != nil {
		return "", 0, err
	}
	start, err := scheduling.ParseClock(fields[1])
	if err != nil {
		return "", 0, err
	}
	return day, start, nil
}

// parseBatchKey 解析 "2025/cs/A"
func parseBatchKey(key string) (int, string, string, error) {
	parts := strings.Split(key, "/")
	if len(parts) != 3 {
		return 0, "", "", fmt.Errorf("班级引用 %q 应为 \"<年级>/<专业>/<班号>\"", key)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, "", "", fmt.Errorf("班级引用 %q 年级无效", key)
	}
	return year, parts[1], strings.ToUpper(parts[2]), nil
}
