package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/VeeraVardhan35/campusConnect/internal/model"
	"github.com/VeeraVardhan35/campusConnect/internal/repository"
	"github.com/VeeraVardhan35/campusConnect/internal/scheduling"
)

// Stats 单类记录的写入统计
type Stats struct {
	Created   int
	Updated   int
	Unchanged int
}

// Report 一次导入的统计结果
type Report struct {
	Users          Stats
	Courses        Stats
	Classrooms     Stats
	TimeSlots      Stats
	Batches        Stats
	ClassSchedules Stats
}

// Seeder 夹具导入器
type Seeder struct {
	repo       *repository.Repository
	bcryptCost int
	logger     *zap.Logger
}

// NewSeeder 创建 Seeder
func NewSeeder(repo *repository.Repository, logger *zap.Logger) *Seeder {
	return &Seeder{repo: repo, bcryptCost: bcrypt.DefaultCost, logger: logger}
}

// Apply 在单个事务中写入全部夹具；任一记录失败则整体回滚
func (s *Seeder) Apply(ctx context.Context, fx *Fixtures) (*Report, error) {
	var report Report
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		report = Report{}
		run := &seedRun{Seeder: s, tx: tx, report: &report}
		steps := []func(context.Context, *Fixtures) error{
			run.users,
			run.courses,
			run.classrooms,
			run.timeSlots,
			run.batches,
			run.classSchedules,
		}
		for _, step := range steps {
			if err := step(ctx, fx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("夹具导入完成",
		zap.Any("users", report.Users),
		zap.Any("courses", report.Courses),
		zap.Any("classrooms", report.Classrooms),
		zap.Any("time_slots", report.TimeSlots),
		zap.Any("batches", report.Batches),
		zap.Any("class_schedules", report.ClassSchedules),
	)
	return &report, nil
}

// seedRun 单次事务内的状态
type seedRun struct {
	*Seeder
	tx     *repository.Repository
	report *Report
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// ── 用户 ──

func (r *seedRun) users(ctx context.Context, fx *Fixtures) error {
	for _, f := range fx.Users {
		existing, err := r.tx.User.GetByEmail(ctx, f.Email)
		if err != nil && !isNotFound(err) {
			return fmt.Errorf("查询用户 %s: %w", f.Email, err)
		}

		if existing == nil {
			hash, err := bcrypt.GenerateFromPassword([]byte(f.Password), r.bcryptCost)
			if err != nil {
				return fmt.Errorf("生成密码哈希 %s: %w", f.Email, err)
			}
			u := &model.User{Email: strings.ToLower(f.Email), PasswordHash: string(hash)}
			applyUser(u, f)
			if err := r.tx.User.Create(ctx, u); err != nil {
				return fmt.Errorf("创建用户 %s: %w", f.Email, err)
			}
			r.report.Users.Created++
			continue
		}

		before := *existing
		applyUser(existing, f)
		changed := !sameUser(&before, existing)
		// 仅在明文与现有哈希不匹配时重新生成，保持幂等
		if bcrypt.CompareHashAndPassword([]byte(existing.PasswordHash), []byte(f.Password)) != nil {
			hash, err := bcrypt.GenerateFromPassword([]byte(f.Password), r.bcryptCost)
			if err != nil {
				return fmt.Errorf("生成密码哈希 %s: %w", f.Email, err)
			}
			existing.PasswordHash = string(hash)
			changed = true
		}
		if !changed {
			r.report.Users.Unchanged++
			continue
		}
		if err := r.tx.User.Update(ctx, existing); err != nil {
			return fmt.Errorf("更新用户 %s: %w", f.Email, err)
		}
		r.report.Users.Updated++
	}
	return nil
}

func applyUser(u *model.User, f UserFixture) {
	u.Name = f.Name
	u.Role = f.Role
	u.ShortName = optString(f.ShortName)
	u.Branch = optString(f.Branch)
	u.Section = optString(strings.ToUpper(f.Section))
	u.Year = nil
	if f.Year > 0 {
		year := f.Year
		u.Year = &year
	}
	u.Normalize()
}

func sameUser(a, b *model.User) bool {
	return a.Name == b.Name && a.Role == b.Role &&
		eqString(a.ShortName, b.ShortName) && eqString(a.Branch, b.Branch) &&
		eqString(a.Section, b.Section) && eqInt(a.Year, b.Year)
}

// ── 课程与教室 ──

func (r *seedRun) courses(ctx context.Context, fx *Fixtures) error {
	for _, f := range fx.Courses {
		credits := f.Credits
		if credits <= 0 {
			credits = 3
		}
		existing, err := r.tx.Course.GetByCode(ctx, f.Code)
		switch {
		case isNotFound(err):
			if err := r.tx.Course.Create(ctx, &model.Course{Code: f.Code, Name: f.Name, Credits: credits}); err != nil {
				return fmt.Errorf("创建课程 %s: %w", f.Code, err)
			}
			r.report.Courses.Created++
		case err != nil:
			return fmt.Errorf("查询课程 %s: %w", f.Code, err)
		case existing.Name == f.Name && existing.Credits == credits:
			r.report.Courses.Unchanged++
		default:
			existing.Name, existing.Credits = f.Name, credits
			if err := r.tx.Course.Update(ctx, existing); err != nil {
				return fmt.Errorf("更新课程 %s: %w", f.Code, err)
			}
			r.report.Courses.Updated++
		}
	}
	return nil
}

func (r *seedRun) classrooms(ctx context.Context, fx *Fixtures) error {
	for _, f := range fx.Classrooms {
		building := f.Building
		if building == "" {
			building = model.DefaultBuilding
		}
		capacity := f.Capacity
		if capacity <= 0 {
			capacity = 60
		}
		existing, err := r.tx.Classroom.GetByRoomNumber(ctx, f.RoomNumber)
		switch {
		case isNotFound(err):
			room := &model.Classroom{RoomNumber: f.RoomNumber, Building: building, Capacity: capacity}
			if err := r.tx.Classroom.Create(ctx, room); err != nil {
				return fmt.Errorf("创建教室 %s: %w", f.RoomNumber, err)
			}
			r.report.Classrooms.Created++
		case err != nil:
			return fmt.Errorf("查询教室 %s: %w", f.RoomNumber, err)
		case existing.Building == building && existing.Capacity == capacity:
			r.report.Classrooms.Unchanged++
		default:
			existing.Building, existing.Capacity = building, capacity
			if err := r.tx.Classroom.Update(ctx, existing); err != nil {
				return fmt.Errorf("更新教室 %s: %w", f.RoomNumber, err)
			}
			r.report.Classrooms.Updated++
		}
	}
	return nil
}

// ── 时间段与班级 ──

func (r *seedRun) timeSlots(ctx context.Context, fx *Fixtures) error {
	for _, f := range fx.TimeSlots {
		day, _ := scheduling.ParseWeekday(f.Day)
		iv, _ := scheduling.ParseInterval(f.Start, f.End)

		existing, err := r.findSlot(ctx, day, iv.Start)
		if err != nil {
			return err
		}
		if existing == nil {
			slot := &model.TimeSlot{Day: string(day), StartTime: iv.Start.String(), EndTime: iv.End.String()}
			if err := r.tx.TimeSlot.Create(ctx, slot); err != nil {
				return fmt.Errorf("创建时间段 %s %s: %w", day, iv, err)
			}
			r.report.TimeSlots.Created++
			continue
		}

		end, err := scheduling.ParseClock(existing.EndTime)
		if err == nil && end == iv.End {
			r.report.TimeSlots.Unchanged++
			continue
		}
		existing.EndTime = iv.End.String()
		if err := r.tx.TimeSlot.Update(ctx, existing); err != nil {
			return fmt.Errorf("更新时间段 %s %s: %w", day, iv, err)
		}
		r.report.TimeSlots.Updated++
	}
	return nil
}

// findSlot 按星期与开始时间查找；数据库 time 列可能带秒，故在内存中比较
func (r *seedRun) findSlot(ctx context.Context, day scheduling.Weekday, start scheduling.Clock) (*model.TimeSlot, error) {
	slots, err := r.tx.TimeSlot.List(ctx, string(day))
	if err != nil {
		return nil, fmt.Errorf("查询 %s 的时间段: %w", day, err)
	}
	for i := range slots {
		if c, err := scheduling.ParseClock(slots[i].StartTime); err == nil && c == start {
			return &slots[i], nil
		}
	}
	return nil, nil
}

func (r *seedRun) batches(ctx context.Context, fx *Fixtures) error {
	for _, f := range fx.Batches {
		section := strings.ToUpper(f.Section)
		existing, err := r.tx.Batch.GetByCohort(ctx, f.Year, f.Branch, section)
		switch {
		case isNotFound(err):
			b := &model.Batch{Name: f.Name, Year: f.Year, Branch: f.Branch, Section: section}
			b.EnsureName()
			if err := r.tx.Batch.Create(ctx, b); err != nil {
				return fmt.Errorf("创建班级 %s: %w", b.Key(), err)
			}
			r.report.Batches.Created++
		case err != nil:
			return fmt.Errorf("查询班级 %d/%s/%s: %w", f.Year, f.Branch, section, err)
		case f.Name == "" || existing.Name == f.Name:
			r.report.Batches.Unchanged++
		default:
			existing.Name = f.Name
			if err := r.tx.Batch.Update(ctx, existing); err != nil {
				return fmt.Errorf("更新班级 %s: %w", existing.Key(), err)
			}
			r.report.Batches.Updated++
		}
	}
	return nil
}

// ── 固定课表 ──

func (r *seedRun) classSchedules(ctx context.Context, fx *Fixtures) error {
	for i, f := range fx.ClassSchedules {
		cs, err := r.resolveSchedule(ctx, f)
		if err != nil {
			return fmt.Errorf("class_schedules[%d]: %w", i, err)
		}

		inRoom, err := r.tx.ClassSchedule.FindByRoomSlot(ctx, cs.ClassroomID, cs.TimeSlotID)
		if err != nil && !isNotFound(err) {
			return fmt.Errorf("class_schedules[%d]: %w", i, err)
		}
		if inRoom != nil {
			if inRoom.BatchID == cs.BatchID && inRoom.CourseID == cs.CourseID && inRoom.ProfessorID == cs.ProfessorID {
				r.report.ClassSchedules.Unchanged++
				continue
			}
			return fmt.Errorf("class_schedules[%d]: 教室 %s 在 %s 已排其他课程", i, f.Classroom, f.Slot)
		}

		forBatch, err := r.tx.ClassSchedule.FindByBatchSlot(ctx, cs.BatchID, cs.TimeSlotID)
		if err != nil && !isNotFound(err) {
			return fmt.Errorf("class_schedules[%d]: %w", i, err)
		}
		if forBatch != nil {
			return fmt.Errorf("class_schedules[%d]: 班级 %s 在 %s 已有课程", i, f.Batch, f.Slot)
		}

		if err := r.tx.ClassSchedule.Create(ctx, cs); err != nil {
			return fmt.Errorf("class_schedules[%d]: %w", i, err)
		}
		r.report.ClassSchedules.Created++
	}
	return nil
}

func (r *seedRun) resolveSchedule(ctx context.Context, f ClassScheduleFixture) (*model.ClassSchedule, error) {
	course, err := r.tx.Course.GetByCode(ctx, f.Course)
	if err != nil {
		return nil, fmt.Errorf("课程 %s: %w", f.Course, err)
	}
	prof, err := r.tx.User.GetByEmail(ctx, f.Professor)
	if err != nil {
		return nil, fmt.Errorf("教师 %s: %w", f.Professor, err)
	}
	if !prof.IsProfessor() {
		return nil, fmt.Errorf("用户 %s 不是教师", f.Professor)
	}
	year, branch, section, _ := parseBatchKey(f.Batch)
	batch, err := r.tx.Batch.GetByCohort(ctx, year, branch, section)
	if err != nil {
		return nil, fmt.Errorf("班级 %s: %w", f.Batch, err)
	}
	room, err := r.tx.Classroom.GetByRoomNumber(ctx, f.Classroom)
	if err != nil {
		return nil, fmt.Errorf("教室 %s: %w", f.Classroom, err)
	}
	day, start, _ := parseSlotKey(f.Slot)
	slot, err := r.findSlot(ctx, day, start)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, fmt.Errorf("时间段 %s 不存在", f.Slot)
	}

	return &model.ClassSchedule{
		CourseID:    course.CourseID,
		ProfessorID: prof.UserID,
		BatchID:     batch.BatchID,
		ClassroomID: room.ClassroomID,
		TimeSlotID:  slot.TimeSlotID,
	}, nil
}

// ── 辅助 ──

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func eqString(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func eqInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
