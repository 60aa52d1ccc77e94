package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/VeeraVardhan35/campusConnect/internal/dto"
	"github.com/VeeraVardhan35/campusConnect/internal/model"
	"github.com/VeeraVardhan35/campusConnect/internal/repository"
	"github.com/VeeraVardhan35/campusConnect/internal/scheduling"
)

// TimetableService 周课表视图与教师排课审计
type TimetableService interface {
	// Weekly 按角色返回周课表：学生看所在班级，教师看本人，管理员看全部
	Weekly(ctx context.Context, userID, role string) (*dto.WeeklyTimetableResponse, error)
	// ProfessorClashes 同一教师同一天时间段相交的课表对，仅用于审计，不拦截排课
	ProfessorClashes(ctx context.Context) ([]dto.ProfessorClashResponse, error)
}

type timetableService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTimetableService 创建 TimetableService 实例
func NewTimetableService(repo *repository.Repository, logger *zap.Logger) TimetableService {
	return &timetableService{repo: repo, logger: logger}
}

// ────────────────────── Weekly ──────────────────────

func (s *timetableService) Weekly(ctx context.Context, userID, role string) (*dto.WeeklyTimetableResponse, error) {
	filter, ok, err := s.scopeFor(ctx, userID, role)
	if err != nil {
		return nil, err
	}
	if !ok {
		return buildWeekly(nil), nil
	}

	items, err := s.repo.ClassSchedule.List(ctx, filter)
	if err != nil {
		s.logger.Error("查询周课表失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return buildWeekly(items), nil
}

// scopeFor 角色 → 课表过滤条件；ok=false 表示该用户没有可见的课表
func (s *timetableService) scopeFor(ctx context.Context, userID, role string) (repository.ClassScheduleFilter, bool, error) {
	switch role {
	case model.RoleAdmin:
		return repository.ClassScheduleFilter{}, true, nil
	case model.RoleProfessor:
		return repository.ClassScheduleFilter{ProfessorID: userID}, true, nil
	}

	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		return repository.ClassScheduleFilter{}, false, notFoundOr(err, ErrUserNotFound)
	}
	if user.Year == nil || user.Branch == nil {
		return repository.ClassScheduleFilter{}, false, nil
	}
	bf := repository.BatchFilter{Year: *user.Year, Branch: *user.Branch}
	if user.Section != nil {
		bf.Section = *user.Section
	}
	batches, err := s.repo.Batch.List(ctx, bf)
	if err != nil {
		s.logger.Error("查询学生所在班级失败", zap.String("user_id", userID), zap.Error(err))
		return repository.ClassScheduleFilter{}, false, err
	}
	if len(batches) == 0 {
		return repository.ClassScheduleFilter{}, false, nil
	}
	ids := make([]string, len(batches))
	for i := range batches {
		ids[i] = batches[i].BatchID
	}
	return repository.ClassScheduleFilter{BatchIDs: ids}, true, nil
}

// buildWeekly 按六个教学日分组，节次按开始时间排序去重
func buildWeekly(items []model.ClassSchedule) *dto.WeeklyTimetableResponse {
	resp := &dto.WeeklyTimetableResponse{
		Days:    make([]string, len(scheduling.TeachingDays)),
		Classes: toClassScheduleList(items),
		Grid:    make(map[string]map[string][]dto.ClassScheduleResponse, len(scheduling.TeachingDays)),
	}
	for i, d := range scheduling.TeachingDays {
		resp.Days[i] = string(d)
		resp.Grid[string(d)] = make(map[string][]dto.ClassScheduleResponse)
	}

	slots := make([]*model.TimeSlot, 0, len(items))
	for i := range items {
		ts := items[i].TimeSlot
		if ts == nil {
			continue
		}
		slots = append(slots, ts)
		iv, err := ts.Interval()
		if err != nil {
			continue
		}
		row, ok := resp.Grid[ts.Day]
		if !ok {
			continue
		}
		row[iv.String()] = append(row[iv.String()], resp.Classes[i])
	}
	resp.Periods = periodsOf(slots)
	return resp
}

// ────────────────────── Audit ──────────────────────

func (s *timetableService) ProfessorClashes(ctx context.Context) ([]dto.ProfessorClashResponse, error) {
	items, err := s.repo.ClassSchedule.List(ctx, repository.ClassScheduleFilter{})
	if err != nil {
		s.logger.Error("查询课表失败", zap.Error(err))
		return nil, err
	}

	byID := make(map[string]*model.ClassSchedule, len(items))
	engagements := make([]scheduling.Engagement, 0, len(items))
	for i := range items {
		cs := &items[i]
		rec, ok := recurringOf(cs)
		if !ok {
			continue
		}
		byID[cs.ScheduleID] = cs
		engagements = append(engagements, scheduling.Engagement{
			ID:      cs.ScheduleID,
			OwnerID: cs.ProfessorID,
			Day:     rec.Day,
			Slot:    rec.Slot,
		})
	}

	clashes := scheduling.FindClashes(engagements)
	out := make([]dto.ProfessorClashResponse, 0, len(clashes))
	for _, c := range clashes {
		first, second := byID[c.FirstID], byID[c.SecondID]
		out = append(out, dto.ProfessorClashResponse{
			Professor: toUserBrief(first.Professor),
			Day:       string(c.Day),
			Overlap:   c.Overlap.String(),
			First:     toClassScheduleResponse(first),
			Second:    toClassScheduleResponse(second),
		})
	}
	if len(out) > 0 {
		s.logger.Info("发现教师排课重叠", zap.Int("count", len(out)))
	}
	return out, nil
}
