package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/VeeraVardhan35/campusConnect/config"
	"github.com/VeeraVardhan35/campusConnect/internal/dto"
	"github.com/VeeraVardhan35/campusConnect/internal/model"
	"github.com/VeeraVardhan35/campusConnect/internal/repository"
	"github.com/VeeraVardhan35/campusConnect/internal/scheduling"
	pkgerrors "github.com/VeeraVardhan35/campusConnect/pkg/errors"
	"github.com/VeeraVardhan35/campusConnect/pkg/metrics"
)

// 预订操作结果，作为 metrics 标签
const (
	outcomeCreated     = "created"
	outcomeUpdated     = "updated"
	outcomeConflict    = "conflict"
	outcomeRace        = "race"
	outcomeRateLimited = "rate_limited"
	outcomeCancelled   = "cancelled"
	outcomeApproved    = "approved"
	outcomeRejected    = "rejected"
)

// BookingService 临时预订业务接口
type BookingService interface {
	Create(ctx context.Context, professorID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error)
	// Update 仅预订人本人、仅待审批状态可修改
	Update(ctx context.Context, professorID, id string, req *dto.UpdateBookingRequest) (*dto.BookingResponse, error)
	Cancel(ctx context.Context, professorID, id string) (*dto.BookingResponse, error)
	Approve(ctx context.Context, id string) (*dto.BookingResponse, error)
	Reject(ctx context.Context, id string) (*dto.BookingResponse, error)
	// Get 预订人本人或管理员可见
	Get(ctx context.Context, userID, role, id string) (*dto.BookingResponse, error)
	ListMine(ctx context.Context, professorID string) ([]dto.BookingResponse, error)
	List(ctx context.Context, req *dto.BookingListRequest) (*dto.PageResponse[dto.BookingResponse], error)
	// Prefill 从空闲表某格发起预订时的默认表单
	Prefill(ctx context.Context, req *dto.PrefillRequest) (*dto.BookingFormResponse, error)
}

type bookingService struct {
	repo    *repository.Repository
	cache   AvailabilityCache
	limiter RateLimiter
	metrics *metrics.Metrics
	clock   Clock
	cfg     config.BookingConfig
	loc     *time.Location
	logger  *zap.Logger
}

// NewBookingService 创建 BookingService 实例；cache、limiter、m 可为 nil
func NewBookingService(
	repo *repository.Repository,
	cache AvailabilityCache,
	limiter RateLimiter,
	m *metrics.Metrics,
	clock Clock,
	cfg config.BookingConfig,
	loc *time.Location,
	logger *zap.Logger,
) BookingService {
	if loc == nil {
		loc = time.UTC
	}
	return &bookingService{
		repo:    repo,
		cache:   cache,
		limiter: limiter,
		metrics: m,
		clock:   clock,
		cfg:     cfg,
		loc:     loc,
		logger:  logger,
	}
}

// bookingDraft 校验通过的预订输入
type bookingDraft struct {
	room  *model.Classroom
	batch *model.Batch
	date  time.Time
	slot  scheduling.Interval
	req   *dto.CreateBookingRequest
}

func (d *bookingDraft) when() string {
	return d.date.Format(scheduling.DateLayout) + " " + d.slot.String()
}

// apply 将输入写入预订记录；日期按 UTC 零点存储，只保留年月日
func (d *bookingDraft) apply(b *model.ClassroomBooking) {
	y, m, day := d.date.Date()
	b.ClassroomID = d.room.ClassroomID
	b.Date = time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
	b.StartTime = d.slot.Start.String()
	b.EndTime = d.slot.End.String()
	b.CourseCode = strings.ToUpper(strings.TrimSpace(d.req.CourseCode))
	b.CourseName = strings.TrimSpace(d.req.CourseName)
	b.Purpose = strings.TrimSpace(d.req.Purpose)
	b.BatchID = nil
	b.Batch = d.batch
	if d.batch != nil {
		id := d.batch.BatchID
		b.BatchID = &id
	}
	b.Classroom = d.room
}

// ────────────────────── Create ──────────────────────

func (s *bookingService) Create(ctx context.Context, professorID string, req *dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	if err := s.checkRate(ctx, professorID); err != nil {
		return nil, err
	}

	professor, err := s.repo.User.GetByID(ctx, professorID)
	if err != nil {
		return nil, notFoundOr(err, ErrProfessorNotFound)
	}
	if !professor.IsProfessor() {
		return nil, ErrNotProfessor
	}

	draft, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	booking := &model.ClassroomBooking{
		ProfessorID: professorID,
		Status:      string(scheduling.BookingPending),
	}
	draft.apply(booking)

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		// 锁定教室行，串行化同一教室的并发预订
		if _, err := tx.Classroom.LockByID(ctx, draft.room.ClassroomID); err != nil {
			return notFoundOr(err, ErrClassroomNotFound)
		}
		conflict, err := detectBookingConflict(ctx, tx, draft.room, draft.date, draft.slot, "", s.cfg.CheckFixedSchedule)
		if err != nil {
			return err
		}
		if conflict != nil {
			return conflict
		}
		if err := tx.Booking.Create(ctx, booking); err != nil {
			if repository.IsDuplicateKey(err) {
				return pkgerrors.NewRaceConflict(draft.room.RoomNumber, draft.when())
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, s.writeFailed("创建预订失败", err, booking)
	}

	booking.Professor = professor
	s.metrics.BookingOutcome(outcomeCreated)
	s.invalidate(ctx, booking.DateString())
	s.logger.Info("预订已提交",
		zap.String("booking_id", booking.BookingID),
		zap.String("classroom", draft.room.RoomNumber),
		zap.String("when", draft.when()),
	)
	return toBookingResponse(booking), nil
}

// ────────────────────── Update ──────────────────────

func (s *bookingService) Update(ctx context.Context, professorID, id string, req *dto.UpdateBookingRequest) (*dto.BookingResponse, error) {
	booking, err := s.ownedBooking(ctx, professorID, id)
	if err != nil {
		return nil, err
	}
	if booking.BookingStatus() != scheduling.BookingPending {
		return nil, ErrBookingNotEditable
	}

	draft, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	oldDate := booking.DateString()
	draft.apply(booking)

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.Classroom.LockByID(ctx, draft.room.ClassroomID); err != nil {
			return notFoundOr(err, ErrClassroomNotFound)
		}
		conflict, err := detectBookingConflict(ctx, tx, draft.room, draft.date, draft.slot, booking.BookingID, s.cfg.CheckFixedSchedule)
		if err != nil {
			return err
		}
		if conflict != nil {
			return conflict
		}
		if err := tx.Booking.Update(ctx, booking); err != nil {
			if repository.IsDuplicateKey(err) {
				return pkgerrors.NewRaceConflict(draft.room.RoomNumber, draft.when())
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, s.writeFailed("修改预订失败", err, booking)
	}

	s.metrics.BookingOutcome(outcomeUpdated)
	s.invalidate(ctx, oldDate, booking.DateString())
	return toBookingResponse(booking), nil
}

// ────────────────────── 状态流转 ──────────────────────

func (s *bookingService) Cancel(ctx context.Context, professorID, id string) (*dto.BookingResponse, error) {
	booking, err := s.ownedBooking(ctx, professorID, id)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, booking, scheduling.BookingCancelled, outcomeCancelled)
}

func (s *bookingService) Approve(ctx context.Context, id string) (*dto.BookingResponse, error) {
	booking, err := s.repo.Booking.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrBookingNotFound)
	}
	return s.transition(ctx, booking, scheduling.BookingApproved, outcomeApproved)
}

func (s *bookingService) Reject(ctx context.Context, id string) (*dto.BookingResponse, error) {
	booking, err := s.repo.Booking.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrBookingNotFound)
	}
	return s.transition(ctx, booking, scheduling.BookingRejected, outcomeRejected)
}

// transition 只修改状态，其余字段保持不变
func (s *bookingService) transition(ctx context.Context, b *model.ClassroomBooking, to scheduling.BookingStatus, outcome string) (*dto.BookingResponse, error) {
	next, err := scheduling.Transition(b.BookingStatus(), to)
	if err != nil {
		return nil, err
	}
	b.Status = string(next)
	if err := s.repo.Booking.Update(ctx, b); err != nil {
		if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
			s.logger.Error("更新预订状态失败", zap.String("booking_id", b.BookingID), zap.String("to", string(to)), zap.Error(err))
		}
		return nil, err
	}

	s.metrics.BookingOutcome(outcome)
	s.invalidate(ctx, b.DateString())
	return toBookingResponse(b), nil
}

// ────────────────────── Query ──────────────────────

func (s *bookingService) Get(ctx context.Context, userID, role, id string) (*dto.BookingResponse, error) {
	booking, err := s.repo.Booking.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrBookingNotFound)
	}
	if role != model.RoleAdmin && booking.ProfessorID != userID {
		return nil, ErrNotBookingOwner
	}
	return toBookingResponse(booking), nil
}

func (s *bookingService) ListMine(ctx context.Context, professorID string) ([]dto.BookingResponse, error) {
	items, err := s.repo.Booking.ListByProfessor(ctx, professorID, 0)
	if err != nil {
		s.logger.Error("查询我的预订失败", zap.String("professor_id", professorID), zap.Error(err))
		return nil, err
	}
	return toBookingList(items), nil
}

func (s *bookingService) List(ctx context.Context, req *dto.BookingListRequest) (*dto.PageResponse[dto.BookingResponse], error) {
	filter := repository.BookingFilter{
		Status:      req.Status,
		ClassroomID: req.ClassroomID,
		ProfessorID: req.ProfessorID,
	}
	if req.Date != "" {
		d, err := scheduling.ParseDate(req.Date, s.loc)
		if err != nil {
			return nil, ErrInvalidDate
		}
		filter.Date = &d
	}

	items, total, err := s.repo.Booking.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询预订列表失败", zap.Error(err))
		return nil, err
	}
	return &dto.PageResponse[dto.BookingResponse]{
		Items:    toBookingList(items),
		Total:    total,
		Page:     req.GetPage(),
		PageSize: req.GetPageSize(),
	}, nil
}

func (s *bookingService) Prefill(ctx context.Context, req *dto.PrefillRequest) (*dto.BookingFormResponse, error) {
	room, err := s.repo.Classroom.GetByID(ctx, req.ClassroomID)
	if err != nil {
		return nil, notFoundOr(err, ErrClassroomNotFound)
	}
	date, err := scheduling.ParseDate(req.Date, s.loc)
	if err != nil {
		return nil, ErrInvalidDate
	}
	start, err := scheduling.ParseClock(req.Time)
	if err != nil {
		return nil, ErrInvalidClock
	}
	return &dto.BookingFormResponse{
		Classroom: *toClassroomResponse(room),
		Date:      date.Format(scheduling.DateLayout),
		StartTime: start.String(),
		EndTime:   start.Add(s.cfg.DefaultDurationMinutes).String(),
	}, nil
}

// ── 内部辅助方法 ──

// prepare 校验输入并解析引用；不访问已有预订
func (s *bookingService) prepare(ctx context.Context, req *dto.CreateBookingRequest) (*bookingDraft, error) {
	date, slot, err := parseBookingWindow(s.loc, req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	if scheduling.BeforeDate(date, s.clock.Now().In(s.loc)) {
		return nil, ErrPastDate
	}
	if strings.TrimSpace(req.CourseName) == "" {
		return nil, requiredField("course_name", "课程名称")
	}
	if strings.TrimSpace(req.Purpose) == "" {
		return nil, requiredField("purpose", "用途")
	}

	room, err := s.repo.Classroom.GetByID(ctx, req.ClassroomID)
	if err != nil {
		return nil, notFoundOr(err, ErrClassroomNotFound)
	}
	draft := &bookingDraft{room: room, date: date, slot: slot, req: req}
	if req.BatchID != nil && *req.BatchID != "" {
		batch, err := s.repo.Batch.GetByID(ctx, *req.BatchID)
		if err != nil {
			return nil, notFoundOr(err, ErrBatchNotFound)
		}
		draft.batch = batch
	}
	return draft, nil
}

func (s *bookingService) ownedBooking(ctx context.Context, professorID, id string) (*model.ClassroomBooking, error) {
	booking, err := s.repo.Booking.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrBookingNotFound)
	}
	if booking.ProfessorID != professorID {
		return nil, ErrNotBookingOwner
	}
	return booking, nil
}

func (s *bookingService) checkRate(ctx context.Context, professorID string) error {
	if s.limiter == nil || s.cfg.RateLimitPerMinute <= 0 {
		return nil
	}
	allowed, err := s.limiter.CheckRateLimit(ctx, "booking:"+professorID, s.cfg.RateLimitPerMinute, time.Minute)
	if err != nil {
		// Redis 故障时放行
		s.logger.Warn("预订限流检查失败", zap.String("professor_id", professorID), zap.Error(err))
		return nil
	}
	if !allowed {
		s.metrics.BookingOutcome(outcomeRateLimited)
		return ErrBookingRateLimited
	}
	return nil
}

// writeFailed 记录写入失败的指标与日志，冲突类错误原样返回
func (s *bookingService) writeFailed(msg string, err error, b *model.ClassroomBooking) error {
	switch {
	case errors.Is(err, pkgerrors.ErrIntegrityRace):
		s.metrics.BookingOutcome(outcomeRace)
		s.logger.Warn("预订写入触发唯一约束", zap.String("classroom_id", b.ClassroomID), zap.Error(err))
	case pkgerrors.IsConflict(err):
		s.metrics.BookingOutcome(outcomeConflict)
	case pkgerrors.IsNotFound(err), errors.Is(err, pkgerrors.ErrOptimisticLock):
	default:
		s.logger.Error(msg, zap.String("classroom_id", b.ClassroomID), zap.Error(err))
	}
	return err
}

func (s *bookingService) invalidate(ctx context.Context, dates ...string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateAvailability(ctx, dates...); err != nil {
		s.logger.Warn("清除空闲表缓存失败", zap.Strings("dates", dates), zap.Error(err))
	}
}
