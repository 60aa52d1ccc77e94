package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/VeeraVardhan35/campusConnect/internal/dto"
	"github.com/VeeraVardhan35/campusConnect/internal/model"
	"github.com/VeeraVardhan35/campusConnect/internal/repository"
)

const defaultCredits = 3

// CourseService 课程业务接口
type CourseService interface {
	Create(ctx context.Context, req *dto.CreateCourseRequest) (*dto.CourseResponse, error)
	GetByID(ctx context.Context, id string) (*dto.CourseResponse, error)
	List(ctx context.Context) ([]dto.CourseResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error)
	Delete(ctx context.Context, id string) error
}

type courseService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCourseService 创建 CourseService 实例
func NewCourseService(repo *repository.Repository, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *courseService) Create(ctx context.Context, req *dto.CreateCourseRequest) (*dto.CourseResponse, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		return nil, requiredField("code", "课程代码")
	}
	if err := s.ensureCodeFree(ctx, code, ""); err != nil {
		return nil, err
	}

	course := &model.Course{
		Code:    code,
		Name:    strings.TrimSpace(req.Name),
		Credits: defaultCredits,
	}
	if req.Credits != nil {
		course.Credits = *req.Credits
	}

	if err := s.repo.Course.Create(ctx, course); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, ErrCourseCodeExists
		}
		s.logger.Error("创建课程失败", zap.String("code", code), zap.Error(err))
		return nil, err
	}
	return toCourseResponse(course), nil
}

// ────────────────────── Query ──────────────────────

func (s *courseService) GetByID(ctx context.Context, id string) (*dto.CourseResponse, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrCourseNotFound)
	}
	return toCourseResponse(course), nil
}

func (s *courseService) List(ctx context.Context) ([]dto.CourseResponse, error) {
	courses, err := s.repo.Course.List(ctx)
	if err != nil {
		s.logger.Error("列出课程失败", zap.Error(err))
		return nil, err
	}
	out := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		out = append(out, *toCourseResponse(&courses[i]))
	}
	return out, nil
}

// ────────────────────── Update ──────────────────────

func (s *courseService) Update(ctx context.Context, id string, req *dto.UpdateCourseRequest) (*dto.CourseResponse, error) {
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrCourseNotFound)
	}

	if req.Code != nil {
		code := strings.ToUpper(strings.TrimSpace(*req.Code))
		if code == "" {
			return nil, requiredField("code", "课程代码")
		}
		if code != course.Code {
			if err := s.ensureCodeFree(ctx, code, id); err != nil {
				return nil, err
			}
		}
		course.Code = code
	}
	if req.Name != nil {
		course.Name = strings.TrimSpace(*req.Name)
	}
	if req.Credits != nil {
		course.Credits = *req.Credits
	}

	if err := s.repo.Course.Update(ctx, course); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, ErrCourseCodeExists
		}
		s.logger.Error("更新课程失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toCourseResponse(course), nil
}

// ────────────────────── Delete ──────────────────────

func (s *courseService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Course.GetByID(ctx, id); err != nil {
		return notFoundOr(err, ErrCourseNotFound)
	}
	if err := s.repo.Course.Delete(ctx, id); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return ErrReferencedByOthers
		}
		s.logger.Error("删除课程失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *courseService) ensureCodeFree(ctx context.Context, code, selfID string) error {
	existing, err := s.repo.Course.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		s.logger.Error("查询课程代码失败", zap.String("code", code), zap.Error(err))
		return err
	}
	if existing.CourseID != selfID {
		return ErrCourseCodeExists
	}
	return nil
}
