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

// BatchService 班级业务接口
type BatchService interface {
	Create(ctx context.Context, req *dto.CreateBatchRequest) (*dto.BatchResponse, error)
	GetByID(ctx context.Context, id string) (*dto.BatchResponse, error)
	List(ctx context.Context, req *dto.BatchListRequest) ([]dto.BatchResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateBatchRequest) (*dto.BatchResponse, error)
	Delete(ctx context.Context, id string) error
}

type batchService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewBatchService 创建 BatchService 实例
func NewBatchService(repo *repository.Repository, logger *zap.Logger) BatchService {
	return &batchService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *batchService) Create(ctx context.Context, req *dto.CreateBatchRequest) (*dto.BatchResponse, error) {
	batch := &model.Batch{
		Name:    strings.TrimSpace(req.Name),
		Year:    req.Year,
		Branch:  strings.ToLower(req.Branch),
		Section: strings.ToUpper(req.Section),
	}
	batch.EnsureName()

	if err := s.ensureCohortFree(ctx, batch, ""); err != nil {
		return nil, err
	}
	if err := s.repo.Batch.Create(ctx, batch); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, ErrBatchExists
		}
		s.logger.Error("创建班级失败", zap.String("batch", batch.Key()), zap.Error(err))
		return nil, err
	}
	return toBatchResponse(batch), nil
}

// ────────────────────── Query ──────────────────────

func (s *batchService) GetByID(ctx context.Context, id string) (*dto.BatchResponse, error) {
	batch, err := s.repo.Batch.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrBatchNotFound)
	}
	return toBatchResponse(batch), nil
}

func (s *batchService) List(ctx context.Context, req *dto.BatchListRequest) ([]dto.BatchResponse, error) {
	batches, err := s.repo.Batch.List(ctx, repository.BatchFilter{
		Year:    req.Year,
		Branch:  strings.ToLower(req.Branch),
		Section: strings.ToUpper(req.Section),
	})
	if err != nil {
		s.logger.Error("列出班级失败", zap.Error(err))
		return nil, err
	}
	out := make([]dto.BatchResponse, 0, len(batches))
	for i := range batches {
		out = append(out, *toBatchResponse(&batches[i]))
	}
	return out, nil
}

// ────────────────────── Update ──────────────────────

func (s *batchService) Update(ctx context.Context, id string, req *dto.UpdateBatchRequest) (*dto.BatchResponse, error) {
	batch, err := s.repo.Batch.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrBatchNotFound)
	}

	// 名称原本是自动生成的，则随年级/专业/班号一起重新生成
	autoNamed := batch.Name == batch.DisplayName()
	if req.Year != nil {
		batch.Year = *req.Year
	}
	if req.Branch != nil {
		batch.Branch = strings.ToLower(*req.Branch)
	}
	if req.Section != nil {
		batch.Section = strings.ToUpper(*req.Section)
	}
	switch {
	case req.Name != nil:
		batch.Name = strings.TrimSpace(*req.Name)
	case autoNamed:
		batch.Name = ""
	}
	batch.EnsureName()

	if err := s.ensureCohortFree(ctx, batch, id); err != nil {
		return nil, err
	}
	if err := s.repo.Batch.Update(ctx, batch); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, ErrBatchExists
		}
		s.logger.Error("更新班级失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toBatchResponse(batch), nil
}

// ────────────────────── Delete ──────────────────────

func (s *batchService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Batch.GetByID(ctx, id); err != nil {
		return notFoundOr(err, ErrBatchNotFound)
	}
	if err := s.repo.Batch.Delete(ctx, id); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return ErrReferencedByOthers
		}
		s.logger.Error("删除班级失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *batchService) ensureCohortFree(ctx context.Context, b *model.Batch, selfID string) error {
	existing, err := s.repo.Batch.GetByCohort(ctx, b.Year, b.Branch, b.Section)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		s.logger.Error("查询班级失败", zap.String("batch", b.Key()), zap.Error(err))
		return err
	}
	if existing.BatchID != selfID {
		return ErrBatchExists
	}
	return nil
}
