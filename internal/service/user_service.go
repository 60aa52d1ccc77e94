package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/VeeraVardhan35/campusConnect/internal/dto"
	"github.com/VeeraVardhan35/campusConnect/internal/repository"
)

// UserService 用户查询业务接口（账号由种子数据维护）
type UserService interface {
	GetByID(ctx context.Context, id string) (*dto.UserResponse, error)
	// List 按角色列出用户，用于排课时选择教师
	List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

func (s *userService) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, ErrUserNotFound)
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, error) {
	users, err := s.repo.User.ListByRole(ctx, req.Role)
	if err != nil {
		s.logger.Error("列出用户失败", zap.String("role", req.Role), zap.Error(err))
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	return out, nil
}
