package services

import (
	"context"
	"errors"

	"mfportal/src/models"
	"mfportal/src/repositories"
	"mfportal/src/schemas"
)

type UserServiceI interface {
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id uint) (*models.User, error)
	Create(ctx context.Context, req schemas.CreateUserRequest) (*models.User, error)
	Update(ctx context.Context, id uint, req schemas.UpdateUserRequest) (*models.User, error)
	Delete(ctx context.Context, id uint) error
}

type UserService struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func userError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return NotFoundError(ReasonUserNotFound, "User not found.")
	case errors.Is(err, repositories.ErrConflict):
		return ConflictError("A user with that username already exists.")
	}
	return InternalError(err)
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, InternalError(err)
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, userError(err)
	}
	return user, nil
}

func (s *UserService) Create(ctx context.Context, req schemas.CreateUserRequest) (*models.User, error) {
	user, ferr := req.Validate()
	if ferr != nil {
		return nil, FromFieldError(ferr)
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, userError(err)
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, id uint, req schemas.UpdateUserRequest) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if ferr := req.ApplyTo(user); ferr != nil {
		return nil, FromFieldError(ferr)
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, userError(err)
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id uint) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return userError(err)
	}
	return nil
}
