package service

import (
	"context"
	"errors"

	"enapm-backend/internal/domain"
	"enapm-backend/internal/fault"
	"enapm-backend/internal/logger"
	"enapm-backend/internal/repository"
)

type userService struct {
	uow  repository.UnitOfWork
	auth AuthService
}

func NewUserService(uow repository.UnitOfWork, auth AuthService) UserService {
	return &userService{uow: uow, auth: auth}
}

func (s *userService) SignupWithPassword(ctx context.Context, cmd SignupCommand) (*domain.User, *Session, error) {
	hash, err := s.auth.HashPassword(cmd.Password)
	if err != nil {
		return nil, nil, err
	}

	var user *domain.User
	err = s.uow.Transaction(ctx, func(tx repository.Tx) error {
		user, err = tx.Users().Insert(ctx, repository.UserForInsert{
			Ref:          s.auth.GenerateUserRef(),
			Email:        cmd.Email,
			Username:     cmd.Username,
			PasswordHash: hash,
		})
		return err
	})
	if err != nil {
		if errors.Is(err, fault.ErrEmailAlreadyUsed) {
			return nil, nil, fault.ErrEmailAlreadyUsed
		}
		logger.Error("signup failed", "email", cmd.Email, "error", err)
		return nil, nil, fault.Unknown(err)
	}

	session, err := s.auth.CreateSession(user.Ref)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

// LoginWithPassword reports every failure as incorrect credentials so the
// response does not reveal whether the email is registered.
func (s *userService) LoginWithPassword(ctx context.Context, email, password string) (*domain.User, *Session, error) {
	var user *domain.User
	err := s.uow.Transaction(ctx, func(tx repository.Tx) error {
		var err error
		user, err = tx.Users().FindByEmail(ctx, email)
		return err
	})
	if err != nil {
		return nil, nil, fault.ErrIncorrectCredentials
	}
	if !s.auth.ValidatePassword(user.PasswordHash, password) {
		return nil, nil, fault.ErrIncorrectCredentials
	}

	session, err := s.auth.CreateSession(user.Ref)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}
