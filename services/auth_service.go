//go:generate go run go.uber.org/mock/mockgen -source=auth_service.go -destination=../mocks/mock_auth_service.go -package=mocks
package services

import (
	"fmt"

	"campus-chat/auth"
	"campus-chat/domain"
	"campus-chat/errors"
	"campus-chat/repositories"
)

type IAuthService interface {
	Register(email, name, password string, conn domain.ConnHandle) (*domain.Account, error)
	Login(email, password string, conn domain.ConnHandle) (*domain.Account, error)
	Logout(email string)
}

type AuthService struct {
	users repositories.IUserRepository
}

func NewAuthService(users repositories.IUserRepository) IAuthService {
	return &AuthService{users: users}
}

// Register validates the request, hashes the password and creates the
// account. Hashing happens here so the repository never sees a plain
// password. The new account is online and bound to the registering
// connection.
func (s *AuthService) Register(email, name, password string, conn domain.ConnHandle) (*domain.Account, error) {
	valReq := auth.RegisterRequest{
		Email:    email,
		Name:     name,
		Password: password,
	}
	if err := auth.ValidateRegister(valReq); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrInvalidRegistration, err)
	}

	digest, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hashing failed: %w", err)
	}

	return s.users.CreateUser(email, name, digest, conn)
}

// Login verifies the password against the stored digest and, on
// success, marks the account online on the calling connection. Unknown
// emails and wrong passwords are reported as distinct errors; the wire
// protocol sends different diagnostics for the two cases.
func (s *AuthService) Login(email, password string, conn domain.ConnHandle) (*domain.Account, error) {
	account, err := s.users.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}

	match, err := auth.VerifyPassword(password, account.PasswordHash)
	if err != nil || !match {
		return nil, fmt.Errorf("%w: %s", errors.ErrBadPassword, email)
	}

	if err := s.users.SetOnline(email, conn); err != nil {
		return nil, err
	}
	return account, nil
}

// Logout marks the account offline. Idempotent.
func (s *AuthService) Logout(email string) {
	s.users.SetOffline(email)
}
