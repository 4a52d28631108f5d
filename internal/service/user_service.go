package service

import (
	"errors"
	"fmt"

	"github.com/prepforge/prepforge/internal/dto"
	"github.com/prepforge/prepforge/internal/model"
	"github.com/prepforge/prepforge/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type UserService interface {
	EnsureUser(externalID, email, name string) (*model.User, error)
	GetProfile(userID uint) (*dto.ProfileResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// EnsureUser resolves the external identity to an internal user, creating the
// account on first authenticated contact.
func (s *userService) EnsureUser(externalID, email, name string) (*model.User, error) {
	if externalID == "" {
		return nil, ErrUnauthorized
	}

	user, err := s.userRepo.FindByExternalID(externalID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("resolving user %s: %w", externalID, err)
	}

	newUser := model.User{
		ExternalID: externalID,
		Email:      email,
		Name:       name,
		Role:       model.RoleStudent,
	}
	if err := s.userRepo.Create(&newUser); err != nil {
		// Two first contacts can race; the unique index picks a winner and we
		// re-read their row.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.userRepo.FindByExternalID(externalID)
		}
		return nil, fmt.Errorf("creating user for %s: %w", externalID, err)
	}
	log.Info().Str("externalID", externalID).Uint("userID", newUser.ID).Msg("User created on first contact")
	return &newUser, nil
}

func (s *userService) GetProfile(userID uint) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return nil, fmt.Errorf("loading user %d: %w", userID, err)
	}
	return &dto.ProfileResponse{
		ID:      user.ID,
		Email:   user.Email,
		Name:    user.Name,
		Role:    user.Role,
		Credits: user.Credits,
	}, nil
}
