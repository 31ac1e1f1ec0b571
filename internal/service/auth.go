package service

import (
	"context"
	"errors"

	"iuran-rt-backend/internal/domain"
	"iuran-rt-backend/internal/logger"
	"iuran-rt-backend/internal/repository"
	"iuran-rt-backend/internal/security"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials   = &domain.Error{Kind: domain.ErrorKindUnauthorized, Message: "invalid username or password"}
	ErrRegistrationRejected = &domain.Error{Kind: domain.ErrorKindForbidden, Message: "registration was rejected"}
	errUsernameTaken        = domain.NewConflictError("username is already taken")
)

type authService struct {
	repos  repository.Repositories
	tx     repository.Transactor
	tokens security.TokenManager
}

func NewAuthService(repos repository.Repositories, tx repository.Transactor, tokens security.TokenManager) AuthService {
	return &authService{repos: repos, tx: tx, tokens: tokens}
}

// Login checks the password and issues an access token. Accounts of a household whose
// registration was rejected cannot log in.
func (s *authService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	user, err := s.repos.Users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, domain.NewPersistenceError("failed to load user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Warn("Failed login attempt", "username", username)
		return "", nil, ErrInvalidCredentials
	}

	if user.ResidentID != nil {
		res, err := s.repos.Residents.GetByID(ctx, *user.ResidentID)
		if err != nil {
			return "", nil, domain.NewPersistenceError("failed to load resident", err)
		}
		if res.Verification == domain.VerificationRejected {
			logger.Warn("Login refused for rejected registration", "username", username, "residentID", res.ID)
			return "", nil, ErrRegistrationRejected
		}
	}

	token, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// CreateAccount adds a login for an administrator or for an existing resident.
func (s *authService) CreateAccount(ctx context.Context, in domain.NewAccount) (*domain.User, error) {
	logger.EnterMethod("authService.CreateAccount", "username", in.Username, "role", in.Role)

	if err := in.Validate(); err != nil {
		logger.ExitMethodWithError("authService.CreateAccount", err)
		return nil, err
	}
	if in.Role == domain.UserRoleAdmin {
		in.ResidentID = nil
	} else if _, err := s.repos.Residents.GetByID(ctx, *in.ResidentID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewValidationError("resident does not exist")
		}
		return nil, domain.NewPersistenceError("failed to load resident", err)
	}

	user, err := s.newUser(ctx, s.repos, in.Username, in.Password, in.Role, in.ResidentID)
	if err != nil {
		logger.ExitMethodWithError("authService.CreateAccount", err)
		return nil, err
	}

	logger.Info("Account created", "userID", user.ID, "role", user.Role)
	logger.ExitMethod("authService.CreateAccount", "userID", user.ID)
	return user, nil
}

// SelfRegister signs a household up from the public form. The resident, its members and
// the login are written in one transaction; the resident waits for verification.
func (s *authService) SelfRegister(ctx context.Context, reg *domain.SelfRegistration) (*domain.Resident, error) {
	logger.EnterMethod("authService.SelfRegister", "username", reg.Username, "houseNumber", reg.Resident.HouseNumber)

	if err := reg.Validate(); err != nil {
		logger.ExitMethodWithError("authService.SelfRegister", err)
		return nil, err
	}
	res := reg.Resident
	res.Verification = domain.VerificationPending

	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if err := createHousehold(ctx, repos, &res, reg.Members); err != nil {
			return err
		}
		_, err := s.newUser(ctx, repos, reg.Username, reg.Password, domain.UserRoleResident, &res.ID)
		return err
	})
	if err != nil {
		logger.ExitMethodWithError("authService.SelfRegister", err)
		return nil, domain.NewPersistenceError("failed to register household", err)
	}

	logger.Info("Household self-registered", "residentID", res.ID, "houseNumber", res.HouseNumber)
	logger.ExitMethod("authService.SelfRegister", "residentID", res.ID)
	return &res, nil
}

func (s *authService) newUser(ctx context.Context, repos repository.Repositories, username, password string, role domain.UserRole, residentID *int32) (*domain.User, error) {
	taken, err := repos.Users.UsernameTaken(ctx, username)
	if err != nil {
		return nil, domain.NewPersistenceError("failed to check username", err)
	}
	if taken {
		return nil, errUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &domain.User{Username: username, PasswordHash: string(hash), Role: role, ResidentID: residentID}
	if err := repos.Users.Create(ctx, user); err != nil {
		return nil, domain.NewPersistenceError("failed to create account", err)
	}
	return user, nil
}
