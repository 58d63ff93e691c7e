// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/proofofhustle/api/internal/application"
	"github.com/proofofhustle/api/internal/auth"
	"github.com/proofofhustle/api/internal/core"
	"github.com/proofofhustle/api/internal/payment"
	"github.com/proofofhustle/api/internal/project"
	"github.com/proofofhustle/api/internal/role"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(
	ctx context.Context,
	id int64,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) Create(
	ctx context.Context,
	email, passwordHash, name string,
	telegramHandle *string,
) (*auth.UserInfo, error) {
	user := &User{
		Email:          strings.ToLower(email),
		PasswordHash:   passwordHash,
		Name:           name,
		TelegramHandle: telegramHandle,
		Role:           role.Unverified,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) IncrementTokenVersion(
	ctx context.Context,
	userID int64,
) error {
	return s.repo.IncrementTokenVersion(ctx, userID)
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID int64,
	passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

func (s *Service) MarkEmailVerified(ctx context.Context, userID int64) error {
	return s.repo.MarkEmailVerified(ctx, userID)
}

func (s *Service) GetUser(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateUser(
	ctx context.Context,
	id int64,
	req UpdateUserRequest,
) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}

	if req.TelegramHandle != nil {
		user.TelegramHandle = req.TelegramHandle
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) UpdateUserRole(
	ctx context.Context,
	id int64,
	newRole string,
) (*User, error) {
	r := role.Role(newRole)
	if !r.Valid() {
		return nil, fmt.Errorf(
			"update role: invalid role %q: %w",
			newRole,
			core.ErrInvalidInput,
		)
	}

	if err := s.repo.UpdateRole(ctx, id, r); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListUsers(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	return s.repo.List(ctx, params)
}

func (s *Service) GetMe(ctx context.Context, userID int64) (*User, error) {
	if userID == 0 {
		return nil, fmt.Errorf("get me: %w", core.ErrUnauthorized)
	}

	return s.repo.GetByID(ctx, userID)
}

func (s *Service) UpdateMe(
	ctx context.Context,
	userID int64,
	req UpdateUserRequest,
) (*User, error) {
	if userID == 0 {
		return nil, fmt.Errorf("update me: %w", core.ErrUnauthorized)
	}

	return s.UpdateUser(ctx, userID, req)
}

func (s *Service) ExistsByEmail(
	ctx context.Context,
	email string,
) (bool, error) {
	return s.repo.ExistsByEmail(ctx, strings.ToLower(email))
}

// ProvisionVerifiedUser creates the member account for an approved
// applicant. The account starts at the verified role with a random
// credential; the member sets a real password through the reset flow.
// When db is non-nil the insert joins the caller's transaction.
func (s *Service) ProvisionVerifiedUser(
	ctx context.Context,
	db core.DBTX,
	name, email string,
	telegramHandle *string,
) (int64, error) {
	placeholder, err := core.GenerateSecureToken(32)
	if err != nil {
		return 0, fmt.Errorf("generate placeholder credential: %w", err)
	}

	passwordHash, err := core.HashPassword(placeholder)
	if err != nil {
		return 0, fmt.Errorf("hash placeholder credential: %w", err)
	}

	newUser := &User{
		Email:          strings.ToLower(email),
		PasswordHash:   passwordHash,
		Name:           name,
		TelegramHandle: telegramHandle,
		EmailVerified:  true,
		Role:           role.Verified,
	}

	repo := s.repo
	if db != nil {
		repo = s.repo.WithTx(db)
	}

	if err := repo.Create(ctx, newUser); err != nil {
		return 0, err
	}

	return newUser.ID, nil
}

// ApplyPlan upgrades the paying user to the purchased tier. When db is
// non-nil the role change joins the caller's transaction.
func (s *Service) ApplyPlan(
	ctx context.Context,
	db core.DBTX,
	userID int64,
	planType string,
	expiry time.Time,
) error {
	var newRole role.Role
	switch planType {
	case string(role.Premium):
		newRole = role.Premium
	case string(role.Inner):
		newRole = role.Inner
	default:
		return fmt.Errorf(
			"apply plan: invalid plan %q: %w",
			planType,
			core.ErrInvalidInput,
		)
	}

	repo := s.repo
	if db != nil {
		repo = s.repo.WithTx(db)
	}

	return repo.ApplyPlan(ctx, userID, planType, newRole, expiry)
}

func (s *Service) UserEmail(ctx context.Context, userID int64) (string, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.Email, nil
}

func (s *Service) UserName(ctx context.Context, userID int64) (string, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.Name, nil
}

func (s *Service) DowngradeExpired(
	ctx context.Context,
	now time.Time,
) (int64, error) {
	return s.repo.DowngradeExpired(ctx, now)
}

// EnsureAdmin seeds the bootstrap admin account on startup. A no-op when
// the account already exists or no admin email is configured.
func (s *Service) EnsureAdmin(
	ctx context.Context,
	email, password, name string,
) error {
	if email == "" {
		return nil
	}

	exists, err := s.repo.ExistsByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return fmt.Errorf("check admin exists: %w", err)
	}
	if exists {
		return nil
	}

	passwordHash, err := core.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := &User{
		Email:         strings.ToLower(email),
		PasswordHash:  passwordHash,
		Name:          name,
		EmailVerified: true,
		Role:          role.Admin,
	}

	if err := s.repo.Create(ctx, admin); err != nil {
		// Lost a race with another instance seeding the same account.
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil
		}
		return fmt.Errorf("create admin: %w", err)
	}

	return nil
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		PasswordHash:  u.PasswordHash,
		Role:          u.Role,
		EmailVerified: u.EmailVerified,
		TokenVersion:  u.TokenVersion,
	}
}

var (
	_ auth.UserProvider           = (*Service)(nil)
	_ application.UserProvisioner = (*Service)(nil)
	_ payment.RoleUpgrader        = (*Service)(nil)
	_ payment.ExpiredDowngrader   = (*Service)(nil)
	_ project.MemberDirectory     = (*Service)(nil)
)
