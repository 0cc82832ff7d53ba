package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/applytrack/applytrack/internal/app/models"
	"github.com/applytrack/applytrack/internal/app/models/dto"
	"github.com/applytrack/applytrack/internal/pkg/apperrors"
	"github.com/applytrack/applytrack/internal/pkg/auth"
	"github.com/applytrack/applytrack/internal/pkg/validation"
)

// AuthService handles registration, login and token lifecycle.
//
// Signup runs in three steps: credential record, profile row, role
// extension row. The first step is the commit point; if the later
// steps fail the account still exists and login repairs the missing
// rows, so a half-registered user is never locked out.
type AuthService struct {
	identities        IdentityStore
	profiles          ProfileStore
	students          StudentStore
	parents           ParentStore
	tokens            TokenStore
	jwtService        *auth.JWTService
	passwordMinLength int
	logger            zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	identities IdentityStore,
	profiles ProfileStore,
	students StudentStore,
	parents ParentStore,
	tokens TokenStore,
	jwtService *auth.JWTService,
	passwordMinLength int,
	logger zerolog.Logger,
) *AuthService {
	if passwordMinLength <= 0 {
		passwordMinLength = validation.DefaultPasswordMinLength
	}
	return &AuthService{
		identities:        identities,
		profiles:          profiles,
		students:          students,
		parents:           parents,
		tokens:            tokens,
		jwtService:        jwtService,
		passwordMinLength: passwordMinLength,
		logger:            logger,
	}
}

// Signup registers a new student or parent account and returns the
// resolved session with a fresh token pair.
func (s *AuthService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.SignupResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if err := validation.ValidateEmail(email); err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}
	if err := validation.ValidatePassword(req.Password, s.passwordMinLength); err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}
	if !req.Role.IsSignupRole() {
		return nil, apperrors.ErrInvalidRole
	}

	var student *models.Student
	var parent *models.Parent
	switch req.Role {
	case models.RoleStudent:
		if req.GraduationYear == nil {
			return nil, apperrors.NewBadRequestError("graduation_year is required for students")
		}
		if err := validation.ValidateGraduationYear(*req.GraduationYear); err != nil {
			return nil, apperrors.NewBadRequestError(err.Error())
		}
		student = &models.Student{
			GraduationYear:  *req.GraduationYear,
			GPA:             req.GPA,
			SATScore:        req.SATScore,
			ACTScore:        req.ACTScore,
			TargetCountries: req.TargetCountries,
			IntendedMajors:  req.IntendedMajors,
			HighSchool:      req.HighSchool,
		}
	case models.RoleParent:
		parent = &models.Parent{
			Phone:      req.Phone,
			Occupation: req.Occupation,
		}
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	identity := &models.Identity{
		Email:        email,
		PasswordHash: passwordHash,
		FullName:     req.FullName,
		Role:         req.Role,
	}
	if err := s.identities.Create(ctx, identity); err != nil {
		return nil, err
	}

	// The account exists from here on. Profile and extension failures
	// are logged and repaired on the next login instead of failing the
	// signup.
	profile := &models.Profile{
		ID:       identity.ID,
		Email:    identity.Email,
		FullName: identity.FullName,
		Role:     identity.Role,
	}
	if student != nil {
		student.ID = identity.ID
	}
	if parent != nil {
		parent.ID = identity.ID
	}
	if err := s.profiles.CreateWithExtension(ctx, profile, student, parent); err != nil {
		s.logger.Warn().Err(err).Str("userId", identity.ID.String()).
			Msg("Signup completed with incomplete profile, will repair on login")
	}

	token, err := s.issueTokens(ctx, identity)
	if err != nil {
		return nil, err
	}

	session, err := s.resolveSession(ctx, identity)
	if err != nil {
		return nil, err
	}

	return &dto.SignupResponse{Session: *session, Token: *token}, nil
}

// Login verifies credentials, repairs a missing profile from the
// identity metadata, and returns a fresh session and token pair.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	identity, err := s.identities.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrIdentityNotFound) {
			// Same error as a bad password so the response does not
			// reveal whether the email is registered.
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(identity.PasswordHash, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	s.repairProfile(ctx, identity)

	token, err := s.issueTokens(ctx, identity)
	if err != nil {
		return nil, err
	}

	session, err := s.resolveSession(ctx, identity)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{Session: *session, Token: *token}, nil
}

// RefreshToken rotates a refresh token: the presented token is revoked
// and a new pair is issued.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	userID, _, err := s.tokens.GetTokenByValue(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	identity, err := s.identities.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.tokens.RevokeToken(ctx, refreshToken); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, identity)
}

// Logout revokes the presented refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	err := s.tokens.RevokeToken(ctx, refreshToken)
	if errors.Is(err, apperrors.ErrTokenNotFound) {
		// Logout with an unknown token is not an error worth surfacing.
		return nil
	}
	return err
}

// GetSession resolves the session context for an authenticated user.
// Like login, it repairs a missing profile from the identity metadata
// first.
func (s *AuthService) GetSession(ctx context.Context, userID uuid.UUID) (*dto.SessionResponse, error) {
	identity, err := s.identities.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.repairProfile(ctx, identity)

	return s.resolveSession(ctx, identity)
}

// repairProfile re-runs the idempotent profile and extension inserts
// for accounts whose signup only partially completed. Failures are
// logged; login proceeds regardless.
func (s *AuthService) repairProfile(ctx context.Context, identity *models.Identity) {
	if _, err := s.profiles.GetByID(ctx, identity.ID); err == nil {
		return
	} else if !errors.Is(err, apperrors.ErrProfileNotFound) {
		s.logger.Warn().Err(err).Str("userId", identity.ID.String()).Msg("Profile lookup failed during repair")
		return
	}

	profile := &models.Profile{
		ID:       identity.ID,
		Email:    identity.Email,
		FullName: identity.FullName,
		Role:     identity.Role,
	}

	var student *models.Student
	var parent *models.Parent
	switch identity.Role {
	case models.RoleStudent:
		// Graduation year was lost with the failed signup step; store
		// the earliest valid year and let the student correct it.
		student = &models.Student{ID: identity.ID, GraduationYear: validation.CurrentYear()}
	case models.RoleParent:
		parent = &models.Parent{ID: identity.ID}
	}

	if err := s.profiles.CreateWithExtension(ctx, profile, student, parent); err != nil {
		s.logger.Warn().Err(err).Str("userId", identity.ID.String()).Msg("Profile repair failed")
		return
	}

	s.logger.Info().Str("userId", identity.ID.String()).Msg("Repaired incomplete profile on login")
}

func (s *AuthService) issueTokens(ctx context.Context, identity *models.Identity) (*dto.TokenResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(
		identity.ID, identity.Email, string(identity.Role))
	if err != nil {
		return nil, err
	}

	if err := s.tokens.CreateToken(ctx, refreshToken, identity.ID, s.jwtService.GetRefreshTokenExpiry()); err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		TokenType:        "Bearer",
		ExpiresIn:        int64(expiresIn),
		RefreshExpiresIn: int64(refreshExpiresIn),
	}, nil
}

// resolveSession builds the session view of an identity. A missing
// profile or extension row marks the session incomplete rather than
// failing it.
func (s *AuthService) resolveSession(ctx context.Context, identity *models.Identity) (*dto.SessionResponse, error) {
	session := &dto.SessionResponse{
		UserID: identity.ID,
		Email:  identity.Email,
		Role:   identity.Role,
	}

	profile, err := s.profiles.GetByID(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrProfileNotFound) {
			return session, nil
		}
		return nil, err
	}
	session.Profile = profile
	session.Role = profile.Role

	switch profile.Role {
	case models.RoleStudent:
		student, err := s.students.GetByID(ctx, identity.ID)
		if err != nil {
			if errors.Is(err, apperrors.ErrStudentNotFound) {
				return session, nil
			}
			return nil, err
		}
		session.Student = student
	case models.RoleParent:
		parent, err := s.parents.GetByID(ctx, identity.ID)
		if err != nil {
			if errors.Is(err, apperrors.ErrParentNotFound) {
				return session, nil
			}
			return nil, err
		}
		session.Parent = parent
	}

	session.ProfileComplete = true
	return session, nil
}
