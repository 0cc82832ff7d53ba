package services

import (
	"context"
	"errors"
	"mime/multipart"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/applytrack/applytrack/internal/app/models"
	"github.com/applytrack/applytrack/internal/app/models/dto"
	"github.com/applytrack/applytrack/internal/pkg/apperrors"
	"github.com/applytrack/applytrack/internal/pkg/filestorage"
	"github.com/applytrack/applytrack/internal/pkg/validation"
)

// ProfileService handles profile and role extension reads and updates
type ProfileService struct {
	profiles ProfileStore
	students StudentStore
	parents  ParentStore
	storage  filestorage.Storage
	logger   zerolog.Logger
}

// NewProfileService creates a new ProfileService
func NewProfileService(
	profiles ProfileStore,
	students StudentStore,
	parents ParentStore,
	storage filestorage.Storage,
	logger zerolog.Logger,
) *ProfileService {
	return &ProfileService{
		profiles: profiles,
		students: students,
		parents:  parents,
		storage:  storage,
		logger:   logger,
	}
}

// GetProfile returns a profile with its role extension attached
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error) {
	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &dto.ProfileResponse{Profile: profile}

	switch profile.Role {
	case models.RoleStudent:
		student, err := s.students.GetByID(ctx, userID)
		if err != nil && !errors.Is(err, apperrors.ErrStudentNotFound) {
			return nil, err
		}
		resp.Student = student
	case models.RoleParent:
		parent, err := s.parents.GetByID(ctx, userID)
		if err != nil && !errors.Is(err, apperrors.ErrParentNotFound) {
			return nil, err
		}
		resp.Parent = parent
	}

	return resp, nil
}

// UpdateProfile applies the provided fields to the profile and its
// role extension. Fields belonging to the other role are ignored and
// the role itself cannot change.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		if *req.FullName == "" {
			return nil, apperrors.NewBadRequestError("full_name cannot be empty")
		}
		if err := s.profiles.UpdateFullName(ctx, userID, *req.FullName); err != nil {
			return nil, err
		}
	}

	switch profile.Role {
	case models.RoleStudent:
		if err := s.updateStudentFields(ctx, userID, req); err != nil {
			return nil, err
		}
	case models.RoleParent:
		if err := s.updateParentFields(ctx, userID, req); err != nil {
			return nil, err
		}
	}

	return s.GetProfile(ctx, userID)
}

// UpdateAvatar stores the uploaded image and records its URL. The
// previous avatar file is removed on a best-effort basis.
func (s *ProfileService) UpdateAvatar(ctx context.Context, userID uuid.UUID, fileHeader *multipart.FileHeader) (*dto.AvatarResponse, error) {
	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	avatarURL, err := s.storage.SaveFile(fileHeader)
	if err != nil {
		return nil, err
	}

	if err := s.profiles.UpdateAvatarURL(ctx, userID, avatarURL); err != nil {
		return nil, err
	}

	if profile.AvatarURL != nil && *profile.AvatarURL != "" {
		if err := s.storage.DeleteFile(*profile.AvatarURL); err != nil {
			s.logger.Warn().Err(err).Str("userId", userID.String()).Msg("Failed to remove previous avatar file")
		}
	}

	return &dto.AvatarResponse{AvatarURL: avatarURL}, nil
}

func (s *ProfileService) updateStudentFields(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) error {
	student, err := s.students.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if req.GraduationYear != nil {
		if err := validation.ValidateGraduationYear(*req.GraduationYear); err != nil {
			return apperrors.NewBadRequestError(err.Error())
		}
		student.GraduationYear = *req.GraduationYear
	}
	if req.GPA != nil {
		student.GPA = req.GPA
	}
	if req.SATScore != nil {
		student.SATScore = req.SATScore
	}
	if req.ACTScore != nil {
		student.ACTScore = req.ACTScore
	}
	if req.TargetCountries != nil {
		student.TargetCountries = req.TargetCountries
	}
	if req.IntendedMajors != nil {
		student.IntendedMajors = req.IntendedMajors
	}
	if req.HighSchool != nil {
		student.HighSchool = req.HighSchool
	}
	if req.CounselorName != nil {
		student.CounselorName = req.CounselorName
	}
	if req.CounselorEmail != nil {
		if *req.CounselorEmail != "" {
			if err := validation.ValidateEmail(*req.CounselorEmail); err != nil {
				return apperrors.NewBadRequestError("invalid counselor email")
			}
		}
		student.CounselorEmail = req.CounselorEmail
	}

	return s.students.Update(ctx, student)
}

func (s *ProfileService) updateParentFields(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) error {
	parent, err := s.parents.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if req.Phone != nil {
		parent.Phone = req.Phone
	}
	if req.Occupation != nil {
		parent.Occupation = req.Occupation
	}

	return s.parents.Update(ctx, parent)
}
