package services

import (
	"context"
	"mime/multipart"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/applytrack/applytrack/internal/app/models"
	"github.com/applytrack/applytrack/internal/app/models/dto"
	"github.com/applytrack/applytrack/internal/pkg/apperrors"
	"github.com/applytrack/applytrack/internal/pkg/validation"
)

type stubStorage struct {
	saved   []string
	deleted []string
	next    string
}

func (s *stubStorage) SaveFile(_ *multipart.FileHeader) (string, error) {
	s.saved = append(s.saved, s.next)
	return s.next, nil
}

func (s *stubStorage) DeleteFile(path string) error {
	s.deleted = append(s.deleted, path)
	return nil
}

type profileFixture struct {
	service  *ProfileService
	profiles *stubProfileStore
	students *stubStudentStore
	parents  *stubParentStore
	storage  *stubStorage
}

func newProfileFixture(t *testing.T) *profileFixture {
	t.Helper()

	students := newStubStudentStore()
	parents := newStubParentStore()
	profiles := newStubProfileStore(students, parents)
	storage := &stubStorage{next: "http://localhost:8080/uploads/avatar.png"}

	return &profileFixture{
		service:  NewProfileService(profiles, students, parents, storage, zerolog.Nop()),
		profiles: profiles,
		students: students,
		parents:  parents,
		storage:  storage,
	}
}

func (fx *profileFixture) seedStudent() uuid.UUID {
	id := uuid.New()
	fx.profiles.profiles[id] = &models.Profile{
		ID:       id,
		Email:    "jane@example.com",
		FullName: "Jane Doe",
		Role:     models.RoleStudent,
	}
	fx.students.students[id] = &models.Student{
		ID:             id,
		GraduationYear: validation.CurrentYear() + 1,
	}
	return id
}

func strPtr(s string) *string { return &s }

func TestGetProfileWithExtension(t *testing.T) {
	fx := newProfileFixture(t)
	id := fx.seedStudent()

	resp, err := fx.service.GetProfile(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", resp.Profile.FullName)
	require.NotNil(t, resp.Student)
	assert.Equal(t, validation.CurrentYear()+1, resp.Student.GraduationYear)
}

func TestGetProfileMissingExtensionTolerated(t *testing.T) {
	fx := newProfileFixture(t)
	id := fx.seedStudent()
	delete(fx.students.students, id)

	resp, err := fx.service.GetProfile(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, resp.Student)
}

func TestGetProfileNotFound(t *testing.T) {
	fx := newProfileFixture(t)

	_, err := fx.service.GetProfile(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrProfileNotFound)
}

func TestUpdateProfileStudentFields(t *testing.T) {
	fx := newProfileFixture(t)
	id := fx.seedStudent()

	gpa := 3.8
	resp, err := fx.service.UpdateProfile(context.Background(), id, &dto.UpdateProfileRequest{
		FullName:       strPtr("Jane Q. Doe"),
		GPA:            &gpa,
		IntendedMajors: []string{"Computer Science"},
		CounselorEmail: strPtr("counselor@school.edu"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Jane Q. Doe", resp.Profile.FullName)
	require.NotNil(t, resp.Student.GPA)
	assert.Equal(t, gpa, *resp.Student.GPA)
	assert.Equal(t, []string{"Computer Science"}, resp.Student.IntendedMajors)
}

func TestUpdateProfileRejectsBadInput(t *testing.T) {
	fx := newProfileFixture(t)
	id := fx.seedStudent()

	_, err := fx.service.UpdateProfile(context.Background(), id, &dto.UpdateProfileRequest{
		FullName: strPtr(""),
	})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	badYear := validation.CurrentYear() + 20
	_, err = fx.service.UpdateProfile(context.Background(), id, &dto.UpdateProfileRequest{
		GraduationYear: &badYear,
	})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	_, err = fx.service.UpdateProfile(context.Background(), id, &dto.UpdateProfileRequest{
		CounselorEmail: strPtr("not-an-email"),
	})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestUpdateProfileParentFields(t *testing.T) {
	fx := newProfileFixture(t)

	id := uuid.New()
	fx.profiles.profiles[id] = &models.Profile{ID: id, Email: "mother@example.com", Role: models.RoleParent}
	fx.parents.parents[id] = &models.Parent{ID: id}

	resp, err := fx.service.UpdateProfile(context.Background(), id, &dto.UpdateProfileRequest{
		Phone:      strPtr("+1-555-0100"),
		Occupation: strPtr("Engineer"),
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Parent)
	assert.Equal(t, "+1-555-0100", *resp.Parent.Phone)
	assert.Equal(t, "Engineer", *resp.Parent.Occupation)
}

func TestUpdateAvatarReplacesPrevious(t *testing.T) {
	fx := newProfileFixture(t)
	id := fx.seedStudent()
	old := "http://localhost:8080/uploads/old.png"
	fx.profiles.profiles[id].AvatarURL = &old

	resp, err := fx.service.UpdateAvatar(context.Background(), id, &multipart.FileHeader{Filename: "avatar.png"})
	require.NoError(t, err)
	assert.Equal(t, fx.storage.next, resp.AvatarURL)
	require.NotNil(t, fx.profiles.profiles[id].AvatarURL)
	assert.Equal(t, fx.storage.next, *fx.profiles.profiles[id].AvatarURL)
	// The previous file is cleaned up.
	assert.Equal(t, []string{old}, fx.storage.deleted)
}
