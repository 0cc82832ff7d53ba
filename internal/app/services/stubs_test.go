package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/applytrack/applytrack/internal/app/models"
	"github.com/applytrack/applytrack/internal/app/models/dto"
	"github.com/applytrack/applytrack/internal/pkg/apperrors"
)

// In-memory store implementations backing the service tests. They
// mirror the error contracts of the real repositories.

type stubIdentityStore struct {
	identities map[uuid.UUID]*models.Identity
}

func newStubIdentityStore() *stubIdentityStore {
	return &stubIdentityStore{identities: map[uuid.UUID]*models.Identity{}}
}

func (s *stubIdentityStore) Create(_ context.Context, identity *models.Identity) error {
	for _, existing := range s.identities {
		if existing.Email == identity.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	identity.ID = uuid.New()
	identity.CreatedAt = time.Now()
	s.identities[identity.ID] = identity
	return nil
}

func (s *stubIdentityStore) GetByEmail(_ context.Context, email string) (*models.Identity, error) {
	for _, identity := range s.identities {
		if identity.Email == email {
			return identity, nil
		}
	}
	return nil, apperrors.ErrIdentityNotFound
}

func (s *stubIdentityStore) GetByID(_ context.Context, id uuid.UUID) (*models.Identity, error) {
	identity, ok := s.identities[id]
	if !ok {
		return nil, apperrors.ErrIdentityNotFound
	}
	return identity, nil
}

type stubProfileStore struct {
	profiles map[uuid.UUID]*models.Profile
	students *stubStudentStore
	parents  *stubParentStore

	// createErr fails CreateWithExtension to simulate a partial signup
	createErr error
}

func newStubProfileStore(students *stubStudentStore, parents *stubParentStore) *stubProfileStore {
	return &stubProfileStore{
		profiles: map[uuid.UUID]*models.Profile{},
		students: students,
		parents:  parents,
	}
}

func (s *stubProfileStore) CreateWithExtension(_ context.Context, profile *models.Profile, student *models.Student, parent *models.Parent) error {
	if s.createErr != nil {
		return s.createErr
	}
	if _, ok := s.profiles[profile.ID]; !ok {
		s.profiles[profile.ID] = profile
	}
	if student != nil {
		if _, ok := s.students.students[student.ID]; !ok {
			s.students.students[student.ID] = student
		}
	}
	if parent != nil {
		if _, ok := s.parents.parents[parent.ID]; !ok {
			s.parents.parents[parent.ID] = parent
		}
	}
	return nil
}

func (s *stubProfileStore) GetByID(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	profile, ok := s.profiles[id]
	if !ok {
		return nil, apperrors.ErrProfileNotFound
	}
	return profile, nil
}

func (s *stubProfileStore) GetByEmail(_ context.Context, email string) (*models.Profile, error) {
	for _, profile := range s.profiles {
		if profile.Email == email {
			return profile, nil
		}
	}
	return nil, apperrors.ErrProfileNotFound
}

func (s *stubProfileStore) UpdateFullName(_ context.Context, id uuid.UUID, fullName string) error {
	profile, ok := s.profiles[id]
	if !ok {
		return apperrors.ErrProfileNotFound
	}
	profile.FullName = fullName
	return nil
}

func (s *stubProfileStore) UpdateAvatarURL(_ context.Context, id uuid.UUID, avatarURL string) error {
	profile, ok := s.profiles[id]
	if !ok {
		return apperrors.ErrProfileNotFound
	}
	profile.AvatarURL = &avatarURL
	return nil
}

type stubStudentStore struct {
	students map[uuid.UUID]*models.Student
}

func newStubStudentStore() *stubStudentStore {
	return &stubStudentStore{students: map[uuid.UUID]*models.Student{}}
}

func (s *stubStudentStore) GetByID(_ context.Context, id uuid.UUID) (*models.Student, error) {
	student, ok := s.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return student, nil
}

func (s *stubStudentStore) Update(_ context.Context, student *models.Student) error {
	if _, ok := s.students[student.ID]; !ok {
		return apperrors.ErrStudentNotFound
	}
	s.students[student.ID] = student
	return nil
}

type stubParentStore struct {
	parents map[uuid.UUID]*models.Parent
	links   []*models.StudentParentLink
	notes   []*models.ParentNote
}

func newStubParentStore() *stubParentStore {
	return &stubParentStore{parents: map[uuid.UUID]*models.Parent{}}
}

func (s *stubParentStore) GetByID(_ context.Context, id uuid.UUID) (*models.Parent, error) {
	parent, ok := s.parents[id]
	if !ok {
		return nil, apperrors.ErrParentNotFound
	}
	return parent, nil
}

func (s *stubParentStore) Update(_ context.Context, parent *models.Parent) error {
	if _, ok := s.parents[parent.ID]; !ok {
		return apperrors.ErrParentNotFound
	}
	s.parents[parent.ID] = parent
	return nil
}

func (s *stubParentStore) CreateLink(_ context.Context, link *models.StudentParentLink) error {
	for _, existing := range s.links {
		if existing.StudentID == link.StudentID && existing.ParentID == link.ParentID {
			return apperrors.ErrLinkAlreadyExists
		}
	}
	link.ID = uuid.New()
	link.CreatedAt = time.Now()
	s.links = append(s.links, link)
	return nil
}

func (s *stubParentStore) GetLinksByStudent(_ context.Context, studentID uuid.UUID) ([]*models.StudentParentLink, error) {
	var out []*models.StudentParentLink
	for _, link := range s.links {
		if link.StudentID == studentID {
			out = append(out, link)
		}
	}
	return out, nil
}

func (s *stubParentStore) GetLinksByParent(_ context.Context, parentID uuid.UUID) ([]*models.StudentParentLink, error) {
	var out []*models.StudentParentLink
	for _, link := range s.links {
		if link.ParentID == parentID {
			out = append(out, link)
		}
	}
	return out, nil
}

func (s *stubParentStore) IsLinked(_ context.Context, parentID, studentID uuid.UUID) (bool, error) {
	for _, link := range s.links {
		if link.ParentID == parentID && link.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubParentStore) CreateNote(_ context.Context, note *models.ParentNote) error {
	note.ID = uuid.New()
	note.CreatedAt = time.Now()
	s.notes = append(s.notes, note)
	return nil
}

func (s *stubParentStore) ListNotesByApplication(_ context.Context, applicationID uuid.UUID, viewerID uuid.UUID, includePrivate bool) ([]*models.ParentNote, error) {
	var out []*models.ParentNote
	for _, note := range s.notes {
		if note.ApplicationID != applicationID {
			continue
		}
		if !includePrivate && note.IsPrivate && note.ParentID != viewerID {
			continue
		}
		out = append(out, note)
	}
	return out, nil
}

func (s *stubParentStore) DeleteNote(_ context.Context, noteID, parentID uuid.UUID) error {
	for i, note := range s.notes {
		if note.ID == noteID && note.ParentID == parentID {
			s.notes = append(s.notes[:i], s.notes[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrResourceNotFound
}

type stubUniversityStore struct {
	universities map[uuid.UUID]*models.University
}

func newStubUniversityStore() *stubUniversityStore {
	return &stubUniversityStore{universities: map[uuid.UUID]*models.University{}}
}

func (s *stubUniversityStore) add(u *models.University) *models.University {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	s.universities[u.ID] = u
	return u
}

func (s *stubUniversityStore) Search(_ context.Context, _ *dto.UniversityFilter, offset, limit int) ([]*models.University, int, error) {
	all := make([]*models.University, 0, len(s.universities))
	for _, u := range s.universities {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })

	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (s *stubUniversityStore) GetByID(_ context.Context, id uuid.UUID) (*models.University, error) {
	u, ok := s.universities[id]
	if !ok {
		return nil, apperrors.ErrUniversityNotFound
	}
	return u, nil
}

func (s *stubUniversityStore) Create(_ context.Context, u *models.University) error {
	for _, existing := range s.universities {
		if existing.Name == u.Name {
			return apperrors.ErrUniversityAlreadyExists
		}
	}
	s.add(u)
	return nil
}

type stubApplicationStore struct {
	applications map[uuid.UUID]*models.Application
}

func newStubApplicationStore() *stubApplicationStore {
	return &stubApplicationStore{applications: map[uuid.UUID]*models.Application{}}
}

func (s *stubApplicationStore) Create(_ context.Context, app *models.Application) error {
	app.ID = uuid.New()
	app.CreatedAt = time.Now()
	app.UpdatedAt = app.CreatedAt
	s.applications[app.ID] = app
	return nil
}

func (s *stubApplicationStore) GetByID(_ context.Context, id, studentID uuid.UUID) (*models.Application, error) {
	app, ok := s.applications[id]
	if !ok || app.StudentID != studentID {
		return nil, apperrors.ErrApplicationNotFound
	}
	return app, nil
}

func (s *stubApplicationStore) ListByStudent(_ context.Context, studentID uuid.UUID, status models.ApplicationStatus) ([]*models.Application, error) {
	var out []*models.Application
	for _, app := range s.applications {
		if app.StudentID != studentID {
			continue
		}
		if status != "" && app.Status != status {
			continue
		}
		out = append(out, app)
	}
	// Deadline ascending with undated rows last, creation order as the
	// tiebreak, matching the repository query.
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := out[i].Deadline, out[j].Deadline
		switch {
		case di == nil && dj == nil:
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		case di == nil:
			return false
		case dj == nil:
			return true
		case di.Equal(*dj):
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		default:
			return di.Before(*dj)
		}
	})
	return out, nil
}

func (s *stubApplicationStore) Update(_ context.Context, id, studentID uuid.UUID, fields map[string]interface{}) error {
	app, ok := s.applications[id]
	if !ok || app.StudentID != studentID {
		return apperrors.ErrApplicationNotFound
	}
	for key, value := range fields {
		switch key {
		case "status":
			app.Status = value.(models.ApplicationStatus)
		case "priority":
			v := value.(int)
			app.Priority = &v
		case "deadline":
			v := value.(time.Time)
			app.Deadline = &v
		case "submitted_date":
			v := value.(time.Time)
			app.SubmittedDate = &v
		case "decision_date":
			v := value.(time.Time)
			app.DecisionDate = &v
		case "decision_type":
			v := value.(models.DecisionType)
			app.DecisionType = &v
		case "notes":
			v := value.(string)
			app.Notes = &v
		}
	}
	app.UpdatedAt = time.Now()
	return nil
}

func (s *stubApplicationStore) Delete(_ context.Context, id, studentID uuid.UUID) error {
	app, ok := s.applications[id]
	if !ok || app.StudentID != studentID {
		return apperrors.ErrApplicationNotFound
	}
	delete(s.applications, id)
	return nil
}

func (s *stubApplicationStore) ExistsByStudentUniversityType(_ context.Context, studentID, universityID uuid.UUID, appType models.ApplicationType) (bool, error) {
	for _, app := range s.applications {
		if app.StudentID == studentID && app.UniversityID == universityID && app.ApplicationType == appType {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubApplicationStore) GetOwner(_ context.Context, id uuid.UUID) (uuid.UUID, error) {
	app, ok := s.applications[id]
	if !ok {
		return uuid.Nil, apperrors.ErrApplicationNotFound
	}
	return app.StudentID, nil
}

type stubRequirementStore struct {
	requirements map[uuid.UUID]*models.Requirement
}

func newStubRequirementStore() *stubRequirementStore {
	return &stubRequirementStore{requirements: map[uuid.UUID]*models.Requirement{}}
}

func (s *stubRequirementStore) Create(_ context.Context, req *models.Requirement) error {
	req.ID = uuid.New()
	req.CreatedAt = time.Now()
	req.UpdatedAt = req.CreatedAt
	s.requirements[req.ID] = req
	return nil
}

func (s *stubRequirementStore) GetByID(_ context.Context, id, applicationID uuid.UUID) (*models.Requirement, error) {
	req, ok := s.requirements[id]
	if !ok || req.ApplicationID != applicationID {
		return nil, apperrors.ErrRequirementNotFound
	}
	return req, nil
}

func (s *stubRequirementStore) ListByApplication(_ context.Context, applicationID uuid.UUID) ([]*models.Requirement, error) {
	var out []*models.Requirement
	for _, req := range s.requirements {
		if req.ApplicationID == applicationID {
			out = append(out, req)
		}
	}
	return out, nil
}

func (s *stubRequirementStore) Update(_ context.Context, id, applicationID uuid.UUID, fields map[string]interface{}) error {
	req, ok := s.requirements[id]
	if !ok || req.ApplicationID != applicationID {
		return apperrors.ErrRequirementNotFound
	}
	for key, value := range fields {
		switch key {
		case "status":
			req.Status = value.(models.RequirementStatus)
		case "requirement_name":
			req.RequirementName = value.(string)
		case "deadline":
			v := value.(time.Time)
			req.Deadline = &v
		case "completed_date":
			v := value.(time.Time)
			req.CompletedDate = &v
		case "notes":
			v := value.(string)
			req.Notes = &v
		}
	}
	req.UpdatedAt = time.Now()
	return nil
}

func (s *stubRequirementStore) Delete(_ context.Context, id, applicationID uuid.UUID) error {
	req, ok := s.requirements[id]
	if !ok || req.ApplicationID != applicationID {
		return apperrors.ErrRequirementNotFound
	}
	delete(s.requirements, id)
	return nil
}

type stubActivityStore struct {
	entries []*models.ActivityEntry

	// createErr simulates an activity write failure
	createErr error
}

func newStubActivityStore() *stubActivityStore {
	return &stubActivityStore{}
}

func (s *stubActivityStore) Create(_ context.Context, entry *models.ActivityEntry) error {
	if s.createErr != nil {
		return s.createErr
	}
	entry.ID = uuid.New()
	entry.CreatedAt = time.Now()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *stubActivityStore) ListByStudent(_ context.Context, studentID uuid.UUID, limit int) ([]*models.ActivityEntry, error) {
	var out []*models.ActivityEntry
	for _, entry := range s.entries {
		if entry.StudentID != nil && *entry.StudentID == studentID {
			out = append(out, entry)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type storedToken struct {
	userID  uuid.UUID
	expiry  time.Time
	revoked bool
}

type stubTokenStore struct {
	tokens map[string]*storedToken
}

func newStubTokenStore() *stubTokenStore {
	return &stubTokenStore{tokens: map[string]*storedToken{}}
}

func (s *stubTokenStore) CreateToken(_ context.Context, token string, userID uuid.UUID, expiryDate time.Time) error {
	s.tokens[token] = &storedToken{userID: userID, expiry: expiryDate}
	return nil
}

func (s *stubTokenStore) GetTokenByValue(_ context.Context, token string) (uuid.UUID, time.Time, error) {
	stored, ok := s.tokens[token]
	if !ok {
		return uuid.Nil, time.Time{}, apperrors.ErrTokenNotFound
	}
	if stored.revoked {
		return uuid.Nil, time.Time{}, apperrors.ErrTokenRevoked
	}
	if time.Now().After(stored.expiry) {
		return uuid.Nil, time.Time{}, apperrors.ErrTokenExpired
	}
	return stored.userID, stored.expiry, nil
}

func (s *stubTokenStore) RevokeToken(_ context.Context, token string) error {
	stored, ok := s.tokens[token]
	if !ok {
		return apperrors.ErrTokenNotFound
	}
	stored.revoked = true
	return nil
}
