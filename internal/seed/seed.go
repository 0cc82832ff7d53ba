package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	appModels "github.com/applytrack/applytrack/internal/app/models"
	appRepos "github.com/applytrack/applytrack/internal/app/repositories"
	"github.com/applytrack/applytrack/internal/pkg/apperrors"
)

const (
	defaultAdminEmail    = "admin@applytrack.app"
	defaultAdminPassword = "Admin123!"
)

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func floatPtr(f float64) *float64 { return &f }

// CreateDefaultData seeds a starter set of universities so the catalog
// is usable before an admin curates it, plus the default admin account
// that curates it. Existing rows are left alone.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	universityRepo := appRepos.NewUniversityRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default university catalog...")
	var finalErr error

	for _, u := range defaultUniversities() {
		u := u
		if err := universityRepo.Create(ctx, &u); err != nil {
			if errors.Is(err, apperrors.ErrUniversityAlreadyExists) {
				continue
			}
			lgr.Error().Err(err).Str("name", u.Name).Msg("Error seeding university")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if err := createDefaultAdmin(ctx, dbPool, lgr); err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	if finalErr == nil {
		lgr.Info().Msg("Default data check complete")
	}
	return finalErr
}

// createDefaultAdmin seeds the admin identity the catalog write
// endpoints require. The password is a bootstrap default, change it
// after the first login.
func createDefaultAdmin(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	identityRepo := appRepos.NewIdentityRepository(dbPool)
	profileRepo := appRepos.NewProfileRepository(dbPool)

	exists, err := identityRepo.EmailExists(ctx, defaultAdminEmail)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking if admin account exists")
		return err
	}
	if exists {
		lgr.Info().Msg("Admin account already exists, skipping creation")
		return nil
	}

	lgr.Info().Msg("Creating default admin account...")
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(defaultAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing admin password")
		return err
	}

	admin := &appModels.Identity{
		Email:        defaultAdminEmail,
		PasswordHash: string(hashedPassword),
		FullName:     "System Administrator",
		Role:         appModels.RoleAdmin,
	}
	if err := identityRepo.Create(ctx, admin); err != nil {
		lgr.Error().Err(err).Msg("Error creating admin account")
		return err
	}

	profile := &appModels.Profile{
		ID:       admin.ID,
		Email:    admin.Email,
		FullName: admin.FullName,
		Role:     admin.Role,
	}
	if err := profileRepo.CreateWithExtension(ctx, profile, nil, nil); err != nil {
		lgr.Error().Err(err).Msg("Error creating admin profile")
		return err
	}

	lgr.Info().Str("adminId", admin.ID.String()).Msg("Default admin account created successfully")
	return nil
}

func defaultUniversities() []appModels.University {
	return []appModels.University{
		{
			Name:              "Stanford University",
			ShortName:         strPtr("Stanford"),
			Country:           "United States",
			State:             strPtr("CA"),
			City:              strPtr("Stanford"),
			WebsiteURL:        strPtr("https://www.stanford.edu"),
			Ranking:           intPtr(3),
			AcceptanceRate:    floatPtr(3.9),
			ApplicationSystem: strPtr("Common App"),
			TuitionInState:    floatPtr(56169),
			TuitionOutState:   floatPtr(56169),
			RoomAndBoard:      floatPtr(17255),
			ApplicationFee:    floatPtr(90),
			Deadlines: map[string]string{
				"early_action":     "2026-11-01",
				"regular_decision": "2027-01-05",
			},
			PopularMajors:   []string{"Computer Science", "Engineering", "Biology"},
			TotalEnrollment: intPtr(17381),
		},
		{
			Name:              "Massachusetts Institute of Technology",
			ShortName:         strPtr("MIT"),
			Country:           "United States",
			State:             strPtr("MA"),
			City:              strPtr("Cambridge"),
			WebsiteURL:        strPtr("https://www.mit.edu"),
			Ranking:           intPtr(2),
			AcceptanceRate:    floatPtr(4.1),
			ApplicationSystem: strPtr("MIT Application"),
			TuitionInState:    floatPtr(57986),
			TuitionOutState:   floatPtr(57986),
			RoomAndBoard:      floatPtr(18100),
			ApplicationFee:    floatPtr(75),
			Deadlines: map[string]string{
				"early_action":     "2026-11-01",
				"regular_decision": "2027-01-06",
			},
			PopularMajors:   []string{"Computer Science", "Mechanical Engineering", "Mathematics"},
			TotalEnrollment: intPtr(11858),
		},
		{
			Name:              "University of Michigan",
			ShortName:         strPtr("Michigan"),
			Country:           "United States",
			State:             strPtr("MI"),
			City:              strPtr("Ann Arbor"),
			WebsiteURL:        strPtr("https://www.umich.edu"),
			Ranking:           intPtr(21),
			AcceptanceRate:    floatPtr(17.7),
			ApplicationSystem: strPtr("Common App"),
			TuitionInState:    floatPtr(17786),
			TuitionOutState:   floatPtr(58072),
			RoomAndBoard:      floatPtr(13258),
			ApplicationFee:    floatPtr(75),
			Deadlines: map[string]string{
				"early_action":     "2026-11-01",
				"regular_decision": "2027-02-01",
			},
			PopularMajors:   []string{"Business", "Engineering", "Psychology"},
			TotalEnrollment: intPtr(51225),
		},
		{
			Name:              "University of California, Berkeley",
			ShortName:         strPtr("UC Berkeley"),
			Country:           "United States",
			State:             strPtr("CA"),
			City:              strPtr("Berkeley"),
			WebsiteURL:        strPtr("https://www.berkeley.edu"),
			Ranking:           intPtr(15),
			AcceptanceRate:    floatPtr(11.4),
			ApplicationSystem: strPtr("UC Application"),
			TuitionInState:    floatPtr(14226),
			TuitionOutState:   floatPtr(44008),
			RoomAndBoard:      floatPtr(19174),
			ApplicationFee:    floatPtr(70),
			Deadlines: map[string]string{
				"regular_decision": "2026-11-30",
			},
			PopularMajors:   []string{"Electrical Engineering", "Computer Science", "Economics"},
			TotalEnrollment: intPtr(45057),
		},
		{
			Name:              "Purdue University",
			ShortName:         strPtr("Purdue"),
			Country:           "United States",
			State:             strPtr("IN"),
			City:              strPtr("West Lafayette"),
			WebsiteURL:        strPtr("https://www.purdue.edu"),
			Ranking:           intPtr(43),
			AcceptanceRate:    floatPtr(52.7),
			ApplicationSystem: strPtr("Common App"),
			TuitionInState:    floatPtr(9992),
			TuitionOutState:   floatPtr(28794),
			RoomAndBoard:      floatPtr(10030),
			ApplicationFee:    floatPtr(60),
			Deadlines: map[string]string{
				"early_action":     "2026-11-01",
				"regular_decision": "2027-01-15",
			},
			PopularMajors:   []string{"Engineering", "Computer Science", "Agriculture"},
			TotalEnrollment: intPtr(49639),
		},
	}
}
