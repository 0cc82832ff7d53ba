package repositories

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/applytrack/applytrack/internal/app/models/dto"
)

func buildFilterSQL(t *testing.T, filter *dto.UniversityFilter) (string, []interface{}) {
	t.Helper()
	base := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Select("id").From("universities")
	sql, args, err := applyUniversityFilter(base, filter).ToSql()
	require.NoError(t, err)
	return sql, args
}

func TestApplyUniversityFilterFreeText(t *testing.T) {
	sql, args := buildFilterSQL(t, &dto.UniversityFilter{Search: "CA"})

	// The term matches name, short name, city and state, so searching a
	// state abbreviation finds its universities.
	assert.Contains(t, sql, "name ILIKE")
	assert.Contains(t, sql, "short_name ILIKE")
	assert.Contains(t, sql, "city ILIKE")
	assert.Contains(t, sql, "state ILIKE")
	for _, arg := range args {
		assert.Equal(t, "%CA%", arg)
	}
}

func TestApplyUniversityFilterConditions(t *testing.T) {
	sql, args := buildFilterSQL(t, &dto.UniversityFilter{
		State:             "MA",
		MaxRanking:        25,
		MinAcceptanceRate: 5,
		MaxTuition:        60000,
		ApplicationSystem: "Common App",
	})

	assert.Contains(t, sql, "state = ")
	assert.Contains(t, sql, "ranking <= ")
	assert.Contains(t, sql, "acceptance_rate >= ")
	assert.Contains(t, sql, "tuition_out_state <= ")
	assert.Contains(t, sql, "application_system = ")
	assert.Len(t, args, 5)
}

func TestApplyUniversityFilterEmpty(t *testing.T) {
	sql, args := buildFilterSQL(t, &dto.UniversityFilter{})

	assert.Equal(t, "SELECT id FROM universities", sql)
	assert.Empty(t, args)
}
