package database

import (
	"io/fs"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_Embedded(t *testing.T) {
	names, err := fs.Glob(migrations, "migrations/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, names)

	versioned := regexp.MustCompile(`^migrations/\d{3}_[a-z0-9_]+\.sql$`)
	for _, name := range names {
		assert.Regexp(t, versioned, name)
	}
}

func TestMigrations_DerivedTotalsAreUnscaled(t *testing.T) {
	body, err := migrations.ReadFile("migrations/002_exact_derived_totals.sql")
	require.NoError(t, err)

	for _, col := range []string{"total_cost", "total_due", "balance_remaining"} {
		assert.Regexp(t, `ALTER COLUMN `+col+` TYPE NUMERIC;`, string(body))
	}
}
