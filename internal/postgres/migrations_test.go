package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations(t *testing.T) {
	migrations, err := Migrations()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)

	assert.Equal(t, "migrations/001_create_tax_configurations.sql", migrations[0].Name)
	assert.True(t, strings.Contains(migrations[0].SQL, "idx_tax_configurations_default_slot"))

	for i := 1; i < len(migrations); i++ {
		assert.Less(t, migrations[i-1].Name, migrations[i].Name)
	}
}
