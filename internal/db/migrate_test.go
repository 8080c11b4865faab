package db

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lead-intake-go/migrations"
)

func TestMigrationNamesSortedSQLOnly(t *testing.T) {
	files := fstest.MapFS{
		"0002_users.sql":   {Data: []byte("SELECT 1;")},
		"0001_init.sql":    {Data: []byte("SELECT 1;")},
		"README.md":        {Data: []byte("notes")},
		"archive/0000.sql": {Data: []byte("SELECT 1;")},
		"0010_indexes.sql": {Data: []byte("SELECT 1;")},
	}

	names, err := migrationNames(files)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_init.sql", "0002_users.sql", "0010_indexes.sql"}, names)
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	names, err := migrationNames(migrations.Files)
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "0001_init.sql", names[0])
}
