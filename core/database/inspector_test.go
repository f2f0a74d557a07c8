package database

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestGetTableColumns(t *testing.T) {
	db, mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}).
		AddRow("ID", "INT(11)", "NO", "PRI", nil, "auto_increment").
		AddRow("joblink", "VARCHAR(512)", "YES", "", nil, "")

	mock.ExpectQuery("SHOW COLUMNS FROM `jnp_jobs`").WillReturnRows(rows)

	columns, err := GetTableColumns(db, "jnp_jobs")
	assert.NoError(t, err)
	assert.Len(t, columns, 2)
	// Field names and types are normalized to lowercase
	assert.Equal(t, "id", columns[0].Field)
	assert.Equal(t, "int(11)", columns[0].Type)
}

func TestMissingColumns(t *testing.T) {
	db, mock := setupMockDB(t)

	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}).
		AddRow("id", "int(11)", "NO", "PRI", nil, "").
		AddRow("title", "varchar(255)", "YES", "", nil, "")

	mock.ExpectQuery("SHOW COLUMNS FROM `jnp_jobs`").WillReturnRows(rows)

	missing, err := MissingColumns(db, "jnp_jobs", []string{"id", "title", "ai_skills"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"ai_skills"}, missing)
}
