package verify

import (
	"context"
	"testing"
	"time"

	"sync-verifier/core/rawval"

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

var jobColumns = []string{
	"id", "company_name", "title", "statename", "cityname",
	"is_remote", "joblink", "ai_skills", "modified",
}

func TestFetchRecords(t *testing.T) {
	db, mock := setupMockDB(t)
	modified := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(jobColumns).
		AddRow(int64(42), []byte("Acme"), []byte("Backend Engineer"),
			[]byte("California"), []byte("San Jose"),
			int64(1), []byte("http://www.acme.com/job/42"),
			[]byte("python,sql,aws"), modified).
		AddRow(int64(43), []byte("Globex"), []byte("Data Analyst"),
			[]byte("Texas"), []byte("Austin"),
			[]byte("hybrid"), []byte("globex.com/careers/43"),
			nil, modified)

	mock.ExpectQuery("SELECT id, company_name, title, statename, cityname, is_remote, joblink, ai_skills, modified FROM `jnp_jobs` WHERE modified >= \\?").
		WillReturnRows(rows)

	store := NewSourceStore(db, "jnp_jobs")
	records, err := store.FetchRecords(context.Background(), modified.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, int64(42), first.ID)
	assert.Equal(t, "Acme", first.CompanyName)
	assert.Equal(t, "Backend Engineer", first.Title)
	assert.Equal(t, "California", first.StateName)
	assert.Equal(t, "San Jose", first.CityName)
	assert.Equal(t, "1", first.WorkModeRaw.String())
	assert.Equal(t, "http://www.acme.com/job/42", first.JobLink)
	assert.Equal(t, "python,sql,aws", first.SkillsRaw.String())
	assert.Equal(t, modified, first.ModifiedAt)

	second := records[1]
	assert.Equal(t, "hybrid", second.WorkModeRaw.String())
	assert.Equal(t, rawval.KindNull, second.SkillsRaw.Kind())
}

func TestLimitSource(t *testing.T) {
	limited := LimitSource(fixedSource(sampleRecords(5), nil), 3)
	records, err := limited.FetchRecords(context.Background(), time.Now())

	require.NoError(t, err)
	assert.Len(t, records, 3)
	assert.Equal(t, int64(1), records[0].ID)
}

func TestFetchRecordsByteEncodedID(t *testing.T) {
	db, mock := setupMockDB(t)
	modified := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(jobColumns).
		AddRow([]byte("4711"), []byte("Initech"), []byte("QA Engineer"),
			[]byte("Ohio"), []byte("Columbus"),
			int64(0), []byte("initech.com/jobs/4711"),
			[]byte("selenium"), modified).
		AddRow([]byte("not-a-number"), []byte("Hooli"), []byte("Intern"),
			[]byte("Oregon"), []byte("Portland"),
			int64(0), []byte("hooli.com/jobs/1"),
			nil, modified)

	mock.ExpectQuery("SELECT id, company_name").
		WillReturnRows(rows)

	store := NewSourceStore(db, "jnp_jobs")
	records, err := store.FetchRecords(context.Background(), modified.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, int64(4711), records[0].ID)
	assert.Zero(t, records[1].ID)
}

func TestFetchRecordsQueryError(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("SELECT id, company_name").
		WillReturnError(assert.AnError)

	store := NewSourceStore(db, "jnp_jobs")
	records, err := store.FetchRecords(context.Background(), time.Now())

	assert.Nil(t, records)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestFetchRecordsEmptyWindow(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("SELECT id, company_name").
		WillReturnRows(sqlmock.NewRows(jobColumns))

	store := NewSourceStore(db, "jnp_jobs")
	records, err := store.FetchRecords(context.Background(), time.Now())

	require.NoError(t, err)
	assert.Empty(t, records)
}
