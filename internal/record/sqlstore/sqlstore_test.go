package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/locmatrix/internal/config"
	"github.com/dbsmedya/locmatrix/internal/record"
	"github.com/dbsmedya/locmatrix/internal/sqlutil"
)

const mysqlQuery = "SELECT body FROM `records` WHERE kind = ? AND id = ?"

func TestNew_BuildsDriverQuery(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	tests := []struct {
		driver   string
		table    string
		expected string
	}{
		{sqlutil.DriverMySQL, "", mysqlQuery},
		{sqlutil.DriverPostgres, "snapshot.records", `SELECT body FROM "snapshot"."records" WHERE kind = $1 AND id = $2`},
		{sqlutil.DriverSQLite, "records", `SELECT body FROM "records" WHERE kind = ? AND id = ?`},
	}
	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			s, err := New(db, tt.driver, tt.table, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, s.query)
		})
	}
}

func TestNew_RejectsInvalidTable(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	_, err := New(db, sqlutil.DriverMySQL, "records; DROP TABLE users", nil)
	var invalid *sqlutil.InvalidIdentifierError
	assert.ErrorAs(t, err, &invalid)
}

func TestGetEntry(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	s, err := New(db, sqlutil.DriverMySQL, "records", nil)
	require.NoError(t, err)

	body := `{"sys":{"id":"home","type":"Entry","version":3,"publishedVersion":2,
		"contentType":{"sys":{"id":"page","type":"Link","linkType":"ContentType"}}},
		"fields":{"title":{"en-US":"Home"}}}`
	mock.ExpectQuery(regexp.QuoteMeta(mysqlQuery)).
		WithArgs(record.KindEntry, "home").
		WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow(body))

	e, err := s.GetEntry(context.Background(), "home")
	require.NoError(t, err)
	assert.Equal(t, "home", e.Sys.ID)
	assert.Equal(t, "page", e.ContentTypeID())
	assert.Equal(t, "Home", e.Fields.Value("title", "en-US"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAssetAndContentType(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	s, err := New(db, sqlutil.DriverMySQL, "records", nil)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(mysqlQuery)).
		WithArgs(record.KindAsset, "img").
		WillReturnRows(sqlmock.NewRows([]string{"body"}).
			AddRow(`{"sys":{"id":"img"},"fields":{"file":{"en-US":{"url":"//x/y.png"}}}}`))
	mock.ExpectQuery(regexp.QuoteMeta(mysqlQuery)).
		WithArgs(record.KindContentType, "page").
		WillReturnRows(sqlmock.NewRows([]string{"body"}).
			AddRow(`{"sys":{"id":"page"},"displayField":"title","fields":[{"id":"title","name":"Title","type":"Symbol","localized":true}]}`))

	a, err := s.GetAsset(context.Background(), "img")
	require.NoError(t, err)
	assert.Equal(t, "//x/y.png", record.FileURL(a.Fields.Value("file", "en-US")))

	ct, err := s.GetContentType(context.Background(), "page")
	require.NoError(t, err)
	assert.Equal(t, "title", ct.DisplayField)
	require.Len(t, ct.Fields, 1)
	assert.True(t, ct.Fields[0].Localized)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetEntry_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	s, err := New(db, sqlutil.DriverMySQL, "records", nil)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(mysqlQuery)).
		WithArgs(record.KindEntry, "gone").
		WillReturnRows(sqlmock.NewRows([]string{"body"}))

	_, err = s.GetEntry(context.Background(), "gone")
	require.Error(t, err)
	assert.True(t, record.IsNotFound(err))

	var nf *record.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "gone", nf.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetEntry_QueryError(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	s, err := New(db, sqlutil.DriverMySQL, "records", nil)
	require.NoError(t, err)

	boom := errors.New("connection refused")
	mock.ExpectQuery(regexp.QuoteMeta(mysqlQuery)).WillReturnError(boom)

	_, err = s.GetEntry(context.Background(), "home")
	require.Error(t, err)
	assert.False(t, record.IsNotFound(err))
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, sql.ErrNoRows)
}

func TestGetEntry_MalformedBody(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	s, err := New(db, sqlutil.DriverMySQL, "records", nil)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(mysqlQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"body"}).AddRow(`{"sys":`))

	_, err = s.GetEntry(context.Background(), "home")
	var malformed *record.MalformedError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "home", malformed.ID)
}

func TestPingAndClose(t *testing.T) {
	db, mock, _ := sqlmock.New(sqlmock.MonitorPingsOption(true))

	s, err := New(db, sqlutil.DriverMySQL, "records", nil)
	require.NoError(t, err)

	mock.ExpectPing()
	mock.ExpectClose()

	assert.NoError(t, s.Ping(context.Background()))
	assert.NoError(t, s.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpen_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := &config.DatabaseConfig{Driver: sqlutil.DriverMySQL, Host: "127.0.0.1", Port: 1, User: "root", Database: "content"}
	_, err := Open(ctx, cfg, nil)
	require.Error(t, err)
}

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *config.DatabaseConfig
		expected string
		wantErr  bool
	}{
		{
			name: "mysql basic",
			cfg: &config.DatabaseConfig{
				Driver: "mysql", Host: "localhost", Port: 3306, User: "root", Password: "secret",
				Database: "content", TLS: "preferred",
			},
			expected: "root:secret@tcp(localhost:3306)/content?parseTime=true&tls=preferred",
		},
		{
			name: "mysql tls disabled",
			cfg: &config.DatabaseConfig{
				Driver: "mysql", Host: "db", Port: 3307, User: "admin", Password: "p@ss", TLS: "disable",
			},
			expected: "admin:p@ss@tcp(db:3307)/?parseTime=true&tls=false",
		},
		{
			name: "mysql tls required",
			cfg: &config.DatabaseConfig{
				Driver: "mysql", Host: "db", Port: 3306, User: "u", Password: "p", Database: "d", TLS: "required",
			},
			expected: "u:p@tcp(db:3306)/d?parseTime=true&tls=true",
		},
		{
			name: "postgres escapes credentials",
			cfg: &config.DatabaseConfig{
				Driver: "pgx", Host: "pg", Port: 5432, User: "reader", Password: "p@ss/word",
				Database: "content", TLS: "required",
			},
			expected: "postgres://reader:p%40ss%2Fword@pg:5432/content?sslmode=require",
		},
		{
			name: "postgres default tls",
			cfg: &config.DatabaseConfig{
				Driver: "pgx", Host: "pg", Port: 5432, User: "reader", Database: "content",
			},
			expected: "postgres://reader:@pg:5432/content?sslmode=prefer",
		},
		{
			name:     "sqlite",
			cfg:      &config.DatabaseConfig{Driver: "sqlite", Path: "/var/lib/locmatrix/records.db"},
			expected: "file:/var/lib/locmatrix/records.db?mode=ro&_pragma=busy_timeout(5000)",
		},
		{
			name:    "unknown driver",
			cfg:     &config.DatabaseConfig{Driver: "oracle"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsn, err := BuildDSN(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, dsn)
		})
	}
}
