package audit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 mockDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	st := NewStore(db)
	st.hostname = "seed-host"
	st.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	return st, mock
}

func TestStore_SaveSeedEvent(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectQuery(`INSERT INTO "audit_messages"`).
		WithArgs(
			sqlmock.AnyArg(),    // logged_at
			"seed",              // msgid
			int(SeverityNotice), // severity
			FacilityAuth,        // facility
			"seed-host",         // hostname
			"startup",           // subject
			"success",           // result
			sqlmock.AnyArg(),    // sdata
			sqlmock.AnyArg(),    // message
		).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	err := st.Save(context.Background(), SeedEvent{Source: "startup", Created: 22, Success: true})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_SaveAccessIPEvent(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectQuery(`INSERT INTO "audit_messages"`).
		WithArgs(
			sqlmock.AnyArg(),
			"access-ip",
			int(SeverityWarning),
			FacilityAuthPriv,
			"seed-host",
			"10.1.2.3",
			"denied",
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
		).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))

	err := st.Save(context.Background(), AccessIPEvent{ClientIP: "10.1.2.3", Method: "GET", Path: "/roles"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_SaveError(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectQuery(`INSERT INTO "audit_messages"`).
		WillReturnError(errors.New("connection reset"))

	err := st.Save(context.Background(), SeedEvent{Source: "cli", Success: false})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save audit seed")
	assert.Contains(t, err.Error(), "connection reset")
}

func TestStore_NilIsANoop(t *testing.T) {
	var st *Store
	assert.NoError(t, st.Save(context.Background(), SeedEvent{Source: "cli"}))
	assert.NoError(t, (&Store{}).Save(context.Background(), SeedEvent{Source: "cli"}))
}

func TestStore_MessageCarriesStructuredData(t *testing.T) {
	st, _ := newMockStore(t)

	row, err := st.messageFor(SeedEvent{Source: "watch", Created: 3, Existing: 19, Success: true})
	require.NoError(t, err)

	assert.Equal(t, "seed", row.MsgID)
	assert.Equal(t, "watch", row.Subject)
	assert.Equal(t, "success", row.Result)
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), row.LoggedAt)

	var sd map[string]map[string]string
	require.NoError(t, json.Unmarshal([]byte(row.SData), &sd))
	assert.Equal(t, "3", sd[SDIDSeed]["created"])
	assert.Equal(t, "19", sd[SDIDSeed]["existing"])
}
