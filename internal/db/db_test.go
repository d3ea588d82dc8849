package db

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitClosesPoolWhenPingFails(t *testing.T) {
	dsn := "ping-fails"
	mockDB, mock, err := sqlmock.NewWithDSN(dsn, sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer mockDB.Close()

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	mock.ExpectClose()

	db, err := Init(t.Context(), "sqlmock", dsn)
	assert.Nil(t, db)
	assert.ErrorContains(t, err, "failed to ping database")
	assert.NoError(t, mock.ExpectationsWereMet())
}
