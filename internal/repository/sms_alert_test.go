package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmsAlertRepositoryExistsForEvent(t *testing.T) {
	gormDB, mock := newMockDB(t)
	repo := NewSmsAlertRepository(gormDB)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "sms_alerts" WHERE event_id =`).
		WithArgs("event-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.ExistsForEvent(context.Background(), "event-1")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSmsAlertRepositoryExistsForEventNoRow(t *testing.T) {
	gormDB, mock := newMockDB(t)
	repo := NewSmsAlertRepository(gormDB)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "sms_alerts" WHERE event_id =`).
		WithArgs("event-9").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	exists, err := repo.ExistsForEvent(context.Background(), "event-9")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
