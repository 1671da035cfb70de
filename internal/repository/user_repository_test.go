package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestLeaderboardOrdersByPointsThenJoinTime(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"\."deleted_at" IS NULL ORDER BY points DESC, joined_at ASC, id ASC LIMIT`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "points", "joined_at"}).
			AddRow(3, "Top", 500, now).
			AddRow(1, "Mid", 200, now))
	mock.ExpectQuery(`SELECT \* FROM "user_badges" WHERE "user_badges"\."user_id" IN`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "badge_id", "awarded_at"}).
			AddRow(3, "prompt_novice", now))
	mock.ExpectQuery(`SELECT \* FROM "completions" WHERE "completions"\."user_id" IN`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "challenge_id", "completed_at"}).
			AddRow(3, 1, now))

	users, err := repo.Leaderboard(50)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, uint(3), users[0].ID)
	assert.Len(t, users[0].Badges, 1)
	assert.Len(t, users[0].Completed, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByEmailMissTranslatesToRecordNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WithArgs("nobody@example.com", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindByEmail("nobody@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTouchLastActive(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET "last_active"=\$1,"updated_at"=\$2 WHERE id = \$3`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.TouchLastActive(7))
	assert.NoError(t, mock.ExpectationsWereMet())
}
