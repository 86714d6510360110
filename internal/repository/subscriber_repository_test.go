package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/homework-tracker-api/internal/models"
)

func TestSubscriberRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubscriberRepository(db)

	rows := sqlmock.NewRows([]string{"id", "email", "unsubscribed_homeworks", "created_at"}).
		AddRow("sub-1", "a@example.com", `["hw-1"]`, time.Now()).
		AddRow("sub-2", "b@example.com", nil, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + subscriberColumns + " FROM subscribers")).
		WillReturnRows(rows)

	subs, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, models.StringList{"hw-1"}, subs[0].UnsubscribedHomeworks)
	assert.Empty(t, subs[1].UnsubscribedHomeworks)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriberRepositoryExistsByEmail(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubscriberRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM subscribers WHERE email = $1)")).
		WithArgs("a@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByEmail(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriberRepositoryCreateDuplicate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubscriberRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO subscribers")).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value"})

	err := repo.Create(context.Background(), &models.Subscriber{Email: "a@example.com"})
	require.ErrorIs(t, err, ErrDuplicate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriberRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubscriberRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO subscribers")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	sub := &models.Subscriber{Email: "a@example.com"}
	require.NoError(t, repo.Create(context.Background(), sub))
	assert.NotEmpty(t, sub.ID)
	assert.Equal(t, models.StringList{}, sub.UnsubscribedHomeworks)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriberRepositoryAddUnsubscribedHomework(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubscriberRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE subscribers SET unsubscribed_homeworks")).
		WithArgs("hw-1", "sub-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE subscribers SET unsubscribed_homeworks")).
		WithArgs("hw-1", "gone").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.AddUnsubscribedHomework(context.Background(), "sub-1", "hw-1"))
	require.ErrorIs(t, repo.AddUnsubscribedHomework(context.Background(), "gone", "hw-1"), ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriberRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubscriberRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM subscribers WHERE id = $1")).
		WithArgs("sub-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.ErrorIs(t, repo.Delete(context.Background(), "sub-1"), ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEmailRepositoryCreateAndList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEmailRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO emails")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, address, created_at FROM emails")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "address", "created_at"}).AddRow("e-1", "a@example.com", time.Now()))

	email := &models.EmailAddress{Address: "a@example.com"}
	require.NoError(t, repo.Create(context.Background(), email))
	assert.NotEmpty(t, email.ID)

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a@example.com", list[0].Address)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, nil)
	var dest []models.Homework

	assert.False(t, repo.Enabled())
	require.Error(t, repo.Get(context.Background(), "homeworks:all", &dest))
	require.NoError(t, repo.Set(context.Background(), "homeworks:all", dest, time.Minute))
	require.NoError(t, repo.DeleteByPattern(context.Background(), "homeworks:*"))
	require.NoError(t, repo.Ping(context.Background()))
	require.NoError(t, repo.Close())
}
