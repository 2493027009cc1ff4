package feedback

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	feedbackCols   = []string{"id", "date_id", "title", "summary", "category", "severity_score", "advice", "created_at"}
	suggestionCols = []string{"id", "feedback_id", "product_id", "reason", "score", "created_at"}
)

func TestPGRepoCreateFeedbackPassesNullsForEmptyFields(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repo := &PGRepo{DB: db}

	created := time.Now().UTC()
	mock.ExpectQuery("INSERT INTO feedback").
		WithArgs(int64(4), DefaultTitle, "summary", "maintain", 0.25, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(11), created))

	fb, err := repo.CreateFeedback(context.Background(), Feedback{
		DateID:        4,
		Title:         DefaultTitle,
		Summary:       "summary",
		Category:      CategoryMaintain,
		SeverityScore: ptr(0.25),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), fb.ID)
	assert.Equal(t, created, fb.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoListByDateGroupsSuggestions(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repo := &PGRepo{DB: db}

	now := time.Now().UTC()
	mock.ExpectQuery("FROM feedback\\s+WHERE date_id = \\$1").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(feedbackCols).
			AddRow(int64(1), int64(3), "t", "s", "routine", 0.1, nil, now).
			AddRow(int64(2), int64(3), "t", nil, nil, nil, "rinse", now))
	mock.ExpectQuery("FROM suggestions s\\s+JOIN feedback f").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(suggestionCols).
			AddRow(int64(5), int64(1), int64(9), "r", 0.8, now))

	items, err := repo.ListByDate(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, CategoryRoutine, items[0].Category)
	require.Len(t, items[0].Suggestions, 1)
	assert.Equal(t, int64(9), items[0].Suggestions[0].ProductID)
	assert.NotNil(t, items[1].Suggestions)
	assert.Empty(t, items[1].Suggestions)
	assert.Nil(t, items[1].SeverityScore)
	assert.Equal(t, "rinse", items[1].Advice)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoListSuggestionsAppliesLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repo := &PGRepo{DB: db}

	mock.ExpectQuery("ORDER BY id LIMIT \\$2").
		WithArgs(int64(8), 3).
		WillReturnRows(sqlmock.NewRows(suggestionCols))

	items, err := repo.ListSuggestions(context.Background(), 8, 3)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPGRepoGetFeedbackNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repo := &PGRepo{DB: db}

	mock.ExpectQuery("FROM feedback\\s+WHERE id = \\$1").
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(feedbackCols))

	_, err = repo.GetFeedback(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
