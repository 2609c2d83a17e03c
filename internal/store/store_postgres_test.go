package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"character-explorer/internal/common/database"
	apperrors "character-explorer/internal/common/errors"
	"character-explorer/internal/common/logger"
	"character-explorer/internal/models"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewWithDB(db, database.PostgresDialect{}, logger.NewNoOpLogger()), mock
}

var characterColumns = []string{
	"chara_id", "chara_name", "chara_age", "is_oc", "chara_creator", "chara_info",
	"franchise_id", "franchise_name", "franchise_info", "character_image",
}

func TestPostgres_AddFranchise(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`INSERT INTO franchise \(franchise_name, franchise_info\)\s+VALUES \(\$1, \$2\)\s+RETURNING franchise_id`).
		WithArgs("Naruto", "Shonen series").
		WillReturnRows(sqlmock.NewRows([]string{"franchise_id"}).AddRow(int64(7)))

	id, err := s.AddFranchise(context.Background(), "Naruto", models.StringPtr("Shonen series"))
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_AddFranchise_ExistingName(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`INSERT INTO franchise`).
		WithArgs("Naruto", nil).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})
	mock.ExpectQuery(`SELECT franchise_id FROM franchise WHERE franchise_name = \$1`).
		WithArgs("Naruto").
		WillReturnRows(sqlmock.NewRows([]string{"franchise_id"}).AddRow(int64(3)))

	id, err := s.AddFranchise(context.Background(), "Naruto", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_AddFranchise_QueryFailure(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`INSERT INTO franchise`).
		WillReturnError(errors.New("connection reset by peer"))

	_, err := s.AddFranchise(context.Background(), "Naruto", nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeQueryExecutionFailed, apperrors.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_AddCharacter_ForeignKeyViolation(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`INSERT INTO "character" .* VALUES \(\$1, \$2, \$3, \$4, \$5, \$6, \$7\)\s+RETURNING chara_id`).
		WithArgs("Ghost", nil, false, nil, nil, int64(999), nil).
		WillReturnError(&pq.Error{Code: "23503", Message: "violates foreign key constraint"})

	_, err := s.AddCharacter(context.Background(), models.CharacterInput{Name: "Ghost", FranchiseID: models.IDPtr(999)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrReferentialIntegrity))

	var pqErr *pq.Error
	assert.True(t, errors.As(err, &pqErr))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_UpdateFranchise_DuplicateName(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE franchise\s+SET franchise_name = \$1, franchise_info = \$2\s+WHERE franchise_id = \$3`).
		WithArgs("Bleach", nil, int64(1)).
		WillReturnError(&pq.Error{Code: "23505"})

	err := s.UpdateFranchise(context.Background(), 1, "Bleach", nil)
	assert.True(t, errors.Is(err, apperrors.ErrDuplicateFranchise))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_GetAllCharacters_OrderBy(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`LEFT JOIN franchise f ON c.franchise_id = f.franchise_id\s+ORDER BY c.chara_age, c.chara_id`).
		WillReturnRows(sqlmock.NewRows(characterColumns).
			AddRow(int64(1), "Ichigo", int64(15), false, "Kubo", nil, int64(2), "Bleach", nil, nil).
			AddRow(int64(2), "Nameless", nil, true, nil, nil, nil, nil, nil, []byte("img")))

	all, err := s.GetAllCharacters(context.Background(), models.SortByAge)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 15, *all[0].Age)
	assert.Equal(t, "Bleach", *all[0].FranchiseName)
	assert.Nil(t, all[1].Age)
	assert.Nil(t, all[1].FranchiseID)
	assert.True(t, all[1].IsOC)
	assert.Equal(t, []byte("img"), all[1].Image)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_SearchCharacters_UsesILike(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`WHERE c.chara_name ILIKE \$1 ESCAPE '\\'\s+OR c.chara_creator ILIKE \$2 ESCAPE '\\'\s+OR f.franchise_name ILIKE \$3 ESCAPE '\\'`).
		WithArgs(`%50\%%`, `%50\%%`, `%50\%%`).
		WillReturnRows(sqlmock.NewRows(characterColumns))

	found, err := s.SearchCharacters(context.Background(), "50%")
	require.NoError(t, err)
	assert.Empty(t, found)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_UpdateCharacter_PreservesImageWhenNil(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE "character"\s+SET chara_name = \$1, chara_age = \$2, is_oc = \$3, chara_creator = \$4, chara_info = \$5,\s+franchise_id = \$6\s+WHERE chara_id = \$7`).
		WithArgs("Hinata", int64(16), false, nil, nil, nil, int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.UpdateCharacter(context.Background(), 4, models.CharacterInput{Name: "Hinata", Age: models.IntPtr(16)})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_UpdateCharacter_CheckViolation(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`character_image = \$7\s+WHERE chara_id = \$8`).
		WillReturnError(&pq.Error{Code: "23514"})

	err := s.UpdateCharacter(context.Background(), 4, models.CharacterInput{
		Name:  "Hinata",
		Age:   models.IntPtr(-1),
		Image: []byte{1},
	})
	assert.True(t, errors.Is(err, apperrors.ErrConstraintViolation))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_DeleteCharacter(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`DELETE FROM "character" WHERE chara_id = \$1`).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.DeleteCharacter(context.Background(), 9))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_GetCharacterByID_NotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`WHERE c.chara_id = \$1`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(characterColumns))

	c, err := s.GetCharacterByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.NoError(t, mock.ExpectationsWereMet())
}
