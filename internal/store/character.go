package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	apperrors "character-explorer/internal/common/errors"
	"character-explorer/internal/models"
)

const characterSelect = `
	SELECT c.chara_id, c.chara_name, c.chara_age, c.is_oc, c.chara_creator, c.chara_info,
	       c.franchise_id, f.franchise_name, f.franchise_info, c.character_image
	FROM "character" c
	LEFT JOIN franchise f ON c.franchise_id = f.franchise_id`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCharacter(row rowScanner) (models.Character, error) {
	var (
		c             models.Character
		age           sql.NullInt64
		creator       sql.NullString
		info          sql.NullString
		franchiseID   sql.NullInt64
		franchiseName sql.NullString
		franchiseInfo sql.NullString
		image         []byte
	)
	if err := row.Scan(&c.ID, &c.Name, &age, &c.IsOC, &creator, &info,
		&franchiseID, &franchiseName, &franchiseInfo, &image); err != nil {
		return c, err
	}
	c.Age = nullInt(age)
	c.Creator = nullString(creator)
	c.Info = nullString(info)
	c.FranchiseID = nullInt64(franchiseID)
	c.FranchiseName = nullString(franchiseName)
	c.FranchiseInfo = nullString(franchiseInfo)
	c.Image = image
	return c, nil
}

func (s *Store) queryCharacters(ctx context.Context, conn *sql.Conn, operation, query string, args ...interface{}) ([]models.Character, error) {
	rows, err := conn.QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError(operation, err)
	}
	defer rows.Close()

	var characters []models.Character
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, apperrors.NewQueryExecutionFailedError(operation, err)
		}
		characters = append(characters, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewQueryExecutionFailedError(operation, err)
	}
	return characters, nil
}

// AddCharacter inserts a character and returns its id. A franchise id that
// does not exist fails with ErrReferentialIntegrity.
func (s *Store) AddCharacter(ctx context.Context, in models.CharacterInput) (int64, error) {
	var id int64
	err := s.withConn(ctx, "add_character", func(conn *sql.Conn) error {
		err := conn.QueryRowContext(ctx, s.q(`
			INSERT INTO "character" (chara_name, chara_age, is_oc, chara_creator, chara_info, franchise_id, character_image)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			RETURNING chara_id`),
			in.Name, in.Age, in.IsOC, in.Creator, in.Info, in.FranchiseID, nullableBlob(in.Image),
		).Scan(&id)
		if err != nil {
			return s.writeError("add_character", err, in.FranchiseID, "")
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// GetAllCharacters lists every character ordered by sortBy. Unknown keys
// fall back to ordering by name.
func (s *Store) GetAllCharacters(ctx context.Context, sortBy models.SortKey) ([]models.Character, error) {
	var characters []models.Character
	err := s.withConn(ctx, "get_all_characters", func(conn *sql.Conn) error {
		var err error
		characters, err = s.queryCharacters(ctx, conn, "get_all_characters",
			characterSelect+"\n\tORDER BY "+orderBy(sortBy))
		return err
	})
	if err != nil {
		return nil, err
	}
	return characters, nil
}

// GetCharacterByID returns nil, nil when no character has the id.
func (s *Store) GetCharacterByID(ctx context.Context, id int64) (*models.Character, error) {
	var character *models.Character
	err := s.withConn(ctx, "get_character_by_id", func(conn *sql.Conn) error {
		row := conn.QueryRowContext(ctx, s.q(characterSelect+"\n\tWHERE c.chara_id = ?"), id)
		c, err := scanCharacter(row)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return apperrors.NewQueryExecutionFailedError("get_character_by_id", err)
		}
		character = &c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return character, nil
}

// SearchCharacters matches term case-insensitively as a literal substring of
// the character name, the creator or the franchise name. Results come back in
// the engine's default order.
func (s *Store) SearchCharacters(ctx context.Context, term string) ([]models.Character, error) {
	like := s.dialect.CaseInsensitiveLike()
	pattern := "%" + escapeLike(term) + "%"
	query := characterSelect + `
	WHERE c.chara_name ` + like + ` ? ESCAPE '\'
	   OR c.chara_creator ` + like + ` ? ESCAPE '\'
	   OR f.franchise_name ` + like + ` ? ESCAPE '\'`

	var characters []models.Character
	err := s.withConn(ctx, "search_characters", func(conn *sql.Conn) error {
		var err error
		characters, err = s.queryCharacters(ctx, conn, "search_characters", query, pattern, pattern, pattern)
		return err
	})
	if err != nil {
		return nil, err
	}
	return characters, nil
}

// UpdateCharacter overwrites every writable field of the character. A nil
// image leaves the stored image untouched. An unknown id is not an error.
func (s *Store) UpdateCharacter(ctx context.Context, id int64, in models.CharacterInput) error {
	return s.withConn(ctx, "update_character", func(conn *sql.Conn) error {
		var err error
		if in.Image != nil {
			_, err = conn.ExecContext(ctx, s.q(`
				UPDATE "character"
				SET chara_name = ?, chara_age = ?, is_oc = ?, chara_creator = ?, chara_info = ?,
				    franchise_id = ?, character_image = ?
				WHERE chara_id = ?`),
				in.Name, in.Age, in.IsOC, in.Creator, in.Info, in.FranchiseID, in.Image, id)
		} else {
			_, err = conn.ExecContext(ctx, s.q(`
				UPDATE "character"
				SET chara_name = ?, chara_age = ?, is_oc = ?, chara_creator = ?, chara_info = ?,
				    franchise_id = ?
				WHERE chara_id = ?`),
				in.Name, in.Age, in.IsOC, in.Creator, in.Info, in.FranchiseID, id)
		}
		if err != nil {
			return s.writeError("update_character", err, in.FranchiseID, "")
		}
		return nil
	})
}

// DeleteCharacter removes a character. An unknown id is not an error.
func (s *Store) DeleteCharacter(ctx context.Context, id int64) error {
	return s.withConn(ctx, "delete_character", func(conn *sql.Conn) error {
		_, err := conn.ExecContext(ctx, s.q(`DELETE FROM "character" WHERE chara_id = ?`), id)
		if err != nil {
			return apperrors.NewQueryExecutionFailedError("delete_character", err)
		}
		return nil
	})
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE wildcards in term match literally.
func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}
