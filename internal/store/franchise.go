package store

import (
	"context"
	"database/sql"
	"errors"

	"character-explorer/internal/common/database"
	apperrors "character-explorer/internal/common/errors"
	"character-explorer/internal/models"
)

// AddFranchise inserts a franchise. When the name is already taken it
// returns the existing franchise's id and the supplied info is discarded.
func (s *Store) AddFranchise(ctx context.Context, name string, info *string) (int64, error) {
	var id int64
	err := s.withConn(ctx, "add_franchise", func(conn *sql.Conn) error {
		err := conn.QueryRowContext(ctx, s.q(`
			INSERT INTO franchise (franchise_name, franchise_info)
			VALUES (?, ?)
			RETURNING franchise_id`), name, info).Scan(&id)
		if err == nil {
			return nil
		}
		if s.dialect.Constraint(err) != database.ConstraintUnique {
			return s.writeError("add_franchise", err, nil, name)
		}

		err = conn.QueryRowContext(ctx, s.q(`
			SELECT franchise_id FROM franchise WHERE franchise_name = ?`), name).Scan(&id)
		if err != nil {
			return apperrors.NewQueryExecutionFailedError("add_franchise", err)
		}
		s.logger.Debug("franchise already exists", map[string]interface{}{
			"franchiseId":   id,
			"franchiseName": name,
		})
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// GetAllFranchises returns every franchise ordered by name.
func (s *Store) GetAllFranchises(ctx context.Context) ([]models.Franchise, error) {
	var franchises []models.Franchise
	err := s.withConn(ctx, "get_all_franchises", func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, `
			SELECT franchise_id, franchise_name, franchise_info
			FROM franchise
			ORDER BY franchise_name`)
		if err != nil {
			return apperrors.NewQueryExecutionFailedError("get_all_franchises", err)
		}
		defer rows.Close()

		for rows.Next() {
			var f models.Franchise
			var info sql.NullString
			if err := rows.Scan(&f.ID, &f.Name, &info); err != nil {
				return apperrors.NewQueryExecutionFailedError("get_all_franchises", err)
			}
			f.Info = nullString(info)
			franchises = append(franchises, f)
		}
		if err := rows.Err(); err != nil {
			return apperrors.NewQueryExecutionFailedError("get_all_franchises", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return franchises, nil
}

// GetFranchiseByID returns nil, nil when no franchise has the id.
func (s *Store) GetFranchiseByID(ctx context.Context, id int64) (*models.Franchise, error) {
	var franchise *models.Franchise
	err := s.withConn(ctx, "get_franchise_by_id", func(conn *sql.Conn) error {
		var f models.Franchise
		var info sql.NullString
		err := conn.QueryRowContext(ctx, s.q(`
			SELECT franchise_id, franchise_name, franchise_info
			FROM franchise
			WHERE franchise_id = ?`), id).Scan(&f.ID, &f.Name, &info)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return apperrors.NewQueryExecutionFailedError("get_franchise_by_id", err)
		}
		f.Info = nullString(info)
		franchise = &f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return franchise, nil
}

// UpdateFranchise overwrites name and info. An unknown id is not an error.
func (s *Store) UpdateFranchise(ctx context.Context, id int64, name string, info *string) error {
	return s.withConn(ctx, "update_franchise", func(conn *sql.Conn) error {
		_, err := conn.ExecContext(ctx, s.q(`
			UPDATE franchise
			SET franchise_name = ?, franchise_info = ?
			WHERE franchise_id = ?`), name, info, id)
		if err != nil {
			return s.writeError("update_franchise", err, nil, name)
		}
		return nil
	})
}

// DeleteFranchise removes a franchise; characters that referenced it keep
// existing with no franchise.
func (s *Store) DeleteFranchise(ctx context.Context, id int64) error {
	return s.withConn(ctx, "delete_franchise", func(conn *sql.Conn) error {
		_, err := conn.ExecContext(ctx, s.q(`DELETE FROM franchise WHERE franchise_id = ?`), id)
		if err != nil {
			return apperrors.NewQueryExecutionFailedError("delete_franchise", err)
		}
		return nil
	})
}
