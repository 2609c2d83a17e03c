// Package controller is the entry point the presentation layer talks to. It
// rejects blank names before they reach storage and passes everything else
// straight through to the repository.
package controller

import (
	"context"
	"time"

	"github.com/google/uuid"

	apperrors "character-explorer/internal/common/errors"
	"character-explorer/internal/common/logger"
	"character-explorer/internal/common/observability"
	"character-explorer/internal/common/validation"
	"character-explorer/internal/models"
)

// Repository is the storage the controller drives. *store.Store implements it.
type Repository interface {
	AddFranchise(ctx context.Context, name string, info *string) (int64, error)
	GetAllFranchises(ctx context.Context) ([]models.Franchise, error)
	GetFranchiseByID(ctx context.Context, id int64) (*models.Franchise, error)
	UpdateFranchise(ctx context.Context, id int64, name string, info *string) error
	DeleteFranchise(ctx context.Context, id int64) error

	AddCharacter(ctx context.Context, in models.CharacterInput) (int64, error)
	GetAllCharacters(ctx context.Context, sortBy models.SortKey) ([]models.Character, error)
	GetCharacterByID(ctx context.Context, id int64) (*models.Character, error)
	SearchCharacters(ctx context.Context, term string) ([]models.Character, error)
	UpdateCharacter(ctx context.Context, id int64, in models.CharacterInput) error
	DeleteCharacter(ctx context.Context, id int64) error

	CountCatalog(ctx context.Context) (franchises, characters int, err error)
}

const (
	fieldCharacterName = "chara_name"
	fieldFranchiseName = "franchise_name"
)

type Controller struct {
	repo   Repository
	logger logger.Logger
	obs    *observability.Observability
}

// New builds a controller. obs may be nil.
func New(repo Repository, log logger.Logger, obs *observability.Observability) *Controller {
	return &Controller{
		repo:   repo,
		logger: logger.Component(log, "controller"),
		obs:    obs,
	}
}

// ==========================
// Franchises
// ==========================

func (c *Controller) AddFranchise(ctx context.Context, name string, info *string) (int64, error) {
	var id int64
	err := c.write(ctx, "add_franchise", fieldFranchiseName, name, func(log logger.Logger) error {
		var err error
		id, err = c.repo.AddFranchise(ctx, name, info)
		if err == nil {
			log.Info("franchise saved", map[string]interface{}{"franchiseId": id})
		}
		return err
	})
	return id, err
}

func (c *Controller) GetAllFranchises(ctx context.Context) ([]models.Franchise, error) {
	return c.repo.GetAllFranchises(ctx)
}

func (c *Controller) GetFranchiseByID(ctx context.Context, id int64) (*models.Franchise, error) {
	return c.repo.GetFranchiseByID(ctx, id)
}

func (c *Controller) UpdateFranchise(ctx context.Context, id int64, name string, info *string) error {
	return c.write(ctx, "update_franchise", fieldFranchiseName, name, func(log logger.Logger) error {
		return c.repo.UpdateFranchise(ctx, id, name, info)
	})
}

func (c *Controller) DeleteFranchise(ctx context.Context, id int64) error {
	return c.write(ctx, "delete_franchise", "", "", func(log logger.Logger) error {
		return c.repo.DeleteFranchise(ctx, id)
	})
}

// ==========================
// Characters
// ==========================

func (c *Controller) AddCharacter(ctx context.Context, in models.CharacterInput) (int64, error) {
	var id int64
	err := c.write(ctx, "add_character", fieldCharacterName, in.Name, func(log logger.Logger) error {
		var err error
		id, err = c.repo.AddCharacter(ctx, in)
		if err == nil {
			log.Info("character saved", map[string]interface{}{"charaId": id})
		}
		return err
	})
	return id, err
}

func (c *Controller) GetAllCharacters(ctx context.Context, sortBy models.SortKey) ([]models.Character, error) {
	return c.repo.GetAllCharacters(ctx, sortBy)
}

func (c *Controller) GetCharacterByID(ctx context.Context, id int64) (*models.Character, error) {
	return c.repo.GetCharacterByID(ctx, id)
}

func (c *Controller) SearchCharacters(ctx context.Context, term string) ([]models.Character, error) {
	return c.repo.SearchCharacters(ctx, term)
}

func (c *Controller) UpdateCharacter(ctx context.Context, id int64, in models.CharacterInput) error {
	return c.write(ctx, "update_character", fieldCharacterName, in.Name, func(log logger.Logger) error {
		return c.repo.UpdateCharacter(ctx, id, in)
	})
}

func (c *Controller) DeleteCharacter(ctx context.Context, id int64) error {
	return c.write(ctx, "delete_character", "", "", func(log logger.Logger) error {
		return c.repo.DeleteCharacter(ctx, id)
	})
}

// CountCatalog reports how many franchises and characters are stored.
func (c *Controller) CountCatalog(ctx context.Context) (franchises, characters int, err error) {
	return c.repo.CountCatalog(ctx)
}

// write validates the required name (when field is set), runs fn and records
// the outcome under a fresh operation id. Repository errors are returned as is.
func (c *Controller) write(ctx context.Context, operation, field, name string, fn func(log logger.Logger) error) error {
	start := time.Now()
	log := c.logger.WithFields(map[string]interface{}{
		"operation": operation,
		"opId":      uuid.NewString(),
	})

	if field != "" {
		if verr := validation.RequiredName(field, name); verr != nil {
			err := apperrors.NewValidationError(verr.Field, verr.Message)
			log.Warn("rejected write", err.LogFields())
			c.obs.RecordOperation(ctx, operation, string(err.Code), time.Since(start))
			return err
		}
	}

	if err := fn(log); err != nil {
		log.Error("write failed", apperrors.Normalize(err).LogFields())
		c.obs.RecordOperation(ctx, operation, string(apperrors.CodeOf(err)), time.Since(start))
		return err
	}
	c.obs.RecordOperation(ctx, operation, "success", time.Since(start))
	return nil
}
