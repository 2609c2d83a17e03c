// Package seed imports and exports the catalog as JSON documents.
package seed

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	apperrors "character-explorer/internal/common/errors"
	"character-explorer/internal/common/logger"
	"character-explorer/internal/common/validation"
	"character-explorer/internal/models"
)

// Writer is what Import needs; *controller.Controller satisfies it.
type Writer interface {
	AddFranchise(ctx context.Context, name string, info *string) (int64, error)
	AddCharacter(ctx context.Context, in models.CharacterInput) (int64, error)
}

// Reader is what Export needs; *controller.Controller satisfies it.
type Reader interface {
	GetAllFranchises(ctx context.Context) ([]models.Franchise, error)
	GetAllCharacters(ctx context.Context, sortBy models.SortKey) ([]models.Character, error)
}

type ImportResult struct {
	Franchises int `json:"franchises"`
	Characters int `json:"characters"`
}

// Parse validates data against CatalogSchema and decodes it. Schema
// violations are returned as a VALIDATION_FAILED error.
func Parse(data []byte) (*Catalog, error) {
	result, err := validation.ValidateDocument(CatalogSchema, data)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return nil, apperrors.NewValidationError("seed", result.Summary())
	}

	var cat Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	return &cat, nil
}

// Load reads and parses a seed file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// ImportFile loads path and imports it, resolving image paths against the
// file's directory.
func ImportFile(ctx context.Context, w Writer, path string, log logger.Logger) (*ImportResult, error) {
	cat, err := Load(path)
	if err != nil {
		return nil, err
	}
	return Import(ctx, w, cat, filepath.Dir(path), log)
}

// Import writes cat through w. Franchises are found or created by name, so
// importing the same document twice does not duplicate them. Import stops at
// the first failing entry; entries before it stay written.
func Import(ctx context.Context, w Writer, cat *Catalog, baseDir string, log logger.Logger) (*ImportResult, error) {
	log = logger.Component(log, "seed")
	result := &ImportResult{}
	franchiseIDs := make(map[string]int64)

	resolveFranchise := func(name string, info *string) (int64, error) {
		if id, ok := franchiseIDs[name]; ok {
			return id, nil
		}
		id, err := w.AddFranchise(ctx, name, info)
		if err != nil {
			return 0, fmt.Errorf("franchise %q: %w", name, err)
		}
		franchiseIDs[name] = id
		result.Franchises++
		return id, nil
	}

	for _, f := range cat.Franchises {
		if _, err := resolveFranchise(f.Name, f.Info); err != nil {
			return result, err
		}
	}

	for _, c := range cat.Characters {
		in := models.CharacterInput{
			Name:    c.Name,
			Age:     c.Age,
			IsOC:    c.IsOC,
			Creator: c.Creator,
			Info:    c.Info,
		}
		if c.Franchise != nil {
			id, err := resolveFranchise(*c.Franchise, nil)
			if err != nil {
				return result, fmt.Errorf("character %q: %w", c.Name, err)
			}
			in.FranchiseID = models.IDPtr(id)
		}

		image, err := loadImage(c, baseDir)
		if err != nil {
			return result, fmt.Errorf("character %q: %w", c.Name, err)
		}
		in.Image = image

		id, err := w.AddCharacter(ctx, in)
		if err != nil {
			return result, fmt.Errorf("character %q: %w", c.Name, err)
		}
		result.Characters++
		log.Debug("character imported", map[string]interface{}{
			"charaId":   id,
			"charaName": c.Name,
		})
	}

	log.Info("seed imported", map[string]interface{}{
		"franchises": result.Franchises,
		"characters": result.Characters,
	})
	return result, nil
}

func loadImage(c CharacterEntry, baseDir string) ([]byte, error) {
	switch {
	case c.ImageBase64 != "":
		image, err := base64.StdEncoding.DecodeString(c.ImageBase64)
		if err != nil {
			return nil, fmt.Errorf("decode image: %w", err)
		}
		return image, nil
	case c.ImagePath != "":
		path := c.ImagePath
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		image, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read image: %w", err)
		}
		return image, nil
	}
	return nil, nil
}

// Export snapshots the catalog. Characters are ordered by name and images
// are inlined as base64.
func Export(ctx context.Context, r Reader) (*Catalog, error) {
	franchises, err := r.GetAllFranchises(ctx)
	if err != nil {
		return nil, err
	}
	characters, err := r.GetAllCharacters(ctx, models.SortByName)
	if err != nil {
		return nil, err
	}

	cat := &Catalog{
		Version:    CurrentVersion,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
	}
	for _, f := range franchises {
		cat.Franchises = append(cat.Franchises, FranchiseEntry{Name: f.Name, Info: f.Info})
	}
	for _, c := range characters {
		entry := CharacterEntry{
			Name:      c.Name,
			Age:       c.Age,
			IsOC:      c.IsOC,
			Creator:   c.Creator,
			Info:      c.Info,
			Franchise: c.FranchiseName,
		}
		if len(c.Image) > 0 {
			entry.ImageBase64 = base64.StdEncoding.EncodeToString(c.Image)
		}
		cat.Characters = append(cat.Characters, entry)
	}
	return cat, nil
}

// Write encodes cat as indented JSON.
func Write(w io.Writer, cat *Catalog) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(cat)
}
