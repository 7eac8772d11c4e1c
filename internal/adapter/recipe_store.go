package adapter

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	m "srcpatch.dev/pkg/srcpatch/internal/model"
)

// CurrentRecipeVersion is the recipe format version this build reads and writes.
const CurrentRecipeVersion = 1

// RecipeStore loads and saves patch recipes.
type RecipeStore interface {
	LoadRecipe(ctx context.Context, path m.Path) (m.Recipe, error)
	SaveRecipe(ctx context.Context, path m.Path, recipe m.Recipe) error
}

// YAMLRecipeStore keeps recipes as YAML files.
type YAMLRecipeStore struct{}

// NewRecipeStore constructs a YAMLRecipeStore.
func NewRecipeStore() *YAMLRecipeStore {
	return &YAMLRecipeStore{}
}

// LoadRecipe reads and decodes the recipe at path. Unknown fields are
// rejected so that a misspelt key does not silently turn a patch into a no-op.
func (s *YAMLRecipeStore) LoadRecipe(ctx context.Context, path m.Path) (m.Recipe, error) {
	if err := ctx.Err(); err != nil {
		return m.Recipe{}, err
	}

	// #nosec G304 - recipe path is chosen by the user
	content, err := os.ReadFile(string(path))
	if err != nil {
		slog.Error("Failed to read recipe", "path", path, "error", err)
		return m.Recipe{}, fmt.Errorf("read recipe: %w", err)
	}

	var recipe m.Recipe

	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true)

	if err := decoder.Decode(&recipe); err != nil {
		slog.Error("Failed to decode recipe", "path", path, "error", err)
		return m.Recipe{}, fmt.Errorf("decode recipe %s: %w", path, err)
	}

	if recipe.Version == 0 {
		recipe.Version = CurrentRecipeVersion
	}

	if recipe.Version != CurrentRecipeVersion {
		return m.Recipe{}, fmt.Errorf("recipe %s: unsupported version %d (want %d)", path, recipe.Version, CurrentRecipeVersion)
	}

	slog.Debug("Loaded recipe", "path", path, "patches", len(recipe.Patches))

	return recipe, nil
}

// SaveRecipe encodes recipe as YAML and writes it to path.
func (s *YAMLRecipeStore) SaveRecipe(ctx context.Context, path m.Path, recipe m.Recipe) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if recipe.Version == 0 {
		recipe.Version = CurrentRecipeVersion
	}

	var buf bytes.Buffer

	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)

	if err := encoder.Encode(recipe); err != nil {
		return fmt.Errorf("encode recipe: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return fmt.Errorf("encode recipe: %w", err)
	}

	if err := os.WriteFile(string(path), buf.Bytes(), 0o600); err != nil {
		slog.Error("Failed to write recipe", "path", path, "error", err)
		return fmt.Errorf("write recipe: %w", err)
	}

	return nil
}
