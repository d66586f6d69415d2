package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakurahouse/booking-backend/internal/models"
)

func TestDefaultInventory(t *testing.T) {
	cat := Default()

	assert.Equal(t, 33, len(cat.UnitsFor(models.CategoryDormitory)))
	assert.Equal(t, []string{"201", "205"}, cat.UnitsFor(models.CategoryDoubleShared))
	assert.Equal(t, []string{"206", "207"}, cat.UnitsFor(models.CategoryDoublePrivate))
	assert.Equal(t, 7, len(cat.UnitsFor(models.CategoryJapaneseTwin)))
	assert.Equal(t, 6, len(cat.UnitsFor(models.CategoryFourBed)))
	assert.Equal(t, 50, cat.TotalUnits())

	// Dormitory bed codes skip the letter J.
	for _, unit := range cat.UnitsFor(models.CategoryDormitory) {
		assert.NotContains(t, unit, "J")
	}

	// The first dormitory bed is the one the allocator hands out first.
	assert.Equal(t, "202A", cat.UnitsFor(models.CategoryDormitory)[0])
}

func TestHasCategory(t *testing.T) {
	cat := Default()

	assert.True(t, cat.HasCategory(models.CategoryDormitory))
	assert.True(t, cat.HasCategory(models.CategoryFourBed))
	assert.False(t, cat.HasCategory(models.RoomCategory("Penthouse")))
}

func TestUnitsForUnknownCategory(t *testing.T) {
	cat := Default()
	assert.Empty(t, cat.UnitsFor(models.RoomCategory("Penthouse")))
}

func TestLoad(t *testing.T) {
	t.Run("Empty Path Uses Default", func(t *testing.T) {
		cat, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, 50, cat.TotalUnits())
	})

	t.Run("Valid File", func(t *testing.T) {
		path := writeCatalogFile(t, `{
			"Dormitory": ["101A", "101B"],
			"Japanese Twin Room": ["301"]
		}`)

		cat, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"101A", "101B"}, cat.UnitsFor(models.CategoryDormitory))
		assert.Equal(t, []string{"301"}, cat.UnitsFor(models.CategoryJapaneseTwin))
		assert.Equal(t, 3, cat.TotalUnits())
	})

	t.Run("Missing File", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
		assert.Error(t, err)
	})

	t.Run("Invalid JSON", func(t *testing.T) {
		path := writeCatalogFile(t, `{not json`)
		_, err := Load(path)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse")
	})

	t.Run("No Categories", func(t *testing.T) {
		path := writeCatalogFile(t, `{}`)
		_, err := Load(path)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no categories")
	})

	t.Run("Empty Unit List", func(t *testing.T) {
		path := writeCatalogFile(t, `{"Dormitory": []}`)
		_, err := Load(path)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "no units")
	})

	t.Run("Duplicate Unit", func(t *testing.T) {
		path := writeCatalogFile(t, `{"Dormitory": ["101A", "101A"]}`)
		_, err := Load(path)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "twice")
	})

	t.Run("Empty Unit Identifier", func(t *testing.T) {
		path := writeCatalogFile(t, `{"Dormitory": ["101A", ""]}`)
		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestCategories(t *testing.T) {
	cat := Default()
	categories := cat.Categories()

	assert.Len(t, categories, 5)
	// Stable order across calls.
	assert.Equal(t, categories, cat.Categories())
}

func writeCatalogFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
