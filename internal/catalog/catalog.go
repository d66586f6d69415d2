// Package catalog holds the static room inventory: which physical units
// belong to each room category. The inventory is loaded once at startup
// and never mutated at runtime.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/sakurahouse/booking-backend/internal/models"
)

// Catalog maps each room category to its ordered list of physical units.
// Unit order matters: the allocator always picks the first free unit, so
// a stable order keeps allocation reproducible.
type Catalog struct {
	units map[models.RoomCategory][]string
}

// defaultInventory mirrors the property's physical layout. Dormitory bed
// codes skip the letter J.
func defaultInventory() map[models.RoomCategory][]string {
	return map[models.RoomCategory][]string{
		models.CategoryDormitory: {
			"202A", "202B", "202C", "202D", "202E", "202F", "202G", "202H", "202I", "202K", "202L",
			"203A", "203B", "203C", "203D", "203E", "203F", "203G", "203H", "203I", "203K", "203L",
			"204A", "204B", "204C", "204D", "204E", "204F", "204G", "204H", "204I", "204K", "204L",
		},
		models.CategoryDoubleShared:  {"201", "205"},
		models.CategoryDoublePrivate: {"206", "207"},
		models.CategoryJapaneseTwin:  {"301", "302", "303", "304", "305", "306", "307"},
		models.CategoryFourBed:       {"401", "402", "403", "404", "405", "406"},
	}
}

// Default returns the built-in inventory
func Default() *Catalog {
	return &Catalog{units: defaultInventory()}
}

// Load reads an inventory file (JSON object: category name → ordered unit
// list). An empty path returns the built-in inventory.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var raw map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("catalog file %s defines no categories", path)
	}

	units := make(map[models.RoomCategory][]string, len(raw))
	for category, list := range raw {
		if len(list) == 0 {
			return nil, fmt.Errorf("category %q has no units", category)
		}
		seen := make(map[string]struct{}, len(list))
		for _, unit := range list {
			if unit == "" {
				return nil, fmt.Errorf("category %q contains an empty unit identifier", category)
			}
			if _, dup := seen[unit]; dup {
				return nil, fmt.Errorf("category %q lists unit %q twice", category, unit)
			}
			seen[unit] = struct{}{}
		}
		units[models.RoomCategory(category)] = append([]string(nil), list...)
	}

	return &Catalog{units: units}, nil
}

// UnitsFor returns the ordered unit list for a category. Unknown
// categories return an empty list.
func (c *Catalog) UnitsFor(category models.RoomCategory) []string {
	return c.units[category]
}

// HasCategory reports whether the category exists in the inventory
func (c *Catalog) HasCategory(category models.RoomCategory) bool {
	_, ok := c.units[category]
	return ok
}

// Categories returns all known categories in a stable order
func (c *Catalog) Categories() []models.RoomCategory {
	categories := make([]models.RoomCategory, 0, len(c.units))
	for category := range c.units {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })
	return categories
}

// TotalUnits returns the number of physical units across all categories
func (c *Catalog) TotalUnits() int {
	total := 0
	for _, list := range c.units {
		total += len(list)
	}
	return total
}
