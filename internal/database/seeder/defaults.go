package seeder

import "skill-bridge/internal/catalog"

func Defaults(cat *catalog.Catalog) []Seeder {
	return []Seeder{
		CatalogSeeder{Catalog: cat},
	}
}
