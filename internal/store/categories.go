package store

import "trainingcal/internal/model"

// StaticCategories is the hardcoded fallback used when the category endpoint
// is unavailable. Keys and colors match the backend's seeded categories.
func StaticCategories() map[string]model.Category {
	return map[string]model.Category{
		"CONSULTANTA": {
			ID:        "CONSULTANTA",
			Name:      "ZIUA CONSULTANȚEI",
			Color:     "#4a86e8",
			BackColor: "#cfe2ff",
		},
		"OPTOMETRIE": {
			ID:        "OPTOMETRIE",
			Name:      "ZIUA OPTOMETRIEI",
			Color:     "#9900ff",
			BackColor: "#e6ccff",
		},
		"PRODUSE_HOYA": {
			ID:        "PRODUSE_HOYA",
			Name:      "ZIUA PRODUSELOR HOYA",
			Color:     "#f1c232",
			BackColor: "#fff2cc",
		},
	}
}
