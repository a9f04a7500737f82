// Package corpus provides the document sources, web/file loading, and text
// splitting used to build the per-category retrieval indexes.
package corpus

import "github.com/diabeai/diabuddy/internal/models"

// DocumentSources maps each question category to its reference document
// sources. Entries are fetched over HTTP when they are http(s) URLs and read
// from the local filesystem otherwise, which serves as the offline fallback.
var DocumentSources = map[models.Category][]string{
	models.CategoryGlucose: {
		"https://www.cdc.gov/diabetes/managing/managing-blood-sugar.html",
		"https://www.diabetes.org/healthy-living/medication-treatments/blood-glucose-testing-and-control",
		"https://www.niddk.nih.gov/health-information/diabetes/overview/managing-diabetes/know-blood-sugar-numbers",
	},
	models.CategoryMedication: {
		"https://www.diabetes.org/healthy-living/medication-treatments",
		"https://www.niddk.nih.gov/health-information/diabetes/overview/insulin-medicines-treatments",
		"https://www.cdc.gov/diabetes/managing/medication.html",
	},
	models.CategoryMeal: {
		"https://www.diabetes.org/healthy-living/recipes-nutrition",
		"https://www.cdc.gov/diabetes/managing/eat-well.html",
		"https://www.niddk.nih.gov/health-information/diabetes/overview/diet-eating-physical-activity",
	},
	models.CategoryWellness: {
		"https://www.diabetes.org/healthy-living/mental-health",
		"https://www.cdc.gov/diabetes/managing/mental-health.html",
		"https://www.niddk.nih.gov/health-information/diabetes/overview/preventing-problems",
	},
	models.CategoryGeneral: {
		"https://www.diabetes.org/diabetes",
		"https://www.cdc.gov/diabetes/basics/type2.html",
		"https://www.niddk.nih.gov/health-information/diabetes/overview",
	},
}
