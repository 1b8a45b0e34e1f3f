package config

// Default paths and import tuning
const (
	// DefaultTargetDBPath is the default path for the target forum database
	DefaultTargetDBPath = "./forum-import.db"

	// DefaultBatchSize is the page size for cursor-paginated source reads
	DefaultBatchSize = 1000

	// Post-type and taxonomy tags used by the DWQA plugin
	DefaultQuestionPostType = "dwqa-question"
	DefaultAnswerPostType   = "dwqa-answer"
	DefaultCategoryTaxonomy = "dwqa-question_category"
)
