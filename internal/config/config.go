package config

import (
	"github.com/spf13/viper"
)

type (
	Config struct {
		Source
		Target
		Schema
		Import
	}

	// Source describes the WordPress database the forum content is read from.
	Source struct {
		Host        string
		Database    string
		User        string
		Password    string
		TablePrefix string
	}

	// Target describes where imported records are written.
	Target struct {
		DBPath string
	}

	// Schema holds the post-type and taxonomy tags that discriminate forum
	// content inside the posts table. The defaults match the DWQA plugin;
	// plain bbPress installs override them.
	Schema struct {
		QuestionPostType string
		AnswerPostType   string
		CategoryTaxonomy string
	}

	Import struct {
		BatchSize int
		// AttachmentsDir is consumed by attachment handling only; the import
		// passes themselves never read it.
		AttachmentsDir string
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("bbpress_host", "localhost")
	v.SetDefault("bbpress_db", "bbpress")
	v.SetDefault("bbpress_user", "root")
	v.SetDefault("bbpress_pw", "")
	v.SetDefault("bbpress_prefix", "wp_")
	v.SetDefault("bbpress_attachments_dir", "/path/to/attachments")
	v.SetDefault("batch_size", DefaultBatchSize)
	v.SetDefault("target_db_path", DefaultTargetDBPath)
	v.SetDefault("question_post_type", DefaultQuestionPostType)
	v.SetDefault("answer_post_type", DefaultAnswerPostType)
	v.SetDefault("category_taxonomy", DefaultCategoryTaxonomy)

	return &Config{
		Source: Source{
			Host:        v.GetString("BBPRESS_HOST"),
			Database:    v.GetString("BBPRESS_DB"),
			User:        v.GetString("BBPRESS_USER"),
			Password:    v.GetString("BBPRESS_PW"),
			TablePrefix: v.GetString("BBPRESS_PREFIX"),
		},
		Target: Target{
			DBPath: v.GetString("TARGET_DB_PATH"),
		},
		Schema: Schema{
			QuestionPostType: v.GetString("QUESTION_POST_TYPE"),
			AnswerPostType:   v.GetString("ANSWER_POST_TYPE"),
			CategoryTaxonomy: v.GetString("CATEGORY_TAXONOMY"),
		},
		Import: Import{
			BatchSize:      v.GetInt("BATCH_SIZE"),
			AttachmentsDir: v.GetString("BBPRESS_ATTACHMENTS_DIR"),
		},
	}
}
