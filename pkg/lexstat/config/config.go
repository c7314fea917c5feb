package config

import "time"

// Config is the root configuration of a lexstat run.
type Config struct {
	Corpus    CorpusConfig    `yaml:"corpus"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
	Translate TranslateConfig `yaml:"translate"`
	Store     StoreConfig     `yaml:"store"`
	Report    ReportConfig    `yaml:"report"`
	Log       LogConfig       `yaml:"log"`
}

// CorpusConfig describes where documents come from and how they are read.
type CorpusConfig struct {
	Path         string `yaml:"path"          env:"LEXSTAT_CORPUS_PATH"`
	Extension    string `yaml:"extension"     env:"LEXSTAT_CORPUS_EXTENSION"     env-default:".xml"`
	Normalize    string `yaml:"normalize"     env:"LEXSTAT_CORPUS_NORMALIZE"     env-default:"nfc"`
	WordElement  string `yaml:"word_element"  env:"LEXSTAT_CORPUS_WORD_ELEMENT"  env-default:"word"`
	LemmaElement string `yaml:"lemma_element" env:"LEXSTAT_CORPUS_LEMMA_ELEMENT" env-default:"lemma"`
	LemmaAttr    string `yaml:"lemma_attr"    env:"LEXSTAT_CORPUS_LEMMA_ATTR"    env-default:"entry"`
	POSAttr      string `yaml:"pos_attr"      env:"LEXSTAT_CORPUS_POS_ATTR"      env-default:"POS"`
}

// AnalysisConfig holds ranking, graph and coverage parameters.
type AnalysisConfig struct {
	TopN       int     `yaml:"top_n"       env:"LEXSTAT_TOP_N"       env-default:"50"`
	GraphK     int     `yaml:"graph_k"     env:"LEXSTAT_GRAPH_K"     env-default:"200"`
	TargetPOS  string  `yaml:"target_pos"  env:"LEXSTAT_TARGET_POS"  env-default:"noun"`
	TopM       int     `yaml:"top_m"       env:"LEXSTAT_TOP_M"       env-default:"20"`
	Coverage   float64 `yaml:"coverage"    env:"LEXSTAT_COVERAGE"    env-default:"0.9"`
	POSAliases string  `yaml:"pos_aliases" env:"LEXSTAT_POS_ALIASES"`
	Epsilon    float64 `yaml:"pmi_epsilon" env:"LEXSTAT_PMI_EPSILON" env-default:"1.0"`
}

// TranslateConfig holds settings for the optional gloss lookup.
type TranslateConfig struct {
	Enabled   bool          `yaml:"enabled"    env:"LEXSTAT_TRANSLATE"            env-default:"false"`
	BaseURL   string        `yaml:"base_url"   env:"LEXSTAT_TRANSLATE_BASE_URL"   env-default:"https://en.wiktionary.org/api/rest_v1/page/definition"`
	Language  string        `yaml:"language"   env:"LEXSTAT_TRANSLATE_LANGUAGE"   env-default:"grc"`
	Separator string        `yaml:"separator"  env:"LEXSTAT_TRANSLATE_SEPARATOR"  env-default:"; "`
	UserAgent string        `yaml:"user_agent" env:"LEXSTAT_TRANSLATE_USER_AGENT" env-default:"lexstat/1.0 (corpus statistics)"`
	Timeout   time.Duration `yaml:"timeout"    env:"LEXSTAT_TRANSLATE_TIMEOUT"    env-default:"10s"`
}

// StoreConfig selects result persistence. An empty path disables it.
type StoreConfig struct {
	Path string `yaml:"path" env:"LEXSTAT_DB"`
}

// ReportConfig controls report rendering and export.
type ReportConfig struct {
	Format string `yaml:"format" env:"LEXSTAT_REPORT_FORMAT" env-default:"text"`
	Out    string `yaml:"out"    env:"LEXSTAT_REPORT_OUT"`
	Graph  string `yaml:"graph"  env:"LEXSTAT_GRAPH_OUT"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}
