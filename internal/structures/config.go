package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type Persistence struct {
	FilePath     string        `yaml:"filePath" validate:"required|unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval" validate:"required|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// BonusRule grants extra XP when a metric reaches a threshold.
// Metric is one of: commits, changedFiles, totalChanges, comments.
type BonusRule struct {
	Metric      string `yaml:"metric" mapstructure:"metric"`
	AtLeast     int    `yaml:"atLeast" mapstructure:"atLeast"`
	XP          int    `yaml:"xp" mapstructure:"xp"`
	Description string `yaml:"description" mapstructure:"description"`
}

// LevelCurve defines XP thresholds per level:
// threshold(level) = floor(baseXpPerLevel * multiplier^(level-1)).
type LevelCurve struct {
	BaseXPPerLevel int     `yaml:"baseXpPerLevel" mapstructure:"baseXpPerLevel"`
	Multiplier     float64 `yaml:"multiplier" mapstructure:"multiplier"`
}

// ProgressionConfig is the static XP rules table. Constant per deployment,
// loaded once at process start.
type ProgressionConfig struct {
	BaseXP           map[string]int         `yaml:"baseXp" mapstructure:"baseXp"`
	Bonuses          map[string][]BonusRule `yaml:"bonuses" mapstructure:"bonuses"`
	StreakMilestones map[int]int            `yaml:"streakMilestones" mapstructure:"streakMilestones"`
	Curve            LevelCurve             `yaml:"levelCurve" mapstructure:"levelCurve"`
	HistoryWindow    int                    `yaml:"historyWindow" mapstructure:"historyWindow"`
	LeaderboardSize  int                    `yaml:"leaderboardSize" mapstructure:"leaderboardSize"`
	GaugeInterval    time.Duration          `yaml:"gaugeInterval" mapstructure:"gaugeInterval"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	Progression ProgressionConfig `yaml:"progression"`
	WebServer   Server            `yaml:"webServer"`
	Persistence Persistence       `yaml:"persistence"`
	Logger      LoggerConfig      `yaml:"logger"`
	Cache       CacheConfig       `yaml:"cache"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}

// DefaultProgression returns the built-in XP rules table, used when the
// progression section is absent from the config file. The milestone table is
// exact-match on streak day: days past the highest defined milestone earn no
// further milestone bonus.
func DefaultProgression() ProgressionConfig {
	return ProgressionConfig{
		BaseXP: map[string]int{
			"push":                  120,
			"pull_request_opened":   100,
			"pull_request_merged":   300,
			"pull_request_reviewed": 150,
			"issue_opened":          80,
			"issue_closed":          120,
			"comment_created":       40,
			"branch_created":        50,
			"tag_created":           60,
		},
		Bonuses: map[string][]BonusRule{
			"push": {
				{Metric: "commits", AtLeast: 2, XP: 250, Description: "Multiple commits"},
			},
			"pull_request_opened": {
				{Metric: "changedFiles", AtLeast: 5, XP: 100, Description: "Multiple files"},
				{Metric: "totalChanges", AtLeast: 150, XP: 200, Description: "Significant changes"},
			},
			"pull_request_merged": {
				{Metric: "totalChanges", AtLeast: 500, XP: 300, Description: "Large merge"},
			},
			"pull_request_reviewed": {
				{Metric: "comments", AtLeast: 3, XP: 100, Description: "Thorough review"},
			},
		},
		StreakMilestones: map[int]int{
			1: 50,
			3: 300,
			5: 500,
			7: 1000,
		},
		Curve: LevelCurve{
			BaseXPPerLevel: 1000,
			Multiplier:     1.5,
		},
		HistoryWindow:   500,
		LeaderboardSize: 25,
		GaugeInterval:   30,
	}
}
