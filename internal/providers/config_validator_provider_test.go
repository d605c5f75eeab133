package providers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"chd/internal/structures"
)

func validConfig() *structures.Config {
	return &structures.Config{
		WebServer: structures.Server{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Persistence: structures.Persistence{
			FilePath:     "/tmp/chd.dat",
			SaveInterval: 30 * time.Second,
		},
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   "/tmp/logs",
		},
		Progression: structures.DefaultProgression(),
	}
}

func TestConfigValidator_ValidConfig(t *testing.T) {
	v := NewCnfValidator(validConfig())
	assert.NoError(t, v.Validate())
}

func TestConfigValidator_EmptyHost(t *testing.T) {
	c := validConfig()
	c.WebServer.Host = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_ZeroPort(t *testing.T) {
	c := validConfig()
	c.WebServer.Port = 0
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_EmptyLogLevel(t *testing.T) {
	c := validConfig()
	c.Logger.Level = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_InvalidLogLevel(t *testing.T) {
	c := validConfig()
	c.Logger.Level = "verbose"
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_FlatCurve(t *testing.T) {
	c := validConfig()
	c.Progression.Curve.Multiplier = 1.0
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_ZeroCurveBase(t *testing.T) {
	c := validConfig()
	c.Progression.Curve.BaseXPPerLevel = 0
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_MilestonesMustIncrease(t *testing.T) {
	c := validConfig()
	c.Progression.StreakMilestones = map[int]int{1: 100, 3: 50}
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_MilestoneDayBelowOne(t *testing.T) {
	c := validConfig()
	c.Progression.StreakMilestones = map[int]int{0: 100}
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_NegativeMilestoneBonus(t *testing.T) {
	c := validConfig()
	c.Progression.StreakMilestones = map[int]int{2: -5}
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}
