// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// defaultRequestTimeout is the default timeout for task API requests.
	defaultRequestTimeout = 60 * time.Second
	// defaultAPIKeyEnv is the environment variable holding the task API key.
	defaultAPIKeyEnv = "BROWSER_USE_API_KEY"
)

// Config represents the top-level application configuration.
type Config struct {
	GroundtruthPath   string             `json:"groundtruthPath"`
	SubmissionsDir    string             `json:"submissionsDir"`
	ResultsDir        string             `json:"resultsDir"`
	TasksAPIBase      string             `json:"tasksApiBase"`
	TasksAPIKeyEnv    string             `json:"tasksApiKeyEnv,omitempty"`
	WindowStart       string             `json:"windowStart,omitempty"`
	WindowEnd         string             `json:"windowEnd,omitempty"`
	RejectSampleTypes []string           `json:"rejectSampleTypes,omitempty"`
	CleanSampleTypes  []string           `json:"cleanSampleTypes,omitempty"`
	CPTCodes          []string           `json:"cptCodes,omitempty"`
	CostPerStep       map[string]float64 `json:"costPerStep,omitempty"`
	TimeoutSeconds    int                `json:"timeout,omitempty"`
	Debug             bool               `json:"debug"`
	LogFile           string             `json:"logFile,omitempty"`
	ConfigPath        string             `json:"-"`
}

// RequestTimeout returns the timeout duration for task API requests,
// falling back to the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "pabench.log"
}

// APIKey resolves the task API key from the configured environment
// variable.
func (c Config) APIKey() (string, error) {
	env := strings.TrimSpace(c.TasksAPIKeyEnv)
	if env == "" {
		env = defaultAPIKeyEnv
	}
	key := strings.TrimSpace(os.Getenv(env))
	if key == "" {
		return "", fmt.Errorf("%s not found in environment", env)
	}
	return key, nil
}

// SummariesPath is where evaluate writes and report reads the case
// summaries JSONL.
func (c Config) SummariesPath() string {
	return c.ResultsDir + "/case_summaries.jsonl"
}

// TasksPath is where fetch writes and report reads the task log JSON.
func (c Config) TasksPath() string {
	return c.ResultsDir + "/all_tasks.json"
}

// Window parses the evaluation time window. Both bounds are required to
// fetch tasks.
func (c Config) Window() (start, end time.Time, err error) {
	start, err = time.Parse(time.RFC3339, c.WindowStart)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid windowStart %q: %w", c.WindowStart, err)
	}
	end, err = time.Parse(time.RFC3339, c.WindowEnd)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid windowEnd %q: %w", c.WindowEnd, err)
	}
	return start, end, nil
}

// Load reads the application configuration from the specified path.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, fmt.Errorf("no configuration file found at %q", path)
		}
		return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
	}
	defer file.Close()

	var config Config
	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return Config{}, fmt.Errorf("could not parse config file %q: %w", path, err)
	}
	if config.TimeoutSeconds <= 0 {
		config.TimeoutSeconds = int(defaultRequestTimeout.Seconds())
	}
	config.ConfigPath = path

	return config, nil
}
