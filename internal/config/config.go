// Package config loads proptest.ini.
package config

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/pkg/errors"

	"github.com/shipq/proptest/corpus"
	"github.com/shipq/proptest/dburl"
	"github.com/shipq/proptest/inifile"
	"github.com/shipq/proptest/logging"
	"github.com/shipq/proptest/proptest"
)

// ConfigFilename is the name of the config file.
const ConfigFilename = "proptest.ini"

// Environment fallbacks for settings left empty in the file.
const (
	EnvCorpus       = "PROPTEST_CORPUS"
	EnvAWSRegion    = "AWS_REGION"
	EnvAWSEndpoint  = "AWS_ENDPOINT_URL"
	EnvAWSAccessKey = "AWS_ACCESS_KEY_ID"
	EnvAWSSecretKey = "AWS_SECRET_ACCESS_KEY"
)

// DefaultCorpusURL is relative to the config directory.
const DefaultCorpusURL = "dir://.proptest/corpus"

const DefaultS3Region = "us-east-1"

var (
	// ErrConfigExists is returned by WriteDefault.
	ErrConfigExists = errors.New("proptest.ini already exists")
	ErrInvalid      = errors.New("invalid configuration")
)

// Config holds the settings from proptest.ini.
type Config struct {
	// ConfigDir is the directory holding proptest.ini, or the directory
	// Load started from when there is none.
	ConfigDir string
	// Path is empty when defaults were used.
	Path string

	Runner RunnerConfig
	// Coverage maps labels to minimum percentages. Keys come back
	// lower-cased from the file; the runner matches labels regardless of case.
	Coverage map[string]float64
	Corpus   CorpusConfig
	Log      LogConfig
}

// RunnerConfig is the [runner] section.
type RunnerConfig struct {
	Trials  int
	Seed    int64
	Retries int
	Mixer   string
	Verbose bool
}

// CorpusConfig is the [corpus] section.
type CorpusConfig struct {
	// URL is resolved against ConfigDir when it names a relative directory
	// or sqlite file.
	URL string

	// S3Region falls back to AWS_REGION, then DefaultS3Region.
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
}

// LogConfig is the [log] section.
type LogConfig struct {
	Format string
	Level  string
}

// Default returns the configuration used when no proptest.ini exists.
func Default(dir string) *Config {
	return &Config{
		ConfigDir: dir,
		Runner: RunnerConfig{
			Trials:  100,
			Retries: proptest.DefaultRetries,
			Mixer:   "blake2b",
		},
		Coverage: make(map[string]float64),
		Corpus:   CorpusConfig{URL: DefaultCorpusURL},
		Log:      LogConfig{Format: logging.FormatText, Level: "info"},
	}
}

// Find walks up from dir looking for proptest.ini. It returns "" when
// none is found.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Wrap(err, "resolving directory")
	}
	for {
		path := filepath.Join(dir, ConfigFilename)
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
		if err != nil && !os.IsNotExist(err) {
			return "", errors.Wrapf(err, "checking %s", path)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Load reads the nearest proptest.ini at or above dir (or the CWD if
// empty). A missing file gives the defaults.
func Load(dir string) (*Config, error) {
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get current directory")
		}
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrap(err, "resolving directory")
	}

	path, err := Find(dir)
	if err != nil {
		return nil, err
	}
	if path == "" {
		cfg := Default(dir)
		applyEnv(cfg)
		cfg.Corpus.URL = resolveCorpusURL(cfg.ConfigDir, cfg.Corpus.URL)
		return cfg, cfg.Validate()
	}

	f, err := inifile.ParseFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}
	cfg := Default(filepath.Dir(path))
	cfg.Path = path

	if err := parseRunnerSection(f, &cfg.Runner); err != nil {
		return nil, err
	}
	if err := parseCoverageSection(f, cfg.Coverage); err != nil {
		return nil, err
	}
	parseCorpusSection(f, &cfg.Corpus)
	cfg.Log.Format = f.String("log", "format", cfg.Log.Format)
	cfg.Log.Level = f.String("log", "level", cfg.Log.Level)

	applyEnv(cfg)
	cfg.Corpus.URL = resolveCorpusURL(cfg.ConfigDir, cfg.Corpus.URL)
	return cfg, cfg.Validate()
}

func parseRunnerSection(f *inifile.File, r *RunnerConfig) error {
	var err error
	if r.Trials, err = f.Int("runner", "trials", r.Trials); err != nil {
		return errors.Wrap(ErrInvalid, err.Error())
	}
	if r.Seed, err = f.Int64("runner", "seed", r.Seed); err != nil {
		return errors.Wrap(ErrInvalid, err.Error())
	}
	if r.Retries, err = f.Int("runner", "retries", r.Retries); err != nil {
		return errors.Wrap(ErrInvalid, err.Error())
	}
	if r.Verbose, err = f.Bool("runner", "verbose", r.Verbose); err != nil {
		return errors.Wrap(ErrInvalid, err.Error())
	}
	r.Mixer = f.String("runner", "mixer", r.Mixer)
	return nil
}

func parseCoverageSection(f *inifile.File, coverage map[string]float64) error {
	s := f.Section("coverage")
	if s == nil {
		return nil
	}
	for _, label := range s.Keys() {
		pct, err := f.Float("coverage", label, 0)
		if err != nil {
			return errors.Wrap(ErrInvalid, err.Error())
		}
		coverage[label] = pct
	}
	return nil
}

func parseCorpusSection(f *inifile.File, c *CorpusConfig) {
	// an explicit empty url falls through to the environment
	c.URL = f.Get("corpus", "url")
	c.S3Region = f.Get("corpus", "s3_region")
	c.S3Endpoint = f.Get("corpus", "s3_endpoint")
	c.S3AccessKey = f.Get("corpus", "s3_access_key")
	c.S3SecretKey = f.Get("corpus", "s3_secret_key")
}

// applyEnv fills settings the file left empty.
func applyEnv(cfg *Config) {
	fallback := func(v *string, env string) {
		if *v == "" {
			*v = os.Getenv(env)
		}
	}
	fallback(&cfg.Corpus.URL, EnvCorpus)
	fallback(&cfg.Corpus.S3Region, EnvAWSRegion)
	fallback(&cfg.Corpus.S3Endpoint, EnvAWSEndpoint)
	fallback(&cfg.Corpus.S3AccessKey, EnvAWSAccessKey)
	fallback(&cfg.Corpus.S3SecretKey, EnvAWSSecretKey)
	if cfg.Corpus.URL == "" {
		cfg.Corpus.URL = DefaultCorpusURL
	}
	if cfg.Corpus.S3Region == "" {
		cfg.Corpus.S3Region = DefaultS3Region
	}
}

// resolveCorpusURL anchors relative directory and sqlite locations at dir.
// Anything unparseable is left for Validate to report.
func resolveCorpusURL(dir, raw string) string {
	loc, err := dburl.Parse(raw)
	if err != nil {
		return raw
	}
	switch {
	case loc.Kind == dburl.KindDir && !filepath.IsAbs(loc.Path):
		return dburl.BuildDirURL(filepath.Join(dir, loc.Path))
	case loc.Dialect == dburl.DialectSQLite && loc.Path != "" && !filepath.IsAbs(loc.Path):
		return dburl.BuildSQLiteURL(filepath.Join(dir, loc.Path))
	}
	return raw
}

// Validate checks ranges and names that the parser accepts blindly.
func (c *Config) Validate() error {
	if c.Runner.Trials <= 0 {
		return errors.Wrapf(ErrInvalid, "%s: runner.trials must be positive, got %d", ConfigFilename, c.Runner.Trials)
	}
	if c.Runner.Retries <= 0 {
		return errors.Wrapf(ErrInvalid, "%s: runner.retries must be positive, got %d", ConfigFilename, c.Runner.Retries)
	}
	if _, err := proptest.MixerByName(c.Runner.Mixer); err != nil {
		return errors.Wrapf(ErrInvalid, "%s: runner.mixer: %v", ConfigFilename, err)
	}
	for label, pct := range c.Coverage {
		if pct < 0 || pct > 100 {
			return errors.Wrapf(ErrInvalid, "%s: coverage %q must be between 0 and 100, got %g", ConfigFilename, label, pct)
		}
	}
	if _, err := dburl.Parse(c.Corpus.URL); err != nil {
		return errors.Wrapf(ErrInvalid, "%s: corpus.url: %v", ConfigFilename, err)
	}
	if _, err := logging.New(c.Log.Format, c.Log.Level, io.Discard); err != nil {
		return errors.Wrapf(ErrInvalid, "%s: log: %v", ConfigFilename, err)
	}
	return nil
}

// RunnerConfig builds the proptest.Config the settings describe. Corpus
// and Logger are left for the caller.
func (c *Config) RunnerConfig() (proptest.Config, error) {
	mixer, err := proptest.MixerByName(c.Runner.Mixer)
	if err != nil {
		return proptest.Config{}, err
	}
	var coverage map[string]float64
	if len(c.Coverage) > 0 {
		coverage = make(map[string]float64, len(c.Coverage))
		for k, v := range c.Coverage {
			coverage[k] = v
		}
	}
	return proptest.Config{
		NumTrials: c.Runner.Trials,
		Seed:      c.Runner.Seed,
		Verbose:   c.Runner.Verbose,
		Retries:   c.Runner.Retries,
		Mixer:     mixer,
		Coverage:  coverage,
	}, nil
}

// S3Options returns the S3 client settings.
func (c *Config) S3Options() corpus.S3Options {
	return corpus.S3Options{
		Region:    c.Corpus.S3Region,
		Endpoint:  c.Corpus.S3Endpoint,
		AccessKey: c.Corpus.S3AccessKey,
		SecretKey: c.Corpus.S3SecretKey,
	}
}

// OpenCorpus opens the configured corpus store.
func (c *Config) OpenCorpus(ctx context.Context) (corpus.Store, error) {
	return corpus.Open(ctx, c.Corpus.URL, c.S3Options())
}

// Logger builds the configured logger writing to w.
func (c *Config) Logger(w io.Writer) (*slog.Logger, error) {
	return logging.New(c.Log.Format, c.Log.Level, w)
}

// File renders the configuration as an INI document. Secrets are left
// out unless withSecrets is set.
func (c *Config) File(withSecrets bool) *inifile.File {
	f := &inifile.File{}
	f.Set("runner", "trials", strconv.Itoa(c.Runner.Trials))
	f.Set("runner", "seed", strconv.FormatInt(c.Runner.Seed, 10))
	f.Set("runner", "retries", strconv.Itoa(c.Runner.Retries))
	f.Set("runner", "mixer", c.Runner.Mixer)
	f.Set("runner", "verbose", strconv.FormatBool(c.Runner.Verbose))

	labels := make([]string, 0, len(c.Coverage))
	for label := range c.Coverage {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		f.Set("coverage", label, strconv.FormatFloat(c.Coverage[label], 'g', -1, 64))
	}

	f.Set("corpus", "url", c.Corpus.URL)
	f.Set("corpus", "s3_region", c.Corpus.S3Region)
	f.Set("corpus", "s3_endpoint", c.Corpus.S3Endpoint)
	if withSecrets {
		f.Set("corpus", "s3_access_key", c.Corpus.S3AccessKey)
		f.Set("corpus", "s3_secret_key", c.Corpus.S3SecretKey)
	} else if c.Corpus.S3AccessKey != "" {
		f.Set("corpus", "s3_access_key", "<redacted>")
		f.Set("corpus", "s3_secret_key", "<redacted>")
	}

	f.Set("log", "format", c.Log.Format)
	f.Set("log", "level", c.Log.Level)
	return f
}

// WriteDefault creates dir/proptest.ini with the default settings.
func WriteDefault(dir string) (string, error) {
	path := filepath.Join(dir, ConfigFilename)
	if _, err := os.Stat(path); err == nil {
		return path, errors.Wrap(ErrConfigExists, path)
	}
	f := Default(dir).File(true)
	if err := f.WriteFile(path); err != nil {
		return path, err
	}
	return path, nil
}

// Exists checks if proptest.ini exists in the given directory.
func Exists(dir string) (bool, error) {
	_, err := os.Stat(filepath.Join(dir, ConfigFilename))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
