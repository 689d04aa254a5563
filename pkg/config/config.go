// Package config loads toydbms settings from a TOML file and lets command
// line flags override them.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"

	"toydbms/pkg/dberror"
	"toydbms/pkg/logging"
	"toydbms/pkg/optimizer"
	"toydbms/pkg/planner"
)

// Config is the complete set of settings.
//
//	[log]
//	level = "info"
//	format = "json"
//	path = "logs/toydbms.log"
//
//	[data]
//	catalog = "data/catalog.yaml"
//	tables = "data"
//
//	[planner]
//	join_policy = "prefer-unique"
//	optimize_distinct = true
type Config struct {
	Log     Log     `toml:"log"`
	Data    Data    `toml:"data"`
	Planner Planner `toml:"planner"`
}

type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	Path   string `toml:"path"` // empty logs to stderr
}

type Data struct {
	Catalog string `toml:"catalog"` // catalog YAML document
	Tables  string `toml:"tables"`  // directory holding <table>.csv files
}

type Planner struct {
	JoinPolicy       string `toml:"join_policy"`
	OptimizeDistinct bool   `toml:"optimize_distinct"` // false forces Unique for DISTINCT
}

// Default returns the settings used when neither a file nor flags say otherwise.
func Default() Config {
	return Config{
		Log:     Log{Level: "warn", Format: "text"},
		Data:    Data{Catalog: "catalog.yaml", Tables: "."},
		Planner: Planner{JoinPolicy: "prefer-unique", OptimizeDistinct: true},
	}
}

// Load reads path over the defaults. A missing file is not an error when
// optional is set. Keys the file sets but Config does not know are rejected.
func Load(fs afero.Fs, path string, optional bool) (Config, error) {
	cfg := Default()

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, errors.Wrapf(err, "reading config %s", path)
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, dberror.Newf(dberror.ErrCategoryInvalid, dberror.CodeInvalidConfig,
			"config %s: %v", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, dberror.Newf(dberror.ErrCategoryInvalid, dberror.CodeInvalidConfig,
			"config %s: unknown key %s", path, undecoded[0])
	}

	return cfg, cfg.Validate()
}

// Validate checks the enumerated settings.
func (c Config) Validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return dberror.Newf(dberror.ErrCategoryInvalid, dberror.CodeInvalidConfig, "log.level: %v", err)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return dberror.Newf(dberror.ErrCategoryInvalid, dberror.CodeInvalidConfig,
			"log.format must be text or json, got %q", c.Log.Format)
	}
	if _, err := optimizer.PolicyByName(c.Planner.JoinPolicy); err != nil {
		return dberror.Newf(dberror.ErrCategoryInvalid, dberror.CodeInvalidConfig,
			"planner.join_policy: %v", err)
	}
	return nil
}

// Flag names shared by every command.
const (
	FlagConfig           = "config"
	FlagLogLevel         = "log-level"
	FlagLogFormat        = "log-format"
	FlagLogFile          = "log-file"
	FlagCatalog          = "catalog"
	FlagTables           = "tables"
	FlagJoinPolicy       = "join-policy"
	FlagOptimizeDistinct = "optimize-distinct"
)

// RegisterFlags defines the override flags on fs. Their defaults only show in
// help output: ApplyFlags copies a flag only when it was set explicitly.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String(FlagConfig, "toydbms.toml", "path to the TOML config file")
	fs.String(FlagLogLevel, d.Log.Level, "log level (debug, info, warn, error)")
	fs.String(FlagLogFormat, d.Log.Format, "log format (text or json)")
	fs.String(FlagLogFile, d.Log.Path, "log file; empty logs to stderr")
	fs.String(FlagCatalog, d.Data.Catalog, "catalog YAML document")
	fs.String(FlagTables, d.Data.Tables, "directory with table files")
	fs.String(FlagJoinPolicy, d.Planner.JoinPolicy, "join selection policy (prefer-unique, first-connecting)")
	fs.Bool(FlagOptimizeDistinct, d.Planner.OptimizeDistinct, "use catalog facts to cheapen DISTINCT")
}

// ApplyFlags overrides c with every flag the user set on fs.
func (c *Config) ApplyFlags(fs *pflag.FlagSet) error {
	strs := map[string]*string{
		FlagLogLevel:   &c.Log.Level,
		FlagLogFormat:  &c.Log.Format,
		FlagLogFile:    &c.Log.Path,
		FlagCatalog:    &c.Data.Catalog,
		FlagTables:     &c.Data.Tables,
		FlagJoinPolicy: &c.Planner.JoinPolicy,
	}
	for name, dst := range strs {
		if !fs.Changed(name) {
			continue
		}
		v, err := fs.GetString(name)
		if err != nil {
			return errors.Wrapf(err, "flag --%s", name)
		}
		*dst = v
	}

	if fs.Changed(FlagOptimizeDistinct) {
		v, err := fs.GetBool(FlagOptimizeDistinct)
		if err != nil {
			return errors.Wrapf(err, "flag --%s", FlagOptimizeDistinct)
		}
		c.Planner.OptimizeDistinct = v
	}
	return c.Validate()
}

// LoggingConfig converts the [log] section for logging.Init.
func (c Config) LoggingConfig() (logging.Config, error) {
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		return logging.Config{}, err
	}
	return logging.Config{Level: level, OutputPath: c.Log.Path, Format: c.Log.Format}, nil
}

// PlannerOptions converts the [planner] section for planner.Build.
func (c Config) PlannerOptions() (planner.Options, error) {
	policy, err := optimizer.PolicyByName(c.Planner.JoinPolicy)
	if err != nil {
		return planner.Options{}, err
	}
	opts := planner.Options{JoinPolicy: policy, DistinctPolicy: planner.CatalogDistinct}
	if !c.Planner.OptimizeDistinct {
		opts.DistinctPolicy = planner.AlwaysUnique
	}
	return opts, nil
}
