package genkore

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/viper"
)

const (
	DefaultConfigFile = "./genproj.json"
	DefaultLibrary    = "work"
	DefaultExecutable = "libero"

	// ProjectKey is the config section that holds the project description.
	ProjectKey = "libero.project"
)

// Tools whose constraints are organized first, in this order. Other tools
// follow in alphabetical order.
var ConstraintTools = []string{"PLACEROUTE", "SYNTHESIZE", "VERIFYTIMING"}

type Folder struct {
	Path      string   `mapstructure:"path"`
	Recursive bool     `mapstructure:"recursive"`
	Exclude   []string `mapstructure:"exclude"`
}

type Search struct {
	File   []string `mapstructure:"file"`
	Folder []Folder `mapstructure:"folder"`

	// Match overrides the category's file name pattern
	Match string `mapstructure:"match"`

	match *regexp.Regexp
}

type CreateProject struct {
	Location   string   `mapstructure:"location"`
	Name       string   `mapstructure:"name"`
	HDL        string   `mapstructure:"hdl"`
	Family     string   `mapstructure:"family"`
	Die        string   `mapstructure:"die"`
	Package    string   `mapstructure:"package"`
	Speed      string   `mapstructure:"speed"`
	DieVoltage string   `mapstructure:"die_voltage"`
	PartRange  string   `mapstructure:"part_range"`
	AdvOptions []string `mapstructure:"adv_options"`
}

type OpenProject struct {
	File string `mapstructure:"file"`
}

type Archive struct {
	Path   string `mapstructure:"path"`
	Format string `mapstructure:"format"`
}

type Run struct {
	Executable string   `mapstructure:"executable"`
	Args       []string `mapstructure:"args"`
	LogFile    string   `mapstructure:"logfile"`

	// Env holds KEY=value entries. A list keeps the case of the keys that
	// config maps would fold to lower case.
	Env []string `mapstructure:"env"`
}

// Config is the project description read from the libero.project section of
// a configuration file.
type Config struct {
	// File is the absolute path of the configuration file and Dir its
	// directory, which all relative paths are resolved against.
	File, Dir string

	Library string
	Top     string

	// Search is keyed by category key, e.g. "search_hdl"
	Search map[string]*Search

	// Constraints maps upper-case tool names to constraint files
	Constraints map[string][]string

	Create *CreateProject
	Open   *OpenProject

	Hierarchy bool
	Save      bool
	Output    string
	Archive   *Archive
	Run       Run
}

type ConfigError struct {
	File, Key string
	Err       error
}

func (e ConfigError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("config %s: %s", e.File, e.Err)
	}
	return fmt.Sprintf("config %s: %s: %s", e.File, e.Key, e.Err)
}

func (e ConfigError) Unwrap() error { return e.Err }

// LoadConfig reads the config file at path. The file type is taken from the
// extension, files without extension are read as JSON. The keys library, top
// and output can be overridden from the environment, e.g. with
// GENPROJ_LIBERO_PROJECT_TOP.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFile
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	v := viper.New()
	v.SetConfigFile(abs)
	if filepath.Ext(abs) == "" {
		v.SetConfigType("json")
	}
	v.SetEnvPrefix("GENPROJ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if !v.IsSet(ProjectKey) {
		return nil, ConfigError{File: abs, Key: ProjectKey, Err: errors.New("missing section")}
	}
	cfg := &Config{
		File:      abs,
		Dir:       filepath.Dir(abs),
		Library:   v.GetString(ProjectKey + ".library"),
		Top:       v.GetString(ProjectKey + ".top"),
		Hierarchy: v.GetBool(ProjectKey + ".build_hierarchy"),
		Save:      v.GetBool(ProjectKey + ".save"),
		Output:    v.GetString(ProjectKey + ".output"),
		Search:    make(map[string]*Search),
	}
	if cfg.Library == "" {
		cfg.Library = DefaultLibrary
	}
	for _, cat := range DefaultCategories {
		key := ProjectKey + "." + cat.Key
		if !v.IsSet(key) {
			continue
		}
		var s Search
		if err := v.UnmarshalKey(key, &s); err != nil {
			return nil, ConfigError{File: abs, Key: cat.Key, Err: err}
		}
		cfg.Search[cat.Key] = &s
	}
	if key := ProjectKey + ".enable_constraint"; v.IsSet(key) {
		raw := v.GetStringMapStringSlice(key)
		cfg.Constraints = make(map[string][]string, len(raw))
		for tool, files := range raw {
			tool = strings.ToUpper(tool)
			cfg.Constraints[tool] = append(cfg.Constraints[tool], files...)
		}
	}
	if key := ProjectKey + ".create"; v.IsSet(key) {
		cfg.Create = new(CreateProject)
		if err := v.UnmarshalKey(key, cfg.Create); err != nil {
			return nil, ConfigError{File: abs, Key: "create", Err: err}
		}
	}
	if key := ProjectKey + ".open"; v.IsSet(key) {
		cfg.Open = new(OpenProject)
		if err := v.UnmarshalKey(key, cfg.Open); err != nil {
			return nil, ConfigError{File: abs, Key: "open", Err: err}
		}
	}
	if key := ProjectKey + ".archive"; v.IsSet(key) {
		cfg.Archive = new(Archive)
		if err := v.UnmarshalKey(key, cfg.Archive); err != nil {
			return nil, ConfigError{File: abs, Key: "archive", Err: err}
		}
	}
	if key := ProjectKey + ".run"; v.IsSet(key) {
		if err := v.UnmarshalKey(key, &cfg.Run); err != nil {
			return nil, ConfigError{File: abs, Key: "run", Err: err}
		}
	}
	if cfg.Run.Executable == "" {
		cfg.Run.Executable = DefaultExecutable
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the config for consistency and compiles the match
// overrides.
func (cfg *Config) Validate() error {
	cerr := func(key string, format string, a ...any) error {
		return ConfigError{File: cfg.File, Key: key, Err: fmt.Errorf(format, a...)}
	}
	if cfg.Library == "" {
		return cerr("library", "must not be empty")
	}
	for key, s := range cfg.Search {
		if DefaultCategories.Find(key) == nil {
			return cerr(key, "unknown search category")
		}
		if s.Match != "" {
			rx, err := regexp.Compile(s.Match)
			if err != nil {
				return cerr(key+".match", "%w", err)
			}
			s.match = rx
		}
		for i, f := range s.Folder {
			if f.Path == "" {
				return cerr(fmt.Sprintf("%s.folder[%d]", key, i), "empty path")
			}
			for _, x := range f.Exclude {
				if !doublestar.ValidatePattern(x) {
					return cerr(fmt.Sprintf("%s.folder[%d]", key, i),
						"invalid exclude pattern '%s'", x)
				}
			}
		}
	}
	if cfg.Top == "" {
		for tool, files := range cfg.Constraints {
			if len(files) > 0 {
				return cerr("enable_constraint."+tool, "requires top module")
			}
		}
	}
	if cfg.Create != nil {
		if cfg.Open != nil {
			return cerr("create", "cannot be combined with open")
		}
		if cfg.Create.Location == "" {
			return cerr("create.location", "must not be empty")
		}
		if cfg.Create.Name == "" {
			return cerr("create.name", "must not be empty")
		}
	}
	if cfg.Open != nil && cfg.Open.File == "" {
		return cerr("open.file", "must not be empty")
	}
	for i, kv := range cfg.Run.Env {
		if k, _, ok := strings.Cut(kv, "="); !ok || k == "" {
			return cerr(fmt.Sprintf("run.env[%d]", i), "'%s' is no KEY=value entry", kv)
		}
	}
	if cfg.Archive != nil {
		if cfg.Archive.Path == "" {
			return cerr("archive.path", "must not be empty")
		}
		if _, err := ArchiveFormat(cfg.Archive.Format, cfg.Archive.Path); err != nil {
			return cerr("archive", "%w", err)
		}
	}
	return nil
}

// Categories returns the default categories with the config's match
// overrides applied.
func (cfg *Config) Categories() Categories {
	res := slices.Clone(DefaultCategories)
	for i, c := range res {
		if s := cfg.Search[c.Key]; s != nil && s.match != nil {
			res[i] = c.WithMatch(s.match)
		}
	}
	return res
}

// ToolOrder returns the tools with constraints in emission order.
func (cfg *Config) ToolOrder() (res []string) {
	for _, t := range ConstraintTools {
		if len(cfg.Constraints[t]) > 0 {
			res = append(res, t)
		}
	}
	var others []string
	for t, files := range cfg.Constraints {
		if len(files) > 0 && !slices.Contains(ConstraintTools, t) {
			others = append(others, t)
		}
	}
	slices.Sort(others)
	return append(res, others...)
}

const (
	FormatTarXz = "tar.xz"
	FormatTarGz = "tar.gz"
	FormatZip   = "zip"
)

// ArchiveFormat returns the normalized archive format. An empty format is
// derived from the extension of path.
func ArchiveFormat(format, path string) (string, error) {
	switch strings.ToLower(format) {
	case FormatTarXz, "txz", "xz":
		return FormatTarXz, nil
	case FormatTarGz, "tgz", "gz", "gzip":
		return FormatTarGz, nil
	case FormatZip:
		return FormatZip, nil
	case "":
		lp := strings.ToLower(path)
		switch {
		case strings.HasSuffix(lp, ".tar.xz"), strings.HasSuffix(lp, ".txz"):
			return FormatTarXz, nil
		case strings.HasSuffix(lp, ".tar.gz"), strings.HasSuffix(lp, ".tgz"):
			return FormatTarGz, nil
		case strings.HasSuffix(lp, ".zip"):
			return FormatZip, nil
		}
		return "", fmt.Errorf("cannot derive archive format from '%s'", path)
	}
	return "", fmt.Errorf("unknown archive format '%s'", format)
}
