package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/clbtools/clbtools/internal/chemistry"
	"github.com/clbtools/clbtools/internal/props"
)

// FileName is the config file that also marks the app root.
const FileName = "clbtools.yaml"

type Config struct {
	// Root is the directory relative paths are resolved against.
	Root string `yaml:"-"`

	Workbook   string           `yaml:"workbook"`
	Sheets     SheetNames       `yaml:"sheets"`
	Chemistry  ChemistryConfig  `yaml:"chemistry"`
	Cache      CacheConfig      `yaml:"cache"`
	Properties PropertiesConfig `yaml:"properties"`
	Server     ServerConfig     `yaml:"server"`
}

type SheetNames struct {
	Attributes        string `yaml:"attributes"`
	Chemistry         string `yaml:"chemistry"`
	MiiColorChemistry string `yaml:"mii_color_chemistry"`
	ChemistryLookup   string `yaml:"chemistry_lookup"`
	NameMapping       string `yaml:"name_mapping"`
	ChangeLog         string `yaml:"change_log"`
}

type ChemistryConfig struct {
	Thresholds       ThresholdConfig `yaml:"thresholds"`
	SpeciesException SpeciesConfig   `yaml:"species_exception"`
}

// ThresholdConfig uses pointers so an explicit 0 is kept.
type ThresholdConfig struct {
	PositiveMin *int `yaml:"positive_min"`
	NegativeMax *int `yaml:"negative_max"`
}

type SpeciesConfig struct {
	Species        string `yaml:"species"`
	DefaultVariant string `yaml:"default_variant"`
}

type CacheConfig struct {
	AttributeTTL time.Duration `yaml:"attribute_ttl"`
}

type PropertiesConfig struct {
	Backend       string `yaml:"backend"`
	Path          string `yaml:"path"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	Driver        string `yaml:"driver"`
	DSN           string `yaml:"dsn"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

// Load reads root/clbtools.yaml (optional), root/.env (optional) and the
// environment, in that order of increasing precedence.
func Load(root string) (Config, error) {
	if strings.TrimSpace(root) == "" {
		root = "."
	}
	cfg, err := loadFile(filepath.Join(root, FileName))
	if err != nil {
		return Config{}, err
	}
	cfg.Root = root

	// .env never overrides variables already set in the process.
	_ = godotenv.Load(filepath.Join(root, ".env"))

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	applyDefaults(&cfg)
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the built-in configuration rooted at root.
func Default(root string) Config {
	cfg := Config{Root: root}
	applyDefaults(&cfg)
	return cfg
}

func loadFile(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, err
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return Config{}, nil
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config yaml %s: %w", path, err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setString := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	setString(&cfg.Workbook, "CLB_WORKBOOK")
	setString(&cfg.Properties.Backend, "CLB_PROPERTIES_BACKEND")
	setString(&cfg.Properties.RedisAddr, "REDIS_ADDR")
	setString(&cfg.Properties.RedisPassword, "REDIS_PASSWORD")
	setString(&cfg.Properties.DSN, "DATABASE_DSN")
	setString(&cfg.Properties.Driver, "DATABASE_DRIVER")
	setString(&cfg.Server.Port, "PORT")

	if v := strings.TrimSpace(os.Getenv("REDIS_DB")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB %q: %w", v, err)
		}
		cfg.Properties.RedisDB = n
	}
	return nil
}

func applyDefaults(cfg *Config) {
	def := func(dst *string, v string) {
		if strings.TrimSpace(*dst) == "" {
			*dst = v
		}
	}
	def(&cfg.Workbook, "clb_database.xlsx")

	def(&cfg.Sheets.Attributes, "Advanced Attributes")
	def(&cfg.Sheets.Chemistry, "Player Chemistry Matrix")
	def(&cfg.Sheets.MiiColorChemistry, "Mii Chemistry Matrix")
	def(&cfg.Sheets.ChemistryLookup, "Chemistry Lookup")
	def(&cfg.Sheets.NameMapping, "Character Name Mapping")
	def(&cfg.Sheets.ChangeLog, "Chemistry Change Log")

	if cfg.Chemistry.Thresholds.PositiveMin == nil {
		v := chemistry.DefaultThresholds.PositiveMin
		cfg.Chemistry.Thresholds.PositiveMin = &v
	}
	if cfg.Chemistry.Thresholds.NegativeMax == nil {
		v := chemistry.DefaultThresholds.NegativeMax
		cfg.Chemistry.Thresholds.NegativeMax = &v
	}
	def(&cfg.Chemistry.SpeciesException.Species, chemistry.DefaultRules.Species)
	def(&cfg.Chemistry.SpeciesException.DefaultVariant, chemistry.DefaultRules.DefaultVariant)

	if cfg.Cache.AttributeTTL == 0 {
		cfg.Cache.AttributeTTL = 5 * time.Minute
	}

	def(&cfg.Properties.Backend, "file")
	def(&cfg.Properties.Path, filepath.Join("work", "clbtools_props.json"))
	def(&cfg.Server.Port, "8080")
}

func (c Config) validate() error {
	th := c.Thresholds()
	if th.PositiveMin <= th.NegativeMax {
		return fmt.Errorf("invalid chemistry.thresholds: positive_min (%d) must be greater than negative_max (%d)", th.PositiveMin, th.NegativeMax)
	}
	if c.Cache.AttributeTTL < 0 {
		return fmt.Errorf("invalid cache.attribute_ttl: %s", c.Cache.AttributeTTL)
	}
	switch strings.ToLower(c.Properties.Backend) {
	case "file", "redis", "sql":
	default:
		return fmt.Errorf("invalid properties.backend: %s (expected file|redis|sql)", c.Properties.Backend)
	}
	if strings.EqualFold(c.Properties.Backend, "sql") && strings.TrimSpace(c.Properties.DSN) == "" {
		return errors.New("missing properties.dsn (or DATABASE_DSN) for the sql backend")
	}
	return nil
}

func (c Config) Thresholds() chemistry.Thresholds {
	th := chemistry.DefaultThresholds
	if c.Chemistry.Thresholds.PositiveMin != nil {
		th.PositiveMin = *c.Chemistry.Thresholds.PositiveMin
	}
	if c.Chemistry.Thresholds.NegativeMax != nil {
		th.NegativeMax = *c.Chemistry.Thresholds.NegativeMax
	}
	return th
}

func (c Config) Rules() chemistry.Rules {
	return chemistry.Rules{
		Species:        c.Chemistry.SpeciesException.Species,
		DefaultVariant: c.Chemistry.SpeciesException.DefaultVariant,
	}
}

// WorkbookPath resolves the workbook against Root.
func (c Config) WorkbookPath() string { return c.resolve(c.Workbook) }

func (c Config) PropsOptions() props.Options {
	return props.Options{
		Backend:       c.Properties.Backend,
		Path:          c.resolve(c.Properties.Path),
		RedisAddr:     c.Properties.RedisAddr,
		RedisPassword: c.Properties.RedisPassword,
		RedisDB:       c.Properties.RedisDB,
		Driver:        c.Properties.Driver,
		DSN:           c.Properties.DSN,
	}
}

func (c Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}
