// Package config reads gene-ranker settings from a .env file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/yumyai/generanker/pkg/errs"
)

const (
	EnvIDColumn  = "GENE_RANKER_ID_COLUMN"
	EnvLogLevel  = "GENE_RANKER_LOG_LEVEL"
	EnvFastCohen = "GENE_RANKER_FAST_COHEN"
	EnvRscript   = "GENE_RANKER_RSCRIPT"
	EnvTempDir   = "GENE_RANKER_TMPDIR"
	EnvSlow      = "GENE_RANKER_SLOW_METHOD"

	// DefaultEnvFile is read when no other file is named. It may be absent.
	DefaultEnvFile = ".env"
)

type Config struct {
	IDColumn   string        `validate:"required"`
	LogLevel   string        `validate:"oneof=debug info warn warning error"`
	FastCohen  string        `validate:"required"`
	Rscript    string        `validate:"required"`
	TempDir    string        `validate:"omitempty,dir"`
	SlowMethod time.Duration `validate:"gte=0"`

	// EnvFile is the file that was loaded, empty when none was found.
	EnvFile string `validate:"-"`
}

var validate = validator.New()

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		IDColumn:   "gene_id",
		LogLevel:   "info",
		FastCohen:  "fast-cohen",
		Rscript:    "Rscript",
		SlowMethod: time.Minute,
	}
}

// Load reads envFile (DefaultEnvFile when empty) into the environment and
// builds a Config from it. Variables already set in the environment win over
// the file. A missing default file is not an error; a missing named file is.
func Load(envFile string) (Config, error) {
	cfg := Default()

	name := envFile
	if name == "" {
		name = DefaultEnvFile
	}
	if err := godotenv.Load(name); err != nil {
		if envFile != "" || !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("failed to load %s: %w", name, err)
		}
	} else {
		cfg.EnvFile = name
	}

	lookup(EnvIDColumn, &cfg.IDColumn)
	lookup(EnvLogLevel, &cfg.LogLevel)
	lookup(EnvFastCohen, &cfg.FastCohen)
	lookup(EnvRscript, &cfg.Rscript)
	lookup(EnvTempDir, &cfg.TempDir)

	var slow string
	if lookup(EnvSlow, &slow) {
		d, err := time.ParseDuration(slow)
		if err != nil {
			return cfg, errs.Configf("%s=%q is not a duration", EnvSlow, slow)
		}
		cfg.SlowMethod = d
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	return cfg, cfg.Validate()
}

func lookup(key string, dst *string) bool {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return false
	}
	*dst = v
	return true
}

// Validate checks every field.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, len(verrs))
			for i, fe := range verrs {
				msgs[i] = fmt.Sprintf("%s fails %q (got %v)", fe.Field(), fe.Tag(), fe.Value())
			}
			return errs.Configf("%s", strings.Join(msgs, "; "))
		}
		return errs.Configf("%v", err)
	}
	return nil
}
