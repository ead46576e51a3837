package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string

	// Filesystem layout
	DataDir     string
	SeuratDir   string
	DatasetsDir string
	FuncsDir    string

	// External interpreters
	RscriptBin string
	PythonBin  string
}

var ErrUnknownDatabaseType = errors.New("unknown database type")

// ParseFlags reads flags, then .env, then process env, then defaults
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var envFile string

	fs := flag.NewFlagSet("qtlportal", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL or SQLite file path")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite, postgres or pgx)")

	fs.StringVar(&cfg.DataDir, "data", "", "Root of the Seurats/ and datasets/ trees")
	fs.StringVar(&cfg.FuncsDir, "funcs", "", "Directory holding the conversion scripts")
	fs.StringVar(&cfg.RscriptBin, "rscript", "", "Rscript executable")
	fs.StringVar(&cfg.PythonBin, "python", "", "Python executable")
	fs.StringVar(&envFile, "env", ".env", "Optional dotenv file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// godotenv.Load never overrides variables that are already set
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 8000
		}
	}

	if cfg.DataDir == "" {
		cfg.DataDir = envOr("DATA_DIR", "backend")
	}
	cfg.SeuratDir = filepath.Join(cfg.DataDir, "Seurats")
	cfg.DatasetsDir = filepath.Join(cfg.DataDir, "datasets")
	if cfg.FuncsDir == "" {
		cfg.FuncsDir = envOr("FUNCS_DIR", filepath.Join(cfg.DataDir, "funcs"))
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = envOr("DATABASE_TYPE", "sqlite")
	}
	switch cfg.DatabaseType {
	case "sqlite", "postgres", "pgx":
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownDatabaseType, cfg.DatabaseType)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType != "sqlite" {
			return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
		}
		cfg.DatabaseURL = filepath.Join(cfg.DataDir, "portal.db")
	}

	if cfg.RscriptBin == "" {
		cfg.RscriptBin = envOr("RSCRIPT_BIN", "Rscript")
	}
	if cfg.PythonBin == "" {
		cfg.PythonBin = envOr("PYTHON_BIN", "python3")
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
