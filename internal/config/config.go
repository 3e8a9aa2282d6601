package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mrzor/centrality-eta/internal/centrality"
	"github.com/mrzor/centrality-eta/internal/eventsource"

	"github.com/caarlos0/env/v11"
)

// ErrHelp is returned by ParseArgs when usage was requested.
var ErrHelp = errors.New("help requested")

// Config holds the parsed command-line configuration
type Config struct {
	// Inputs are event files or doublestar patterns
	Inputs []string
	// Format forces the input format (auto, hepmc, jsonl)
	Format eventsource.Format
	// Workers is the number of parallel accumulators
	Workers int
	// OutputDir receives the YODA file, the summary and plots
	OutputDir string
	// Estimator names the centrality method
	Estimator string
	// Calibration is an optional YAML calibration file for the estimator
	Calibration string
	// Plots enables one PNG per centrality bin
	Plots bool
}

// EnvConfig holds defaults read from environment variables.
type EnvConfig struct {
	Workers     int    `env:"CENTRALITY_ETA_WORKERS" envDefault:"1"`
	OutputDir   string `env:"CENTRALITY_ETA_OUTPUT" envDefault:"out"`
	Estimator   string `env:"CENTRALITY_ETA_ESTIMATOR" envDefault:"V0M"`
	Format      string `env:"CENTRALITY_ETA_FORMAT" envDefault:"auto"`
	Calibration string `env:"CENTRALITY_ETA_CALIBRATION" envDefault:""`
	Plots       bool   `env:"CENTRALITY_ETA_PLOTS" envDefault:"false"`
}

// ParseEnvConfig parses run defaults from environment variables
func ParseEnvConfig() (*EnvConfig, error) {
	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment config: %w", err)
	}
	return &cfg, nil
}

// Usage returns the command-line help text.
func Usage(programName string) string {
	return fmt.Sprintf(`Usage: %s [options] <input>...

Inputs are HepMC2 or JSONL event files, optionally gzip or xz compressed.
Glob patterns such as 'runs/**/*.hepmc.xz' are expanded.

Options:
  -w, --workers <n>        parallel accumulators (CENTRALITY_ETA_WORKERS, default 1)
  -f, --format <name>      auto, hepmc or jsonl (CENTRALITY_ETA_FORMAT, default auto)
  -o, --output <dir>       output directory (CENTRALITY_ETA_OUTPUT, default out)
  -e, --estimator <name>   V0M, impact or recorded (CENTRALITY_ETA_ESTIMATOR, default V0M)
  -c, --calibration <file> YAML calibration table (CENTRALITY_ETA_CALIBRATION)
      --plot               write one PNG per centrality bin (CENTRALITY_ETA_PLOTS)
  -h, --help               show this help
`, programName)
}

// ParseArgs parses command-line arguments and returns a Config.
// Environment variables provide defaults; flags override them.
// Expected format: program_name [options] [--] <input>...
func ParseArgs(args []string) (*Config, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no arguments provided")
	}

	envCfg, err := ParseEnvConfig()
	if err != nil {
		return nil, err
	}

	programName := args[0]
	cfg := &Config{
		Workers:     envCfg.Workers,
		OutputDir:   envCfg.OutputDir,
		Estimator:   envCfg.Estimator,
		Calibration: envCfg.Calibration,
		Plots:       envCfg.Plots,
	}
	format := envCfg.Format

	for i := 1; i < len(args); i++ {
		arg := args[i]

		if arg == "--" {
			cfg.Inputs = append(cfg.Inputs, args[i+1:]...)
			break
		}

		name, value, hasValue := strings.Cut(arg, "=")
		if !strings.HasPrefix(name, "-") {
			cfg.Inputs = append(cfg.Inputs, arg)
			continue
		}

		// takeValue returns the flag's value, either inline (--flag=value) or the next argument
		takeValue := func() (string, error) {
			if hasValue {
				return value, nil
			}
			if i+1 >= len(args) {
				return "", fmt.Errorf("%s requires a value", name)
			}
			i++
			return args[i], nil
		}

		switch name {
		case "-h", "--help":
			return nil, ErrHelp
		case "--plot":
			if hasValue {
				b, err := strconv.ParseBool(value)
				if err != nil {
					return nil, fmt.Errorf("--plot must be a boolean: %v", err)
				}
				cfg.Plots = b
			} else {
				cfg.Plots = true
			}
		case "-w", "--workers":
			v, err := takeValue()
			if err != nil {
				return nil, err
			}
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("%s must be an integer: %v", name, err)
			}
			cfg.Workers = n
		case "-f", "--format":
			if format, err = takeValue(); err != nil {
				return nil, err
			}
		case "-o", "--output":
			if cfg.OutputDir, err = takeValue(); err != nil {
				return nil, err
			}
		case "-e", "--estimator":
			if cfg.Estimator, err = takeValue(); err != nil {
				return nil, err
			}
		case "-c", "--calibration":
			if cfg.Calibration, err = takeValue(); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("unknown flag %s\n%s", name, Usage(programName))
		}
	}

	if len(cfg.Inputs) == 0 {
		return nil, fmt.Errorf("no input files\n%s", Usage(programName))
	}

	if cfg.Format, err = eventsource.ParseFormat(format); err != nil {
		return nil, err
	}
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("workers must be at least 1, got %d", cfg.Workers)
	}
	if cfg.OutputDir == "" {
		return nil, fmt.Errorf("output directory must not be empty")
	}
	switch cfg.Estimator {
	case centrality.MethodV0M, centrality.MethodImpact, centrality.MethodRecorded:
	default:
		return nil, fmt.Errorf("unknown estimator %q (want %s, %s or %s)",
			cfg.Estimator, centrality.MethodV0M, centrality.MethodImpact, centrality.MethodRecorded)
	}
	if cfg.Calibration != "" && cfg.Estimator == centrality.MethodRecorded {
		return nil, fmt.Errorf("estimator %s takes no calibration", centrality.MethodRecorded)
	}

	return cfg, nil
}
