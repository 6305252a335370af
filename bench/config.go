package bench

import (
	"net/http"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

const (
	DefaultEchoPort         = 1144
	DefaultRepeats          = 5
	DefaultTranscodeSeconds = 30.0
	DefaultFFmpegPath       = "ffmpeg"

	defaultDialTimeout = 10 * time.Second
)

type Config struct {
	Files            []string    `toml:"files"`
	RemoteIP         string      `toml:"ip"`
	EchoPort         int         `toml:"port"`
	Repeats          int         `toml:"repeats"`
	TranscodeSeconds float64     `toml:"transcode_seconds"`
	FFmpegPath       string      `toml:"ffmpeg"`
	Operations       []Operation `toml:"ops"`
	StatusURL        string      `toml:"status_url"`

	// runtime collaborators, never read from a config file
	Transcoder  Transcoder           `toml:"-"`
	Client      *http.Client         `toml:"-"`
	Renderer    func(results []Result) `toml:"-"`
	DialTimeout time.Duration        `toml:"-"`
}

// LoadConfig reads a TOML config file. Flags set on the command line
// override what the file says; defaults fill whatever is left.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing config %s", path)
	}

	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.EchoPort == 0 {
		cfg.EchoPort = DefaultEchoPort
	}

	if cfg.Repeats == 0 {
		cfg.Repeats = DefaultRepeats
	}

	if cfg.TranscodeSeconds == 0 {
		cfg.TranscodeSeconds = DefaultTranscodeSeconds
	}

	if cfg.FFmpegPath == "" {
		cfg.FFmpegPath = DefaultFFmpegPath
	}

	if len(cfg.Operations) == 0 {
		cfg.Operations = AllOperations
	}

	if cfg.Transcoder == nil {
		cfg.Transcoder = FFmpeg{Path: cfg.FFmpegPath, ClipSeconds: cfg.TranscodeSeconds}
	}

	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: 5 * time.Second}
	}

	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = defaultDialTimeout
	}
}

func (cfg *Config) validate() error {
	if len(cfg.Files) == 0 {
		return errors.New("no target files given")
	}

	// sample standard deviation needs at least two trials
	if cfg.Repeats < 2 {
		return errors.Errorf("repeats must be at least 2, got %d", cfg.Repeats)
	}

	if cfg.TranscodeSeconds <= 0 {
		return errors.Errorf("transcode seconds must be positive, got %v", cfg.TranscodeSeconds)
	}

	transferEnabled := false

	for _, op := range cfg.Operations {
		if !op.Valid() {
			return errors.Errorf("unknown operation %q", op)
		}

		if op == OpTransfer {
			transferEnabled = true
		}
	}

	if transferEnabled {
		if cfg.RemoteIP == "" {
			return errors.New("transfer operation needs --ip")
		}

		if cfg.EchoPort <= 0 || cfg.EchoPort > 65535 {
			return errors.Errorf("invalid echo port %d", cfg.EchoPort)
		}
	}

	return nil
}
