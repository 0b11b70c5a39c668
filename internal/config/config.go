// Package config loads daemon settings in layers: built-in defaults, an
// optional TOML file, an optional .env file, then EGGY_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/sweeney/eggy/internal/gpio"
	"github.com/sweeney/eggy/internal/input"
	"github.com/sweeney/eggy/internal/pet"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "EGGY_"

// Tone drivers.
const (
	TonePWM   = "pwm"
	ToneSynth = "synth"
	ToneNone  = "none"
)

// Input drivers. InputNone runs without buttons, for desktop runs.
const (
	InputGPIO = "gpio"
	InputNone = "none"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds every daemon setting.
type Config struct {
	PetName string `env:"PET_NAME"`

	Input     string `env:"INPUT"`
	GPIOChip  string `env:"GPIO_CHIP"`
	PinLeft   int    `env:"PIN_LEFT"`
	PinMiddle int    `env:"PIN_MIDDLE"`
	PinRight  int    `env:"PIN_RIGHT"`

	Tone       string `env:"TONE"`
	PWMChip    int    `env:"PWM_CHIP"`
	PWMChannel int    `env:"PWM_CHANNEL"`

	Poll     time.Duration `env:"POLL"`
	Debounce time.Duration `env:"DEBOUNCE"`

	Broker        string        `env:"BROKER"` // empty disables MQTT
	Heartbeat     time.Duration `env:"HEARTBEAT"`
	StateInterval time.Duration `env:"STATE_INTERVAL"`

	HTTP      string `env:"HTTP"` // empty disables the status server
	SoundBank string `env:"SOUND_BANK"`

	// AngryAfterHour makes the pet angry from this local hour until
	// midnight. -1 disables.
	AngryAfterHour int `env:"ANGRY_AFTER_HOUR"`

	LogLevel string `env:"LOG_LEVEL"`
	LogFile  string `env:"LOG_FILE"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		PetName:        pet.DefaultName,
		Input:          InputGPIO,
		GPIOChip:       gpio.DefaultChip,
		PinLeft:        gpio.DefaultPinLeft,
		PinMiddle:      gpio.DefaultPinMiddle,
		PinRight:       gpio.DefaultPinRight,
		Tone:           TonePWM,
		PWMChip:        0,
		PWMChannel:     0,
		Poll:           5 * time.Millisecond,
		Debounce:       input.DefaultWindow,
		Broker:         "tcp://localhost:1883",
		Heartbeat:      15 * time.Minute,
		StateInterval:  30 * time.Second,
		HTTP:           ":8080",
		AngryAfterHour: -1,
		LogLevel:       "info",
	}
}

// Pins returns the configured button pins.
func (c Config) Pins() gpio.Pins {
	return gpio.Pins{Left: c.PinLeft, Middle: c.PinMiddle, Right: c.PinRight}
}

// Validate checks c for settings the daemon cannot run with.
func (c Config) Validate() error {
	if c.Poll <= 0 {
		return fmt.Errorf("%w: poll must be positive, got %v", ErrInvalid, c.Poll)
	}
	if c.Debounce <= 0 {
		return fmt.Errorf("%w: debounce must be positive, got %v", ErrInvalid, c.Debounce)
	}
	if c.PinLeft == c.PinMiddle || c.PinLeft == c.PinRight || c.PinMiddle == c.PinRight {
		return fmt.Errorf("%w: button pins must differ, got %d/%d/%d", ErrInvalid, c.PinLeft, c.PinMiddle, c.PinRight)
	}
	for _, p := range []int{c.PinLeft, c.PinMiddle, c.PinRight} {
		if p < 0 {
			return fmt.Errorf("%w: negative pin %d", ErrInvalid, p)
		}
	}
	switch c.Input {
	case InputGPIO, InputNone:
	default:
		return fmt.Errorf("%w: unknown input driver %q", ErrInvalid, c.Input)
	}
	switch c.Tone {
	case TonePWM, ToneSynth, ToneNone:
	default:
		return fmt.Errorf("%w: unknown tone driver %q", ErrInvalid, c.Tone)
	}
	if c.AngryAfterHour < -1 || c.AngryAfterHour > 23 {
		return fmt.Errorf("%w: angry_after_hour must be -1..23, got %d", ErrInvalid, c.AngryAfterHour)
	}
	if c.Heartbeat < 0 || c.StateInterval < 0 {
		return fmt.Errorf("%w: intervals must not be negative", ErrInvalid)
	}
	return nil
}

// Load builds a Config from defaults, the TOML file at path (skipped when
// path is empty), the .env file at dotenv (skipped when missing) and the
// environment. The result is validated.
func Load(path, dotenv string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", dotenv, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	cfg.PetName = strings.TrimSpace(cfg.PetName)
	if cfg.PetName == "" {
		cfg.PetName = pet.DefaultName
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

type fileConfig struct {
	PetName        string `toml:"pet_name"`
	Input          string `toml:"input"`
	GPIOChip       string `toml:"gpio_chip"`
	PinLeft        int    `toml:"pin_left"`
	PinMiddle      int    `toml:"pin_middle"`
	PinRight       int    `toml:"pin_right"`
	Tone           string `toml:"tone"`
	PWMChip        int    `toml:"pwm_chip"`
	PWMChannel     int    `toml:"pwm_channel"`
	Poll           string `toml:"poll"`
	Debounce       string `toml:"debounce"`
	Broker         string `toml:"broker"`
	Heartbeat      string `toml:"heartbeat"`
	StateInterval  string `toml:"state_interval"`
	HTTP           string `toml:"http"`
	SoundBank      string `toml:"sound_bank"`
	AngryAfterHour int    `toml:"angry_after_hour"`
	LogLevel       string `toml:"log_level"`
	LogFile        string `toml:"log_file"`
}

// applyFile overlays only the keys present in the TOML file.
func applyFile(cfg *Config, path string) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("%w: unknown key %q in %s", ErrInvalid, undecoded[0].String(), path)
	}

	str := func(key, v string, dst *string) {
		if meta.IsDefined(key) {
			*dst = strings.TrimSpace(v)
		}
	}
	num := func(key string, v int, dst *int) {
		if meta.IsDefined(key) {
			*dst = v
		}
	}
	dur := func(key, v string, dst *time.Duration) error {
		if !meta.IsDefined(key) {
			return nil
		}
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("parse %s: %w", key, err)
		}
		*dst = d
		return nil
	}

	str("pet_name", raw.PetName, &cfg.PetName)
	str("input", raw.Input, &cfg.Input)
	str("gpio_chip", raw.GPIOChip, &cfg.GPIOChip)
	num("pin_left", raw.PinLeft, &cfg.PinLeft)
	num("pin_middle", raw.PinMiddle, &cfg.PinMiddle)
	num("pin_right", raw.PinRight, &cfg.PinRight)
	str("tone", raw.Tone, &cfg.Tone)
	num("pwm_chip", raw.PWMChip, &cfg.PWMChip)
	num("pwm_channel", raw.PWMChannel, &cfg.PWMChannel)
	str("broker", raw.Broker, &cfg.Broker)
	str("http", raw.HTTP, &cfg.HTTP)
	str("sound_bank", raw.SoundBank, &cfg.SoundBank)
	num("angry_after_hour", raw.AngryAfterHour, &cfg.AngryAfterHour)
	str("log_level", raw.LogLevel, &cfg.LogLevel)
	str("log_file", raw.LogFile, &cfg.LogFile)

	for _, d := range []struct {
		key string
		v   string
		dst *time.Duration
	}{
		{"poll", raw.Poll, &cfg.Poll},
		{"debounce", raw.Debounce, &cfg.Debounce},
		{"heartbeat", raw.Heartbeat, &cfg.Heartbeat},
		{"state_interval", raw.StateInterval, &cfg.StateInterval},
	} {
		if err := dur(d.key, d.v, d.dst); err != nil {
			return err
		}
	}
	return nil
}
