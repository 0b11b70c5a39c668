// Command eggy runs a virtual pet on three GPIO buttons and a buzzer, and
// publishes what the pet does to MQTT.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sweeney/eggy/internal/audio"
	"github.com/sweeney/eggy/internal/config"
	"github.com/sweeney/eggy/internal/display"
	"github.com/sweeney/eggy/internal/gpio"
	"github.com/sweeney/eggy/internal/logging"
	"github.com/sweeney/eggy/internal/mqtt"
	"github.com/sweeney/eggy/internal/peripheral"
	"github.com/sweeney/eggy/internal/pet"
	"github.com/sweeney/eggy/internal/status"
	"github.com/sweeney/eggy/internal/tone"
	"github.com/sweeney/eggy/internal/tone/synth"
	"github.com/sweeney/eggy/internal/toy"
	"github.com/sweeney/eggy/internal/web"
)

// statusInterval is how often the MQTT connection state is copied into the
// tracker.
const statusInterval = time.Second

func main() {
	configPath := flag.String("config", "", "TOML config file (optional)")
	dotenv := flag.String("env", ".env", "dotenv file loaded before the environment (skipped if missing)")
	toneDriver := flag.String("tone", "", "Override the tone driver: pwm, synth or none")
	inputDriver := flag.String("input", "", "Override the input driver: gpio or none")
	httpAddr := flag.String("http", "=config", `HTTP status address ("=config" keeps the configured value, empty disables)`)
	show := flag.Bool("show", false, "Draw frames as text on stdout")
	jsonLogs := flag.Bool("log-json", false, "Log JSON lines instead of console output")
	printState := flag.Bool("print-state", false, "Print the current button levels and exit")

	flag.Parse()

	cfg, err := config.Load(*configPath, *dotenv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
	if *toneDriver != "" {
		cfg.Tone = *toneDriver
	}
	if *inputDriver != "" {
		cfg.Input = *inputDriver
	}
	if *httpAddr != "=config" {
		cfg.HTTP = *httpAddr
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}

	_, closer := logging.Configure("eggy", logging.Options{
		Level: cfg.LogLevel,
		JSON:  *jsonLogs,
		File:  cfg.LogFile,
	})
	defer closer.Close()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	if err := run(cfg, *show, *printState, sigCh); err != nil {
		log.Fatal().Err(err).Msg("fatal")
	}
}

func run(cfg config.Config, show, printState bool, sig <-chan os.Signal) error {
	reader, err := openInput(cfg)
	if err != nil {
		return fmt.Errorf("init input: %w", err)
	}
	defer reader.Close()

	if printState {
		return printButtons(os.Stdout, reader)
	}

	dev, err := openTone(cfg)
	if err != nil {
		return fmt.Errorf("init tone: %w", err)
	}
	defer dev.Close()

	bank, err := audio.LoadBank(cfg.SoundBank)
	if err != nil {
		return err
	}

	var publisher interface {
		mqtt.Publisher
		mqtt.ConnectionStatus
	} = mqtt.Nop{}
	if cfg.Broker != "" {
		p, err := mqtt.NewRealPublisher(cfg.Broker, "eggy-"+cfg.PetName, mqtt.TopicsFor(cfg.PetName))
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		publisher = p
	}
	defer publisher.Close()

	// Tracker exists before STARTUP so the snapshot is available
	tracker := status.NewTracker(time.Now(), status.Config{
		PetName:         cfg.PetName,
		Tone:            cfg.Tone,
		PollMs:          cfg.Poll.Milliseconds(),
		DebounceMs:      cfg.Debounce.Milliseconds(),
		HeartbeatMs:     cfg.Heartbeat.Milliseconds(),
		StateIntervalMs: cfg.StateInterval.Milliseconds(),
		Broker:          cfg.Broker,
		HTTPAddr:        cfg.HTTP,
	})
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}
	tracker.SetMQTTConnected(publisher.IsConnected())

	snap := tracker.Snapshot()
	startup := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startup); err != nil {
		log.Warn().Err(err).Msg("publish startup event")
	} else {
		log.Info().Msg("published startup event")
	}

	if cfg.HTTP != "" {
		srv := web.New(cfg.HTTP, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("http server")
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		}()
		log.Info().Str("addr", cfg.HTTP).Msg("http status server listening")
	}

	var disp display.Display = display.Discard{}
	if show {
		disp = display.NewWriter(os.Stdout)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var wg sync.WaitGroup

	handler := peripheral.New(reader, dev, cfg.Debounce)
	poll := time.NewTicker(cfg.Poll)
	defer poll.Stop()
	wg.Add(1)
	go func() {
		defer wg.Done()
		handler.Run(ctx, poll.C, time.Now)
	}()

	// Pet events and state are queued; system events stay synchronous.
	events := mqtt.NewAsync(publisher, mqtt.DefaultQueueSize)
	defer events.Close()

	p := pet.New(cfg.PetName)
	t := toy.New(p, handler, toy.Options{
		Bank:           bank,
		Display:        disp,
		Publisher:      events,
		Tracker:        tracker,
		StateInterval:  cfg.StateInterval,
		AngryAfterHour: cfg.AngryAfterHour,
	})
	toyDone := make(chan error, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		toyDone <- t.Run(ctx, time.Now)
	}()

	log.Info().
		Str("pet", cfg.PetName).
		Str("tone", cfg.Tone).
		Dur("poll", cfg.Poll).
		Dur("debounce", cfg.Debounce).
		Str("broker", cfg.Broker).
		Dur("heartbeat", cfg.Heartbeat).
		Msg("started")

	statusTick := time.NewTicker(statusInterval)
	defer statusTick.Stop()

	var heartbeat <-chan time.Time
	if cfg.Heartbeat > 0 {
		hb := time.NewTicker(cfg.Heartbeat)
		defer hb.Stop()
		heartbeat = hb.C
	}

	err = runLoop(publisher, publisher, tracker, time.Now, statusTick.C, heartbeat, sig, toyDone)
	cancel()
	wg.Wait()
	return err
}

// runLoop keeps the tracker's connectivity fresh, publishes heartbeats, and
// publishes SHUTDOWN when a signal arrives. It returns early with an error if
// the frame loop stops on its own.
func runLoop(publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, now func() time.Time, statusTick, heartbeat <-chan time.Time, sig <-chan os.Signal, toyDone <-chan error) error {
	for {
		select {
		case s := <-sig:
			log.Info().Str("signal", s.String()).Msg("shutting down")
			reason := signalName(s)
			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    reason,
				Retained:  true,
			}
			if tracker != nil {
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				event.RawPayload = status.FormatStatusEvent(tracker.Snapshot(), "SHUTDOWN", reason)
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Warn().Err(err).Msg("publish shutdown event")
			} else {
				log.Info().Msg("published shutdown event")
			}
			return nil

		case err := <-toyDone:
			return fmt.Errorf("frame loop stopped: %w", err)

		case <-statusTick:
			if tracker != nil && mqttStatus != nil {
				tracker.SetMQTTConnected(mqttStatus.IsConnected())
			}

		case <-heartbeat:
			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "HEARTBEAT",
			}
			if tracker != nil {
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				// Refresh network info for heartbeat
				if net := readNetworkInfo(); net != nil {
					tracker.SetNetwork(net)
				}
				snap := tracker.Snapshot()
				log.Info().Dur("uptime", snap.Uptime()).Bool("mqtt", snap.MQTTConnected).
					Str("pet", snap.View.Pet.Name).Int("age", snap.View.Pet.Age).Msg("heartbeat")
				event.RawPayload = status.FormatStatusEvent(snap, "HEARTBEAT", "")
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Warn().Err(err).Msg("publish heartbeat")
			}
		}
	}
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}

// openInput returns the button reader selected by cfg.Input. InputNone
// gives a reader whose buttons are never pressed.
func openInput(cfg config.Config) (gpio.Reader, error) {
	switch cfg.Input {
	case config.InputGPIO:
		return gpio.NewRealReader(cfg.GPIOChip, cfg.Pins())
	case config.InputNone:
		return gpio.NewFakeReader([]gpio.Sample{{}}), nil
	}
	return nil, fmt.Errorf("%w: unknown input driver %q", config.ErrInvalid, cfg.Input)
}

// openTone returns the tone device selected by cfg.Tone.
func openTone(cfg config.Config) (tone.Device, error) {
	switch cfg.Tone {
	case config.TonePWM:
		return tone.OpenPWM(tone.DefaultSysfsRoot, cfg.PWMChip, cfg.PWMChannel)
	case config.ToneSynth:
		return synth.New(synth.DefaultSampleRate)
	case config.ToneNone:
		return tone.NewFake(), nil
	}
	return nil, fmt.Errorf("%w: unknown tone driver %q", config.ErrInvalid, cfg.Tone)
}

// printButtons reads the buttons once and writes their levels to w.
func printButtons(w io.Writer, r gpio.Reader) error {
	l, m, rt, err := r.Read()
	if err != nil {
		return fmt.Errorf("read gpio: %w", err)
	}
	_, err = fmt.Fprintf(w, "L: %s, M: %s, R: %s\n", levelString(l), levelString(m), levelString(rt))
	return err
}

func levelString(pressed bool) string {
	if pressed {
		return "DOWN"
	}
	return "UP"
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}
