// Package app wires the dictation pipeline together and drives its
// lifecycle. Components are constructed here; business logic lives in
// the sub-packages.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/JagadeeshAjjada/speech-to-text-desktop-application/audiocapture"
	"github.com/JagadeeshAjjada/speech-to-text-desktop-application/config"
	"github.com/JagadeeshAjjada/speech-to-text-desktop-application/dictation"
	"github.com/JagadeeshAjjada/speech-to-text-desktop-application/history"
	"github.com/JagadeeshAjjada/speech-to-text-desktop-application/hotkey"
	"github.com/JagadeeshAjjada/speech-to-text-desktop-application/inject"
	"github.com/JagadeeshAjjada/speech-to-text-desktop-application/internal/types"
	"github.com/JagadeeshAjjada/speech-to-text-desktop-application/notify"
	"github.com/JagadeeshAjjada/speech-to-text-desktop-application/sound"
	"github.com/JagadeeshAjjada/speech-to-text-desktop-application/stt"
)

// App owns every long-lived component of the pipeline.
type App struct {
	version string

	store      *config.Store
	capture    *audiocapture.Capture
	hotkeys    *hotkey.Manager
	registry   *stt.Registry
	dispatcher *dictation.Dispatcher
	injector   *inject.Injector
	histStore  *history.Store
	notifier   *notify.Notifier
	sounds     *sound.Player
	service    *dictation.Service
}

// New creates an unstarted application.
func New(version string) *App {
	return &App{version: version}
}

// Run builds the pipeline from configuration and blocks until ctx is
// cancelled. All resources are released before it returns.
func (a *App) Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	path, err := config.Path()
	if err != nil {
		return err
	}
	a.store = config.NewStore(cfg, path)
	if err := a.store.Watch(); err != nil {
		slog.Warn("config hot-reload disabled", "error", err)
	}
	defer a.store.Close()

	snap := a.store.Snapshot()

	if err := a.setupCapture(snap); err != nil {
		return err
	}
	if err := a.setupHotkeys(snap); err != nil {
		return err
	}
	defer a.hotkeys.Stop()

	a.setupSTT(snap)
	defer a.registry.Close()

	provider, err := a.registry.Pick(snap.STT.Provider)
	if err != nil {
		return err
	}
	slog.Info("transcription engine selected",
		"provider", provider.Name(), "local", provider.IsLocal())

	a.dispatcher = dictation.NewDispatcher(provider, snap.STT.PoolSize)
	defer a.dispatcher.Close()

	a.injector = inject.New(inject.Config{
		RestoreDelay: snap.Injection.RestoreDelay(),
	})

	a.setupHistory(snap)
	if a.histStore != nil {
		defer a.histStore.Close()
	}

	a.notifier = notify.New(true)
	a.sounds = sound.New(snap.Sounds.Enabled)

	a.service = dictation.NewService(dictation.Options{
		Config:     a.store,
		Recorder:   a.capture,
		Dispatcher: a.dispatcher,
		Inserter:   a.injector,
		History:    a.historyLog(),
		Sounds:     a.sounds,
		Events:     dictation.MultiSink(dictation.LogSink(), a.notifySink()),
		Hotkeys:    a.hotkeys.Events(),
	})

	if err := a.hotkeys.Start(); err != nil {
		return fmt.Errorf("start hotkey listener: %w", err)
	}

	slog.Info("dictation ready",
		"version", a.version,
		"push_to_talk", snap.Hotkeys.PushToTalk,
		"toggle", snap.Hotkeys.Toggle,
	)

	err = a.service.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (a *App) setupCapture(cfg config.Config) error {
	capture, err := audiocapture.New(audiocapture.Config{
		SampleRate:    cfg.Audio.SampleRate,
		Channels:      cfg.Audio.Channels,
		FrameSize:     cfg.Audio.FrameSize,
		GateThreshold: cfg.Audio.GateThreshold,
		GainTarget:    cfg.Audio.GainTarget,
		RingFrames:    cfg.Audio.RingFrames,
	})
	if err != nil {
		return fmt.Errorf("init audio capture: %w", err)
	}
	a.capture = capture
	return nil
}

// setupHotkeys registers both combinations. A conflict on one hotkey
// disables that hotkey only; the other keeps working.
func (a *App) setupHotkeys(cfg config.Config) error {
	a.hotkeys = hotkey.NewManager()

	registered := 0
	if err := a.hotkeys.Register(dictation.HotkeyPushToTalk, cfg.Hotkeys.PushToTalk); err != nil {
		slog.Error("register push-to-talk hotkey",
			"combo", cfg.Hotkeys.PushToTalk, "error", err)
	} else {
		registered++
	}
	if err := a.hotkeys.Register(dictation.HotkeyToggle, cfg.Hotkeys.Toggle); err != nil {
		slog.Error("register toggle hotkey",
			"combo", cfg.Hotkeys.Toggle, "error", err)
	} else {
		registered++
	}
	if registered == 0 {
		return fmt.Errorf("no usable hotkeys registered")
	}
	return nil
}

func (a *App) setupSTT(cfg config.Config) {
	a.registry = stt.NewRegistry()

	a.registry.Register(stt.NewWhisperAPI(stt.WhisperAPIConfig{
		APIKey:  cfg.STT.APIKey,
		BaseURL: cfg.STT.BaseURL,
		Model:   cfg.STT.Model,
	}))
	a.registry.Register(stt.NewDeepgram(stt.DeepgramConfig{
		APIKey:     cfg.STT.APIKey,
		BaseURL:    cfg.STT.BaseURL,
		SampleRate: cfg.Audio.SampleRate,
	}))

	local, err := stt.NewWhisperLocal(stt.WhisperLocalConfig{})
	if err != nil {
		slog.Info("local whisper unavailable", "error", err)
	} else {
		a.registry.Register(local)
	}
}

func (a *App) setupHistory(cfg config.Config) {
	if !cfg.History.Enabled {
		return
	}

	path := cfg.History.Path
	if path == "" {
		dir, err := config.DataDir()
		if err != nil {
			slog.Error("resolve history dir", "error", err)
			return
		}
		path = filepath.Join(dir, "history")
	}

	store, err := history.Open(path, cfg.History.TTL())
	if err != nil {
		slog.Error("open history store, continuing without", "error", err)
		return
	}
	a.histStore = store
	slog.Info("history store opened", "path", path)
}

// historyLog keeps the typed-nil pitfall out of the service's optional
// interface field.
func (a *App) historyLog() dictation.HistoryLog {
	if a.histStore == nil {
		return nil
	}
	return a.histStore
}

// notifySink surfaces only the states the user must act on. Routine
// transitions stay in the log.
func (a *App) notifySink() dictation.EventSink {
	return dictation.SinkFunc(func(ev types.StatusEvent) {
		switch ev.Status {
		case types.StatusDeviceUnavailable:
			a.notifier.Send("Microphone unavailable", "Check input device and permissions.")
		case types.StatusEngineError:
			a.notifier.Send("Transcription failed", "The recording was not converted. Try again.")
		case types.StatusInjectionFailed:
			a.notifier.Send("Could not insert text", "Click into a text field and dictate again.")
		}
	})
}
