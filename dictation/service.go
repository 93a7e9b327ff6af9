// Package dictation coordinates a recording from hotkey press to
// injected text. A single control goroutine owns the session state
// machine; hotkey events, audio frames, and transcription results all
// arrive over channels, and the loop never blocks on I/O itself.
package dictation

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/JagadeeshAjjada/speech-to-text-desktop-application/audiocapture"
	"github.com/JagadeeshAjjada/speech-to-text-desktop-application/config"
	"github.com/JagadeeshAjjada/speech-to-text-desktop-application/history"
	"github.com/JagadeeshAjjada/speech-to-text-desktop-application/hotkey"
	"github.com/JagadeeshAjjada/speech-to-text-desktop-application/internal/types"
	"github.com/JagadeeshAjjada/speech-to-text-desktop-application/sound"
	"github.com/JagadeeshAjjada/speech-to-text-desktop-application/textproc"
)

// Hotkey action names used when registering with the hotkey manager.
const (
	HotkeyPushToTalk = "push_to_talk"
	HotkeyToggle     = "toggle"
)

// silencePollInterval is how often an active toggle session is checked
// for the silence timeout.
const silencePollInterval = 250 * time.Millisecond

// Recorder is the microphone capture surface the service drives.
type Recorder interface {
	Start() error
	Stop() error
	Frames() <-chan audiocapture.Frame
	SampleRate() int
}

// Inserter places processed text into the focused application.
type Inserter interface {
	Insert(p types.ProcessedText) error
}

// HistoryLog records completed dictations. Optional.
type HistoryLog interface {
	Append(e history.Entry) (history.Entry, error)
}

// CuePlayer plays short audio cues. Optional.
type CuePlayer interface {
	Play(cue sound.Cue)
}

// ConfigSource yields an immutable configuration snapshot. The service
// reads one snapshot per session, at arm time.
type ConfigSource interface {
	Snapshot() config.Config
}

// Options wires a Service.
type Options struct {
	Config     ConfigSource
	Recorder   Recorder
	Dispatcher *Dispatcher
	Inserter   Inserter
	History    HistoryLog
	Sounds     CuePlayer
	Events     EventSink
	Hotkeys    <-chan hotkey.Event
}

// sealedInfo remembers what the service needs about the most recently
// dispatched session after the session itself is gone.
type sealedInfo struct {
	id       uint64
	cfg      config.Config
	duration time.Duration
}

// Service runs the dictation control loop.
type Service struct {
	cfgSource  ConfigSource
	recorder   Recorder
	dispatcher *Dispatcher
	inserter   Inserter
	histLog    HistoryLog
	sounds     CuePlayer
	sink       EventSink
	hotkeys    <-chan hotkey.Event

	// Loop-owned state. Only the Run goroutine touches these.
	cur      *session
	nextID   uint64
	sealed   *sealedInfo
	maxTimer *time.Timer
}

// NewService creates the control loop from its collaborators.
func NewService(opts Options) *Service {
	sink := opts.Events
	if sink == nil {
		sink = LogSink()
	}
	return &Service{
		cfgSource:  opts.Config,
		recorder:   opts.Recorder,
		dispatcher: opts.Dispatcher,
		inserter:   opts.Inserter,
		histLog:    opts.History,
		sounds:     opts.Sounds,
		sink:       sink,
		hotkeys:    opts.Hotkeys,
	}
}

// Run drives the state machine until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	s.maxTimer = time.NewTimer(time.Hour)
	if !s.maxTimer.Stop() {
		<-s.maxTimer.C
	}

	silenceTick := time.NewTicker(silencePollInterval)
	defer silenceTick.Stop()

	s.publish(types.StatusIdle, 0, "")

	for {
		select {
		case <-ctx.Done():
			s.shutdown()
			return ctx.Err()

		case ev, ok := <-s.hotkeys:
			if !ok {
				s.shutdown()
				return nil
			}
			s.handleHotkey(ev)

		case f := <-s.recorder.Frames():
			s.handleFrame(f)

		case <-s.maxTimer.C:
			if s.cur.active() {
				slog.Info("max recording duration reached", "session_id", s.cur.id)
				s.seal()
			}

		case <-silenceTick.C:
			s.checkSilence()

		case res, ok := <-s.dispatcher.Results():
			if !ok {
				s.shutdown()
				return nil
			}
			s.handleResult(res)
		}
	}
}

func (s *Service) handleHotkey(ev hotkey.Event) {
	switch ev.Name {
	case HotkeyPushToTalk:
		if ev.Kind == hotkey.Pressed {
			s.startSession(config.ModePushToTalk)
			return
		}
		if s.cur.active() && s.cur.mode == config.ModePushToTalk {
			s.seal()
		}

	case HotkeyToggle:
		if ev.Kind != hotkey.Pressed {
			return
		}
		if s.cur.active() {
			if s.cur.mode == config.ModeToggle {
				s.seal()
			} else {
				slog.Info("ignoring toggle while push-to-talk is active")
			}
			return
		}
		s.startSession(config.ModeToggle)

	default:
		slog.Warn("unknown hotkey action", "name", ev.Name)
	}
}

// startSession arms capture for a new recording. Exactly one session
// may be active at a time; a start request during an active session is
// ignored, not queued.
func (s *Service) startSession(mode config.Mode) {
	if s.cur != nil {
		slog.Info("ignoring hotkey, session already in progress",
			"session_id", s.cur.id, "state", string(s.cur.state))
		return
	}

	cfg := s.cfgSource.Snapshot()
	sess := &session{
		mode:      mode,
		state:     StateArming,
		cfg:       cfg,
		startedAt: time.Now(),
	}

	if err := s.recorder.Start(); err != nil {
		sess.state = StateCancelled
		slog.Error("failed to open input device", "error", err)
		s.publish(types.StatusDeviceUnavailable, 0, err.Error())
		s.playCue(sound.CueError)
		return
	}

	s.nextID++
	sess.id = s.nextID
	sess.buffer = NewAudioBuffer(s.recorder.SampleRate())
	sess.lastFrameAt = sess.startedAt
	sess.state = StateActive
	s.cur = sess

	s.maxTimer.Reset(cfg.Recording.MaxDuration())
	s.publish(types.StatusRecording, sess.id, string(mode))
	s.playCue(sound.CueStart)
}

func (s *Service) handleFrame(f audiocapture.Frame) {
	if !s.cur.active() {
		// Device callbacks can trail the stop; drop quietly.
		return
	}
	if err := s.cur.buffer.Append(f.Samples); err != nil {
		slog.Warn("dropping frame", "error", err)
		return
	}
	s.cur.lastFrameAt = time.Now()
}

// checkSilence auto-stops a toggle session when no voiced frames have
// arrived for the configured window. The noise gate drops silent
// frames upstream, so an empty channel is the silence signal.
func (s *Service) checkSilence() {
	if !s.cur.active() || s.cur.mode != config.ModeToggle {
		return
	}
	timeout := s.cur.cfg.Recording.SilenceTimeout()
	if timeout <= 0 {
		return
	}
	if time.Since(s.cur.lastFrameAt) >= timeout {
		slog.Info("silence timeout, stopping recording", "session_id", s.cur.id)
		s.seal()
	}
}

// seal freezes the current buffer and hands it to the dispatcher. The
// loop returns to Idle immediately; recording can restart while the
// transcription is still in flight.
func (s *Service) seal() {
	sess := s.cur
	if !sess.active() {
		return
	}
	sess.state = StateSealing

	if !s.maxTimer.Stop() {
		select {
		case <-s.maxTimer.C:
		default:
		}
	}
	if err := s.recorder.Stop(); err != nil {
		slog.Warn("failed to close input device", "error", err)
	}
	s.drainFrames(sess)
	sess.buffer.Seal()
	s.cur = nil
	s.playCue(sound.CueStop)

	if sess.buffer.Duration() < sess.cfg.Recording.MinDuration() {
		slog.Info("discarding recording below minimum duration",
			"session_id", sess.id, "duration", sess.buffer.Duration())
		s.publish(types.StatusIdle, sess.id, "")
		return
	}

	s.sealed = &sealedInfo{
		id:       sess.id,
		cfg:      sess.cfg,
		duration: sess.buffer.Duration(),
	}
	s.dispatcher.Submit(sess.buffer, sess.id, sess.cfg.STT.Language)
	s.publish(types.StatusTranscribing, sess.id, "")
}

// drainFrames pulls frames already queued before the device stopped.
func (s *Service) drainFrames(sess *session) {
	for {
		select {
		case f := <-s.recorder.Frames():
			if err := sess.buffer.Append(f.Samples); err != nil {
				return
			}
		default:
			return
		}
	}
}

// handleResult applies the stale-result guard and, for the newest
// session, hands post-processing and injection to a worker so the loop
// stays responsive.
func (s *Service) handleResult(res Result) {
	if res.SessionID < s.nextID {
		slog.Info("discarding stale transcription result",
			"session_id", res.SessionID, "current", s.nextID)
		return
	}

	if res.Err != nil {
		if errors.Is(res.Err, context.Canceled) {
			slog.Debug("transcription cancelled", "session_id", res.SessionID)
			return
		}
		slog.Error("transcription failed", "session_id", res.SessionID, "error", res.Err)
		s.publish(types.StatusEngineError, res.SessionID, res.Err.Error())
		s.playCue(sound.CueError)
		s.publish(types.StatusIdle, res.SessionID, "")
		return
	}

	info := s.sealed
	if info == nil || info.id != res.SessionID {
		// Cannot happen while the guard above holds; be safe anyway.
		slog.Warn("result without sealed session", "session_id", res.SessionID)
		return
	}

	go s.finishSession(info, res)
}

// finishSession runs off the control loop: post-processing, injection,
// and the history append. Injection is serialized by the injector.
func (s *Service) finishSession(info *sealedInfo, res Result) {
	lang := res.Language
	if lang == "" {
		lang = textproc.DetectLanguage(res.Text)
	}
	target := info.cfg.Post.TargetLanguage
	if target == "" {
		target = lang
	}

	processed := textproc.Process(res.Text, textproc.Options{
		AutoCapitalize:    info.cfg.Post.AutoCapitalize,
		AutoPunctuate:     info.cfg.Post.AutoPunctuate,
		RemoveFillers:     info.cfg.Post.RemoveFillers,
		FillerWords:       info.cfg.Post.FillerWords,
		TargetLanguage:    target,
		KeystrokeMaxChars: info.cfg.Injection.KeystrokeMaxChars,
	})
	if processed.Text == "" {
		slog.Info("empty transcription, nothing to insert", "session_id", res.SessionID)
		s.publish(types.StatusIdle, res.SessionID, "")
		return
	}

	if err := s.inserter.Insert(processed); err != nil {
		slog.Error("text insertion failed", "session_id", res.SessionID, "error", err)
		s.publish(types.StatusInjectionFailed, res.SessionID, err.Error())
		s.playCue(sound.CueError)
		return
	}

	if s.histLog != nil && info.cfg.History.Enabled {
		_, err := s.histLog.Append(history.Entry{
			Text:       processed.Text,
			Language:   lang,
			Confidence: res.Confidence,
			Duration:   info.duration,
		})
		if err != nil {
			slog.Warn("failed to record dictation history", "error", err)
		}
	}

	s.publish(types.StatusIdle, res.SessionID, "")
}

// shutdown closes an in-flight recording when the loop exits.
func (s *Service) shutdown() {
	if s.cur != nil && (s.cur.state == StateActive || s.cur.state == StateArming) {
		if err := s.recorder.Stop(); err != nil {
			slog.Warn("failed to close input device", "error", err)
		}
		s.cur = nil
	}
}

func (s *Service) publish(status types.Status, sessionID uint64, detail string) {
	s.sink.Publish(types.StatusEvent{
		Status:    status,
		SessionID: sessionID,
		Detail:    detail,
		Time:      time.Now(),
	})
}

func (s *Service) playCue(cue sound.Cue) {
	if s.sounds != nil {
		s.sounds.Play(cue)
	}
}
