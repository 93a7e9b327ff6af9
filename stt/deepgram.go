package stt

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"
)

// Deepgram implements Provider over Deepgram's streaming websocket.
// The sealed buffer is streamed in fixed chunks, then the stream is
// closed and the final alternatives collected. Unlike the Whisper
// providers, Deepgram reports a real confidence score.
type Deepgram struct {
	cfg DeepgramConfig
}

// DeepgramConfig controls the Deepgram websocket session.
type DeepgramConfig struct {
	APIKey     string
	BaseURL    string // Optional, defaults to api.deepgram.com
	Model      string // Optional, defaults to nova-2
	SampleRate int    // Optional, defaults to 16000
	ChunkSize  int    // Optional bytes per frame, defaults to 4096
}

// NewDeepgram creates a new Deepgram provider.
func NewDeepgram(cfg DeepgramConfig) *Deepgram {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.deepgram.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "nova-2"
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 16000
	}
	if cfg.ChunkSize < 256 {
		cfg.ChunkSize = 4096
	}
	return &Deepgram{cfg: cfg}
}

func (d *Deepgram) Name() string        { return "deepgram" }
func (d *Deepgram) DisplayName() string { return "Deepgram" }
func (d *Deepgram) IsLocal() bool       { return false }
func (d *Deepgram) IsReady() bool       { return strings.TrimSpace(d.cfg.APIKey) != "" }
func (d *Deepgram) Close() error        { return nil }

// Transcribe streams the buffer and aggregates final results.
func (d *Deepgram) Transcribe(ctx context.Context, samples []float32, language string) (*Result, error) {
	if !d.IsReady() {
		return nil, fmt.Errorf("deepgram: API key required")
	}

	wsURL, err := d.listenURL(language)
	if err != nil {
		return nil, err
	}

	headers := http.Header{}
	headers.Set("Authorization", "Token "+d.cfg.APIKey)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, headers)
	if err != nil {
		return nil, fmt.Errorf("connect to deepgram: %w", err)
	}
	defer conn.Close()

	// Cancellation tears the connection down; the read loop then
	// returns with an error.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()

	writeErr := make(chan error, 1)
	go func() {
		writeErr <- d.sendAudio(conn, float32ToPCM16(samples))
	}()

	result, readErr := d.collectResults(conn, language)
	if err := <-writeErr; err != nil {
		return nil, err
	}
	if readErr != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, readErr
	}
	return result, nil
}

func (d *Deepgram) sendAudio(conn *websocket.Conn, pcm []byte) error {
	for off := 0; off < len(pcm); off += d.cfg.ChunkSize {
		end := off + d.cfg.ChunkSize
		if end > len(pcm) {
			end = len(pcm)
		}
		if err := conn.WriteMessage(websocket.BinaryMessage, pcm[off:end]); err != nil {
			return fmt.Errorf("send audio chunk: %w", err)
		}
	}

	closeMsg := map[string]string{"type": "CloseStream"}
	if err := conn.WriteJSON(closeMsg); err != nil {
		return fmt.Errorf("close stream: %w", err)
	}
	return nil
}

// deepgramMessage mirrors the parts of the streaming response we read.
type deepgramMessage struct {
	Type    string `json:"type"`
	IsFinal bool   `json:"is_final"`
	Channel struct {
		Alternatives []struct {
			Transcript string  `json:"transcript"`
			Confidence float64 `json:"confidence"`
		} `json:"alternatives"`
	} `json:"channel"`
}

// collectResults reads until the server finishes the stream (Metadata
// after CloseStream) and concatenates the final transcripts.
func (d *Deepgram) collectResults(conn *websocket.Conn, language string) (*Result, error) {
	var (
		parts     []string
		confSum   float64
		confCount int
		streamErr error
	)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				break
			}
			streamErr = fmt.Errorf("read deepgram message: %w", err)
			break
		}

		var msg deepgramMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue // ignore unknown frames
		}

		switch msg.Type {
		case "Results":
			if !msg.IsFinal || len(msg.Channel.Alternatives) == 0 {
				continue
			}
			alt := msg.Channel.Alternatives[0]
			if alt.Transcript == "" {
				continue
			}
			parts = append(parts, alt.Transcript)
			confSum += alt.Confidence
			confCount++
		case "Metadata":
			// Sent once the server has flushed all results.
			goto done
		}
	}

done:
	if len(parts) == 0 && streamErr != nil {
		return nil, streamErr
	}

	confidence := 0.0
	if confCount > 0 {
		confidence = confSum / float64(confCount)
	}
	return &Result{
		Text:       strings.Join(parts, " "),
		Language:   language,
		Confidence: confidence,
	}, nil
}

func (d *Deepgram) listenURL(language string) (string, error) {
	base, err := url.Parse(d.cfg.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parse deepgram base URL: %w", err)
	}

	switch base.Scheme {
	case "https":
		base.Scheme = "wss"
	case "http":
		base.Scheme = "ws"
	}
	base.Path = strings.TrimRight(base.Path, "/") + "/listen"

	q := url.Values{}
	q.Set("encoding", "linear16")
	q.Set("sample_rate", strconv.Itoa(d.cfg.SampleRate))
	q.Set("channels", "1")
	q.Set("model", d.cfg.Model)
	q.Set("punctuate", "true")
	if language != "" && language != "auto" {
		q.Set("language", language)
	}
	base.RawQuery = q.Encode()

	return base.String(), nil
}
