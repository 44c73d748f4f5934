package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/samber/lo"

	"matchday/backend/internal/models"
)

// expoBatchLimit is the maximum number of messages Expo accepts in one
// request.
const expoBatchLimit = 100

type expoMessage struct {
	To    string         `json:"to"`
	Title string         `json:"title"`
	Body  string         `json:"body"`
	Data  map[string]any `json:"data,omitempty"`
}

// ExpoSender posts notifications to the Expo push service.
type ExpoSender struct {
	url    string
	client *http.Client
	log    *slog.Logger
}

func NewExpoSender(log *slog.Logger, url string) *ExpoSender {
	return &ExpoSender{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log.With("component", "push.expo"),
	}
}

func (s *ExpoSender) Name() string { return "expo" }

// Send delivers one notification to the user's registered Expo token.
// Users without a token are skipped.
func (s *ExpoSender) Send(ctx context.Context, user *models.User, req models.PushRequest) (bool, error) {
	if user.PushToken == "" {
		return false, nil
	}
	msg := expoMessage{
		To:    user.PushToken,
		Title: req.Title,
		Body:  req.Body,
	}
	if req.TypeTag != "" {
		msg.Data = map[string]any{"type": req.TypeTag}
	}
	return true, s.post(ctx, []expoMessage{msg})
}

// post delivers a set of messages, chunked to Expo's request limit.
func (s *ExpoSender) post(ctx context.Context, msgs []expoMessage) error {
	for _, chunk := range lo.Chunk(msgs, expoBatchLimit) {
		if err := s.postChunk(ctx, chunk); err != nil {
			return err
		}
	}
	return nil
}

func (s *ExpoSender) postChunk(ctx context.Context, msgs []expoMessage) error {
	body, err := json.Marshal(msgs)
	if err != nil {
		return fmt.Errorf("encode expo request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build expo request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("post to expo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("expo responded %d: %s", resp.StatusCode, snippet)
	}
	return nil
}
