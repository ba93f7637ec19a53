package realtime

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
)

type (
	// MessageStore is the REST collaborator the chat adapter writes through in
	// parallel with realtime sends. The realtime channel and the store are
	// independent round trips with no ordering between them.
	MessageStore interface {
		SaveMessage(ctx context.Context, athleteID, mealID string, msg ChatMessage) error
		SaveApproval(ctx context.Context, athleteID, mealID string, approved bool) error
	}

	// httpMessageStore persists chat traffic through the coaching API.
	httpMessageStore struct {
		base   string
		client *http.Client
		creds  TokenSource
	}
)

// NewHTTPMessageStore returns a MessageStore talking to the coaching REST API
// rooted at base, authenticating with the same credential source as the
// realtime connection.
func NewHTTPMessageStore(base string, creds TokenSource) MessageStore {
	return &httpMessageStore{
		base:   base,
		creds:  creds,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *httpMessageStore) SaveMessage(
	ctx context.Context,
	athleteID, mealID string,
	msg ChatMessage,
) error {
	body := map[string]any{
		"athleteId": athleteID,
		"content":   msg.Content,
		"senderId":  msg.SenderID,
	}
	return s.post(ctx, fmt.Sprintf("%s/meals/%s/messages", s.base, mealID), body)
}

func (s *httpMessageStore) SaveApproval(
	ctx context.Context,
	athleteID, mealID string,
	approved bool,
) error {
	body := map[string]any{
		"athleteId": athleteID,
		"approved":  approved,
	}
	return s.post(ctx, fmt.Sprintf("%s/meals/%s/approvals", s.base, mealID), body)
}

func (s *httpMessageStore) post(ctx context.Context, uri string, body any) error {
	bts, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "cannot serialize request body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uri, bytes.NewReader(bts))
	if err != nil {
		return errors.Wrap(err, "cannot build request")
	}
	req.Header.Set("Content-Type", "application/json")

	token, err := s.creds.Token(ctx)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "POST %s", uri)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errors.Errorf("POST %s: unexpected status %d: %s", uri, resp.StatusCode, msg)
	}
	return nil
}
