package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// AccountInfo is the mirror view of an account.
type AccountInfo struct {
	AccountID string `json:"account"`
	PublicKey string `json:"public_key,omitempty"`
	Balance   int64  `json:"balance"`
	Deleted   bool   `json:"deleted"`
}

// TokenBalance is one token position of an account.
type TokenBalance struct {
	TokenID string `json:"token_id"`
	Balance int64  `json:"balance"`
}

// TopicMessage is one message of a topic, in consensus order.
type TopicMessage struct {
	SequenceNumber int64  `json:"sequence_number"`
	Contents       string `json:"message"`
	ConsensusTime  string `json:"consensus_timestamp"`
}

// MirrorClient is a read-only REST client for a mirror query service. It is
// purely informational; nothing here mutates ledger state.
type MirrorClient struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

// NewMirrorClient creates a client for the mirror service at baseURL.
func NewMirrorClient(baseURL string, logger zerolog.Logger) *MirrorClient {
	return &MirrorClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		logger:  logger.With().Str("component", "mirror-client").Logger(),
	}
}

// AccountInfo fetches account metadata and balance by id.
func (m *MirrorClient) AccountInfo(ctx context.Context, accountID string) (*AccountInfo, error) {
	var info AccountInfo
	path := "/api/v1/accounts/" + url.PathEscape(accountID)
	if err := m.get(ctx, path, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// TokenBalances fetches the token positions of an account.
func (m *MirrorClient) TokenBalances(ctx context.Context, accountID string) ([]TokenBalance, error) {
	var payload struct {
		Tokens []TokenBalance `json:"tokens"`
	}
	path := "/api/v1/accounts/" + url.PathEscape(accountID) + "/tokens"
	if err := m.get(ctx, path, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Tokens, nil
}

// TopicMessages fetches up to limit messages of a topic in consensus order.
func (m *MirrorClient) TopicMessages(ctx context.Context, topicID string, limit int) ([]TopicMessage, error) {
	var payload struct {
		Messages []TopicMessage `json:"messages"`
	}
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	path := "/api/v1/topics/" + url.PathEscape(topicID) + "/messages"
	if err := m.get(ctx, path, query, &payload); err != nil {
		return nil, err
	}
	return payload.Messages, nil
}

func (m *MirrorClient) get(ctx context.Context, path string, query url.Values, out any) error {
	u := m.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build mirror request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("mirror request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("mirror: %s not found", path)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("mirror returned status %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode mirror response: %w", err)
	}

	m.logger.Debug().Str("path", path).Msg("Mirror query complete")
	return nil
}
