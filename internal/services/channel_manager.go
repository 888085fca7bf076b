package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"

	"github.com/blsantos/InfiniteVideoWall/internal/domain/entities"
	"github.com/blsantos/InfiniteVideoWall/internal/logger"
	"github.com/blsantos/InfiniteVideoWall/internal/youtube"
)

// ChannelResolver is the adapter surface channel switching needs.
type ChannelResolver interface {
	GetChannel(ctx context.Context, channelID string) (*entities.ChannelInfo, error)
	SearchChannelByHandle(ctx context.Context, handle string) (*entities.ChannelInfo, error)
}

var (
	channelIDPattern  = regexp.MustCompile(`^UC[a-zA-Z0-9_-]{22}$`)
	channelURLPattern = regexp.MustCompile(`youtube\.com/channel/(UC[a-zA-Z0-9_-]{22})`)
)

// ChannelManager holds the active-channel configuration. It is the only
// shared mutable state in the process: swaps take the write lock,
// readers take a snapshot. Concurrent reads during a swap observe either
// the old or the new config, never a torn value.
type ChannelManager struct {
	mu      sync.RWMutex
	current entities.ChannelConfig

	host ChannelResolver
	sync *SyncService
	log  logger.Logger
}

// NewChannelManager creates a channel manager seeded with the configured
// channel.
func NewChannelManager(initial entities.ChannelConfig, host ChannelResolver, syncService *SyncService, log logger.Logger) *ChannelManager {
	if initial.URL == "" && initial.ID != "" {
		initial.URL = "https://www.youtube.com/channel/" + initial.ID
	}
	return &ChannelManager{
		current: initial,
		host:    host,
		sync:    syncService,
		log:     log,
	}
}

// Current returns a snapshot of the active channel configuration.
func (m *ChannelManager) Current() entities.ChannelConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Resolve normalizes a free-form channel reference (bare id, channel
// URL or @handle) to a channel id. Only the @handle form costs a host
// search call.
func (m *ChannelManager) Resolve(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", youtube.ErrInvalidChannelReference
	}

	if channelIDPattern.MatchString(ref) {
		return ref, nil
	}

	if match := channelURLPattern.FindStringSubmatch(ref); match != nil {
		return match[1], nil
	}

	if strings.Contains(ref, "@") {
		handle := ref
		if idx := strings.LastIndex(ref, "@"); idx >= 0 {
			handle = ref[idx+1:]
		}
		info, err := m.host.SearchChannelByHandle(ctx, handle)
		if err != nil {
			if errors.Is(err, youtube.ErrChannelNotFound) {
				return "", youtube.ErrChannelNotFound
			}
			return "", err
		}
		return info.ID, nil
	}

	return "", youtube.ErrInvalidChannelReference
}

// SwitchResult the outcome of a channel switch.
type SwitchResult struct {
	Channel entities.ChannelConfig `json:"channel"`
	Sync    entities.SyncResult    `json:"sync"`
}

// Switch resolves and verifies a channel reference, swaps the active
// configuration, and immediately reconciles against the new channel.
// In-flight requests that already snapshotted the old config finish
// against the old channel; there is no drain period.
func (m *ChannelManager) Switch(ctx context.Context, ref string) (*SwitchResult, error) {
	channelID, err := m.Resolve(ctx, ref)
	if err != nil {
		switch {
		case errors.Is(err, youtube.ErrInvalidChannelReference):
			return nil, NewValidationError("invalid_channel_reference",
				"channel reference must be a channel id, channel URL or @handle")
		case errors.Is(err, youtube.ErrChannelNotFound):
			return nil, NewNotFoundError("channel_not_found", "channel not found")
		default:
			return nil, NewExternalHostError("channel_resolve_failed",
				"resolving channel reference", youtube.NeedsReauth(err), err)
		}
	}

	info, err := m.host.GetChannel(ctx, channelID)
	if err != nil {
		if errors.Is(err, youtube.ErrChannelNotFound) {
			return nil, NewNotFoundError("channel_not_found", "channel not found")
		}
		return nil, NewExternalHostError("channel_verify_failed",
			"verifying channel", youtube.NeedsReauth(err), err)
	}

	cfg := entities.ChannelConfig{
		ID:   info.ID,
		Name: info.Title,
		URL:  "https://www.youtube.com/channel/" + info.ID,
	}

	m.mu.Lock()
	m.current = cfg
	m.mu.Unlock()

	m.log.WithFields(map[string]interface{}{
		"channelId":   cfg.ID,
		"channelName": cfg.Name,
	}).Info("active channel switched")

	syncResult, err := m.sync.SyncChannel(ctx, cfg.ID)
	if err != nil {
		// The swap already happened; report the sync failure alongside
		// the new configuration.
		return &SwitchResult{Channel: cfg, Sync: syncResult}, err
	}

	return &SwitchResult{Channel: cfg, Sync: syncResult}, nil
}
