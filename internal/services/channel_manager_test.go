package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blsantos/InfiniteVideoWall/internal/domain/entities"
	"github.com/blsantos/InfiniteVideoWall/internal/logger"
	"github.com/blsantos/InfiniteVideoWall/internal/youtube"
)

const (
	testChannelID  = "UCabcdefghijklmnopqrstuv"
	otherChannelID = "UCzyxwvutsrqponmlkjihgfe"
)

// fakeResolver scripts channel lookups and counts search calls.
type fakeResolver struct {
	mu          sync.Mutex
	channels    map[string]*entities.ChannelInfo
	handles     map[string]*entities.ChannelInfo
	searchCalls int
}

func (r *fakeResolver) GetChannel(ctx context.Context, channelID string) (*entities.ChannelInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	info, ok := r.channels[channelID]
	if !ok {
		return nil, youtube.ErrChannelNotFound
	}
	return info, nil
}

func (r *fakeResolver) SearchChannelByHandle(ctx context.Context, handle string) (*entities.ChannelInfo, error) {
	r.mu.Lock()
	r.searchCalls++
	r.mu.Unlock()
	info, ok := r.handles[handle]
	if !ok {
		return nil, youtube.ErrChannelNotFound
	}
	return info, nil
}

func newManagerFixture() (*ChannelManager, *fakeResolver, *fakeVideoRepo) {
	resolver := &fakeResolver{
		channels: map[string]*entities.ChannelInfo{
			testChannelID:  {ID: testChannelID, Title: "Canal Principal"},
			otherChannelID: {ID: otherChannelID, Title: "Canal Novo"},
		},
		handles: map[string]*entities.ChannelInfo{
			"canalnovo": {ID: otherChannelID, Title: "Canal Novo"},
		},
	}
	repo := newFakeVideoRepo()
	lister := &fakeLister{videos: []entities.RemoteVideo{remote("vid00000001", "Relato")}}
	syncService := NewSyncService(lister, repo, &recordingPublisher{}, logger.NewNop())
	manager := NewChannelManager(
		entities.ChannelConfig{ID: testChannelID, Name: "Canal Principal"},
		resolver, syncService, logger.NewNop(),
	)
	return manager, resolver, repo
}

func TestResolveDirectIDWithoutSearch(t *testing.T) {
	manager, resolver, _ := newManagerFixture()

	id, err := manager.Resolve(context.Background(), otherChannelID)
	require.NoError(t, err)
	assert.Equal(t, otherChannelID, id)
	assert.Zero(t, resolver.searchCalls)
}

func TestResolveChannelURL(t *testing.T) {
	manager, resolver, _ := newManagerFixture()

	id, err := manager.Resolve(context.Background(), "https://www.youtube.com/channel/"+otherChannelID+"?view=videos")
	require.NoError(t, err)
	assert.Equal(t, otherChannelID, id)
	assert.Zero(t, resolver.searchCalls)
}

func TestResolveHandleCostsOneSearch(t *testing.T) {
	manager, resolver, _ := newManagerFixture()

	for _, ref := range []string{"@canalnovo", "https://www.youtube.com/@canalnovo"} {
		resolver.searchCalls = 0
		id, err := manager.Resolve(context.Background(), ref)
		require.NoError(t, err, ref)
		assert.Equal(t, otherChannelID, id, ref)
		assert.Equal(t, 1, resolver.searchCalls, ref)
	}
}

func TestResolveInvalidReference(t *testing.T) {
	manager, _, _ := newManagerFixture()

	for _, ref := range []string{"", "   ", "not-a-channel", "UCshort"} {
		_, err := manager.Resolve(context.Background(), ref)
		assert.ErrorIs(t, err, youtube.ErrInvalidChannelReference, ref)
	}
}

func TestResolveUnknownHandle(t *testing.T) {
	manager, _, _ := newManagerFixture()

	_, err := manager.Resolve(context.Background(), "@desconhecido")
	assert.ErrorIs(t, err, youtube.ErrChannelNotFound)
}

func TestSwitchSwapsAndSyncs(t *testing.T) {
	manager, _, repo := newManagerFixture()

	result, err := manager.Switch(context.Background(), "@canalnovo")
	require.NoError(t, err)

	assert.Equal(t, otherChannelID, result.Channel.ID)
	assert.Equal(t, "Canal Novo", result.Channel.Name)
	assert.Equal(t, 1, result.Sync.Synced)

	current := manager.Current()
	assert.Equal(t, otherChannelID, current.ID)
	assert.Equal(t, "https://www.youtube.com/channel/"+otherChannelID, current.URL)

	videos, err := repo.FindAll(entities.VideoFilters{})
	require.NoError(t, err)
	assert.Len(t, videos, 1)
}

func TestSwitchUnknownChannelKeepsCurrent(t *testing.T) {
	manager, _, _ := newManagerFixture()

	_, err := manager.Switch(context.Background(), "UC0000000000000000000000")
	require.Error(t, err)

	serviceErr, ok := err.(*ServiceError)
	require.True(t, ok)
	assert.Equal(t, ErrTypeNotFound, serviceErr.Type)

	assert.Equal(t, testChannelID, manager.Current().ID)
}

func TestCurrentNeverTornDuringSwitch(t *testing.T) {
	manager, _, _ := newManagerFixture()

	known := map[string]string{
		testChannelID:  "Canal Principal",
		otherChannelID: "Canal Novo",
	}

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			cfg := manager.Current()
			name, ok := known[cfg.ID]
			assert.True(t, ok)
			assert.Equal(t, name, cfg.Name)
		}
	}()

	for i := 0; i < 20; i++ {
		ref := otherChannelID
		if i%2 == 1 {
			ref = testChannelID
		}
		_, err := manager.Switch(context.Background(), ref)
		require.NoError(t, err)
	}
	close(stop)
	wg.Wait()
}
