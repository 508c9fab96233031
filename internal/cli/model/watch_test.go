package model

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/tabbridge/internal/cli/styles"
	"github.com/bnema/tabbridge/internal/domain/entity"
	"github.com/bnema/tabbridge/internal/infrastructure/rpc"
)

type fakeLister struct {
	windows []entity.WindowDetails
	err     error
}

func (f *fakeLister) GetAll(context.Context) ([]entity.WindowDetails, error) {
	return f.windows, f.err
}

func newTestWatch(lister WindowLister, events chan rpc.EventFrame) WatchModel {
	return NewWatchModel(context.Background(), styles.NewTheme(), WatchModelConfig{
		Lister:       lister,
		Events:       events,
		RecentEvents: 3,
	})
}

func TestWatchModel_LoadWindows(t *testing.T) {
	lister := &fakeLister{windows: []entity.WindowDetails{
		{ID: 1, Width: 800, Height: 600, State: entity.WindowStateNormal, Type: entity.WindowTypeNormal},
		{ID: 2, Focused: true, State: entity.WindowStateMaximized, Type: entity.WindowTypeNormal},
	}}
	m := newTestWatch(lister, nil)

	msg := m.loadWindows()
	updated, cmd := m.Update(msg)
	assert.Nil(t, cmd)

	wm := updated.(WatchModel)
	require.Len(t, wm.windows, 2)
	assert.Len(t, wm.table.Rows(), 2)
	assert.Contains(t, wm.View(), "2 windows")
}

func TestWatchModel_LoadError(t *testing.T) {
	m := newTestWatch(&fakeLister{err: errors.New("connection refused")}, nil)

	updated, _ := m.Update(m.loadWindows())
	assert.Contains(t, updated.(WatchModel).View(), "connection refused")
}

func TestWatchModel_EventsKeepMostRecent(t *testing.T) {
	events := make(chan rpc.EventFrame, 8)
	m := newTestWatch(&fakeLister{}, events)

	for i := 1; i <= 5; i++ {
		events <- rpc.EventFrame{
			Seq:  uint64(i),
			Name: entity.EventWindowCreated,
			Args: []json.RawMessage{json.RawMessage(fmt.Sprintf(`{"id":%d}`, i))},
		}
		msg := m.waitForEvent()
		require.IsType(t, eventMsg{}, msg)
		next, cmd := m.Update(msg)
		assert.NotNil(t, cmd, "each event re-arms the stream and refreshes windows")
		m = next.(WatchModel)
	}

	require.Len(t, m.recent, 3)
	assert.Equal(t, uint64(3), m.recent[0].Seq)
	assert.Equal(t, uint64(5), m.recent[2].Seq)
	assert.Contains(t, m.View(), "windows.onCreated")
}

func TestWatchModel_StreamClosed(t *testing.T) {
	events := make(chan rpc.EventFrame)
	close(events)
	m := newTestWatch(&fakeLister{}, events)

	msg := m.waitForEvent()
	require.IsType(t, streamClosedMsg{}, msg)
	next, _ := m.Update(msg)
	assert.Contains(t, next.(WatchModel).View(), "stream closed")
}

func TestWatchModel_Quit(t *testing.T) {
	m := newTestWatch(&fakeLister{}, nil)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
