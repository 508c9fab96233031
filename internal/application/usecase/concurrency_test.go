package usecase_test

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/tabbridge/internal/application/usecase"
	"github.com/bnema/tabbridge/internal/domain/entity"
)

func TestHostObserver_ConcurrentCallersKeepPerWindowOrder(t *testing.T) {
	b := newBridge(t, nil)
	ctx, cancel := context.WithCancel(b.ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = b.observer.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	const n = 6
	doomed := make([]entity.WindowDetails, n)
	for i := range n {
		d, err := b.uc.Create(ctx, usecase.CreateWindowInput{
			Caller: background(),
			Data:   entity.CreateWindowData{Left: intp(10 * i), Width: intp(300 + i)},
		})
		require.NoError(t, err)
		doomed[i] = d
	}

	var wg sync.WaitGroup
	for _, want := range doomed {
		id := want.ID
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, b.uc.Remove(ctx, usecase.RemoveWindowInput{Caller: background(), WindowID: &id}))
		}()
		go func() {
			defer wg.Done()
			for range 25 {
				d, err := b.uc.Get(ctx, usecase.GetWindowInput{Caller: background(), WindowID: id})
				if !assert.NoError(t, err) {
					return
				}
				if d.IsStub() {
					continue
				}
				assert.Equal(t, id, d.ID)
				assert.Equal(t, want.Bounds(), d.Bounds())
			}
		}()
	}

	fresh := make(chan entity.WindowID, n)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := b.uc.Create(ctx, usecase.CreateWindowInput{Caller: background()})
			if !assert.NoError(t, err) {
				return
			}
			fresh <- d.ID
			w, err := b.store.Window(d.ID)
			if !assert.NoError(t, err) {
				return
			}
			assert.NoError(t, b.host.Focus(ctx, w))
		}()
	}
	wg.Wait()
	close(fresh)

	var events []entity.Event
	require.Eventually(t, func() bool {
		events = append(events, b.events()...)
		return len(named(events, entity.EventWindowRemoved)) == n &&
			len(named(events, entity.EventWindowFocusChanged)) >= n
	}, 2*time.Second, 5*time.Millisecond)

	byWindow := make(map[entity.WindowID][]entity.EventName)
	var seq uint64
	for _, ev := range events {
		assert.Greater(t, ev.Seq, seq)
		seq = ev.Seq
		byWindow[ev.WindowID] = append(byWindow[ev.WindowID], ev.Name)
	}

	for _, d := range doomed {
		names := byWindow[d.ID]
		require.NotEmpty(t, names, "window %s", d.ID)
		assert.Equal(t, entity.EventWindowCreated, names[0], "window %s", d.ID)
		assert.Equal(t, entity.EventWindowRemoved, names[len(names)-1], "window %s", d.ID)
		removed := slices.DeleteFunc(slices.Clone(names), func(name entity.EventName) bool {
			return name != entity.EventWindowRemoved
		})
		assert.Len(t, removed, 1, "window %s", d.ID)
	}
	for id := range fresh {
		names := byWindow[id]
		require.NotEmpty(t, names, "window %s", id)
		assert.Equal(t, entity.EventWindowCreated, names[0], "window %s", id)
		assert.Contains(t, names, entity.EventWindowFocusChanged, "window %s", id)
		assert.NotContains(t, names, entity.EventWindowRemoved, "window %s", id)
	}
}
