package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/tabbridge/internal/application/usecase"
	"github.com/bnema/tabbridge/internal/domain/entity"
	"github.com/bnema/tabbridge/internal/infrastructure/host/memory"
	"github.com/bnema/tabbridge/internal/infrastructure/policy"
)

func TestWindowStore_AddWindowIsIdempotent(t *testing.T) {
	h := memory.New()
	w := h.Seed(memory.WindowSpec{Tabs: []memory.TabSpec{{URL: "a"}, {URL: "b"}}})
	s := usecase.NewWindowStore(policy.Default{})

	id, created := s.AddWindow(w)
	require.True(t, created)
	again, created := s.AddWindow(w)
	assert.False(t, created)
	assert.Equal(t, id, again)

	d, err := s.Details(id)
	require.NoError(t, err)
	assert.Len(t, d.Tabs, 2)
}

func TestWindowStore_DetailsAreCopies(t *testing.T) {
	h := memory.New()
	w := h.Seed(memory.WindowSpec{Tabs: []memory.TabSpec{{URL: "a"}}})
	s := usecase.NewWindowStore(policy.Default{})
	id, _ := s.AddWindow(w)

	d, err := s.Details(id)
	require.NoError(t, err)
	d.Tabs[0].URL = "mutated"
	d.Width = 1

	again, err := s.Details(id)
	require.NoError(t, err)
	assert.Equal(t, "a", again.Tabs[0].URL)
	assert.NotEqual(t, 1, again.Width)
}

func TestWindowStore_DestroyedWindowIsNotFound(t *testing.T) {
	h := memory.New()
	w := h.Seed(memory.WindowSpec{})
	s := usecase.NewWindowStore(policy.Default{})
	id, _ := s.AddWindow(w)
	_, err := s.Details(id)
	require.NoError(t, err)

	h.CloseWindow(w)

	_, err = s.Details(id)
	require.ErrorIs(t, err, entity.ErrNotFound)
	assert.False(t, s.HasWindow(id))

	_, ok := s.RetireWindow(id)
	assert.True(t, ok)
	_, ok = s.RetireWindow(id)
	assert.False(t, ok)
}

func TestWindowStore_AddDestroyedWindowIsRejected(t *testing.T) {
	h := memory.New()
	w := h.Seed(memory.WindowSpec{Tabs: []memory.TabSpec{{URL: "a"}}})
	s := usecase.NewWindowStore(policy.Default{})
	h.CloseWindow(w)

	id, created := s.AddWindow(w)
	assert.False(t, created)
	assert.Equal(t, entity.WindowIDNone, id)
	_, ok := s.LookupWindow(w)
	assert.False(t, ok)
}

func TestWindowStore_MergeIsPartial(t *testing.T) {
	h := memory.New()
	w := h.Seed(memory.WindowSpec{Bounds: entity.Bounds{Width: 100, Height: 100}})
	s := usecase.NewWindowStore(policy.Default{})
	id, _ := s.AddWindow(w)
	_, err := s.Details(id)
	require.NoError(t, err)

	// live state moves on without the cache noticing
	require.NoError(t, h.Move(w, entity.Bounds{Width: 300, Height: 300}))

	before, after, err := s.Merge(id, func(d *entity.WindowDetails) { d.State = entity.WindowStateMinimized })
	require.NoError(t, err)
	assert.Equal(t, entity.WindowStateNormal, before.State)
	assert.Equal(t, entity.WindowStateMinimized, after.State)
	assert.Equal(t, 100, after.Width, "merge must not rebuild")

	fresh, err := s.Recompute(id)
	require.NoError(t, err)
	assert.Equal(t, 300, fresh.Width)
	assert.Equal(t, entity.WindowStateNormal, fresh.State)
}

func TestWindowStore_RetireOrphansTabs(t *testing.T) {
	h := memory.New()
	w := h.Seed(memory.WindowSpec{Tabs: []memory.TabSpec{{URL: "a"}, {URL: "b"}}})
	s := usecase.NewWindowStore(policy.Default{})
	id, _ := s.AddWindow(w)

	tid, ok := s.LookupTab(w.Tab(0))
	require.True(t, ok)
	owner, ok := s.TabOwner(tid)
	require.True(t, ok)
	assert.Equal(t, id, owner)

	tabs, ok := s.RetireWindow(id)
	require.True(t, ok)
	assert.Len(t, tabs, 2)

	_, err := s.TabDetails(tid)
	require.ErrorIs(t, err, entity.ErrNotFound)
	_, ok = s.TabOwner(tid)
	assert.False(t, ok)
}

func TestWindowStore_TabOwnedElsewhereIsExcluded(t *testing.T) {
	h := memory.New()
	a := h.Seed(memory.WindowSpec{Tabs: []memory.TabSpec{{URL: "shared"}}})
	b := h.Seed(memory.WindowSpec{})
	s := usecase.NewWindowStore(policy.Default{})
	aID, _ := s.AddWindow(a)
	bID, _ := s.AddWindow(b)

	// the tab is re-parented to b in the registry but the host still lists it under a
	s.AddTab(bID, a.Tab(0))

	d, err := s.Recompute(aID)
	require.NoError(t, err)
	assert.Empty(t, d.Tabs)
}
