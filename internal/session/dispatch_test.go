// SPDX-License-Identifier: MIT

package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchUnknownEvent(t *testing.T) {
	s, _, _ := newTestSession()
	for _, ev := range []Event{
		{Target: TargetNav, Action: ActionClick},
		{Target: "footer", Action: ActionSelect},
		{},
	} {
		assert.ErrorIs(t, s.Dispatch(context.Background(), ev), ErrUnknownEvent)
	}
}

func TestDispatchBrowseFlow(t *testing.T) {
	s, gw, v := newTestSession()
	ctx := context.Background()
	gw.lists["trending"][0].BookID = "41000201"

	require.NoError(t, s.Dispatch(ctx, Event{Target: TargetNav, Action: ActionSelect, Value: "home"}))
	require.NoError(t, s.Dispatch(ctx, Event{Target: TargetHero, Action: ActionPlay}))
	assert.Equal(t, "41000201", s.State().CurrentDrama.ID())

	require.NoError(t, s.Dispatch(ctx, Event{Target: TargetDetail, Action: ActionWatch}))
	assert.Equal(t, ModePlayerOpen, s.State().Mode)

	require.NoError(t, s.Dispatch(ctx, Event{Target: TargetBackdrop, Action: ActionClick}))
	assert.Equal(t, ModeDetailOpen, s.State().Mode)

	require.NoError(t, s.Dispatch(ctx, Event{Target: TargetDetail, Action: ActionEpisode, Index: 1}))
	require.NoError(t, s.Dispatch(ctx, Event{Target: TargetPlayer, Action: ActionClose}))
	require.NoError(t, s.Dispatch(ctx, Event{Target: TargetDetail, Action: ActionClose}))
	assert.Equal(t, ModeCatalog, s.State().Mode)

	require.NoError(t, s.Dispatch(ctx, Event{Target: TargetNav, Action: ActionSelect, Value: "dub-indo"}))
	assert.Equal(t, SectionDub, s.State().ActiveSection)
	assert.Equal(t, 20, v.gridLen(ContainerDub))
}

func TestDispatchGridSelect(t *testing.T) {
	s, gw, _ := newTestSession()
	ctx := context.Background()
	gw.lists["latest"][4].BookID = "41000202"
	require.NoError(t, s.Start(ctx))

	require.NoError(t, s.Dispatch(ctx, Event{Target: TargetGrid, Action: ActionSelect, Container: ContainerLatest, Index: 4}))
	assert.Equal(t, "41000202", s.State().CurrentDrama.ID())

	err := s.Dispatch(ctx, Event{Target: TargetGrid, Action: ActionSelect, Container: ContainerVIP, Index: 0})
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestDispatchSearchAndHeroWithoutData(t *testing.T) {
	s, gw, v := newTestSession()
	ctx := context.Background()

	require.NoError(t, s.Dispatch(ctx, Event{Target: TargetHero, Action: ActionPlay}))
	assert.Empty(t, v.snapshotLog())

	require.NoError(t, s.Dispatch(ctx, Event{Target: TargetSearch, Action: ActionSubmit, Value: "ceo"}))
	assert.Equal(t, 1, gw.count("search"))
}
