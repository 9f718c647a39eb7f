// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/promptpad/internal/model"
)

func ids(turns []model.Turn) []string {
	out := make([]string, len(turns))
	for i, t := range turns {
		out[i] = t.ID
	}
	return out
}

// =============================================================================
// ADD TURN TESTS
// =============================================================================

func TestAddTurn_RoleAlternation(t *testing.T) {
	tests := []struct {
		name string
		seed []model.Turn
		want model.Role
	}{
		{"empty list", nil, model.RoleAssistant},
		{"last assistant", []model.Turn{model.NewTurn(model.RoleAssistant, "a")}, model.RoleUser},
		{"last user", []model.Turn{model.NewTurn(model.RoleUser, "u")}, model.RoleAssistant},
		{"last system", []model.Turn{model.NewTurn(model.RoleSystem, "s")}, model.RoleAssistant},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := New(model.Renumber(tc.seed))

			turn, err := s.AddTurn()
			require.NoError(t, err)

			assert.Equal(t, tc.want, turn.Role)
			assert.Empty(t, turn.Content)
			assert.Equal(t, model.PositionID(len(tc.seed)), turn.ID)
			assert.Equal(t, len(tc.seed)+1, s.Len())
		})
	}
}

func TestAddTurn_AlternatesRepeatedly(t *testing.T) {
	s := New(nil)
	var roles []model.Role
	for i := 0; i < 4; i++ {
		turn, err := s.AddTurn()
		require.NoError(t, err)
		roles = append(roles, turn.Role)
	}

	assert.Equal(t, []model.Role{model.RoleAssistant, model.RoleUser, model.RoleAssistant, model.RoleUser}, roles)
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(s.Turns()))
}

// =============================================================================
// ELEMENT EDIT TESTS
// =============================================================================

func TestSetRoleAndContent_PreserveIDs(t *testing.T) {
	seed := []model.Turn{
		{ID: "7", Role: model.RoleSystem, Content: "s", Key: "k1"},
		{ID: "3", Role: model.RoleUser, Content: "u", Key: "k2"},
	}
	s := New(seed)

	ok, err := s.SetRole(1, model.RoleAssistant)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.SetContent(0, "changed")
	require.NoError(t, err)
	assert.True(t, ok)

	turns := s.Turns()
	assert.Equal(t, []string{"1", "2"}, ids(turns))
	assert.Equal(t, "k1", turns[0].Key)
	assert.Equal(t, "changed", turns[0].Content)
	assert.Equal(t, model.RoleSystem, turns[0].Role)
	assert.Equal(t, model.RoleAssistant, turns[1].Role)
	assert.Equal(t, "u", turns[1].Content)
	assert.Equal(t, "k2", turns[1].Key)
}

func TestSetRoleAndContent_OutOfRange(t *testing.T) {
	s := New(model.DefaultTurns())
	commits := 0
	s.OnCommit(func([]model.Turn) error {
		commits++
		return nil
	})
	before := s.Turns()

	for _, index := range []int{-1, 3, 100} {
		ok, err := s.SetRole(index, model.RoleUser)
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = s.SetContent(index, "x")
		require.NoError(t, err)
		assert.False(t, ok)
	}

	assert.Equal(t, before, s.Turns())
	assert.Zero(t, commits)
}

func TestSnapshotsAreIsolated(t *testing.T) {
	s := New(model.DefaultTurns())
	snapshot := s.Turns()

	_, err := s.SetContent(0, "new")
	require.NoError(t, err)

	assert.Equal(t, "some text", snapshot[0].Content)
	snapshot[1].Content = "mutated"
	assert.NotEqual(t, "mutated", s.Turns()[1].Content)
}

// =============================================================================
// REPLACE / APPEND TESTS
// =============================================================================

func TestReplaceAll_Renumbers(t *testing.T) {
	s := New(model.DefaultTurns())

	err := s.ReplaceAll([]model.Turn{
		{ID: "42", Role: model.RoleUser, Content: "a"},
		{ID: "", Role: model.RoleAssistant, Content: "b"},
		{ID: "42", Role: model.RoleUser, Content: "c"},
		{Role: model.RoleSystem, Content: ""},
	})
	require.NoError(t, err)

	turns := s.Turns()
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(turns))
	assert.Equal(t, []model.Message{
		{Role: model.RoleUser, Content: "a"},
		{Role: model.RoleAssistant, Content: "b"},
		{Role: model.RoleUser, Content: "c"},
		{Role: model.RoleSystem, Content: ""},
	}, model.CopyTransform(turns))
}

func TestReplaceAll_Empty(t *testing.T) {
	s := New(model.DefaultTurns())
	require.NoError(t, s.ReplaceAll(nil))
	assert.Zero(t, s.Len())
}

func TestAppendGenerated(t *testing.T) {
	s := New(model.DefaultTurns())

	turn, err := s.AppendGenerated("hi")
	require.NoError(t, err)

	assert.Equal(t, "4", turn.ID)
	turns := s.Turns()
	require.Len(t, turns, 4)
	assert.Equal(t, model.RoleAssistant, turns[3].Role)
	assert.Equal(t, "hi", turns[3].Content)
}

// =============================================================================
// COMMIT HOOK TESTS
// =============================================================================

func TestCommitHook_RunsOnEveryMutation(t *testing.T) {
	s := New(nil)
	var commits [][]model.Turn
	s.OnCommit(func(turns []model.Turn) error {
		commits = append(commits, turns)
		return nil
	})

	_, _ = s.AddTurn()
	_, _ = s.SetRole(0, model.RoleSystem)
	_, _ = s.SetContent(0, "x")
	_ = s.ReplaceAll([]model.Turn{{Role: model.RoleUser, Content: "y"}})
	_, _ = s.AppendGenerated("z")

	require.Len(t, commits, 5)
	last := commits[4]
	require.Len(t, last, 2)
	assert.Equal(t, "z", last[1].Content)
}

func TestCommitHook_ErrorSurfacesButKeepsChange(t *testing.T) {
	s := New(nil)
	boom := errors.New("quota exceeded")
	s.OnCommit(func([]model.Turn) error { return boom })

	_, err := s.AddTurn()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, s.Len())
}

func TestStore_ConcurrentAppends(t *testing.T) {
	s := New(nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.AppendGenerated("x")
		}()
	}
	wg.Wait()

	turns := s.Turns()
	require.Len(t, turns, 50)
	for i, turn := range turns {
		assert.Equal(t, model.PositionID(i), turn.ID)
	}
}
