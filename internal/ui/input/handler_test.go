package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foldersearch/internal/domain"
	"foldersearch/internal/ui/input/types"
	"foldersearch/internal/ui/state"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newContext() *ModelContext {
	s := state.NewAppState()
	s.Query = "old"
	s.StartDir = "/data"
	return &ModelContext{State: s}
}

func TestQueryModeRoundTrip(t *testing.T) {
	h := New()
	ctx := newContext()

	actions, _ := h.HandleKey(keyRunes("/"), ctx)
	require.Len(t, actions, 0)
	assert.Equal(t, types.ModeQuery, h.CurrentMode())
	assert.Equal(t, "Search for: ", h.Prompt())
	require.NotNil(t, h.TextInput())
	assert.Equal(t, "old", h.TextInput().Value())

	actions, _ = h.HandleKey(keyRunes("x"), ctx)
	require.Len(t, actions, 1)
	assert.Equal(t, types.UpdateTextAction{Text: "oldx"}, actions[0])

	actions, _ = h.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}, ctx)
	assert.Equal(t, []types.Action{types.SubmitTextAction{Text: "oldx", Mode: types.ModeQuery}}, actions)
	assert.Equal(t, types.ModeNormal, h.CurrentMode())
	assert.Nil(t, h.TextInput())
}

func TestEscCancelsTextMode(t *testing.T) {
	h := New()
	ctx := newContext()

	h.HandleKey(keyRunes("o"), ctx)
	assert.Equal(t, types.ModeStartDir, h.CurrentMode())
	assert.Equal(t, "/data", h.TextInput().Value())

	actions, _ := h.HandleKey(tea.KeyMsg{Type: tea.KeyEsc}, ctx)
	assert.Equal(t, []types.Action{types.CancelTextAction{}}, actions)
	assert.Equal(t, types.ModeNormal, h.CurrentMode())
}

func TestNormalModeGuards(t *testing.T) {
	h := New()
	ctx := newContext()

	// nothing listed: clear, export, remove and preview are ignored
	for _, k := range []string{"C", "x", "d", "v"} {
		actions, _ := h.HandleKey(keyRunes(k), ctx)
		assert.Empty(t, actions, k)
		assert.Equal(t, types.ModeNormal, h.CurrentMode(), k)
	}

	// esc only cancels a running search
	actions, _ := h.HandleKey(tea.KeyMsg{Type: tea.KeyEsc}, ctx)
	assert.Empty(t, actions)
	ctx.State.RunState = domain.RunRunning
	actions, _ = h.HandleKey(tea.KeyMsg{Type: tea.KeyEsc}, ctx)
	assert.Equal(t, []types.Action{types.CancelSearchAction{}}, actions)
}

func TestResultKeys(t *testing.T) {
	h := New()
	ctx := newContext()
	ctx.State.AddResult(domain.MatchResult{Path: "/data/dir", Kind: domain.KindFolder, SizeBytes: domain.NoSize})
	ctx.State.AddResult(domain.MatchResult{Path: "/data/a.txt", Kind: domain.KindFile})

	actions, _ := h.HandleKey(keyRunes("d"), ctx)
	assert.Equal(t, []types.Action{types.RemoveResultAction{Path: "/data/dir"}}, actions)

	// folders cannot be previewed
	actions, _ = h.HandleKey(keyRunes("v"), ctx)
	assert.Empty(t, actions)

	ctx.State.SelectedIndex = 1
	actions, _ = h.HandleKey(keyRunes("v"), ctx)
	assert.Equal(t, []types.Action{types.PreviewAction{Path: "/data/a.txt"}}, actions)
}

func TestClearConfirm(t *testing.T) {
	h := New()
	ctx := newContext()
	ctx.State.AddResult(domain.MatchResult{Path: "/data/a.txt"})

	h.HandleKey(keyRunes("C"), ctx)
	assert.Equal(t, types.ModeClearConfirm, h.CurrentMode())

	// other keys are swallowed
	actions, _ := h.HandleKey(keyRunes("q"), ctx)
	assert.Empty(t, actions)
	assert.Equal(t, types.ModeClearConfirm, h.CurrentMode())

	actions, _ = h.HandleKey(keyRunes("y"), ctx)
	assert.Equal(t, []types.Action{types.ClearResultsAction{}}, actions)
	assert.Equal(t, types.ModeNormal, h.CurrentMode())

	h.HandleKey(keyRunes("C"), ctx)
	actions, _ = h.HandleKey(keyRunes("n"), ctx)
	assert.Empty(t, actions)
	assert.Equal(t, types.ModeNormal, h.CurrentMode())
}

func TestToggles(t *testing.T) {
	h := New()
	ctx := newContext()

	tests := map[string]types.Action{
		"c": types.ToggleOptionAction{Option: types.OptionCaseSensitive},
		"r": types.ToggleOptionAction{Option: types.OptionRecursive},
		"e": types.ToggleOptionAction{Option: types.OptionIgnoreExtension},
		"s": types.CycleSortAction{},
		"?": types.ToggleHelpAction{},
		"q": types.QuitAction{},
		"j": types.NavigateAction{Direction: "down"},
		"G": types.NavigateAction{Direction: "end"},
	}
	for k, want := range tests {
		actions, _ := h.HandleKey(keyRunes(k), ctx)
		assert.Equal(t, []types.Action{want}, actions, k)
	}

	actions, _ := h.HandleKey(tea.KeyMsg{Type: tea.KeyTab}, ctx)
	assert.Equal(t, []types.Action{types.CycleSearchModeAction{}}, actions)
	actions, _ = h.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}, ctx)
	assert.Equal(t, []types.Action{types.StartSearchAction{}}, actions)
	actions, _ = h.HandleKey(tea.KeyMsg{Type: tea.KeyCtrlC}, ctx)
	assert.Equal(t, []types.Action{types.QuitAction{Force: true}}, actions)
}
