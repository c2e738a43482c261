package modes

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"foldersearch/internal/ui/input/types"
)

type NormalMode struct {
	keys types.KeyMap
}

func NewNormalMode(keys types.KeyMap) *NormalMode {
	return &NormalMode{keys: keys}
}

func (m *NormalMode) Name() string {
	return "normal"
}

func (m *NormalMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	if msg.Type == tea.KeyCtrlC {
		return []types.Action{types.QuitAction{Force: true}}, true
	}

	k := m.keys
	switch {
	case key.Matches(msg, k.Up):
		return navigate("up"), true
	case key.Matches(msg, k.Down):
		return navigate("down"), true
	case key.Matches(msg, k.PageUp):
		return navigate("pageup"), true
	case key.Matches(msg, k.PageDown):
		return navigate("pagedown"), true
	case key.Matches(msg, k.Home):
		return navigate("home"), true
	case key.Matches(msg, k.End):
		return navigate("end"), true

	case key.Matches(msg, k.Query):
		return []types.Action{types.ChangeModeAction{Mode: types.ModeQuery, Data: ctx.Query()}}, true
	case key.Matches(msg, k.StartDir):
		return []types.Action{types.ChangeModeAction{Mode: types.ModeStartDir, Data: ctx.StartDir()}}, true
	case key.Matches(msg, k.Search):
		return []types.Action{types.StartSearchAction{}}, true
	case key.Matches(msg, k.Cancel):
		if !ctx.IsRunning() {
			return nil, false
		}
		return []types.Action{types.CancelSearchAction{}}, true

	case key.Matches(msg, k.CycleMode):
		return []types.Action{types.CycleSearchModeAction{}}, true
	case key.Matches(msg, k.CaseSensitive):
		return []types.Action{types.ToggleOptionAction{Option: types.OptionCaseSensitive}}, true
	case key.Matches(msg, k.Recursive):
		return []types.Action{types.ToggleOptionAction{Option: types.OptionRecursive}}, true
	case key.Matches(msg, k.IgnoreExtension):
		return []types.Action{types.ToggleOptionAction{Option: types.OptionIgnoreExtension}}, true

	case key.Matches(msg, k.Remove):
		if path := ctx.CurrentResultPath(); path != "" {
			return []types.Action{types.RemoveResultAction{Path: path}}, true
		}
		return nil, false
	case key.Matches(msg, k.Clear):
		if ctx.TotalItems() == 0 {
			return nil, false
		}
		return []types.Action{types.ChangeModeAction{Mode: types.ModeClearConfirm}}, true
	case key.Matches(msg, k.Export):
		if ctx.TotalItems() == 0 {
			return nil, false
		}
		return []types.Action{types.ChangeModeAction{Mode: types.ModeExport}}, true
	case key.Matches(msg, k.Preview):
		// only files can be paged
		if ctx.CurrentIsFile() {
			return []types.Action{types.PreviewAction{Path: ctx.CurrentResultPath()}}, true
		}
		return nil, false
	case key.Matches(msg, k.Sort):
		return []types.Action{types.CycleSortAction{}}, true

	case key.Matches(msg, k.Help):
		return []types.Action{types.ToggleHelpAction{}}, true
	case key.Matches(msg, k.Quit):
		return []types.Action{types.QuitAction{}}, true
	}

	return nil, false
}

func navigate(direction string) []types.Action {
	return []types.Action{types.NavigateAction{Direction: direction}}
}
