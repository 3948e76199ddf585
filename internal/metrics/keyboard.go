package metrics

import "github.com/uxbench/uxbench/internal/event"

// processKeyboard copies the producer's running mode-switch, shortcut and
// typing summary.
func processKeyboard(st *State, ev event.Keyboard) {
	m := &st.Report.Metrics

	keyboardStreak := ev.LongestKeyboardStreak
	mouseStreak := ev.LongestMouseStreak
	m.ContextSwitches.Total = ev.SwitchesTotal
	m.ContextSwitches.Ratio = ev.SwitchRatio
	m.ContextSwitches.LongestKeyboardStreak = &keyboardStreak
	m.ContextSwitches.LongestMouseStreak = &mouseStreak

	m.ShortcutCoverage.ShortcutsUsed = ev.ShortcutsUsed

	m.TypingRatio.FreeTextInputs = ev.FreeTextInputs
	m.TypingRatio.ConstrainedInputs = ev.ConstrainedInputs
	m.TypingRatio.Ratio = ev.TypingRatio
	m.TypingRatio.FreeTextFields = append([]string{}, ev.FreeTextFieldLabels...)
}
