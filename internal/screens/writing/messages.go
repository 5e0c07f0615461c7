package writing

import (
	tea "charm.land/bubbletea/v2"
)

// stateChangedMsg is delivered after the machine signals a change. from
// identifies the subscription, so a message from a closed screen is ignored.
type stateChangedMsg struct {
	from <-chan struct{}
}

// opDoneMsg carries the result of a blocking machine call.
type opDoneMsg struct {
	Op  string
	Err error
}

// waitForChange blocks until the machine signals. It yields nil once the
// channel is closed, which ends the listen loop.
func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return stateChangedMsg{from: ch}
	}
}
