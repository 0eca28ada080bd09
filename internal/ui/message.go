package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tracklist/internal/session"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgCodeReceived MsgKind = iota
	MsgStateLoaded
)

type codeResult struct {
	code string
	err  error
}

// codeReceivedMsg is the constructor for [MsgCodeReceived]
func codeReceivedMsg(code string, err error) Msg {
	return Msg{kind: MsgCodeReceived, data: codeResult{code, err}}
}

// stateLoadedMsg is the constructor for [MsgStateLoaded]
func stateLoadedMsg(state session.State) Msg {
	return Msg{kind: MsgStateLoaded, data: state}
}
