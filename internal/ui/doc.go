// Package ui implements the terminal view shell using bubbletea's Elm architecture.
//
// The TUI renders the same [session.Screen] as the web view:
//  1. [LoginView] : shows the authorize URL and waits for the redirect to deliver a code
//  2. [MainView] : nav header, track viewer and two lists (playlists, track URIs)
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Session calls run inside [tea.Cmd]s and report back with a fresh [session.State].
//
// Keyboard navigation uses vim-style bindings (j/k, enter, tab, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
