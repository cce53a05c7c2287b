// Package session keeps the state of one interactive user: the last
// translation and the flashcards generated from it that are not saved yet.
// All UI shells (CLI, HTTP) drive the core through a Session.
package session
