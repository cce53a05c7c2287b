// Package cli provides the command-line interface of linguasphere. It
// handles flag parsing, command creation and configuration management
// using cobra and viper, and wires the translation, speech and flashcard
// components into a session for each command.
package cli
