// Package language provides the static table of supported languages
// and lookups from human-readable names to the language codes the
// translation and speech backends expect.
package language
