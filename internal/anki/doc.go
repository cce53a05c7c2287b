// Package anki exports saved flashcards as an Anki CSV import file or as a
// self-contained .apkg package.
package anki
