// Package flashcard builds word-pair flashcards from a translation and keeps
// them in a single JSON file. Cards are identified by their position in the
// file, so deleting one shifts every later index down by one.
package flashcard
