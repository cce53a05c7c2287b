// Package speech renders text to an audio file through a text-to-speech
// provider (Google translate_tts, OpenAI or a local espeak-ng).
package speech
