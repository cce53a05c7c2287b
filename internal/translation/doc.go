// Package translation dispatches translation requests to one of two
// remote backends (MyMemory or Google) and normalizes their answers
// into a single Result. It also provides optional result caching and a
// circuit breaker around each backend.
package translation
