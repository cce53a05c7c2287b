// Package server exposes a Session over a small JSON HTTP API built on echo.
package server
