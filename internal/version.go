package internal

// Version is the release version, overridden at build time with
// -ldflags "-X codeberg.org/snonux/linguasphere/internal.Version=..."
var Version = "0.3.0"
