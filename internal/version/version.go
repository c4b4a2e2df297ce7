package version

// Version is the release version, overridden at build time with
// -ldflags "-X github.com/scripturekit/bibles/internal/version.Version=...".
var Version = "1.0.0"
