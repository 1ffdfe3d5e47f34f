package sh2pc

// Version is populated at build time via ldflags:
//
//	go build -ldflags "-X github.com/coinbase/mpc-touchpoint-go/pkg/sh2pc.Version=v0.3.0"
var Version = "v0.0.0-in-progress"

// WrapperVersion returns the module version. In development it defaults to
// v0.0.0-in-progress.
func WrapperVersion() string {
	return Version
}
