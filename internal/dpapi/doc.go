// Package dpapi wraps the Windows Data Protection API, which the agent uses
// instead of an obfuscation key on Windows. On other platforms the codec is
// unavailable and every call returns ErrUnavailable.
package dpapi
