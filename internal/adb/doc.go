// Package adb opens an agent database and serves decrypted reads and
// encrypted writes over it.
//
// Opening a Store moves through Closed, Opening, KeyDiscovery and Ready.
// A failure before Ready closes the engine again, so callers only ever see
// a usable Store or an error. With wraps Open and Close for callers that
// want the release guaranteed on every path.
//
// All keys are passed with their 0x01 prefix; use PrefixKey and
// TrimKeyPrefix to convert from and to display names.
package adb
