// Package discovery works out which obfuscation key protects a database.
//
// Candidates are tried in order, first success wins:
//   - Sentinel probe: the reserved sentinel record decrypts to sixteen zero
//     bytes under the right key, which confirms a candidate immediately
//   - Full scan: otherwise a candidate is accepted when every value in the
//     database decrypts with valid padding
//
// The scan is probabilistic. A wrong key passes the padding check about once
// in 256 values, so a single-record database may be misidentified and an
// empty one accepts the first candidate.
package discovery
