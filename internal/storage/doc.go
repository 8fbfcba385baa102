// Package storage provides the raw sorted key/value engines behind an
// agent database.
//
// Two engines implement Engine:
//   - LevelDB: the agent's own on-disk format (adb and udb directories),
//     opened without compression and without creating missing databases
//   - Bolt: a single-file BBolt snapshot holding raw, still-encrypted
//     records plus snapshot metadata
//
// Engines never see plaintext. Keys and values passed to ForEach callbacks
// are only valid for the duration of the callback.
package storage
