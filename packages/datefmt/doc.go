// Package datefmt converts .NET-style date patterns such as
// "dd.MM.yyyy HH:mm:ss.fff" into Go time layouts and provides the JSON date
// codec used for Item and Event payloads.
//
// Timestamps are exchanged as 13-digit Unix milliseconds.
package datefmt
