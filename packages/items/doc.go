// Package items is a typed client for a CRUD /api/items HTTP API.
//
// It provides:
//   - The Item record and its JSON codec, with configurable date patterns
//   - List, Create, Get, Update and Delete calls
//   - Send for raw requests whose status the caller interprets itself
//   - An error taxonomy separating unreachable servers from HTTP errors
//   - Optional JSON-schema validation of response bodies
package items
