// Package smoke runs the ordered items API smoke test.
//
// A run is a fixed sequence of steps: connectivity probe, list, create,
// read, update, delete and four negative checks (missing item on read and
// delete, malformed payload, unsupported method). Steps run one at a time;
// later steps reuse the items earlier steps created and are skipped when a
// step they depend on failed. An unreachable server aborts the run.
package smoke
