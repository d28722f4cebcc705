// Package memory provides minimal local conversation persistence.
//
// Persistence model:
//   - Only text messages are stored (role + text). Action blocks are transient.
//   - The platform session ID is stored so restarts resume the same
//     server-side conversation; the platform owns the canonical history.
package memory
