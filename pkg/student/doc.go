// Package student is the persistence layer of the student registry.
//
// A Student is a flat record with a numeric id assigned at creation time from
// the current time in milliseconds. Stores implement the Store interface:
//
//   - MemoryStore keeps records in process memory.
//   - FileStore keeps a {"students": [...]} JSON document on disk, created on
//     first read.
//   - BoltStore keeps one bbolt key per student.
//   - S3Store keeps the same JSON document as FileStore in an S3 object.
//
// Every store is safe for concurrent use. Traced wraps any store with
// OpenTelemetry spans.
package student
