// Package captures persists pending-capture records in the local SQLite
// queue. Rows are keyed by the client-generated local id and indexed by
// status and capture time; each row's lifecycle is independent, so no
// multi-row transactional guarantees are offered.
package captures
