// Package sqlite persists documents, chats, messages and votes in one
// SQLite database using modernc.org/sqlite, so builds need no cgo.
//
// Store hands out the DocumentStore, ChatStore, MessageStore and VoteStore
// views over a shared *sql.DB. The schema lives in migrations/ as numbered
// up/down pairs applied on open.
//
// Each document version is its own row keyed by (id, version). SaveVersion
// inserts only when the expected version is still the newest one and
// reports domain.ErrVersionConflict otherwise, which lets the services
// retry a read-modify-write cycle that lost a race.
//
// The database defaults to ~/.habitplan/data/habitplan.db and runs in WAL
// mode with a busy timeout, so one process may serve HTTP while another
// runs CLI commands.
package sqlite
