// Package runstore keeps a local SQLite journal of generation runs. The
// server's history endpoint is authoritative; the journal lets the CLI answer
// "what did I run" offline and preserves runs the server has aged out.
package runstore
