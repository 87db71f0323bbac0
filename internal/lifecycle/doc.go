// Package lifecycle drives a generation run from submission to a terminal
// state. The controller owns at most one status poller and one log stream at
// a time; starting or regenerating while a watch is active tears the old one
// down first. Polling the status endpoint is authoritative for completion;
// the log stream only adds commentary.
package lifecycle
