// Package catalogcache is a read-through cache for catalog responses. It
// wraps a musicbrainz.Source, persisting release and recording payloads in a
// local SQLite database so repeated match attempts against the same albums
// skip the network and its rate limit. Entries expire after a configurable
// TTL; a file lock keeps concurrent cadence processes from opening the
// database for writing at the same time.
package catalogcache
