/*
Package types defines the data model shared by the listing engine, the
network/SMB pipeline, and the sync-status probe: FileEntry, the listing
sort/paging vocabulary, NetworkHost, ShareListResult, KnownNetworkShare,
and SyncStatus. See spec §3 for the invariant each type carries (e.g.
FileEntry.Size is absent for directories and permission-denied entries).
*/
package types
