// Package incognito implements private browsing sessions.
//
// A Session keeps its history, cookies, downloads and free-form session data
// encrypted under a key that exists only in process memory. Ending the
// session clears every table, overwrites and removes the session's scratch
// directory and zeroes the key.
//
// The overwrite is best-effort: on wear-levelled flash or copy-on-write
// filesystems the old blocks may survive. It is not an erasure guarantee.
package incognito
