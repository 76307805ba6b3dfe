// Package jar implements the browser cookie store.
//
// A Jar holds cookies keyed by domain and then by name. Both levels keep
// insertion order so that CookiesForURL and CookieHeaderFor are
// deterministic. Matching is deliberately naive: the request host and every
// parent obtained by stripping the leftmost label are looked up verbatim, no
// public-suffix list is consulted.
//
// Cookie values pass through a Codec before they are stored. The default
// PlainCodec stores them as-is; the private session plugs in an AEAD codec so
// the very same store keeps only ciphertext in memory.
//
// Malformed input (bad dates, bad header segments, bad serialized jars) is
// logged and skipped. Cookie values are never logged.
package jar
