/*
Package domain contains the core data model shared by the parser, the resolver
and the session registry.

It is kept free of I/O so that every other package can depend on it.

# Key Entities

  - Config: the canonical connection configuration (url, credentials, database and pass-through options).
  - WebSession: transient metadata (session token, locale, ...) persisted next to a Session in the cache.
  - NoWeb: the sentinel id selecting the deterministic, connection-derived session key.
*/
package domain
