/*
Package ports defines the driven ports (interfaces) used by the resolver and
the session registry.

These interfaces decouple session resolution from concrete backends, so the
same registry works with an in-process map, Redis, or anything else.

# Key Interfaces

  - SessionCache: persists WebSession records across requests and processes.
  - ConfigLoader: turns a config file reference into a mapping of options.
  - DistributedLocker: coordinates session registration across replicas.
*/
package ports
