/*
Package session keeps live sessions to the remote server and decides, for
every request, whether to reuse one, refresh it, or build a new one.

A Registry is owned by the hosting service: build it once at startup and
hand it to request handlers.

	registry := session.NewRegistry(redis.NewFromClient(client))

	s, err := registry.RetrieveSession(ctx, cfg, domain.NoWeb, nil)
	if err != nil {
		return err
	}
	// ... authenticate s.Connection, fill s's web session ...
	err = registry.RegisterSession(ctx, s)

Sessions are keyed either by an external id (usually the browser session id)
or, for the domain.NoWeb id, by the connection identity (url, database,
username). Web session metadata is mirrored into a ports.SessionCache so it
outlives the process.
*/
package session
