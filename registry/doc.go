/*
Package registry maps store types to the functions that open them.

Each backend registers itself once, usually from an init function:

	registry.RegisterBackend("sqlite", func(ctx context.Context, sc config.StoreConfig, env registry.Env) (meta.Metadata, error) {
	    return sqlite.Open(sc.Path, sqlite.WithRegistry(env.Registry), sqlite.WithRootID(sc.RootID))
	})

The assembly looks up the type of every configured store:

	open, err := registry.GetBackend(sc.Type)

The registry is thread-safe and should be populated during initialization.
Registering a type twice panics.
*/
package registry
