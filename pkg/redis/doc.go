// Package redis bootstraps the Redis client used for cached usage counts.
//
// The access engine only uses Redis on display paths: the quota package
// wraps a database counter in a short-TTL cache so dashboards do not hit
// COUNT queries on every render. Admission decisions never read the cache,
// so this package stays a thin connection layer.
//
// # Usage
//
//	var cfg redis.Config
//	if err := env.Parse(&cfg); err != nil {
//	    panic(err)
//	}
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    panic(err)
//	}
//	defer client.Close()
//
//	cached := quota.CachedCounter(client, plans.QuotaProjects, cfg.CountCacheTTL, usage.CountProjects)
//
// Connect retries with a fixed interval until the server answers PING or
// the configured timeout expires. Healthcheck returns a probe function
// suitable for readiness endpoints.
package redis
