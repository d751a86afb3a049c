// Package health serves liveness and readiness probes for the cache service.
//
// Readiness runs a set of named [Checks] concurrently under one timeout and
// reports 503 if any of them fails. Liveness answers OK as long as the
// process serves HTTP.
//
//	checks := health.Checks{
//	    "postgres": db.Healthcheck(pool),
//	    "jobs":     job.Healthcheck(manager),
//	}
//	r := chi.NewRouter()
//	r.Mount("/health", health.Routes(checks, health.WithLogger(log)))
//
// Responses are plain text ("OK", "Service Unavailable") unless the client
// sends Accept: application/json or ?format=json:
//
//	{
//	  "status": "unhealthy",
//	  "checks": {
//	    "postgres": {"status": "healthy", "latency": "1.2ms"},
//	    "redis": {"status": "unhealthy", "error": "connection refused", "latency": "3s"}
//	  }
//	}
package health
