// Package job runs periodic maintenance tasks on River, a Postgres-native
// job queue.
//
// River elects a leader among every process connected to the same database.
// Only the leader inserts periodic jobs, so a task scheduled here runs once per
// occurrence across the whole cluster instead of once per process.
//
// # Tasks
//
// A task is any value with Name(), Schedule() and Handle(ctx) methods. No
// interface import is needed:
//
//	type PurgeTask struct{ store *ssocache.Store[string] }
//
//	func (t *PurgeTask) Name() string     { return "ssocache_purge" }
//	func (t *PurgeTask) Schedule() string { return "@every 1h" }
//	func (t *PurgeTask) Handle(ctx context.Context) error {
//	    _, err := t.store.Purge(ctx)
//	    return err
//	}
//
// Schedule accepts five-field cron expressions ("0 * * * *") and descriptors
// ("@hourly", "@every 90s").
//
// # Usage
//
//	if err := db.MigrateRiver(ctx, pool, log); err != nil {
//	    return err
//	}
//
//	manager, err := job.NewManager(pool,
//	    job.WithScheduledTask(ssocache.NewPurgeTask(store, log)),
//	    job.WithLogger(log),
//	)
//	if err != nil {
//	    return err
//	}
//
//	if err := manager.Start(ctx); err != nil {
//	    return err
//	}
//	defer manager.Stop(context.Background())
//
// # Health
//
// [Healthcheck] reports the manager as unhealthy until it is started, and
// whenever the database does not answer a ping.
package job
