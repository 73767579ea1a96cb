/*
Package watch revalidates Sysmon configurations whenever they change on disk.

A Session watches the schema manifest and one or more configuration files
with fsnotify, debounces editor write bursts, and runs validation after each
quiet period. An optional cron schedule forces periodic revalidation even
without file events, which covers network mounts where change notification
is unreliable. Results are delivered through a callback and exported as
Prometheus metrics when a metrics listen address is configured.

Usage:

	session, err := watch.NewSession(&watch.SessionConfig{
		SchemaPath:  "sysmonschema.xml",
		ConfigPaths: []string{"sysmon.xml"},
	}, nil)
	if err != nil {
		return err
	}
	session.OnResult = func(res *watch.Result) { ... }
	err = session.Run(ctx)
*/
package watch
