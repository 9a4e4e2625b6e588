/*
Package debloat applies a curated catalog of system tweaks as one best-effort run.

A run takes the options the user selected, moves the restore point to the front,
and executes each option's command in order through a shell. Step failures are
recorded in the run log and never stop the run. Progress and log lines are pushed
to observers as each step completes.

# Usage

	eng, err := debloat.New()
	if err != nil {
		log.Fatal(err)
	}

	sess, err := eng.Session(ctx, "default")
	if err != nil {
		log.Fatal(err)
	}

	// Flip a tweak, then run synchronously.
	_, _ = sess.ToggleOption(ctx, "disable_ipv6")
	sess.Run(ctx)

	view := sess.View()
	fmt.Println(view.Run.Progress, view.Run.Log)

The catalog, executor, journal and preference store are injected with options
(WithCatalog, WithExecutor, WithJournal, WithStore). Adapters for HTTP (with SSE),
MCP, Redis and the filesystem live under pkg/adapters.
*/
package debloat
