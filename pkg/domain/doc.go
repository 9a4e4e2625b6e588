/*
Package domain contains the core domain models of the debloat tool.

It defines the read-only catalog of tweaks, the user's preferences (which options are enabled,
which categories are collapsed), the execution plan derived from them and the observable state of
a run. This package is kept pure and free of I/O; executing commands, persisting preferences and
publishing updates are the job of the adapters.

# Key Entities

  - Catalog: ordered categories, each holding ordered options with an opaque shell command.
  - Preferences: the selection map (option ID -> enabled), collapsed flags and UI theme.
  - Plan: the ordered subset of selected options, with the restore point forced first.
  - RunState: is_running, progress, total steps and the append-only log of one run.
  - Update: a message describing one atomic state change, pushed to observers.
*/
package domain
