/*
Package session implements preference persistence orchestration for debloat sessions.

It serializes concurrent access to a session's stored preferences within a process
(reference-counted mutexes) and, optionally, across replicas through a distributed locker.
*/
package session
