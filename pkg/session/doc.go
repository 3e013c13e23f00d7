/*
Package session keeps the live runs served by the HTTP adapter.

Runs are stored in memory under a random ID. Each run carries its own mutex,
so concurrent requests against the same run are serialized while different
runs proceed in parallel. Nothing is persisted: run state lives only as long
as the Manager.
*/
package session
