// Package ingest feeds device status observations into a cache.
//
// The cache itself never talks to a data source; it only receives
// (id, status) updates. This package provides the collaborator on the
// other side of that contract: a Redis pub/sub source that subscribes to
// a heartbeat channel and forwards each observation to a Sink.
package ingest
