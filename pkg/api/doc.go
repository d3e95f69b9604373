// Package api exposes the entitlement engine over HTTP with chi.
//
// Every response is a JSON envelope {"data": ..., "error": {"code", "message"}}.
// Business refusals from /v1/authorize are data (200 with allowed=false);
// error statuses are kept for malformed requests, missing rights on the
// management routes and failing infrastructure (503).
package api
