// Package requestid assigns every HTTP request an ID that flows into logs
// and audit events.
package requestid
