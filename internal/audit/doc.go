// Package audit defines the audit event model and the sinks that receive
// emitted events. Dispatching is coordinated by the root package.
package audit
