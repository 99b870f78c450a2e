// Package notifications pushes operator alerts through ntfy.
//
// Chat users get their feedback in the room; this channel exists so the
// operator hears about daemon lifecycle events and conversion failures
// without watching logs. Without a configured topic the service is a noop.
package notifications
