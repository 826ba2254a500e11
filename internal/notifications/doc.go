// Package notifications pushes workflow events to an ntfy topic. When no
// topic is configured every notification is a no-op, so callers never need to
// guard their calls. Per-event toggles in the config silence categories
// without removing the topic.
package notifications
