// Package detection runs the highlight detector over a fetched VOD's chat
// log and audio track and persists the ranked candidate list for review.
package detection
