// Package slicing cuts approved highlight candidates out of the source VOD
// as standalone clip files, applying pre/post roll and clip length limits.
package slicing
