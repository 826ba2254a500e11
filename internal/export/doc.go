// Package export renders subtitled clips into the configured platform
// presets (vertical crop, encode settings) and files them in the library.
package export
