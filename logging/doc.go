// Package logging builds the zerolog console logger used by the gbaxfer
// command and adapts it to the small Logger interface of the transfer
// packages.
package logging
