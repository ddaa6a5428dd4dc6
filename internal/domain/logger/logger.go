// Package logger holds the program logger.
package logger

import "postgrab/internal/utils/logging"

// Pl holds the global *ProgramLogger variable.
//
// Discards output until main replaces it.
var Pl = logging.Nop()
