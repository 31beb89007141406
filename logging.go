// logging.go - the driver's diagnostic channel. Plain stdlib log, the
// only logging idiom the retrieved corpus uses anywhere.

package main

import "log"

func logf(format string, args ...any) {
	log.Printf(format, args...)
}
