package runner

import (
	"io"

	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("opp")

var logFormat = logging.MustStringFormatter(
	"%{time:15:04:05} %{level:.4s} %{shortfile} %{message}",
)

// setupLogging routes every opp logger to w. Verbose lowers the level to
// DEBUG, quiet raises it to ERROR.
func setupLogging(w io.Writer, verbose, quiet bool) {
	backend := logging.NewBackendFormatter(logging.NewLogBackend(w, "", 0), logFormat)
	leveled := logging.AddModuleLevel(backend)

	level := logging.WARNING
	switch {
	case quiet:
		level = logging.ERROR
	case verbose:
		level = logging.DEBUG
	}
	leveled.SetLevel(level, "")
	logging.SetBackend(leveled)
}
