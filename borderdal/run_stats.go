package borderdal

type ExitCode int

const (
	ExitCodeOK      ExitCode = 0
	ExitCodeWarning ExitCode = 1
	ExitCodeError   ExitCode = 2
	ExitCodeFatal   ExitCode = 3
	ExitCodeCmdline ExitCode = 4
)

// maxWarningsBeforeError is the amount of warnings a run can have before it is treated as failed
const maxWarningsBeforeError = 500

// RunStats is the bookkeeping for one extract run
type RunStats struct {
	RelationsScanned uint64
	RelationsKept    uint64
	WaysScanned      uint64
	WaysKept         uint64
	NodesScanned     uint64
	NodesKept        uint64
	LinesOutput      uint64
	WaysSkipped      uint64

	Warnings uint64
	Errors   uint64
}

func (s *RunStats) ExitCode() ExitCode {
	if s.Errors > 0 || s.Warnings > maxWarningsBeforeError {
		return ExitCodeError
	}

	if s.Warnings > 0 {
		return ExitCodeWarning
	}

	return ExitCodeOK
}
