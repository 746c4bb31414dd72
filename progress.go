package ebook2pdf

// Level is the severity of a progress line.
type Level int

// Level constants, in increasing severity.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
	LevelCritical
)

// Code returns the four-letter tag written in front of every line.
func (l Level) Code() string {
	switch l {
	case LevelDebug:
		return "DEBU"
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARN"
	case LevelError:
		return "ERRO"
	case LevelCritical:
		return "CRIT"
	}
	return "????"
}

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	case LevelCritical:
		return "CRITICAL"
	}
	return "UNKNOWN"
}

// Progress receives leveled status lines from every stage of a job.
// Emit never fails; delivery problems are handled by the implementation.
type Progress interface {
	Emit(level Level, message string)
}

// LiveChannel is the client connection of one job.
// Messages are delivered in call order.
type LiveChannel interface {
	// SendLog sends one rendered progress line.
	SendLog(line string) error

	// SendFile sends the finished artifact.
	SendFile(filename string, data []byte) error

	// SendError sends the terminal, user-safe error message.
	SendError(message string) error
}
