package zpaq

import (
	"fmt"
	"strconv"

	"github.com/zpaqio/go-zpaq/native"
)

// CommandOutput holds the stdout and stderr captured from one archive tool
// invocation.
type CommandOutput struct {
	Stdout string
	Stderr string
}

// Command runs the embedded zpaq archive tool once, as if invoked on a
// command line with the given arguments (without the program name).  The
// tool's stdout and stderr are captured and returned; stale output from a
// previous invocation never leaks into the result.  A non-zero exit becomes
// an *EngineError carrying the tool's error message.
//
// The tool keeps process-wide state while running, so concurrent Command
// calls are not supported.
func Command(args ...string) (CommandOutput, error) {
	for i, a := range args {
		if err := checkNul(fmt.Sprintf("argument %d", i), a); err != nil {
			return CommandOutput{}, err
		}
	}

	native.ClearLastError()
	native.ClearLastOutput()

	argv := append([]string{"zpaq"}, args...)
	rc := native.RunJidac(argv)

	out := CommandOutput{
		Stdout: native.LastStdout(),
		Stderr: native.LastStderr(),
	}
	if rc != 0 {
		return out, native.ChannelError()
	}
	return out, nil
}

// Add updates archive with the given input files or directories.
// threads <= 0 lets the tool pick.
func Add(archive string, inputs []string, method string, threads int) (CommandOutput, error) {
	args := append([]string{"add", archive}, inputs...)
	if method != "" {
		args = append(args, "-method", method)
	}
	if threads > 0 {
		args = append(args, "-threads", strconv.Itoa(threads))
	}
	return Command(args...)
}

// Extract restores files from archive into the current directory, or only the
// named files when given.
func Extract(archive string, files ...string) (CommandOutput, error) {
	return Command(append([]string{"extract", archive}, files...)...)
}

// List reports the archive's contents on stdout.
func List(archive string, files ...string) (CommandOutput, error) {
	return Command(append([]string{"list", archive}, files...)...)
}

// AddArchiveSize runs the complete archive pipeline (dedup, journaling
// headers, compression) over a single file with the archive output discarded,
// and returns the number of bytes the resulting archive would occupy.
func AddArchiveSize(path, method string, threads int) (uint64, error) {
	if err := checkNul("path", path); err != nil {
		return 0, err
	}
	if err := checkNul("method", method); err != nil {
		return 0, err
	}
	native.ClearLastError()
	native.ClearLastOutput()
	return native.JidacAddArchiveSize(path, method, threads)
}
