package stylesheet

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/LegacyCodeHQ/stylegraph/depgraph/langsupport"
	"github.com/LegacyCodeHQ/stylegraph/depgraph/resolve"
)

// ErrNoCompiler is returned for a style whose dialect has no compiler.
var ErrNoCompiler = errors.New("no compiler for dialect")

// Compiler turns one style file into plain CSS.
type Compiler func(ctx context.Context, path string) (string, error)

// Compilers maps each dialect to its compiler.
type Compilers map[langsupport.Dialect]Compiler

// DefaultCompilers reads plain CSS as-is. Other dialects need a configured
// compiler.
func DefaultCompilers(fsys resolve.FileSystem) Compilers {
	return Compilers{langsupport.DialectCSS: ReadCompiler(fsys)}
}

// ReadCompiler returns the file contents unchanged.
func ReadCompiler(fsys resolve.FileSystem) Compiler {
	if fsys == nil {
		fsys = resolve.OSFileSystem{}
	}
	return func(_ context.Context, path string) (string, error) {
		data, err := fsys.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", path, err)
		}
		return string(data), nil
	}
}

// CommandCompiler runs an external program and returns its stdout. The
// literal argument "{path}" is replaced by the style path; when no argument
// contains it the path is appended.
func CommandCompiler(name string, args ...string) Compiler {
	return func(ctx context.Context, path string) (string, error) {
		argv := make([]string, 0, len(args)+1)
		substituted := false
		for _, arg := range args {
			if strings.Contains(arg, "{path}") {
				arg = strings.ReplaceAll(arg, "{path}", path)
				substituted = true
			}
			argv = append(argv, arg)
		}
		if !substituted {
			argv = append(argv, path)
		}

		cmd := exec.CommandContext(ctx, name, argv...)
		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
		if err := cmd.Run(); err != nil {
			if msg := strings.TrimSpace(stderr.String()); msg != "" {
				return "", fmt.Errorf("%s failed for %s: %w: %s", name, path, err, msg)
			}
			return "", fmt.Errorf("%s failed for %s: %w", name, path, err)
		}
		return stdout.String(), nil
	}
}

// ParseCommand splits a command line on whitespace into a CommandCompiler.
func ParseCommand(line string) (Compiler, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty compiler command")
	}
	return CommandCompiler(fields[0], fields[1:]...), nil
}

// For returns the compiler registered for path's dialect.
func (c Compilers) For(path string) (Compiler, error) {
	dialect := langsupport.DialectForPath(path)
	compiler, ok := c[dialect]
	if !ok || compiler == nil {
		return nil, fmt.Errorf("%w %s: %s", ErrNoCompiler, dialect, path)
	}
	return compiler, nil
}
