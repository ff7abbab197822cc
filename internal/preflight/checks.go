package preflight

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"mchsplit/internal/services"
	"mchsplit/internal/source"
)

// ValidateSource confirms path names a readable regular file. Failures are
// configuration errors.
func ValidateSource(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return services.Wrap(services.ErrConfiguration, "preflight", "validate source",
				fmt.Sprintf("cheat database %s not found; place cheats.xml next to the tool or pass --source", path), err)
		}
		return services.Wrap(services.ErrConfiguration, "preflight", "validate source", "stat cheat database", err)
	}
	if !info.Mode().IsRegular() {
		return services.Wrap(services.ErrConfiguration, "preflight", "validate source",
			fmt.Sprintf("cheat database %s is not a regular file", path), nil)
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return services.Wrap(services.ErrConfiguration, "preflight", "validate source",
			fmt.Sprintf("cheat database %s is not readable", path), err)
	}
	return nil
}

// CheckSourceReadable reports whether the cheat database can be opened and
// which codec it is stored with.
func CheckSourceReadable(path string) Result {
	const name = "Cheat database"
	if err := ValidateSource(path); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	codec, err := source.Stat(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (readable, %s)", path, codec)}
}

// ValidateOutput refuses an output directory that is, or contains, the
// directory holding the cheat database. Both paths are resolved through
// symlinks first; the output directory is removed at the start of every run.
func ValidateOutput(sourcePath, outputDir string) error {
	srcDir, err := resolvePath(filepath.Dir(sourcePath))
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "preflight", "validate output", "resolve source directory", err)
	}
	out, err := resolvePath(outputDir)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "preflight", "validate output", "resolve output directory", err)
	}
	if within(out, srcDir) {
		return services.Wrap(services.ErrConfiguration, "preflight", "validate output",
			fmt.Sprintf("output directory %s holds the cheat database %s and would be cleared; pick a dedicated directory", outputDir, sourcePath), nil)
	}
	return nil
}

// CheckOutputTarget checks the output directory when it exists, otherwise
// its nearest existing ancestor, since the run creates it. An output
// directory that would swallow the cheat database fails.
func CheckOutputTarget(sourcePath, path string) Result {
	const name = "Output directory"
	if err := ValidateOutput(sourcePath, path); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	return checkCreatable(name, path)
}

func checkCreatable(name, path string) Result {
	if _, err := os.Stat(path); err == nil {
		return CheckDirectoryAccess(name, path)
	}
	ancestor := nearestExisting(filepath.Dir(path))
	result := CheckDirectoryAccess(name, ancestor)
	if result.Passed {
		result.Detail = fmt.Sprintf("%s (will be created under %s)", path, ancestor)
	}
	return result
}

// CheckParentWritable verifies that the directory holding path can be
// written, creating nothing.
func CheckParentWritable(name, path string) Result {
	parent := nearestExisting(filepath.Dir(path))
	result := CheckDirectoryAccess(name, parent)
	if result.Passed {
		result.Detail = fmt.Sprintf("%s (writable)", path)
	}
	return result
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

func nearestExisting(dir string) string {
	for {
		if _, err := os.Stat(dir); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}

// resolvePath makes path absolute and resolves symlinks in its longest
// existing prefix. The missing remainder is appended unchanged.
func resolvePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	existing := nearestExisting(abs)
	resolved, err := filepath.EvalSymlinks(existing)
	if err != nil {
		return "", err
	}
	rest, err := filepath.Rel(existing, abs)
	if err != nil {
		return "", err
	}
	return filepath.Join(resolved, rest), nil
}

// within reports whether path is root or lies beneath it.
func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
