package driver

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/juju/errors"

	"github.com/mqss-project/qdmi-go/internal/qlog"
	"github.com/mqss-project/qdmi-go/qdmi"
)

// DefaultConfigName is the configuration file name looked up in the
// current working directory when QDMI_CONF is unset.
const DefaultConfigName = "qdmi.conf"

// ConfigEnvVar is the environment variable that overrides the
// configuration file path.
const ConfigEnvVar = "QDMI_CONF"

// ConfigEntry is one parsed, allow-list-checked line of the configuration
// file: a plugin library path and the access mode it should be loaded
// with.
type ConfigEntry struct {
	LibPath string
	Mode    qdmi.AccessMode
}

// ConfigPath resolves the configuration file path: the QDMI_CONF
// environment variable if set, otherwise DefaultConfigName in the current
// working directory.
func ConfigPath() string {
	if p := os.Getenv(ConfigEnvVar); p != "" {
		return p
	}
	return DefaultConfigName
}

// ParseConfigFile reads and parses the configuration file at path.
//
// Each non-blank, non-comment line has the form "<library-path>
// <mode-keyword>". Comment lines start with '#'. Unknown mode keywords
// produce a warning (logged, not returned as an error) and the line is
// skipped. Every library path is resolved against the allow-list in
// resolveAllowedPath before being accepted.
func ParseConfigFile(path string) ([]ConfigEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Annotatef(err, "could not open QDMI configuration %q", path)
	}
	defer f.Close()

	var entries []ConfigEntry
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 2 {
			qlog.L.Warnf("qdmi.conf:%d: expected \"<path> <mode>\", got %q; skipping", lineNo, line)
			continue
		}

		var mode qdmi.AccessMode
		switch fields[1] {
		case "read_only":
			mode = qdmi.ModeReadOnly
		case "read_write":
			mode = qdmi.ModeReadWrite
		default:
			qlog.L.Warnf("qdmi.conf:%d: unknown mode keyword %q; skipping", lineNo, fields[1])
			continue
		}

		resolved, err := resolveAllowedPath(fields[0])
		if err != nil {
			qlog.L.Warnf("qdmi.conf:%d: %v; skipping", lineNo, err)
			continue
		}

		entries = append(entries, ConfigEntry{LibPath: resolved, Mode: mode})
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Annotatef(err, "could not read QDMI configuration %q", path)
	}

	return entries, nil
}

// resolveAllowedPath resolves p to an absolute path and rejects it unless
// it falls under the current working directory or the user's home
// directory, since a single mis-configured QDMI_CONF line should not be
// able to dlopen an arbitrary system library.
func resolveAllowedPath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", errors.Annotatef(err, "could not resolve path %q", p)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.Annotate(err, "could not determine current working directory")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}

	if withinRoot(abs, cwd) || (home != "" && withinRoot(abs, home)) {
		return abs, nil
	}

	return "", fmt.Errorf("path %q is outside the allowed roots (cwd, home)", p)
}

func withinRoot(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
