package engine

import (
	"fmt"
	"path/filepath"
	"strings"
)

// resolvePaths makes the request paths absolute, fills in the default output
// path and rejects an output that would overwrite one of the inputs.
func (e *Engine) resolvePaths(req *MergeRequest) (source, target, output string, err error) {
	if strings.TrimSpace(req.SourcePath) == "" {
		return "", "", "", fmt.Errorf("%w: source path is required", ErrValidation)
	}
	if strings.TrimSpace(req.TargetPath) == "" {
		return "", "", "", fmt.Errorf("%w: target path is required", ErrValidation)
	}

	if source, err = filepath.Abs(req.SourcePath); err != nil {
		return "", "", "", fmt.Errorf("failed to resolve source path %q: %w", req.SourcePath, err)
	}
	if target, err = filepath.Abs(req.TargetPath); err != nil {
		return "", "", "", fmt.Errorf("failed to resolve target path %q: %w", req.TargetPath, err)
	}

	output = req.OutputPath
	if strings.TrimSpace(output) == "" {
		output = e.cfg.OutputPathFor(target)
	}
	if output, err = filepath.Abs(output); err != nil {
		return "", "", "", fmt.Errorf("failed to resolve output path %q: %w", req.OutputPath, err)
	}

	for _, input := range []struct{ name, path string }{{"source", source}, {"target", target}} {
		same, err := e.fs.SameFile(output, input.path)
		if err != nil {
			return "", "", "", fmt.Errorf("failed to compare output with %s: %w", input.name, err)
		}
		if same {
			return "", "", "", fmt.Errorf("%w: output path %s is the %s file", ErrValidation, output, input.name)
		}
	}

	return source, target, output, nil
}

// ensureDir creates dir and any missing parents. It returns the directories
// it created, deepest first, so a failed run can remove them again.
func (e *Engine) ensureDir(dir string) ([]string, error) {
	var missing []string
	for d := dir; ; d = filepath.Dir(d) {
		exists, err := e.fs.Exists(d)
		if err != nil {
			return nil, err
		}
		if exists {
			break
		}
		missing = append(missing, d)
		if filepath.Dir(d) == d {
			break
		}
	}
	if len(missing) == 0 {
		return nil, nil
	}
	if err := e.fs.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return missing, nil
}

// removeDirs removes directories created by ensureDir, deepest first.
func (e *Engine) removeDirs(dirs []string) {
	for _, d := range dirs {
		if err := e.fs.Remove(d); err != nil {
			e.logger.Debug("could not remove output directory", "dir", d, "err", err)
			return
		}
	}
}
