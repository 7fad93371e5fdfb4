package params

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/kvanta-io/dbexec/pkg/dbexec"
)

// ParsePairs converts "name=value" strings into a map.
func ParsePairs(pairs []string) (map[string]string, error) {
	result := make(map[string]string, len(pairs))

	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("parameter %q is not in name=value format (example: --param tenant=acme)", pair)
		}
		if name == "" {
			return nil, fmt.Errorf("parameter has empty name: %q", pair)
		}
		result[name] = value
	}

	return result, nil
}

// ParseEnvFile parses .env-format content: KEY=VALUE lines, # comments,
// blank lines ignored, optional single or double quotes around the value.
func ParseEnvFile(content []byte) (map[string]string, error) {
	result := make(map[string]string)
	scanner := bufio.NewScanner(bytes.NewReader(content))
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		name, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("line %d: invalid format, expected KEY=VALUE", lineNum)
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if name == "" {
			return nil, fmt.Errorf("line %d: empty key", lineNum)
		}

		if len(value) >= 2 {
			if (strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`)) ||
				(strings.HasPrefix(value, "'") && strings.HasSuffix(value, "'")) {
				value = value[1 : len(value)-1]
			}
		}

		result[name] = value
	}

	return result, scanner.Err()
}

// Build merges defaults, parameter files and flag pairs into a set.
// Later sources override earlier ones; names sort deterministically so the
// bind order is stable across runs.
func Build(defaults map[string]string, filePaths []string, flagPairs []string) (*dbexec.ParameterSet, error) {
	merged := make(map[string]string, len(defaults))
	for name, value := range defaults {
		merged[name] = value
	}

	for _, path := range filePaths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading params file %s: %w", path, err)
		}
		fromFile, err := ParseEnvFile(content)
		if err != nil {
			return nil, fmt.Errorf("parsing params file %s: %w", path, err)
		}
		for name, value := range fromFile {
			merged[name] = value
		}
	}

	fromFlags, err := ParsePairs(flagPairs)
	if err != nil {
		return nil, err
	}
	for name, value := range fromFlags {
		merged[name] = value
	}

	names := make([]string, 0, len(merged))
	for name := range merged {
		names = append(names, name)
	}
	sort.Strings(names)

	set := dbexec.NewParameterSet()
	for _, name := range names {
		if err := set.Add(name, merged[name]); err != nil {
			return nil, err
		}
	}
	return set, nil
}
