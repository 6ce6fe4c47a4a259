package endpoint

import (
	"bufio"
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/firefly-engineering/proxyctl/internal/errors"
	"github.com/firefly-engineering/proxyctl/internal/logging"
	"github.com/firefly-engineering/proxyctl/internal/system"
)

// Entry is a named proxy from the catalogue.
type Entry struct {
	Name     string `json:"name"`
	IP       string `json:"ip"`
	User     string `json:"user,omitempty"`
	Password string `json:"password,omitempty"`
}

// Endpoint resolves the entry's address, preferring its own credentials
// over the resolver defaults.
func (e Entry) Endpoint(r Resolver) (*Endpoint, error) {
	if e.User != "" {
		r.User = e.User
		r.Password = e.Password
	}
	return r.Resolve(e.IP)
}

// LoadCatalog reads the proxy catalogue from jsonPath, falling back to the
// newline list at txtPath when the JSON file is missing, unparseable or
// empty. Entries from the text list get default names. Neither file
// existing yields an empty catalogue.
func LoadCatalog(fsys system.FileSystem, jsonPath, txtPath string) ([]Entry, error) {
	if jsonPath != "" {
		data, err := fsys.ReadFile(jsonPath)
		if err == nil {
			var entries []Entry
			if err := json.Unmarshal(data, &entries); err != nil {
				logging.Warn("ignoring unparseable proxy catalogue", "path", jsonPath, "error", err)
			} else if len(entries) > 0 {
				for i := range entries {
					if entries[i].Name == "" {
						entries[i].Name = fmt.Sprintf("Proxy %d", i+1)
					}
				}
				return entries, nil
			}
		} else if !stderrors.Is(err, fs.ErrNotExist) {
			logging.Debug("failed to read proxy catalogue", "path", jsonPath, "error", err)
		}
	}

	if txtPath == "" {
		return nil, nil
	}
	lines, err := LoadCandidates(fsys, txtPath)
	if err != nil {
		if errors.IsKind(err, errors.KindMissingResource) {
			return nil, nil
		}
		return nil, err
	}

	entries := make([]Entry, 0, len(lines))
	for i, ip := range lines {
		entries = append(entries, Entry{Name: fmt.Sprintf("Proxy %d", i+1), IP: ip})
	}
	return entries, nil
}

// LoadCandidates reads a newline-delimited list of address fragments.
// Blank lines and lines starting with '#' are skipped. A missing file is a
// MissingResource error.
func LoadCandidates(fsys system.FileSystem, path string) ([]string, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.MissingResource("candidate list "+path, err)
		}
		return nil, fmt.Errorf("failed to read candidate list: %w", err)
	}

	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to parse candidate list: %w", err)
	}
	return lines, nil
}
