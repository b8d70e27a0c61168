package git

import (
	"fmt"
	"log/slog"
	"path"
	"strings"

	gitconfig "github.com/go-git/go-git/v5/config"
)

func parseSubmodules(out string) []Submodule {
	var subs []Submodule
	for line := range nonEmptyLines(out) {
		sub, ok := parseSubmoduleLine(line)
		if !ok {
			slog.Warn("skipping malformed submodule line", slog.String("line", line))
			continue
		}
		subs = append(subs, sub)
	}
	return subs
}

// parseSubmoduleLine reads one "git submodule status" line:
//
//	[ +-U]<sha> <path>[ (<describe>)]
func parseSubmoduleLine(line string) (Submodule, bool) {
	state := SubmoduleInSync
	switch line[0] {
	case '-':
		state = SubmoduleUninitialized
	case '+':
		state = SubmoduleOutOfSync
	case 'U':
		state = SubmoduleConflict
	}
	if line[0] == ' ' || state != SubmoduleInSync {
		line = line[1:]
	}
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return Submodule{}, false
	}
	p := fields[1]
	return Submodule{
		Name:      path.Base(p),
		Path:      p,
		CommitSHA: fields[0],
		State:     state,
	}, true
}

// parseGitmodules maps submodule path to URL using the contents of a
// .gitmodules file.
func parseGitmodules(data []byte) (map[string]string, error) {
	urls := map[string]string{}
	if len(strings.TrimSpace(string(data))) == 0 {
		return urls, nil
	}
	modules := gitconfig.NewModules()
	if err := modules.Unmarshal(data); err != nil {
		return nil, fmt.Errorf("parse .gitmodules: %w", err)
	}
	for name, sub := range modules.Submodules {
		key := sub.Path
		if key == "" {
			key = name
		}
		urls[key] = sub.URL
	}
	return urls, nil
}
