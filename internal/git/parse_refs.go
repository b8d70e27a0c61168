package git

import (
	"log/slog"
	"strings"
)

// for-each-ref formats consumed by parseBranches and parseTags. Local and
// remote branches are listed by separate invocations with the remote flag
// baked into the format.
const (
	localBranchFormat  = "%(refname:short)|%(objectname:short)|false||%(upstream:short)"
	remoteBranchFormat = "%(refname:lstrip=2)|%(objectname:short)|true||"
	// Annotated tags report the tagged commit and their own subject; for
	// lightweight tags %(contents:subject) would be the commit's subject, so it
	// is suppressed.
	tagFormat = "%(refname:short)|%(if)%(*objectname)%(then)%(*objectname:short)%(else)%(objectname:short)%(end)|%(if)%(*objectname)%(then)%(contents:subject)%(end)"
)

const (
	branchRequiredFields = 4
	tagRequiredFields    = 3
)

func parseBranches(out string) []Branch {
	var branches []Branch
	for line := range nonEmptyLines(out) {
		branch, ok := parseBranchLine(line)
		if !ok {
			slog.Warn("skipping malformed branch line", slog.String("line", line))
			continue
		}
		if branch.IsRemote && strings.HasSuffix(branch.Name, "/HEAD") {
			continue
		}
		branches = append(branches, branch)
	}
	return branches
}

func parseBranchLine(line string) (Branch, bool) {
	fields := strings.SplitN(line, "|", 5)
	if len(fields) < branchRequiredFields {
		return Branch{}, false
	}
	name := strings.TrimSpace(fields[0])
	if name == "" {
		return Branch{}, false
	}
	branch := Branch{
		Name:       name,
		CommitSHA:  strings.TrimSpace(fields[1]),
		IsRemote:   strings.TrimSpace(fields[2]) == "true",
		RemoteName: strings.TrimSpace(fields[3]),
	}
	if len(fields) == 5 {
		branch.Upstream = strings.TrimSpace(fields[4])
	}
	if branch.IsRemote && branch.RemoteName == "" {
		if remote, _, ok := strings.Cut(name, "/"); ok {
			branch.RemoteName = remote
		}
	}
	return branch, true
}

func parseTags(out string) []Tag {
	var tags []Tag
	for line := range nonEmptyLines(out) {
		tag, ok := parseTagLine(line)
		if !ok {
			slog.Warn("skipping malformed tag line", slog.String("line", line))
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}

func parseTagLine(line string) (Tag, bool) {
	fields := strings.SplitN(line, "|", tagRequiredFields)
	if len(fields) < tagRequiredFields {
		return Tag{}, false
	}
	name := strings.TrimSpace(fields[0])
	if name == "" {
		return Tag{}, false
	}
	tag := Tag{Name: name, CommitSHA: strings.TrimSpace(fields[1])}
	if subject := strings.TrimSpace(fields[2]); subject != "" {
		tag.Message = &subject
	}
	return tag, true
}
