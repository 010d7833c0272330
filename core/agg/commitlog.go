package agg

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/huangsam/proneness/schema"
)

// Separators used by the commit log format of the local git client.
const (
	RecordSeparator = "\x1e"
	FieldSeparator  = "\x1f"
)

// ParseCommitLog parses `git log` output produced with the record/field
// separator format into raw commits, preserving log order.
func ParseCommitLog(out []byte) ([]schema.RawCommit, error) {
	var commits []schema.RawCommit
	for record := range strings.SplitSeq(string(out), RecordSeparator) {
		record = strings.TrimLeft(record, "\r\n")
		if strings.TrimSpace(record) == "" {
			continue
		}
		commit, err := parseCommitRecord(record)
		if err != nil {
			return nil, err
		}
		commits = append(commits, commit)
	}
	return commits, nil
}

// parseCommitRecord parses one hash|author|time|message record.
func parseCommitRecord(record string) (schema.RawCommit, error) {
	parts := strings.SplitN(record, FieldSeparator, 4)
	if len(parts) < 3 {
		return schema.RawCommit{}, fmt.Errorf("malformed commit record %q", truncate(record, 40))
	}
	ts, err := strconv.ParseInt(strings.TrimSpace(parts[2]), 10, 64)
	if err != nil {
		return schema.RawCommit{}, fmt.Errorf("invalid commit time for %s: %w", parts[0], err)
	}
	commit := schema.RawCommit{
		ID:     strings.TrimSpace(parts[0]),
		Author: parts[1],
		Time:   ts,
	}
	if len(parts) == 4 {
		commit.Message = strings.TrimRight(parts[3], "\r\n")
	}
	return commit, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
