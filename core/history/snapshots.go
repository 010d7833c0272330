package history

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/huangsam/proneness/schema"
	"golang.org/x/sync/errgroup"
)

// Differ classifies the structural changes between two snapshots of a method.
type Differ interface {
	Distill(before, after, version string) ([]schema.SourceChange, error)
}

// Snapshot is the source of one method at one commit.
type Snapshot struct {
	Method string `json:"method"`
	Commit string `json:"commit"`
	Source string `json:"source"`
}

// maxSnapshotLine bounds the size of one JSON line.
const maxSnapshotLine = 16 * 1024 * 1024

// ReadSnapshots parses a JSON-lines snapshot file. Blank lines are skipped.
func ReadSnapshots(r io.Reader) ([]Snapshot, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxSnapshotLine)

	var out []Snapshot
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var s Snapshot
		if err := json.Unmarshal([]byte(text), &s); err != nil {
			return nil, fmt.Errorf("snapshot file line %d: %w", line, err)
		}
		if s.Method == "" || s.Commit == "" {
			return nil, fmt.Errorf("snapshot file line %d: method and commit are required", line)
		}
		out = append(out, s)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}
	return out, nil
}

// DistillSnapshots turns ordered snapshots into a forest by diffing consecutive
// snapshots of each method. Methods are distilled by up to workers goroutines;
// the result does not depend on scheduling.
func DistillSnapshots(ctx context.Context, snapshots []Snapshot, differ Differ, workers int) (Forest, error) {
	var order []string
	perMethod := make(map[string][]Snapshot)
	for _, s := range snapshots {
		if _, ok := perMethod[s.Method]; !ok {
			order = append(order, s.Method)
		}
		perMethod[s.Method] = append(perMethod[s.Method], s)
	}

	results := make([][]schema.MethodVersion, len(order))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, method := range order {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			versions, err := distillMethod(method, perMethod[method], differ)
			if err != nil {
				return err
			}
			results[i] = versions
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	b := newForestBuilder()
	for i, method := range order {
		b.method(method).Versions = results[i]
	}
	return b.forest(), nil
}

// distillMethod diffs every snapshot of one method against its predecessor.
func distillMethod(method string, snapshots []Snapshot, differ Differ) ([]schema.MethodVersion, error) {
	versions := make([]schema.MethodVersion, 0, len(snapshots))
	before := ""
	for _, s := range snapshots {
		changes, err := differ.Distill(before, s.Source, s.Commit)
		if err != nil {
			return nil, fmt.Errorf("failed to distill %s at %s: %w", method, s.Commit, err)
		}
		versions = append(versions, schema.MethodVersion{UniqueName: method, CommitID: s.Commit, Changes: changes})
		before = s.Source
	}
	return versions, nil
}
