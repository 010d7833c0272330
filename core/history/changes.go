package history

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"

	"github.com/huangsam/proneness/schema"
)

// changesHeader is the optional header of a change file.
var changesHeader = []string{"method", "commit", "change_type"}

// ReadChanges loads a change file with one method,commit,change_type record per
// structural change. Consecutive or repeated (method, commit) pairs form one
// version; versions keep their first-appearance order. An empty change type
// records a version without changes.
func ReadChanges(r io.Reader) (Forest, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	b := newForestBuilder()
	line := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read change file: %w", err)
		}
		line++
		if line == 1 && slices.Equal(record, changesHeader) {
			continue
		}
		if len(record) < 2 || len(record) > 3 {
			return nil, fmt.Errorf("change file line %d: expected method,commit,change_type", line)
		}
		method, commit := strings.TrimSpace(record[0]), strings.TrimSpace(record[1])
		if method == "" || commit == "" {
			return nil, fmt.Errorf("change file line %d: method and commit are required", line)
		}
		version := b.version(method, commit)
		if len(record) == 3 && strings.TrimSpace(record[2]) != "" {
			ct, err := schema.ParseChangeType(strings.TrimSpace(record[2]))
			if err != nil {
				return nil, fmt.Errorf("change file line %d: %w", line, err)
			}
			version.Changes = append(version.Changes, schema.SourceChange{Type: ct})
		}
	}
	return b.forest(), nil
}

// forestBuilder groups method versions into a class forest.
type forestBuilder struct {
	classes  map[string]*schema.ClassHistory
	methods  map[string]*schema.MethodHistory
	versions map[string]int
}

func newForestBuilder() *forestBuilder {
	return &forestBuilder{
		classes:  make(map[string]*schema.ClassHistory),
		methods:  make(map[string]*schema.MethodHistory),
		versions: make(map[string]int),
	}
}

// method returns the history of a method, creating it and its classes on first use.
func (b *forestBuilder) method(name string) *schema.MethodHistory {
	if m, ok := b.methods[name]; ok {
		return m
	}
	m := &schema.MethodHistory{UniqueName: name}
	b.methods[name] = m
	owner := b.class(ClassChain(name))
	owner.Methods = append(owner.Methods, m)
	return m
}

// version returns the version of a method at a commit, creating it on first use.
func (b *forestBuilder) version(method, commit string) *schema.MethodVersion {
	m := b.method(method)
	key := method + "\x00" + commit
	if i, ok := b.versions[key]; ok {
		return &m.Versions[i]
	}
	m.Versions = append(m.Versions, schema.MethodVersion{UniqueName: method, CommitID: commit})
	b.versions[key] = len(m.Versions) - 1
	return &m.Versions[len(m.Versions)-1]
}

// class returns the innermost class of a chain, linking every link to its parent.
func (b *forestBuilder) class(chain []string) *schema.ClassHistory {
	var parent *schema.ClassHistory
	for _, name := range chain {
		c, ok := b.classes[name]
		if !ok {
			c = &schema.ClassHistory{Name: name}
			b.classes[name] = c
			if parent != nil {
				parent.Inner = append(parent.Inner, c)
			}
		}
		parent = c
	}
	return parent
}

// forest returns the top-level classes sorted by name, with inner classes sorted too.
func (b *forestBuilder) forest() Forest {
	var out Forest
	for name, c := range b.classes {
		if !strings.Contains(name, "$") {
			out = append(out, c)
		}
		sort.Slice(c.Inner, func(i, j int) bool { return c.Inner[i].Name < c.Inner[j].Name })
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ClassChain derives the enclosing classes of a method unique name, outermost
// first. "pkg.Outer$Inner.m(int)" yields ["pkg.Outer", "pkg.Outer$Inner"].
// A name without a class part belongs to the unnamed class "".
func ClassChain(method string) []string {
	base := method
	if i := strings.IndexByte(base, '('); i >= 0 {
		base = base[:i]
	}
	dot := strings.LastIndexByte(base, '.')
	if dot < 0 {
		return []string{""}
	}
	parts := strings.Split(base[:dot], "$")
	chain := make([]string, len(parts))
	for i := range parts {
		chain[i] = strings.Join(parts[:i+1], "$")
	}
	return chain
}
