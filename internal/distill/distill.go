// Package distill classifies the changes between two method snapshots at line granularity.
package distill

import (
	"strings"

	"github.com/huangsam/proneness/schema"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// lineKind separates code lines from comment and documentation lines.
type lineKind int

const (
	statementLine lineKind = iota
	commentLine
	docLine
)

// editKind is the kind of a line edit.
type editKind int

const (
	insertEdit editKind = iota
	deleteEdit
	updateEdit
)

var changeTable = map[lineKind][3]schema.ChangeType{
	statementLine: {schema.StatementInsert, schema.StatementDelete, schema.StatementUpdate},
	commentLine:   {schema.CommentInsert, schema.CommentDelete, schema.CommentUpdate},
	docLine:       {schema.DocInsert, schema.DocDelete, schema.DocUpdate},
}

// LineDiffer is a Differ backed by a line diff. A paired deletion and insertion
// counts as an update; blank lines are ignored.
type LineDiffer struct {
	dmp *diffmatchpatch.DiffMatchPatch
}

// NewLineDiffer creates a line-level differ.
func NewLineDiffer() *LineDiffer {
	return &LineDiffer{dmp: diffmatchpatch.New()}
}

// Distill returns the changes that turn before into after. An empty before is a
// new method and an empty after is a removed one.
func (d *LineDiffer) Distill(before, after, _ string) ([]schema.SourceChange, error) {
	switch {
	case strings.TrimSpace(before) == "" && strings.TrimSpace(after) == "":
		return nil, nil
	case strings.TrimSpace(before) == "":
		return []schema.SourceChange{{Type: schema.AdditionalFunctionality}}, nil
	case strings.TrimSpace(after) == "":
		return []schema.SourceChange{{Type: schema.RemovedFunctionality}}, nil
	}

	a, b, lines := d.dmp.DiffLinesToChars(before, after)
	diffs := d.dmp.DiffCharsToLines(d.dmp.DiffMain(a, b, false), lines)

	var changes []schema.SourceChange
	var deleted []string
	flush := func(inserted []string) {
		paired := min(len(deleted), len(inserted))
		for i := range paired {
			changes = append(changes, change(classify(inserted[i]), updateEdit))
		}
		for _, l := range deleted[paired:] {
			changes = append(changes, change(classify(l), deleteEdit))
		}
		for _, l := range inserted[paired:] {
			changes = append(changes, change(classify(l), insertEdit))
		}
		deleted = nil
	}

	for _, diff := range diffs {
		switch diff.Type {
		case diffmatchpatch.DiffDelete:
			deleted = append(deleted, contentLines(diff.Text)...)
		case diffmatchpatch.DiffInsert:
			flush(contentLines(diff.Text))
		case diffmatchpatch.DiffEqual:
			flush(nil)
		}
	}
	flush(nil)
	return changes, nil
}

func change(kind lineKind, edit editKind) schema.SourceChange {
	return schema.SourceChange{Type: changeTable[kind][edit]}
}

// contentLines splits diff text into its non-blank lines.
func contentLines(text string) []string {
	var out []string
	for l := range strings.SplitSeq(text, "\n") {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}

func classify(line string) lineKind {
	l := strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(l, "/**"):
		return docLine
	case strings.HasPrefix(l, "//"), strings.HasPrefix(l, "/*"), strings.HasPrefix(l, "*"):
		return commentLine
	default:
		return statementLine
	}
}
