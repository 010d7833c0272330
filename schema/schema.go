// Package schema holds the models shared across proneness packages.
package schema

// RawCommit is one entry of a commit log, as delivered by a commit source.
type RawCommit struct {
	ID      string `json:"id"`
	Author  string `json:"author"`
	Time    int64  `json:"time"` // seconds since epoch
	Message string `json:"message"`
}

// Commit is the registry view of a commit. NumChanges and NumEntities are
// running totals tallied over every method version that references the commit.
type Commit struct {
	ID          string
	Author      string
	Time        int64
	IsFix       bool
	NumChanges  int
	NumEntities int
}

// Author aggregates the activity of one commit author.
type Author struct {
	Name       string
	NumCommits int
	NumChanges int
}

// SourceChange is one classified structural edit inside a method version.
type SourceChange struct {
	Type ChangeType `json:"type"`
}

// MethodVersion is a snapshot of a method at one commit.
type MethodVersion struct {
	UniqueName string
	CommitID   string
	Changes    []SourceChange
}

// MethodHistory is the ordered version sequence of one method, oldest first.
type MethodHistory struct {
	UniqueName string
	Versions   []MethodVersion
}

// ClassHistory groups the method histories of one class and its inner classes.
type ClassHistory struct {
	Name    string
	Methods []*MethodHistory
	Inner   []*ClassHistory
}
