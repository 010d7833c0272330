package history

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/huangsam/proneness/schema"
)

// commitsHeader is the required header of a commit file.
var commitsHeader = []string{"id", "author", "time", "message"}

// WriteChanges writes every version of the forest as method,commit,change_type
// records, one per change. Versions without changes get an empty change type.
func WriteChanges(w io.Writer, forest Forest) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(changesHeader); err != nil {
		return err
	}
	for m := range forest.Methods() {
		for _, v := range m.Versions {
			if len(v.Changes) == 0 {
				if err := cw.Write([]string{m.UniqueName, v.CommitID, ""}); err != nil {
					return err
				}
				continue
			}
			for _, c := range v.Changes {
				if err := cw.Write([]string{m.UniqueName, v.CommitID, string(c.Type)}); err != nil {
					return err
				}
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCommits writes a commit file with an id,author,time,message header.
func WriteCommits(w io.Writer, commits []schema.RawCommit) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(commitsHeader); err != nil {
		return err
	}
	for _, c := range commits {
		if err := cw.Write([]string{c.ID, c.Author, strconv.FormatInt(c.Time, 10), c.Message}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCommits loads a commit file written by WriteCommits.
func ReadCommits(r io.Reader) ([]schema.RawCommit, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("commit file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read commit file: %w", err)
	}
	if !slices.Equal(header, commitsHeader) {
		return nil, fmt.Errorf("commit file must start with header %v", commitsHeader)
	}

	var commits []schema.RawCommit
	for rec := 1; ; rec++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read commit file: %w", err)
		}
		ts, err := strconv.ParseInt(record[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("commit file record %d: invalid time %q", rec, record[2])
		}
		commits = append(commits, schema.RawCommit{ID: record[0], Author: record[1], Time: ts, Message: record[3]})
	}
	return commits, nil
}
