package mounts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// DefaultNote explains the ids of the mounts map to consumers of the document.
const DefaultNote = "Complete mount database for FFXIV. IDs are sequential placeholders - use mount NAME for matching with in-game data."

// MountIndex is the list of mounts in row order, it is serialized as an object
// keyed by the 1-based position of each mount ("1", "2", ...).
type MountIndex []Mount

func (m MountIndex) MarshalJSON() ([]byte, error) {
	buff := bytes.NewBufferString("{")
	encoder := json.NewEncoder(buff)
	encoder.SetEscapeHTML(false)

	for i, mount := range m {
		if i > 0 {
			buff.WriteByte(',')
		}
		fmt.Fprintf(buff, `"%d":`, i+1)
		err := encoder.Encode(mount)
		if err != nil {
			return nil, err
		}
	}

	buff.WriteByte('}')
	return buff.Bytes(), nil
}

// UnmarshalJSON orders mounts by their numeric id, gaps in the ids are allowed.
func (m *MountIndex) UnmarshalJSON(data []byte) error {
	var raw map[string]Mount
	err := json.Unmarshal(data, &raw)
	if err != nil {
		return err
	}

	ids := make([]int, 0, len(raw))
	byId := make(map[int]Mount, len(raw))
	for key, mount := range raw {
		id, err := strconv.Atoi(key)
		if err != nil {
			return fmt.Errorf("mount id '%s' is not an integer: %w", key, err)
		}
		ids = append(ids, id)
		byId[id] = mount
	}
	sort.Ints(ids)

	out := make(MountIndex, len(ids))
	for i, id := range ids {
		out[i] = byId[id]
	}
	*m = out
	return nil
}

// Metadata is everything in a Document besides the mounts.
type Metadata struct {
	Version     string
	LastUpdated string
	Source      string
	Note        string
}

// Document is the json file produced by a scrape.
type Document struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"last_updated"`
	Source      string     `json:"source"`
	TotalMounts int        `json:"total_mounts"`
	Note        string     `json:"note,omitempty"`
	Mounts      MountIndex `json:"mounts"`
}

func NewDocument(meta Metadata, mounts []Mount) Document {
	if mounts == nil {
		mounts = []Mount{}
	}
	return Document{
		Version:     meta.Version,
		LastUpdated: meta.LastUpdated,
		Source:      meta.Source,
		TotalMounts: len(mounts),
		Note:        meta.Note,
		Mounts:      MountIndex(mounts),
	}
}

// Validate checks the invariants a consumer relies on.
func (d Document) Validate() error {
	if d.TotalMounts != len(d.Mounts) {
		return fmt.Errorf("total_mounts is %d but there are %d mounts", d.TotalMounts, len(d.Mounts))
	}
	for i, mount := range d.Mounts {
		if mount.Name == "" {
			return fmt.Errorf("mount %d has no name", i+1)
		}
		if mount.Seats < 0 {
			return fmt.Errorf("mount %d has negative seats", i+1)
		}
	}
	return nil
}

// Encode renders the document as indented json.
func (d Document) Encode() ([]byte, error) {
	buff := bytes.NewBuffer(nil)
	encoder := json.NewEncoder(buff)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	err := encoder.Encode(d)
	if err != nil {
		return nil, err
	}
	return buff.Bytes(), nil
}

// WriteDocument writes the document to path, replacing whatever was there.
// the file is written next to path first and renamed into place so a failed
// write never leaves a truncated document behind.
func WriteDocument(path string, doc Document) error {
	err := doc.Validate()
	if err != nil {
		return err
	}
	contents, err := doc.Encode()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	_, err = tmp.Write(contents)
	if err != nil {
		tmp.Close()
		return err
	}
	err = tmp.Close()
	if err != nil {
		return err
	}
	err = os.Chmod(tmp.Name(), 0644)
	if err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func ReadDocument(path string) (Document, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	var doc Document
	err = json.Unmarshal(contents, &doc)
	if err != nil {
		return Document{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}
