package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/JonMunkholm/sitegrid/internal/core"
	"github.com/JonMunkholm/sitegrid/internal/editor"
	"github.com/JonMunkholm/sitegrid/internal/grid"
)

// Changes is a batch of edits read from a change file:
//
//	{
//	  "update": [{"id": 3, "set": {"siteName": "New name"}}],
//	  "insert": [{"siteName": "Site", "siteAddresses": "https://a.example, https://b.example"}],
//	  "delete": [4, 5]
//	}
type Changes struct {
	Update []RowUpdate `json:"update"`
	Insert []core.Row  `json:"insert"`
	Delete []int64     `json:"delete"`
}

// RowUpdate sets fields of the persisted row with the given id.
type RowUpdate struct {
	ID  int64    `json:"id"`
	Set core.Row `json:"set"`
}

// Empty reports whether the batch holds no change.
func (c Changes) Empty() bool {
	return len(c.Update) == 0 && len(c.Insert) == 0 && len(c.Delete) == 0
}

func readChanges(path string) (Changes, error) {
	var c Changes
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("read change file: %w", err)
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("parse change file %s: %w", path, err)
	}
	return c, nil
}

// apply replays the batch through the editor the way a user would: cell
// edits on loaded rows, added rows filled in, then a selection deleted.
func (c Changes) apply(ctx context.Context, ed *editor.Editor, tableID string, g *grid.Memory) error {
	keys := keysByID(g)

	for _, u := range c.Update {
		key, ok := keys[u.ID]
		if !ok {
			return fmt.Errorf("update: no row with id %d", u.ID)
		}
		if err := setFields(g, key, u.Set); err != nil {
			return fmt.Errorf("update %d: %w", u.ID, err)
		}
	}

	for i, row := range c.Insert {
		if err := ed.AddRow(ctx, tableID); err != nil {
			return err
		}
		if err := setFields(g, g.ScrolledTo(), row); err != nil {
			return fmt.Errorf("insert %d: %w", i, err)
		}
	}

	if len(c.Delete) > 0 {
		selected := make([]string, 0, len(c.Delete))
		for _, id := range c.Delete {
			key, ok := keys[id]
			if !ok {
				return fmt.Errorf("delete: no row with id %d", id)
			}
			selected = append(selected, key)
		}
		g.Select(selected...)
		if err := ed.SelectionChanged(tableID); err != nil {
			return err
		}
		if err := ed.MarkRowsDeleted(tableID); err != nil {
			return err
		}
	}

	_, err := ed.RecomputeButtonStates(tableID)
	return err
}

func keysByID(g *grid.Memory) map[int64]string {
	keys := make(map[int64]string)
	for _, r := range g.Rows() {
		if id, ok := core.ParseRowID(r.Data()[core.IDField]); ok {
			keys[id] = r.Key()
		}
	}
	return keys
}

// setFields edits cells in field order. The id is never edited.
func setFields(g *grid.Memory, key string, fields core.Row) error {
	names := make([]string, 0, len(fields))
	for name := range fields {
		if name != core.IDField {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		v := fields[name]
		if name == editor.AddressesField {
			v = editor.AddressList(v)
		}
		if err := g.SetCell(key, name, v); err != nil {
			return err
		}
	}
	return nil
}
