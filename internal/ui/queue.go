package ui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/encorelive/encore/internal/models"
)

// queueState is the live-queue view. Every refresh fully replaces the
// rendered entries; mutations are followed by a re-fetch, never patched
// locally.
type queueState struct {
	list     list.Model
	entries  []models.QueueEntry
	maxInput textinput.Model
	editing  bool
}

func newQueueState() queueState {
	input := textinput.New()
	input.Placeholder = "Max requests per user"
	input.CharLimit = 3

	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Request Queue"
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)

	return queueState{list: l, maxInput: input}
}

// setEntries replaces the rendered queue with a fresh fetch.
func (q *queueState) setEntries(entries []models.QueueEntry) {
	q.entries = entries
	items := make([]list.Item, len(entries))
	for i, entry := range entries {
		items[i] = queueItem{entry: entry, position: i + 1}
	}
	q.list.SetItems(items)
}

// selected returns the entry under the cursor, nil on an empty queue.
func (q *queueState) selected() *models.QueueEntry {
	item, ok := q.list.SelectedItem().(queueItem)
	if !ok {
		return nil
	}
	entry := item.entry
	return &entry
}

// maxRequests parses the edited cap, reporting ok only for a positive
// number.
func (q *queueState) maxRequests() (int, bool) {
	value, err := strconv.Atoi(q.maxInput.Value())
	if err != nil || value < 1 {
		return 0, false
	}
	return value, true
}
