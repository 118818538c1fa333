package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/encorelive/encore/internal/models"
)

var (
	_ list.Item = songItem{}
	_ list.Item = queueItem{}
	_ list.Item = requestItem{}
)

// songItem wraps [models.Song] to implement [list.Item].
type songItem struct {
	song      models.Song
	requested bool
}

func (i songItem) FilterValue() string { return i.song.Title }
func (i songItem) Title() string {
	if i.requested {
		return i.song.Title + " ✓"
	}
	return i.song.Title
}
func (i songItem) Description() string {
	desc := i.song.Author
	if i.requested {
		desc = fmt.Sprintf("%s • already requested", desc)
	}
	return desc
}

// queueItem wraps [models.QueueEntry] to implement [list.Item].
type queueItem struct {
	entry    models.QueueEntry
	position int
}

func (i queueItem) FilterValue() string { return i.entry.Title }
func (i queueItem) Title() string {
	return fmt.Sprintf("%d. %s", i.position, i.entry.Title)
}
func (i queueItem) Description() string {
	desc := i.entry.Author
	if len(i.entry.Requesters) > 0 {
		desc = fmt.Sprintf("%s • for %s", desc, strings.Join(i.entry.Requesters, ", "))
	}
	return desc
}

// requestItem wraps [models.UserRequest] to implement [list.Item].
type requestItem struct {
	request models.UserRequest
}

func (i requestItem) FilterValue() string { return i.request.Title }
func (i requestItem) Title() string       { return i.request.Title }
func (i requestItem) Description() string { return i.request.Author }
