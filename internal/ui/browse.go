package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/encorelive/encore/internal/models"
	"github.com/encorelive/encore/internal/services"
	"github.com/encorelive/encore/internal/tasks"
)

// letters are the starting-letter filter cycle, "All" meaning no filter.
var letters = func() []string {
	all := []string{"All"}
	for r := 'A'; r <= 'Z'; r++ {
		all = append(all, string(r))
	}
	return all
}()

// nearBottomMargin is how close to the end of the list the cursor must be
// before the next page loads.
const nearBottomMargin = 3

// browseState is the catalog view: filter state, the rendered song list,
// and the endless-paging cursor.
type browseState struct {
	list      list.Model
	input     textinput.Model
	searching bool

	songs     []models.Song
	requested map[int]bool
	params    services.SearchParams
	letterIdx int
	endSeen   bool
	loading   bool
	guard     *tasks.ScrollGuard
}

func newBrowseState(username string) browseState {
	input := textinput.New()
	input.Placeholder = "Search songs..."
	input.CharLimit = 120

	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Songs"
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)

	return browseState{
		list:      l,
		input:     input,
		requested: make(map[int]bool),
		params: services.SearchParams{
			Language:  "all",
			Letter:    "All",
			SortBy:    "title",
			SortOrder: "asc",
			Page:      1,
			Username:  username,
		},
		guard: tasks.NewScrollGuard(tasks.ScrollCooldown),
	}
}

// resetPage rewinds paging after any filter change.
func (b *browseState) resetPage() {
	b.params.Page = 1
	b.endSeen = false
}

// setQuery applies the free-text query and rewinds paging.
func (b *browseState) setQuery(q string) {
	b.params.Query = q
	b.resetPage()
}

// cycleLanguage steps all → it → en → all.
func (b *browseState) cycleLanguage() {
	switch b.params.Language {
	case "all":
		b.params.Language = "it"
	case "it":
		b.params.Language = "en"
	default:
		b.params.Language = "all"
	}
	b.resetPage()
}

// cycleLetter steps through All, A..Z.
func (b *browseState) cycleLetter() {
	b.letterIdx = (b.letterIdx + 1) % len(letters)
	b.params.Letter = letters[b.letterIdx]
	b.resetPage()
}

// toggleSort cycles title asc → title desc → author asc → author desc.
func (b *browseState) toggleSort() {
	switch {
	case b.params.SortBy == "title" && b.params.SortOrder != "desc":
		b.params.SortOrder = "desc"
	case b.params.SortBy == "title":
		b.params.SortBy = "author"
		b.params.SortOrder = "asc"
	case b.params.SortOrder != "desc":
		b.params.SortOrder = "desc"
	default:
		b.params.SortBy = "title"
		b.params.SortOrder = "asc"
	}
	b.resetPage()
}

// setSongs installs a fetched page: replacing the list on a filter change,
// appending on endless paging. An empty appended page marks the end.
func (b *browseState) setSongs(songs []models.Song, page int, replace bool) {
	b.loading = false
	if replace {
		b.songs = songs
		b.list.ResetSelected()
	} else {
		if len(songs) == 0 {
			b.endSeen = true
		}
		b.songs = append(b.songs, songs...)
	}
	b.params.Page = page
	b.list.SetItems(b.items())
}

// markRequested records a song in the local requested-set; it loses its
// request affordance on the next render pass.
func (b *browseState) markRequested(songID int) {
	b.requested[songID] = true
	b.list.SetItems(b.items())
}

// setRequested replaces the requested-set with the server's.
func (b *browseState) setRequested(ids []int) {
	b.requested = make(map[int]bool, len(ids))
	for _, id := range ids {
		b.requested[id] = true
	}
	b.list.SetItems(b.items())
}

// removeSong drops a song from the visible list after a request succeeds.
func (b *browseState) removeSong(songID int) {
	for i, song := range b.songs {
		if song.ID == songID {
			b.songs = append(b.songs[:i], b.songs[i+1:]...)
			break
		}
	}
	b.list.SetItems(b.items())
}

func (b *browseState) items() []list.Item {
	items := make([]list.Item, len(b.songs))
	for i, song := range b.songs {
		items[i] = songItem{song: song, requested: b.requested[song.ID]}
	}
	return items
}

// selected returns the song under the cursor, nil when the list is empty
// or the selection is already in the requested-set.
func (b *browseState) selected() *models.Song {
	item, ok := b.list.SelectedItem().(songItem)
	if !ok || item.requested {
		return nil
	}
	song := item.song
	return &song
}

// wantsNextPage reports whether the cursor is near the bottom and a page
// load may start. A true result consumes the cooldown window.
func (b *browseState) wantsNextPage() bool {
	if b.endSeen || b.loading || len(b.songs) == 0 {
		return false
	}
	if b.list.Index() < len(b.songs)-nearBottomMargin {
		return false
	}
	if !b.guard.Allow() {
		return false
	}
	b.loading = true
	return true
}
