package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/encorelive/encore/internal/models"
)

// requestsState is the side panel of the user's own outstanding requests.
type requestsState struct {
	list     list.Model
	requests []models.UserRequest
}

func newRequestsState() requestsState {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "My Requests"
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	return requestsState{list: l}
}

func (r *requestsState) setRequests(requests []models.UserRequest) {
	r.requests = requests
	items := make([]list.Item, len(requests))
	for i, req := range requests {
		items[i] = requestItem{request: req}
	}
	r.list.SetItems(items)
}

func (r *requestsState) selected() *models.UserRequest {
	item, ok := r.list.SelectedItem().(requestItem)
	if !ok {
		return nil
	}
	request := item.request
	return &request
}
