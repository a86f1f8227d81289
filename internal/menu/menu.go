package menu

import "rentnest/server/internal/models"

// Item is a single navbar entry
type Item struct {
	Label    string `json:"label"`
	Path     string `json:"path,omitempty"`
	Selected bool   `json:"selected"`

	OnClick func() `json:"-"`
}

// Click runs the item's handler, if any.
func (i *Item) Click() {
	if i.OnClick != nil {
		i.OnClick()
	}
}

// Navigator requests a route change
type Navigator interface {
	Push(path string)
}

// Menu is the ordered item list of the user dropdown
type Menu struct {
	Items []Item `json:"items"`
}

// Actions handle the entries that open a dialog or end the session rather
// than route to a page.
type Actions struct {
	Login  func()
	SignUp func()
	Rent   func()
	Logout func()
}

// UserMenu builds the dropdown for the current user. A nil user gets the
// signed-out entries. Entries with a Path navigate through nav; the others
// run their action.
func UserMenu(user *models.User, nav Navigator, actions Actions) *Menu {
	var entries []Item
	if user == nil {
		entries = []Item{
			{Label: "Login", OnClick: actions.Login},
			{Label: "Sign up", OnClick: actions.SignUp},
		}
	} else {
		entries = []Item{
			{Label: "My trips", Path: "/trips"},
			{Label: "My favorites", Path: "/favorites"},
			{Label: "My reservations", Path: "/reservations"},
			{Label: "My properties", Path: "/properties"},
			{Label: "Rent your home", OnClick: actions.Rent},
			{Label: "Logout", OnClick: actions.Logout},
		}
	}

	m := &Menu{Items: entries}
	for i := range m.Items {
		item := &m.Items[i]
		if item.Path != "" && nav != nil {
			path := item.Path
			item.OnClick = func() { nav.Push(path) }
		}
	}
	return m
}

// Select marks the item routed at path and clears the rest.
func (m *Menu) Select(path string) {
	for i := range m.Items {
		m.Items[i].Selected = path != "" && m.Items[i].Path == path
	}
}

// Find returns the item with the given label
func (m *Menu) Find(label string) (*Item, bool) {
	for i := range m.Items {
		if m.Items[i].Label == label {
			return &m.Items[i], true
		}
	}
	return nil, false
}
