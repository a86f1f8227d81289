package presenter

import "net/url"

// Navigator requests a client-side route change
type Navigator interface {
	Push(path string)
}

// NavigatorFunc adapts a plain function to Navigator
type NavigatorFunc func(path string)

func (f NavigatorFunc) Push(path string) {
	f(path)
}

// Event is a single user activation bubbling from a control to its card.
type Event struct {
	stopped bool
}

func (e *Event) StopPropagation() {
	e.stopped = true
}

func (e *Event) PropagationStopped() bool {
	return e.stopped
}

// ListingPath is the detail route of a listing
func ListingPath(listingID string) string {
	return "/listings/" + url.PathEscape(listingID)
}

// OnCardActivate navigates to the listing detail view. Repeated calls re-issue
// the navigation.
func OnCardActivate(listingID string, nav Navigator) {
	if nav == nil {
		return
	}
	nav.Push(ListingPath(listingID))
}

// OnSecondaryAction handles the card's action button. The event never reaches
// the card, even when the control is disabled.
func OnSecondaryAction(e *Event, actionID string, disabled bool, callback func(actionID string)) {
	if e != nil {
		e.StopPropagation()
	}
	if disabled || callback == nil {
		return
	}
	callback(actionID)
}

// Card wires the click handlers of one rendered listing card.
type Card struct {
	ListingID   string
	ActionID    string
	ActionLabel string
	Disabled    bool
	OnAction    func(actionID string)
	Navigator   Navigator
}

// HasAction reports whether the secondary control is rendered
func (c *Card) HasAction() bool {
	return c.OnAction != nil && c.ActionLabel != ""
}

// Activate handles a click on the card body.
func (c *Card) Activate() {
	OnCardActivate(c.ListingID, c.Navigator)
}

// ActivateAction handles a click on the secondary control. Without a rendered
// control the click lands on the card body.
func (c *Card) ActivateAction() {
	e := &Event{}
	if c.HasAction() {
		OnSecondaryAction(e, c.ActionID, c.Disabled, c.OnAction)
	}
	if !e.PropagationStopped() {
		c.Activate()
	}
}
