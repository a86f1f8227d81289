package presenter

import (
	"errors"
	"os"

	"github.com/sirupsen/logrus"

	"rentnest/server/internal/countries"
	"rentnest/server/internal/models"
)

// LocationLookup resolves a listing's location value to country reference data
type LocationLookup interface {
	GetByValue(value string) (*countries.Country, bool)
}

type Location struct {
	Region string `json:"region"`
	Label  string `json:"label"`
	Flag   string `json:"flag"`
}

// ActionControl is the optional secondary button on a card (e.g. cancel)
type ActionControl struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Disabled bool   `json:"disabled"`
}

// DisplayModel holds the render-ready values of a listing card.
type DisplayModel struct {
	ListingID        string         `json:"listing_id"`
	Href             string         `json:"href"`
	ImageSrc         string         `json:"image_src"`
	Location         Location       `json:"location"`
	Category         string         `json:"category"`
	Price            float64        `json:"price"`
	PriceLabel       string         `json:"price_label"`
	DateRange        *string        `json:"date_range"`
	Subtitle         string         `json:"subtitle"`
	ShowNightlyBadge bool           `json:"show_nightly_badge"`
	Favorited        bool           `json:"favorited"`
	Action           *ActionControl `json:"action,omitempty"`
}

// Options carries the per-card settings that do not come from the records
type Options struct {
	ActionID    string
	ActionLabel string
	Disabled    bool
	Favorited   bool
}

// DerivePrice returns the reservation total when reserved, the nightly price otherwise.
func DerivePrice(listing models.Listing, reservation *models.Reservation) float64 {
	if reservation != nil {
		return reservation.TotalPrice
	}
	return listing.Price
}

// DeriveDateRangeLabel formats the reservation dates with DefaultDateLayout.
// A nil reservation yields a nil label.
func DeriveDateRangeLabel(reservation *models.Reservation) (*string, error) {
	return dateRangeLabel(reservation, DefaultDateLayout)
}

func dateRangeLabel(reservation *models.Reservation, layout string) (*string, error) {
	if reservation == nil {
		return nil, nil
	}

	start, err := formatDate("start_date", reservation.StartDate, layout)
	if err != nil {
		return nil, err
	}
	end, err := formatDate("end_date", reservation.EndDate, layout)
	if err != nil {
		return nil, err
	}

	label := start + DateRangeSeparator + end
	return &label, nil
}

// ShouldShowNightlyBadge is true only for unreserved listings.
func ShouldShowNightlyBadge(reservation *models.Reservation) bool {
	return reservation == nil
}

// Presenter builds DisplayModels. It keeps no state between calls and is safe
// for concurrent use.
type Presenter struct {
	lookup     LocationLookup
	prices     *PriceFormatter
	dateLayout string
	logger     *logrus.Logger
}

func New(lookup LocationLookup, prices *PriceFormatter, dateLayout string, logger *logrus.Logger) *Presenter {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	if prices == nil {
		prices = NewPriceFormatter("", "en-US")
	}
	if dateLayout == "" {
		dateLayout = DefaultDateLayout
	}

	return &Presenter{
		lookup:     lookup,
		prices:     prices,
		dateLayout: dateLayout,
		logger:     logger,
	}
}

// DateRangeLabel is DeriveDateRangeLabel with the presenter's layout.
func (p *Presenter) DateRangeLabel(reservation *models.Reservation) (*string, error) {
	return dateRangeLabel(reservation, p.dateLayout)
}

// Location resolves the listing's location. Lookup misses give an empty Location.
func (p *Presenter) Location(value string) Location {
	if p.lookup == nil {
		return Location{}
	}
	c, ok := p.lookup.GetByValue(value)
	if !ok {
		return Location{}
	}
	return Location{Region: c.Region, Label: c.Label, Flag: c.Flag}
}

// Present derives the card values for a listing and its optional reservation.
func (p *Presenter) Present(listing models.Listing, reservation *models.Reservation, opts Options) DisplayModel {
	dm := DisplayModel{
		ListingID:        listing.ID,
		Href:             ListingPath(listing.ID),
		ImageSrc:         listing.ImageSrc,
		Location:         p.Location(listing.LocationValue),
		Category:         listing.Category,
		Price:            DerivePrice(listing, reservation),
		ShowNightlyBadge: ShouldShowNightlyBadge(reservation),
		Favorited:        opts.Favorited,
	}
	dm.PriceLabel = p.prices.Format(dm.Price)

	label, err := p.DateRangeLabel(reservation)
	if err != nil {
		var formatErr *FormatError
		fields := logrus.Fields{"listing_id": listing.ID}
		if errors.As(err, &formatErr) {
			fields["field"] = formatErr.Field
		}
		p.logger.WithError(err).WithFields(fields).Warn("Failed to format reservation dates")
		label = nil
	}
	dm.DateRange = label

	dm.Subtitle = listing.Category
	if label != nil {
		dm.Subtitle = *label
	}

	if opts.ActionLabel != "" {
		dm.Action = &ActionControl{
			ID:       opts.ActionID,
			Label:    opts.ActionLabel,
			Disabled: opts.Disabled,
		}
	}

	return dm
}
