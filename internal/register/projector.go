package register

import (
	"context"
	"errors"
	"strings"

	"github.com/rlourenco/bicicletario/internal/common"
	"github.com/rlourenco/bicicletario/internal/models"
)

// UncategorizedLabel is the bucket used when neither the entry nor its
// client carries a category.
const UncategorizedLabel = "none"

// Row is one joined line of the daily view: the entry plus the resolved
// client and bike master records.
type Row struct {
	Client models.Client
	Bike   models.Bike
	Entry  models.Entry
}

// DailyView is the projector's output for one date: the joined rows in
// repository insertion order plus the two rollups consumers render.
type DailyView struct {
	Date       string
	Rows       []Row
	Categories map[string]int
	Overnight  []Row
}

// Projector joins entries with client/bike master data for a target date.
// It performs no caching; every call recomputes from the full repository.
type Projector struct {
	repo   *Repository
	master MasterData
}

func NewProjector(repo *Repository, master MasterData) *Projector {
	return &Projector{repo: repo, master: master}
}

// Project returns the daily view for date (local calendar date, formatted
// 2006-01-02) with an optional case-insensitive free-text filter. The filter
// matches client name, bike model and bike brand as substrings, and the
// client document on a digits-only comparison that ignores punctuation.
//
// Rows whose client or bike cannot be resolved in the master data are
// silently dropped (orphan tolerance).
func (p *Projector) Project(ctx context.Context, date string, filter string) (*DailyView, error) {
	view := &DailyView{Date: date, Categories: make(map[string]int)}

	needle := strings.ToLower(strings.TrimSpace(filter))
	digits := digitsOnly(needle)

	for _, e := range p.repo.GetAll() {
		if e.LocalDate() != date {
			continue
		}

		client, err := p.master.FindClientByID(ctx, e.ClientID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				continue
			}
			return nil, err
		}
		bike, ok := client.BikeByID(e.BikeID)
		if !ok {
			continue
		}

		if needle != "" && !matches(client, bike, needle, digits) {
			continue
		}

		row := Row{Client: *client, Bike: bike, Entry: e}
		view.Rows = append(view.Rows, row)
		view.Categories[resolveCategory(e, client)]++
		if e.Overnight {
			view.Overnight = append(view.Overnight, row)
		}
	}

	return view, nil
}

func resolveCategory(e models.Entry, c *models.Client) string {
	if e.Category != "" {
		return e.Category
	}
	if c.Category != "" {
		return c.Category
	}
	return UncategorizedLabel
}

func matches(client *models.Client, bike models.Bike, needle, digits string) bool {
	if strings.Contains(strings.ToLower(client.Name), needle) ||
		strings.Contains(strings.ToLower(bike.Model), needle) ||
		strings.Contains(strings.ToLower(bike.Brand), needle) {
		return true
	}
	// CPF-like identifiers match on digits only, so "123.456" finds "123456".
	if digits != "" && strings.Contains(digitsOnly(client.Document), digits) {
		return true
	}
	return false
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
