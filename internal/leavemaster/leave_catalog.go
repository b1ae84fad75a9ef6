package leavemaster

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Catalog is an immutable lookup over the active leave masters of one company.
type Catalog struct {
	byID    map[uuid.UUID]LeaveMaster
	ordered []LeaveMaster
}

// NewCatalog keeps only active masters. Later duplicates of an id replace earlier ones.
func NewCatalog(masters []LeaveMaster) *Catalog {
	c := &Catalog{byID: make(map[uuid.UUID]LeaveMaster, len(masters))}
	for _, lm := range masters {
		if !lm.IsActive {
			continue
		}
		c.byID[lm.ID] = lm
	}

	c.ordered = make([]LeaveMaster, 0, len(c.byID))
	for _, lm := range c.byID {
		c.ordered = append(c.ordered, lm)
	}
	sort.Slice(c.ordered, func(i, j int) bool {
		return c.ordered[i].Name < c.ordered[j].Name
	})
	return c
}

// Get returns the master referenced by id, or nil when id is nil or unknown.
func (c *Catalog) Get(id *uuid.UUID) *LeaveMaster {
	if c == nil || id == nil {
		return nil
	}
	lm, ok := c.byID[*id]
	if !ok {
		return nil
	}
	return &lm
}

func (c *Catalog) All() []LeaveMaster {
	if c == nil {
		return nil
	}
	out := make([]LeaveMaster, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// AnnualAllowance sums the allowances of all active masters in the category.
func (c *Catalog) AnnualAllowance(category Category) int {
	if c == nil {
		return 0
	}
	total := 0
	for _, lm := range c.ordered {
		if lm.Category == category {
			total += lm.AnnualAllowance
		}
	}
	return total
}

// FixedHolidaysIn returns mandatory holidays pinned to a date in the month, keyed by date.
func (c *Catalog) FixedHolidaysIn(year, month int) map[string]LeaveMaster {
	out := map[string]LeaveMaster{}
	if c == nil {
		return out
	}
	for _, lm := range c.ordered {
		if lm.Category != CategoryMandatoryHoliday || lm.FixedDate == nil {
			continue
		}
		d := *lm.FixedDate
		if d.Year() == year && d.Month() == time.Month(month) {
			out[d.Format("2006-01-02")] = lm
		}
	}
	return out
}
