package attendance

import (
	"time"

	"go-hr-payroll/internal/leavemaster"
)

// DayStatus is the canonical classification of one calendar day. It is derived
// from the stored record and never persisted.
type DayStatus string

const (
	DayHoliday        DayStatus = "HOLIDAY"
	DayNotMarked      DayStatus = "NOT_MARKED"
	DayMandatoryLeave DayStatus = "MANDATORY_LEAVE"
	DaySpecialLeave   DayStatus = "SPECIAL_LEAVE"
	DayPunchInOnly    DayStatus = "PUNCH_IN_ONLY"
	DayFull           DayStatus = "FULL_DAY"
	DayVerified       DayStatus = "VERIFIED"
	DayHalf           DayStatus = "HALF_DAY"
	DayVerifiedHalf   DayStatus = "VERIFIED_HALF"
	DayLeave          DayStatus = "LEAVE"
)

func (s DayStatus) Valid() bool {
	switch s {
	case DayHoliday, DayNotMarked, DayMandatoryLeave, DaySpecialLeave, DayPunchInOnly,
		DayFull, DayVerified, DayHalf, DayVerifiedHalf, DayLeave:
		return true
	}
	return false
}

// IsVerified reports whether the status was produced from a verified record.
func (s DayStatus) IsVerified() bool {
	return s == DayVerified || s == DayVerifiedHalf
}

type resolveInput struct {
	date   time.Time
	record *Record
	leave  *leavemaster.LeaveMaster
}

// resolveRule returns ok=false when it does not apply.
type resolveRule struct {
	name  string
	apply func(in resolveInput) (DayStatus, bool)
}

// resolveRules are evaluated in order and the first match wins.
var resolveRules = []resolveRule{
	{
		name: "weekly_rest",
		apply: func(in resolveInput) (DayStatus, bool) {
			return DayHoliday, in.date.Weekday() == time.Sunday
		},
	},
	{
		name: "no_record",
		apply: func(in resolveInput) (DayStatus, bool) {
			return DayNotMarked, in.record == nil
		},
	},
	{
		name: "raw_mandatory_holiday",
		apply: func(in resolveInput) (DayStatus, bool) {
			return DayMandatoryLeave, in.record.Status == RawMandatoryHoliday
		},
	},
	{
		name: "raw_special_leave",
		apply: func(in resolveInput) (DayStatus, bool) {
			return DaySpecialLeave, in.record.Status == RawSpecialLeave
		},
	},
	{
		// rows written before the raw holiday codes existed only carry the master
		name: "leave_master_category",
		apply: func(in resolveInput) (DayStatus, bool) {
			if in.leave == nil {
				return "", false
			}
			switch in.leave.Category {
			case leavemaster.CategorySpecial:
				return DaySpecialLeave, true
			case leavemaster.CategoryMandatoryHoliday:
				return DayMandatoryLeave, true
			}
			return "", false
		},
	},
	{
		name: "open_shift",
		apply: func(in resolveInput) (DayStatus, bool) {
			return DayPunchInOnly, in.record.HasPunchIn() && !in.record.HasPunchOut()
		},
	},
	{
		name:  "raw_status",
		apply: resolveRawStatus,
	},
}

func resolveRawStatus(in resolveInput) (DayStatus, bool) {
	rec := in.record
	switch rec.Status {
	case RawFull, RawPresent:
		if rec.Verified {
			return DayVerified, true
		}
		return DayFull, true
	case RawHalf:
		if rec.Verified && rec.HasPunchIn() && rec.HasPunchOut() {
			return DayVerifiedHalf, true
		}
		return DayHalf, true
	case RawLeave:
		return DayLeave, true
	case RawHoliday:
		return DayHoliday, true
	default:
		return DayNotMarked, true
	}
}

// Resolve classifies a single day. record and leave may be nil.
func Resolve(record *Record, date time.Time, leave *leavemaster.LeaveMaster) DayStatus {
	in := resolveInput{date: date, record: record, leave: leave}
	for _, rule := range resolveRules {
		if status, ok := rule.apply(in); ok {
			return status
		}
	}
	return DayNotMarked
}

// ResolvedDay is one entry of a resolved month.
type ResolvedDay struct {
	Date          string    `json:"date"`
	Weekday       string    `json:"weekday"`
	Status        DayStatus `json:"status"`
	Verified      bool      `json:"verified"`
	RawStatus     string    `json:"raw_status,omitempty"`
	LeaveMasterID string    `json:"leave_master_id,omitempty"`
	LeaveCategory string    `json:"leave_category,omitempty"`
	LeaveName     string    `json:"leave_name,omitempty"`
	Source        string    `json:"source,omitempty"`
}

// ResolveMonth resolves every day of the month. byDate must already hold at most
// one record per date.
func ResolveMonth(byDate map[string]*Record, catalog *leavemaster.Catalog, year, month int) []ResolvedDay {
	entries := resolveMonth(byDate, catalog, year, month)
	days := make([]ResolvedDay, len(entries))
	for i, e := range entries {
		days[i] = e.day
	}
	return days
}

type resolvedEntry struct {
	day   ResolvedDay
	leave *leavemaster.LeaveMaster
}

func resolveMonth(byDate map[string]*Record, catalog *leavemaster.Catalog, year, month int) []resolvedEntry {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	entries := make([]resolvedEntry, 0, 31)

	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		rec := byDate[key]

		var lm *leavemaster.LeaveMaster
		if rec != nil {
			lm = catalog.Get(rec.LeaveMasterID)
		}

		day := ResolvedDay{
			Date:    key,
			Weekday: d.Weekday().String(),
			Status:  Resolve(rec, d, lm),
		}
		if rec != nil {
			day.Verified = rec.Verified
			day.RawStatus = string(rec.Status)
			day.Source = rec.Source
		}
		if lm != nil {
			day.LeaveMasterID = lm.ID.String()
			day.LeaveCategory = string(lm.Category)
			day.LeaveName = lm.Name
		}
		entries = append(entries, resolvedEntry{day: day, leave: lm})
	}

	return entries
}
