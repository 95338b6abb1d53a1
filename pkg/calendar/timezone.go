package calendar

import (
	"time"

	"github.com/emersion/go-ical"
)

// Windows zone names seen in Outlook exports, mapped to IANA names
var windowsToIANA = map[string]string{
	"Pacific Standard Time":        "America/Los_Angeles",
	"Mountain Standard Time":       "America/Denver",
	"Central Standard Time":        "America/Chicago",
	"Eastern Standard Time":        "America/New_York",
	"GMT Standard Time":            "Europe/London",
	"Central Europe Standard Time": "Europe/Paris",
	"China Standard Time":          "Asia/Shanghai",
	"Tokyo Standard Time":          "Asia/Tokyo",
	"India Standard Time":          "Asia/Kolkata",
	"AUS Eastern Standard Time":    "Australia/Sydney",
}

// propLocation is the zone a date-time property is written in. Floating
// values and unknown zones are read as local time.
func propLocation(prop *ical.Prop) *time.Location {
	tzid := prop.Params.Get(ical.ParamTimezoneID)
	if tzid == "" {
		return time.Local
	}
	if iana, ok := windowsToIANA[tzid]; ok {
		tzid = iana
		prop.Params.Set(ical.ParamTimezoneID, iana)
	}
	if loc, err := time.LoadLocation(tzid); err == nil {
		return loc
	}
	// go-ical would otherwise fail on the unknown TZID
	delete(prop.Params, ical.ParamTimezoneID)
	return time.Local
}
