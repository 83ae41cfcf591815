package helpers

import (
	"context"
	"fmt"
	"strings"
	"time"

	mailtpl "github.com/oksasatya/loyalty-funnel/pkg/mailer/templates"
)

// LocalizeTimesIfPossible rewrites data["Time"] in the timezone of data["IP"]
// and fills data["Location"] when it is blank. Lookup failures leave data as is.
func LocalizeTimesIfPossible(ctx context.Context, resolver mailtpl.GeoResolver, data map[string]any) {
	if resolver == nil {
		return
	}
	ipVal, ok := data["IP"]
	if !ok || ipVal == nil || fmt.Sprintf("%v", ipVal) == "" {
		return
	}
	g, err := resolver.Lookup(ctx, fmt.Sprintf("%v", ipVal))
	if err != nil {
		return
	}
	if v, ok := data["Location"]; !ok || v == nil || fmt.Sprintf("%v", v) == "" {
		if loc := mailtpl.FormatGeo(g); loc != "" {
			data["Location"] = loc
		}
	}
	if strings.TrimSpace(g.Timezone) == "" {
		return
	}
	loc, err := time.LoadLocation(g.Timezone)
	if err != nil {
		return
	}
	if v, ok := data["TimeAt"]; ok {
		if t, ok := parseTimeAny(v); ok && !t.IsZero() {
			data["Time"] = t.In(loc).Format("02 January 2006, 15:04 MST")
		}
	}
}

func parseTimeAny(v any) (time.Time, bool) {
	if t, ok := v.(time.Time); ok {
		return t, true
	}
	s := fmt.Sprintf("%v", v)
	for _, l := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05 -0700 MST"} {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
