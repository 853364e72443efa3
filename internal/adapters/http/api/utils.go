// Package api declares HTTP contracts and route registration helpers.
package api

import "strings"

// Route fragments for roster actions under /activities/{name}/<action>.
const (
	activitiesPrefix = "/activities/"
	signupSuffix     = "/signup"
	unregisterSuffix = "/unregister"
)

// activityName extracts the activity name from an action path such as
// /activities/Chess Club/signup. The mux hands handlers a decoded path, so
// percent-escapes in the name are already resolved. ok is false when the
// path does not carry the expected prefix and action suffix.
func activityName(path, suffix string) (string, bool) {
	rest := strings.TrimPrefix(path, activitiesPrefix)
	if rest == path || !strings.HasSuffix(rest, suffix) {
		return "", false
	}
	return strings.TrimSuffix(rest, suffix), true
}
