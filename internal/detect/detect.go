// Package detect implements the platform call detectors: best-effort
// probes that ask whether a call or meeting appears active in a given
// app or browser tab. Detectors are ordered; the engine attributes a
// call to the first active one.
//
// On macOS detection shells out to osascript for window titles and tab
// URLs. Other platforms currently register no call detectors — the
// engine still runs the idle side of the state machine.
package detect

import "strings"

// browser tab URL fragments that indicate a live meeting.
const (
	urlMeet       = "meet.google.com"
	urlTeams      = "teams.microsoft.com"
	urlZoom       = "zoom.us/j/"
	urlSlackHuddl = "slack.com/huddle"
)

// serviceLabel maps the script's service tag to a display name.
func serviceLabel(service string) string {
	switch service {
	case "MEET":
		return "Google Meet"
	case "TEAMS":
		return "Teams"
	case "ZOOM":
		return "Zoom"
	case "SLACK":
		return "Slack"
	default:
		return ""
	}
}

// parseBrowserHit parses a browser script result of the form
// "SERVICE:Title|URL" into an attribution label like
// "Chrome (Google Meet)". "NO" and anything unparseable report no hit.
func parseBrowserHit(raw, browser string) (platform string, ok bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "NO" {
		return "", false
	}
	service, rest, found := strings.Cut(raw, ":")
	if !found {
		return "", false
	}
	if _, _, found := strings.Cut(rest, "|"); !found {
		return "", false
	}
	label := serviceLabel(service)
	if label == "" {
		return browser + " Browser", true
	}
	return browser + " (" + label + ")", true
}
