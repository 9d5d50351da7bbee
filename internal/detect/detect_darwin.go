//go:build darwin

package detect

import (
	"context"
	"time"

	"github.com/halolight/halo/internal/domain"
)

// All returns the full macOS detector suite in attribution priority
// order: native apps first, browser meeting tabs last.
func All() []domain.Detector {
	return []domain.Detector{
		newAppDetector("Slack Huddle", slackScript),
		newAppDetector("Zoom", zoomScript),
		newAppDetector("Microsoft Teams", teamsScript),
		newAppDetector("Telegram", telegramScript),
		newAppDetector("WhatsApp", whatsappScript),
		newAppDetector("Signal", signalScript),
		&browserDetector{},
	}
}

// appDetector asks System Events about one app's window titles. The
// script answers YES when a call-shaped window exists and NO otherwise,
// including when the app is not running at all.
type appDetector struct {
	platform string
	script   string
}

func newAppDetector(platform, script string) *appDetector {
	return &appDetector{platform: platform, script: script}
}

func (d *appDetector) Platform() string { return d.platform }

func (d *appDetector) Detect(ctx context.Context) (domain.DetectionResult, error) {
	out, err := runScript(ctx, d.script)
	if err != nil {
		return domain.DetectionResult{}, err
	}
	return domain.DetectionResult{
		Platform:   d.platform,
		Active:     out == "YES",
		ObservedAt: time.Now(),
	}, nil
}

// browserDetector scans Chrome, Safari and Edge tabs for meeting URLs.
// The attribution label names both the browser and the service, e.g.
// "Chrome (Google Meet)".
type browserDetector struct{}

func (d *browserDetector) Platform() string { return "Browser" }

func (d *browserDetector) Detect(ctx context.Context) (domain.DetectionResult, error) {
	browsers := []struct {
		app   string
		label string
	}{
		{"Google Chrome", "Chrome"},
		{"Safari", "Safari"},
		{"Microsoft Edge", "Edge"},
	}

	for _, b := range browsers {
		out, err := runScript(ctx, browserScript(b.app))
		if err != nil {
			return domain.DetectionResult{}, err
		}
		if platform, ok := parseBrowserHit(out, b.label); ok {
			return domain.DetectionResult{
				Platform:   platform,
				Active:     true,
				ObservedAt: time.Now(),
			}, nil
		}
	}
	return domain.DetectionResult{Platform: "Browser", ObservedAt: time.Now()}, nil
}

// ─── AppleScript snippets ───────────────────────────────────────────────────
// Window-title heuristics. Each app names its call windows differently;
// none of these are guaranteed stable across app updates, which is why
// the engine treats every answer as best-effort.

const slackScript = `
tell application "System Events"
	if exists (process "Slack") then
		set windowList to name of every window of process "Slack"
		repeat with windowName in windowList
			if windowName contains "Huddle" and windowName does not contain "Start" then
				return "YES"
			end if
		end repeat
	end if
	return "NO"
end tell`

const zoomScript = `
tell application "System Events"
	if exists (process "zoom.us") then
		set windowList to name of every window of process "zoom.us"
		repeat with windowName in windowList
			if windowName contains "Zoom Meeting" then
				return "YES"
			end if
			if windowName contains "Meeting" and windowName does not contain "Zoom Workplace" then
				return "YES"
			end if
			if windowName starts with "Zoom" and windowName contains "(" and windowName does not contain "Workplace" then
				return "YES"
			end if
		end repeat
	end if
	return "NO"
end tell`

const teamsScript = `
tell application "System Events"
	if exists (process "Microsoft Teams") then
		set windowList to name of every window of process "Microsoft Teams"
		repeat with windowName in windowList
			if windowName contains "Meeting" or windowName contains " | Call" or windowName contains "Calling" then
				return "YES"
			end if
			if windowName contains " | Microsoft Teams" then
				if windowName does not contain "Activity" and windowName does not contain "Chat" and windowName does not contain "Calendar" and windowName does not contain "Teams |" then
					try
						set w to window windowName of process "Microsoft Teams"
						set wSize to size of w
						if (item 1 of wSize) > 800 and (item 2 of wSize) > 600 then
							return "YES"
						end if
					end try
				end if
			end if
		end repeat
	end if
	return "NO"
end tell`

const telegramScript = `
tell application "System Events"
	if exists (process "Telegram") then
		set windowList to name of every window of process "Telegram"
		repeat with windowName in windowList
			if windowName contains "Call" or windowName contains "call" or windowName contains "Calling" then
				return "YES"
			end if
		end repeat
		if (count of windows of process "Telegram") >= 2 then
			return "YES"
		end if
	end if
	return "NO"
end tell`

const whatsappScript = `
tell application "System Events"
	if exists (process "WhatsApp") then
		set windowList to name of every window of process "WhatsApp"
		repeat with windowName in windowList
			if windowName contains "Call" or windowName contains "Calling" or windowName contains "Ringing" then
				return "YES"
			end if
		end repeat
	end if
	return "NO"
end tell`

const signalScript = `
tell application "System Events"
	if exists (process "Signal") then
		set windowList to name of every window of process "Signal"
		repeat with windowName in windowList
			if windowName contains "Call" or windowName contains "call" or windowName contains "Calling" then
				return "YES"
			end if
		end repeat
		if (count of windows of process "Signal") >= 2 then
			return "YES"
		end if
	end if
	return "NO"
end tell`

// browserScript builds the tab scan for one browser.
func browserScript(app string) string {
	return `
tell application "` + app + `"
	if it is running then
		repeat with w in windows
			repeat with t in tabs of w
				set tabURL to URL of t
				set tabTitle to title of t
				if tabURL contains "` + urlMeet + `" then
					return "MEET:" & tabTitle & "|" & tabURL
				else if tabURL contains "` + urlTeams + `" then
					return "TEAMS:" & tabTitle & "|" & tabURL
				else if tabURL contains "` + urlZoom + `" then
					return "ZOOM:" & tabTitle & "|" & tabURL
				else if tabURL contains "` + urlSlackHuddl + `" then
					return "SLACK:" & tabTitle & "|" & tabURL
				end if
			end repeat
		end repeat
	end if
	return "NO"
end tell`
}
