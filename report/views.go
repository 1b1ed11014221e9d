package report

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/samber/lo"

	"github.com/networkteam/shopcheck/collector"
	"github.com/networkteam/shopcheck/internal/view"
)

const pageCSS = `
body { font-family: system-ui, sans-serif; margin: 2rem; color: #111; }
header { margin-bottom: 2rem; }
.entry { border: 1px solid #ddd; border-radius: 6px; padding: 1rem; margin-bottom: 2rem; }
.entry h2 { margin: 0 0 .5rem; font-size: 1.1rem; font-family: monospace; }
.meta { color: #555; font-size: .9rem; }
.entry img { max-width: 100%; border: 1px solid #eee; margin: 1rem 0; }
.badge { display: inline-block; border-radius: 9999px; padding: .1rem .6rem; font-size: .75rem; font-family: monospace; margin-right: .3rem; }
.badge-secondary { background: #e5e5e5; }
.badge-success { background: #16a34a; color: #fff; }
.badge-warning { background: #fb923c; color: #fff; }
.badge-error { background: #ef4444; color: #fff; }
table.logs { border-collapse: collapse; font-size: .85rem; width: 100%; }
table.logs td { border-top: 1px solid #eee; padding: .2rem .4rem; vertical-align: top; }
.error { color: #b91c1c; }
`

// Page is the complete report document.
func Page(r *Report) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := view.New(w)
		summary := r.Summary()

		h.Raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>shopcheck report</title>`)
		h.Raw("<style>" + pageCSS + "</style>")
		h.Component(ctx, chromaStyles())
		h.Raw(`</head><body><header><h1>Failed tests</h1><p class="meta">`)
		h.Text(fmt.Sprintf("%d failures in %s, generated %s", summary.Failures, lo.CoalesceOrEmpty(r.Dir, "."), r.Generated.Format(time.DateTime)))
		h.Raw(`</p></header>`)

		if len(r.Entries) == 0 {
			h.Raw(`<p class="empty">No failures recorded.</p>`)
		}
		for _, e := range r.Entries {
			h.Component(ctx, entryView(e, r.Generated))
		}
		h.Raw(`</body></html>`)
		return h.Err()
	})
}

func entryView(e Entry, now time.Time) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := view.New(w)
		h.Printf(`<section class="entry" id="%s">`, templ.EscapeString(e.Name))
		h.Raw("<h2>")
		h.Text(e.Test())
		h.Raw("</h2>")

		h.Raw(`<p class="meta">`)
		if d := e.Diagnostics; d != nil {
			h.Component(ctx, badge(BadgeProps{Variant: BadgeVariantSecondary}, d.Browser+"/"+d.Engine))
			h.Component(ctx, countBadge(d.ConsoleErrors, "console error"))
			h.Component(ctx, countBadge(d.FailedResponses, "failed response"))
		}
		h.Text("captured " + formatAge(e.Time, now))
		if e.Diagnostics != nil && e.Diagnostics.URL != "" {
			h.Text(" at " + e.Diagnostics.URL)
		}
		h.Raw("</p>")

		if e.Screenshot != nil {
			h.Printf(`<img src="data:image/png;base64,%s" alt="%s">`,
				base64.StdEncoding.EncodeToString(e.ScreenshotData),
				templ.EscapeString("Screenshot of "+e.Test()))
		}
		if e.Err != "" {
			h.Raw(`<p class="error">`)
			h.Text(e.Err)
			h.Raw("</p>")
		}
		if e.Diagnostics != nil && len(e.Diagnostics.Logs) > 0 {
			h.Component(ctx, logsView(e.Diagnostics.Logs))
		}
		if e.DiagnosticsJSON != "" {
			h.Raw("<details><summary>Diagnostics</summary>")
			h.Component(ctx, highlightContent(e.DiagnosticsJSON, "application/json"))
			h.Raw("</details>")
		}
		h.Raw("</section>")
		return h.Err()
	})
}

func countBadge(n int, noun string) templ.Component {
	variant := BadgeVariantSuccess
	if n > 0 {
		variant = BadgeVariantError
	}
	label := fmt.Sprintf("%d %s", n, noun)
	if n != 1 {
		label += "s"
	}
	return badge(BadgeProps{Variant: variant}, label)
}

func logsView(logs []collector.LogEntry) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := view.New(w)
		h.Raw(`<table class="logs">`)
		for _, e := range logs {
			h.Raw("<tr><td>")
			h.Text(e.Time.Format("15:04:05.000"))
			h.Raw("</td><td>")
			h.Component(ctx, badge(BadgeProps{Variant: levelVariant(e.Level)}, e.Level))
			h.Raw("</td><td>")
			h.Text(e.Message)
			h.Raw("</td></tr>")
		}
		h.Raw("</table>")
		return h.Err()
	})
}

func levelVariant(level string) BadgeVariant {
	switch {
	case strings.HasPrefix(level, "ERROR"):
		return BadgeVariantError
	case strings.HasPrefix(level, "WARN"):
		return BadgeVariantWarning
	case strings.HasPrefix(level, "DEBUG"):
		return BadgeVariantOutline
	}
	return BadgeVariantSecondary
}

func formatAge(t, now time.Time) string {
	if t.IsZero() {
		return "at an unknown time"
	}
	d := now.Sub(t)
	if d < 0 {
		return "in the future"
	}
	if d < time.Minute {
		return fmt.Sprintf("%d seconds ago", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%d minutes ago", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%d hours ago", int(d.Hours()))
	}
	return fmt.Sprintf("%d days ago", int(d.Hours()/24))
}
