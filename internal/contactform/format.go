package contactform

import (
	"bytes"
	"html/template"
	"strings"
	"unicode/utf8"

	"github.com/mhanna50/Michaels-Portfolio-sub000/internal/platform/timeutil"
)

// Placeholder fills rows whose value is empty.
const Placeholder = "—"

// Rendered is a submission rendered for delivery.
type Rendered struct {
	HTML string
	Text string
}

type row struct {
	Label string
	Value string
}

type section struct {
	Title string
	Rows  []row
}

var htmlTemplate = template.Must(template.New("submission").Funcs(template.FuncMap{
	"multiline": multilineHTML,
}).Parse(`<div style="font-family:Arial,Helvetica,sans-serif;font-size:14px;color:#1f2933;line-height:1.5">
<h1 style="font-size:20px;margin:0 0 16px">New contact form submission</h1>
{{- range .}}
<h2 style="font-size:16px;margin:24px 0 8px;border-bottom:1px solid #e4e7eb;padding-bottom:4px">{{.Title}}</h2>
<table cellpadding="6" cellspacing="0" style="border-collapse:collapse;width:100%">
{{- range .Rows}}
<tr><th align="left" valign="top" style="width:200px;color:#52606d">{{.Label}}</th><td valign="top">{{multiline .Value}}</td></tr>
{{- end}}
</table>
{{- end}}
</div>`))

// FormatSubmission renders sub as an HTML fragment and a plain-text body with
// the same sections and rows.
func FormatSubmission(sub *Submission) (Rendered, error) {
	sections := buildSections(sub)

	var html bytes.Buffer
	if err := htmlTemplate.Execute(&html, sections); err != nil {
		return Rendered{}, err
	}
	return Rendered{HTML: html.String(), Text: renderText(sections)}, nil
}

func buildSections(sub *Submission) []section {
	sections := []section{
		{
			Title: "Basic Info",
			Rows: []row{
				{"Full name", sub.FullName},
				{"Business name", sub.BusinessName},
				{"Email", sub.Email},
				{"Phone", sub.Phone},
				{"Current website", sub.CurrentWebsite},
			},
		},
		{
			Title: "What They're Looking For",
			Rows: []row{
				{"Services", joinLabels(sub.Services)},
				{"Goals", sub.Goals},
			},
		},
	}

	if web := sub.WebDesign; web != nil {
		sections = append(sections, section{
			Title: "Web Design Questions",
			Rows: []row{
				{"Existing website", labelOf(web.Existing)},
				{"Challenges", web.Challenges},
				{"Desired features", joinLabels(web.Features)},
				{"Inspiration", web.Inspiration},
			},
		})
	}
	if branding := sub.Branding; branding != nil {
		sections = append(sections, section{
			Title: "Branding & SEO Questions",
			Rows: []row{
				{"Improvements", branding.Improvements},
				{"Focus areas", joinLabels(branding.Focus)},
				{"Competitors", branding.Competitors},
			},
		})
	}
	if automation := sub.Automation; automation != nil {
		sections = append(sections, section{
			Title: "Automation Questions",
			Rows: []row{
				{"Biggest bottleneck", automation.Bottleneck},
				{"Focus areas", joinLabels(automation.Focus)},
				{"Other notes", automation.Other},
			},
		})
	}

	submittedAt := ""
	if !sub.SubmittedAt.IsZero() {
		submittedAt = sub.SubmittedAt.UTC().Format(timeutil.RFC3339Millis)
	}
	sections = append(sections, section{
		Title: "Project Logistics",
		Rows: []row{
			{"Timeline", labelOf(sub.Timeline)},
			{"Budget", labelOf(sub.Budget)},
			{"Anything else", sub.AnythingElse},
			{"Submitted at", submittedAt},
		},
	})

	for i := range sections {
		for j := range sections[i].Rows {
			sections[i].Rows[j].Value = displayValue(sections[i].Rows[j].Value)
		}
	}
	return sections
}

type labeled interface {
	~string
	Label() string
}

func labelOf[T labeled](v T) string {
	if v == "" {
		return ""
	}
	return v.Label()
}

func joinLabels[T labeled](values []T) string {
	labels := make([]string, 0, len(values))
	for _, v := range values {
		labels = append(labels, v.Label())
	}
	return strings.Join(labels, ", ")
}

func displayValue(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\r", ""))
	if s == "" {
		return Placeholder
	}
	return s
}

// multilineHTML escapes s and turns newlines into line breaks.
func multilineHTML(s string) template.HTML {
	escaped := template.HTMLEscapeString(s)
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br />")) //nolint:gosec // escaped above
}

func renderText(sections []section) string {
	var b strings.Builder
	b.WriteString("New contact form submission\n")
	for _, s := range sections {
		b.WriteString("\n")
		b.WriteString(s.Title)
		b.WriteString("\n")
		b.WriteString(strings.Repeat("-", utf8.RuneCountInString(s.Title)))
		b.WriteString("\n")
		for _, r := range s.Rows {
			b.WriteString(r.Label)
			b.WriteString(": ")
			b.WriteString(r.Value)
			b.WriteString("\n")
		}
	}
	return b.String()
}
