// Package contactform turns an untrusted contact-form payload into a validated
// Submission and renders it as an email.
package contactform

import (
	"slices"
	"time"

	"github.com/jonboulle/clockwork"
)

// Validation messages, in the order the checks run.
const (
	MsgFullNameRequired     = "Full name is required."
	MsgEmailRequired        = "A valid email address is required."
	MsgGoalsRequired        = "Share the goals you are hoping to achieve."
	MsgServicesRequired     = "Select at least one service type."
	MsgExistingSiteRequired = "Let us know if you already have a website."
	MsgChallengesRequired   = "Tell us what is not working today or what your website needs to do."
	MsgImprovementsRequired = "Share what you would like to improve about your brand or SEO."
	MsgTimelineRequired     = "Select a project timeline."
	MsgBudgetRequired       = "Select a budget range."
)

// Submission is a validated contact form payload.
type Submission struct {
	FullName       string             `json:"fullName"`
	BusinessName   string             `json:"businessName"`
	Email          string             `json:"email"`
	Phone          string             `json:"phone"`
	CurrentWebsite string             `json:"currentWebsite"`
	Services       []Service          `json:"services"`
	Goals          string             `json:"goals"`
	WebDesign      *WebDesignAnswers  `json:"webDesign"`
	Branding       *BrandingAnswers   `json:"branding"`
	Automation     *AutomationAnswers `json:"automation"`
	Timeline       Timeline           `json:"timeline"`
	Budget         Budget             `json:"budget"`
	AnythingElse   string             `json:"anythingElse"`
	SubmittedAt    time.Time          `json:"submittedAt"`
}

// WebDesignAnswers is attached when the webDesign service is selected.
type WebDesignAnswers struct {
	Existing    ExistingSite `json:"existing"`
	Challenges  string       `json:"challenges"`
	Features    []WebFeature `json:"features"`
	Inspiration string       `json:"inspiration"`
}

// BrandingAnswers is attached when the brandingSeo service is selected.
type BrandingAnswers struct {
	Improvements string          `json:"improvements"`
	Focus        []BrandingFocus `json:"focus"`
	Competitors  string          `json:"competitors"`
}

// AutomationAnswers is attached when the aiAutomations service is selected.
// None of its fields is mandatory.
type AutomationAnswers struct {
	Bottleneck string            `json:"bottleneck"`
	Focus      []AutomationFocus `json:"focus"`
	Other      string            `json:"other"`
}

// HasService reports whether s was selected.
func (s *Submission) HasService(svc Service) bool {
	return slices.Contains(s.Services, svc)
}

// Normalizer stamps submissions with the time from its clock.
type Normalizer struct {
	clock clockwork.Clock
}

// NewNormalizer returns a Normalizer reading time from clock (real clock when nil).
func NewNormalizer(clock clockwork.Clock) *Normalizer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Normalizer{clock: clock}
}

// Normalize validates payload against the current time. See Normalize.
func (n *Normalizer) Normalize(payload map[string]any) (*Submission, error) {
	return Normalize(payload, n.clock.Now())
}

// Normalize sanitizes payload and validates it, stopping at the first failed
// rule. The returned error is always a *ValidationError.
func Normalize(payload map[string]any, now time.Time) (*Submission, error) {
	website := payload["currentWebsite"]
	if website == nil {
		website = payload["website"]
	}
	sub := &Submission{
		FullName:       SingleLine(payload["fullName"]),
		BusinessName:   SingleLine(payload["businessName"]),
		Email:          Email(payload["email"]),
		Phone:          Phone(payload["phone"]),
		CurrentWebsite: URL(website),
		Services:       pickList(payload["services"], services),
		Goals:          MultiLine(payload["goals"]),
		Timeline:       pickChoice(payload["timeline"], timelines),
		Budget:         pickChoice(payload["budget"], budgets),
		AnythingElse:   MultiLine(payload["anythingElse"]),
		SubmittedAt:    now,
	}

	if sub.FullName == "" {
		return nil, invalid(MsgFullNameRequired)
	}
	if sub.Email == "" {
		return nil, invalid(MsgEmailRequired)
	}
	if sub.Goals == "" {
		return nil, invalid(MsgGoalsRequired)
	}
	if len(sub.Services) == 0 {
		return nil, invalid(MsgServicesRequired)
	}

	if sub.HasService(ServiceWebDesign) {
		web := &WebDesignAnswers{
			Existing:    pickChoice(payload["webDesignExisting"], existingSites),
			Challenges:  MultiLine(payload["webDesignChallenges"]),
			Features:    pickList(payload["webDesignFeatures"], webFeatures),
			Inspiration: MultiLine(payload["webDesignInspiration"]),
		}
		if web.Existing == "" {
			return nil, invalid(MsgExistingSiteRequired)
		}
		if web.Challenges == "" {
			return nil, invalid(MsgChallengesRequired)
		}
		sub.WebDesign = web
	}

	if sub.HasService(ServiceBrandingSEO) {
		branding := &BrandingAnswers{
			Improvements: MultiLine(payload["brandingImprovements"]),
			Focus:        pickList(payload["brandingFocus"], brandingFocuses),
			Competitors:  MultiLine(payload["brandingCompetitors"]),
		}
		if branding.Improvements == "" {
			return nil, invalid(MsgImprovementsRequired)
		}
		sub.Branding = branding
	}

	if sub.HasService(ServiceAIAutomations) {
		sub.Automation = &AutomationAnswers{
			Bottleneck: MultiLine(payload["automationBottleneck"]),
			Focus:      pickList(payload["automationFocus"], automationFocuses),
			Other:      MultiLine(payload["automationOther"]),
		}
	}

	if sub.Timeline == "" {
		return nil, invalid(MsgTimelineRequired)
	}
	if sub.Budget == "" {
		return nil, invalid(MsgBudgetRequired)
	}
	return sub, nil
}

func invalid(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}
