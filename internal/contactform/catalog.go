package contactform

// Service is an offering a prospect can select.
type Service string

const (
	ServiceWebDesign     Service = "webDesign"
	ServiceBrandingSEO   Service = "brandingSeo"
	ServiceAIAutomations Service = "aiAutomations"
	ServiceUnsure        Service = "unsure"
)

// Timeline is the desired project start.
type Timeline string

const (
	TimelineASAP             Timeline = "asap"
	TimelineOneToThreeMonths Timeline = "oneToThreeMonths"
	TimelineThreeToSixMonths Timeline = "threeToSixMonths"
	TimelineFlexible         Timeline = "flexible"
)

// Budget is the prospect's budget range.
type Budget string

const (
	BudgetUnder1k      Budget = "under1k"
	BudgetOneToThreeK  Budget = "oneToThreeK"
	BudgetThreeToFiveK Budget = "threeToFiveK"
	BudgetFiveToTenK   Budget = "fiveToTenK"
	BudgetTenKPlus     Budget = "tenKPlus"
	BudgetNotSure      Budget = "notSure"
)

// ExistingSite answers whether the prospect already has a website.
type ExistingSite string

const (
	ExistingSiteYes ExistingSite = "yes"
	ExistingSiteNo  ExistingSite = "no"
)

// WebFeature is a feature requested for a new site.
type WebFeature string

const (
	FeatureOnlineBooking WebFeature = "onlineBooking"
	FeatureEcommerce     WebFeature = "ecommerce"
	FeatureBlog          WebFeature = "blog"
	FeatureContactForms  WebFeature = "contactForms"
	FeaturePortfolio     WebFeature = "portfolio"
	FeatureMemberships   WebFeature = "memberships"
)

// BrandingFocus is an area of branding or SEO work.
type BrandingFocus string

const (
	BrandingLogo        BrandingFocus = "logo"
	BrandingGuidelines  BrandingFocus = "brandGuidelines"
	BrandingSEO         BrandingFocus = "seo"
	BrandingLocalSEO    BrandingFocus = "localSeo"
	BrandingSocialMedia BrandingFocus = "socialMedia"
)

// AutomationFocus is a workflow the prospect wants automated.
type AutomationFocus string

const (
	AutomationLeadCapture    AutomationFocus = "leadCapture"
	AutomationScheduling     AutomationFocus = "scheduling"
	AutomationEmailMarketing AutomationFocus = "emailMarketing"
	AutomationChatbots       AutomationFocus = "chatbots"
	AutomationCRM            AutomationFocus = "crm"
	AutomationReporting      AutomationFocus = "reporting"
)

type entry[T ~string] struct {
	key   T
	label string
}

// catalog is a closed set of keys with display labels, in declaration order.
type catalog[T ~string] struct {
	keys   []T
	labels map[T]string
}

func newCatalog[T ~string](entries ...entry[T]) catalog[T] {
	c := catalog[T]{
		keys:   make([]T, 0, len(entries)),
		labels: make(map[T]string, len(entries)),
	}
	for _, e := range entries {
		c.keys = append(c.keys, e.key)
		c.labels[e.key] = e.label
	}
	return c
}

func (c catalog[T]) has(key T) bool {
	_, ok := c.labels[key]
	return ok
}

// label falls back to the raw key for values outside the catalog.
func (c catalog[T]) label(key T) string {
	if l, ok := c.labels[key]; ok {
		return l
	}
	return string(key)
}

func (c catalog[T]) all() []T {
	return append([]T(nil), c.keys...)
}

var (
	services = newCatalog(
		entry[Service]{ServiceWebDesign, "Web Design"},
		entry[Service]{ServiceBrandingSEO, "Branding & SEO"},
		entry[Service]{ServiceAIAutomations, "AI Automations"},
		entry[Service]{ServiceUnsure, "Not Sure Yet"},
	)
	timelines = newCatalog(
		entry[Timeline]{TimelineASAP, "ASAP"},
		entry[Timeline]{TimelineOneToThreeMonths, "1–3 months"},
		entry[Timeline]{TimelineThreeToSixMonths, "3–6 months"},
		entry[Timeline]{TimelineFlexible, "Flexible / no rush"},
	)
	budgets = newCatalog(
		entry[Budget]{BudgetUnder1k, "Under $1k"},
		entry[Budget]{BudgetOneToThreeK, "$1k–$3k"},
		entry[Budget]{BudgetThreeToFiveK, "$3k–$5k"},
		entry[Budget]{BudgetFiveToTenK, "$5k–$10k"},
		entry[Budget]{BudgetTenKPlus, "$10k+"},
		entry[Budget]{BudgetNotSure, "Not sure yet"},
	)
	existingSites = newCatalog(
		entry[ExistingSite]{ExistingSiteYes, "Yes"},
		entry[ExistingSite]{ExistingSiteNo, "No"},
	)
	webFeatures = newCatalog(
		entry[WebFeature]{FeatureOnlineBooking, "Online booking"},
		entry[WebFeature]{FeatureEcommerce, "E-commerce"},
		entry[WebFeature]{FeatureBlog, "Blog"},
		entry[WebFeature]{FeatureContactForms, "Contact forms"},
		entry[WebFeature]{FeaturePortfolio, "Portfolio / gallery"},
		entry[WebFeature]{FeatureMemberships, "Memberships"},
	)
	brandingFocuses = newCatalog(
		entry[BrandingFocus]{BrandingLogo, "Logo"},
		entry[BrandingFocus]{BrandingGuidelines, "Brand guidelines"},
		entry[BrandingFocus]{BrandingSEO, "SEO"},
		entry[BrandingFocus]{BrandingLocalSEO, "Local SEO"},
		entry[BrandingFocus]{BrandingSocialMedia, "Social media"},
	)
	automationFocuses = newCatalog(
		entry[AutomationFocus]{AutomationLeadCapture, "Lead capture"},
		entry[AutomationFocus]{AutomationScheduling, "Scheduling"},
		entry[AutomationFocus]{AutomationEmailMarketing, "Email marketing"},
		entry[AutomationFocus]{AutomationChatbots, "Chatbots"},
		entry[AutomationFocus]{AutomationCRM, "CRM"},
		entry[AutomationFocus]{AutomationReporting, "Reporting"},
	)
)

func (s Service) Label() string         { return services.label(s) }
func (t Timeline) Label() string        { return timelines.label(t) }
func (b Budget) Label() string          { return budgets.label(b) }
func (e ExistingSite) Label() string    { return existingSites.label(e) }
func (f WebFeature) Label() string      { return webFeatures.label(f) }
func (f BrandingFocus) Label() string   { return brandingFocuses.label(f) }
func (f AutomationFocus) Label() string { return automationFocuses.label(f) }

// Services lists every known service tag.
func Services() []Service { return services.all() }

// Timelines lists every known timeline.
func Timelines() []Timeline { return timelines.all() }

// Budgets lists every known budget range.
func Budgets() []Budget { return budgets.all() }
