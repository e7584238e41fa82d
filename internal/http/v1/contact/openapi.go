package contact

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mhanna50/Michaels-Portfolio-sub000/internal/contactform"
)

// MetadataJSONOnly marks operations that must not advertise CBOR.
const MetadataJSONOnly = "jsonOnly"

func errorResponse(description string) *huma.Response {
	return &huma.Response{
		Description: description,
		Content: map[string]*huma.MediaType{
			"application/json": {Schema: &huma.Schema{
				Type:       huma.TypeObject,
				Properties: map[string]*huma.Schema{"error": {Type: huma.TypeString}},
				Required:   []string{"error"},
			}},
		},
	}
}

func enumOf[T ~string](values []T) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// requestSchema documents the main fields. The handler validates the body
// itself, so the schema is informational and extra fields are allowed.
func requestSchema() *huma.Schema {
	str := func(desc string) *huma.Schema {
		return &huma.Schema{Type: huma.TypeString, Description: desc}
	}
	return &huma.Schema{
		Type: huma.TypeObject,
		Properties: map[string]*huma.Schema{
			"fullName":       str("Submitter's name"),
			"businessName":   str("Business name"),
			"email":          {Type: huma.TypeString, Format: "email", Description: "Reply-to address"},
			"phone":          str("Phone number"),
			"currentWebsite": str("Existing website URL"),
			"goals":          str("What the project should achieve"),
			"services": {
				Type:        huma.TypeArray,
				Description: "Requested services",
				Items:       &huma.Schema{Type: huma.TypeString, Enum: enumOf(contactform.Services())},
			},
			"timeline":     {Type: huma.TypeString, Enum: enumOf(contactform.Timelines())},
			"budget":       {Type: huma.TypeString, Enum: enumOf(contactform.Budgets())},
			"anythingElse": str("Free-form notes"),
		},
		Required:             []string{"fullName", "email", "goals", "services", "timeline", "budget"},
		AdditionalProperties: true,
	}
}

// document adds the contact operations to the OpenAPI description. The
// handler itself is mounted directly on the router.
func document(oapi *huma.OpenAPI) {
	oapi.AddOperation(&huma.Operation{
		OperationID: "submit-contact-form",
		Method:      http.MethodPost,
		Path:        Path,
		Summary:     "Submit the contact form",
		Description: "Validates the submission and emails it to the studio. Unknown fields are ignored.",
		Tags:        []string{"Contact"},
		Metadata:    map[string]any{MetadataJSONOnly: true},
		RequestBody: &huma.RequestBody{
			Description: "Contact form fields (fullName, email, goals, services, timeline, budget and the per-service answers).",
			Content: map[string]*huma.MediaType{
				"application/json": {Schema: requestSchema()},
			},
		},
		Responses: map[string]*huma.Response{
			"200": {
				Description: "Submission delivered",
				Content: map[string]*huma.MediaType{
					"application/json": {Schema: &huma.Schema{
						Type:       huma.TypeObject,
						Properties: map[string]*huma.Schema{"message": {Type: huma.TypeString}},
						Required:   []string{"message"},
					}},
				},
			},
			"400": errorResponse("Invalid submission"),
			"405": errorResponse("Method not allowed"),
			"500": errorResponse("Contact form is not configured"),
			"502": errorResponse("Email provider failed"),
		},
	})
	oapi.AddOperation(&huma.Operation{
		OperationID: "preflight-contact-form",
		Method:      http.MethodOptions,
		Path:        Path,
		Summary:     "CORS preflight for the contact form",
		Tags:        []string{"Contact"},
		Responses: map[string]*huma.Response{
			"200": {Description: "Preflight accepted"},
		},
		Metadata: map[string]any{MetadataJSONOnly: true},
	})
}
