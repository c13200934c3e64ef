package emails

import "regexp"

// Template is a step notification email with {{variable}} placeholders.
type Template struct {
	Subject string
	Body    string
}

var placeholderPattern = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_]+)\s*\}\}`)

// Render substitutes {{name}} placeholders from the variable map. Unknown
// placeholders render as empty strings rather than leaking the raw marker.
func (t Template) Render(vars map[string]string) (subject string, body string) {
	return renderText(t.Subject, vars), renderText(t.Body, vars)
}

func renderText(text string, vars map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		return vars[name]
	})
}

// stepTemplates is keyed by the step that was just completed.
var stepTemplates = map[int]Template{
	1: {
		Subject: "Partnership confirmed, let's get your shipment ready, {{influencerName}}",
		Body: "Hi {{influencerName}},\n\n" +
			"Great news: your partnership is confirmed at {{agreedPrice}}.\n" +
			"Next up we need your shipping details so we can send the product your way.\n" +
			"Please fill in your address and a product suggestion in your portal.\n\n" +
			"Talk soon,\nThe partnerships team",
	},
	2: {
		Subject: "Shipping details received, we're preparing your package",
		Body: "Hi {{influencerName}},\n\n" +
			"We've got your shipping details for {{shippingCity}}.\n" +
			"Our team is now selecting the product and preparing the design proof.\n" +
			"We'll be in touch once everything is ready for your sign-off.\n\n" +
			"Talk soon,\nThe partnerships team",
	},
	3: {
		Subject: "Your partnership contract is ready to sign",
		Body: "Hi {{influencerName}},\n\n" +
			"Preparation is done and your contract is ready.\n" +
			"Please review and sign it in your portal.\n\n" +
			"Talk soon,\nThe partnerships team",
	},
	4: {
		Subject: "Contract signed, your package ships next",
		Body: "Hi {{influencerName}},\n\n" +
			"Thanks for signing. Your package is heading to fulfilment and will\n" +
			"ship shortly. You'll receive tracking details and your personal\n" +
			"coupon code once it's on its way.\n\n" +
			"Talk soon,\nThe partnerships team",
	},
}

var defaultTemplate = Template{
	Subject: "Your partnership moved to {{stepName}}",
	Body: "Hi {{influencerName}},\n\n" +
		"Your partnership has moved to the {{stepName}} step.\n" +
		"Check your portal for anything we need from you.\n\n" +
		"Talk soon,\nThe partnerships team",
}

// TemplateForStep returns the notification template for a completed step,
// falling back to a generic one for steps without a dedicated template.
func TemplateForStep(completedStep int) Template {
	if tpl, ok := stepTemplates[completedStep]; ok {
		return tpl
	}
	return defaultTemplate
}
