package emails

import (
	"strings"
	"testing"
)

func TestRenderSubstitutesVariables(t *testing.T) {
	tpl := Template{
		Subject: "Hello {{influencerName}}",
		Body:    "Price: {{ agreedPrice }} for {{influencerName}}",
	}
	subject, body := tpl.Render(map[string]string{
		"influencerName": "Jamie",
		"agreedPrice":    "500.00",
	})
	if subject != "Hello Jamie" {
		t.Fatalf("unexpected subject %q", subject)
	}
	if body != "Price: 500.00 for Jamie" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestRenderUnknownPlaceholderBecomesEmpty(t *testing.T) {
	tpl := Template{Subject: "Hi {{unknownVar}}!", Body: "{{alsoUnknown}}"}
	subject, body := tpl.Render(nil)
	if subject != "Hi !" {
		t.Fatalf("unknown placeholder must render empty, got %q", subject)
	}
	if body != "" {
		t.Fatalf("unknown placeholder must render empty, got %q", body)
	}
}

func TestTemplateForStepHasDedicatedTemplates(t *testing.T) {
	for step := 1; step <= 4; step++ {
		tpl := TemplateForStep(step)
		if tpl.Subject == defaultTemplate.Subject {
			t.Fatalf("step %d should have a dedicated template", step)
		}
	}
}

func TestTemplateForStepFallsBackToDefault(t *testing.T) {
	tpl := TemplateForStep(42)
	subject, _ := tpl.Render(map[string]string{"stepName": "Contract"})
	if !strings.Contains(subject, "Contract") {
		t.Fatalf("fallback template should use stepName, got %q", subject)
	}
}

func TestContractReadyTemplateNeedsNoStepFourFields(t *testing.T) {
	// When step 3 completes the contract URL is not set yet, so the template
	// must not depend on it.
	tpl := TemplateForStep(3)
	_, body := tpl.Render(map[string]string{"influencerName": "Jamie"})
	if strings.Contains(body, "here: \n") || strings.Contains(body, ": \n") {
		t.Fatalf("contract-ready body renders a dangling link, got %q", body)
	}
	if !strings.Contains(body, "portal") {
		t.Fatalf("contract-ready body should direct to the portal, got %q", body)
	}
}
