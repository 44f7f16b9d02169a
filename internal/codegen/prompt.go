package codegen

import "fmt"

const (
	autoDetectedLanguage = "[AUTO DETECTED]"
	defaultInstructions  = "Fix all bugs and optimize for best practices."

	noCodePlaceholder  = "// No code generated."
	noFixesPlaceholder = "// No fixes generated."
)

func generatePrompt(prompt, language string) string {
	if language == "" {
		language = autoDetectedLanguage
	}
	return fmt.Sprintf("You are a brutal, expert-level AI programmer.\nGenerate clean, optimized %s code for:\n%s\n", language, prompt)
}

func fixPrompt(code, instructions string) string {
	if instructions == "" {
		instructions = defaultInstructions
	}
	return fmt.Sprintf("You are an expert senior developer.\nGiven this code:\n%s\n\nInstructions: %s", code, instructions)
}
