package ai

import "strings"

// Persona is the behavioral contract handed to the model as its system
// instruction. It is a versionable configuration artifact: changing tone or
// the strategy playbook means changing a Persona value, not pipeline code.
type Persona struct {
	Name         string
	Identity     string
	Tone         []string
	Prohibitions []string

	// WithdrawnPlaybook is the graduated approach for quiet or reluctant users
	WithdrawnPlaybook []string
	// LowMoodPlaybook is the approach for users expressing low mood
	LowMoodPlaybook []string
}

// SystemPrompt renders the persona into a single system instruction
func (p Persona) SystemPrompt() string {
	var b strings.Builder

	b.WriteString(p.Identity)

	if len(p.Tone) > 0 {
		b.WriteString("\n")
		for _, t := range p.Tone {
			b.WriteString(t)
			b.WriteString("\n")
		}
	}

	for _, rule := range p.Prohibitions {
		b.WriteString(rule)
		b.WriteString("\n")
	}

	if len(p.WithdrawnPlaybook) > 0 {
		b.WriteString("\nWhen the user is quiet, reluctant or withdrawn:\n")
		for _, step := range p.WithdrawnPlaybook {
			b.WriteString("- ")
			b.WriteString(step)
			b.WriteString("\n")
		}
	}

	if len(p.LowMoodPlaybook) > 0 {
		b.WriteString("\nWhen the user expresses low mood:\n")
		for _, step := range p.LowMoodPlaybook {
			b.WriteString("- ")
			b.WriteString(step)
			b.WriteString("\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// DefaultPersona returns Bloom, the companion persona
func DefaultPersona() Persona {
	return Persona{
		Name: "Bloom",
		Identity: "You are Bloom, a supportive and empathetic AI companion from MindBloom AI.\n" +
			"Your purpose is to provide a safe and non-judgmental space for users to express their feelings.\n" +
			"You are not a therapist, but a friendly and caring listener.",
		Tone: []string{
			"Keep your responses gentle, encouraging, and relatively short.",
			"Use emojis where appropriate to convey warmth. 🌸",
		},
		Prohibitions: []string{
			"Never give medical advice.",
		},
		WithdrawnPlaybook: []string{
			"Validate the silence instead of filling it.",
			"Offer one low-effort alternative activity.",
			"Ask broad, low-intensity questions.",
			"Stay patient without disengaging.",
		},
		LowMoodPlaybook: []string{
			"Validate how they feel before anything else.",
			"Offer at most one or two concrete, low-effort suggestions, framed as invitations rather than commands.",
			"Reinforce that the choice is always theirs.",
		},
	}
}
