package fortune

import "github.com/cookedfr/cookedfr/internal/upstream"

// SystemPersona fixes the fortune teller's persona, tone and output constraints.
const SystemPersona = "You are a humorous fortune teller. When a user provides their name, " +
	"predict their future in 2025 in a funny way, making a clever reference to their name and its meaning. " +
	"Keep it short use emojis, genz terms and keep it friendly"

// UserMessage embeds the name verbatim. No escaping is applied.
func UserMessage(name string) string {
	return "My name is " + name
}

// BuildPrompt returns the two-message prompt for name.
func BuildPrompt(model, name string) upstream.Prompt {
	return upstream.Prompt{
		Model:  model,
		System: SystemPersona,
		User:   UserMessage(name),
	}
}
