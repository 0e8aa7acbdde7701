package model

import (
	"strconv"
	"strings"
)

// Default prompt texts. The tool targets Polish-speaking children, so the
// persona instruction pins the output language.
const (
	DefaultSystemPrompt     = "Jesteś kreatywnym asystentem, który generuje pomysły na kolorowanki dla dzieci. Odpowiadaj tylko w języku polskim."
	DefaultIdeaPrompt       = "Wygeneruj {count} prostych i zabawnych pomysłów na kolorowanki związane z tematem: {topic}. Pomysły powinny być odpowiednie dla dzieci."
	DefaultImageStylePrefix = "Prosty czarno-biały rysunek dla dziecięcej kolorowanki: "
)

// Prompts holds the fixed instructions sent to the provider.
// IdeaPrompt may reference {topic} and {count}.
type Prompts struct {
	SystemPrompt     string `yaml:"system_prompt"`
	IdeaPrompt       string `yaml:"idea_prompt"`
	ImageStylePrefix string `yaml:"image_style_prefix"`
}

// DefaultPrompts returns the built-in prompt set.
func DefaultPrompts() Prompts {
	return Prompts{
		SystemPrompt:     DefaultSystemPrompt,
		IdeaPrompt:       DefaultIdeaPrompt,
		ImageStylePrefix: DefaultImageStylePrefix,
	}
}

// IdeaRequest renders the user instruction for a topic.
func (p Prompts) IdeaRequest(topic Topic) string {
	r := strings.NewReplacer("{count}", strconv.Itoa(IdeaCount), "{topic}", string(topic))
	return r.Replace(p.IdeaPrompt)
}

// ImagePrompt prefixes an idea with the coloring-page style instruction.
func (p Prompts) ImagePrompt(idea string) string {
	return p.ImageStylePrefix + idea
}
