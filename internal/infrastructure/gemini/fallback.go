package gemini

import (
	"fmt"
	"strings"
)

// FallbackBios is used when the model is not configured or fails.
func FallbackBios(in BioInput) []string {
	role := in.Role
	if role == "" {
		role = "builder"
	}
	skills := joinFirst(in.Skills, 3, "a bit of everything")
	interests := joinFirst(in.Interests, 2, "new ideas")
	wanted := joinFirst(in.LookingFor, 2, "people who ship")

	return []string{
		fmt.Sprintf("%s here, a %s working with %s. Looking for %s.", in.DisplayName, role, skills, wanted),
		fmt.Sprintf("I like %s and building things with %s. Let's start something together.", interests, skills),
		fmt.Sprintf("%s who enjoys %s. Open to side projects with %s.", strings.ToUpper(role[:1])+role[1:], interests, wanted),
	}
}

func FallbackIcebreakers(me, them Brief) []string {
	out := make([]string, 0, 3)
	if shared := intersect(me.Interests, them.Interests); len(shared) > 0 {
		out = append(out, fmt.Sprintf("We're both into %s. What got you started?", shared[0]))
	}
	if len(them.Skills) > 0 {
		out = append(out, fmt.Sprintf("How did you get into %s? I'd love to pair on something with it.", them.Skills[0]))
	}
	out = append(out, "What are you building right now?")
	if len(out) < 3 {
		out = append(out, "If we had one weekend to ship something, what would it be?")
	}
	return out
}

func joinFirst(items []string, n int, empty string) string {
	if len(items) == 0 {
		return empty
	}
	if len(items) > n {
		items = items[:n]
	}
	return strings.Join(items, ", ")
}

func intersect(a, b []string) []string {
	seen := make(map[string]struct{}, len(a))
	for _, item := range a {
		seen[strings.ToLower(item)] = struct{}{}
	}
	var out []string
	for _, item := range b {
		if _, ok := seen[strings.ToLower(item)]; ok {
			out = append(out, item)
		}
	}
	return out
}
