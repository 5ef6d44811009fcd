package compose

import (
	"fmt"
	"strings"

	"github.com/poiesic/staffer/core"
)

const followUp = "Would you like more details about any candidate or shall I check their availability for meetings?"

// FormatCandidates renders candidates as a numbered listing, one per line.
func FormatCandidates(candidates []core.RankedCandidate) string {
	lines := make([]string, len(candidates))
	for i, c := range candidates {
		p := c.Profile
		lines[i] = fmt.Sprintf("%d. %s - %d years. Projects: %s. Skills: %s. Availability: %s.",
			i+1, p.Name, p.ExperienceYears,
			strings.Join(p.Projects, ", "),
			strings.Join(p.Skills, ", "),
			availability(p))
	}
	return strings.Join(lines, "\n")
}

// BuildPrompt returns the single user message sent to the generator.
func BuildPrompt(query string, candidates []core.RankedCandidate) string {
	return fmt.Sprintf(`You are a helpful HR assistant. User query: "%s"

Top candidates:
%s

Write a professional response recommending these candidates. Mention years of experience, relevant projects and skills, and availability. End with a follow-up question asking if the user wants more details or to schedule meetings.`,
		query, FormatCandidates(candidates))
}

// Template renders the deterministic answer used when no generator reply is available.
func Template(query string, candidates []core.RankedCandidate) string {
	if len(candidates) == 0 {
		return fmt.Sprintf("Sorry, I couldn't find anyone matching: \"%s\". Could you provide more details or relax some constraints?", query)
	}

	lines := make([]string, 0, len(candidates)+2)
	lines = append(lines, fmt.Sprintf("Based on your requirements for \"%s\", I found %d candidate(s):\n", query, len(candidates)))
	for _, c := range candidates {
		p := c.Profile
		name := "**" + p.Name + "**"
		if p.Role != "" {
			name += " (" + p.Role + ")"
		}
		lines = append(lines, fmt.Sprintf(
			"%s has %d years of experience and worked on projects like %s. Key skills: %s. Availability: %s.\n",
			name, p.ExperienceYears,
			strings.Join(p.Projects, ", "),
			strings.Join(p.Skills, ", "),
			availability(p)))
	}
	lines = append(lines, followUp)
	return strings.Join(lines, "\n")
}

func availability(p core.Profile) string {
	if p.Availability == "" {
		return "unknown"
	}
	return p.Availability
}
