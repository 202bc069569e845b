package github

import (
	"fmt"
	"strings"
)

// FormatOptions controls FormatComments.
type FormatOptions struct {
	// Unresolved drops resolved review threads.
	Unresolved bool
}

// FormatComments renders PR comments as Markdown, ready to paste into an
// editor or an assistant prompt.
func FormatComments(pr *PRComments, opts FormatOptions) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s#%d: %s\n\n", pr.Repo, pr.Number, pr.Title)
	fmt.Fprintf(&b, "%s · %s · by @%s\n", pr.URL, FormatState(pr.State), pr.Author)

	var reviews []Review
	for _, r := range pr.Reviews {
		if strings.TrimSpace(r.Body) != "" {
			reviews = append(reviews, r)
		}
	}
	if len(reviews) > 0 {
		b.WriteString("\n## Reviews\n")
		for _, r := range reviews {
			fmt.Fprintf(&b, "\n**@%s** %s (%s)\n\n%s\n", r.Author, strings.ToLower(r.State), r.SubmittedAt.Format("2006-01-02"), strings.TrimSpace(r.Body))
		}
	}

	if len(pr.Comments) > 0 {
		b.WriteString("\n## Conversation\n")
		for _, c := range pr.Comments {
			writeComment(&b, c)
		}
	}

	threads := pr.Threads
	if opts.Unresolved {
		threads = nil
		for _, t := range pr.Threads {
			if !t.Resolved {
				threads = append(threads, t)
			}
		}
	}
	if len(threads) > 0 {
		b.WriteString("\n## Review threads\n")
		for _, t := range threads {
			loc := t.Path
			if t.Line > 0 {
				loc = fmt.Sprintf("%s:%d", t.Path, t.Line)
			}
			var flags []string
			if t.Resolved {
				flags = append(flags, "resolved")
			}
			if t.Outdated {
				flags = append(flags, "outdated")
			}
			fmt.Fprintf(&b, "\n### `%s`", loc)
			if len(flags) > 0 {
				fmt.Fprintf(&b, " (%s)", strings.Join(flags, ", "))
			}
			b.WriteString("\n")
			for _, c := range t.Comments {
				writeComment(&b, c)
			}
		}
	}

	if len(reviews) == 0 && len(pr.Comments) == 0 && len(threads) == 0 {
		b.WriteString("\nNo comments.\n")
	}
	return b.String()
}

func writeComment(b *strings.Builder, c Comment) {
	fmt.Fprintf(b, "\n**@%s** (%s)\n\n%s\n", c.Author, c.CreatedAt.Format("2006-01-02 15:04"), strings.TrimSpace(c.Body))
}
