package mcpserver

import (
	"fmt"
	"strings"

	"github.com/starford/vitrine/internal/content"
	"github.com/starford/vitrine/internal/icon"
)

const contractHead = `# Vitrine Content Contract

The site reads two collections from the content API: the configuration
records (` + "`key` / `value`" + ` pairs) and the expertise cards. Every field is
optional; anything missing or malformed falls back to a built-in default.

## Configuration keys

| Key | Value |
|-----|-------|
| ` + "`hero_image`" + ` | ` + "`{\"path\": \"/uploads/hero.jpg\"}`" + ` |
| ` + "`general_info`" + ` | ` + "`{\"name\": \"...\", \"crp\": \"...\"}`" + ` |
| ` + "`about_section`" + ` | ` + "`{\"title\", \"subtitle\", \"description\"}`" + ` |
| ` + "`about_credentials`" + ` | list of ` + "`{id, title, subtitle, gradient, isActive, order}`" + ` |
| ` + "`specialization_section`" + ` | ` + "`{\"title\", \"subtitle\", \"description\"}`" + ` |

If a key appears more than once, the last record wins.

## Lists

Cards and credentials with ` + "`isActive: false`" + ` are hidden. The rest are
sorted by ` + "`order`" + ` ascending; a missing order counts as 0 and ties keep
their upstream order. The specialization section is hidden entirely when no
card is active.

## Gradient markup

Titles and card texts may wrap words in parentheses to render them with the
accent gradient: ` + "`Minhas (especialidades)`" + `. Groups cannot nest. Text with
unbalanced or nested parentheses, and empty groups ` + "`()`" + `, render as plain text.
`

// ContentContract describes the content editors can publish: keys, list
// rules, markup and the accepted icon names.
func ContentContract() string {
	var b strings.Builder
	b.WriteString(contractHead)
	fmt.Fprintf(&b, "\n## Defaults\n\n- name: %s\n- crp: %s\n- about title: %s\n- specialization title: %s\n",
		content.DefaultName, content.DefaultCRP, content.DefaultAboutTitle, content.DefaultSpecializationTitle)
	fmt.Fprintf(&b, "\n## Icons\n\nExpertise cards accept: %s.\n", joinNames(icon.Core.Names()))
	fmt.Fprintf(&b, "The about section also accepts: %s.\n", joinNames(extendedOnly()))
	fmt.Fprintf(&b, "Any other name renders as %s.\n", icon.Default)
	return b.String()
}

func extendedOnly() []icon.Name {
	var out []icon.Name
	for _, n := range icon.Extended.Names() {
		if !icon.Core.Contains(n) {
			out = append(out, n)
		}
	}
	return out
}

func joinNames(names []icon.Name) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = "`" + string(n) + "`"
	}
	return strings.Join(parts, ", ")
}
