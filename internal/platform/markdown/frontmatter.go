package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const separator = "---\n"

// SplitFrontmatter decodes the leading YAML block into out and returns the
// remaining body. Content without frontmatter is returned untouched and
// found is false.
func SplitFrontmatter(content string, out any) (body string, found bool, err error) {
	if !strings.HasPrefix(content, separator) {
		return content, false, nil
	}
	rest := strings.TrimPrefix(content, separator)
	idx := strings.Index(rest, "\n"+separator)
	if idx < 0 {
		return "", false, fmt.Errorf("invalid frontmatter: missing closing separator")
	}
	raw := rest[:idx]
	body = rest[idx+len("\n"+separator):]
	if out != nil {
		if err := yaml.Unmarshal([]byte(raw), out); err != nil {
			return "", false, fmt.Errorf("unmarshal frontmatter: %w", err)
		}
	}
	return body, true, nil
}

func RenderFrontmatter(meta any, body string) (string, error) {
	raw, err := yaml.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("marshal frontmatter: %w", err)
	}
	buf := bytes.Buffer{}
	buf.WriteString(separator)
	buf.Write(raw)
	buf.WriteString(separator)
	if !strings.HasPrefix(body, "\n") {
		buf.WriteString("\n")
	}
	buf.WriteString(body)
	return buf.String(), nil
}
