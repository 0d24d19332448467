package tracker

import "strings"

// adfNode is one node of an Atlassian Document Format tree.
type adfNode struct {
	Type    string    `json:"type"`
	Version int       `json:"version,omitempty"`
	Text    string    `json:"text,omitempty"`
	Content []adfNode `json:"content,omitempty"`
}

// toADF converts plain text to an ADF document.
// Blank lines separate paragraphs; single newlines become hard breaks.
func toADF(text string) adfNode {
	doc := adfNode{Type: "doc", Version: 1}

	text = strings.ReplaceAll(text, "\r\n", "\n")

	for _, block := range strings.Split(text, "\n\n") {
		block = strings.Trim(block, "\n")
		if strings.TrimSpace(block) == "" {
			continue
		}

		doc.Content = append(doc.Content, adfParagraph(block))
	}

	if len(doc.Content) == 0 {
		doc.Content = []adfNode{{Type: "paragraph"}}
	}

	return doc
}

func adfParagraph(block string) adfNode {
	para := adfNode{Type: "paragraph"}

	for i, line := range strings.Split(block, "\n") {
		if i > 0 {
			para.Content = append(para.Content, adfNode{Type: "hardBreak"})
		}

		if line == "" {
			continue
		}

		para.Content = append(para.Content, adfNode{Type: "text", Text: line})
	}

	return para
}

// plainText flattens an ADF tree back to text. Used when reading issues.
func plainText(n adfNode) string {
	var sb strings.Builder

	writePlain(&sb, n)

	return strings.TrimSpace(sb.String())
}

func writePlain(sb *strings.Builder, n adfNode) {
	switch n.Type {
	case "text":
		sb.WriteString(n.Text)
	case "hardBreak":
		sb.WriteString("\n")
	}

	for _, c := range n.Content {
		writePlain(sb, c)
	}

	if n.Type == "paragraph" {
		sb.WriteString("\n\n")
	}
}
