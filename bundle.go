package docframe

import "strings"

// BundleDocuments joins documents into one Markdown text, each under a
// "## Document:" header naming its title and path. Documents are separated
// by blank lines.
func BundleDocuments(docs []*Content) string {
	parts := make([]string, 0, len(docs))
	for _, doc := range docs {
		title := ExtractMetadata(strings.NewReader(doc.Content), doc.Path).Title
		parts = append(parts, "## Document: "+title+" ("+doc.Path+")\n"+strings.TrimRight(doc.Content, "\n"))
	}
	return strings.Join(parts, "\n\n")
}
