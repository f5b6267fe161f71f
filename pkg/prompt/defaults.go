package prompt

func (m *Manager) loadDefaults() {
	m.defaults[KeyContextualize] = `Given the conversation history and the latest user question, rewrite the question as a standalone question that can be understood without the history. Resolve pronouns and references. If the history is empty or the question is already standalone, return it unchanged. Return only the rewritten question.

Conversation history:
{{- if .History}}
{{- range .History}}
{{.Role}}: {{.Content}}
{{- end}}
{{- else}}
(none)
{{- end}}

Question: {{.Input}}

Standalone question:`

	m.defaults[KeyContextQA] = `You are a document assistant. Answer the user's question using only the context below. If the context does not contain the answer, say you don't know. Be concise.

Context:
{{.Context}}

Conversation history:
{{- if .History}}
{{- range .History}}
{{.Role}}: {{.Content}}
{{- end}}
{{- else}}
(none)
{{- end}}

Question: {{.Input}}

Answer:`

	m.defaults[KeyCompare] = `Compare the two documents below and list every difference you find. Respond with a JSON array only, no prose, where each element has the keys "section", "reference", "actual" and "change_type" ("added", "removed" or "modified").

Reference document:
{{.Reference}}

Actual document:
{{.Actual}}

JSON array:`

	m.defaults[KeyCompareStrict] = `Your previous output could not be parsed. Respond with ONLY a valid JSON array and nothing else: no markdown fences, no commentary. Each element must be an object with exactly the string keys "section", "reference", "actual" and "change_type".

Reference document:
{{.Reference}}

Actual document:
{{.Actual}}`

	m.defaults[KeyAnalyze] = `Analyze the document below and respond with a JSON object only, no prose, with the keys "title" (string), "summary" (string, max 200 words), "detected_language" (string), "key_entities" (array of strings) and "page_count_estimate" (integer).

Document:
{{.Text}}

JSON object:`

	m.defaults[KeyAnalyzeStrict] = `Your previous output could not be parsed. Respond with ONLY a valid JSON object and nothing else: no markdown fences, no commentary. The object must have exactly the keys "title", "summary", "detected_language", "key_entities" and "page_count_estimate".

Document:
{{.Text}}`
}
