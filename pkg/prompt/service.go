// Package prompt holds the portal's prompt templates and renders them
// with text/template.
package prompt

import (
	"bytes"
	"fmt"
	"sync"
	"text/template"
)

// Template keys used by the portal.
const (
	KeyContextualize = "contextualize_question"
	KeyContextQA     = "context_qa"
	KeyCompare       = "document_compare"
	KeyCompareStrict = "document_compare_strict"
	KeyAnalyze       = "document_analysis"
	KeyAnalyzeStrict = "document_analysis_strict"
)

// Manager handles prompt registration, overrides, and rendering.
type Manager struct {
	mu       sync.RWMutex
	prompts  map[string]string
	defaults map[string]string
}

func NewManager() *Manager {
	m := &Manager{
		prompts:  make(map[string]string),
		defaults: make(map[string]string),
	}
	m.loadDefaults()
	return m
}

// SetPrompt overrides a template, default or new.
func (m *Manager) SetPrompt(key, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts[key] = content
}

// Get returns the effective template content for a key.
func (m *Manager) Get(key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.prompts[key]; ok {
		return p
	}
	return m.defaults[key]
}

// Render fills a template with the provided data.
func (m *Manager) Render(key string, data interface{}) (string, error) {
	content := m.Get(key)
	if content == "" {
		return "", fmt.Errorf("prompt template not found for key: %s", key)
	}

	tmpl, err := template.New(key).Parse(content)
	if err != nil {
		return "", fmt.Errorf("parsing prompt template %s: %w", key, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering prompt template %s: %w", key, err)
	}
	return buf.String(), nil
}
