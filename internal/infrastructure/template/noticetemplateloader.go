package template

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/leadhub/leadhub/internal/domain/notification"
	"github.com/leadhub/leadhub/internal/shared/logger"
)

//go:embed defaults/*.md
var defaultTemplates embed.FS

const subjectPrefix = "Subject:"

// NoticeData is the view model passed to every notice template.
type NoticeData struct {
	VendorName string
	PlanName   string
	ExpiryDate string
	RenewURL   string
}

// RenderedNotice is a template rendered into a subject line and a markdown body.
type RenderedNotice struct {
	Subject  string
	Markdown string
}

// NoticeTemplateLoader loads the markdown templates of lifecycle notices.
// Files named custom.{kind}.md in the configured directory override the
// built-in defaults.
type NoticeTemplateLoader struct {
	templates map[notification.Kind]*template.Template
	path      string
	logger    logger.Interface
}

func NewNoticeTemplateLoader(path string, logger logger.Interface) *NoticeTemplateLoader {
	return &NoticeTemplateLoader{
		templates: make(map[notification.Kind]*template.Template),
		path:      path,
		logger:    logger,
	}
}

// Load parses the default templates and any overrides. It fails only when a
// template does not parse.
func (l *NoticeTemplateLoader) Load() error {
	for _, kind := range []notification.Kind{notification.KindRenewalReminder, notification.KindExpirationWarning} {
		content, source, err := l.read(kind)
		if err != nil {
			return err
		}

		tmpl, err := template.New(kind.String()).Option("missingkey=error").Parse(content)
		if err != nil {
			return fmt.Errorf("failed to parse %s template from %s: %w", kind, source, err)
		}
		l.templates[kind] = tmpl

		l.logger.Debugw("loaded notice template", "kind", kind, "source", source)
	}
	return nil
}

func (l *NoticeTemplateLoader) read(kind notification.Kind) (string, string, error) {
	if l.path != "" {
		filePath := filepath.Join(l.path, fmt.Sprintf("custom.%s.md", kind))
		content, err := os.ReadFile(filePath)
		if err == nil {
			return string(content), filePath, nil
		}
		if !os.IsNotExist(err) {
			l.logger.Warnw("failed to read template file", "file", filePath, "error", err)
		}
	}

	name := fmt.Sprintf("defaults/%s.md", kind)
	content, err := defaultTemplates.ReadFile(name)
	if err != nil {
		return "", "", fmt.Errorf("missing default template for %s: %w", kind, err)
	}
	return string(content), name, nil
}

// Render executes the template of kind. The first line must be "Subject: ...".
func (l *NoticeTemplateLoader) Render(kind notification.Kind, data NoticeData) (*RenderedNotice, error) {
	tmpl, ok := l.templates[kind]
	if !ok {
		return nil, fmt.Errorf("no template loaded for %s", kind)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render %s template: %w", kind, err)
	}

	first, body, _ := strings.Cut(buf.String(), "\n")
	if !strings.HasPrefix(first, subjectPrefix) {
		return nil, fmt.Errorf("%s template must start with a %q line", kind, subjectPrefix)
	}

	return &RenderedNotice{
		Subject:  strings.TrimSpace(strings.TrimPrefix(first, subjectPrefix)),
		Markdown: strings.TrimSpace(body),
	}, nil
}
