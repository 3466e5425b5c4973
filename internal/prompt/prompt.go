// Package prompt embeds the instruction templates sent to the chat,
// image and QA providers.
package prompt

import (
	_ "embed"
	"fmt"
	"strings"
)

var (
	//go:embed templates/chat_system.txt
	ChatSystem string

	//go:embed templates/chat_user.txt
	ChatUser string

	//go:embed templates/image_enhancement.txt
	ImageEnhancement string

	//go:embed templates/qa_system.txt
	QASystem string

	//go:embed templates/qa_user.txt
	QAUser string
)

// Render replaces {{key}} placeholders in a template string.
func Render(template string, vars map[string]string) string {
	result := template
	for key, value := range vars {
		result = strings.ReplaceAll(result, fmt.Sprintf("{{%s}}", key), value)
	}
	return result
}
