// Package docs embeds the user manual shown by 'pfd topic'.
package docs

import (
	"bufio"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
)

//go:embed *.md
var manual embed.FS

// Overview is the topic shown when none is asked for. It is not listed among
// the topics.
const Overview = "readme"

// All expands to every listed topic.
const All = "*"

// GetTopic returns the markdown of a documentation topic.
func GetTopic(topic string) (string, error) {
	if topic == All {
		return GetTopics(All)
	}
	content, err := manual.ReadFile(topic + ".md")
	if err != nil {
		return "", fmt.Errorf("topic %q not found: %w", topic, err)
	}
	return string(content), nil
}

// GetTopics concatenates the given topics, in order, separated by a blank line.
func GetTopics(topics ...string) (string, error) {
	var names []string
	for _, topic := range topics {
		if topic != All {
			names = append(names, topic)
			continue
		}
		all, err := GetAllTopics()
		if err != nil {
			return "", err
		}
		names = append(names, all...)
	}

	var b strings.Builder
	for _, name := range names {
		content, err := GetTopic(name)
		if err != nil {
			return "", err
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// GetAllTopics lists the topics in alphabetical order.
func GetAllTopics() ([]string, error) {
	files, err := fs.Glob(manual, "*.md")
	if err != nil {
		return nil, err
	}
	var topics []string
	for _, file := range files {
		if topic := strings.TrimSuffix(path.Base(file), ".md"); topic != Overview {
			topics = append(topics, topic)
		}
	}
	slices.Sort(topics)
	return topics, nil
}

// Title returns the first heading of a topic, or the topic name when it has
// none.
func Title(topic string) string {
	content, err := GetTopic(topic)
	if err != nil {
		return topic
	}
	sc := bufio.NewScanner(strings.NewReader(content))
	for sc.Scan() {
		if line := sc.Text(); strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	return topic
}
