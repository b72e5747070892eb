package markdown

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"

	"github.com/rogersnm/todos/internal/model"
)

// ChecklistMeta is the YAML frontmatter of an exported checklist.
type ChecklistMeta struct {
	Title      string           `yaml:"title"`
	ExportedAt time.Time        `yaml:"exported_at"`
	Filter     model.FilterMode `yaml:"filter,omitempty"`
	Total      int              `yaml:"total"`
	Completed  int              `yaml:"completed"`
	Pending    int              `yaml:"pending"`
}

type ChecklistItem struct {
	Text      string
	Completed bool
}

type Checklist struct {
	Meta  ChecklistMeta
	Items []ChecklistItem
}

var itemPattern = regexp.MustCompile(`^\s*[-*+]\s+\[([ xX])\]\s+(.*\S)\s*$`)

// NewChecklist builds a checklist from tasks, keeping their order.
func NewChecklist(title string, tasks []model.Task, mode model.FilterMode, s model.Stats, at time.Time) Checklist {
	c := Checklist{
		Meta: ChecklistMeta{
			Title:      title,
			ExportedAt: at.UTC().Truncate(time.Second),
			Filter:     mode,
			Total:      s.Total,
			Completed:  s.Completed,
			Pending:    s.Pending,
		},
		Items: make([]ChecklistItem, len(tasks)),
	}
	for i, t := range tasks {
		c.Items[i] = ChecklistItem{Text: t.Text, Completed: t.Completed}
	}
	return c
}

// Body returns the markdown list without frontmatter.
func (c Checklist) Body() string {
	var sb strings.Builder
	if c.Meta.Title != "" {
		sb.WriteString("# " + c.Meta.Title + "\n\n")
	}
	if len(c.Items) == 0 {
		sb.WriteString("_" + Placeholder + "_\n")
		return sb.String()
	}
	for _, it := range c.Items {
		text := strings.Join(strings.Fields(it.Text), " ")
		sb.WriteString("- " + checkbox(it.Completed) + " " + text + "\n")
	}
	return sb.String()
}

// Marshal serializes the checklist as YAML frontmatter followed by the list.
func (c Checklist) Marshal() ([]byte, error) {
	yamlBytes, err := yaml.Marshal(c.Meta)
	if err != nil {
		return nil, fmt.Errorf("marshaling frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(yamlBytes)
	buf.WriteString("---\n\n")
	buf.WriteString(c.Body())
	return buf.Bytes(), nil
}

// ParseChecklist reads a checklist. Frontmatter is optional; lines that are
// not checklist items are ignored.
func ParseChecklist(r io.Reader) (Checklist, error) {
	var c Checklist
	body, err := frontmatter.Parse(r, &c.Meta)
	if err != nil {
		return Checklist{}, fmt.Errorf("parsing frontmatter: %w", err)
	}

	sc := bufio.NewScanner(bytes.NewReader(body))
	for sc.Scan() {
		m := itemPattern.FindStringSubmatch(sc.Text())
		if m == nil {
			continue
		}
		c.Items = append(c.Items, ChecklistItem{
			Text:      m[2],
			Completed: m[1] != " ",
		})
	}
	if err := sc.Err(); err != nil {
		return Checklist{}, fmt.Errorf("reading checklist: %w", err)
	}
	return c, nil
}
