package qti

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mind-engage/mindengage-portal/internal/quizbank"
)

var (
	ErrNotChoice      = errors.New("qti: item is not a single-choice interaction")
	ErrNoCorrectValue = errors.New("qti: correct response does not match any choice")
)

type assessmentItem struct {
	XMLName      xml.Name            `xml:"assessmentItem"`
	Identifier   string              `xml:"identifier,attr"`
	Title        string              `xml:"title,attr"`
	Body         itemBody            `xml:"itemBody"`
	ResponseDecl responseDeclaration `xml:"responseDeclaration"`
}
type itemBody struct {
	RawXML string `xml:",innerxml"`
}
type responseDeclaration struct {
	Identifier  string `xml:"identifier,attr"`
	Cardinality string `xml:"cardinality,attr"` // single|multiple
	Correct     struct {
		Values []string `xml:"value"`
	} `xml:"correctResponse"`
}

// Item is the subset of a QTI 3 assessmentItem the portal can turn into a
// question template.
type Item struct {
	ID        string
	Title     string
	Prompt    string
	Multiple  bool
	Choices   []Choice
	AnswerKey []string
}

type Choice struct {
	ID    string
	Label string // text only, markup stripped
}

// ParseItem reads one assessmentItem document.
func ParseItem(r io.Reader) (Item, error) {
	var it assessmentItem
	if err := xml.NewDecoder(r).Decode(&it); err != nil {
		return Item{}, fmt.Errorf("qti: decode item: %w", err)
	}
	body := strings.ToLower(it.Body.RawXML)
	if !strings.Contains(body, "<choiceinteraction") {
		return Item{}, ErrNotChoice
	}
	return Item{
		ID:        it.Identifier,
		Title:     it.Title,
		Prompt:    extractPrompt(it.Body.RawXML),
		Multiple:  it.ResponseDecl.Cardinality == "multiple",
		Choices:   extractChoices(it.Body.RawXML),
		AnswerKey: it.ResponseDecl.Correct.Values,
	}, nil
}

// Template maps a single-choice item onto a question template.
func (it Item) Template() (quizbank.QuestionTemplate, error) {
	if it.Multiple {
		return quizbank.QuestionTemplate{}, ErrNotChoice
	}
	t := quizbank.QuestionTemplate{Text: it.Prompt, AnswerIndex: -1}
	if t.Text == "" {
		t.Text = it.Title
	}
	for i, c := range it.Choices {
		t.Options = append(t.Options, c.Label)
		if len(it.AnswerKey) > 0 && c.ID == strings.TrimSpace(it.AnswerKey[0]) {
			t.AnswerIndex = i
		}
	}
	if t.AnswerIndex < 0 {
		return quizbank.QuestionTemplate{}, ErrNoCorrectValue
	}
	return t, nil
}

// extractPrompt returns the text that precedes the interaction. A <prompt>
// inside the interaction wins when present.
func extractPrompt(inner string) string {
	l := strings.ToLower(inner)
	if s := strings.Index(l, "<prompt"); s != -1 {
		if e := strings.Index(l[s:], "</prompt>"); e != -1 {
			seg := inner[s : s+e+len("</prompt>")]
			return textOf(seg)
		}
	}
	idx := strings.Index(l, "<choiceinteraction")
	if idx == -1 {
		return textOf(inner)
	}
	return textOf(inner[:idx])
}

// Extract choices as <simpleChoice identifier="A">Label</simpleChoice>
func extractChoices(inner string) []Choice {
	out := []Choice{}
	dec := xml.NewDecoder(strings.NewReader(inner))
	dec.Strict = false
	for {
		t, err := dec.Token()
		if err != nil {
			break
		}
		se, ok := t.(xml.StartElement)
		if !ok || !strings.EqualFold(se.Name.Local, "simpleChoice") {
			continue
		}
		var id string
		for _, a := range se.Attr {
			if strings.EqualFold(a.Name.Local, "identifier") {
				id = a.Value
				break
			}
		}
		var text struct {
			Inner string `xml:",innerxml"`
		}
		if err := dec.DecodeElement(&text, &se); err == nil {
			out = append(out, Choice{ID: id, Label: textOf(text.Inner)})
		}
	}
	return out
}

// textOf drops markup and collapses whitespace.
func textOf(fragment string) string {
	dec := xml.NewDecoder(strings.NewReader("<x>" + fragment + "</x>"))
	dec.Strict = false
	var b strings.Builder
	for {
		t, err := dec.Token()
		if err != nil {
			break
		}
		if cd, ok := t.(xml.CharData); ok {
			b.Write(cd)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
