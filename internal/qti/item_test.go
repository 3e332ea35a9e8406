package qti

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const choiceItem = `<?xml version="1.0" encoding="UTF-8"?>
<assessmentItem xmlns="http://www.imsglobal.org/xsd/imsqtiasi_v3p0" identifier="item-1" title="Heaps">
  <responseDeclaration identifier="RESPONSE" cardinality="single" baseType="identifier">
    <correctResponse><value>C</value></correctResponse>
  </responseDeclaration>
  <itemBody>
    <choiceInteraction responseIdentifier="RESPONSE" maxChoices="1">
      <prompt>Which structure backs a <b>priority queue</b>?</prompt>
      <simpleChoice identifier="A">Stack</simpleChoice>
      <simpleChoice identifier="B">Linked list</simpleChoice>
      <simpleChoice identifier="C">Binary heap</simpleChoice>
    </choiceInteraction>
  </itemBody>
</assessmentItem>`

func TestParseChoiceItem(t *testing.T) {
	it, err := ParseItem(strings.NewReader(choiceItem))
	require.NoError(t, err)
	assert.Equal(t, "item-1", it.ID)
	assert.Equal(t, "Which structure backs a priority queue?", it.Prompt)
	require.Len(t, it.Choices, 3)
	assert.Equal(t, Choice{ID: "C", Label: "Binary heap"}, it.Choices[2])

	tpl, err := it.Template()
	require.NoError(t, err)
	assert.Equal(t, []string{"Stack", "Linked list", "Binary heap"}, tpl.Options)
	assert.Equal(t, 2, tpl.AnswerIndex)
}

func TestPromptBeforeInteraction(t *testing.T) {
	doc := strings.Replace(choiceItem, `<choiceInteraction responseIdentifier="RESPONSE" maxChoices="1">
      <prompt>Which structure backs a <b>priority queue</b>?</prompt>`,
		`<p>Pick the  structure.</p><choiceInteraction responseIdentifier="RESPONSE" maxChoices="1">`, 1)
	it, err := ParseItem(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, "Pick the structure.", it.Prompt)
}

func TestTemplateErrors(t *testing.T) {
	multi := strings.Replace(choiceItem, `cardinality="single"`, `cardinality="multiple"`, 1)
	it, err := ParseItem(strings.NewReader(multi))
	require.NoError(t, err)
	_, err = it.Template()
	assert.ErrorIs(t, err, ErrNotChoice)

	noKey := strings.Replace(choiceItem, `<value>C</value>`, `<value>Z</value>`, 1)
	it, err = ParseItem(strings.NewReader(noKey))
	require.NoError(t, err)
	_, err = it.Template()
	assert.ErrorIs(t, err, ErrNoCorrectValue)
}

func TestParseRejectsNonChoice(t *testing.T) {
	doc := `<assessmentItem identifier="x"><itemBody><extendedTextInteraction responseIdentifier="R"/></itemBody></assessmentItem>`
	_, err := ParseItem(strings.NewReader(doc))
	assert.ErrorIs(t, err, ErrNotChoice)

	_, err = ParseItem(strings.NewReader("not xml"))
	assert.Error(t, err)
}
