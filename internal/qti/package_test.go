package qti

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const manifest = `<?xml version="1.0" encoding="UTF-8"?>
<manifest identifier="pkg-1">
  <resources>
    <resource identifier="r1" type="imsqti_item_xmlv3p0" href="items/heaps.xml"/>
    <resource identifier="r2" type="imsqti_item_xmlv3p0" href="items/essay.xml"/>
    <resource identifier="r3" type="imsqti_item_xmlv3p0" href="items/multi.xml"/>
    <resource identifier="r4" type="imsqti_item_xmlv3p0" href="items/missing.xml"/>
    <resource identifier="r5" type="webcontent" href="media/logo.png"/>
  </resources>
</manifest>`

const essayItem = `<assessmentItem identifier="essay-1" title="Essay">
  <itemBody><extendedTextInteraction responseIdentifier="RESPONSE"/></itemBody>
</assessmentItem>`

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestParsePackage(t *testing.T) {
	b := buildZip(t, map[string]string{
		"imsmanifest.xml": manifest,
		"items/heaps.xml": choiceItem,
		"items/essay.xml": essayItem,
		"items/multi.xml": strings.Replace(choiceItem, `cardinality="single"`, `cardinality="multiple"`, 1),
		"media/logo.png":  "png",
	})
	require.True(t, IsPackage(b))

	items, skipped, err := ParsePackage(bytes.NewReader(b), int64(len(b)))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "item-1", items[0].ID)

	hrefs := []string{}
	for _, s := range skipped {
		hrefs = append(hrefs, s.Href)
	}
	assert.Equal(t, []string{"items/essay.xml", "items/missing.xml"}, hrefs)

	tpls, bad := Templates(items)
	require.Len(t, tpls, 1)
	assert.Equal(t, 2, tpls[0].AnswerIndex)
	require.Len(t, bad, 1)
	assert.Contains(t, bad[0].Reason, "single-choice")
}

func TestParsePackageWithoutManifest(t *testing.T) {
	b := buildZip(t, map[string]string{"items/heaps.xml": choiceItem})
	_, _, err := ParsePackage(bytes.NewReader(b), int64(len(b)))
	assert.ErrorIs(t, err, ErrNoManifest)

	assert.False(t, IsPackage([]byte(choiceItem)))
}
