package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateHookScript(t *testing.T) {
	script := generateHookScript("text", nil)

	assert.Contains(t, script, hookMarkerStart)
	assert.Contains(t, script, hookMarkerEnd)
	assert.Contains(t, script, "lintgate analyze --staged --format text\n")
	assert.Contains(t, script, "LINTGATE_EXIT=$?")
	assert.Contains(t, script, "exit 1")
	assert.Contains(t, script, "allowing commit")
}

func TestGenerateHookScript_CustomFlags(t *testing.T) {
	script := generateHookScript("markdown", []string{"phpcs", "phpmd"})

	assert.Contains(t, script, "--format markdown")
	assert.Contains(t, script, "--tools phpcs,phpmd")
}

func TestReplaceHookSection_NoExisting(t *testing.T) {
	existing := "#!/bin/sh\nsome-other-hook\n"
	section := generateHookScript("text", nil)

	result := replaceHookSection(existing, section)

	assert.Equal(t, existing+section, result)
}

func TestReplaceHookSection_ExistingSection(t *testing.T) {
	oldSection := generateHookScript("text", nil)
	existing := "#!/bin/sh\nbefore\n" + oldSection + "after\n"
	newSection := generateHookScript("csv", []string{"phpcs"})

	result := replaceHookSection(existing, newSection)

	assert.Equal(t, "#!/bin/sh\nbefore\n"+newSection+"after\n", result)
	assert.NotContains(t, result, "--format text")
}

func TestReplaceHookSection_NoTrailingNewline(t *testing.T) {
	existing := "#!/bin/sh\nsome-hook"
	section := generateHookScript("text", nil)

	result := replaceHookSection(existing, section)

	assert.Equal(t, existing+"\n"+section, result)
}

func TestRemoveHookSection(t *testing.T) {
	section := generateHookScript("text", nil)
	existing := "#!/bin/sh\nbefore\n" + section + "after\n"

	result := removeHookSection(existing)

	assert.Equal(t, "#!/bin/sh\nbefore\nafter\n", result)
}

func TestRemoveHookSection_NoSection(t *testing.T) {
	existing := "#!/bin/sh\nsome-hook\n"
	assert.Equal(t, existing, removeHookSection(existing))
}
