package analyser

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchesLanguage(t *testing.T) {
	t.Parallel()

	php := []string{"PHP"}
	assert.True(t, matchesLanguage("/x/Controller.php", php))
	assert.False(t, matchesLanguage("/x/main.go", php))
	assert.False(t, matchesLanguage("/x/README.md", php))
	assert.True(t, matchesLanguage("/x/main.go", nil), "no languages accepts everything")
}

func TestRelativeTo(t *testing.T) {
	t.Parallel()

	root := filepath.Join("/", "repo")
	assert.Equal(t, filepath.Join("vendor", "a.php"), relativeTo(root, filepath.Join(root, "vendor", "a.php")))
	assert.Equal(t, "/elsewhere/a.php", relativeTo(root, "/elsewhere/a.php"))
	assert.Equal(t, "/elsewhere/a.php", relativeTo("", "/elsewhere/a.php"))
}
