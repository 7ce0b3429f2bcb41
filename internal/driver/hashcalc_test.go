package driver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ophelia/internal/driver"
	"ophelia/internal/version"
)

func TestCacheKeyFollowsCompilerVersion(t *testing.T) {
	content := []byte("int main() { return 0; }\n")
	before := driver.CacheKey(content, true)

	saved := version.Version
	t.Cleanup(func() { version.Version = saved })
	version.Version = saved + "+dirty"

	assert.NotEqual(t, before, driver.CacheKey(content, true))
}

func TestCacheKeyIsNotPlainContentHash(t *testing.T) {
	content := []byte("int main() { return 0; }\n")
	key := driver.CacheKey(content, false)
	assert.NotEqual(t, driver.Digest{}, key)
	assert.NotEqual(t, driver.CacheKey(nil, false), key)
}
