package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// Fixture reads testdata/<name> relative to the calling package.
func Fixture(t testing.TB, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("read fixture %s: %v", name, err)
	}
	return string(data)
}

// DecodeFixture unmarshals the JSON document testdata/<name> into v.
func DecodeFixture(t testing.TB, name string, v any) {
	t.Helper()
	if err := json.Unmarshal([]byte(Fixture(t, name)), v); err != nil {
		t.Fatalf("decode fixture %s: %v", name, err)
	}
}
